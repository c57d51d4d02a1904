package chat

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Message is a single transcript entry.
type Message struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Sender string `json:"sender"`
}

// Handler exposes the chat HTTP endpoint.
type Handler struct {
	Session *Session
}

// Send handles POST /api/chat.
func (h Handler) Send(w http.ResponseWriter, r *http.Request) {
	if h.Session == nil {
		http.Error(w, "chat inactive", http.StatusServiceUnavailable)
		return
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	reply, err := h.Session.Send(r.Context(), req.Message)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(Message{
		ID:     uuid.NewString(),
		Text:   reply,
		Sender: "bot",
	})
}
