package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testSession(fake *fakeGenerator) *Session {
	return NewSession(func(_ context.Context) (ContentGenerator, error) {
		return fake, nil
	})
}

func TestHandlerSend(t *testing.T) {
	h := Handler{Session: testSession(&fakeGenerator{replies: []string{"matte oak works well"}})}

	req := httptest.NewRequest(http.MethodPost, "/api/chat",
		strings.NewReader(`{"message":"which finish suits a hallway?"}`))
	rec := httptest.NewRecorder()
	h.Send(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var msg Message
	if err := json.NewDecoder(rec.Body).Decode(&msg); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if msg.Text != "matte oak works well" {
		t.Errorf("text = %q", msg.Text)
	}
	if msg.Sender != "bot" {
		t.Errorf("sender = %q, want bot", msg.Sender)
	}
	if msg.ID == "" {
		t.Error("message id must be set")
	}
}

func TestHandlerSend_EmptyMessage(t *testing.T) {
	h := Handler{Session: testSession(&fakeGenerator{})}

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":" "}`))
	rec := httptest.NewRecorder()
	h.Send(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandlerSend_InvalidBody(t *testing.T) {
	h := Handler{Session: testSession(&fakeGenerator{})}

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{`))
	rec := httptest.NewRecorder()
	h.Send(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
