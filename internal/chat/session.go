package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"
)

// ContentGenerator abstracts the model call behind the session.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, contents []*genai.Content) (*genai.GenerateContentResponse, error)
}

// Factory creates the generator backing a session. It is invoked at most
// once, on the first turn.
type Factory func(ctx context.Context) (ContentGenerator, error)

// Session is the single long-lived conversational context. The backing
// generator is created lazily on the first Send and reused for every
// subsequent turn. Turns are synchronous; there is no streaming.
type Session struct {
	factory Factory

	mu      sync.Mutex
	gen     ContentGenerator
	history []*genai.Content
}

// NewSession wires a session around a generator factory.
func NewSession(factory Factory) *Session {
	return &Session{factory: factory}
}

// Send appends a user turn, replays the accumulated history to the model and
// returns the reply text.
func (s *Session) Send(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("chat: empty message")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen == nil {
		gen, err := s.factory(ctx)
		if err != nil {
			return "", fmt.Errorf("chat: start session: %w", err)
		}
		s.gen = gen
	}

	contents := append(s.history, &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{{Text: message}},
	})

	resp, err := s.gen.GenerateContent(ctx, contents)
	if err != nil {
		return "", fmt.Errorf("chat: send failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("chat: empty reply")
	}

	var texts []string
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			texts = append(texts, part.Text)
		}
	}
	reply := strings.TrimSpace(strings.Join(texts, "\n"))
	if reply == "" {
		return "", fmt.Errorf("chat: empty reply")
	}

	s.history = append(contents, resp.Candidates[0].Content)
	return reply, nil
}

// GeminiDialogue implements ContentGenerator on the Gemini API.
type GeminiDialogue struct {
	client *genai.Client
	model  string
}

const defaultChatModel = "gemini-2.5-flash"

const systemInstruction = `You are the assistant of a flooring and cladding visualization studio. Help users compose render shots, patterns and materials, answer questions about surfaces, finishes and dimensions, and suggest concrete next steps. Keep answers short and practical.`

// NewGeminiDialogue constructs the Gemini-backed dialogue client.
func NewGeminiDialogue(ctx context.Context, apiKey, model string) (*GeminiDialogue, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("chat: missing Gemini API key")
	}
	if strings.TrimSpace(model) == "" {
		model = defaultChatModel
	}
	model = strings.TrimPrefix(strings.TrimSpace(model), "models/")

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("chat: create genai client: %w", err)
	}

	return &GeminiDialogue{client: client, model: model}, nil
}

// GenerateContent sends the conversation to the model.
func (d *GeminiDialogue) GenerateContent(ctx context.Context, contents []*genai.Content) (*genai.GenerateContentResponse, error) {
	return d.client.Models.GenerateContent(ctx, d.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
	})
}
