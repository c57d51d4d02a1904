package chat

import (
	"context"
	"fmt"
	"testing"

	"google.golang.org/genai"
)

type fakeGenerator struct {
	calls   [][]*genai.Content
	replies []string
	err     error
}

func (f *fakeGenerator) GenerateContent(_ context.Context, contents []*genai.Content) (*genai.GenerateContentResponse, error) {
	f.calls = append(f.calls, contents)
	if f.err != nil {
		return nil, f.err
	}

	reply := "ok"
	if len(f.replies) >= len(f.calls) {
		reply = f.replies[len(f.calls)-1]
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{{Text: reply}},
			}},
		},
	}, nil
}

func TestSession_LazyCreationAndReuse(t *testing.T) {
	fake := &fakeGenerator{replies: []string{"hello", "again"}}
	created := 0
	session := NewSession(func(_ context.Context) (ContentGenerator, error) {
		created++
		return fake, nil
	})

	if created != 0 {
		t.Fatal("generator should not be created before the first turn")
	}

	reply, err := session.Send(context.Background(), "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "hello" {
		t.Errorf("reply = %q, want hello", reply)
	}
	if created != 1 {
		t.Errorf("generator created %d times, want 1", created)
	}

	if _, err := session.Send(context.Background(), "and again"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created != 1 {
		t.Errorf("generator created %d times after second turn, want 1", created)
	}
}

func TestSession_HistoryAccumulates(t *testing.T) {
	fake := &fakeGenerator{}
	session := NewSession(func(_ context.Context) (ContentGenerator, error) {
		return fake, nil
	})

	ctx := context.Background()
	if _, err := session.Send(ctx, "first"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := session.Send(ctx, "second"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fake.calls) != 2 {
		t.Fatalf("model called %d times, want 2", len(fake.calls))
	}
	if len(fake.calls[0]) != 1 {
		t.Errorf("first turn carried %d contents, want 1", len(fake.calls[0]))
	}
	// user, model, user
	if len(fake.calls[1]) != 3 {
		t.Errorf("second turn carried %d contents, want 3", len(fake.calls[1]))
	}
	if last := fake.calls[1][2]; last.Role != "user" || last.Parts[0].Text != "second" {
		t.Errorf("unexpected final turn: %+v", last)
	}
}

func TestSession_EmptyMessage(t *testing.T) {
	session := NewSession(func(_ context.Context) (ContentGenerator, error) {
		t.Fatal("factory should not run for an empty message")
		return nil, nil
	})

	if _, err := session.Send(context.Background(), "   "); err == nil {
		t.Error("expected error for empty message")
	}
}

func TestSession_UpstreamError(t *testing.T) {
	fake := &fakeGenerator{err: fmt.Errorf("quota exceeded")}
	session := NewSession(func(_ context.Context) (ContentGenerator, error) {
		return fake, nil
	})

	if _, err := session.Send(context.Background(), "hi"); err == nil {
		t.Error("expected upstream error to surface")
	}

	// A failed turn must not pollute the history.
	fake.err = nil
	if _, err := session.Send(context.Background(), "retry"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(fake.calls[len(fake.calls)-1]); got != 1 {
		t.Errorf("history after failed turn carried %d contents, want 1", got)
	}
}
