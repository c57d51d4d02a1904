package studio

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"google.golang.org/genai"
)

func respWithParts(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: parts}},
		},
	}
}

func TestParseResponse_ImagePart(t *testing.T) {
	raw := []byte("pixels")
	result, err := parseResponse(respWithParts(
		&genai.Part{Text: "Here is your floor."},
		&genai.Part{InlineData: &genai.Blob{Data: raw, MIMEType: "image/webp"}},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Data != base64.StdEncoding.EncodeToString(raw) {
		t.Errorf("unexpected data: %q", result.Data)
	}
	if result.MIME != "image/webp" {
		t.Errorf("mime = %q, want image/webp", result.MIME)
	}
	if result.Text != "Here is your floor." {
		t.Errorf("text = %q", result.Text)
	}
}

func TestParseResponse_FirstImageWins(t *testing.T) {
	first := []byte("first")
	second := []byte("second")
	result, err := parseResponse(respWithParts(
		&genai.Part{InlineData: &genai.Blob{Data: first, MIMEType: "image/png"}},
		&genai.Part{InlineData: &genai.Blob{Data: second, MIMEType: "image/png"}},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Data != base64.StdEncoding.EncodeToString(first) {
		t.Error("later image part should be ignored")
	}
}

func TestParseResponse_TextOnly(t *testing.T) {
	_, err := parseResponse(respWithParts(
		&genai.Part{Text: "I cannot edit this image."},
	))
	if err == nil {
		t.Fatal("expected error for text-only response")
	}
	if !strings.Contains(err.Error(), "I cannot edit this image.") {
		t.Errorf("error should quote the returned text, got: %v", err)
	}
}

func TestParseResponse_NoParts(t *testing.T) {
	_, err := parseResponse(respWithParts())
	if err == nil {
		t.Fatal("expected error for empty parts")
	}
	if !errors.Is(err, ErrNoImage) {
		t.Errorf("expected ErrNoImage, got: %v", err)
	}

	if _, err := parseResponse(nil); err == nil {
		t.Error("expected error for nil response")
	}
}

func TestParseResponse_DefaultMime(t *testing.T) {
	result, err := parseResponse(respWithParts(
		&genai.Part{InlineData: &genai.Blob{Data: []byte("x")}},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.MIME != "image/png" {
		t.Errorf("mime = %q, want image/png fallback", result.MIME)
	}
}
