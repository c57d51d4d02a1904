package studio

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// MaxImageBytes caps every uploaded image slot.
const MaxImageBytes = 8 * 1024 * 1024

// MaterialInsights is the structured description of a pattern or material
// photograph, suitable for catalogue entries.
type MaterialInsights struct {
	Summary      string   `json:"summary"`
	Motif        string   `json:"motif"`
	Finish       string   `json:"finish"`
	SuggestedUse string   `json:"suggested_use"`
	ColorPalette []string `json:"color_palette"`
	Tags         []string `json:"tags"`
}

// Analyzer extracts structured insights from pattern/material images.
type Analyzer interface {
	AnalyzeBytes(ctx context.Context, data []byte, mimeType string) (MaterialInsights, error)
}

// GeminiAnalyzer implements Analyzer using Google's Generative Language API.
type GeminiAnalyzer struct {
	apiKey      string
	model       string
	client      *http.Client
	tokenSource oauth2.TokenSource
}

const defaultVisionModel = "gemini-2.5-flash"

// NewGeminiAnalyzer constructs a Gemini-powered image analyzer. When a token
// source is provided it is used instead of the API key.
func NewGeminiAnalyzer(apiKey, model string, timeout time.Duration, tokenSource oauth2.TokenSource) *GeminiAnalyzer {
	model = strings.TrimPrefix(strings.TrimSpace(model), "models/")
	if model == "" {
		model = defaultVisionModel
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &GeminiAnalyzer{
		apiKey:      apiKey,
		model:       model,
		client:      &http.Client{Timeout: timeout},
		tokenSource: tokenSource,
	}
}

const analyzePrompt = `You are a flooring and cladding product specialist. Describe the pattern or material shown in the image, briefly and in structured form.
Answer ONLY with JSON using this structure:
{
  "summary": "1-2 sentences about the pattern/material",
  "motif": "the repeating motif or texture, if any",
  "finish": "surface finish (matte, glossy, brushed, ...)",
  "suggested_use": "flooring, cladding or both",
  "color_palette": ["dominant colors"],
  "tags": ["short catalogue labels"]
}`

// AnalyzeBytes runs analysis directly on uploaded image data.
func (g *GeminiAnalyzer) AnalyzeBytes(ctx context.Context, data []byte, mimeType string) (MaterialInsights, error) {
	if len(data) == 0 {
		return MaterialInsights{}, fmt.Errorf("studio: empty image data")
	}
	if len(data) > MaxImageBytes {
		return MaterialInsights{}, fmt.Errorf("studio: image exceeds %d bytes", MaxImageBytes)
	}

	payload := map[string]any{
		"contents": []map[string]any{
			{
				"role": "user",
				"parts": []map[string]any{
					{"text": analyzePrompt},
					{
						"inline_data": map[string]string{
							"mime_type": DetectMime(data, mimeType),
							"data":      base64.StdEncoding.EncodeToString(data),
						},
					},
				},
			},
		},
		"generationConfig": map[string]any{
			"temperature": 0.2,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return MaterialInsights{}, fmt.Errorf("studio: marshal payload: %w", err)
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent",
		url.PathEscape(g.model),
	)
	if g.tokenSource == nil {
		if strings.TrimSpace(g.apiKey) == "" {
			return MaterialInsights{}, fmt.Errorf("studio: missing API key or service account credentials")
		}
		endpoint = fmt.Sprintf("%s?key=%s", endpoint, url.QueryEscape(g.apiKey))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return MaterialInsights{}, fmt.Errorf("studio: request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if g.tokenSource != nil {
		token, err := g.tokenSource.Token()
		if err != nil {
			return MaterialInsights{}, fmt.Errorf("studio: fetch oauth token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return MaterialInsights{}, fmt.Errorf("studio: perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var failure struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&failure)
		return MaterialInsights{}, fmt.Errorf("studio: analyze status %d: %s", resp.StatusCode, failure.Error.Message)
	}

	var completion struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return MaterialInsights{}, fmt.Errorf("studio: decode response: %w", err)
	}

	if len(completion.Candidates) == 0 || len(completion.Candidates[0].Content.Parts) == 0 {
		return MaterialInsights{}, fmt.Errorf("studio: empty analyze response")
	}

	return parseInsightsJSON(strings.TrimSpace(completion.Candidates[0].Content.Parts[0].Text))
}

func parseInsightsJSON(text string) (MaterialInsights, error) {
	var insights MaterialInsights
	if err := json.Unmarshal([]byte(text), &insights); err != nil {
		start := strings.Index(text, "{")
		end := strings.LastIndex(text, "}")
		if start >= 0 && end > start {
			if err := json.Unmarshal([]byte(text[start:end+1]), &insights); err != nil {
				return MaterialInsights{}, fmt.Errorf("studio: parse analyze response: %w", err)
			}
		} else {
			return MaterialInsights{}, fmt.Errorf("studio: parse analyze response: %w", err)
		}
	}

	return insights, nil
}

// DetectMime falls back to content sniffing when the provided MIME is unusable.
func DetectMime(data []byte, provided string) string {
	mime := strings.TrimSpace(provided)
	if mime == "" {
		mime = http.DetectContentType(data)
	}
	if !strings.Contains(mime, "image/") {
		return "image/jpeg"
	}
	return mime
}
