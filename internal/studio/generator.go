package studio

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// ErrNoImage indicates that the model response carried no inline image data.
var ErrNoImage = errors.New("no image produced")

// InputImage is an uploaded image ready to be attached to a request.
type InputImage struct {
	Data     []byte
	MIMEType string
}

// Request bundles one instruction with its image attachments.
type Request struct {
	Prompt string
	Images []InputImage

	// ImageOnly restricts the acceptable response modalities to IMAGE.
	// When false, IMAGE and TEXT are both declared acceptable.
	ImageOnly bool
}

// ImageResult represents a rendered image payload ready for direct display.
type ImageResult struct {
	Data string `json:"data"`
	MIME string `json:"mime"`
	Text string `json:"text,omitempty"`
}

// Generator produces edited or synthesized images from prompts and inputs.
type Generator interface {
	Generate(ctx context.Context, req Request) (ImageResult, error)
}

// GeminiGenerator implements Generator via Gemini image outputs.
type GeminiGenerator struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

const defaultImageModel = "gemini-2.5-flash-image"

// NewGeminiGenerator constructs a generator able to request inline images.
func NewGeminiGenerator(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiGenerator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("studio: missing Gemini API key")
	}
	if strings.TrimSpace(model) == "" {
		model = defaultImageModel
	}
	model = strings.TrimPrefix(strings.TrimSpace(model), "models/")
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("studio: create genai client: %w", err)
	}

	return &GeminiGenerator{
		client:  client,
		model:   model,
		timeout: timeout,
	}, nil
}

// Generate sends a single synchronous request and unpacks the first image part.
func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (ImageResult, error) {
	if g == nil || g.client == nil {
		return ImageResult{}, fmt.Errorf("studio: image generator unavailable")
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return ImageResult{}, fmt.Errorf("studio: empty prompt")
	}

	childCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	parts := make([]*genai.Part, 0, len(req.Images)+1)
	for _, img := range req.Images {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				Data:     img.Data,
				MIMEType: img.MIMEType,
			},
		})
	}
	parts = append(parts, &genai.Part{Text: req.Prompt})

	modalities := []string{"IMAGE", "TEXT"}
	if req.ImageOnly {
		modalities = []string{"IMAGE"}
	}

	resp, err := g.client.Models.GenerateContent(childCtx, g.model,
		[]*genai.Content{{Parts: parts}},
		&genai.GenerateContentConfig{ResponseModalities: modalities},
	)
	if err != nil {
		return ImageResult{}, fmt.Errorf("studio: generation failed: %w", err)
	}

	return parseResponse(resp)
}

// parseResponse walks the ordered response parts. The first part carrying
// inline binary data becomes the resulting image; later image parts are
// ignored. Text parts are captured separately. A response without any image
// part is an error, quoting the returned text when there is one.
func parseResponse(resp *genai.GenerateContentResponse) (ImageResult, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ImageResult{}, fmt.Errorf("studio: empty response from model")
	}

	var result ImageResult
	var texts []string
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		if part.Text != "" {
			texts = append(texts, part.Text)
		}
		if result.Data == "" && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			mime := strings.TrimSpace(part.InlineData.MIMEType)
			if mime == "" {
				mime = "image/png"
			}
			result.Data = base64.StdEncoding.EncodeToString(part.InlineData.Data)
			result.MIME = mime
		}
	}

	text := strings.TrimSpace(strings.Join(texts, "\n"))
	if result.Data == "" {
		if text != "" {
			return ImageResult{}, fmt.Errorf("studio: model returned text instead of an image: %s", text)
		}
		return ImageResult{}, fmt.Errorf("studio: %w", ErrNoImage)
	}

	result.Text = text
	return result, nil
}
