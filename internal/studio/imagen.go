package studio

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/types/known/structpb"
)

// ImagenClient edits a single base image using Vertex AI Imagen.
type ImagenClient interface {
	Edit(ctx context.Context, prompt string, base InputImage) (ImageResult, error)
}

// VertexImagen implements ImagenClient via the Vertex AI SDK.
type VertexImagen struct {
	projectID          string
	location           string
	model              string
	serviceAccount     string
	serviceAccountJSON string
}

// VertexImagenConfig describes how to connect to Imagen.
type VertexImagenConfig struct {
	ProjectID          string
	Location           string
	Model              string
	ServiceAccount     string
	ServiceAccountJSON string
}

// NewVertexImagen wires a VertexImagen client.
func NewVertexImagen(cfg VertexImagenConfig) *VertexImagen {
	return &VertexImagen{
		projectID:          strings.TrimSpace(cfg.ProjectID),
		location:           strings.TrimSpace(cfg.Location),
		model:              strings.TrimSpace(cfg.Model),
		serviceAccount:     strings.TrimSpace(cfg.ServiceAccount),
		serviceAccountJSON: strings.TrimSpace(cfg.ServiceAccountJSON),
	}
}

// Edit runs an Imagen edit request and returns the rendered image inline.
func (v *VertexImagen) Edit(ctx context.Context, prompt string, base InputImage) (ImageResult, error) {
	if v == nil {
		return ImageResult{}, fmt.Errorf("imagen: client not configured")
	}
	if v.projectID == "" || v.location == "" || v.model == "" {
		return ImageResult{}, fmt.Errorf("imagen: missing project/location/model")
	}
	if strings.TrimSpace(prompt) == "" {
		return ImageResult{}, fmt.Errorf("imagen: prompt is required")
	}
	if len(base.Data) == 0 {
		return ImageResult{}, fmt.Errorf("imagen: base image is required")
	}

	instance, err := structpb.NewValue(map[string]any{
		"prompt": prompt,
		"image": map[string]any{
			"bytesBase64Encoded": base64.StdEncoding.EncodeToString(base.Data),
		},
	})
	if err != nil {
		return ImageResult{}, err
	}

	params, err := structpb.NewValue(map[string]any{
		"sampleCount": 1,
		"editMode":    "inpainting-free-form",
	})
	if err != nil {
		return ImageResult{}, err
	}

	endpoint := fmt.Sprintf("projects/%s/locations/%s/publishers/google/models/%s", v.projectID, v.location, v.model)
	options := []option.ClientOption{option.WithEndpoint(fmt.Sprintf("%s-aiplatform.googleapis.com:443", v.location))}
	if v.serviceAccountJSON != "" {
		options = append(options, option.WithCredentialsJSON([]byte(v.serviceAccountJSON)))
	} else if v.serviceAccount != "" {
		options = append(options, option.WithCredentialsFile(v.serviceAccount))
	}

	client, err := aiplatform.NewPredictionClient(ctx, options...)
	if err != nil {
		return ImageResult{}, fmt.Errorf("imagen: prediction client: %w", err)
	}
	defer client.Close()

	resp, err := client.Predict(ctx, &aiplatformpb.PredictRequest{
		Endpoint:   endpoint,
		Instances:  []*structpb.Value{instance},
		Parameters: params,
	})
	if err != nil {
		return ImageResult{}, fmt.Errorf("imagen: predict: %w", err)
	}
	if len(resp.Predictions) == 0 {
		return ImageResult{}, fmt.Errorf("imagen: empty prediction response")
	}

	field := resp.Predictions[0].GetStructValue().GetFields()["bytesBase64Encoded"]
	if field == nil || field.GetStringValue() == "" {
		return ImageResult{}, fmt.Errorf("imagen: prediction missing bytes")
	}

	mime := "image/png"
	if m := resp.Predictions[0].GetStructValue().GetFields()["mimeType"]; m != nil && m.GetStringValue() != "" {
		mime = m.GetStringValue()
	}

	return ImageResult{Data: field.GetStringValue(), MIME: mime}, nil
}
