package studio

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"
)

const maxFormMemory = MaxImageBytes + (1 << 20)

// Handler exposes the studio HTTP endpoints.
type Handler struct {
	Renderer Generator
	Imagen   ImagenClient
	Analyzer Analyzer
}

// Generate handles POST /api/studio/generate.
func (h Handler) Generate(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, "")
}

// Edit handles POST /api/studio/edit as a fixed-mode variant of Generate.
func (h Handler) Edit(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, ModeEdit)
}

func (h Handler) generate(w http.ResponseWriter, r *http.Request, forced GenerationMode) {
	if h.Renderer == nil {
		http.Error(w, "image generation inactive", http.StatusServiceUnavailable)
		return
	}
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		http.Error(w, fmt.Sprintf("could not parse form: %v", err), http.StatusBadRequest)
		return
	}

	mode := forced
	if mode == "" {
		var err error
		mode, err = ParseGenerationMode(r.FormValue("mode"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	surface, err := ParseSurfaceType(r.FormValue("surface"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	prompt, err := ComposePrompt(mode, surface, r.FormValue("dimensions"), r.FormValue("instruction"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	images, err := readImageSlots(r, mode.Slots())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if mode == ModeEdit && h.Imagen != nil {
		result, err := h.Imagen.Edit(r.Context(), prompt, images[0])
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		writeJSON(w, result)
		return
	}

	result, err := h.Renderer.Generate(r.Context(), Request{
		Prompt: prompt,
		Images: images,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, result)
}

// Extract handles POST /api/studio/extract.
func (h Handler) Extract(w http.ResponseWriter, r *http.Request) {
	if h.Renderer == nil {
		http.Error(w, "image generation inactive", http.StatusServiceUnavailable)
		return
	}
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		http.Error(w, fmt.Sprintf("could not parse form: %v", err), http.StatusBadRequest)
		return
	}

	extraction, err := ParseExtractionType(r.FormValue("type"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	prompt, err := ExtractionPrompt(extraction)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	images, err := readImageSlots(r, []string{SlotSource})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.Renderer.Generate(r.Context(), Request{
		Prompt:    prompt,
		Images:    images,
		ImageOnly: true,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, result)
}

// Analyze handles POST /api/studio/analyze.
func (h Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	if h.Analyzer == nil {
		http.Error(w, "image analysis inactive", http.StatusServiceUnavailable)
		return
	}
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		http.Error(w, fmt.Sprintf("could not parse form: %v", err), http.StatusBadRequest)
		return
	}

	images, err := readImageSlots(r, []string{SlotSource})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	insights, err := h.Analyzer.AnalyzeBytes(r.Context(), images[0].Data, images[0].MIMEType)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, insights)
}

// readImageSlots reads every required slot from the parsed multipart form.
// Slots are read concurrently; the generation call itself stays single-shot.
// A missing or empty slot fails before any outbound request is made.
func readImageSlots(r *http.Request, slots []string) ([]InputImage, error) {
	images := make([]InputImage, len(slots))

	var g errgroup.Group
	for i, slot := range slots {
		g.Go(func() error {
			img, err := readImageSlot(r, slot)
			if err != nil {
				return err
			}
			images[i] = *img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return images, nil
}

func readImageSlot(r *http.Request, field string) (*InputImage, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("studio: %s image is required", field)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("studio: read %s: %w", field, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("studio: %s image is required", field)
	}
	if len(data) > MaxImageBytes {
		return nil, fmt.Errorf("studio: %s exceeds %d bytes", field, MaxImageBytes)
	}

	mime := strings.TrimSpace(header.Header.Get("Content-Type"))
	return &InputImage{
		Data:     data,
		MIMEType: DetectMime(data, mime),
	}, nil
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
