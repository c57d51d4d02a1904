package studio

import (
	"fmt"
	"strings"
)

// GenerationMode selects which instruction template is used and which
// image slots must be populated before a request is allowed.
type GenerationMode string

const (
	ModeEdit         GenerationMode = "edit"
	ModeComposite    GenerationMode = "composite"
	ModePatternOnly  GenerationMode = "pattern_only"
	ModeMaterialOnly GenerationMode = "material_only"
)

// ExtractionType selects what to isolate from a source photograph.
type ExtractionType string

const (
	ExtractPattern  ExtractionType = "pattern"
	ExtractMaterial ExtractionType = "material"
)

// SurfaceType names the surface being re-rendered.
type SurfaceType string

const (
	SurfaceFlooring SurfaceType = "flooring"
	SurfaceCladding SurfaceType = "cladding"
)

// Image slot field names as they appear in multipart uploads.
const (
	SlotRenderShot = "render_shot"
	SlotPattern    = "pattern_image"
	SlotMaterial   = "material_image"
	SlotBaseImage  = "base_image"
	SlotSource     = "source_image"
)

// ParseGenerationMode validates a raw mode string.
func ParseGenerationMode(raw string) (GenerationMode, error) {
	mode := GenerationMode(strings.ToLower(strings.TrimSpace(raw)))
	switch mode {
	case ModeEdit, ModeComposite, ModePatternOnly, ModeMaterialOnly:
		return mode, nil
	default:
		return "", fmt.Errorf("studio: unknown generation mode %q", raw)
	}
}

// ParseExtractionType validates a raw extraction type string.
func ParseExtractionType(raw string) (ExtractionType, error) {
	t := ExtractionType(strings.ToLower(strings.TrimSpace(raw)))
	switch t {
	case ExtractPattern, ExtractMaterial:
		return t, nil
	default:
		return "", fmt.Errorf("studio: unknown extraction type %q", raw)
	}
}

// ParseSurfaceType validates a raw surface string, defaulting to flooring.
func ParseSurfaceType(raw string) (SurfaceType, error) {
	s := SurfaceType(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case "":
		return SurfaceFlooring, nil
	case SurfaceFlooring, SurfaceCladding:
		return s, nil
	default:
		return "", fmt.Errorf("studio: unknown surface type %q", raw)
	}
}

// Slots lists the multipart fields that must carry an image for the mode.
func (m GenerationMode) Slots() []string {
	switch m {
	case ModeComposite:
		return []string{SlotRenderShot, SlotPattern, SlotMaterial}
	case ModePatternOnly:
		return []string{SlotRenderShot, SlotPattern}
	case ModeMaterialOnly:
		return []string{SlotRenderShot, SlotMaterial}
	case ModeEdit:
		return []string{SlotBaseImage}
	default:
		return nil
	}
}

const compositeTemplate = `You are given three images. Image 1 is a photograph of a real room (the render shot). Image 2 supplies a repeating visual pattern. Image 3 supplies a material with its texture, color and finish.
Re-render the %s surface in image 1 so that it carries the pattern from image 2 executed in the material from image 3. Match the perspective, scale, lighting and shadows of the original photograph exactly and leave everything else in the room untouched.%s
Return only the edited photograph as an image.`

const patternOnlyTemplate = `You are given two images. Image 1 is a photograph of a real room (the render shot). Image 2 supplies a repeating visual pattern.
Apply ONLY the visual pattern from image 2 onto the %s surface in image 1, keeping that surface's existing material, color and finish unchanged. Match the perspective, scale, lighting and shadows of the original photograph exactly and leave everything else in the room untouched.%s
Return only the edited photograph as an image.`

const materialOnlyTemplate = `You are given two images. Image 1 is a photograph of a real room (the render shot). Image 2 supplies a material with its texture, color and finish.
Apply ONLY the material, color and finish from image 2 onto the %s surface in image 1, keeping that surface's existing pattern and layout unchanged. Match the perspective, scale, lighting and shadows of the original photograph exactly and leave everything else in the room untouched.%s
Return only the edited photograph as an image.`

const editTemplate = `Apply the following adjustment to the provided image and return only the edited image.

%s`

const extractPatternPrompt = `Isolate the repeating visual pattern from this photograph and return it as a clean, flat, catalogue-ready swatch: straightened, evenly lit, free of perspective distortion, shadows and surrounding objects. Return only the swatch as an image.`

const extractMaterialPrompt = `Isolate the material from this photograph and return a clean, flat, catalogue-ready sample showing its texture, color and finish: straightened, evenly lit, free of perspective distortion, shadows and surrounding objects. Return only the sample as an image.`

// ComposePrompt builds the natural-language instruction for a generation mode.
// Dimensions are free text injected verbatim; no numeric validation is done.
func ComposePrompt(mode GenerationMode, surface SurfaceType, dimensions, instruction string) (string, error) {
	if mode == ModeEdit {
		instruction = strings.TrimSpace(instruction)
		if instruction == "" {
			return "", fmt.Errorf("studio: edit instruction is required")
		}
		return fmt.Sprintf(editTemplate, instruction), nil
	}

	var template string
	switch mode {
	case ModeComposite:
		template = compositeTemplate
	case ModePatternOnly:
		template = patternOnlyTemplate
	case ModeMaterialOnly:
		template = materialOnlyTemplate
	default:
		return "", fmt.Errorf("studio: unknown generation mode %q", mode)
	}

	return fmt.Sprintf(template, strings.ToLower(string(surface)), dimensionClause(dimensions)), nil
}

// ExtractionPrompt returns the instruction for isolating a pattern or material.
func ExtractionPrompt(t ExtractionType) (string, error) {
	switch t {
	case ExtractPattern:
		return extractPatternPrompt, nil
	case ExtractMaterial:
		return extractMaterialPrompt, nil
	default:
		return "", fmt.Errorf("studio: unknown extraction type %q", t)
	}
}

func dimensionClause(dimensions string) string {
	dimensions = strings.TrimSpace(dimensions)
	if dimensions == "" {
		return ""
	}
	return fmt.Sprintf(" The physical size of one repeat of the pattern/material is %s; scale it on the surface accordingly.", dimensions)
}
