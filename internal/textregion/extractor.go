// Package textregion locates text in images through an OCR provider and
// estimates the foreground and background colors of each detected region.
package textregion

import (
	"context"
	"strings"

	"go-visual-auditor/internal/colormath"
	"go-visual-auditor/internal/imaging"
)

// DefaultConfidenceThreshold drops OCR detections below this confidence.
const DefaultConfidenceThreshold = 60.0

// Detection is a raw word-level OCR hit in image coordinates.
type Detection struct {
	Text       string
	Confidence float64
	X, Y, W, H int
}

// OcrProvider detects word-level text regions in a pixel buffer.
// Implementations own their engine lifecycle per call.
type OcrProvider interface {
	DetectWords(ctx context.Context, buf *imaging.PixelBuffer) ([]Detection, error)
}

// Region is a filtered text detection ready for metric enrichment.
type Region struct {
	Text       string
	Confidence float64
	X, Y, W, H int
}

// Extractor turns OCR output into scoreable text regions.
type Extractor struct {
	provider  OcrProvider
	threshold float64
}

// NewExtractor wires an extractor to the given provider. A non-positive
// threshold falls back to the default.
func NewExtractor(provider OcrProvider, confidenceThreshold float64) *Extractor {
	if confidenceThreshold <= 0 {
		confidenceThreshold = DefaultConfidenceThreshold
	}
	return &Extractor{provider: provider, threshold: confidenceThreshold}
}

// Extract runs OCR and keeps non-empty detections at or above the
// confidence threshold.
func (e *Extractor) Extract(ctx context.Context, buf *imaging.PixelBuffer) ([]Region, error) {
	detections, err := e.provider.DetectWords(ctx, buf)
	if err != nil {
		return nil, err
	}

	regions := make([]Region, 0, len(detections))
	for _, d := range detections {
		text := strings.TrimSpace(d.Text)
		if text == "" || d.Confidence < e.threshold {
			continue
		}
		regions = append(regions, Region{
			Text:       text,
			Confidence: d.Confidence,
			X:          d.X,
			Y:          d.Y,
			W:          d.W,
			H:          d.H,
		})
	}
	return regions, nil
}

// SampleColors estimates the foreground and background color of a text
// box. Foreground is the mean of the center 50% area; background is the
// mean of a 15% border ring, falling back to the whole box when the ring
// holds fewer than 10 pixels.
func SampleColors(buf *imaging.PixelBuffer, x, y, w, h int) (fg, bg colormath.RGB) {
	x, y, w, h = buf.ClampBox(x, y, w, h)

	cx1 := x + int(float64(w)*0.25)
	cy1 := y + int(float64(h)*0.25)
	cx2 := x + int(float64(w)*0.75)
	cy2 := y + int(float64(h)*0.75)

	var fr, fgc, fb float64
	if cx2 > cx1 && cy2 > cy1 {
		fr, fgc, fb = buf.MeanColor(cx1, cy1, cx2-cx1, cy2-cy1)
	} else {
		fr, fgc, fb = buf.MeanColor(x, y, w, h)
	}

	bx1 := int(float64(w) * 0.15)
	by1 := int(float64(h) * 0.15)
	bx2 := int(float64(w) * 0.85)
	by2 := int(float64(h) * 0.85)

	var br, bgc, bb float64
	var count int
	for yy := 0; yy < h; yy++ {
		for xx := 0; xx < w; xx++ {
			inRing := yy < by1 || yy >= by2 || xx < bx1 || xx >= bx2
			if !inRing {
				continue
			}
			p := buf.At(x+xx, y+yy)
			br += float64(p.R)
			bgc += float64(p.G)
			bb += float64(p.B)
			count++
		}
	}
	if count < 10 {
		br, bgc, bb = buf.MeanColor(x, y, w, h)
	} else {
		br /= float64(count)
		bgc /= float64(count)
		bb /= float64(count)
	}

	fg = colormath.RGB{R: clampByte(fr), G: clampByte(fgc), B: clampByte(fb)}
	bg = colormath.RGB{R: clampByte(br), G: clampByte(bgc), B: clampByte(bb)}
	return fg, bg
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
