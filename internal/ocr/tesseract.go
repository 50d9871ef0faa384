// Package ocr provides the Tesseract-backed word detector used for
// accessibility scoring and text verification.
package ocr

import (
	"context"

	"github.com/otiai10/gosseract/v2"

	apperrors "go-visual-auditor/internal/errors"
	"go-visual-auditor/internal/imaging"
	"go-visual-auditor/internal/textregion"
)

// TesseractProvider runs word-level OCR through gosseract. A fresh client
// is created per call because gosseract clients are not safe for
// concurrent use.
type TesseractProvider struct {
	language string
	codec    imaging.ImageCodec
}

// NewTesseractProvider creates a provider for the given language
// ("eng" when empty).
func NewTesseractProvider(language string, codec imaging.ImageCodec) *TesseractProvider {
	if language == "" {
		language = "eng"
	}
	return &TesseractProvider{language: language, codec: codec}
}

// DetectWords OCRs the buffer and returns one detection per recognized
// word with its bounding box and confidence.
func (p *TesseractProvider) DetectWords(ctx context.Context, buf *imaging.PixelBuffer) ([]textregion.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewTimeoutError("context cancelled before OCR", err)
	}

	png, err := p.codec.EncodePNG(buf)
	if err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(p.language); err != nil {
		return nil, apperrors.NewOCRError("failed to set OCR language", err)
	}
	if err := client.SetImageFromBytes(png); err != nil {
		return nil, apperrors.NewOCRError("failed to load image into OCR engine", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, apperrors.NewOCRError("text detection failed", err)
	}

	detections := make([]textregion.Detection, 0, len(boxes))
	for _, box := range boxes {
		detections = append(detections, textregion.Detection{
			Text:       box.Word,
			Confidence: box.Confidence,
			X:          box.Box.Min.X,
			Y:          box.Box.Min.Y,
			W:          box.Box.Dx(),
			H:          box.Box.Dy(),
		})
	}
	return detections, nil
}
