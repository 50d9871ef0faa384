package imaging

import (
	"bytes"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	"image/png"

	_ "golang.org/x/image/webp" // Register WebP format

	apperrors "go-visual-auditor/internal/errors"
)

// ImageCodec translates between raw bytes and pixel buffers. The engines
// depend on this narrow contract, never on a concrete image library.
type ImageCodec interface {
	Decode(data []byte) (*PixelBuffer, error)
	EncodePNG(buf *PixelBuffer) ([]byte, error)
}

// StdCodec is the stdlib-backed codec. Supported decode formats: JPEG,
// PNG, GIF, WebP.
type StdCodec struct{}

// NewStdCodec creates the default codec.
func NewStdCodec() StdCodec {
	return StdCodec{}
}

// Decode interprets raw bytes as an image and normalizes it to a
// 3-channel pixel buffer.
func (StdCodec) Decode(data []byte) (*PixelBuffer, error) {
	if len(data) == 0 {
		return nil, apperrors.NewDecodeFailureError("image data is empty", nil)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewDecodeFailureError("could not decode image from bytes", err)
	}
	buf := FromImage(img)
	if buf.Empty() {
		return nil, apperrors.NewDecodeFailureError("decoded image has no pixels", nil)
	}
	return buf, nil
}

// EncodePNG encodes a pixel buffer as PNG.
func (StdCodec) EncodePNG(buf *PixelBuffer) ([]byte, error) {
	if buf.Empty() {
		return nil, apperrors.NewInvalidArgumentError("cannot encode an empty pixel buffer", nil)
	}
	var out bytes.Buffer
	if err := png.Encode(&out, buf.ToImage()); err != nil {
		return nil, apperrors.NewInternalError("failed to encode PNG", err)
	}
	return out.Bytes(), nil
}
