package imaging

import (
	"image"
	"image/color"
	"testing"

	apperrors "go-visual-auditor/internal/errors"
	"go-visual-auditor/internal/colormath"
)

func createTestImage(width, height int, fill color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, fill)
		}
	}
	return img
}

func TestFromImage_RGBA(t *testing.T) {
	img := createTestImage(4, 3, color.RGBA{10, 20, 30, 255})
	buf := FromImage(img)

	if buf.Width != 4 || buf.Height != 3 {
		t.Fatalf("dimensions = %dx%d, want 4x3", buf.Width, buf.Height)
	}
	if got := buf.At(2, 1); got != (colormath.RGB{R: 10, G: 20, B: 30}) {
		t.Errorf("pixel = %v, want {10 20 30}", got)
	}
}

func TestFromImage_GrayNormalizedToRGB(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	img.SetGray(0, 0, color.Gray{Y: 77})
	buf := FromImage(img)

	got := buf.At(0, 0)
	if got.R != got.G || got.G != got.B {
		t.Errorf("gray pixel not replicated across channels: %v", got)
	}
}

func TestToImageRoundTrip(t *testing.T) {
	buf := NewPixelBuffer(3, 2)
	buf.Set(1, 1, colormath.RGB{R: 200, G: 100, B: 50})

	back := FromImage(buf.ToImage())
	if got := back.At(1, 1); got != (colormath.RGB{R: 200, G: 100, B: 50}) {
		t.Errorf("round trip pixel = %v, want {200 100 50}", got)
	}
}

func TestResizeMaxSide(t *testing.T) {
	tests := []struct {
		name          string
		w, h, maxSide int
		wantW, wantH  int
	}{
		{name: "already small", w: 100, h: 50, maxSide: 512, wantW: 100, wantH: 50},
		{name: "wide image", w: 1024, h: 256, maxSide: 512, wantW: 512, wantH: 128},
		{name: "tall image", w: 200, h: 800, maxSide: 512, wantW: 128, wantH: 512},
		{name: "square", w: 1000, h: 1000, maxSide: 512, wantW: 512, wantH: 512},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := NewPixelBuffer(tt.w, tt.h)
			resized := buf.ResizeMaxSide(tt.maxSide)
			if resized.Width != tt.wantW || resized.Height != tt.wantH {
				t.Errorf("resized to %dx%d, want %dx%d", resized.Width, resized.Height, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestResizeMaxSide_NoCopyWhenWithinBound(t *testing.T) {
	buf := NewPixelBuffer(100, 100)
	if resized := buf.ResizeMaxSide(512); resized != buf {
		t.Error("expected the same buffer back when no resize is needed")
	}
}

func TestMeanColor(t *testing.T) {
	buf := NewPixelBuffer(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			buf.Set(x, y, colormath.RGB{R: 100, G: 150, B: 200})
		}
	}

	r, g, b := buf.MeanColor(0, 0, 4, 4)
	if r != 100 || g != 150 || b != 200 {
		t.Errorf("mean = (%f,%f,%f), want (100,150,200)", r, g, b)
	}

	// Out-of-bounds boxes clamp rather than fail
	r, g, b = buf.MeanColor(-5, -5, 100, 100)
	if r != 100 || g != 150 || b != 200 {
		t.Errorf("clamped mean = (%f,%f,%f), want (100,150,200)", r, g, b)
	}
}

func TestStdCodec_PNGRoundTrip(t *testing.T) {
	codec := NewStdCodec()

	buf := NewPixelBuffer(5, 7)
	buf.Set(2, 3, colormath.RGB{R: 255, G: 0, B: 128})

	data, err := codec.EncodePNG(buf)
	if err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}

	decoded, err := codec.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Width != 5 || decoded.Height != 7 {
		t.Errorf("decoded dimensions = %dx%d, want 5x7", decoded.Width, decoded.Height)
	}
	if got := decoded.At(2, 3); got != (colormath.RGB{R: 255, G: 0, B: 128}) {
		t.Errorf("decoded pixel = %v, want {255 0 128}", got)
	}
}

func TestStdCodec_DecodeFailure(t *testing.T) {
	codec := NewStdCodec()

	for _, data := range [][]byte{nil, {}, []byte("not an image")} {
		_, err := codec.Decode(data)
		if err == nil {
			t.Fatalf("Decode(%q): expected error", data)
		}
		if !apperrors.IsType(err, apperrors.ErrorTypeDecodeFailure) {
			t.Errorf("Decode(%q): expected decode_failure, got %v", data, err)
		}
	}
}
