package palette

import (
	"encoding/base64"

	"go-visual-auditor/internal/imaging"
)

// renderHeatmap paints per-pixel distance to the nearest brand color
// through a green-yellow-red ramp, blends it 50/50 over the analyzed
// image, and returns the result as a base64 PNG data URI.
//
// Green = on-brand, yellow = somewhat close, red = off-brand.
func renderHeatmap(src *imaging.PixelBuffer, labels []int, minDists []float64, maxD float64) (string, error) {
	out := imaging.NewPixelBuffer(src.Width, src.Height)

	for i, lbl := range labels {
		t := minDists[lbl] / maxD
		if t < 0 {
			t = 0
		}
		if t > 1 {
			t = 1
		}
		hr, hg, hb := rampColor(t)

		// 50% opacity blend with the source pixel
		si := i * 3
		out.Pix[si] = uint8((uint16(src.Pix[si]) + uint16(hr)) / 2)
		out.Pix[si+1] = uint8((uint16(src.Pix[si+1]) + uint16(hg)) / 2)
		out.Pix[si+2] = uint8((uint16(src.Pix[si+2]) + uint16(hb)) / 2)
	}

	png, err := imaging.StdCodec{}.EncodePNG(out)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// rampColor maps t in [0,1] to the green-yellow-red gradient.
func rampColor(t float64) (uint8, uint8, uint8) {
	if t <= 0.5 {
		return uint8(2 * t * 255), 255, 0
	}
	return 255, uint8((2 - 2*t) * 255), 0
}
