package accessibility

import (
	"go-visual-auditor/internal/imaging"
)

// Rough Brettel-style channel mixing matrices. Heuristic simulations,
// not medically exact.
var (
	protanopiaMatrix = [3][3]float64{
		{0.56667, 0.43333, 0},
		{0.55833, 0.44167, 0},
		{0, 0.24167, 0.75833},
	}
	deuteranopiaMatrix = [3][3]float64{
		{0.625, 0.375, 0},
		{0.7, 0.3, 0},
		{0, 0.3, 0.7},
	}
)

// SimulateProtanopia returns a new buffer with red-deficient vision
// applied.
func SimulateProtanopia(buf *imaging.PixelBuffer) *imaging.PixelBuffer {
	return applyMatrix(buf, protanopiaMatrix)
}

// SimulateDeuteranopia returns a new buffer with green-deficient vision
// applied.
func SimulateDeuteranopia(buf *imaging.PixelBuffer) *imaging.PixelBuffer {
	return applyMatrix(buf, deuteranopiaMatrix)
}

func applyMatrix(buf *imaging.PixelBuffer, m [3][3]float64) *imaging.PixelBuffer {
	out := imaging.NewPixelBuffer(buf.Width, buf.Height)
	for i := 0; i+2 < len(buf.Pix); i += 3 {
		r := float64(buf.Pix[i]) / 255.0
		g := float64(buf.Pix[i+1]) / 255.0
		b := float64(buf.Pix[i+2]) / 255.0

		out.Pix[i] = clip01(m[0][0]*r + m[0][1]*g + m[0][2]*b)
		out.Pix[i+1] = clip01(m[1][0]*r + m[1][1]*g + m[1][2]*b)
		out.Pix[i+2] = clip01(m[2][0]*r + m[2][1]*g + m[2][2]*b)
	}
	return out
}

func clip01(v float64) uint8 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return uint8(v * 255)
}
