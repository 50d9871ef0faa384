package accessibility

import (
	"math"

	"go-visual-auditor/internal/imaging"
)

const (
	cannyLowThreshold  = 100.0
	cannyHighThreshold = 200.0

	// Edge density at or above this fraction counts as fully cluttered.
	clutterSaturation = 0.3
)

// ClutterScore estimates visual clutter inside a bounding box as edge
// density, clamped to 0..1. Higher means more cluttered.
func ClutterScore(buf *imaging.PixelBuffer, x, y, w, h int) float64 {
	x, y, w, h = buf.ClampBox(x, y, w, h)

	gray := grayscaleRegion(buf, x, y, w, h)
	edges := cannyEdges(gray, w, h)

	var sum int
	for _, e := range edges {
		if e {
			sum++
		}
	}
	density := float64(sum) / float64(w*h)
	return math.Min(density/clutterSaturation, 1.0)
}

// grayscaleRegion extracts a region as ITU-R 601 luma values.
func grayscaleRegion(buf *imaging.PixelBuffer, x, y, w, h int) []float64 {
	gray := make([]float64, w*h)
	for yy := 0; yy < h; yy++ {
		i := ((y+yy)*buf.Width + x) * 3
		for xx := 0; xx < w; xx++ {
			r := float64(buf.Pix[i])
			g := float64(buf.Pix[i+1])
			b := float64(buf.Pix[i+2])
			gray[yy*w+xx] = 0.299*r + 0.587*g + 0.114*b
			i += 3
		}
	}
	return gray
}

// cannyEdges runs Sobel gradients, non-maximum suppression and double
// thresholding with hysteresis over a grayscale region.
func cannyEdges(gray []float64, w, h int) []bool {
	edges := make([]bool, w*h)
	if w < 3 || h < 3 {
		return edges
	}

	mag := make([]float64, w*h)
	dirX := make([]float64, w*h)
	dirY := make([]float64, w*h)

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			gx := -gray[i-w-1] + gray[i-w+1] +
				-2*gray[i-1] + 2*gray[i+1] +
				-gray[i+w-1] + gray[i+w+1]
			gy := -gray[i-w-1] - 2*gray[i-w] - gray[i-w+1] +
				gray[i+w-1] + 2*gray[i+w] + gray[i+w+1]
			mag[i] = math.Hypot(gx, gy)
			dirX[i] = gx
			dirY[i] = gy
		}
	}

	// Non-maximum suppression along the quantized gradient direction
	strong := make([]bool, w*h)
	weak := make([]bool, w*h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			m := mag[i]
			if m < cannyLowThreshold {
				continue
			}
			dx, dy := neighborOffset(dirX[i], dirY[i], w)
			if m < mag[i+dx+dy] || m < mag[i-dx-dy] {
				continue
			}
			if m >= cannyHighThreshold {
				strong[i] = true
			} else {
				weak[i] = true
			}
		}
	}

	// Hysteresis: keep weak edges connected to a strong edge
	stack := make([]int, 0, w)
	for i, s := range strong {
		if s {
			edges[i] = true
			stack = append(stack, i)
		}
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		for ny := y - 1; ny <= y+1; ny++ {
			for nx := x - 1; nx <= x+1; nx++ {
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				j := ny*w + nx
				if weak[j] && !edges[j] {
					edges[j] = true
					stack = append(stack, j)
				}
			}
		}
	}
	return edges
}

// neighborOffset maps a gradient vector to the index offsets of the two
// pixels to compare against during suppression.
func neighborOffset(gx, gy float64, w int) (dx, dy int) {
	angle := math.Atan2(gy, gx)
	if angle < 0 {
		angle += math.Pi
	}
	switch {
	case angle < math.Pi/8 || angle >= 7*math.Pi/8:
		return 1, 0
	case angle < 3*math.Pi/8:
		return 1, w
	case angle < 5*math.Pi/8:
		return 0, w
	default:
		return -1, w
	}
}
