// Package imaging provides the decoded pixel representation the scoring
// engines operate on, plus the codec collaborator that produces it from
// raw bytes.
package imaging

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"go-visual-auditor/internal/colormath"
)

// PixelBuffer is a width x height grid of 3-channel 8-bit RGB pixels stored
// interleaved. Alpha and grayscale sources are normalized to RGB at
// construction. Analyses treat buffers as read-only.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []uint8 // len = Width*Height*3, row-major R,G,B
}

// NewPixelBuffer allocates a zeroed buffer.
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
	}
}

// Empty reports whether the buffer has no pixels.
func (p *PixelBuffer) Empty() bool {
	return p == nil || p.Width <= 0 || p.Height <= 0 || len(p.Pix) < p.Width*p.Height*3
}

// At returns the pixel at (x, y).
func (p *PixelBuffer) At(x, y int) colormath.RGB {
	i := (y*p.Width + x) * 3
	return colormath.RGB{R: p.Pix[i], G: p.Pix[i+1], B: p.Pix[i+2]}
}

// Set stores the pixel at (x, y).
func (p *PixelBuffer) Set(x, y int, c colormath.RGB) {
	i := (y*p.Width + x) * 3
	p.Pix[i] = c.R
	p.Pix[i+1] = c.G
	p.Pix[i+2] = c.B
}

// Clone returns a deep copy.
func (p *PixelBuffer) Clone() *PixelBuffer {
	out := NewPixelBuffer(p.Width, p.Height)
	copy(out.Pix, p.Pix)
	return out
}

// FromImage converts any decoded image to a 3-channel buffer, dropping
// alpha and expanding grayscale.
func FromImage(img image.Image) *PixelBuffer {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	buf := NewPixelBuffer(width, height)

	// Fast path for the common decoded representations
	switch src := img.(type) {
	case *image.RGBA:
		for y := 0; y < height; y++ {
			si := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			di := y * width * 3
			for x := 0; x < width; x++ {
				buf.Pix[di] = src.Pix[si]
				buf.Pix[di+1] = src.Pix[si+1]
				buf.Pix[di+2] = src.Pix[si+2]
				si += 4
				di += 3
			}
		}
	case *image.NRGBA:
		for y := 0; y < height; y++ {
			si := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			di := y * width * 3
			for x := 0; x < width; x++ {
				buf.Pix[di] = src.Pix[si]
				buf.Pix[di+1] = src.Pix[si+1]
				buf.Pix[di+2] = src.Pix[si+2]
				si += 4
				di += 3
			}
		}
	default:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
				buf.Set(x, y, colormath.RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)})
			}
		}
	}
	return buf
}

// ToImage converts the buffer to a standard RGBA image with full alpha.
func (p *PixelBuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	for y := 0; y < p.Height; y++ {
		si := y * p.Width * 3
		di := img.PixOffset(0, y)
		for x := 0; x < p.Width; x++ {
			img.Pix[di] = p.Pix[si]
			img.Pix[di+1] = p.Pix[si+1]
			img.Pix[di+2] = p.Pix[si+2]
			img.Pix[di+3] = 0xff
			si += 3
			di += 4
		}
	}
	return img
}

// ResizeMaxSide scales the buffer so its longest side is at most maxSide,
// preserving aspect ratio. Buffers already within the bound are returned
// unchanged (no copy).
func (p *PixelBuffer) ResizeMaxSide(maxSide int) *PixelBuffer {
	longest := p.Width
	if p.Height > longest {
		longest = p.Height
	}
	if longest <= maxSide {
		return p
	}

	scale := float64(maxSide) / float64(longest)
	newW := int(float64(p.Width)*scale + 0.5)
	newH := int(float64(p.Height)*scale + 0.5)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	src := p.ToImage()
	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return FromImage(dst)
}

// MeanColor averages a rectangular sub-region, clamped to the buffer
// bounds. Channel means stay in float to avoid requantization.
func (p *PixelBuffer) MeanColor(x, y, w, h int) (r, g, b float64) {
	x, y, w, h = p.ClampBox(x, y, w, h)
	var sr, sg, sb float64
	for yy := y; yy < y+h; yy++ {
		i := (yy*p.Width + x) * 3
		for xx := 0; xx < w; xx++ {
			sr += float64(p.Pix[i])
			sg += float64(p.Pix[i+1])
			sb += float64(p.Pix[i+2])
			i += 3
		}
	}
	n := float64(w * h)
	return sr / n, sg / n, sb / n
}

// ClampBox clips a bounding box to the buffer, guaranteeing at least a
// 1x1 result inside bounds.
func (p *PixelBuffer) ClampBox(x, y, w, h int) (int, int, int, int) {
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x > p.Width-1 {
		x = p.Width - 1
	}
	if y > p.Height-1 {
		y = p.Height - 1
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if x+w > p.Width {
		w = p.Width - x
	}
	if y+h > p.Height {
		h = p.Height - y
	}
	return x, y, w, h
}
