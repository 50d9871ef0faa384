package textregion

import (
	"context"
	"errors"
	"testing"

	"go-visual-auditor/internal/colormath"
	"go-visual-auditor/internal/imaging"
)

type fakeProvider struct {
	detections []Detection
	err        error
}

func (f *fakeProvider) DetectWords(ctx context.Context, buf *imaging.PixelBuffer) ([]Detection, error) {
	return f.detections, f.err
}

func TestExtract_FiltersByConfidenceAndText(t *testing.T) {
	provider := &fakeProvider{detections: []Detection{
		{Text: "Hello", Confidence: 95, X: 10, Y: 10, W: 40, H: 20},
		{Text: "faint", Confidence: 30, X: 10, Y: 40, W: 40, H: 20},
		{Text: "   ", Confidence: 99, X: 10, Y: 70, W: 40, H: 20},
		{Text: " world ", Confidence: 60, X: 60, Y: 10, W: 40, H: 20},
	}}
	e := NewExtractor(provider, 60)

	regions, err := e.Extract(context.Background(), imaging.NewPixelBuffer(200, 100))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if len(regions) != 2 {
		t.Fatalf("regions = %d, want 2", len(regions))
	}
	if regions[0].Text != "Hello" {
		t.Errorf("regions[0].Text = %q, want Hello", regions[0].Text)
	}
	if regions[1].Text != "world" {
		t.Errorf("regions[1].Text = %q, want trimmed world", regions[1].Text)
	}
}

func TestExtract_DefaultThreshold(t *testing.T) {
	provider := &fakeProvider{detections: []Detection{
		{Text: "keep", Confidence: 60, X: 0, Y: 0, W: 10, H: 10},
		{Text: "drop", Confidence: 59.9, X: 0, Y: 0, W: 10, H: 10},
	}}
	e := NewExtractor(provider, 0)

	regions, err := e.Extract(context.Background(), imaging.NewPixelBuffer(20, 20))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(regions) != 1 || regions[0].Text != "keep" {
		t.Fatalf("regions = %+v, want only the 60-confidence hit", regions)
	}
}

func TestExtract_PropagatesProviderError(t *testing.T) {
	wantErr := errors.New("engine unavailable")
	e := NewExtractor(&fakeProvider{err: wantErr}, 60)

	_, err := e.Extract(context.Background(), imaging.NewPixelBuffer(10, 10))
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want provider error", err)
	}
}

func TestSampleColors_CenterVersusRing(t *testing.T) {
	// 40x40 box: white ring, black center
	buf := imaging.NewPixelBuffer(40, 40)
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			c := colormath.RGB{R: 255, G: 255, B: 255}
			if x >= 10 && x < 30 && y >= 10 && y < 30 {
				c = colormath.RGB{R: 0, G: 0, B: 0}
			}
			buf.Set(x, y, c)
		}
	}

	fg, bg := SampleColors(buf, 0, 0, 40, 40)

	if fg.R != 0 || fg.G != 0 || fg.B != 0 {
		t.Errorf("foreground = %+v, want black center mean", fg)
	}
	if bg.R != 255 || bg.G != 255 || bg.B != 255 {
		t.Errorf("background = %+v, want white ring mean", bg)
	}
}

func TestSampleColors_TinyBoxFallsBackToWholeBox(t *testing.T) {
	buf := imaging.NewPixelBuffer(8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			buf.Set(x, y, colormath.RGB{R: 100, G: 150, B: 200})
		}
	}

	// 2x2 box: border ring holds <10 pixels
	fg, bg := SampleColors(buf, 3, 3, 2, 2)
	if bg.R != 100 || bg.G != 150 || bg.B != 200 {
		t.Errorf("background = %+v, want whole-box mean", bg)
	}
	if fg.R != 100 || fg.G != 150 || fg.B != 200 {
		t.Errorf("foreground = %+v, want uniform color", fg)
	}
}

func TestSampleColors_ClampsOutOfBoundsBox(t *testing.T) {
	buf := imaging.NewPixelBuffer(20, 20)
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			buf.Set(x, y, colormath.RGB{R: 50, G: 50, B: 50})
		}
	}

	fg, bg := SampleColors(buf, -5, -5, 100, 100)
	if fg.R != 50 || bg.R != 50 {
		t.Errorf("fg=%+v bg=%+v, want clamped uniform sampling", fg, bg)
	}
}
