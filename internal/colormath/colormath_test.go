package colormath

import (
	"math"
	"testing"

	apperrors "go-visual-auditor/internal/errors"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    RGB
		wantErr bool
	}{
		{name: "six digits with hash", input: "#123456", want: RGB{0x12, 0x34, 0x56}},
		{name: "six digits without hash", input: "ffcc00", want: RGB{0xff, 0xcc, 0x00}},
		{name: "uppercase", input: "#ABCDEF", want: RGB{0xab, 0xcd, 0xef}},
		{name: "shorthand expands", input: "abc", want: RGB{0xaa, 0xbb, 0xcc}},
		{name: "shorthand with hash", input: "#abc", want: RGB{0xaa, 0xbb, 0xcc}},
		{name: "leading whitespace", input: "  #102030", want: RGB{0x10, 0x20, 0x30}},
		{name: "five digits", input: "#12345", wantErr: true},
		{name: "seven digits", input: "#1234567", wantErr: true},
		{name: "non-hex digits", input: "#zzzzzz", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHex(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseHex(%q): expected error, got %v", tt.input, got)
				}
				if !apperrors.IsType(err, apperrors.ErrorTypeInvalidColorFormat) {
					t.Errorf("ParseHex(%q): expected invalid_color_format error, got %v", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHex(%q): unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseHex(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRelativeLuminance_Extremes(t *testing.T) {
	if got := RelativeLuminance(RGB{255, 255, 255}); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("luminance of white = %f, want 1.0", got)
	}
	if got := RelativeLuminance(RGB{0, 0, 0}); got != 0.0 {
		t.Errorf("luminance of black = %f, want 0.0", got)
	}
}

func TestContrastRatio(t *testing.T) {
	white := RGB{255, 255, 255}
	black := RGB{0, 0, 0}

	if got := ContrastRatio(white, black); math.Abs(got-21.0) > 0.01 {
		t.Errorf("contrast white/black = %f, want 21.0", got)
	}

	// Symmetry and range across an assortment of pairs
	pairs := [][2]RGB{
		{white, black},
		{{255, 0, 0}, {0, 255, 0}},
		{{30, 60, 90}, {200, 180, 160}},
		{{128, 128, 128}, {128, 128, 128}},
	}
	for _, p := range pairs {
		ab := ContrastRatio(p[0], p[1])
		ba := ContrastRatio(p[1], p[0])
		if ab != ba {
			t.Errorf("contrast not symmetric: %f vs %f for %v", ab, ba, p)
		}
		if ab < 1.0 || ab > 21.0 {
			t.Errorf("contrast out of range: %f for %v", ab, p)
		}
	}
}

func TestAPCARating(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{95, "excellent"},
		{-95, "excellent"},
		{80, "very good"},
		{60, "good"},
		{45, "fair"},
		{44, "poor"},
		{0, "poor"},
	}
	for _, tt := range tests {
		if got := APCARating(tt.score); got != tt.want {
			t.Errorf("APCARating(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestAPCAScore_Polarity(t *testing.T) {
	lWhite := RelativeLuminance(RGB{255, 255, 255})
	lBlack := RelativeLuminance(RGB{0, 0, 0})

	score := APCAScore(lWhite, lBlack)
	if score < 90 {
		t.Errorf("APCA white/black = %d, expected a high score", score)
	}
	// Order of arguments must not matter; the lighter color is text
	if other := APCAScore(lBlack, lWhite); other != score {
		t.Errorf("APCA order dependent: %d vs %d", score, other)
	}
	if same := APCAScore(0.5, 0.5); same > 5 || same < -5 {
		t.Errorf("APCA of identical luminance = %d, expected near zero", same)
	}
}

func TestLabRoundTrip(t *testing.T) {
	colors := []RGB{
		{255, 255, 255},
		{0, 0, 0},
		{255, 0, 0},
		{0, 255, 0},
		{0, 0, 255},
		{18, 52, 86},
		{200, 100, 50},
		{127, 127, 127},
	}
	for _, c := range colors {
		back := c.ToLab().ToRGB()
		if absDiff(c.R, back.R) > 2 || absDiff(c.G, back.G) > 2 || absDiff(c.B, back.B) > 2 {
			t.Errorf("Lab round trip %v -> %v exceeds tolerance", c, back)
		}
	}
}

func TestChromaAndNeutral(t *testing.T) {
	gray := RGB{128, 128, 128}.ToLab()
	if !gray.IsNeutral() {
		t.Errorf("mid gray chroma = %f, expected neutral (< %f)", gray.Chroma(), NeutralChromaThreshold)
	}

	red := RGB{255, 0, 0}.ToLab()
	if red.IsNeutral() {
		t.Errorf("pure red chroma = %f, expected non-neutral", red.Chroma())
	}
}

func TestDistance(t *testing.T) {
	a := Lab{50, 10, -10}
	if d := Distance(a, a); d != 0 {
		t.Errorf("distance to self = %f, want 0", d)
	}
	b := Lab{53, 14, -10}
	if d := Distance(a, b); math.Abs(d-5.0) > 1e-9 {
		t.Errorf("distance = %f, want 5.0", d)
	}
	if Distance(a, b) != Distance(b, a) {
		t.Error("distance not symmetric")
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
