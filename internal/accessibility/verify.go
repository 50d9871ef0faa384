package accessibility

import (
	"math"
	"strings"

	"github.com/arbovm/levenshtein"
	"github.com/codycollier/wer"

	"go-visual-auditor/pkg/models"
)

// VerifyText compares expected copy against the OCR transcript. WER is
// computed at word level, CER at character level, both normalized by the
// expected length. The match score is 1-WER clamped to 0, as a
// percentage.
func VerifyText(expected, extracted string) models.TextVerification {
	expected = normalizeWhitespace(expected)
	extracted = normalizeWhitespace(extracted)

	wer := wordErrorRate(expected, extracted)
	cer := charErrorRate(expected, extracted)

	return models.TextVerification{
		ExpectedText:  expected,
		ExtractedText: extracted,
		WER:           round4(wer),
		CER:           round4(cer),
		MatchScore:    round2(math.Max(0, 1.0-wer) * 100),
	}
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func wordErrorRate(expected, extracted string) float64 {
	ref := strings.Fields(expected)
	hyp := strings.Fields(extracted)
	// wer.WER divides by the reference length, so empty references are
	// resolved here.
	if len(ref) == 0 {
		if len(hyp) == 0 {
			return 0
		}
		return 1
	}
	rate, _ := wer.WER(ref, hyp)
	return rate
}

func charErrorRate(expected, extracted string) float64 {
	if len(expected) == 0 {
		if len(extracted) == 0 {
			return 0
		}
		return 1
	}
	dist := levenshtein.Distance(expected, extracted)
	return float64(dist) / float64(len([]rune(expected)))
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
