package segmenter

import (
	"context"
	"regexp"
	"strings"

	"clipforge/internal/types"
)

var (
	reNumber  = regexp.MustCompile(`\b\d+(?:[\.,]\d+)?\b`)
	reHook    = regexp.MustCompile(`(?i)\b(important|key|secret|mistake|never|always|here\s+is\s+why|remember|surprising)\b`)
	reHowTo   = regexp.MustCompile(`(?i)\b(how\s+to|step\s+\d+|first|second|third|do\s+this)\b`)
	reAddress = regexp.MustCompile(`(?i)\b(you|your|yours)\b`)
)

// HeuristicScorer rates clip text with cheap lexical signals. It is fully
// deterministic per input, which the pipeline relies on when a provider
// scorer is unavailable.
type HeuristicScorer struct{}

func NewHeuristicScorer() *HeuristicScorer {
	return &HeuristicScorer{}
}

func (s *HeuristicScorer) ScoreClip(_ context.Context, text string) (types.ClipScore, error) {
	t := strings.TrimSpace(text)
	if t == "" {
		return types.ClipScore{}, nil
	}
	lower := strings.ToLower(t)
	words := strings.Fields(t)

	// Engagement: direct address, questions and exclamations pull viewers in.
	engagement := 0.12 * float64(len(reAddress.FindAllStringIndex(lower, -1)))
	engagement += 0.15 * float64(strings.Count(t, "?"))
	engagement += 0.08 * float64(strings.Count(t, "!"))
	engagement += 0.05 * float64(len(reNumber.FindAllStringIndex(t, -1)))

	// Clarity: favor mid-length statements, penalize fragments and run-ons.
	clarity := 0.6
	switch n := len(words); {
	case n < 5:
		clarity -= 0.3
	case n > 120:
		clarity -= 0.25
	case n >= 20 && n <= 80:
		clarity += 0.25
	}
	if strings.HasSuffix(t, ".") || strings.HasSuffix(t, "?") || strings.HasSuffix(t, "!") {
		clarity += 0.1
	}

	// Hook: attention-keeping phrases and procedural openings.
	hook := 0.2 * float64(len(reHook.FindAllStringIndex(lower, -1)))
	hook += 0.15 * float64(len(reHowTo.FindAllStringIndex(lower, -1)))
	hook += 0.1 * float64(strings.Count(t, "?"))

	return clampScore(types.ClipScore{
		Engagement: engagement,
		Clarity:    clarity,
		Hook:       hook,
	}), nil
}
