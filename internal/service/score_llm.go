package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"clipforge/internal/types"
	"clipforge/log"
	apperrors "clipforge/pkg/errors"
	"clipforge/pkg/util"
)

const scorePrompt = `You rate short video clip transcripts for social media potential.
Rate the following transcript on three axes, each a number between 0 and 1:
- engagement: how likely viewers are to interact
- clarity: how self-contained and understandable the excerpt is
- hook: how strongly the opening grabs attention

Respond with only a JSON object: {"engagement": 0.0, "clarity": 0.0, "hook": 0.0}

Transcript:
%s`

// LlmScorer asks a chat model to rate clip text. The segmentation engine
// falls back to the heuristic scorer per clip when this returns an error.
type LlmScorer struct {
	chatCompleter types.ChatCompleter
}

func NewLlmScorer(chatCompleter types.ChatCompleter) *LlmScorer {
	return &LlmScorer{chatCompleter: chatCompleter}
}

func (s *LlmScorer) ScoreClip(_ context.Context, text string) (types.ClipScore, error) {
	resp, err := s.chatCompleter.ChatCompletion(fmt.Sprintf(scorePrompt, text))
	if err != nil {
		return types.ClipScore{}, apperrors.Wrap(apperrors.CodeInternal, "llm score request failed", err)
	}

	var score types.ClipScore
	jsonStr := util.ExtractJsonFromText(resp)
	if err := json.Unmarshal([]byte(jsonStr), &score); err != nil {
		log.GetLogger().Warn("llm score response not parseable", zap.String("response", resp), zap.Error(err))
		return types.ClipScore{}, apperrors.Wrap(apperrors.CodeInternal, "llm score response not parseable", err)
	}

	score.Engagement = clamp01(score.Engagement)
	score.Clarity = clamp01(score.Clarity)
	score.Hook = clamp01(score.Hook)
	return score, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
