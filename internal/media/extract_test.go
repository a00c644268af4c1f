package media

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clipforge/internal/types"
	apperrors "clipforge/pkg/errors"
)

func TestExtractAudioDegenerateWindow(t *testing.T) {
	e := NewExtractor(t.TempDir())

	_, err := e.ExtractAudio(context.Background(), "/tmp/whatever.mp4", types.TimeWindow{StartSec: 50, EndSec: 50})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeExtractionFailed))
}

func TestExtractAudioMissingSource(t *testing.T) {
	e := NewExtractor(t.TempDir())

	_, err := e.ExtractAudio(context.Background(), "/does/not/exist.mp4", types.TimeWindow{StartSec: 0, EndSec: 10})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeExtractionFailed))
}

func TestBuildExtractArgs(t *testing.T) {
	args := buildExtractArgs("in.mp4", types.TimeWindow{StartSec: 12.5, EndSec: 40}, "out.wav")

	assert.Equal(t, []string{
		"-y",
		"-ss", "12.500",
		"-to", "40.000",
		"-i", "in.mp4",
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		"out.wav",
	}, args)
}
