package localwhisper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "clipforge/pkg/errors"
)

func TestParseOutput(t *testing.T) {
	raw := []byte(`{
		"transcription": [
			{"offsets": {"from": 0, "to": 2500}, "text": " first line "},
			{"offsets": {"from": 2500, "to": 6000}, "text": "second line"},
			{"offsets": {"from": 6000, "to": 7000}, "text": "  "}
		]
	}`)

	transcript, err := parseOutput(raw, 30)
	require.NoError(t, err)
	require.Len(t, transcript.Segments, 2)
	assert.Equal(t, 30.0, transcript.Segments[0].StartSec)
	assert.Equal(t, 32.5, transcript.Segments[0].EndSec)
	assert.Equal(t, "first line", transcript.Segments[0].Text)
	assert.Equal(t, 36.0, transcript.Segments[1].EndSec)
}

func TestParseOutputMalformed(t *testing.T) {
	_, err := parseOutput([]byte("not json"), 0)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeTranscriptUnavailable, apperrors.GetCode(err))
}

func TestParseOutputEmpty(t *testing.T) {
	transcript, err := parseOutput([]byte(`{"transcription": []}`), 0)
	require.NoError(t, err)
	assert.Empty(t, transcript.Segments)
}
