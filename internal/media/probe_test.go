package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "clipforge/pkg/errors"
)

const sampleProbeJSON = `{
  "streams": [
    {"codec_type": "video", "width": 1920, "height": 1080, "r_frame_rate": "30000/1001"},
    {"codec_type": "audio", "bit_rate": "128000"}
  ],
  "format": {"duration": "300.500000", "bit_rate": "2500000"}
}`

func TestParseProbeOutput(t *testing.T) {
	meta, err := parseProbeOutput([]byte(sampleProbeJSON))
	require.NoError(t, err)

	assert.Equal(t, 300.5, meta.DurationSec)
	assert.Equal(t, 1920, meta.Width)
	assert.Equal(t, 1080, meta.Height)
	assert.InDelta(t, 29.97, meta.Fps, 0.01)
	assert.Equal(t, int64(2500000), meta.BitrateBps)
}

func TestParseProbeOutputNoVideoStream(t *testing.T) {
	audioOnly := `{"streams": [{"codec_type": "audio"}], "format": {"duration": "10.0"}}`

	_, err := parseProbeOutput([]byte(audioOnly))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeMediaUnreadable))
}

func TestParseProbeOutputGarbage(t *testing.T) {
	_, err := parseProbeOutput([]byte("not json"))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeMediaUnreadable))
}

func TestParseFrameRate(t *testing.T) {
	assert.Equal(t, 30.0, parseFrameRate("30/1"))
	assert.InDelta(t, 23.976, parseFrameRate("24000/1001"), 0.001)
	assert.Equal(t, 25.0, parseFrameRate("25"))
	assert.Equal(t, 0.0, parseFrameRate("x/y"))
	assert.Equal(t, 0.0, parseFrameRate("1/0"))
}
