package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validOptions() ClipOptions {
	o := ClipOptions{
		Window:       TimeWindow{StartSec: 0, EndSec: 120},
		LengthPreset: LengthPresetShort,
		AspectRatio:  AspectRatioPortrait,
	}
	o.Normalize()
	return o
}

func TestClipOptionsNormalizeDefaults(t *testing.T) {
	o := ClipOptions{Window: TimeWindow{StartSec: 0, EndSec: 60}}
	o.Normalize()

	assert.Equal(t, LengthPresetMedium, o.LengthPreset)
	assert.Equal(t, AspectRatioAuto, o.AspectRatio)
	assert.Equal(t, WordsPerCaptionDefault, o.WordsPerCaption)
	assert.NoError(t, o.Validate())
}

func TestClipOptionsValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*ClipOptions)
		wantErr bool
	}{
		{"valid", func(o *ClipOptions) {}, false},
		{"inverted window", func(o *ClipOptions) { o.Window = TimeWindow{StartSec: 100, EndSec: 50} }, true},
		{"negative start", func(o *ClipOptions) { o.Window.StartSec = -1 }, true},
		{"unknown preset", func(o *ClipOptions) { o.LengthPreset = "epic" }, true},
		{"custom without bounds", func(o *ClipOptions) { o.LengthPreset = LengthPresetCustom }, true},
		{"custom inverted bounds", func(o *ClipOptions) {
			o.LengthPreset = LengthPresetCustom
			o.MinDurationSec = 60
			o.MaxDurationSec = 30
		}, true},
		{"custom valid", func(o *ClipOptions) {
			o.LengthPreset = LengthPresetCustom
			o.MinDurationSec = 15
			o.MaxDurationSec = 45
		}, false},
		{"unknown aspect", func(o *ClipOptions) { o.AspectRatio = "4:3" }, true},
		{"words per caption too low", func(o *ClipOptions) { o.WordsPerCaption = 2 }, true},
		{"words per caption too high", func(o *ClipOptions) { o.WordsPerCaption = 11 }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			o := validOptions()
			tc.mutate(&o)
			err := o.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTimeWindow(t *testing.T) {
	w := TimeWindow{StartSec: 10, EndSec: 35}
	assert.Equal(t, 25.0, w.Duration())
	assert.True(t, w.IsValid())
	assert.False(t, TimeWindow{StartSec: 5, EndSec: 5}.IsValid())
}

func TestJobStatusTerminal(t *testing.T) {
	assert.False(t, JobStatusProcessing.IsTerminal())
	assert.True(t, JobStatusReady.IsTerminal())
	assert.True(t, JobStatusFailed.IsTerminal())
}
