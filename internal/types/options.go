package types

import (
	"errors"
	"fmt"
)

const (
	CustomDurationMinSec = 5
	CustomDurationMaxSec = 300

	WordsPerCaptionMin     = 3
	WordsPerCaptionMax     = 10
	WordsPerCaptionDefault = 5
)

// Normalize fills defaults so the rest of the pipeline never sees zero values.
func (o *ClipOptions) Normalize() {
	if o.LengthPreset == "" {
		o.LengthPreset = LengthPresetMedium
	}
	if o.AspectRatio == "" {
		o.AspectRatio = AspectRatioAuto
	}
	if o.WordsPerCaption == 0 {
		o.WordsPerCaption = WordsPerCaptionDefault
	}
}

// Validate checks option consistency. The window's upper bound against the
// source duration is checked separately once the duration is known.
func (o ClipOptions) Validate() error {
	if !o.Window.IsValid() {
		return fmt.Errorf("time window start=%.3f end=%.3f is invalid", o.Window.StartSec, o.Window.EndSec)
	}

	switch o.LengthPreset {
	case LengthPresetShort, LengthPresetMedium, LengthPresetLong:
	case LengthPresetCustom:
		if o.MinDurationSec <= 0 || o.MaxDurationSec <= 0 {
			return errors.New("custom length preset requires min and max duration")
		}
		if o.MinDurationSec > o.MaxDurationSec {
			return fmt.Errorf("custom duration min %.1f exceeds max %.1f", o.MinDurationSec, o.MaxDurationSec)
		}
	default:
		return fmt.Errorf("unknown length preset %q", o.LengthPreset)
	}

	switch o.AspectRatio {
	case AspectRatioPortrait, AspectRatioLandscape, AspectRatioSquare, AspectRatioAuto:
	default:
		return fmt.Errorf("unknown aspect ratio %q", o.AspectRatio)
	}

	if o.WordsPerCaption < WordsPerCaptionMin || o.WordsPerCaption > WordsPerCaptionMax {
		return fmt.Errorf("words per caption %d outside [%d,%d]", o.WordsPerCaption, WordsPerCaptionMin, WordsPerCaptionMax)
	}

	return nil
}
