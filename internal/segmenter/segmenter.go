// Package segmenter converts a time-aligned transcript into ordered,
// non-overlapping candidate clips.
package segmenter

import (
	"context"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"clipforge/internal/types"
	"clipforge/log"
)

const (
	// InterClipGapSec separates consecutive clip windows.
	InterClipGapSec = 5.0
	// MaxClipsPerJob caps how many candidates one job may produce.
	MaxClipsPerJob = 10
)

// Duration bands per length preset, in seconds.
const (
	shortMinSec  = 10
	shortMaxSec  = 25
	mediumMinSec = 25
	mediumMaxSec = 45
	longMinSec   = 45
	longMaxSec   = 90
)

// Engine slices a transcript into clip candidates. Scorer may be nil, in
// which case the deterministic heuristic is used.
type Engine struct {
	scorer types.Scorer
}

func NewEngine(scorer types.Scorer) *Engine {
	if scorer == nil {
		scorer = NewHeuristicScorer()
	}
	return &Engine{scorer: scorer}
}

// ResolveDurationBand maps a length preset to its [min,max] clip duration.
// Custom bounds are clamped to [5,300] seconds.
func ResolveDurationBand(opts types.ClipOptions) (minDur, maxDur float64) {
	switch opts.LengthPreset {
	case types.LengthPresetShort:
		return shortMinSec, shortMaxSec
	case types.LengthPresetLong:
		return longMinSec, longMaxSec
	case types.LengthPresetCustom:
		minDur = clamp(opts.MinDurationSec, types.CustomDurationMinSec, types.CustomDurationMaxSec)
		maxDur = clamp(opts.MaxDurationSec, types.CustomDurationMinSec, types.CustomDurationMaxSec)
		if maxDur < minDur {
			maxDur = minDur
		}
		return minDur, maxDur
	default:
		return mediumMinSec, mediumMaxSec
	}
}

// Segment walks the job window from its start, carving clip-sized spans and
// emitting a clip for every span that overlaps at least one transcript
// segment. Output is sorted by ascending start time and never overlaps; an
// empty transcript legitimately yields zero clips.
func (e *Engine) Segment(ctx context.Context, transcript *types.Transcript, opts types.ClipOptions) ([]types.Clip, error) {
	window := opts.Window
	minDur, maxDur := ResolveDurationBand(opts)

	segments := restrictToWindow(transcript, window)

	var clips []types.Clip
	cursor := window.StartSec
	clipId := 1

	for cursor < window.EndSec && len(clips) < MaxClipsPerJob {
		remaining := window.EndSec - cursor
		span := math.Min(maxDur, remaining)
		if remaining < minDur {
			// A remainder shorter than the band becomes one whole-remainder
			// clip rather than a failure.
			span = remaining
		}
		spanEnd := cursor + span

		overlapping := overlappingSegments(segments, cursor, spanEnd)
		if len(overlapping) == 0 {
			cursor = spanEnd + InterClipGapSec
			continue
		}

		clip, err := e.buildClip(ctx, clipId, cursor, spanEnd, overlapping, opts)
		if err != nil {
			return nil, err
		}
		clips = append(clips, clip)
		clipId++
		cursor = spanEnd + InterClipGapSec
	}

	// The cursor walk already yields ascending, gap-separated windows; the
	// sort makes the ordering invariant explicit rather than incidental.
	sort.SliceStable(clips, func(i, j int) bool {
		return clips[i].StartSec < clips[j].StartSec
	})

	log.GetLogger().Debug("segmentation complete",
		zap.Int("clips", len(clips)),
		zap.Float64("window_start", window.StartSec),
		zap.Float64("window_end", window.EndSec))

	return clips, nil
}

func (e *Engine) buildClip(ctx context.Context, clipId int, startSec, endSec float64, overlapping []types.TranscriptSegment, opts types.ClipOptions) (types.Clip, error) {
	duration := endSec - startSec

	var captions []types.Caption
	if opts.Captions {
		captions = projectCaptions(overlapping, startSec, endSec, opts.WordsPerCaption)
	}

	text := joinSegmentText(overlapping)

	var keywords []string
	if opts.KeywordHighlight {
		keywords = ExtractKeywords(text)
	}

	score, err := e.scorer.ScoreClip(ctx, text)
	if err != nil {
		// Provider scoring is best-effort; the deterministic heuristic keeps
		// the job moving.
		log.GetLogger().Warn("scorer failed, using heuristic", zap.Int("clipId", clipId), zap.Error(err))
		score, _ = NewHeuristicScorer().ScoreClip(ctx, text)
	}
	score = clampScore(score)

	return types.Clip{
		ClipId:      clipId,
		StartSec:    startSec,
		EndSec:      endSec,
		DurationSec: duration,
		AspectRatio: opts.AspectRatio,
		Template:    opts.Template,
		Captions:    captions,
		Keywords:    keywords,
		ThumbnailTimestamps: []float64{
			startSec + duration*0.1,
			startSec + duration*0.5,
			startSec + duration*0.9,
		},
		ScoreEngagement: score.Engagement,
		ScoreClarity:    score.Clarity,
		ScoreHook:       score.Hook,
	}, nil
}

// restrictToWindow keeps only segments intersecting the job window, trimming
// boundary segments to it.
func restrictToWindow(transcript *types.Transcript, window types.TimeWindow) []types.TranscriptSegment {
	if transcript == nil {
		return nil
	}
	out := make([]types.TranscriptSegment, 0, len(transcript.Segments))
	for _, seg := range transcript.Segments {
		if seg.StartSec >= window.EndSec || seg.EndSec <= window.StartSec {
			continue
		}
		trimmed := seg
		if trimmed.StartSec < window.StartSec {
			trimmed.StartSec = window.StartSec
		}
		if trimmed.EndSec > window.EndSec {
			trimmed.EndSec = window.EndSec
		}
		out = append(out, trimmed)
	}
	return out
}

// overlappingSegments returns segments with seg.start < spanEnd and
// seg.end > spanStart.
func overlappingSegments(segments []types.TranscriptSegment, spanStart, spanEnd float64) []types.TranscriptSegment {
	var out []types.TranscriptSegment
	for _, seg := range segments {
		if seg.StartSec < spanEnd && seg.EndSec > spanStart {
			out = append(out, seg)
		}
	}
	return out
}

// projectCaptions clamps each overlapping segment to the clip interval and
// splits its text into caption lines of at most wordsPerCaption words, the
// sub-intervals distributed proportionally by word count.
func projectCaptions(segments []types.TranscriptSegment, clipStart, clipEnd float64, wordsPerCaption int) []types.Caption {
	if wordsPerCaption <= 0 {
		wordsPerCaption = types.WordsPerCaptionDefault
	}

	var captions []types.Caption
	for _, seg := range segments {
		start := math.Max(seg.StartSec, clipStart)
		end := math.Min(seg.EndSec, clipEnd)
		if end <= start {
			continue
		}

		words := strings.Fields(seg.Text)
		if len(words) == 0 {
			continue
		}

		total := len(words)
		interval := end - start
		for offset := 0; offset < total; offset += wordsPerCaption {
			chunkEnd := offset + wordsPerCaption
			if chunkEnd > total {
				chunkEnd = total
			}
			capStart := start + interval*float64(offset)/float64(total)
			capEnd := start + interval*float64(chunkEnd)/float64(total)
			captions = append(captions, types.Caption{
				StartSec: capStart,
				EndSec:   capEnd,
				Text:     strings.Join(words[offset:chunkEnd], " "),
			})
		}
	}
	return captions
}

func joinSegmentText(segments []types.TranscriptSegment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if t := strings.TrimSpace(seg.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

func clampScore(s types.ClipScore) types.ClipScore {
	return types.ClipScore{
		Engagement: clamp(s.Engagement, 0, 1),
		Clarity:    clamp(s.Clarity, 0, 1),
		Hook:       clamp(s.Hook, 0, 1),
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
