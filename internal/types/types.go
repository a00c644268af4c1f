package types

import (
	"context"
	"time"
)

// TimeWindow is a half-open interval [StartSec, EndSec) in seconds.
type TimeWindow struct {
	StartSec float64 `json:"start_sec"`
	EndSec   float64 `json:"end_sec"`
}

func (w TimeWindow) Duration() float64 {
	return w.EndSec - w.StartSec
}

func (w TimeWindow) IsValid() bool {
	return w.StartSec >= 0 && w.EndSec > w.StartSec
}

// SourceDescriptor points at the job's input video. Exactly one of FilePath
// and URL is set.
type SourceDescriptor struct {
	FilePath string `json:"file_path,omitempty"`
	URL      string `json:"url,omitempty"`
}

func (s SourceDescriptor) IsLocal() bool {
	return s.FilePath != ""
}

type LengthPreset string

const (
	LengthPresetShort  LengthPreset = "short"
	LengthPresetMedium LengthPreset = "medium"
	LengthPresetLong   LengthPreset = "long"
	LengthPresetCustom LengthPreset = "custom"
)

type AspectRatio string

const (
	AspectRatioPortrait  AspectRatio = "9:16"
	AspectRatioLandscape AspectRatio = "16:9"
	AspectRatioSquare    AspectRatio = "1:1"
	AspectRatioAuto      AspectRatio = "auto"
)

type Quality string

const (
	QualityLow    Quality = "low"
	QualityMedium Quality = "medium"
	QualityHigh   Quality = "high"
)

// ClipOptions is the immutable option set carried by a job.
type ClipOptions struct {
	Window           TimeWindow   `json:"window"`
	LengthPreset     LengthPreset `json:"length_preset"`
	MinDurationSec   float64      `json:"min_duration_sec,omitempty"`
	MaxDurationSec   float64      `json:"max_duration_sec,omitempty"`
	AspectRatio      AspectRatio  `json:"aspect_ratio"`
	Template         string       `json:"template,omitempty"`
	MemeHook         bool         `json:"meme_hook"`
	Captions         bool         `json:"captions"`
	KeywordHighlight bool         `json:"keyword_highlight"`
	BackgroundMusic  bool         `json:"background_music"`
	HookTitle        bool         `json:"hook_title"`
	CallToAction     bool         `json:"call_to_action"`
	AutoThumbnail    bool         `json:"auto_thumbnail"`
	WordsPerCaption  int          `json:"words_per_caption"`
}

type JobStatus string

const (
	JobStatusProcessing JobStatus = "processing"
	JobStatusReady      JobStatus = "ready"
	JobStatusFailed     JobStatus = "failed"
)

func (s JobStatus) IsTerminal() bool {
	return s == JobStatusReady || s == JobStatusFailed
}

// JobStage tracks where inside the processing status a job currently is.
type JobStage string

const (
	JobStageCreated         JobStage = "created"
	JobStageProbing         JobStage = "probing"
	JobStageExtractingAudio JobStage = "extracting_audio"
	JobStageTranscribing    JobStage = "transcribing"
	JobStageSegmenting      JobStage = "segmenting"
	JobStagePersisting      JobStage = "persisting"
	JobStageReady           JobStage = "ready"
	JobStageFailed          JobStage = "failed"
)

// ClipJob is the persisted record of one processing run.
type ClipJob struct {
	Id         int64       `json:"-" gorm:"primaryKey;autoIncrement"`
	JobId      string      `json:"job_id" gorm:"uniqueIndex;size:64"`
	SourcePath string      `json:"source_path,omitempty"`
	SourceUrl  string      `json:"source_url,omitempty"`
	Options    ClipOptions `json:"options" gorm:"serializer:json"`

	DurationSec float64   `json:"duration_sec"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	Fps         float64   `json:"fps"`
	BitrateBps  int64     `json:"bitrate_bps"`

	Status     JobStatus `json:"status" gorm:"size:16;index"`
	Stage      JobStage  `json:"stage" gorm:"size:24"`
	StatusMsg  string    `json:"status_msg"`
	ProcessPct uint8     `json:"process_pct"`
	FailReason string    `json:"fail_reason,omitempty"`
	ErrorCode  int       `json:"error_code,omitempty"`

	Clips []Clip `json:"clips" gorm:"foreignKey:JobId;references:JobId"`

	CreateTime time.Time `json:"create_time" gorm:"autoCreateTime"`
	UpdateTime time.Time `json:"update_time" gorm:"autoUpdateTime"`
}

// Caption is a transcript line projected onto a clip's own timeline.
type Caption struct {
	StartSec float64 `json:"start_sec"`
	EndSec   float64 `json:"end_sec"`
	Text     string  `json:"text"`
}

// ClipScore is the three-axis score, each value in [0,1].
type ClipScore struct {
	Engagement float64 `json:"engagement"`
	Clarity    float64 `json:"clarity"`
	Hook       float64 `json:"hook"`
}

// Clip is one candidate highlight derived from a job. ClipId is unique within
// its job; the (JobId, ClipId) pair identifies it globally.
type Clip struct {
	Id     int64  `json:"-" gorm:"primaryKey;autoIncrement"`
	JobId  string `json:"job_id" gorm:"size:64;uniqueIndex:idx_job_clip"`
	ClipId int    `json:"clip_id" gorm:"uniqueIndex:idx_job_clip"`

	StartSec    float64 `json:"start_sec" gorm:"index"`
	EndSec      float64 `json:"end_sec"`
	DurationSec float64 `json:"duration_sec"`

	AspectRatio AspectRatio `json:"aspect_ratio" gorm:"size:8"`
	Template    string      `json:"template,omitempty"`

	Captions            []Caption `json:"captions" gorm:"serializer:json"`
	Keywords            []string  `json:"keywords,omitempty" gorm:"serializer:json"`
	ThumbnailTimestamps []float64 `json:"thumbnail_timestamps" gorm:"serializer:json"`

	ScoreEngagement float64 `json:"score_engagement"`
	ScoreClarity    float64 `json:"score_clarity"`
	ScoreHook       float64 `json:"score_hook"`

	// ArtifactPath is empty until the renderer produces the encoded file.
	ArtifactPath    string  `json:"artifact_path,omitempty"`
	ArtifactAspect  string  `json:"artifact_aspect,omitempty" gorm:"size:8"`
	ArtifactQuality string  `json:"artifact_quality,omitempty" gorm:"size:8"`

	CreateTime time.Time `json:"create_time" gorm:"autoCreateTime"`
}

func (c Clip) Window() TimeWindow {
	return TimeWindow{StartSec: c.StartSec, EndSec: c.EndSec}
}

func (c Clip) Score() ClipScore {
	return ClipScore{Engagement: c.ScoreEngagement, Clarity: c.ScoreClarity, Hook: c.ScoreHook}
}

// TranscriptSegment is one time-aligned line of speech.
type TranscriptSegment struct {
	StartSec float64 `json:"start_sec"`
	EndSec   float64 `json:"end_sec"`
	Text     string  `json:"text"`
}

// Transcript is the ordered segment sequence for one job. It lives only for
// the duration of the processing phase and is never persisted.
type Transcript struct {
	Segments []TranscriptSegment `json:"segments"`
}

// VideoMeta is the media inspector's probe result.
type VideoMeta struct {
	DurationSec float64 `json:"duration_sec"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Fps         float64 `json:"fps"`
	BitrateBps  int64   `json:"bitrate_bps"`
}

// Transcriber converts an extracted audio artifact into a transcript whose
// timestamps are absolute source-video seconds (the window's offset applied).
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, window TimeWindow) (*Transcript, error)
}

// Scorer rates a clip's text on the three axes. Implementations must be
// deterministic per input and clamp to [0,1].
type Scorer interface {
	ScoreClip(ctx context.Context, text string) (ClipScore, error)
}

// ChatCompleter is the minimal LLM surface the scorer backend needs.
type ChatCompleter interface {
	ChatCompletion(prompt string) (string, error)
}

// MediaProber inspects a source file. Read-only, safely retryable.
type MediaProber interface {
	Probe(ctx context.Context, path string) (*VideoMeta, error)
}

// AudioExtractor derives a bounded audio artifact from a source video.
// The caller owns the returned file and must remove it.
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, sourcePath string, window TimeWindow) (string, error)
}
