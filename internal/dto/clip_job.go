package dto

import "clipforge/internal/types"

// SubmitClipJobReq starts a clip production job. Exactly one of FilePath and
// Url must be set.
type SubmitClipJobReq struct {
	FilePath string `json:"file_path"`
	Url      string `json:"url"`

	Window           types.TimeWindow   `json:"window"`
	LengthPreset     types.LengthPreset `json:"length_preset"`
	MinDurationSec   float64            `json:"min_duration_sec"`
	MaxDurationSec   float64            `json:"max_duration_sec"`
	AspectRatio      types.AspectRatio  `json:"aspect_ratio"`
	Template         string             `json:"template"`
	MemeHook         bool               `json:"meme_hook"`
	Captions         bool               `json:"captions"`
	KeywordHighlight bool               `json:"keyword_highlight"`
	BackgroundMusic  bool               `json:"background_music"`
	HookTitle        bool               `json:"hook_title"`
	CallToAction     bool               `json:"call_to_action"`
	AutoThumbnail    bool               `json:"auto_thumbnail"`
	WordsPerCaption  int                `json:"words_per_caption"`
}

func (r SubmitClipJobReq) Options() types.ClipOptions {
	return types.ClipOptions{
		Window:           r.Window,
		LengthPreset:     r.LengthPreset,
		MinDurationSec:   r.MinDurationSec,
		MaxDurationSec:   r.MaxDurationSec,
		AspectRatio:      r.AspectRatio,
		Template:         r.Template,
		MemeHook:         r.MemeHook,
		Captions:         r.Captions,
		KeywordHighlight: r.KeywordHighlight,
		BackgroundMusic:  r.BackgroundMusic,
		HookTitle:        r.HookTitle,
		CallToAction:     r.CallToAction,
		AutoThumbnail:    r.AutoThumbnail,
		WordsPerCaption:  r.WordsPerCaption,
	}
}

type SubmitClipJobResData struct {
	JobId string `json:"job_id"`
}

type SubmitClipJobRes struct {
	Error int32                 `json:"error"`
	Msg   string                `json:"msg"`
	Data  *SubmitClipJobResData `json:"data"`
}

type GetClipJobReq struct {
	JobId string `json:"jobId" uri:"jobId" binding:"required"`
}

// ClipInfo is the read model of one produced clip.
type ClipInfo struct {
	ClipId      int     `json:"clip_id"`
	StartSec    float64 `json:"start_sec"`
	EndSec      float64 `json:"end_sec"`
	DurationSec float64 `json:"duration_sec"`

	AspectRatio string `json:"aspect_ratio"`
	Template    string `json:"template,omitempty"`

	Captions            []types.Caption `json:"captions,omitempty"`
	Keywords            []string        `json:"keywords,omitempty"`
	ThumbnailTimestamps []float64       `json:"thumbnail_timestamps"`

	Score types.ClipScore `json:"score"`

	MediaUrl string `json:"media_url,omitempty"`
}

type GetClipJobResData struct {
	JobId       string     `json:"job_id"`
	Status      string     `json:"status"`
	Stage       string     `json:"stage"`
	StatusMsg   string     `json:"status_msg"`
	ProcessPct  uint8      `json:"process_percent"`
	DurationSec float64    `json:"duration_sec,omitempty"`
	FailReason  string     `json:"fail_reason,omitempty"`
	ErrorCode   int        `json:"error_code,omitempty"`
	Clips       []ClipInfo `json:"clips,omitempty"`
}

type GetClipJobRes struct {
	Error int32              `json:"error"`
	Msg   string             `json:"msg"`
	Data  *GetClipJobResData `json:"data"`
}

type GetJobHistoryReq struct {
	Limit int `json:"limit" form:"limit"`
}

type GetJobHistoryResData struct {
	Jobs []GetClipJobResData `json:"jobs"`
}

// GetClipMediaReq addresses one clip variant for lazy rendering.
type GetClipMediaReq struct {
	JobId   string `json:"jobId" uri:"jobId" binding:"required"`
	ClipId  int    `json:"clipId" uri:"clipId" binding:"required"`
	Aspect  string `json:"aspect" form:"aspect"`
	Quality string `json:"quality" form:"quality"`
}
