// Package media wraps the ffmpeg/ffprobe binaries behind the pipeline's
// inspector and extractor contracts.
package media

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"clipforge/internal/storage"
	"clipforge/internal/types"
	"clipforge/log"
	apperrors "clipforge/pkg/errors"
)

// Prober implements types.MediaProber over ffprobe.
type Prober struct{}

func NewProber() *Prober {
	return &Prober{}
}

// Probe inspects a source file. Read-only; no side effects.
func (p *Prober) Probe(ctx context.Context, path string) (*types.VideoMeta, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidSource, "source file not found", err)
	}

	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}
	cmd := exec.CommandContext(ctx, storage.FfprobePath, args...)
	output, err := cmd.Output()
	if err != nil {
		log.GetLogger().Error("ffprobe failed", zap.String("path", path), zap.Error(err))
		return nil, apperrors.Wrap(apperrors.CodeMediaUnreadable, "ffprobe could not read source", err)
	}

	meta, err := parseProbeOutput(output)
	if err != nil {
		return nil, err
	}
	return meta, nil
}

// probeResult matches ffprobe's -print_format json layout.
type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
		BitRate  string `json:"bit_rate"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		RFrameRate string `json:"r_frame_rate"`
	} `json:"streams"`
}

func parseProbeOutput(output []byte) (*types.VideoMeta, error) {
	var probe probeResult
	if err := json.Unmarshal(output, &probe); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeMediaUnreadable, "unexpected ffprobe output", err)
	}

	meta := &types.VideoMeta{}
	if dur, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
		meta.DurationSec = dur
	}
	if br, err := strconv.ParseInt(probe.Format.BitRate, 10, 64); err == nil {
		meta.BitrateBps = br
	}

	hasVideo := false
	for _, stream := range probe.Streams {
		if stream.CodecType != "video" {
			continue
		}
		hasVideo = true
		meta.Width = stream.Width
		meta.Height = stream.Height
		meta.Fps = parseFrameRate(stream.RFrameRate)
		break
	}
	if !hasVideo {
		return nil, apperrors.New(apperrors.CodeMediaUnreadable, "no decodable video stream")
	}

	return meta, nil
}

// parseFrameRate converts ffprobe's rational frame rate ("30000/1001") to fps.
func parseFrameRate(raw string) float64 {
	parts := strings.SplitN(raw, "/", 2)
	if len(parts) != 2 {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
		return 0
	}
	num, err1 := strconv.ParseFloat(parts[0], 64)
	den, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil || den == 0 {
		return 0
	}
	return num / den
}
