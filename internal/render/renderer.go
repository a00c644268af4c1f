// Package render produces encoded clip artifacts on demand. Nothing is
// encoded during job processing; the first media request for a clip pays
// the encode cost and every later request reuses the stored artifact.
package render

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"clipforge/internal/appdirs"
	"clipforge/internal/storage"
	"clipforge/internal/types"
	"clipforge/log"
	apperrors "clipforge/pkg/errors"
	"clipforge/pkg/util"
)

// Renderer encodes clips lazily and exactly once per variant. Concurrent
// requests for the same (job, clip, aspect, quality) collapse into a single
// encode via singleflight; later requests are served from the persisted
// artifact without touching ffmpeg again.
type Renderer struct {
	group singleflight.Group

	// encode runs the actual encoder. Swapped out in tests.
	encode func(ctx context.Context, args []string) error
	// outDirFor resolves the artifact directory for a job.
	outDirFor func(jobID string) (string, error)
}

func NewRenderer() *Renderer {
	return &Renderer{
		encode:    runFfmpeg,
		outDirFor: appdirs.ResolveJobDir,
	}
}

// Render returns the path of the encoded artifact for one clip variant,
// encoding it first if no usable artifact exists yet.
func (r *Renderer) Render(ctx context.Context, job *types.ClipJob, clip *types.Clip, aspect types.AspectRatio, quality types.Quality) (string, error) {
	if aspect == "" {
		aspect = clip.AspectRatio
	}
	if aspect == "" {
		aspect = types.AspectRatioAuto
	}
	if quality == "" {
		quality = types.QualityMedium
	}

	if !clip.Window().IsValid() {
		return "", apperrors.New(apperrors.CodeInvalidWindow, "clip window is degenerate")
	}
	if job.DurationSec > 0 && clip.EndSec > job.DurationSec+0.001 {
		return "", apperrors.New(apperrors.CodeInvalidWindow, "clip window exceeds source duration")
	}

	if path, ok := r.cachedArtifact(clip, aspect, quality); ok {
		return path, nil
	}

	key := fmt.Sprintf("%s:%d:%s:%s", job.JobId, clip.ClipId, aspect, quality)
	result, err, _ := r.group.Do(key, func() (any, error) {
		return r.renderOnce(ctx, job, clip, aspect, quality)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (r *Renderer) renderOnce(ctx context.Context, job *types.ClipJob, clip *types.Clip, aspect types.AspectRatio, quality types.Quality) (string, error) {
	// Another flight may have finished between the caller's cache check and
	// this one, so consult the store again before encoding.
	if stored, err := storage.GetClip(job.JobId, clip.ClipId); err == nil {
		if path, ok := r.cachedArtifact(stored, aspect, quality); ok {
			return path, nil
		}
	}

	if job.SourcePath == "" {
		return "", apperrors.New(apperrors.CodeSourceMissing, "job has no source file")
	}
	if _, err := os.Stat(job.SourcePath); err != nil {
		return "", apperrors.Wrap(apperrors.CodeSourceMissing, "source file no longer available", err)
	}

	outDir, err := r.outDirFor(job.JobId)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeRenderFailed, "resolve artifact directory", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", apperrors.Wrap(apperrors.CodeRenderFailed, "create artifact directory", err)
	}

	dest := filepath.Join(outDir, artifactFileName(clip.ClipId, aspect, quality))
	if _, err := os.Stat(dest); err == nil {
		if err := storage.SetClipArtifact(job.JobId, clip.ClipId, dest, string(aspect), string(quality)); err != nil {
			log.GetLogger().Warn("existing artifact not recorded", zap.Error(err))
		}
		return dest, nil
	}
	tmp := dest + ".part_" + util.GenerateRandStringWithUpperLowerNum(6)

	args := buildRenderArgs(job.SourcePath, clip.Window(), aspect, quality, tmp)
	if err := r.encode(ctx, args); err != nil {
		os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return "", apperrors.Wrap(apperrors.CodeRenderFailed, "finalize artifact", err)
	}

	if err := storage.SetClipArtifact(job.JobId, clip.ClipId, dest, string(aspect), string(quality)); err != nil {
		log.GetLogger().Warn("artifact rendered but not recorded",
			zap.String("jobId", job.JobId),
			zap.Int("clipId", clip.ClipId),
			zap.Error(err))
	}
	log.GetLogger().Info("clip rendered",
		zap.String("jobId", job.JobId),
		zap.Int("clipId", clip.ClipId),
		zap.String("aspect", string(aspect)),
		zap.String("quality", string(quality)))
	return dest, nil
}

// cachedArtifact reports whether the clip already carries a matching artifact
// that still exists on disk.
func (r *Renderer) cachedArtifact(clip *types.Clip, aspect types.AspectRatio, quality types.Quality) (string, bool) {
	if clip.ArtifactPath == "" {
		return "", false
	}
	if clip.ArtifactAspect != string(aspect) || clip.ArtifactQuality != string(quality) {
		return "", false
	}
	if _, err := os.Stat(clip.ArtifactPath); err != nil {
		return "", false
	}
	return clip.ArtifactPath, true
}

func artifactFileName(clipID int, aspect types.AspectRatio, quality types.Quality) string {
	slug := strings.ReplaceAll(string(aspect), ":", "x")
	return util.SanitizePathName(fmt.Sprintf("clip_%03d_%s_%s.mp4", clipID, slug, quality))
}

func runFfmpeg(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, storage.FfmpegPath, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		log.GetLogger().Error("clip encode failed",
			zap.String("output", string(output)),
			zap.Error(err))
		return apperrors.Wrap(apperrors.CodeRenderFailed, "ffmpeg encode failed", err)
	}
	return nil
}

func buildRenderArgs(sourcePath string, window types.TimeWindow, aspect types.AspectRatio, quality types.Quality, dest string) []string {
	args := []string{
		"-y",
		"-ss", util.FormatSeconds(window.StartSec),
		"-to", util.FormatSeconds(window.EndSec),
		"-i", sourcePath,
	}
	if filter := aspectFilter(aspect); filter != "" {
		args = append(args, "-vf", filter)
	}
	videoBitrate, audioBitrate := qualityBitrates(quality)
	args = append(args,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-b:v", videoBitrate,
		"-c:a", "aac",
		"-b:a", audioBitrate,
		"-movflags", "+faststart",
		"-f", "mp4",
		dest,
	)
	return args
}

// aspectFilter crops to the target shape, then scales to the canonical
// output resolution. Auto keeps the source geometry untouched.
func aspectFilter(aspect types.AspectRatio) string {
	switch aspect {
	case types.AspectRatioPortrait:
		return `crop=min(iw\,ih*9/16):ih,scale=1080:1920`
	case types.AspectRatioLandscape:
		return `crop=iw:min(ih\,iw*9/16),scale=1920:1080`
	case types.AspectRatioSquare:
		return `crop=min(iw\,ih):min(iw\,ih),scale=1080:1080`
	default:
		return ""
	}
}

func qualityBitrates(quality types.Quality) (video, audio string) {
	switch quality {
	case types.QualityLow:
		return "1500k", "96k"
	case types.QualityHigh:
		return "8000k", "192k"
	default:
		return "4000k", "128k"
	}
}
