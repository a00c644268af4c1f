package media

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"go.uber.org/zap"

	"clipforge/internal/storage"
	"clipforge/internal/types"
	"clipforge/log"
	apperrors "clipforge/pkg/errors"
	"clipforge/pkg/util"
)

// Extractor implements types.AudioExtractor over ffmpeg.
type Extractor struct {
	// TempDir receives extracted audio artifacts; defaults to os.TempDir.
	TempDir string
}

func NewExtractor(tempDir string) *Extractor {
	return &Extractor{TempDir: tempDir}
}

// ExtractAudio writes the window's audio as a mono 16k wav, the format the
// transcript providers expect. The caller owns the file and must remove it.
func (e *Extractor) ExtractAudio(ctx context.Context, sourcePath string, window types.TimeWindow) (string, error) {
	if !window.IsValid() {
		return "", apperrors.New(apperrors.CodeExtractionFailed, "degenerate extraction window")
	}
	if _, err := os.Stat(sourcePath); err != nil {
		return "", apperrors.Wrap(apperrors.CodeExtractionFailed, "source file unreadable", err)
	}

	dir := e.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	dest := filepath.Join(dir, "audio_"+util.GenerateRandStringWithUpperLowerNum(8)+".wav")

	cmd := exec.CommandContext(ctx, storage.FfmpegPath, buildExtractArgs(sourcePath, window, dest)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		log.GetLogger().Error("audio extraction failed",
			zap.String("source", sourcePath),
			zap.String("output", string(output)),
			zap.Error(err))
		return "", apperrors.Wrap(apperrors.CodeExtractionFailed, "ffmpeg audio extraction failed", err)
	}
	return dest, nil
}

func buildExtractArgs(sourcePath string, window types.TimeWindow, dest string) []string {
	return []string{
		"-y",
		"-ss", util.FormatSeconds(window.StartSec),
		"-to", util.FormatSeconds(window.EndSec),
		"-i", sourcePath,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		dest,
	}
}
