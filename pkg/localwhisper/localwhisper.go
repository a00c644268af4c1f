// Package localwhisper runs a local whisper.cpp binary as the transcription
// backend, for deployments that cannot reach a hosted provider.
package localwhisper

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"clipforge/internal/types"
	"clipforge/log"
	apperrors "clipforge/pkg/errors"
	"clipforge/pkg/util"
)

type Processor struct {
	BinaryPath string
	ModelPath  string
	// WorkDir receives the intermediate json output; defaults to os.TempDir.
	WorkDir string
}

func NewProcessor(binaryPath, modelPath string) *Processor {
	return &Processor{BinaryPath: binaryPath, ModelPath: modelPath}
}

// whisper.cpp -oj output. Offsets are milliseconds from the start of the
// input audio.
type whisperOutput struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// Transcribe runs whisper.cpp on the audio file and maps its output back
// onto the source timeline, shifted by window.StartSec.
func (p *Processor) Transcribe(ctx context.Context, audioPath string, window types.TimeWindow) (*types.Transcript, error) {
	workDir := p.WorkDir
	if workDir == "" {
		workDir = os.TempDir()
	}
	outPrefix := filepath.Join(workDir, "whisper_"+util.GenerateRandStringWithUpperLowerNum(8))

	args := []string{
		"-m", p.ModelPath,
		"-f", audioPath,
		"-oj",
		"-of", outPrefix,
	}
	cmd := exec.CommandContext(ctx, p.BinaryPath, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		log.GetLogger().Error("whisper.cpp failed",
			zap.String("audio", audioPath),
			zap.String("output", string(output)),
			zap.Error(err))
		return nil, apperrors.Wrap(apperrors.CodeTranscriptUnavailable, "whisper.cpp execution failed", err)
	}

	jsonPath := outPrefix + ".json"
	defer os.Remove(jsonPath)

	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeTranscriptUnavailable, "whisper.cpp produced no output", err)
	}
	return parseOutput(raw, window.StartSec)
}

func parseOutput(raw []byte, offsetSec float64) (*types.Transcript, error) {
	var out whisperOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeTranscriptUnavailable, "unexpected whisper.cpp output", err)
	}

	transcript := &types.Transcript{}
	for _, line := range out.Transcription {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}
		transcript.Segments = append(transcript.Segments, types.TranscriptSegment{
			StartSec: float64(line.Offsets.From)/1000 + offsetSec,
			EndSec:   float64(line.Offsets.To)/1000 + offsetSec,
			Text:     text,
		})
	}
	return transcript, nil
}
