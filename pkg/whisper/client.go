// Package whisper transcribes audio through an OpenAI-compatible
// transcription endpoint.
package whisper

import (
	"context"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"clipforge/config"
	"clipforge/internal/types"
	"clipforge/log"
	apperrors "clipforge/pkg/errors"
)

// transcriptionAPI is the slice of the OpenAI client the transcriber uses.
type transcriptionAPI interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

type Client struct {
	api   transcriptionAPI
	model string
}

func NewClient(baseUrl, apiKey, model, proxyAddr string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseUrl != "" {
		cfg.BaseURL = baseUrl
	}

	transport := &http.Transport{}
	if proxyAddr != "" {
		transport.Proxy = http.ProxyURL(config.Conf.App.ParsedProxy)
	}
	cfg.HTTPClient = &http.Client{Transport: transport}

	if model == "" {
		model = openai.Whisper1
	}
	return &Client{
		api:   openai.NewClientWithConfig(cfg),
		model: model,
	}
}

// Transcribe uploads the audio file and maps the verbose response back onto
// the source timeline. The audio was cut starting at window.StartSec, so
// every provider timestamp is shifted by that amount.
func (c *Client) Transcribe(ctx context.Context, audioPath string, window types.TimeWindow) (*types.Transcript, error) {
	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.model,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		log.GetLogger().Error("transcription request failed",
			zap.String("audio", audioPath),
			zap.Error(err))
		return nil, apperrors.Wrap(apperrors.CodeTranscriptUnavailable, "transcription provider error", err)
	}

	transcript := &types.Transcript{}
	for _, seg := range resp.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		transcript.Segments = append(transcript.Segments, types.TranscriptSegment{
			StartSec: seg.Start + window.StartSec,
			EndSec:   seg.End + window.StartSec,
			Text:     text,
		})
	}

	// Some compatible endpoints return only the flat text. Represent it as
	// one segment spanning the whole window rather than losing it.
	if len(transcript.Segments) == 0 && strings.TrimSpace(resp.Text) != "" {
		transcript.Segments = append(transcript.Segments, types.TranscriptSegment{
			StartSec: window.StartSec,
			EndSec:   window.EndSec,
			Text:     strings.TrimSpace(resp.Text),
		})
	}
	return transcript, nil
}
