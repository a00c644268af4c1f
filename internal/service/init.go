package service

import (
	"context"

	"go.uber.org/zap"

	"clipforge/config"
	"clipforge/internal/media"
	"clipforge/internal/render"
	"clipforge/internal/segmenter"
	"clipforge/internal/source"
	"clipforge/internal/types"
	"clipforge/log"
	"clipforge/pkg/localwhisper"
	"clipforge/pkg/openai"
	"clipforge/pkg/whisper"
)

// SourceResolver materializes a job's source descriptor as a local file.
type SourceResolver interface {
	Resolve(ctx context.Context, desc types.SourceDescriptor, destDir string) (string, error)
}

// JobDispatcher hands an accepted job to its execution backend. When nil the
// pipeline runs in a plain goroutine; the task runner bounds concurrency and
// the Redis queue distributes jobs across processes.
type JobDispatcher interface {
	DispatchJob(jobId string) error
}

type Service struct {
	Transcriber types.Transcriber
	Scorer      types.Scorer
	Prober      types.MediaProber
	Extractor   types.AudioExtractor
	Resolver    SourceResolver
	Renderer    *render.Renderer
	Dispatcher  JobDispatcher
}

func NewService() *Service {
	var transcriber types.Transcriber
	switch config.Conf.Transcribe.Provider {
	case "localwhisper":
		transcriber = localwhisper.NewProcessor(
			config.Conf.Transcribe.LocalWhisper.BinaryPath,
			config.Conf.Transcribe.LocalWhisper.ModelPath,
		)
	default:
		transcriber = whisper.NewClient(
			config.Conf.Transcribe.Openai.BaseUrl,
			config.Conf.Transcribe.Openai.ApiKey,
			config.Conf.Transcribe.Openai.Model,
			config.Conf.App.Proxy,
		)
	}
	log.GetLogger().Info("transcribe provider selected", zap.String("provider", config.Conf.Transcribe.Provider))

	var scorer types.Scorer
	switch config.Conf.Score.Provider {
	case "llm":
		chatCompleter := openai.NewClient(
			config.Conf.Llm.BaseUrl,
			config.Conf.Llm.ApiKey,
			config.Conf.Llm.Model,
			config.Conf.App.Proxy,
		)
		scorer = NewLlmScorer(chatCompleter)
	default:
		scorer = segmenter.NewHeuristicScorer()
	}
	log.GetLogger().Info("score provider selected", zap.String("provider", config.Conf.Score.Provider))

	return &Service{
		Transcriber: transcriber,
		Scorer:      scorer,
		Prober:      media.NewProber(),
		Extractor:   media.NewExtractor(""),
		Resolver:    source.NewResolver(),
		Renderer:    render.NewRenderer(),
	}
}
