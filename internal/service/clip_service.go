package service

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"clipforge/config"
	"clipforge/internal/appdirs"
	"clipforge/internal/dto"
	"clipforge/internal/segmenter"
	"clipforge/internal/storage"
	"clipforge/internal/types"
	"clipforge/log"
	apperrors "clipforge/pkg/errors"
)

// resolveJobDir is swapped in tests to keep artifacts out of the app dirs.
var resolveJobDir = appdirs.ResolveJobDir

// SubmitJob validates the request, records the job, and kicks off the
// processing pipeline in the background. It returns as soon as the job id
// is durable; progress is observed through GetJobStatus.
func (s *Service) SubmitJob(req dto.SubmitClipJobReq) (*dto.SubmitClipJobResData, error) {
	if (req.FilePath == "") == (req.Url == "") {
		return nil, apperrors.New(apperrors.CodeInvalidSource, "exactly one of file_path and url must be set")
	}

	opts := req.Options()
	opts.Normalize()
	if err := opts.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidSource, err.Error(), err)
	}

	jobId := uuid.New().String()
	jobDir, err := resolveJobDir(jobId)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "resolve job directory", err)
	}
	if err := os.MkdirAll(jobDir, 0o755); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "create job directory", err)
	}

	job := &types.ClipJob{
		JobId:      jobId,
		SourcePath: req.FilePath,
		SourceUrl:  req.Url,
		Options:    opts,
		Status:     types.JobStatusProcessing,
		Stage:      types.JobStageCreated,
		StatusMsg:  "job accepted",
	}
	if err := storage.SaveJob(job); err != nil {
		log.GetLogger().Error("SubmitJob save failed", zap.String("jobId", jobId), zap.Error(err))
		return nil, apperrors.Wrap(apperrors.CodeDBError, "failed to save job", err)
	}

	log.GetLogger().Info("clip job accepted", zap.String("jobId", jobId), zap.Any("options", opts))

	if s.Dispatcher != nil {
		if err := s.Dispatcher.DispatchJob(jobId); err == nil {
			return &dto.SubmitClipJobResData{JobId: jobId}, nil
		} else {
			log.GetLogger().Warn("dispatch failed, running job inline",
				zap.String("jobId", jobId), zap.Error(err))
		}
	}

	go s.processJob(job, jobDir)

	return &dto.SubmitClipJobResData{JobId: jobId}, nil
}

// RunJob executes the pipeline for an already saved job. Queue workers call
// this; the returned error covers only load failures, a job that fails in a
// stage is persisted as failed and not retried.
func (s *Service) RunJob(jobId string) error {
	job, err := storage.GetJob(jobId)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeNotFound, "job not found", err)
	}
	if job.Status.IsTerminal() {
		log.GetLogger().Info("job already terminal, skipping", zap.String("jobId", jobId))
		return nil
	}
	jobDir, err := resolveJobDir(jobId)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "resolve job directory", err)
	}
	s.processJob(job, jobDir)
	return nil
}

// processJob runs every stage of one job. Each stage persists its progress
// before running so a poller always sees where the job is; any stage error
// moves the job to failed and stops.
func (s *Service) processJob(job *types.ClipJob, jobDir string) {
	defer func() {
		if r := recover(); r != nil {
			const size = 64 << 10
			buf := make([]byte, size)
			buf = buf[:runtime.Stack(buf, false)]
			log.GetLogger().Error("processJob panic",
				zap.String("jobId", job.JobId),
				zap.Any("panic", r),
				zap.ByteString("stack", buf))
			s.failJob(job, apperrors.New(apperrors.CodeInternal, fmt.Sprintf("internal error: %v", r)))
		}
	}()
	ctx := context.Background()

	s.advance(job, types.JobStageProbing, "resolving source", 5)
	desc := types.SourceDescriptor{FilePath: job.SourcePath, URL: job.SourceUrl}
	sourcePath, err := s.Resolver.Resolve(ctx, desc, jobDir)
	if err != nil {
		s.failJob(job, err)
		return
	}
	job.SourcePath = sourcePath

	s.advance(job, types.JobStageProbing, "probing source media", 10)
	meta, err := s.Prober.Probe(ctx, sourcePath)
	if err != nil {
		s.failJob(job, err)
		return
	}
	job.DurationSec = meta.DurationSec
	job.Width = meta.Width
	job.Height = meta.Height
	job.Fps = meta.Fps
	job.BitrateBps = meta.BitrateBps

	if maxDur := config.Conf.App.MaxSourceDurationSec; maxDur > 0 && meta.DurationSec > maxDur {
		s.failJob(job, apperrors.New(apperrors.CodeVideoTooLong,
			fmt.Sprintf("source duration %.0fs exceeds the %.0fs limit", meta.DurationSec, maxDur)))
		return
	}

	// The window may extend past the real duration; trim it rather than fail.
	window := job.Options.Window
	if window.EndSec > meta.DurationSec {
		window.EndSec = meta.DurationSec
	}
	if !window.IsValid() {
		s.failJob(job, apperrors.New(apperrors.CodeInvalidParams, "window lies outside the source duration"))
		return
	}
	job.Options.Window = window

	s.advance(job, types.JobStageExtractingAudio, "extracting audio", 30)
	audioPath, err := s.Extractor.ExtractAudio(ctx, sourcePath, window)
	if err != nil {
		s.failJob(job, err)
		return
	}
	defer os.Remove(audioPath)

	s.advance(job, types.JobStageTranscribing, "transcribing audio", 55)
	transcript, err := s.Transcriber.Transcribe(ctx, audioPath, window)
	if err != nil {
		s.failJob(job, err)
		return
	}

	s.advance(job, types.JobStageSegmenting, "segmenting transcript", 75)
	engine := segmenter.NewEngine(s.Scorer)
	clips, err := engine.Segment(ctx, transcript, job.Options)
	if err != nil {
		s.failJob(job, err)
		return
	}

	s.advance(job, types.JobStagePersisting, "persisting clips", 90)
	if err := storage.CreateClips(job.JobId, clips); err != nil {
		s.failJob(job, apperrors.Wrap(apperrors.CodeDBError, "failed to persist clips", err))
		return
	}

	job.Status = types.JobStatusReady
	job.Stage = types.JobStageReady
	job.StatusMsg = "completed"
	job.ProcessPct = 100
	if err := storage.SaveJob(job); err != nil {
		log.GetLogger().Error("processJob final save failed", zap.String("jobId", job.JobId), zap.Error(err))
	}
	log.GetLogger().Info("clip job completed",
		zap.String("jobId", job.JobId),
		zap.Int("clips", len(clips)))
}

func (s *Service) advance(job *types.ClipJob, stage types.JobStage, msg string, pct uint8) {
	job.Stage = stage
	job.StatusMsg = msg
	job.ProcessPct = pct
	if err := storage.SaveJob(job); err != nil {
		log.GetLogger().Error("job progress save failed",
			zap.String("jobId", job.JobId),
			zap.String("stage", string(stage)),
			zap.Error(err))
	}
}

func (s *Service) failJob(job *types.ClipJob, err error) {
	log.GetLogger().Error("clip job failed",
		zap.String("jobId", job.JobId),
		zap.String("stage", string(job.Stage)),
		zap.Error(err))
	job.Status = types.JobStatusFailed
	job.Stage = types.JobStageFailed
	job.FailReason = apperrors.GetMessage(err)
	job.ErrorCode = apperrors.GetCode(err)
	if saveErr := storage.SaveJob(job); saveErr != nil {
		log.GetLogger().Error("failed job save failed", zap.String("jobId", job.JobId), zap.Error(saveErr))
	}
}

// GetJobStatus returns the current state of one job with its clip read
// models. Failed jobs are returned with their reason, not as an error.
func (s *Service) GetJobStatus(req dto.GetClipJobReq) (*dto.GetClipJobResData, error) {
	job, err := storage.GetJob(req.JobId)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeNotFound, "job not found", err)
	}
	data := jobToDto(job)
	return &data, nil
}

// GetJobHistory lists recent jobs, newest first.
func (s *Service) GetJobHistory(req dto.GetJobHistoryReq) (*dto.GetJobHistoryResData, error) {
	limit := req.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	jobs, err := storage.GetJobHistory(limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDBError, "failed to load job history", err)
	}
	return &dto.GetJobHistoryResData{
		Jobs: lo.Map(jobs, func(job types.ClipJob, _ int) dto.GetClipJobResData {
			return jobToDto(&job)
		}),
	}, nil
}

// DeleteJob removes a job, its clips, and its directory on disk.
func (s *Service) DeleteJob(jobId string) error {
	if _, err := storage.GetJob(jobId); err != nil {
		return apperrors.Wrap(apperrors.CodeNotFound, "job not found", err)
	}
	if err := storage.DeleteJob(jobId); err != nil {
		return apperrors.Wrap(apperrors.CodeDBError, "failed to delete job", err)
	}
	if jobDir, err := resolveJobDir(jobId); err == nil {
		if err := os.RemoveAll(jobDir); err != nil {
			log.GetLogger().Warn("job directory not removed", zap.String("jobId", jobId), zap.Error(err))
		}
	}
	return nil
}

// GetClipMedia renders (or reuses) the encoded artifact for one clip variant
// and returns its local path.
func (s *Service) GetClipMedia(ctx context.Context, req dto.GetClipMediaReq) (string, error) {
	job, err := storage.GetJob(req.JobId)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeNotFound, "job not found", err)
	}
	if job.Status != types.JobStatusReady {
		return "", apperrors.New(apperrors.CodeInvalidParams, "job is not ready")
	}
	clip, err := storage.GetClip(req.JobId, req.ClipId)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeNotFound, "clip not found", err)
	}
	return s.Renderer.Render(ctx, job, clip, types.AspectRatio(req.Aspect), types.Quality(req.Quality))
}

func jobToDto(job *types.ClipJob) dto.GetClipJobResData {
	return dto.GetClipJobResData{
		JobId:       job.JobId,
		Status:      string(job.Status),
		Stage:       string(job.Stage),
		StatusMsg:   job.StatusMsg,
		ProcessPct:  job.ProcessPct,
		DurationSec: job.DurationSec,
		FailReason:  job.FailReason,
		ErrorCode:   job.ErrorCode,
		Clips: lo.Map(job.Clips, func(clip types.Clip, _ int) dto.ClipInfo {
			return dto.ClipInfo{
				ClipId:              clip.ClipId,
				StartSec:            clip.StartSec,
				EndSec:              clip.EndSec,
				DurationSec:         clip.DurationSec,
				AspectRatio:         string(clip.AspectRatio),
				Template:            clip.Template,
				Captions:            clip.Captions,
				Keywords:            clip.Keywords,
				ThumbnailTimestamps: clip.ThumbnailTimestamps,
				Score:               clip.Score(),
				MediaUrl:            fmt.Sprintf("/api/jobs/%s/clips/%d/media", job.JobId, clip.ClipId),
			}
		}),
	}
}
