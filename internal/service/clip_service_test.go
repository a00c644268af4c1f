package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"clipforge/internal/dto"
	"clipforge/internal/mocks"
	"clipforge/internal/storage"
	"clipforge/internal/types"
	"clipforge/log"
	apperrors "clipforge/pkg/errors"
)

func init() {
	log.InitLogger()
}

func initServiceTestDB(t *testing.T) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&types.ClipJob{}, &types.Clip{}))

	old := storage.DB
	storage.DB = db
	t.Cleanup(func() { storage.DB = old })
}

type testService struct {
	svc         *Service
	transcriber *mocks.MockTranscriber
	prober      *mocks.MockMediaProber
	extractor   *mocks.MockAudioExtractor
	resolver    *mocks.MockSourceResolver
}

func newTestService(t *testing.T) *testService {
	t.Helper()
	initServiceTestDB(t)

	jobRoot := t.TempDir()
	oldResolve := resolveJobDir
	resolveJobDir = func(jobID string) (string, error) {
		return filepath.Join(jobRoot, jobID), nil
	}
	t.Cleanup(func() { resolveJobDir = oldResolve })

	ts := &testService{
		transcriber: &mocks.MockTranscriber{},
		prober:      &mocks.MockMediaProber{},
		extractor:   &mocks.MockAudioExtractor{},
		resolver:    &mocks.MockSourceResolver{},
	}
	ts.svc = &Service{
		Transcriber: ts.transcriber,
		Prober:      ts.prober,
		Extractor:   ts.extractor,
		Resolver:    ts.resolver,
	}
	return ts
}

func stageSourceFile(t *testing.T) string {
	t.Helper()
	src := filepath.Join(t.TempDir(), "talk.mp4")
	require.NoError(t, os.WriteFile(src, []byte("video"), 0o644))
	return src
}

func submitReq(src string) dto.SubmitClipJobReq {
	return dto.SubmitClipJobReq{
		FilePath:     src,
		Window:       types.TimeWindow{StartSec: 0, EndSec: 120},
		LengthPreset: types.LengthPresetShort,
		Captions:     true,
	}
}

func denseTranscript(endSec float64) *types.Transcript {
	tr := &types.Transcript{}
	for t := 0.0; t+5 <= endSec; t += 5 {
		tr.Segments = append(tr.Segments, types.TranscriptSegment{
			StartSec: t, EndSec: t + 5, Text: "some spoken words here",
		})
	}
	return tr
}

func waitForTerminal(t *testing.T, jobId string) *types.ClipJob {
	t.Helper()
	var job *types.ClipJob
	require.Eventually(t, func() bool {
		var err error
		job, err = storage.GetJob(jobId)
		return err == nil && job.Status.IsTerminal()
	}, 5*time.Second, 10*time.Millisecond, "job never reached a terminal state")
	return job
}

func TestSubmitJobFullPipeline(t *testing.T) {
	ts := newTestService(t)
	src := stageSourceFile(t)

	ts.resolver.On("Resolve", mock.Anything, mock.Anything, mock.Anything).Return(src, nil)
	ts.prober.On("Probe", mock.Anything, src).Return(&types.VideoMeta{
		DurationSec: 300, Width: 1920, Height: 1080, Fps: 30, BitrateBps: 4_000_000,
	}, nil)
	ts.extractor.On("ExtractAudio", mock.Anything, src, types.TimeWindow{StartSec: 0, EndSec: 120}).
		Return("/tmp/does-not-exist.wav", nil)
	ts.transcriber.On("Transcribe", mock.Anything, "/tmp/does-not-exist.wav", mock.Anything).
		Return(denseTranscript(120), nil)

	res, err := ts.svc.SubmitJob(submitReq(src))
	require.NoError(t, err)
	require.NotEmpty(t, res.JobId)

	job := waitForTerminal(t, res.JobId)
	assert.Equal(t, types.JobStatusReady, job.Status)
	assert.Equal(t, types.JobStageReady, job.Stage)
	assert.Equal(t, uint8(100), job.ProcessPct)
	assert.Equal(t, 300.0, job.DurationSec)
	assert.Equal(t, 1920, job.Width)
	assert.NotEmpty(t, job.Clips)

	for i := 1; i < len(job.Clips); i++ {
		assert.GreaterOrEqual(t, job.Clips[i].StartSec, job.Clips[i-1].EndSec)
	}

	ts.transcriber.AssertExpectations(t)
	ts.prober.AssertExpectations(t)
	ts.extractor.AssertExpectations(t)
}

func TestSubmitJobRejectsAmbiguousSource(t *testing.T) {
	ts := newTestService(t)

	_, err := ts.svc.SubmitJob(dto.SubmitClipJobReq{
		FilePath:     "/tmp/a.mp4",
		Url:          "https://example.com/a.mp4",
		Window:       types.TimeWindow{EndSec: 10},
		LengthPreset: types.LengthPresetShort,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidSource, apperrors.GetCode(err))

	_, err = ts.svc.SubmitJob(dto.SubmitClipJobReq{
		Window:       types.TimeWindow{EndSec: 10},
		LengthPreset: types.LengthPresetShort,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidSource, apperrors.GetCode(err))
}

func TestSubmitJobRejectsInvalidOptions(t *testing.T) {
	ts := newTestService(t)

	req := submitReq("/tmp/a.mp4")
	req.Window = types.TimeWindow{StartSec: 50, EndSec: 50}
	_, err := ts.svc.SubmitJob(req)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidSource, apperrors.GetCode(err))
}

func TestSubmitJobVideoTooLong(t *testing.T) {
	ts := newTestService(t)
	src := stageSourceFile(t)

	ts.resolver.On("Resolve", mock.Anything, mock.Anything, mock.Anything).Return(src, nil)
	ts.prober.On("Probe", mock.Anything, src).Return(&types.VideoMeta{DurationSec: 7200}, nil)

	res, err := ts.svc.SubmitJob(submitReq(src))
	require.NoError(t, err)

	job := waitForTerminal(t, res.JobId)
	assert.Equal(t, types.JobStatusFailed, job.Status)
	assert.Equal(t, apperrors.CodeVideoTooLong, job.ErrorCode)
	assert.NotEmpty(t, job.FailReason)
	ts.extractor.AssertNotCalled(t, "ExtractAudio", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitJobTranscriptionFailure(t *testing.T) {
	ts := newTestService(t)
	src := stageSourceFile(t)

	ts.resolver.On("Resolve", mock.Anything, mock.Anything, mock.Anything).Return(src, nil)
	ts.prober.On("Probe", mock.Anything, src).Return(&types.VideoMeta{DurationSec: 300}, nil)
	ts.extractor.On("ExtractAudio", mock.Anything, mock.Anything, mock.Anything).Return("/tmp/a.wav", nil)
	ts.transcriber.On("Transcribe", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.New(apperrors.CodeTranscriptUnavailable, "provider down"))

	res, err := ts.svc.SubmitJob(submitReq(src))
	require.NoError(t, err)

	job := waitForTerminal(t, res.JobId)
	assert.Equal(t, types.JobStatusFailed, job.Status)
	assert.Equal(t, types.JobStageFailed, job.Stage)
	assert.Equal(t, apperrors.CodeTranscriptUnavailable, job.ErrorCode)
}

func TestSubmitJobClampsWindowToDuration(t *testing.T) {
	ts := newTestService(t)
	src := stageSourceFile(t)

	ts.resolver.On("Resolve", mock.Anything, mock.Anything, mock.Anything).Return(src, nil)
	ts.prober.On("Probe", mock.Anything, src).Return(&types.VideoMeta{DurationSec: 60}, nil)
	// The extractor must see the clamped window, not the requested one.
	ts.extractor.On("ExtractAudio", mock.Anything, src, types.TimeWindow{StartSec: 0, EndSec: 60}).
		Return("/tmp/a.wav", nil)
	ts.transcriber.On("Transcribe", mock.Anything, mock.Anything, mock.Anything).
		Return(denseTranscript(60), nil)

	res, err := ts.svc.SubmitJob(submitReq(src))
	require.NoError(t, err)

	job := waitForTerminal(t, res.JobId)
	assert.Equal(t, types.JobStatusReady, job.Status)
	assert.Equal(t, 60.0, job.Options.Window.EndSec)
	ts.extractor.AssertExpectations(t)
}

func TestSubmitJobWindowBeyondDurationFails(t *testing.T) {
	ts := newTestService(t)
	src := stageSourceFile(t)

	ts.resolver.On("Resolve", mock.Anything, mock.Anything, mock.Anything).Return(src, nil)
	ts.prober.On("Probe", mock.Anything, src).Return(&types.VideoMeta{DurationSec: 60}, nil)

	req := submitReq(src)
	req.Window = types.TimeWindow{StartSec: 90, EndSec: 120}
	res, err := ts.svc.SubmitJob(req)
	require.NoError(t, err)

	job := waitForTerminal(t, res.JobId)
	assert.Equal(t, types.JobStatusFailed, job.Status)
	assert.Equal(t, apperrors.CodeInvalidParams, job.ErrorCode)
}

func TestSubmitJobCleansUpAudioArtifact(t *testing.T) {
	ts := newTestService(t)
	src := stageSourceFile(t)
	audio := filepath.Join(t.TempDir(), "audio.wav")
	require.NoError(t, os.WriteFile(audio, []byte("wav"), 0o644))

	ts.resolver.On("Resolve", mock.Anything, mock.Anything, mock.Anything).Return(src, nil)
	ts.prober.On("Probe", mock.Anything, src).Return(&types.VideoMeta{DurationSec: 300}, nil)
	ts.extractor.On("ExtractAudio", mock.Anything, mock.Anything, mock.Anything).Return(audio, nil)
	ts.transcriber.On("Transcribe", mock.Anything, audio, mock.Anything).Return(denseTranscript(120), nil)

	res, err := ts.svc.SubmitJob(submitReq(src))
	require.NoError(t, err)

	waitForTerminal(t, res.JobId)
	// The artifact is removed by a deferred cleanup just after the final save.
	require.Eventually(t, func() bool {
		_, statErr := os.Stat(audio)
		return os.IsNotExist(statErr)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestGetJobStatusNotFound(t *testing.T) {
	ts := newTestService(t)

	_, err := ts.svc.GetJobStatus(dto.GetClipJobReq{JobId: "missing"})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.GetCode(err))
}

func TestGetJobStatusReturnsClipReadModels(t *testing.T) {
	ts := newTestService(t)

	job := &types.ClipJob{
		JobId:  "job-dto",
		Status: types.JobStatusReady,
		Stage:  types.JobStageReady,
	}
	require.NoError(t, storage.SaveJob(job))
	require.NoError(t, storage.CreateClips("job-dto", []types.Clip{
		{ClipId: 1, StartSec: 10, EndSec: 30, DurationSec: 20, ScoreEngagement: 0.4, ScoreHook: 0.6},
		{ClipId: 2, StartSec: 40, EndSec: 55, DurationSec: 15},
	}))

	got, err := ts.svc.GetJobStatus(dto.GetClipJobReq{JobId: "job-dto"})
	require.NoError(t, err)
	require.Len(t, got.Clips, 2)
	assert.Equal(t, 1, got.Clips[0].ClipId)
	assert.Equal(t, 0.4, got.Clips[0].Score.Engagement)
	assert.Equal(t, "/api/jobs/job-dto/clips/1/media", got.Clips[0].MediaUrl)
}

func TestDeleteJobRemovesRecordAndDirectory(t *testing.T) {
	ts := newTestService(t)

	jobDir, err := resolveJobDir("job-del")
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(jobDir, 0o755))
	require.NoError(t, storage.SaveJob(&types.ClipJob{JobId: "job-del", Status: types.JobStatusReady}))

	require.NoError(t, ts.svc.DeleteJob("job-del"))
	_, err = storage.GetJob("job-del")
	require.Error(t, err)
	assert.NoDirExists(t, jobDir)

	err = ts.svc.DeleteJob("job-del")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.GetCode(err))
}

func TestGetClipMediaRequiresReadyJob(t *testing.T) {
	ts := newTestService(t)
	require.NoError(t, storage.SaveJob(&types.ClipJob{
		JobId:  "job-busy",
		Status: types.JobStatusProcessing,
		Stage:  types.JobStageTranscribing,
	}))

	_, err := ts.svc.GetClipMedia(context.Background(), dto.GetClipMediaReq{JobId: "job-busy", ClipId: 1})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidParams, apperrors.GetCode(err))
}

func TestLlmScorerParsesResponse(t *testing.T) {
	chat := &mocks.MockChatCompleter{}
	chat.On("ChatCompletion", mock.Anything).
		Return("```json\n{\"engagement\": 0.7, \"clarity\": 1.4, \"hook\": -0.2}\n```", nil)

	scorer := NewLlmScorer(chat)
	score, err := scorer.ScoreClip(context.Background(), "some clip text")
	require.NoError(t, err)
	assert.Equal(t, 0.7, score.Engagement)
	assert.Equal(t, 1.0, score.Clarity)
	assert.Equal(t, 0.0, score.Hook)
}

func TestLlmScorerErrorSurfaces(t *testing.T) {
	chat := &mocks.MockChatCompleter{}
	chat.On("ChatCompletion", mock.Anything).
		Return("", apperrors.New(apperrors.CodeInternal, "llm down"))

	scorer := NewLlmScorer(chat)
	_, err := scorer.ScoreClip(context.Background(), "some clip text")
	require.Error(t, err)
}
