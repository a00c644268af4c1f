package taskrunner

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"clipforge/internal/service"
	"clipforge/internal/storage"
	"clipforge/internal/types"
	"clipforge/log"
)

func init() {
	log.InitLogger()
}

func initRunnerTestDB(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&types.ClipJob{}, &types.Clip{}))

	old := storage.DB
	storage.DB = db
	t.Cleanup(func() { storage.DB = old })
}

func TestRunnerDrainsQueuedJobs(t *testing.T) {
	initRunnerTestDB(t)
	for _, jobId := range []string{"done-1", "done-2", "done-3"} {
		require.NoError(t, storage.SaveJob(&types.ClipJob{
			JobId:  jobId,
			Status: types.JobStatusReady,
			Stage:  types.JobStageReady,
		}))
	}

	runner := New(&service.Service{}, Config{QueueSize: 8, Concurrency: 2})
	defer runner.Close()

	require.NoError(t, runner.DispatchJob("done-1"))
	require.NoError(t, runner.DispatchJob("done-2"))
	require.NoError(t, runner.DispatchJob("done-3"))

	assert.Eventually(t, func() bool {
		return runner.Pending() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRunnerRejectsEmptyJobId(t *testing.T) {
	initRunnerTestDB(t)
	runner := New(&service.Service{}, DefaultConfig())
	defer runner.Close()

	require.Error(t, runner.DispatchJob(""))
}

func TestRunnerRejectsAfterClose(t *testing.T) {
	initRunnerTestDB(t)
	runner := New(&service.Service{}, DefaultConfig())
	runner.Close()

	err := runner.DispatchJob("any")
	assert.ErrorIs(t, err, ErrRunnerStopped)

	// Close is idempotent.
	runner.Close()
}

func TestNormalizeConfigDefaults(t *testing.T) {
	cfg := normalizeConfig(Config{})
	assert.Equal(t, defaultQueueSize, cfg.QueueSize)
	assert.Equal(t, defaultConcurrency, cfg.Concurrency)
}
