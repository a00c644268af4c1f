package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"clipforge/internal/service"
	"clipforge/log"
)

// TaskHandlers provides handlers for queued task types.
type TaskHandlers struct {
	service *service.Service
}

func NewTaskHandlers(svc *service.Service) *TaskHandlers {
	return &TaskHandlers{service: svc}
}

// HandleClipJob runs the pipeline for one queued clip job. Stage failures are
// persisted on the job itself and not returned, so Asynq only retries jobs
// the worker could not load at all.
func (h *TaskHandlers) HandleClipJob(ctx context.Context, t *asynq.Task) error {
	var payload ClipJobPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	log.GetLogger().Info("[Queue] processing clip job", zap.String("jobId", payload.JobID))

	if err := h.service.RunJob(payload.JobID); err != nil {
		return err
	}

	log.GetLogger().Info("[Queue] clip job finished", zap.String("jobId", payload.JobID))
	return nil
}

// RegisterHandlers registers all task handlers with the Asynq server mux.
func (h *TaskHandlers) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeClipJob, h.HandleClipJob)
}

// StartWorker starts the Asynq worker with registered handlers.
func StartWorker(q *Queue, svc *service.Service) error {
	handlers := NewTaskHandlers(svc)

	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	log.GetLogger().Info("[Queue] starting worker",
		zap.String("redisAddr", q.config.RedisAddr),
		zap.Int("concurrency", q.config.Concurrency))

	return q.server.Run(mux)
}
