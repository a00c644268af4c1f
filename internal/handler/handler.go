package handler

import (
	"go.uber.org/zap"

	"clipforge/config"
	"clipforge/internal/queue"
	"clipforge/internal/service"
	"clipforge/internal/taskrunner"
	"clipforge/log"
)

type Handler struct {
	Service *service.Service
}

// NewHandler builds the service and wires its job dispatcher: a Redis-backed
// queue when enabled in config, otherwise an in-process worker pool.
func NewHandler() *Handler {
	svc := service.NewService()

	if config.Conf.Queue.Enabled {
		svc.Dispatcher = queue.NewQueue(queue.QueueConfig{
			RedisAddr:     config.Conf.Queue.RedisAddr,
			RedisPassword: config.Conf.Queue.RedisPassword,
			RedisDB:       config.Conf.Queue.RedisDB,
			Concurrency:   config.Conf.Queue.Concurrency,
		})
		log.GetLogger().Info("job dispatch via redis queue", zap.String("addr", config.Conf.Queue.RedisAddr))
	} else {
		svc.Dispatcher = taskrunner.New(svc, taskrunner.Config{
			Concurrency: config.Conf.Queue.Concurrency,
		})
		log.GetLogger().Info("job dispatch via in-process runner", zap.Int("concurrency", config.Conf.Queue.Concurrency))
	}

	return &Handler{Service: svc}
}
