package main

import (
	"os"

	"go.uber.org/zap"

	"clipforge/config"
	"clipforge/internal/deps"
	"clipforge/internal/queue"
	"clipforge/internal/server"
	"clipforge/internal/service"
	"clipforge/internal/storage"
	"clipforge/log"
)

func main() {
	log.InitLogger()
	defer log.GetLogger().Sync()

	created, err := config.LoadOrCreateConfig()
	if err != nil {
		log.GetLogger().Error("failed to load config", zap.Error(err))
		return
	}
	if created {
		log.GetLogger().Info("wrote default config file, edit it to configure providers")
	}

	if err = config.CheckConfig(); err != nil {
		log.GetLogger().Error("invalid config", zap.Error(err))
		return
	}

	storage.InitDB()

	// Jobs left processing by a previous run can never finish.
	if count, err := storage.MarkStaleJobs(); err != nil {
		log.GetLogger().Warn("failed to mark stale jobs", zap.Error(err))
	} else if count > 0 {
		log.GetLogger().Info("marked stale jobs as failed", zap.Int64("count", count))
	}

	if err = deps.CheckDependency(); err != nil {
		log.GetLogger().Error("dependency check failed", zap.Error(err))
		return
	}

	if config.Conf.Queue.Enabled {
		q := queue.NewQueue(queue.QueueConfig{
			RedisAddr:     config.Conf.Queue.RedisAddr,
			RedisPassword: config.Conf.Queue.RedisPassword,
			RedisDB:       config.Conf.Queue.RedisDB,
			Concurrency:   config.Conf.Queue.Concurrency,
		})
		go func() {
			if err := queue.StartWorker(q, service.NewService()); err != nil {
				log.GetLogger().Error("queue worker stopped", zap.Error(err))
			}
		}()
	}

	if err = server.StartBackend(); err != nil {
		log.GetLogger().Error("http server failed", zap.Error(err))
		os.Exit(1)
	}
}
