package queue

import (
	"github.com/akolanti/HackRxAPI/internal/domain/commonModels"
	"github.com/akolanti/HackRxAPI/internal/domain/taskModel"
)

// Service bundles the shared channels the handlers and the worker pool
// communicate over, plus the document registry.
type Service struct {
	TaskChannel       chan taskModel.Task
	RequestCount      int64
	DispatcherChannel chan bool
	DocStore          commonModels.DocStore
}

type ServiceConfig struct {
	TaskChannel       chan taskModel.Task
	RequestCount      int64
	DispatcherChannel chan bool
	DocStore          commonModels.DocStore
}

func InitQueueService(cfg ServiceConfig) *Service {
	return &Service{
		TaskChannel:       cfg.TaskChannel,
		RequestCount:      cfg.RequestCount,
		DispatcherChannel: cfg.DispatcherChannel,
		DocStore:          cfg.DocStore,
	}
}
