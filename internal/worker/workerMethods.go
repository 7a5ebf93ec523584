package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/akolanti/HackRxAPI/internal/config"
	"github.com/akolanti/HackRxAPI/internal/domain/taskModel"
	"github.com/akolanti/HackRxAPI/internal/metrics"
)

// executeTask answers one question and sends the finished task back on its
// reply channel. The channel is buffered, so a handler that already gave up
// on its request never blocks a worker.
func executeTask(task taskModel.Task) {
	start := time.Now()
	defer func() {
		metrics.CaptureTaskMetrics(string(task.Status), time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, task.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, 60*time.Second)
	defer cancel()
	logger.Debug("Processing task", "task Id", task.Id, "trace Id", task.TraceId)

	task.Status = taskModel.TaskStatusRunning
	task = _ragService.AnswerQuestion(ctx, task)
	task.EndTime = time.Now()

	if task.Reply != nil {
		task.Reply <- task
	}
}

func removeWorker(reason string) {
	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker ", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()
}
