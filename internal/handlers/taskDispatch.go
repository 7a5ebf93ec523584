package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/HackRxAPI/internal/adapter/utils"
	"github.com/akolanti/HackRxAPI/internal/config"
	"github.com/akolanti/HackRxAPI/internal/domain/commonModels"
	"github.com/akolanti/HackRxAPI/internal/domain/taskModel"
	"github.com/akolanti/HackRxAPI/internal/metrics"
	"github.com/akolanti/HackRxAPI/internal/queue"
	"github.com/akolanti/HackRxAPI/internal/rag"
	"github.com/akolanti/HackRxAPI/pkg/logger_i"
)

var (
	handlerInstance *RequestHandler //private singleton
	once            sync.Once
	logRH           *logger_i.Logger
)

type RequestHandler struct {
	queue *queue.Service
	rag   rag.Service
}

func InitRequestHandler(queueService *queue.Service, ragService rag.Service) {
	once.Do(func() {
		handlerInstance = &RequestHandler{queue: queueService, rag: ragService}

		logRH = logger_i.NewLogger("RequestHandler")
		logRH.Info("Starting request handler")
	})
}

// dispatchQuestions fans the questions of one request out to the shared
// worker pool and collects the finished tasks back in question order.
func dispatchQuestions(ctx context.Context, doc commonModels.Document, questions []string, traceId string) ([]taskModel.Task, error) {
	log := logRH.With("traceId", traceId, "doc key", doc.Key)
	log.Debug("Dispatching questions", "count", len(questions))

	replies := make([]chan taskModel.Task, len(questions))

	for i, question := range questions {
		reply := make(chan taskModel.Task, 1)
		task := taskModel.Task{
			Id:          utils.GetNewUUID(),
			TraceId:     traceId,
			DocKey:      doc.Key,
			DocName:     doc.Name,
			Question:    question,
			CreatedTime: time.Now(),
			Status:      taskModel.TaskStatusQueued,
			CurrentStep: taskModel.QuestionInit,
			Reply:       reply,
		}

		metrics.IncrementQuestionsInFlight()

		//blocking send keeps a flood of questions from overwhelming the system
		select {
		case handlerInstance.queue.TaskChannel <- task:
		case <-ctx.Done():
			metrics.DecrementQuestionsInFlight()
			return nil, ctx.Err()
		}
		replies[i] = reply

		//a new worker every N queued questions, up to the pool max
		accurateCount := atomic.AddInt64(&handlerInstance.queue.RequestCount, 1)
		if accurateCount%config.QuestionsPerNewWorkerCount == 0 {
			metrics.StartDispatcherSignalCount()
			log.Debug("Signaling dispatcher", "queued so far", accurateCount)
			handlerInstance.queue.DispatcherChannel <- true
		}
	}

	results := make([]taskModel.Task, len(questions))
	for i, reply := range replies {
		select {
		case finished := <-reply:
			results[i] = finished
		case <-ctx.Done():
			log.Warn("Gave up waiting for answers", "collected", i)
			return nil, ctx.Err()
		}
	}
	return results, nil
}
