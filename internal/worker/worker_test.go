package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/akolanti/HackRxAPI/internal/config"
	"github.com/akolanti/HackRxAPI/internal/domain/commonModels"
	"github.com/akolanti/HackRxAPI/internal/domain/taskModel"
	"github.com/akolanti/HackRxAPI/internal/queue"
	"github.com/akolanti/HackRxAPI/pkg/logger_i"
)

// MockRagService to track if tasks are executed
type MockRagService struct {
	ProcessedCount int32
}

func (m *MockRagService) AnswerQuestion(ctx context.Context, t taskModel.Task) taskModel.Task {
	atomic.AddInt32(&m.ProcessedCount, 1)
	t.Answer = "worker answer"
	t.Status = taskModel.TaskStatusComplete
	return t
}

func (m *MockRagService) IngestDocument(ctx context.Context, doc commonModels.Document) (commonModels.IngestRecord, error) {
	return commonModels.IngestRecord{}, nil
}

func (m *MockRagService) LLMName() string {
	return "mock-llm"
}

func TestWorkerPool_Flow(t *testing.T) {
	// 1. Setup
	queueSvc := &queue.Service{
		TaskChannel:       make(chan taskModel.Task, 10),
		DispatcherChannel: make(chan bool, 10),
	}
	mockRag := &MockRagService{}
	stopChan := make(chan bool)
	wg := &sync.WaitGroup{}

	InitServices(queueSvc, mockRag)
	InitWorkerPool(stopChan, wg)

	// Reset global state for test
	atomic.StoreInt64(&currentWorkerCount, 0)

	t.Run("Dispatcher creates worker on signal", func(t *testing.T) {
		// Signal dispatcher to create a worker
		queueSvc.DispatcherChannel <- true

		// Give it a millisecond to spawn
		time.Sleep(50 * time.Millisecond)

		count := atomic.LoadInt64(&currentWorkerCount)
		if count < 1 {
			t.Errorf("Expected at least 1 worker, got %d", count)
		}
	})

	t.Run("Worker processes a task and replies", func(t *testing.T) {
		reply := make(chan taskModel.Task, 1)
		queueSvc.TaskChannel <- taskModel.Task{Id: "test-1", Question: "q", Reply: reply}

		select {
		case finished := <-reply:
			if finished.Answer != "worker answer" {
				t.Errorf("Reply carries no answer: %+v", finished)
			}
			if finished.EndTime.IsZero() {
				t.Error("Worker did not stamp the end time")
			}
		case <-time.After(2 * time.Second):
			t.Fatal("No reply from worker within timeout")
		}

		processed := atomic.LoadInt32(&mockRag.ProcessedCount)
		if processed != 1 {
			t.Errorf("Expected 1 task processed, got %d", processed)
		}
	})

	t.Run("Stop signal retires workers", func(t *testing.T) {
		// Send stop signal
		close(stopChan)

		// Wait for workers to exit
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			// Success
		case <-time.After(2 * time.Second):
			t.Error("Workers did not stop within timeout")
		}
	})
}

func TestWorker_IdleTimeout(t *testing.T) {
	// Temporarily override config/globals for test
	atomic.StoreInt64(&currentWorkerCount, 0)
	atomic.StoreInt64(&minWorkerCount, 2) // Must be > 1 based on your logic
	logger = logger_i.NewLogger("TestWorkerPool")
	queueSvc := &queue.Service{
		TaskChannel: make(chan taskModel.Task),
	}
	InitServices(queueSvc, &MockRagService{})

	wg := &sync.WaitGroup{}
	stopChan := make(chan bool)
	workerWaitGroup = wg
	stopWorkerChannel = stopChan

	// Spawn 1 worker manually
	createWorker()
	time.Sleep(config.IdleWorkerTimeout)

	time.Sleep(100 * time.Millisecond)
	count := atomic.LoadInt64(&currentWorkerCount)
	if count != 0 {
		t.Errorf("Assertion Failed: Worker should have timed out and retired, but count is %d", count)
	}
}
