package taskModel

import (
	"time"
)

type TaskStatus string
type InternalStep string

const (
	TaskStatusQueued   TaskStatus = "QUEUED"
	TaskStatusRunning  TaskStatus = "RUNNING"
	TaskStatusComplete TaskStatus = "COMPLETE"
	TaskStatusError    TaskStatus = "Error"

	QuestionInit     InternalStep = "Init"
	EmbeddingAPICall InternalStep = "EmbeddingAPI"
	CacheCall        InternalStep = "CacheCall"
	VectorDBCall     InternalStep = "VectorDB"
	LLMCall          InternalStep = "LLM"

	Complete InternalStep = "Complete"
)

// Task is one question against one ingested document. The handler creates
// it with a buffered Reply channel and blocks on that channel; a pool worker
// sends the finished copy back.
type Task struct {
	Id          string
	TraceId     string
	DocKey      string
	DocName     string
	Question    string
	Answer      string
	Sources     []string
	Error       TaskError
	CreatedTime time.Time
	EndTime     time.Time
	Status      TaskStatus
	CurrentStep InternalStep

	Reply chan Task
}

type TaskError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}
