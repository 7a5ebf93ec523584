// @title           HackRx Query-Retrieval API
// @version         1.0
// @description     LLM-powered document question answering over PDF, DOCX and email files.

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8000
// @BasePath  /
// @schemes   http https

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the API token.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/HackRxAPI/internal/config"
	"github.com/akolanti/HackRxAPI/internal/data/store"
	"github.com/akolanti/HackRxAPI/internal/domain/commonModels"
	"github.com/akolanti/HackRxAPI/internal/domain/taskModel"
	"github.com/akolanti/HackRxAPI/internal/handlers"
	"github.com/akolanti/HackRxAPI/internal/queue"
	"github.com/akolanti/HackRxAPI/internal/rag"
	"github.com/akolanti/HackRxAPI/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/HackRxAPI/internal/rag/llm"
	"github.com/akolanti/HackRxAPI/internal/rag/llm/gemini"
	"github.com/akolanti/HackRxAPI/internal/rag/llm/openai"
	"github.com/akolanti/HackRxAPI/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/HackRxAPI/internal/server"
	"github.com/akolanti/HackRxAPI/internal/worker"
	"github.com/akolanti/HackRxAPI/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	config.Load()
	if err := config.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	flag.StringVar(&listenAddr, "listen-addr", config.ListenAddr, "server listen address")
	flag.Parse()

	//init buffered question-task channel
	taskChannel := make(chan taskModel.Task, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//document registry, redis first with an in-memory fallback
	var docStore commonModels.DocStore
	if redisStore := store.GetRedisDocStore(serviceContext); redisStore != nil {
		docStore = redisStore
	} else {
		logger.Error("Redis document registry is offline, falling back to in-memory")
		docStore = store.InitInMemoryDocStore()
	}

	queueService := queue.InitQueueService(queue.ServiceConfig{
		TaskChannel:       taskChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		DocStore:          docStore,
	})

	vectorDB := qdrantDB.GetQdrantClient(serviceContext)
	embeddingService := googleEmbedding.GetGoogleEmbeddingClient(serviceContext, config.GoogleEmbeddingModel, config.GeminiAPIKey)

	var llmProvider llm.Provider
	switch config.LLMProvider {
	case "openai":
		llmProvider = openai.GetOpenAIClient(serviceContext, config.OpenAIModelName, config.OpenAIAPIKey)
	default:
		llmProvider = gemini.GetGeminiClient(serviceContext, config.GeminiModelName, config.GeminiAPIKey)
	}

	if vectorDB == nil || embeddingService == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "VectorDB", vectorDB != nil, "EmbeddingService", embeddingService != nil, "LLMProvider", llmProvider != nil)
		return
	}

	ragService := rag.NewService(vectorDB, llmProvider, embeddingService, docStore)

	handlers.InitRequestHandler(queueService, ragService)

	//init worker pool
	worker.InitServices(queueService, ragService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
