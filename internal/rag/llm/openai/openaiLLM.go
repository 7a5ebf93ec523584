package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/akolanti/HackRxAPI/internal/config"
	"github.com/akolanti/HackRxAPI/internal/rag/llm"
	"github.com/akolanti/HackRxAPI/pkg/logger_i"
	openaigo "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Alternative provider, selected with LLM_PROVIDER=openai. Same contract as
// the Gemini client; the rag service never knows which one it holds.

type llmClient struct {
	client    openaigo.Client
	modelName string
}

var logger *logger_i.Logger
var openaiClient *llmClient
var once sync.Once

func GetOpenAIClient(ctx context.Context, modelName string, apikey string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_openai")
		if apikey == "" {
			logger.Error("OpenAI api key is empty")
			return
		}
		openaiClient = &llmClient{
			client:    openaigo.NewClient(option.WithAPIKey(apikey)),
			modelName: modelName,
		}
		logger.Info("OpenAI client created", "model", modelName)
	})

	if openaiClient == nil {
		return nil
	}
	return openaiClient
}

func (c *llmClient) ModelName() string {
	return c.modelName
}

func (c *llmClient) Generate(ctx context.Context, userQuery string, matches []string) (string, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	userPrompt := fmt.Sprintf("Context:\n%s\n\nUser Question: %s", strings.Join(matches, "\n"), userQuery)

	completion, err := c.client.Chat.Completions.New(ctx, openaigo.ChatCompletionNewParams{
		Model: openaigo.ChatModel(c.modelName),
		Messages: []openaigo.ChatCompletionMessageParamUnion{
			openaigo.SystemMessage(config.ModelContext),
			openaigo.UserMessage(userPrompt),
		},
	})
	if err != nil {
		log.Error("OpenAI generation failed", "error", err)
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("empty response from OpenAI")
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}
