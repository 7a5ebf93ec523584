package llm

import "context"

type Provider interface {
	Generate(ctx context.Context, query string, matches []string) (string, error)
	ModelName() string
}
