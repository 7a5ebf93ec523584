package config

import (
	"testing"
)

func TestLoad_PortOverridesListenAddr(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("BEARER_TOKEN", "token")

	Load()

	if ListenAddr != ":9090" {
		t.Errorf("ListenAddr got %q, want :9090", ListenAddr)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("CHUNK_SIZE", "")

	Load()

	if ListenAddr != ServerListenAddr {
		t.Errorf("ListenAddr got %q, want %q", ListenAddr, ServerListenAddr)
	}
	if LLMProvider != "gemini" {
		t.Errorf("LLMProvider got %q, want gemini", LLMProvider)
	}
	if RedisAddr != RedisAddrDefault {
		t.Errorf("RedisAddr got %q, want %q", RedisAddr, RedisAddrDefault)
	}
	if ChunkSize != 1500 || ChunkOverlap != 250 || RetrievalK != 5 {
		t.Errorf("Pipeline defaults wrong: chunk=%d overlap=%d k=%d", ChunkSize, ChunkOverlap, RetrievalK)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		gemini    string
		bearer    string
		provider  string
		openaiKey string
		wantErr   bool
	}{
		{"All_Set", "g-key", "b-token", "gemini", "", false},
		{"Missing_Gemini_Key", "", "b-token", "gemini", "", true},
		{"Missing_Bearer_Token", "g-key", "", "gemini", "", true},
		{"OpenAI_Without_Key", "g-key", "b-token", "openai", "", true},
		{"OpenAI_With_Key", "g-key", "b-token", "openai", "o-key", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			GeminiAPIKey = tt.gemini
			AuthToken = tt.bearer
			LLMProvider = tt.provider
			OpenAIAPIKey = tt.openaiKey

			err := Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnvInt(t *testing.T) {
	t.Setenv("SOME_INT", "42")
	if got := envInt("SOME_INT", 7); got != 42 {
		t.Errorf("envInt got %d, want 42", got)
	}
	t.Setenv("SOME_INT", "not a number")
	if got := envInt("SOME_INT", 7); got != 7 {
		t.Errorf("envInt with garbage got %d, want fallback 7", got)
	}
	if got := envInt("UNSET_INT_KEY", 7); got != 7 {
		t.Errorf("envInt unset got %d, want fallback 7", got)
	}
}
