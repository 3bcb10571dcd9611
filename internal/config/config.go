package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables recognized by Load. Values set in the environment
// (or a .env file) override the yaml file.
const (
	EnvHTTPAddr       = "HTTP_ADDR"
	EnvLLMProvider    = "LLM_PROVIDER"
	EnvOpenAIKey      = "OPENAI_API_KEY"
	EnvOpenAIBaseURL  = "OPENAI_BASE_URL"
	EnvChatModel      = "CHAT_MODEL"
	EnvEmbeddingModel = "EMBEDDING_MODEL"
	EnvOllamaURL      = "OLLAMA_URL"
	EnvIndexPath      = "INDEX_PATH"
	EnvLedgerPath     = "LEDGER_PATH"
	EnvBackendURL     = "BACKEND_URL"
)

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LLMConfig selects and configures one model endpoint. Provider is either
// "openai" (any OpenAI-compatible API, e.g. OpenRouter) or "ollama".
type LLMConfig struct {
	Provider    string `yaml:"provider"`
	BaseURL     string `yaml:"base_url"`
	Key         string `yaml:"key"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

type RAGConfig struct {
	ChunkSize      int    `yaml:"chunk_size"`
	ChunkOverlap   int    `yaml:"chunk_overlap"`
	TopK           int    `yaml:"top_k"`
	IndexPath      string `yaml:"index_path"`
	CollectionName string `yaml:"collection_name"`
}

type LedgerConfig struct {
	Path  string `yaml:"path"`
	Debug bool   `yaml:"debug"`
}

type ClientConfig struct {
	BackendURL  string `yaml:"backend_url"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

type Config struct {
	Server   ServerConfig `yaml:"server"`
	LLM      LLMConfig    `yaml:"llm"`
	EmbedLLM LLMConfig    `yaml:"embed_llm"`
	RAG      RAGConfig    `yaml:"rag"`
	Ledger   LedgerConfig `yaml:"ledger"`
	Client   ClientConfig `yaml:"client"`
}

// Load reads the yaml config at path (a missing file falls back to defaults)
// and then applies environment overrides. A .env file in the working
// directory is honored if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		}
	}
	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8000"},
		LLM: LLMConfig{
			Provider:    "openai",
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-4o-mini",
			TimeoutSecs: 60,
		},
		EmbedLLM: LLMConfig{
			Provider:    "openai",
			BaseURL:     "https://api.openai.com/v1",
			Model:       "text-embedding-3-small",
			TimeoutSecs: 30,
		},
		RAG: RAGConfig{
			ChunkSize:      1000,
			ChunkOverlap:   200,
			TopK:           4,
			IndexPath:      "./index",
			CollectionName: "documents",
		},
		Ledger: LedgerConfig{Path: "./test_questions.db"},
		Client: ClientConfig{BackendURL: "http://localhost:8000", TimeoutSecs: 60},
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvHTTPAddr); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv(EnvLLMProvider); v != "" {
		cfg.LLM.Provider = v
		cfg.EmbedLLM.Provider = v
	}
	if v := os.Getenv(EnvOpenAIKey); v != "" {
		cfg.LLM.Key = v
		cfg.EmbedLLM.Key = v
	}
	if v := os.Getenv(EnvOpenAIBaseURL); v != "" {
		cfg.LLM.BaseURL = v
		cfg.EmbedLLM.BaseURL = v
	}
	if v := os.Getenv(EnvOllamaURL); v != "" && cfg.LLM.Provider == "ollama" {
		cfg.LLM.BaseURL = v
		cfg.EmbedLLM.BaseURL = v
	}
	if v := os.Getenv(EnvChatModel); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv(EnvEmbeddingModel); v != "" {
		cfg.EmbedLLM.Model = v
	}
	if v := os.Getenv(EnvIndexPath); v != "" {
		cfg.RAG.IndexPath = v
	}
	if v := os.Getenv(EnvLedgerPath); v != "" {
		cfg.Ledger.Path = v
	}
	if v := os.Getenv(EnvBackendURL); v != "" {
		cfg.Client.BackendURL = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.RAG.ChunkSize <= 0 {
		cfg.RAG.ChunkSize = 1000
	}
	if cfg.RAG.ChunkOverlap < 0 || cfg.RAG.ChunkOverlap >= cfg.RAG.ChunkSize {
		cfg.RAG.ChunkOverlap = 200
	}
	if cfg.RAG.TopK <= 0 {
		cfg.RAG.TopK = 4
	}
	if cfg.LLM.TimeoutSecs <= 0 {
		cfg.LLM.TimeoutSecs = 60
	}
	if cfg.EmbedLLM.TimeoutSecs <= 0 {
		cfg.EmbedLLM.TimeoutSecs = 30
	}
	if cfg.Client.TimeoutSecs <= 0 {
		cfg.Client.TimeoutSecs = 60
	}
}
