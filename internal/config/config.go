package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Debug    bool         `yaml:"debug"`
	Cover    CoverConfig  `yaml:"cover"`
	RAG      RAGConfig    `yaml:"rag"`
	EmbedLLM LLMConfig    `yaml:"embed_llm"`
	ChatLLM  LLMConfig    `yaml:"chat_llm"`
	Server   ServerConfig `yaml:"server"`
}

// LLMConfig describes one model endpoint. Provider is "ollama" or "openai".
type LLMConfig struct {
	Provider string `yaml:"provider"`
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
	Key      string `yaml:"key"`
}

type RAGConfig struct {
	DataDir      string `yaml:"data_dir"`
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
	TopK         int    `yaml:"top_k"`
}

type CoverConfig struct {
	ResourcesDir string `yaml:"resources_dir"`
	OutputDir    string `yaml:"output_dir"`
	BackendURL   string `yaml:"backend_url"`
	Device       string `yaml:"device"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
	DefaultTopK         = 3

	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	// ProviderHash embeds locally without a backend. Embeddings only.
	ProviderHash = "hash"
)

// LoadConfig reads the YAML file at path. A missing file is not an error;
// defaults and environment overrides are applied either way.
func LoadConfig(path string) (*Config, error) {
	// seeded before decoding so an explicit chunk_overlap of 0 is kept
	cfg := Config{RAG: RAGConfig{ChunkOverlap: DefaultChunkOverlap}}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.RAG.DataDir == "" {
		c.RAG.DataDir = "data"
	}
	if c.RAG.ChunkSize == 0 {
		c.RAG.ChunkSize = DefaultChunkSize
	}
	if c.RAG.TopK == 0 {
		c.RAG.TopK = DefaultTopK
	}

	// all-minilm is the Ollama build of all-MiniLM-L6-v2
	if c.EmbedLLM.Provider == "" {
		c.EmbedLLM.Provider = ProviderOllama
	}
	if c.EmbedLLM.Model == "" {
		c.EmbedLLM.Model = "all-minilm"
	}
	if c.EmbedLLM.BaseURL == "" && c.EmbedLLM.Provider == ProviderOllama {
		c.EmbedLLM.BaseURL = "http://localhost:11434"
	}

	if c.ChatLLM.Provider == "" {
		c.ChatLLM.Provider = ProviderOpenAI
	}
	if c.ChatLLM.Model == "" {
		c.ChatLLM.Model = "gpt-3.5-turbo"
	}

	if c.Cover.ResourcesDir == "" {
		c.Cover.ResourcesDir = "resources"
	}
	if c.Cover.OutputDir == "" {
		c.Cover.OutputDir = "output"
	}
	if c.Cover.BackendURL == "" {
		c.Cover.BackendURL = "http://127.0.0.1:7860"
	}
	if c.Cover.Device == "" {
		c.Cover.Device = "auto"
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8501"
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		if c.ChatLLM.Provider == ProviderOpenAI && c.ChatLLM.Key == "" {
			c.ChatLLM.Key = v
		}
		if c.EmbedLLM.Provider == ProviderOpenAI && c.EmbedLLM.Key == "" {
			c.EmbedLLM.Key = v
		}
	}
	if v := os.Getenv("OLLAMA_URL"); v != "" {
		if c.EmbedLLM.Provider == ProviderOllama {
			c.EmbedLLM.BaseURL = v
		}
		if c.ChatLLM.Provider == ProviderOllama {
			c.ChatLLM.BaseURL = v
		}
	}
	if v := os.Getenv("SD_WEBUI_URL"); v != "" {
		c.Cover.BackendURL = v
	}
}

func (c *Config) Validate() error {
	if c.RAG.ChunkSize <= 0 {
		return fmt.Errorf("rag.chunk_size must be positive, got %d", c.RAG.ChunkSize)
	}
	if c.RAG.ChunkOverlap < 0 || c.RAG.ChunkOverlap >= c.RAG.ChunkSize {
		return fmt.Errorf("rag.chunk_overlap must be in [0, %d), got %d", c.RAG.ChunkSize, c.RAG.ChunkOverlap)
	}
	if c.RAG.TopK <= 0 {
		return fmt.Errorf("rag.top_k must be positive, got %d", c.RAG.TopK)
	}
	switch c.EmbedLLM.Provider {
	case ProviderOllama, ProviderOpenAI, ProviderHash:
	default:
		return fmt.Errorf("embed_llm.provider: unsupported provider %q", c.EmbedLLM.Provider)
	}
	switch c.ChatLLM.Provider {
	case ProviderOllama, ProviderOpenAI:
	default:
		return fmt.Errorf("chat_llm.provider: unsupported provider %q", c.ChatLLM.Provider)
	}
	return nil
}
