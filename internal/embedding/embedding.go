package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"supportbot/internal/config"
	"supportbot/internal/models"
)

// New returns the embedder configured for cfg.Provider.
func New(cfg *config.LLMConfig) (embeddings.Embedder, error) {
	switch cfg.Provider {
	case config.ProviderOllama:
		return NewOllamaEmbedder(cfg)
	case config.ProviderOpenAI:
		return NewOpenAIEmbedder(cfg)
	case config.ProviderHash:
		log.Warn().Msg("Using the offline hash embedder, retrieval quality is keyword level")
		return NewHashEmbedder(0), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q", cfg.Provider)
	}
}

// new ollama embedder
func NewOllamaEmbedder(llmConfig *config.LLMConfig) (*embeddings.EmbedderImpl, error) {
	log.Debug().Interface("config", map[string]string{
		"base_url":        llmConfig.BaseURL,
		"embedding_model": llmConfig.Model,
	}).Msg("Creating ollama embedder")

	llm, err := ollama.New(
		ollama.WithServerURL(llmConfig.BaseURL),
		ollama.WithModel(llmConfig.Model),
	)
	if err != nil {
		return nil, models.NewError(models.KindBackendUnavailable, "ollama embedder", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, models.NewError(models.KindBackendUnavailable, "ollama embedder", err)
	}
	return embedder, nil
}

// NewOpenAIEmbedder creates an embedder against an OpenAI compatible API.
func NewOpenAIEmbedder(llmConfig *config.LLMConfig) (*embeddings.EmbedderImpl, error) {
	log.Debug().Interface("config", map[string]string{
		"base_url":        llmConfig.BaseURL,
		"embedding_model": llmConfig.Model,
	}).Msg("Creating openai embedder")

	opts := []openai.Option{
		openai.WithToken(strings.TrimPrefix(llmConfig.Key, "Bearer ")),
		openai.WithEmbeddingModel(llmConfig.Model),
	}
	if llmConfig.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(llmConfig.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, models.NewError(models.KindBackendUnavailable, "openai embedder", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, models.NewError(models.KindBackendUnavailable, "openai embedder", err)
	}
	return embedder, nil
}

// EmbedPassages returns one vector per passage, in passage order.
func EmbedPassages(ctx context.Context, embedder embeddings.Embedder, passages []models.Passage) ([][]float32, error) {
	if len(passages) == 0 {
		log.Info().Msg("No passages to embed")
		return nil, nil
	}

	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Content
	}

	vectors, err := embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, models.NewError(models.KindBackendUnavailable, "embed passages", err)
	}
	if len(vectors) != len(passages) {
		return nil, models.NewError(models.KindBackendUnavailable, "embed passages",
			fmt.Errorf("got %d vectors for %d passages", len(vectors), len(passages)))
	}
	return vectors, nil
}
