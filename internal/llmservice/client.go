package llmservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"supportbot/internal/config"
	"supportbot/internal/models"
)

// NewChatModel returns the answer-generation model for llmConfig.
func NewChatModel(llmConfig *config.LLMConfig) (llms.Model, error) {
	log.Debug().Str("provider", llmConfig.Provider).Str("model", llmConfig.Model).Msg("Creating chat model")

	switch llmConfig.Provider {
	case config.ProviderOpenAI:
		if llmConfig.Key == "" {
			return nil, models.NewError(models.KindBackendUnavailable, "openai chat model",
				fmt.Errorf("OPENAI_API_KEY is not set"))
		}
		opts := []openai.Option{
			openai.WithToken(strings.TrimPrefix(llmConfig.Key, "Bearer ")),
			openai.WithModel(llmConfig.Model),
		}
		if llmConfig.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(llmConfig.BaseURL))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, models.NewError(models.KindBackendUnavailable, "openai chat model", err)
		}
		return llm, nil
	case config.ProviderOllama:
		llm, err := ollama.New(
			ollama.WithServerURL(llmConfig.BaseURL),
			ollama.WithModel(llmConfig.Model),
		)
		if err != nil {
			return nil, models.NewError(models.KindBackendUnavailable, "ollama chat model", err)
		}
		return llm, nil
	default:
		return nil, fmt.Errorf("unsupported chat provider %q", llmConfig.Provider)
	}
}

// call llm and return the first choice
func GenerateContent(ctx context.Context, model llms.Model, messages []llms.MessageContent, options ...llms.CallOption) (string, error) {
	res, err := model.GenerateContent(ctx, messages, options...)
	if err != nil {
		return "", models.NewError(models.KindBackendUnavailable, "generate", err)
	}
	if res == nil || len(res.Choices) == 0 {
		return "", models.NewError(models.KindBackendUnavailable, "generate", fmt.Errorf("no choices returned"))
	}
	return res.Choices[0].Content, nil
}
