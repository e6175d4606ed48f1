package main

import (
	"context"

	"supportbot/internal/chromemdb"
	"supportbot/internal/config"
	"supportbot/internal/embedding"
	"supportbot/internal/llmservice"
	"supportbot/internal/rag"
)

// buildChain constructs the backends and builds the knowledge index. It runs
// once per process, before any question is served.
func buildChain(ctx context.Context, cfg *config.Config) (*rag.Chain, *chromemdb.Index, error) {
	embedder, err := embedding.New(&cfg.EmbedLLM)
	if err != nil {
		return nil, nil, err
	}
	model, err := llmservice.NewChatModel(&cfg.ChatLLM)
	if err != nil {
		return nil, nil, err
	}
	return rag.Bootstrap(ctx, cfg, embedder, model)
}
