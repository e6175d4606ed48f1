package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"

	"supportbot/internal/chromemdb"
	"supportbot/internal/config"
	"supportbot/internal/llmservice"
	"supportbot/internal/models"
	"supportbot/internal/parser"
	"supportbot/internal/ticket"
)

// ErrEmptyQuestion is returned by Ask for a blank question.
var ErrEmptyQuestion = errors.New("question is empty")

// Retriever finds the passages most similar to a query.
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]models.Citation, error)
}

// Chain answers questions from retrieved passages and the conversation so far.
// It holds no per-session state; callers pass a Conversation in and keep the
// one returned.
type Chain struct {
	retriever Retriever
	model     llms.Model
	topK      int
	now       func() time.Time
}

func NewChain(retriever Retriever, model llms.Model, topK int) *Chain {
	if topK <= 0 {
		topK = config.DefaultTopK
	}
	return &Chain{retriever: retriever, model: model, topK: topK, now: time.Now}
}

// Bootstrap ingests the configured data directory and builds the index once.
// Any unreadable PDF aborts the whole build.
func Bootstrap(ctx context.Context, cfg *config.Config, embedder embeddings.Embedder, model llms.Model) (*Chain, *chromemdb.Index, error) {
	start := time.Now()

	passages, err := parser.NewParserConfig(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap).LoadDirectory(cfg.RAG.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("ingest %s: %w", cfg.RAG.DataDir, err)
	}

	index, err := chromemdb.Build(ctx, embedder, passages)
	if err != nil {
		return nil, nil, fmt.Errorf("build index: %w", err)
	}

	log.Info().Dur("took", time.Since(start)).Int("passages", index.Count()).Msg("Knowledge index ready")
	return NewChain(index, model, cfg.RAG.TopK), index, nil
}

// Ask retrieves the top-k passages for question, generates an answer with
// the conversation as context, and returns conv with the new turn appended.
// conv itself is left unchanged.
func (c *Chain) Ask(ctx context.Context, conv models.Conversation, question string) (models.Conversation, models.Turn, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return conv, models.Turn{}, ErrEmptyQuestion
	}

	citations, err := c.retriever.Search(ctx, question, c.topK)
	if err != nil {
		return conv, models.Turn{}, fmt.Errorf("retrieve: %w", err)
	}

	answer, err := llmservice.GenerateContent(ctx, c.model, buildMessages(conv, citations, question))
	if err != nil {
		return conv, models.Turn{}, err
	}
	answer = strings.TrimSpace(answer)

	turn := models.Turn{
		Question:  question,
		Answer:    answer,
		Citations: citations,
		Escalate:  ticket.NeedsEscalation(answer),
		AskedAt:   c.now(),
	}
	log.Debug().Str("conversation", conv.ID).Int("citations", len(citations)).Bool("escalate", turn.Escalate).Msg("Answered question")

	return conv.Append(turn), turn, nil
}

func buildMessages(conv models.Conversation, citations []models.Citation, question string) []llms.MessageContent {
	parts := make([]string, len(citations))
	for i, c := range citations {
		parts[i] = c.Content
	}
	system := fmt.Sprintf(models.QAPromptTemplate, strings.Join(parts, models.ContextSeparator))

	messages := make([]llms.MessageContent, 0, 2+2*conv.Len())
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, system))
	for _, t := range conv.Turns {
		messages = append(messages,
			llms.TextParts(llms.ChatMessageTypeHuman, t.Question),
			llms.TextParts(llms.ChatMessageTypeAI, t.Answer),
		)
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, question))
	return messages
}
