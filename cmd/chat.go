package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"supportbot/internal/helper"
	"supportbot/internal/models"
	"supportbot/internal/rag"
	"supportbot/internal/server"
	"supportbot/internal/ticket"
)

func newChatCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Ask questions about the documents in an interactive terminal session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			chain, _, err := buildChain(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			id, err := helper.GenerateUUID()
			if err != nil {
				return err
			}
			return runChat(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), chain, ticket.Stdout(), id)
		},
	}
}

// runChat reads one question per line until EOF or "exit". A failed question
// is reported and the session continues.
func runChat(ctx context.Context, in io.Reader, out io.Writer, asker server.Asker, tickets *ticket.Printer, sessionID string) error {
	conv := models.Conversation{ID: sessionID}
	scanner := bufio.NewScanner(in)

	prompt := func(s string) bool {
		fmt.Fprint(out, s)
		return scanner.Scan()
	}

	for prompt("Ask a question about your SaaS documentation: ") {
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			break
		}

		next, turn, err := asker.Ask(ctx, conv, question)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			log.Error().Err(err).Str("kind", models.KindOf(err).String()).Msg("Failed to answer question")
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		conv = next
		printTurn(out, turn)

		if turn.Escalate {
			if !prompt(fmt.Sprintf("Create support ticket for: '%s'? [y/N] ", turn.Question)) {
				break
			}
			if a := strings.ToLower(strings.TrimSpace(scanner.Text())); a == "y" || a == "yes" {
				tickets.Create(ticket.New(turn.Question, turn.Answer))
			}
		}
	}
	return scanner.Err()
}

func printTurn(out io.Writer, turn models.Turn) {
	fmt.Fprintf(out, "You: %s\n", turn.Question)
	fmt.Fprintf(out, "Bot: %s\n", turn.Answer)
	for _, c := range turn.Citations {
		fmt.Fprintf(out, "> Source: %s page %d\n", c.Source, c.Page)
	}
}

var _ server.Asker = (*rag.Chain)(nil)
