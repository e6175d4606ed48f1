package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supportbot/internal/models"
	"supportbot/internal/ticket"
)

type stubAsker struct {
	answers map[string]string
	seen    []int
}

func (s *stubAsker) Ask(_ context.Context, conv models.Conversation, q string) (models.Conversation, models.Turn, error) {
	s.seen = append(s.seen, conv.Len())
	answer, ok := s.answers[q]
	if !ok {
		return conv, models.Turn{}, models.NewError(models.KindBackendUnavailable, "generate", errors.New("offline"))
	}
	turn := models.Turn{
		Question:  q,
		Answer:    answer,
		Citations: []models.Citation{{Source: "manual.pdf", Page: 7}},
		Escalate:  ticket.NeedsEscalation(answer),
	}
	return conv.Append(turn), turn, nil
}

func TestRunChat(t *testing.T) {
	asker := &stubAsker{answers: map[string]string{
		"How do I log in?": "Use the login page.",
		"Can I export?":    "I don't know",
	}}
	var out, tickets bytes.Buffer
	in := strings.NewReader("How do I log in?\n\nbroken\nCan I export?\ny\nexit\nnever asked\n")

	err := runChat(context.Background(), in, &out, asker, &ticket.Printer{Out: &tickets}, "s1")
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "You: How do I log in?\nBot: Use the login page.\n> Source: manual.pdf page 7\n")
	assert.Contains(t, got, "Error: generate: backend-unavailable: offline")
	assert.Contains(t, got, "Create support ticket for: 'Can I export?'? [y/N] ")
	assert.NotContains(t, got, "never asked")

	// the failed question leaves history untouched
	assert.Equal(t, []int{0, 1, 1}, asker.seen)

	assert.True(t, strings.HasPrefix(tickets.String(), ticket.Banner+"\n"))
	assert.Contains(t, tickets.String(), "Summary: Can I export?\n")
}

func TestRunChat_TicketDeclined(t *testing.T) {
	asker := &stubAsker{answers: map[string]string{"q": "I'm unsure."}}
	var out, tickets bytes.Buffer

	err := runChat(context.Background(), strings.NewReader("q\nn\n"), &out, asker, &ticket.Printer{Out: &tickets}, "s1")
	require.NoError(t, err)
	assert.Empty(t, tickets.String())
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"cover", "chat", "ask", "serve"}, names)
}
