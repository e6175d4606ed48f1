// Package ticket holds the escalation heuristic and the mock ticket printer.
package ticket

import (
	"fmt"
	"io"
	"os"
	"strings"

	"supportbot/internal/models"
)

const Banner = "==== SUPPORT TICKET CREATED ===="

// NeedsEscalation reports whether an answer should offer a support ticket:
// it contains "I don't know" verbatim or "unsure" in any case.
//
// This is a plain substring test on generated text, not a confidence score.
// It misses hedged answers phrased any other way and fires on answers that
// merely quote the words.
func NeedsEscalation(answer string) bool {
	return strings.Contains(answer, "I don't know") || strings.Contains(strings.ToLower(answer), "unsure")
}

// Printer writes mock tickets to Out. It never fails and does no network I/O.
type Printer struct {
	Out io.Writer
}

func Stdout() *Printer {
	return &Printer{Out: os.Stdout}
}

// New builds a ticket for the default requester.
func New(question, answer string) models.Ticket {
	return models.Ticket{
		Name:        models.DefaultTicketName,
		Email:       models.DefaultTicketEmail,
		Summary:     question,
		Description: answer,
	}
}

func (p *Printer) Create(t models.Ticket) {
	// write errors are dropped, the stub has no failure mode
	fmt.Fprintln(p.Out, Banner)
	fmt.Fprintf(p.Out, "Name: %s\n", t.Name)
	fmt.Fprintf(p.Out, "Email: %s\n", t.Email)
	fmt.Fprintf(p.Out, "Summary: %s\n", t.Summary)
	fmt.Fprintf(p.Out, "Description: %s\n", t.Description)
	fmt.Fprintln(p.Out, "Ticket would be sent to Jira (mocked).")
}
