package ticket

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"supportbot/internal/models"
)

func TestNeedsEscalation(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{"I don't know the answer to that.", true},
		{"Sorry, I don't know.", true},
		{"i don't know", false},
		{"I'm unsure which plan you are on.", true},
		{"UNSURE", true},
		{"I am Unsure.", true},
		{"Open settings and click reset.", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsEscalation(tt.answer))
		})
	}
}

func TestPrinterCreate(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{Out: &buf}

	p.Create(models.Ticket{Name: "John Doe", Email: "john@example.com", Summary: "Q", Description: "A"})

	want := "==== SUPPORT TICKET CREATED ====\n" +
		"Name: John Doe\n" +
		"Email: john@example.com\n" +
		"Summary: Q\n" +
		"Description: A\n" +
		"Ticket would be sent to Jira (mocked).\n"
	assert.Equal(t, want, buf.String())
}

func TestNew(t *testing.T) {
	tk := New("How do I export?", "I don't know")
	assert.Equal(t, models.Ticket{
		Name:        "John Doe",
		Email:       "john@example.com",
		Summary:     "How do I export?",
		Description: "I don't know",
	}, tk)
}
