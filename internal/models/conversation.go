package models

import "time"

type Turn struct {
	Question  string     `json:"question"`
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
	Escalate  bool       `json:"escalate"`
	AskedAt   time.Time  `json:"asked_at"`
}

// Conversation is the per-session history. It is a value: Append returns a
// new Conversation and leaves the receiver untouched.
type Conversation struct {
	ID    string `json:"id"`
	Turns []Turn `json:"turns"`
}

func (c Conversation) Append(t Turn) Conversation {
	turns := make([]Turn, len(c.Turns), len(c.Turns)+1)
	copy(turns, c.Turns)
	return Conversation{ID: c.ID, Turns: append(turns, t)}
}

func (c Conversation) Len() int {
	return len(c.Turns)
}

// Ticket is a mock support ticket. It is never persisted.
type Ticket struct {
	Name        string
	Email       string
	Summary     string
	Description string
}

// GenerationParams is the fixed parameter record of one diffusion run.
type GenerationParams struct {
	Prompt        string
	Steps         int
	GuidanceScale float64
	Width         int
	Height        int
}
