package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversationAppend(t *testing.T) {
	var c Conversation
	c.ID = "s1"

	c1 := c.Append(Turn{Question: "Q1"})
	c2 := c1.Append(Turn{Question: "Q2"})

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 1, c1.Len())
	assert.Equal(t, 2, c2.Len())
	assert.Equal(t, "s1", c2.ID)
	assert.Equal(t, "Q1", c2.Turns[0].Question)
	assert.Equal(t, "Q2", c2.Turns[1].Question)
}

func TestConversationAppend_DoesNotAlias(t *testing.T) {
	base := Conversation{Turns: make([]Turn, 1, 8)}
	a := base.Append(Turn{Question: "a"})
	b := base.Append(Turn{Question: "b"})

	assert.Equal(t, "a", a.Turns[1].Question)
	assert.Equal(t, "b", b.Turns[1].Question)
	assert.Len(t, base.Turns, 1)
}

func TestErrorKinds(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("wrapped: %w", NewError(KindBackendUnavailable, "generate", cause))

	assert.True(t, errors.Is(err, ErrBackendUnavailable))
	assert.False(t, errors.Is(err, ErrParse))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, KindBackendUnavailable, KindOf(err))
	assert.Equal(t, KindUnknown, KindOf(cause))
	assert.Contains(t, err.Error(), "backend-unavailable")
}
