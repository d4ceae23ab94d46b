package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christopherklint97/wellsync/internal/wellness"
)

type fakeCoach struct {
	reqs  []wellness.ChatRequest
	reply string
	err   error
}

func (f *fakeCoach) Chat(_ context.Context, req wellness.ChatRequest) (string, error) {
	f.reqs = append(f.reqs, req)
	return f.reply, f.err
}

func sendChat(t *testing.T, c *ChatApp, text string) {
	t.Helper()
	c.textarea.SetValue(text)
	_, cmd := c.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.True(t, c.waiting)

	for _, sub := range cmd().(tea.BatchMsg) {
		if sub == nil {
			continue
		}
		if msg, ok := sub().(replyMsg); ok {
			c.Update(msg)
		}
	}
}

func TestChatConversation(t *testing.T) {
	coach := &fakeCoach{reply: "Try oats with berries."}
	c := NewChatApp(coach, "u1")

	sendChat(t, c, "what should I eat?")
	coach.reply = "Same again works."
	sendChat(t, c, "and tomorrow?")

	require.Len(t, coach.reqs, 2)
	assert.Equal(t, "u1", coach.reqs[0].UserID)
	assert.Empty(t, coach.reqs[0].History)
	assert.Equal(t, []wellness.ChatTurn{
		{FromUser: true, Text: "what should I eat?"},
		{Text: "Try oats with berries."},
	}, coach.reqs[1].History)

	assert.Len(t, c.Transcript(), 4)
	assert.False(t, c.waiting)
	assert.Contains(t, c.View(), "Coach: Same again works.")
	assert.Empty(t, c.textarea.Value())
}

func TestChatIgnoresBlankInput(t *testing.T) {
	c := NewChatApp(&fakeCoach{}, "u1")
	c.textarea.SetValue("   ")
	_, cmd := c.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Empty(t, c.Transcript())
}

func TestChatShowsError(t *testing.T) {
	c := NewChatApp(&fakeCoach{err: errors.New("coach offline")}, "u1")
	sendChat(t, c, "hello")

	assert.Len(t, c.Transcript(), 1)
	assert.Contains(t, c.View(), "coach offline")
}
