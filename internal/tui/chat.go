package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/christopherklint97/wellsync/internal/wellness"
)

// chatHistoryLimit caps how many earlier turns are sent with each message.
const chatHistoryLimit = 10

// Chatter answers coaching questions.
type Chatter interface {
	Chat(ctx context.Context, req wellness.ChatRequest) (string, error)
}

type replyMsg struct {
	text string
	err  error
}

// ChatApp is an interactive conversation with the wellness coach.
type ChatApp struct {
	textarea textarea.Model
	spinner  spinner.Model
	client   Chatter
	userID   string
	history  []wellness.ChatTurn
	waiting  bool
	errMsg   string
}

func NewChatApp(client Chatter, userID string) *ChatApp {
	ta := textarea.New()
	ta.Placeholder = "Ask about your plan..."
	ta.Focus()
	ta.CharLimit = 500
	ta.SetWidth(60)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	s := spinner.New()
	s.Spinner = spinner.Dot

	return &ChatApp{
		textarea: ta,
		spinner:  s,
		client:   client,
		userID:   userID,
	}
}

func (c *ChatApp) Init() tea.Cmd {
	return textarea.Blink
}

func (c *ChatApp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return c, tea.Quit
		case "enter":
			text := strings.TrimSpace(c.textarea.Value())
			if text == "" || c.waiting {
				return c, nil
			}
			c.textarea.Reset()
			c.errMsg = ""
			c.waiting = true
			cmd := c.send(text)
			c.history = append(c.history, wellness.ChatTurn{FromUser: true, Text: text})
			return c, tea.Batch(c.spinner.Tick, cmd)
		}
	case tea.WindowSizeMsg:
		c.textarea.SetWidth(max(20, min(msg.Width-4, 100)))
	case replyMsg:
		c.waiting = false
		if msg.err != nil {
			c.errMsg = msg.err.Error()
			return c, nil
		}
		c.history = append(c.history, wellness.ChatTurn{Text: msg.text})
		return c, nil
	case spinner.TickMsg:
		if !c.waiting {
			return c, nil
		}
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return c, cmd
	}

	var cmd tea.Cmd
	c.textarea, cmd = c.textarea.Update(msg)
	return c, cmd
}

// send asks the coach, passing the turns before this message as context.
func (c *ChatApp) send(text string) tea.Cmd {
	history := c.history
	if len(history) > chatHistoryLimit {
		history = history[len(history)-chatHistoryLimit:]
	}
	req := wellness.ChatRequest{
		Message: text,
		UserID:  c.userID,
		Context: "chat",
		History: append([]wellness.ChatTurn(nil), history...),
	}
	client := c.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		reply, err := client.Chat(ctx, req)
		return replyMsg{text: reply, err: err}
	}
}

func (c *ChatApp) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("wellsync coach"))
	b.WriteString("\n")
	for _, turn := range c.history {
		if turn.FromUser {
			b.WriteString(highlightStyle.Render("You: ") + turn.Text + "\n")
		} else {
			b.WriteString(successStyle.Render("Coach: ") + turn.Text + "\n")
		}
	}
	if c.waiting {
		b.WriteString(c.spinner.View() + " Thinking...\n")
	}
	if c.errMsg != "" {
		b.WriteString(errorStyle.Render("Error: ") + c.errMsg + "\n")
	}
	b.WriteString("\n")
	b.WriteString(c.textarea.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Enter: send • Esc: quit"))
	return b.String()
}

// Transcript returns the conversation so far.
func (c *ChatApp) Transcript() []wellness.ChatTurn {
	return c.history
}
