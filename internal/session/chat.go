package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/resume-ai/internal/ai"
	"github.com/spigell/resume-ai/internal/logger"
	"github.com/spigell/resume-ai/internal/validation"
)

const (
	WelcomeMessage  = "Hello! I'm your AI Career Assistant. How can I help optimize your resume or prep for your next interview today?"
	ResetMessage    = "Session reset. I'm ready for a new topic! What shall we discuss?"
	FallbackMessage = "Sorry, I encountered an error. Please check your connection and try again."
)

// DeltaFunc receives the streaming message after every appended increment.
type DeltaFunc func(ai.ChatMessage)

// Chat keeps the conversation and the provider session behind it. Turns are
// processed one at a time; the provider session is opened on first use.
type Chat struct {
	gw          ai.Gateway
	instruction string
	log         *zap.Logger
	now         func() time.Time

	mu       sync.Mutex
	session  ai.ChatSession
	messages []ai.ChatMessage
	status   Status
	err      *ai.Error
	gen      uint64
	closed   bool
}

// NewChat seeds the conversation with the welcome message. An empty
// instruction leaves the gateway default in place.
func NewChat(gw ai.Gateway, instruction string, log *zap.Logger) *Chat {
	c := &Chat{
		gw:          gw,
		instruction: instruction,
		log:         logger.ForWorkflow(log, "chat"),
		now:         time.Now,
	}
	c.messages = []ai.ChatMessage{c.newMessage(ai.RoleAssistant, WelcomeMessage)}
	return c
}

func (c *Chat) newMessage(role ai.Role, text string) ai.ChatMessage {
	return ai.ChatMessage{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Role:      role,
		Text:      text,
		CreatedAt: c.now(),
	}
}

// Messages returns a copy of the conversation in display order.
func (c *Chat) Messages() []ai.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ai.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Chat) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Err is the classified failure of the last turn, if it failed.
func (c *Chat) Err() *ai.Error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// SendTurn appends the user message and an assistant message that grows with
// every increment. onDelta may be nil. A failure mid-stream keeps the partial
// text, appends the fallback notice and marks the message failed.
func (c *Chat) SendTurn(ctx context.Context, text string, onDelta DeltaFunc) error {
	if err := validation.ChatText(text); err != nil {
		return err
	}
	text = strings.TrimSpace(text)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrDiscarded
	}
	if c.status == StatusLoading {
		c.mu.Unlock()
		return ErrBusy
	}
	gen := c.gen
	session := c.session
	c.messages = append(c.messages, c.newMessage(ai.RoleUser, text))
	reply := c.newMessage(ai.RoleAssistant, "")
	reply.Streaming = true
	c.messages = append(c.messages, reply)
	c.status = StatusLoading
	c.err = nil
	c.mu.Unlock()

	if session == nil {
		opened, err := c.gw.OpenChatSession(ctx, c.instruction)
		if err != nil {
			return c.fail(gen, reply.ID, err)
		}

		c.mu.Lock()
		if gen != c.gen || c.closed {
			c.mu.Unlock()
			return ErrDiscarded
		}
		c.session = opened
		c.mu.Unlock()
		session = opened
	}

	for delta, err := range c.gw.StreamChatTurn(ctx, session, text) {
		if err != nil {
			return c.fail(gen, reply.ID, err)
		}

		msg, ok := c.appendDelta(gen, reply.ID, delta)
		if !ok {
			return ErrDiscarded
		}
		if onDelta != nil {
			onDelta(msg)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || c.closed {
		return ErrDiscarded
	}
	if msg := c.find(reply.ID); msg != nil {
		msg.Streaming = false
	}
	c.status = StatusSuccess

	return nil
}

func (c *Chat) find(id string) *ai.ChatMessage {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].ID == id {
			return &c.messages[i]
		}
	}
	return nil
}

// appendDelta reports false once the turn belongs to a discarded generation.
func (c *Chat) appendDelta(gen uint64, id, delta string) (ai.ChatMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen || c.closed {
		return ai.ChatMessage{}, false
	}
	msg := c.find(id)
	if msg == nil {
		return ai.ChatMessage{}, false
	}
	msg.Text += delta

	return *msg, true
}

func (c *Chat) fail(gen uint64, id string, err error) error {
	classified := userError(err)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen || c.closed {
		return ErrDiscarded
	}

	c.log.Warn("chat turn failed",
		zap.String("kind", classified.Kind.String()),
		zap.String("error", classified.Detail()),
	)

	if msg := c.find(id); msg != nil {
		if msg.Text == "" {
			msg.Text = FallbackMessage
		} else {
			msg.Text += "\n\n" + FallbackMessage
		}
		msg.Streaming = false
		msg.Failed = true
	}
	c.status = StatusFailed
	c.err = classified

	return classified
}

// ResetSession drops the conversation, seeds the reset message and opens a
// fresh provider session. A turn still streaming is abandoned. If opening
// fails the next turn retries it. A turn sent before the open returns keeps
// the session it opened itself.
func (c *Chat) ResetSession(ctx context.Context) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.session = nil
	c.messages = []ai.ChatMessage{c.newMessage(ai.RoleAssistant, ResetMessage)}
	c.status = StatusIdle
	c.err = nil
	c.mu.Unlock()

	c.log.Info("chat session reset")

	opened, err := c.gw.OpenChatSession(ctx, c.instruction)
	if err != nil {
		classified := userError(err)
		c.log.Warn("open chat session failed", zap.String("error", classified.Detail()))
		return classified
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// a turn sent while opening already started its own session; keep it
	if gen != c.gen || c.closed || c.session != nil {
		c.log.Debug("dropping chat session opened by reset")
		return nil
	}
	c.session = opened

	return nil
}

// Close abandons the session. Increments arriving later are ignored.
func (c *Chat) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.closed = true
}
