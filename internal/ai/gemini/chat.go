package gemini

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/resume-ai/internal/ai"
)

// ErrStreamConsumed is yielded when a turn stream is ranged over a second time.
var ErrStreamConsumed = errors.New("chat stream already consumed")

type chatSession struct {
	id   string
	chat chatStream
}

func (s *chatSession) ID() string { return s.id }

// OpenChatSession starts a conversation. History lives in the session handle
// and is resent with every turn.
func (g *Gateway) OpenChatSession(ctx context.Context, systemInstruction string) (ai.ChatSession, error) {
	if g == nil || g.chats == nil {
		return nil, ai.NewError(ai.KindUnknown, errors.New("gemini gateway is not initialized"))
	}
	log := g.callLogger(CallChat)

	if strings.TrimSpace(systemInstruction) == "" {
		systemInstruction = g.cfg.SystemInstruction
	}

	settings := g.cfg.call(CallChat)
	config := &genai.GenerateContentConfig{
		Temperature:       settings.Temperature,
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
	}

	chat, err := g.chats.Create(ctx, settings.Model, config, nil)
	if err != nil {
		return nil, g.fail(log, fmt.Errorf("create chat: %w", err))
	}

	session := &chatSession{id: uuid.NewString(), chat: chat}
	log.Debug("gemini chat session opened", zap.String("session_id", session.id))

	return session, nil
}

// StreamChatTurn sends text and yields the answer increments. The sequence is
// finite and can be ranged over once; failures are yielded classified.
func (g *Gateway) StreamChatTurn(ctx context.Context, session ai.ChatSession, text string) iter.Seq2[string, error] {
	var consumed atomic.Bool

	return func(yield func(string, error) bool) {
		log := g.callLogger(CallChat)

		if consumed.Swap(true) {
			yield("", ErrStreamConsumed)
			return
		}

		s, ok := session.(*chatSession)
		if !ok || s == nil || s.chat == nil {
			yield("", g.fail(log, errors.New("unknown chat session")))
			return
		}

		log = log.With(zap.String("session_id", s.id))
		g.logRequest(log, text)

		var (
			received strings.Builder
			last     *genai.GenerateContentResponse
		)
		for resp, err := range s.chat.SendMessageStream(ctx, genai.Part{Text: text}) {
			if err != nil {
				yield("", g.fail(log, fmt.Errorf("stream chat: %w", err)))
				return
			}
			last = resp

			chunk := responseText(resp)
			if chunk == "" {
				continue
			}
			received.WriteString(chunk)
			if !yield(chunk, nil) {
				return
			}
		}

		g.logResponse(log, received.String())

		if received.Len() == 0 {
			yield("", g.fail(log, emptyFailure(last)))
		}
	}
}
