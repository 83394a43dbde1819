package gemini

import (
	"context"
	"errors"
	"iter"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type modelCall struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

type fakeModels struct {
	mu    sync.Mutex
	calls []modelCall
	resp  *genai.GenerateContentResponse
	err   error
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, modelCall{model: model, contents: contents, config: config})
	return f.resp, f.err
}

type turn struct {
	chunks []string
	err    error
}

type fakeChat struct {
	mu       sync.Mutex
	turns    []turn
	messages []string
}

func (f *fakeChat) SendMessageStream(_ context.Context, parts ...genai.Part) iter.Seq2[*genai.GenerateContentResponse, error] {
	f.mu.Lock()
	for _, part := range parts {
		f.messages = append(f.messages, part.Text)
	}
	var current turn
	if len(f.turns) > 0 {
		current = f.turns[0]
		f.turns = f.turns[1:]
	}
	f.mu.Unlock()

	return func(yield func(*genai.GenerateContentResponse, error) bool) {
		for _, chunk := range current.chunks {
			if !yield(textResponse(chunk), nil) {
				return
			}
		}
		if current.err != nil {
			yield(nil, current.err)
		}
	}
}

type chatCall struct {
	model  string
	config *genai.GenerateContentConfig
	chat   *fakeChat
}

type fakeChats struct {
	mu    sync.Mutex
	calls []chatCall
	turns []turn
	err   error
}

func (f *fakeChats) Create(_ context.Context, model string, config *genai.GenerateContentConfig, _ []*genai.Content) (chatStream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	chat := &fakeChat{turns: f.turns}
	f.calls = append(f.calls, chatCall{model: model, config: config, chat: chat})
	return chat, nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func finishResponse(reason genai.FinishReason) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{FinishReason: reason}},
	}
}

func newTestGateway(models modelsAPI, chats chatCreator) *Gateway {
	return newGateway(models, chats, DefaultConfig(), zap.NewNop())
}

var errBoom = errors.New("boom")
