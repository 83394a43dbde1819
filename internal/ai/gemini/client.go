package gemini

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/resume-ai/internal/ai"
	"github.com/spigell/resume-ai/internal/logger"
	"github.com/spigell/resume-ai/internal/utils"
)

const (
	provider = "gemini"

	defaultModel      = "gemini-2.5-flash"
	defaultChatModel  = "gemini-3-pro-preview"
	defaultMaxLogLen  = 200
	analysisTemp      = 0.4
	resumeTemp        = 0.5
	jsonMIMEType      = "application/json"
	defaultSystemInst = "You are an expert career coach and resume strategist named 'ResumeAI Assistant'. " +
		"Your goal is to help users craft perfect resumes, prepare for interviews, and navigate their career path. " +
		"Be concise, encouraging, and professional."
)

// Call names one of the four provider interactions.
type Call string

const (
	CallAnalysis Call = "analysis"
	CallResume   Call = "resume"
	CallChat     Call = "chat"
	CallSearch   Call = "search"
)

// CallConfig is the per-call-type model setup. A nil Temperature leaves the
// provider default in place.
type CallConfig struct {
	Model       string
	Temperature *float32
}

// Config is passed at construction; nothing is read from the environment here.
type Config struct {
	APIKey            string
	Analysis          CallConfig
	Resume            CallConfig
	Chat              CallConfig
	Search            CallConfig
	SystemInstruction string
	MaxLogLength      int
}

// DefaultConfig returns the models and temperatures used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Analysis:          CallConfig{Model: defaultModel, Temperature: genai.Ptr[float32](analysisTemp)},
		Resume:            CallConfig{Model: defaultModel, Temperature: genai.Ptr[float32](resumeTemp)},
		Chat:              CallConfig{Model: defaultChatModel},
		Search:            CallConfig{Model: defaultModel},
		SystemInstruction: defaultSystemInst,
		MaxLogLength:      defaultMaxLogLen,
	}
}

func (c Config) call(call Call) CallConfig {
	var cc CallConfig
	switch call {
	case CallAnalysis:
		cc = c.Analysis
	case CallResume:
		cc = c.Resume
	case CallChat:
		cc = c.Chat
	case CallSearch:
		cc = c.Search
	}
	if strings.TrimSpace(cc.Model) == "" {
		cc.Model = defaultModel
		if call == CallChat {
			cc.Model = defaultChatModel
		}
	}
	return cc
}

type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type chatStream interface {
	SendMessageStream(ctx context.Context, parts ...genai.Part) iter.Seq2[*genai.GenerateContentResponse, error]
}

type chatCreator interface {
	Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatStream, error)
}

type genaiChats struct {
	chats *genai.Chats
}

func (c genaiChats) Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatStream, error) {
	chat, err := c.chats.Create(ctx, model, config, history)
	if err != nil {
		return nil, err
	}
	return chat, nil
}

// Gateway is the only component issuing calls to Gemini.
type Gateway struct {
	models modelsAPI
	chats  chatCreator
	cfg    Config
	logger *zap.Logger
}

var _ ai.Gateway = (*Gateway)(nil)

// NewGateway creates a Gateway configured for the Gemini API backend.
func NewGateway(ctx context.Context, cfg Config, log *zap.Logger) (*Gateway, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, ai.ErrMissingCredential
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newGateway(client.Models, genaiChats{chats: client.Chats}, cfg, log), nil
}

func newGateway(models modelsAPI, chats chatCreator, cfg Config, log *zap.Logger) *Gateway {
	if cfg.MaxLogLength <= 0 {
		cfg.MaxLogLength = defaultMaxLogLen
	}
	if strings.TrimSpace(cfg.SystemInstruction) == "" {
		cfg.SystemInstruction = defaultSystemInst
	}
	return &Gateway{
		models: models,
		chats:  chats,
		cfg:    cfg,
		logger: logger.WithFields(log),
	}
}

// Model returns the model used for the given call type.
func (g *Gateway) Model(call Call) string {
	if g == nil {
		return ""
	}
	return g.cfg.call(call).Model
}

// SystemInstruction is the default chat persona.
func (g *Gateway) SystemInstruction() string {
	return g.cfg.SystemInstruction
}

func (g *Gateway) callLogger(call Call) *zap.Logger {
	return logger.WithCommonFields(g.logger, provider, g.cfg.call(call).Model, string(call))
}

func (g *Gateway) logRequest(log *zap.Logger, prompt string) {
	log.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, g.cfg.MaxLogLength)),
	)
}

func (g *Gateway) logResponse(log *zap.Logger, text string) {
	log.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(text)),
		zap.String("response_preview", utils.TruncateForLog(text, g.cfg.MaxLogLength)),
	)
}

// fail classifies err once and logs the raw cause.
func (g *Gateway) fail(log *zap.Logger, err error) *ai.Error {
	classified := Classify(err)
	log.Warn("gemini call failed",
		zap.String("kind", classified.Kind.String()),
		zap.Error(errors.Unwrap(classified)),
	)
	return classified
}

func (g *Gateway) generate(ctx context.Context, call Call, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if g == nil || g.models == nil {
		return nil, errors.New("gemini gateway is not initialized")
	}
	resp, err := g.models.GenerateContent(ctx, g.cfg.call(call).Model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	return resp, nil
}

// responseText joins the text parts of the first candidate. Thought parts are skipped.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return ""
	}

	var builder strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought || part.Text == "" {
			continue
		}
		builder.WriteString(part.Text)
	}
	return builder.String()
}

// blockReason reports why the provider refused to answer, if it did.
func blockReason(resp *genai.GenerateContentResponse) (ai.BlockReason, bool) {
	if resp == nil {
		return "", false
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
		switch resp.Candidates[0].FinishReason {
		case genai.FinishReasonSafety, "BLOCKLIST", "PROHIBITED_CONTENT", "SPII", "IMAGE_SAFETY":
			return ai.BlockSafety, true
		case genai.FinishReasonRecitation:
			return ai.BlockRecitation, true
		}
	}

	if fb := resp.PromptFeedback; fb != nil {
		switch reason := string(fb.BlockReason); reason {
		case "", "BLOCKED_REASON_UNSPECIFIED":
		case "SAFETY", "BLOCKLIST", "PROHIBITED_CONTENT", "IMAGE_SAFETY":
			return ai.BlockSafety, true
		default:
			return ai.BlockOther, true
		}
	}

	return "", false
}

// emptyFailure is returned when a response carries no usable text.
func emptyFailure(resp *genai.GenerateContentResponse) *ai.Error {
	if reason, ok := blockReason(resp); ok {
		return ai.Blocked(reason)
	}
	return ai.Empty()
}

func userContent(parts ...*genai.Part) []*genai.Content {
	return []*genai.Content{{Role: genai.RoleUser, Parts: parts}}
}
