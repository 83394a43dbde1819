package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/resume-ai/internal/ai"
	"github.com/spigell/resume-ai/internal/ai/prompts"
	"github.com/spigell/resume-ai/internal/validation"
)

// GenerateStructured sends a schema-constrained request and decodes the answer
// into T. T is returned only when the whole output is valid against the schema.
func GenerateStructured[T any](ctx context.Context, g *Gateway, call Call, p prompts.Prompt) (*T, error) {
	log := g.callLogger(call)

	if p.Schema == nil {
		return nil, g.fail(log, errors.New("structured call requires a schema"))
	}

	parts := make([]*genai.Part, 0, 2)
	if doc := p.Document; doc != nil {
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: doc.MIMEType, Data: doc.Data}})
		log = log.With(zap.String("document", doc.Name), zap.Int("document_bytes", len(doc.Data)))
	}
	parts = append(parts, &genai.Part{Text: p.Text})

	settings := g.cfg.call(call)
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: jsonMIMEType,
		ResponseSchema:   p.Schema,
		Temperature:      settings.Temperature,
	}

	g.logRequest(log, p.Text)

	resp, err := g.generate(ctx, call, userContent(parts...), config)
	if err != nil {
		return nil, g.fail(log, err)
	}

	raw := responseText(resp)
	g.logResponse(log, raw)

	if strings.TrimSpace(raw) == "" {
		return nil, g.fail(log, emptyFailure(resp))
	}

	out, err := decodeStructured[T](raw, p.Schema)
	if err != nil {
		return nil, g.fail(log, err)
	}
	return out, nil
}

// decodeStructured validates raw against schema and then decodes it. Any
// failure is a MalformedOutput error.
func decodeStructured[T any](raw string, schema *genai.Schema) (*T, error) {
	cleaned := extractJSON(raw)

	if err := validateAgainst(schema, cleaned); err != nil {
		return nil, ai.Malformed(err)
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, ai.Malformed(fmt.Errorf("parse gemini response: %w", err))
	}

	var out T
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &out,
		ErrorUnused: false,
	})
	if err != nil {
		return nil, ai.Malformed(fmt.Errorf("build decoder: %w", err))
	}
	if err := decoder.Decode(doc); err != nil {
		return nil, ai.Malformed(fmt.Errorf("decode gemini response: %w", err))
	}

	return &out, nil
}

// extractJSON strips a markdown code fence around the payload, if any.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(raw)
}

// Analyze runs the general or job-fit resume analysis.
func (g *Gateway) Analyze(ctx context.Context, req ai.AnalysisRequest) (*ai.AnalysisResult, error) {
	if req.Document == nil {
		return nil, ai.Validation(validation.MsgMissingDocument)
	}
	return GenerateStructured[ai.AnalysisResult](ctx, g, CallAnalysis, prompts.Analysis(req.Document, req.JobDescription))
}

// GenerateResume turns builder notes into a structured resume.
func (g *Gateway) GenerateResume(ctx context.Context, input ai.ResumeBuilderInput) (*ai.GeneratedResume, error) {
	resume, err := GenerateStructured[ai.GeneratedResume](ctx, g, CallResume, prompts.Resume(input))
	if err != nil {
		return nil, err
	}
	normalizeResume(resume)
	return resume, nil
}

// normalizeResume replaces absent lists with empty ones.
func normalizeResume(r *ai.GeneratedResume) {
	if r.Experience == nil {
		r.Experience = []ai.Experience{}
	}
	if r.Skills == nil {
		r.Skills = []string{}
	}
	if r.Education == nil {
		r.Education = []ai.Education{}
	}
	for i := range r.Experience {
		if r.Experience[i].Achievements == nil {
			r.Experience[i].Achievements = []string{}
		}
	}
}
