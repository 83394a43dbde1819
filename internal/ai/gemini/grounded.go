package gemini

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/resume-ai/internal/ai"
	"github.com/spigell/resume-ai/internal/ai/prompts"
)

// Freeform is the raw answer of a grounded call.
type Freeform struct {
	Text    string
	Sources []ai.Source
}

// GenerateFreeform sends prompt with provider-side web search enabled. Schema
// enforcement is never combined with the search tool, so no JSON is parsed.
func (g *Gateway) GenerateFreeform(ctx context.Context, call Call, prompt string) (*Freeform, error) {
	log := g.callLogger(call)

	settings := g.cfg.call(call)
	config := &genai.GenerateContentConfig{
		Temperature: settings.Temperature,
		Tools:       []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}

	g.logRequest(log, prompt)

	resp, err := g.generate(ctx, call, userContent(&genai.Part{Text: prompt}), config)
	if err != nil {
		return nil, g.fail(log, err)
	}

	text := strings.TrimSpace(responseText(resp))
	g.logResponse(log, text)

	if text == "" {
		return nil, g.fail(log, emptyFailure(resp))
	}

	sources := groundingSources(resp)
	log.Debug("gemini grounding sources", zap.Int("count", len(sources)))

	return &Freeform{Text: text, Sources: sources}, nil
}

// SearchJobs runs the grounded job search.
func (g *Gateway) SearchJobs(ctx context.Context, params ai.JobSearchParams) (*ai.JobSearchResult, error) {
	out, err := g.GenerateFreeform(ctx, CallSearch, prompts.JobSearch(params).Text)
	if err != nil {
		return nil, err
	}
	return &ai.JobSearchResult{Narrative: out.Text, Sources: out.Sources}, nil
}

// groundingSources keeps web chunks that carry both a URI and a title, in
// provider order.
func groundingSources(resp *genai.GenerateContentResponse) []ai.Source {
	sources := []ai.Source{}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return sources
	}

	meta := resp.Candidates[0].GroundingMetadata
	if meta == nil {
		return sources
	}

	for _, chunk := range meta.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		if chunk.Web.URI == "" || chunk.Web.Title == "" {
			continue
		}
		sources = append(sources, ai.Source{Title: chunk.Web.Title, URI: chunk.Web.URI})
	}
	return sources
}
