package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/resume-ai/internal/ai"
	"github.com/spigell/resume-ai/internal/validation"
)

// Analysis drives the general ATS review, or the job-fit review when built
// with NewMatch. It owns the captured document until Reset.
type Analysis struct {
	gw    ai.Gateway
	match bool
	run   *runner[ai.AnalysisResult]

	// guarded by run.mu
	doc            *ai.Document
	jobDescription string
}

func NewAnalysis(gw ai.Gateway, log *zap.Logger) *Analysis {
	return &Analysis{gw: gw, run: newRunner[ai.AnalysisResult](log, "analysis", false)}
}

func NewMatch(gw ai.Gateway, log *zap.Logger) *Analysis {
	return &Analysis{gw: gw, match: true, run: newRunner[ai.AnalysisResult](log, "match", false)}
}

// Submit validates req locally and, when it passes, runs the analysis.
func (a *Analysis) Submit(ctx context.Context, req ai.AnalysisRequest) error {
	if !a.match {
		req.JobDescription = ""
	}

	return a.run.submit(
		func() error { return validation.Analysis(req, a.match) },
		func() {
			a.doc = req.Document
			a.jobDescription = req.JobDescription
		},
		func() (*ai.AnalysisResult, error) { return a.gw.Analyze(ctx, req) },
	)
}

func (a *Analysis) State() State[ai.AnalysisResult] {
	return a.run.snapshot()
}

// Document returns the captured resume, nil after Reset.
func (a *Analysis) Document() *ai.Document {
	a.run.mu.Lock()
	defer a.run.mu.Unlock()
	return a.doc
}

func (a *Analysis) JobDescription() string {
	a.run.mu.Lock()
	defer a.run.mu.Unlock()
	return a.jobDescription
}

// Reset clears the result, the error and the captured document.
func (a *Analysis) Reset() {
	a.run.reset(false, func() {
		a.doc = nil
		a.jobDescription = ""
	})
}

// Close discards any result still in flight.
func (a *Analysis) Close() {
	a.run.close()
}
