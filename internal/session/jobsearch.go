package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/resume-ai/internal/ai"
	"github.com/spigell/resume-ai/internal/validation"
)

// JobSearch runs grounded searches. The form survives between searches and
// Reset keeps the last result on screen.
type JobSearch struct {
	gw  ai.Gateway
	run *runner[ai.JobSearchResult]

	// guarded by run.mu
	params ai.JobSearchParams
}

func NewJobSearch(gw ai.Gateway, log *zap.Logger) *JobSearch {
	return &JobSearch{
		gw:     gw,
		run:    newRunner[ai.JobSearchResult](log, "job_search", false),
		params: ai.DefaultJobSearchParams(),
	}
}

func (j *JobSearch) Params() ai.JobSearchParams {
	j.run.mu.Lock()
	defer j.run.mu.Unlock()
	return j.params
}

func (j *JobSearch) SetParams(p ai.JobSearchParams) {
	j.run.mu.Lock()
	defer j.run.mu.Unlock()
	j.params = p
}

// SeedFromAnalysis prefills the form from a prior analysis.
func (j *JobSearch) SeedFromAnalysis(result *ai.AnalysisResult) ai.JobSearchParams {
	j.run.mu.Lock()
	defer j.run.mu.Unlock()
	j.params = j.params.SeedFromAnalysis(result)
	return j.params
}

// ClearFilters restores the default form.
func (j *JobSearch) ClearFilters() {
	j.SetParams(ai.DefaultJobSearchParams())
}

// Submit stores p as the current form and searches with it.
func (j *JobSearch) Submit(ctx context.Context, p ai.JobSearchParams) error {
	return j.run.submit(
		func() error { return validation.JobSearch(p) },
		func() { j.params = p },
		func() (*ai.JobSearchResult, error) { return j.gw.SearchJobs(ctx, p) },
	)
}

func (j *JobSearch) State() State[ai.JobSearchResult] {
	return j.run.snapshot()
}

// Reset returns to Idle. The last result stays visible.
func (j *JobSearch) Reset() {
	j.run.reset(true, nil)
}

func (j *JobSearch) Close() {
	j.run.close()
}
