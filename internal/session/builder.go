package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/resume-ai/internal/ai"
	"github.com/spigell/resume-ai/internal/validation"
)

// Builder generates a structured resume from free-text notes. A failed
// generation keeps the last generated resume.
type Builder struct {
	gw  ai.Gateway
	run *runner[ai.GeneratedResume]
}

func NewBuilder(gw ai.Gateway, log *zap.Logger) *Builder {
	return &Builder{gw: gw, run: newRunner[ai.GeneratedResume](log, "builder", true)}
}

func (b *Builder) Submit(ctx context.Context, in ai.ResumeBuilderInput) error {
	return b.run.submit(
		func() error { return validation.ResumeInput(in) },
		nil,
		func() (*ai.GeneratedResume, error) { return b.gw.GenerateResume(ctx, in) },
	)
}

func (b *Builder) State() State[ai.GeneratedResume] {
	return b.run.snapshot()
}

func (b *Builder) Reset() {
	b.run.reset(false, nil)
}

func (b *Builder) Close() {
	b.run.close()
}
