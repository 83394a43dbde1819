// Package session holds the workflow controllers: one small state machine per
// workflow, applying one gateway result at a time.
package session

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/resume-ai/internal/ai"
	"github.com/spigell/resume-ai/internal/logger"
)

var (
	// ErrBusy is returned when a submission arrives while one is in flight.
	ErrBusy = errors.New("a request is already in progress")
	// ErrDiscarded is returned to a caller whose result arrived after the
	// controller was reset or closed. The result is dropped.
	ErrDiscarded = errors.New("result discarded after reset")
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// State is the view of a controller. Result and Err are never both set.
type State[T any] struct {
	Status Status
	Result *T
	Err    *ai.Error
}

// Begin moves to Loading. The previous result stays visible until the call
// resolves.
func Begin[T any](s State[T]) State[T] {
	return State[T]{Status: StatusLoading, Result: s.Result}
}

// Succeed stores result and clears any earlier error.
func Succeed[T any](_ State[T], result *T) State[T] {
	return State[T]{Status: StatusSuccess, Result: result}
}

// Fail stores err. keepResult decides whether the last good result survives.
func Fail[T any](s State[T], err *ai.Error, keepResult bool) State[T] {
	next := State[T]{Status: StatusFailed, Err: err}
	if keepResult {
		next.Result = s.Result
	}
	return next
}

// Idle returns to Idle, optionally keeping the last result.
func Idle[T any](s State[T], keepResult bool) State[T] {
	if keepResult {
		return State[T]{Result: s.Result}
	}
	return State[T]{}
}

// userError returns the classified form of err. Errors already classified
// by the gateway are passed through untouched.
func userError(err error) *ai.Error {
	if classified, ok := ai.AsError(err); ok {
		return classified
	}
	return ai.NewError(ai.KindUnknown, err)
}

// runner serialises submissions of one controller. gen is bumped on reset and
// close so late results can be recognised and dropped.
type runner[T any] struct {
	mu            sync.Mutex
	state         State[T]
	gen           uint64
	closed        bool
	keepOnFailure bool
	log           *zap.Logger
}

func newRunner[T any](log *zap.Logger, workflow string, keepOnFailure bool) *runner[T] {
	return &runner[T]{
		keepOnFailure: keepOnFailure,
		log:           logger.ForWorkflow(log, workflow),
	}
}

func (r *runner[T]) snapshot() State[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// reject records a local validation failure without touching the last result.
func (r *runner[T]) reject(err error) error {
	classified := userError(err)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state.Status == StatusLoading {
		return ErrBusy
	}
	r.state = Fail(r.state, classified, true)
	r.log.Debug("submission rejected", zap.String("reason", classified.Error()))

	return classified
}

// begin claims the controller. before runs under the lock once the claim
// succeeds.
func (r *runner[T]) begin(before func()) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, ErrDiscarded
	}
	if r.state.Status == StatusLoading {
		return 0, ErrBusy
	}
	if before != nil {
		before()
	}
	r.state = Begin(r.state)

	return r.gen, nil
}

// finish applies the outcome of the call started at gen.
func (r *runner[T]) finish(gen uint64, result *T, err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || gen != r.gen {
		r.log.Debug("dropping stale result")
		return ErrDiscarded
	}

	if err != nil {
		classified := userError(err)
		r.log.Warn("request failed",
			zap.String("kind", classified.Kind.String()),
			zap.String("error", classified.Detail()),
		)
		r.state = Fail(r.state, classified, r.keepOnFailure)
		return classified
	}

	r.state = Succeed(r.state, result)
	r.log.Info("request succeeded")

	return nil
}

// reset drops interest in anything in flight. after runs under the lock.
func (r *runner[T]) reset(keepResult bool, after func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.gen++
	r.state = Idle(r.state, keepResult)
	if after != nil {
		after()
	}
}

func (r *runner[T]) close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.gen++
	r.closed = true
}

func (r *runner[T]) submit(validate func() error, before func(), call func() (*T, error)) error {
	if err := validate(); err != nil {
		return r.reject(err)
	}

	gen, err := r.begin(before)
	if err != nil {
		return err
	}

	result, err := call()
	return r.finish(gen, result, err)
}
