package session

import (
	"context"
	"errors"
	"iter"
	"sync"

	"github.com/spigell/resume-ai/internal/ai"
)

type fakeSession struct{ id string }

func (s *fakeSession) ID() string { return s.id }

// fakeGateway records calls. Chat turns are scripted per call.
type fakeGateway struct {
	mu sync.Mutex

	analyze func(ai.AnalysisRequest) (*ai.AnalysisResult, error)
	resume  func(ai.ResumeBuilderInput) (*ai.GeneratedResume, error)
	search  func(ai.JobSearchParams) (*ai.JobSearchResult, error)
	openErr error
	turns   []scriptedTurn

	// when set, the first OpenChatSession signals holdEntered and waits
	// for holdFirstOpen to be closed
	holdFirstOpen chan struct{}
	holdEntered   chan struct{}
	openCalls     int

	analyzeCalls int
	resumeCalls  int
	searchCalls  int
	opened       []*fakeSession
	sent         []sentTurn
}

type scriptedTurn struct {
	chunks []string
	err    error
}

type sentTurn struct {
	session string
	text    string
}

var _ ai.Gateway = (*fakeGateway)(nil)

func (f *fakeGateway) Analyze(_ context.Context, req ai.AnalysisRequest) (*ai.AnalysisResult, error) {
	f.mu.Lock()
	f.analyzeCalls++
	f.mu.Unlock()
	if f.analyze == nil {
		return &ai.AnalysisResult{}, nil
	}
	return f.analyze(req)
}

func (f *fakeGateway) GenerateResume(_ context.Context, in ai.ResumeBuilderInput) (*ai.GeneratedResume, error) {
	f.mu.Lock()
	f.resumeCalls++
	f.mu.Unlock()
	if f.resume == nil {
		return &ai.GeneratedResume{}, nil
	}
	return f.resume(in)
}

func (f *fakeGateway) SearchJobs(_ context.Context, p ai.JobSearchParams) (*ai.JobSearchResult, error) {
	f.mu.Lock()
	f.searchCalls++
	f.mu.Unlock()
	if f.search == nil {
		return &ai.JobSearchResult{}, nil
	}
	return f.search(p)
}

func (f *fakeGateway) OpenChatSession(_ context.Context, _ string) (ai.ChatSession, error) {
	f.mu.Lock()
	f.openCalls++
	hold := f.openCalls == 1 && f.holdFirstOpen != nil
	f.mu.Unlock()

	if hold {
		close(f.holdEntered)
		<-f.holdFirstOpen
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return nil, f.openErr
	}
	s := &fakeSession{id: string(rune('a' + len(f.opened)))}
	f.opened = append(f.opened, s)
	return s, nil
}

func (f *fakeGateway) StreamChatTurn(_ context.Context, session ai.ChatSession, text string) iter.Seq2[string, error] {
	f.mu.Lock()
	f.sent = append(f.sent, sentTurn{session: session.ID(), text: text})
	var turn scriptedTurn
	if len(f.turns) > 0 {
		turn, f.turns = f.turns[0], f.turns[1:]
	}
	f.mu.Unlock()

	return func(yield func(string, error) bool) {
		for _, chunk := range turn.chunks {
			if !yield(chunk, nil) {
				return
			}
		}
		if turn.err != nil {
			yield("", turn.err)
		}
	}
}

var errBoom = errors.New("boom")

func pdfDoc() *ai.Document {
	return &ai.Document{Name: "cv.pdf", MIMEType: "application/pdf", Data: []byte("%PDF-1.4")}
}
