package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-ai/internal/ai"
	"github.com/spigell/resume-ai/internal/validation"
)

func TestMatchWithoutJobDescriptionNeverCallsGateway(t *testing.T) {
	gw := &fakeGateway{}
	match := NewMatch(gw, zap.NewNop())

	err := match.Submit(context.Background(), ai.AnalysisRequest{Document: pdfDoc(), JobDescription: "  \n"})

	require.Error(t, err)
	assert.True(t, ai.IsKind(err, ai.KindValidation))
	assert.Equal(t, validation.MsgMissingJobDescription, err.Error())
	assert.Zero(t, gw.analyzeCalls)
	assert.Equal(t, StatusFailed, match.State().Status)
}

func TestAnalysisRequiresDocument(t *testing.T) {
	gw := &fakeGateway{}
	analysis := NewAnalysis(gw, nil)

	err := analysis.Submit(context.Background(), ai.AnalysisRequest{})

	assert.Equal(t, validation.MsgMissingDocument, err.Error())
	assert.Zero(t, gw.analyzeCalls)
}

func TestAnalysisIgnoresJobDescription(t *testing.T) {
	var got ai.AnalysisRequest
	gw := &fakeGateway{analyze: func(req ai.AnalysisRequest) (*ai.AnalysisResult, error) {
		got = req
		return &ai.AnalysisResult{OverallScore: 71}, nil
	}}
	analysis := NewAnalysis(gw, nil)

	require.NoError(t, analysis.Submit(context.Background(), ai.AnalysisRequest{Document: pdfDoc(), JobDescription: "Go dev"}))
	assert.Empty(t, got.JobDescription)

	state := analysis.State()
	assert.Equal(t, StatusSuccess, state.Status)
	assert.Equal(t, 71, state.Result.OverallScore)
	assert.Nil(t, state.Err)
}

func TestAnalysisFailureClearsResult(t *testing.T) {
	calls := 0
	gw := &fakeGateway{analyze: func(ai.AnalysisRequest) (*ai.AnalysisResult, error) {
		calls++
		if calls == 1 {
			return &ai.AnalysisResult{OverallScore: 50}, nil
		}
		return nil, ai.Blocked(ai.BlockRecitation)
	}}
	core, logs := observer.New(zapcore.WarnLevel)
	match := NewMatch(gw, zap.New(core))
	req := ai.AnalysisRequest{Document: pdfDoc(), JobDescription: "Senior Go engineer"}

	require.NoError(t, match.Submit(context.Background(), req))
	err := match.Submit(context.Background(), req)

	require.Error(t, err)
	state := match.State()
	assert.Equal(t, StatusFailed, state.Status)
	assert.Nil(t, state.Result)
	assert.Equal(t, ai.KindContentBlocked, state.Err.Kind)
	assert.Equal(t, ai.BlockRecitation, state.Err.Reason)

	entries := logs.FilterMessage("request failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "match", entries[0].ContextMap()["workflow"])
}

func TestAnalysisWrapsUnclassifiedErrors(t *testing.T) {
	gw := &fakeGateway{analyze: func(ai.AnalysisRequest) (*ai.AnalysisResult, error) { return nil, errBoom }}
	analysis := NewAnalysis(gw, nil)

	err := analysis.Submit(context.Background(), ai.AnalysisRequest{Document: pdfDoc()})

	assert.True(t, ai.IsKind(err, ai.KindUnknown))
	assert.True(t, errors.Is(err, errBoom))
	assert.Equal(t, "An unexpected error occurred. Please try again.", err.Error())
}

func TestAnalysisReset(t *testing.T) {
	analysis := NewMatch(&fakeGateway{}, nil)
	require.NoError(t, analysis.Submit(context.Background(), ai.AnalysisRequest{Document: pdfDoc(), JobDescription: "SRE"}))
	require.NotNil(t, analysis.Document())

	analysis.Reset()

	assert.Nil(t, analysis.Document())
	assert.Empty(t, analysis.JobDescription())
	assert.Equal(t, State[ai.AnalysisResult]{}, analysis.State())
}

func TestAnalysisDropsResultAfterReset(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	gw := &fakeGateway{analyze: func(ai.AnalysisRequest) (*ai.AnalysisResult, error) {
		close(started)
		<-release
		return &ai.AnalysisResult{OverallScore: 99}, nil
	}}
	analysis := NewAnalysis(gw, nil)

	done := make(chan error, 1)
	go func() {
		done <- analysis.Submit(context.Background(), ai.AnalysisRequest{Document: pdfDoc()})
	}()

	<-started
	assert.ErrorIs(t, analysis.Submit(context.Background(), ai.AnalysisRequest{Document: pdfDoc()}), ErrBusy)

	analysis.Reset()
	close(release)

	assert.ErrorIs(t, <-done, ErrDiscarded)
	assert.Equal(t, StatusIdle, analysis.State().Status)
	assert.Nil(t, analysis.State().Result)
}

func TestAnalysisClose(t *testing.T) {
	gw := &fakeGateway{}
	analysis := NewAnalysis(gw, nil)
	analysis.Close()

	assert.ErrorIs(t, analysis.Submit(context.Background(), ai.AnalysisRequest{Document: pdfDoc()}), ErrDiscarded)
	assert.Zero(t, gw.analyzeCalls)
}
