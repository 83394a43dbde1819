package ai

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedFromAnalysis(t *testing.T) {
	base := DefaultJobSearchParams()
	base.Location = "Berlin"

	seeded := base.SeedFromAnalysis(&AnalysisResult{
		DetectedRoleTitle: "Data Engineer",
		Strengths:         []string{"Spark", "Python"},
	})

	assert.Equal(t, "Data Engineer", seeded.Role)
	assert.Equal(t, "Spark, Python", seeded.Skills)
	assert.Equal(t, "Berlin", seeded.Location)
	assert.True(t, seeded.FromResume)
	assert.False(t, base.FromResume, "receiver must not change")

	assert.Equal(t, base, base.SeedFromAnalysis(nil))
}

func TestDefaultJobSearchParams(t *testing.T) {
	p := DefaultJobSearchParams()

	assert.Empty(t, p.Role)
	assert.Equal(t, DefaultLevel, p.ExperienceLevel)
	assert.Equal(t, WorkModeAny, p.WorkMode)
	assert.Equal(t, SalaryAny, p.SalaryRange)
	assert.Equal(t, CompanySizeAny, p.CompanySize)
	assert.False(t, p.FromResume)
}

func TestErrorMessages(t *testing.T) {
	cause := errors.New("rpc error: quota")

	tests := []struct {
		err  *Error
		want string
	}{
		{Blocked(BlockSafety), "The content was flagged by safety filters. Please ensure the document does not contain sensitive personal data."},
		{Blocked(BlockRecitation), "The response was flagged as recitation. Please ensure the content is original."},
		{Malformed(cause), "Failed to process the results. The model output was malformed."},
		{Empty(), "The AI model could not generate a response. Please try again."},
		{NewError(KindAuthFailure, cause), "Authentication failed. Please check your API key."},
		{NewError(KindRateLimited, cause), "Service usage limit exceeded. Please wait a moment before trying again."},
		{NewError(KindUpstreamUnavailable, cause), "The AI service is temporarily unavailable. Please try again later."},
		{NewError(KindNetworkFailure, cause), "Network connection failed. Please check your internet connection."},
		{NewError(KindUnknown, cause), "An unexpected error occurred. Please try again."},
		{Validation("Please enter a message."), "Please enter a message."},
	}

	for _, tt := range tests {
		t.Run(tt.err.Kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.NotContains(t, tt.err.Error(), "rpc error")
		})
	}
}

func TestErrorChain(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	wrapped := fmt.Errorf("stream chat: %w", NewError(KindNetworkFailure, cause))

	classified, ok := AsError(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindNetworkFailure, classified.Kind)
	assert.ErrorIs(t, wrapped, cause)
	assert.True(t, IsKind(wrapped, KindNetworkFailure))
	assert.False(t, IsKind(cause, KindNetworkFailure))
	assert.Equal(t, "network_failure: dial tcp: timeout", classified.Detail())
}
