// Package ai holds the domain types shared by the prompt builders, the Gemini
// gateway and the session controllers.
package ai

import (
	"context"
	"iter"
	"strings"
	"time"
)

// Document is a captured resume file. Bytes are read-only once captured.
type Document struct {
	Name     string
	MIMEType string
	Data     []byte
}

// AnalysisRequest is immutable once submitted.
type AnalysisRequest struct {
	Document       *Document
	JobDescription string
}

// AnalysisResult is produced atomically by a structured call.
type AnalysisResult struct {
	DetectedRoleTitle string   `json:"jobTitleDetected" mapstructure:"jobTitleDetected"`
	Summary           string   `json:"summary" mapstructure:"summary"`
	OverallScore      int      `json:"overallScore" mapstructure:"overallScore"`
	Strengths         []string `json:"strengths" mapstructure:"strengths"`
	MissingKeywords   []string `json:"missingKeywords" mapstructure:"missingKeywords"`
	Improvements      []string `json:"improvements" mapstructure:"improvements"`
}

// ResumeBuilderInput carries the raw free-text notes of the resume builder form.
type ResumeBuilderInput struct {
	FullName   string `validate:"notblank"`
	TargetRole string `validate:"notblank"`
	Experience string `validate:"notblank"`
	Skills     string
	Education  string
}

type Experience struct {
	Role         string   `json:"role" mapstructure:"role"`
	Company      string   `json:"company" mapstructure:"company"`
	Duration     string   `json:"duration" mapstructure:"duration"`
	Achievements []string `json:"achievements" mapstructure:"achievements"`
}

type Education struct {
	Degree string `json:"degree" mapstructure:"degree"`
	School string `json:"school" mapstructure:"school"`
	Year   string `json:"year" mapstructure:"year"`
}

// GeneratedResume is the structured resume returned by the resume builder call.
type GeneratedResume struct {
	FullName           string       `json:"fullName" mapstructure:"fullName"`
	ProfessionalTitle  string       `json:"professionalTitle" mapstructure:"professionalTitle"`
	ContactPlaceholder string       `json:"contactInfoPlaceholder" mapstructure:"contactInfoPlaceholder"`
	Summary            string       `json:"summary" mapstructure:"summary"`
	Experience         []Experience `json:"experience" mapstructure:"experience"`
	Skills             []string     `json:"skills" mapstructure:"skills"`
	Education          []Education  `json:"education" mapstructure:"education"`
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is a single entry of a chat session. Text is mutable only while
// the message is the live streaming target.
type ChatMessage struct {
	ID        string
	Role      Role
	Text      string
	CreatedAt time.Time
	Streaming bool
	Failed    bool
}

const (
	WorkModeAny     = "Any"
	WorkModeRemote  = "Remote"
	WorkModeHybrid  = "Hybrid"
	WorkModeOnSite  = "On-site"
	SalaryAny       = "Any"
	CompanySizeAny  = "Any"
	DefaultLevel    = "Mid-Level"
	seededSkillsMax = 5
)

var (
	ExperienceLevels = []string{"Internship", "Entry Level", "Mid-Level", "Senior", "Executive"}
	WorkModes        = []string{WorkModeAny, WorkModeRemote, WorkModeHybrid, WorkModeOnSite}
	SalaryRanges     = []string{SalaryAny, "Under $50k", "$50k - $80k", "$80k - $120k", "$120k - $180k", "$180k+"}
	CompanySizes     = []string{CompanySizeAny, "Startup", "Mid-Size", "Enterprise"}
)

// JobSearchParams describes a grounded job search. Empty optional filters are
// treated like their "Any" sentinel.
type JobSearchParams struct {
	Role            string `validate:"notblank"`
	Location        string
	ExperienceLevel string `validate:"omitempty,experience_level"`
	Skills          string
	WorkMode        string `validate:"omitempty,work_mode"`
	SalaryRange     string `validate:"omitempty,salary_range"`
	CompanySize     string `validate:"omitempty,company_size"`
	FromResume      bool
}

// DefaultJobSearchParams returns the cleared search form.
func DefaultJobSearchParams() JobSearchParams {
	return JobSearchParams{
		ExperienceLevel: DefaultLevel,
		WorkMode:        WorkModeAny,
		SalaryRange:     SalaryAny,
		CompanySize:     CompanySizeAny,
	}
}

// SeedFromAnalysis fills the role and skills from a prior analysis and marks
// the search as resume-seeded.
func (p JobSearchParams) SeedFromAnalysis(result *AnalysisResult) JobSearchParams {
	if result == nil {
		return p
	}
	strengths := result.Strengths
	if len(strengths) > seededSkillsMax {
		strengths = strengths[:seededSkillsMax]
	}
	p.Role = result.DetectedRoleTitle
	p.Skills = strings.Join(strengths, ", ")
	p.FromResume = true
	return p
}

// Source is a web citation attached by provider-side grounding.
type Source struct {
	Title string
	URI   string
}

type JobSearchResult struct {
	Narrative string
	Sources   []Source
}

// ChatSession is a stateful conversation handle. Every turn builds on all
// prior turns of the same session.
type ChatSession interface {
	ID() string
}

// Gateway is the only boundary talking to the generation provider.
type Gateway interface {
	Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error)
	GenerateResume(ctx context.Context, input ResumeBuilderInput) (*GeneratedResume, error)
	SearchJobs(ctx context.Context, params JobSearchParams) (*JobSearchResult, error)
	OpenChatSession(ctx context.Context, systemInstruction string) (ChatSession, error)
	StreamChatTurn(ctx context.Context, session ChatSession, text string) iter.Seq2[string, error]
}
