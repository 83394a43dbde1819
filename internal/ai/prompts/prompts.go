// Package prompts turns typed requests into instruction text and, for
// structured calls, the response schema the provider must honour.
package prompts

import (
	_ "embed"
	"strings"

	"google.golang.org/genai"

	"github.com/spigell/resume-ai/internal/ai"
)

var (
	//go:embed analysis.md
	analysisTemplate string
	//go:embed analysis_general.md
	analysisGeneralTemplate string
	//go:embed analysis_match.md
	analysisMatchTemplate string
	//go:embed resume.md
	resumeTemplate string
	//go:embed search_manual.md
	searchManualTemplate string
	//go:embed search_resume.md
	searchResumeTemplate string
)

const (
	manualLocationFallback = "Remote"
	resumeLocationFallback = "Remote/Any"
)

// Prompt is a ready-to-send instruction. Schema is nil for calls that cannot
// be combined with schema enforcement.
type Prompt struct {
	Text     string
	Document *ai.Document
	Schema   *genai.Schema
}

// Analysis builds the general ATS review or, when jobDescription is not
// blank, the targeted job-fit review.
func Analysis(doc *ai.Document, jobDescription string) Prompt {
	instructions := analysisGeneralTemplate
	if strings.TrimSpace(jobDescription) != "" {
		instructions = strings.NewReplacer("{{JOB_DESCRIPTION}}", jobDescription).Replace(analysisMatchTemplate)
	}

	text := strings.NewReplacer("{{INSTRUCTIONS}}", instructions).Replace(analysisTemplate)

	return Prompt{
		Text:     strings.TrimSpace(text),
		Document: doc,
		Schema:   AnalysisSchema(),
	}
}

// Resume embeds the builder notes verbatim.
func Resume(in ai.ResumeBuilderInput) Prompt {
	text := strings.NewReplacer(
		"{{FULL_NAME}}", in.FullName,
		"{{TARGET_ROLE}}", in.TargetRole,
		"{{SKILLS}}", in.Skills,
		"{{EXPERIENCE}}", in.Experience,
		"{{EDUCATION}}", in.Education,
	).Replace(resumeTemplate)

	return Prompt{
		Text:   strings.TrimSpace(text),
		Schema: ResumeSchema(),
	}
}

// JobSearch builds the grounded search instruction. No schema is attached.
func JobSearch(p ai.JobSearchParams) Prompt {
	template := searchManualTemplate
	location := orDefault(p.Location, manualLocationFallback)
	if p.FromResume {
		template = searchResumeTemplate
		location = orDefault(p.Location, resumeLocationFallback)
	}

	text := strings.NewReplacer(
		"{{FILTERS}}\n", filterBlock(p),
		"{{ROLE}}", p.Role,
		"{{SKILLS}}", p.Skills,
		"{{LOCATION}}", location,
		"{{LEVEL}}", orDefault(p.ExperienceLevel, ai.DefaultLevel),
	).Replace(template)

	return Prompt{Text: strings.TrimSpace(text)}
}

// filterBlock renders the optional filters, one per line, followed by the
// separator line. Filters equal to their "Any" sentinel are skipped.
func filterBlock(p ai.JobSearchParams) string {
	var lines []string
	if isSet(p.WorkMode, ai.WorkModeAny) {
		lines = append(lines, "Work Mode: "+p.WorkMode)
	}
	if isSet(p.SalaryRange, ai.SalaryAny) {
		lines = append(lines, "Salary Range: "+p.SalaryRange)
	}
	if isSet(p.CompanySize, ai.CompanySizeAny) {
		lines = append(lines, "Company Size: "+p.CompanySize)
	}
	if len(lines) == 0 {
		return "\n"
	}
	return strings.Join(lines, "\n") + "\n\n"
}

func isSet(value, sentinel string) bool {
	value = strings.TrimSpace(value)
	return value != "" && value != sentinel
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
