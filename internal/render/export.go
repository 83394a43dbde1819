// Package render turns controller results into text: resume exports and
// terminal views.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spigell/resume-ai/internal/ai"
)

var whitespace = regexp.MustCompile(`\s+`)

// ExportFileName is the download name of a generated resume.
func ExportFileName(fullName string) string {
	return whitespace.ReplaceAllString(fullName, "_") + "_Resume.md"
}

// Markdown renders the resume in the downloadable layout.
func Markdown(r *ai.GeneratedResume) string {
	if r == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n## %s\n%s\n\n", r.FullName, r.ProfessionalTitle, r.ContactPlaceholder)
	fmt.Fprintf(&b, "### Professional Summary\n%s\n\n", r.Summary)

	b.WriteString("### Experience\n")
	for _, exp := range r.Experience {
		fmt.Fprintf(&b, "\n**%s** | %s\n_%s_\n", exp.Role, exp.Company, exp.Duration)
		for _, achievement := range exp.Achievements {
			fmt.Fprintf(&b, "- %s\n", achievement)
		}
	}

	fmt.Fprintf(&b, "\n### Skills\n%s\n\n", strings.Join(r.Skills, ", "))

	b.WriteString("### Education\n")
	for _, edu := range r.Education {
		fmt.Fprintf(&b, "\n**%s**\n%s - %s\n", edu.Degree, edu.School, edu.Year)
	}

	return strings.TrimSpace(b.String())
}

// PlainText renders the resume in the clipboard layout.
func PlainText(r *ai.GeneratedResume) string {
	if r == nil {
		return ""
	}

	experience := make([]string, 0, len(r.Experience))
	for _, exp := range r.Experience {
		lines := []string{fmt.Sprintf("%s at %s (%s)", exp.Role, exp.Company, exp.Duration)}
		for _, achievement := range exp.Achievements {
			lines = append(lines, "• "+achievement)
		}
		experience = append(experience, strings.Join(lines, "\n"))
	}

	education := make([]string, 0, len(r.Education))
	for _, edu := range r.Education {
		education = append(education, fmt.Sprintf("%s, %s (%s)", edu.Degree, edu.School, edu.Year))
	}

	sections := []string{
		r.FullName + "\n" + r.ProfessionalTitle,
		"SUMMARY\n" + r.Summary,
		"EXPERIENCE\n" + strings.Join(experience, "\n\n"),
		"SKILLS\n" + strings.Join(r.Skills, ", "),
		"EDUCATION\n" + strings.Join(education, "\n"),
	}

	return strings.TrimSpace(strings.Join(sections, "\n\n"))
}
