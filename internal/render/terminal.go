package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/spigell/resume-ai/internal/ai"
)

type ScoreBand int

const (
	ScoreLow ScoreBand = iota
	ScoreFair
	ScoreStrong
)

// Band buckets an ATS score the way the dashboard colours it.
func Band(score int) ScoreBand {
	switch {
	case score >= 80:
		return ScoreStrong
	case score >= 60:
		return ScoreFair
	default:
		return ScoreLow
	}
}

var (
	cyan   = lipgloss.Color("#06b6d4")
	violet = lipgloss.Color("#8b5cf6")
	red    = lipgloss.Color("#ef4444")
	green  = lipgloss.Color("#10b981")
	amber  = lipgloss.Color("#f59e0b")
	muted  = lipgloss.Color("#64748b")

	titleStyle   = lipgloss.NewStyle().Bold(true)
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(muted)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	linkStyle    = lipgloss.NewStyle().Foreground(cyan).Underline(true)
	errorStyle   = lipgloss.NewStyle().Foreground(red).Bold(true)
)

func bandColor(b ScoreBand) lipgloss.Color {
	switch b {
	case ScoreStrong:
		return cyan
	case ScoreFair:
		return violet
	default:
		return red
	}
}

func section(title string, color lipgloss.Color, marker string, items []string) string {
	lines := []string{headingStyle.Foreground(color).Render(strings.ToUpper(title))}
	if len(items) == 0 {
		lines = append(lines, "  (none)")
	}
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("  %s %s", marker, item))
	}
	return strings.Join(lines, "\n")
}

// Analysis renders the results dashboard. width <= 0 leaves wrapping to the
// terminal.
func Analysis(r *ai.AnalysisResult, width int) string {
	if r == nil {
		return ""
	}

	score := lipgloss.NewStyle().Bold(true).Foreground(bandColor(Band(r.OverallScore))).
		Render(strconv.Itoa(r.OverallScore) + "/100")

	header := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(r.DetectedRoleTitle),
		"ATS score: "+score,
		"",
		r.Summary,
	)

	box := boxStyle
	if width > 0 {
		box = box.Width(width)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		box.Render(header),
		"",
		section("Key Strengths", green, "+", r.Strengths),
		"",
		section("Missing Keywords", amber, "!", r.MissingKeywords),
		"",
		section("Improvements", violet, "*", r.Improvements),
	)
}

// JobSearch renders the narrative followed by its web sources.
func JobSearch(r *ai.JobSearchResult) string {
	if r == nil {
		return ""
	}

	parts := []string{strings.TrimSpace(r.Narrative)}
	if len(r.Sources) > 0 {
		lines := []string{headingStyle.Render(fmt.Sprintf("%d SOURCES FOUND", len(r.Sources)))}
		for i, source := range r.Sources {
			lines = append(lines, fmt.Sprintf("  %d. %s\n     %s", i+1, source.Title, linkStyle.Render(source.URI)))
		}
		parts = append(parts, "", strings.Join(lines, "\n"))
	}

	return strings.Join(parts, "\n")
}

// Resume renders the generated resume for the terminal.
func Resume(r *ai.GeneratedResume) string {
	if r == nil {
		return ""
	}
	header := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(r.FullName),
		lipgloss.NewStyle().Foreground(cyan).Render(r.ProfessionalTitle),
	)
	return boxStyle.Render(header) + "\n\n" + PlainText(&ai.GeneratedResume{
		Summary:    r.Summary,
		Experience: r.Experience,
		Skills:     r.Skills,
		Education:  r.Education,
	})
}

// Failure renders a classified failure message.
func Failure(err error) string {
	return errorStyle.Render(err.Error())
}
