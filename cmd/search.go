package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-ai/internal/ai"
	"github.com/spigell/resume-ai/internal/document"
	"github.com/spigell/resume-ai/internal/render"
	"github.com/spigell/resume-ai/internal/session"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search current job openings with web grounding",
	Run: func(cmd *cobra.Command, _ []string) {
		search(cmd)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	defaults := ai.DefaultJobSearchParams()

	searchCmd.Flags().String("role", "", "job role to search for")
	searchCmd.Flags().String("location", "", "location (default Remote)")
	searchCmd.Flags().String("level", defaults.ExperienceLevel, "experience level")
	searchCmd.Flags().String("skills", "", "comma separated skills")
	searchCmd.Flags().String("work-mode", defaults.WorkMode, "work mode: Any, Remote, Hybrid, On-site")
	searchCmd.Flags().String("salary", defaults.SalaryRange, "salary range")
	searchCmd.Flags().String("company-size", defaults.CompanySize, "company size: Any, Startup, Mid-Size, Enterprise")
	searchCmd.Flags().String("from-resume", "", "analyze this PDF resume first and seed role and skills from it")
	searchCmd.Flags().BoolP("interactive", "i", false, "choose filters with prompts")
}

func search(cmd *cobra.Command) {
	ctx := context.Background()
	d := bootstrap(ctx)

	controller := session.NewJobSearch(d.gateway, d.logger)
	defer controller.Close()

	flags := cmd.Flags()

	if path, _ := flags.GetString("from-resume"); path != "" {
		doc, err := document.Load(path)
		exitOnError(d.logger, err)

		result, err := runAnalysis(ctx, d, ai.AnalysisRequest{Document: doc}, false)
		exitOnError(d.logger, err)

		params := controller.SeedFromAnalysis(result)
		d.logger.Info("search seeded from resume",
			zap.String("role", params.Role),
			zap.String("skills", params.Skills),
		)
	}

	params := controller.Params()
	for flag, dst := range map[string]*string{
		"role":         &params.Role,
		"location":     &params.Location,
		"level":        &params.ExperienceLevel,
		"skills":       &params.Skills,
		"work-mode":    &params.WorkMode,
		"salary":       &params.SalaryRange,
		"company-size": &params.CompanySize,
	} {
		if flags.Changed(flag) {
			*dst, _ = flags.GetString(flag)
		}
	}

	if interactive, _ := flags.GetBool("interactive"); interactive {
		var err error
		params, err = promptSearch(params)
		if err != nil {
			exitOnError(d.logger, fmt.Errorf("reading search filters: %w", err))
		}
	}

	d.logger.Info("starting the search",
		zap.String("role", params.Role),
		zap.Bool("from_resume", params.FromResume),
	)

	exitOnError(d.logger, controller.Submit(ctx, params))

	fmt.Println(render.JobSearch(controller.State().Result))
}

// promptSearch asks for the role when missing and lets the user pick the
// enumerated filters.
func promptSearch(params ai.JobSearchParams) (ai.JobSearchParams, error) {
	role := promptui.Prompt{
		Label:   "Job role",
		Default: params.Role,
		Validate: func(s string) error {
			if len(s) == 0 {
				return errors.New("role is required")
			}
			return nil
		},
	}
	value, err := role.Run()
	if err != nil {
		return params, err
	}
	params.Role = value

	location := promptui.Prompt{Label: "Location (empty for Remote)", Default: params.Location}
	if params.Location, err = location.Run(); err != nil {
		return params, err
	}

	selects := []struct {
		label string
		items []string
		dst   *string
	}{
		{"Experience level", ai.ExperienceLevels, &params.ExperienceLevel},
		{"Work mode", ai.WorkModes, &params.WorkMode},
		{"Salary range", ai.SalaryRanges, &params.SalaryRange},
		{"Company size", ai.CompanySizes, &params.CompanySize},
	}
	for _, s := range selects {
		prompt := promptui.Select{Label: s.label, Items: s.items, CursorPos: indexOf(s.items, *s.dst)}
		if _, *s.dst, err = prompt.Run(); err != nil {
			return params, err
		}
	}

	return params, nil
}

func indexOf(items []string, value string) int {
	for i, item := range items {
		if item == value {
			return i
		}
	}
	return 0
}
