package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-ai/internal/ai"
	"github.com/spigell/resume-ai/internal/document"
	"github.com/spigell/resume-ai/internal/render"
	"github.com/spigell/resume-ai/internal/session"
)

const dashboardWidth = 80

var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE.pdf",
	Short: "Run a general ATS review of a PDF resume",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		analyze(args[0], "", false)
	},
}

var matchCmd = &cobra.Command{
	Use:   "match FILE.pdf",
	Short: "Score a PDF resume against a job description",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		logger := newLogger()

		jobDescription := viper.GetString("job-description")
		if file := viper.GetString("job-description-file"); file != "" {
			data, err := os.ReadFile(file)
			if err != nil {
				exitOnError(logger, fmt.Errorf("reading job description: %w", err))
			}
			jobDescription = string(data)
		}

		analyze(args[0], jobDescription, true)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().String("job-description", "", "job description text to match against")
	matchCmd.Flags().String("job-description-file", "", "file with the job description; wins over --job-description")

	viper.BindPFlag("job-description", matchCmd.Flags().Lookup("job-description"))
	viper.BindPFlag("job-description-file", matchCmd.Flags().Lookup("job-description-file"))
}

func analyze(path, jobDescription string, match bool) {
	ctx := context.Background()
	d := bootstrap(ctx)

	doc, err := document.Load(path)
	exitOnError(d.logger, err)

	d.logger.Info("analyzing resume",
		zap.String("file", doc.Name),
		zap.Int("size", len(doc.Data)),
		zap.Bool("match", match),
	)

	result, err := runAnalysis(ctx, d, ai.AnalysisRequest{Document: doc, JobDescription: jobDescription}, match)
	exitOnError(d.logger, err)

	fmt.Println(render.Analysis(result, dashboardWidth))
}

// runAnalysis drives an analysis controller to completion.
func runAnalysis(ctx context.Context, d *deps, req ai.AnalysisRequest, match bool) (*ai.AnalysisResult, error) {
	controller := session.NewAnalysis(d.gateway, d.logger)
	if match {
		controller = session.NewMatch(d.gateway, d.logger)
	}
	defer controller.Close()

	if err := controller.Submit(ctx, req); err != nil {
		return nil, err
	}

	return controller.State().Result, nil
}
