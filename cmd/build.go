package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-ai/internal/ai"
	"github.com/spigell/resume-ai/internal/render"
	"github.com/spigell/resume-ai/internal/session"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate a structured resume from free-text notes",
	Run: func(cmd *cobra.Command, _ []string) {
		build(cmd)
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().String("name", "", "full name")
	buildCmd.Flags().String("role", "", "target role")
	buildCmd.Flags().String("experience", "", "raw experience notes")
	buildCmd.Flags().String("skills", "", "raw skills notes")
	buildCmd.Flags().String("education", "", "raw education notes")
	buildCmd.Flags().String("markdown", "", "write the resume as markdown to this file or directory")
	buildCmd.Flags().Bool("plain", false, "print the plain text layout instead of the terminal view")
}

func build(cmd *cobra.Command) {
	ctx := context.Background()
	d := bootstrap(ctx)

	flags := cmd.Flags()
	name, _ := flags.GetString("name")
	role, _ := flags.GetString("role")
	experience, _ := flags.GetString("experience")
	skills, _ := flags.GetString("skills")
	education, _ := flags.GetString("education")

	builder := session.NewBuilder(d.gateway, d.logger)
	defer builder.Close()

	err := builder.Submit(ctx, ai.ResumeBuilderInput{
		FullName:   name,
		TargetRole: role,
		Experience: experience,
		Skills:     skills,
		Education:  education,
	})
	exitOnError(d.logger, err)

	resume := builder.State().Result

	if plain, _ := flags.GetBool("plain"); plain {
		fmt.Println(render.PlainText(resume))
	} else {
		fmt.Println(render.Resume(resume))
	}

	out, _ := flags.GetString("markdown")
	if out == "" {
		return
	}

	if info, err := os.Stat(out); err == nil && info.IsDir() {
		out = filepath.Join(out, render.ExportFileName(resume.FullName))
	}

	if err := os.WriteFile(out, []byte(render.Markdown(resume)), 0o644); err != nil {
		exitOnError(d.logger, fmt.Errorf("writing markdown resume: %w", err))
	}

	d.logger.Info("resume exported", zap.String("filename", out))
}
