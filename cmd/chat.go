package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-ai/internal/ai"
	"github.com/spigell/resume-ai/internal/render"
	"github.com/spigell/resume-ai/internal/session"
)

const (
	chatReset = "/reset"
	chatExit  = "/exit"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the career assistant (/reset starts over, /exit leaves)",
	Run: func(_ *cobra.Command, _ []string) {
		chat()
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func chat() {
	ctx := context.Background()
	d := bootstrap(ctx)

	conversation := session.NewChat(d.gateway, d.gateway.SystemInstruction(), d.logger)
	defer conversation.Close()

	printAssistant(conversation.Messages())

	input := promptui.Prompt{Label: "You"}
	for {
		text, err := input.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return
			}
			exitOnError(d.logger, fmt.Errorf("reading chat input: %w", err))
		}

		switch strings.TrimSpace(text) {
		case chatExit:
			return
		case chatReset:
			if err := conversation.ResetSession(ctx); err != nil {
				fmt.Println(render.Failure(err))
			}
			printAssistant(conversation.Messages())
			continue
		}

		printed := 0
		err = conversation.SendTurn(ctx, text, func(msg ai.ChatMessage) {
			fmt.Print(msg.Text[printed:])
			printed = len(msg.Text)
		})

		var classified *ai.Error
		switch {
		case err == nil:
			fmt.Println()
		case errors.As(err, &classified) && classified.Kind == ai.KindValidation:
			fmt.Println(render.Failure(err))
		case err != nil:
			// the failed reply already carries the fallback notice
			messages := conversation.Messages()
			last := messages[len(messages)-1]
			fmt.Println(last.Text[printed:])
			d.logger.Debug("chat turn failed", zap.Error(err))
		}
	}
}

func printAssistant(messages []ai.ChatMessage) {
	for _, msg := range messages {
		if msg.Role == ai.RoleAssistant {
			fmt.Println(msg.Text)
		}
	}
}
