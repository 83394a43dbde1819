package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-ai/internal/ai"
	"github.com/spigell/resume-ai/internal/ai/gemini"
	"github.com/spigell/resume-ai/internal/logger"
	"github.com/spigell/resume-ai/internal/render"
	"github.com/spigell/resume-ai/internal/secrets"
)

// deps is what every workflow command needs.
type deps struct {
	logger  *zap.Logger
	config  *Config
	gateway *gemini.Gateway
}

func newLogger() *zap.Logger {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return logger
}

// bootstrap builds the logger, reads the config and constructs the gateway.
// Failures end the process.
func bootstrap(ctx context.Context) *deps {
	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Debug("starting the "+app, zap.String("version", version))

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: config.AI.APIKey,
		File:  config.AI.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		logger.Debug("loading gemini api key", zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY, GEMINI_API_KEY_FILE or ai.api-key-file in the configuration file"),
		)
		exitOnError(logger, gemini.Classify(fmt.Errorf("%w: %w", ai.ErrMissingCredential, err)))
	}

	gateway, err := gemini.NewGateway(ctx, gatewayConfig(config.AI, apiKey), logger)
	exitOnError(logger, err)

	return &deps{logger: logger, config: config, gateway: gateway}
}

// gatewayConfig overlays the configured values on the built-in defaults.
func gatewayConfig(cfg *AIConfig, apiKey string) gemini.Config {
	out := gemini.DefaultConfig()
	out.APIKey = apiKey

	if cfg == nil {
		return out
	}
	if cfg.MaxLogLength > 0 {
		out.MaxLogLength = cfg.MaxLogLength
	}
	if cfg.ChatSystemInstruction != "" {
		out.SystemInstruction = cfg.ChatSystemInstruction
	}

	overlay(&out.Analysis, cfg.Analysis)
	overlay(&out.Resume, cfg.Resume)
	overlay(&out.Chat, cfg.Chat)
	overlay(&out.Search, cfg.Search)

	return out
}

func overlay(dst *gemini.CallConfig, src *CallConfig) {
	if src == nil {
		return
	}
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.Temperature != nil {
		t := *src.Temperature
		dst.Temperature = &t
	}
}

// exitOnError shows the user-facing message and exits. Raw causes go to the
// debug log only.
func exitOnError(logger *zap.Logger, err error) {
	if err == nil {
		return
	}

	if classified, ok := ai.AsError(err); ok {
		logger.Debug("command failed", zap.String("kind", classified.Kind.String()), zap.String("error", classified.Detail()))
	} else {
		logger.Debug("command failed", zap.Error(err))
	}

	fmt.Fprintln(os.Stderr, render.Failure(err))
	logger.Sync()
	os.Exit(1)
}
