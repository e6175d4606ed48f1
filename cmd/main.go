package main

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"supportbot/internal/config"
)

const (
	version           = "0.1.0"
	defaultConfigPath = "./configs/config.yaml"
)

type rootOptions struct {
	configPath string
	debug      bool
}

func main() {
	root := newRootCmd()

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "supportbot",
		Short: "Documentation support chatbot and cover generator",
		Long: `supportbot answers questions about the PDF documents in a data directory,
citing the passages it used, and can generate an AI variant of an album cover.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			setupLogger(opts.debug)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", defaultConfigPath, "Path to the YAML config file")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(
		newCoverCmd(opts),
		newChatCmd(opts),
		newAskCmd(opts),
		newServeCmd(opts),
	)
	return cmd
}

func setupLogger(debug bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Caller().Logger()
}

func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Debug && !opts.debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Debug().Str("path", opts.configPath).Interface("rag", cfg.RAG).Msg("Loaded config")
	return cfg, nil
}
