package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"supportbot/internal/helper"
	"supportbot/internal/server"
	"supportbot/internal/ticket"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web interface of the support chatbot",
		Long: `Builds the knowledge index from the data directory once, then serves a
page with a question field, the session history and a ticket button for
answers the bot was not sure about.`,
		Example: `  # Start server on the configured address
  supportbot serve

  # Start server on a custom address
  supportbot serve --addr :3000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			chain, index, err := buildChain(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			srv := server.NewServer(addr, chain, ticket.Stdout(), index.Sources(), helper.GenerateUUID)

			serverErr := make(chan error, 1)
			go func() {
				serverErr <- srv.Start()
			}()

			select {
			case <-cmd.Context().Done():
				log.Info().Msg("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Stop(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("Server shutdown failed")
					return err
				}
				log.Info().Msg("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (defaults to server.addr)")
	return cmd
}
