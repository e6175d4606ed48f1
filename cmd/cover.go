package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"supportbot/internal/cover"
	"supportbot/internal/diffusion"
	"supportbot/internal/models"
)

func newCoverCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cover",
		Short: "Generate an AI variant of resources/original.jpg and a Markdown report",
		Long: `Reads resources/original.jpg, runs a fixed text-to-image prompt on a
self-hosted stable-diffusion-webui backend and writes the copied original,
the generated image, a parameter summary image and report.md to output/.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			device, err := diffusion.ParseDevice(cfg.Cover.Device)
			if err != nil {
				return err
			}

			webui := diffusion.NewWebUI(cfg.Cover.BackendURL)
			g := &cover.Generator{
				ResourcesDir:  cfg.Cover.ResourcesDir,
				OutputDir:     cfg.Cover.OutputDir,
				Prompt:        models.DefaultCoverPrompt,
				Steps:         models.DefaultCoverSteps,
				GuidanceScale: models.DefaultCoverGuidance,
				Device:        device,
				Prober:        webui,
				NewBackend: func(d diffusion.Device) (diffusion.Backend, error) {
					log.Info().Str("url", cfg.Cover.BackendURL).Str("device", string(d)).Msg("Using stable-diffusion-webui backend")
					return webui, nil
				},
			}

			res, err := g.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", res.ReportPath)
			return nil
		},
	}
}
