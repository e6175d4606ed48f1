package main

import (
	"github.com/spf13/cobra"

	"supportbot/internal/helper"
	"supportbot/internal/models"
)

func newAskCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a single question and print the cited sources",
		Example: `  supportbot ask "How do I reset my password?"
  supportbot ask --json "Which plans include SSO?"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			chain, _, err := buildChain(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			_, turn, err := chain.Ask(cmd.Context(), models.Conversation{}, args[0])
			if err != nil {
				return err
			}
			if asJSON {
				helper.PrettyPrint(cmd.OutOrStdout(), turn)
				return nil
			}
			printTurn(cmd.OutOrStdout(), turn)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the answer as JSON")
	return cmd
}
