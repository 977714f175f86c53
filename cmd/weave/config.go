package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/weave/internal/config"
)

func configCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after weave.json, .env and WEAVE_*
environment variables have been applied.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(dir)
			if err != nil {
				return err
			}
			data, err := cfg.JSON()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Project directory")

	return cmd
}
