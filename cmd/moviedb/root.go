package main

import (
	"github.com/spf13/cobra"
)

const defaultConfigPath = "~/.config/moviedb/config.yaml"

func newRootCommand() (*cobra.Command, *commandContext) {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "moviedb",
		Short:         "Browse movies, search the catalog and keep a watchlist",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			_, err := ctx.ensureLogger()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path (.yaml or .toml)")

	rootCmd.AddCommand(newHomeCommand(ctx))
	rootCmd.AddCommand(newSearchCommand(ctx))
	rootCmd.AddCommand(newDetailsCommand(ctx))
	rootCmd.AddCommand(newTrailerCommand(ctx))
	rootCmd.AddCommand(newWatchlistCommand(ctx))

	return rootCmd, ctx
}
