package main

import (
	"fmt"

	"github.com/sandevgo/lingbot/internal/config"
	"github.com/sandevgo/lingbot/pkg/env"
	"github.com/spf13/cobra"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Print the effective configuration as .env content",
	Long:  `Resolves the configuration from the environment and prints it in .env format, ready to be saved to the runtime directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			return err
		}

		appCfg := config.NewAppConfig(ctx)
		nluCfg := config.NewNLUConfig(ctx)

		for _, c := range []any{appCfg, nluCfg} {
			out, err := env.MarshalEnv(c)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(envCmd)
}
