package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sandevgo/simdrive/internal/service/script"
	"github.com/sandevgo/simdrive/pkg/log"
	"github.com/spf13/cobra"
)

var scriptCmd = &cobra.Command{
	Use:   "script <file>",
	Short: "Run a file of console commands in order",
	Long: `Runs every line of the file as a console command and stops at the first
failure. "#" starts a comment, a leading "-" tolerates a non-zero status,
and @recompile <file>, @recompile-local <file> and @rerun call the build
helpers.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		steps, err := script.Parse(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		return runWithConsole(cmd, func(ctx context.Context, s *session) error {
			if err := script.NewDriver(s.runner, s.bench).Run(ctx, steps); err != nil {
				return err
			}
			log.FromCtx(ctx).Info().Int("steps", len(steps)).Msg("script finished")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(scriptCmd)
}
