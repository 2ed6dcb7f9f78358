package main

import (
	"context"

	"github.com/sandevgo/simdrive/internal/service/bench"
	"github.com/spf13/cobra"
)

var local bool

var recompileCmd = &cobra.Command{
	Use:   "recompile <file>",
	Short: "Compile a benchmark on the simulated machine (or locally with --local)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if local {
			return runLocal(cmd, func(ctx context.Context, cfgs configs) error {
				// The local path never touches the console.
				return bench.NewBench(nil, cfgs.toolchain).RecompileLocal(ctx, args[0])
			})
		}
		return runWithConsole(cmd, func(ctx context.Context, s *session) error {
			return s.bench.Recompile(ctx, args[0])
		})
	},
}

var rerunCmd = &cobra.Command{
	Use:   "rerun",
	Short: "Run the last built benchmark on the simulated machine",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithConsole(cmd, func(ctx context.Context, s *session) error {
			return s.bench.Rerun(ctx)
		})
	},
}

func init() {
	recompileCmd.Flags().BoolVar(&local, "local", false, "compile on the host with the local compiler")
	rootCmd.AddCommand(recompileCmd)
	rootCmd.AddCommand(rerunCmd)
}
