package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sandevgo/simdrive/internal/service/runner"
	"github.com/sandevgo/simdrive/internal/service/ui"
	"github.com/spf13/cobra"
)

var noFail bool

var execCmd = &cobra.Command{
	Use:   "exec [--no-fail] -- <command...>",
	Short: "Run one shell command on the console",
	Long: `Sends the command line to the console, waits for the prompt and prints
the command's exit status. A non-zero status fails unless --no-fail is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithConsole(cmd, func(ctx context.Context, s *session) error {
			status, err := s.runner.Run(ctx, strings.Join(args, " "), noFail)
			if err == nil || isCommandError(err) {
				fmt.Fprintln(cmd.OutOrStdout(), ui.StatusStyle.Render(strconv.Itoa(status)))
			}
			return err
		})
	},
}

func isCommandError(err error) bool {
	var cmdErr *runner.CommandError
	return errors.As(err, &cmdErr)
}

func init() {
	execCmd.Flags().BoolVar(&noFail, "no-fail", false, "tolerate a non-zero exit status")
	rootCmd.AddCommand(execCmd)
}
