// Package runner executes shell commands on a simulated machine's console and
// enforces their exit status.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/sandevgo/simdrive/internal/core"
	"github.com/sandevgo/simdrive/internal/service/ui"
	"github.com/sandevgo/simdrive/pkg/log"
)

const (
	// PromptPattern marks a shell waiting for input.
	PromptPattern = "$ "
	// StatusProbe prints the exit status of the previous command.
	StatusProbe = "echo $?\n"

	// Commands of exactly this many bytes lose their return value on the
	// console channel unless padded with one space.
	quirkLength = 62

	// TerminateExitCode is the process exit code of a hard exit.
	TerminateExitCode = 2
)

type Runner struct {
	console       core.Console
	exitOnFailure bool
	exit          func(code int)
	diag          io.Writer
}

type Option func(*Runner)

// WithExitOnFailure makes a failing command end the process with
// TerminateExitCode instead of returning a CommandError.
func WithExitOnFailure(exit bool) Option {
	return func(r *Runner) {
		r.exitOnFailure = exit
	}
}

// WithExitFunc replaces os.Exit for the hard exit.
func WithExitFunc(fn func(code int)) Option {
	return func(r *Runner) {
		r.exit = fn
	}
}

// WithDiagnostics sets where the hard exit message goes. Defaults to stderr.
func WithDiagnostics(w io.Writer) Option {
	return func(r *Runner) {
		r.diag = w
	}
}

func New(console core.Console, opts ...Option) *Runner {
	r := &Runner{
		console: console,
		exit:    os.Exit,
		diag:    os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewFromConfig builds a Runner honouring the process-wide exit flag.
func NewFromConfig(console core.Console, cfg core.RunnerConfig, opts ...Option) *Runner {
	return New(console, append([]Option{WithExitOnFailure(cfg.ExitOnFailure())}, opts...)...)
}

// PadCommand applies the console length workaround.
func PadCommand(cmd string) string {
	if len(cmd) == quirkLength {
		return cmd + " "
	}
	return cmd
}

// Run sends cmd to the console, waits for the prompt and checks the exit
// status. The status is returned whenever it could be read, also together
// with a *CommandError. Steps run strictly one after another and block
// until the prompt shows up.
func (r *Runner) Run(ctx context.Context, cmd string, noFail bool) (int, error) {
	cmd = PadCommand(cmd)

	logger := log.FromCtx(ctx).With().
		Str("run_id", uuid.NewString()).
		Str("command", cmd).
		Logger()
	logger.Debug().Bool("no_fail", noFail).Msg("sending console command")

	if err := r.console.Input(ctx, cmd+"\n"); err != nil {
		return 0, fmt.Errorf("send command: %w", err)
	}
	if err := r.console.WaitFor(ctx, PromptPattern); err != nil {
		return 0, fmt.Errorf("wait for command prompt: %w", err)
	}

	if err := r.console.RecordStart(ctx); err != nil {
		return 0, fmt.Errorf("start recording: %w", err)
	}
	if err := r.console.Input(ctx, StatusProbe); err != nil {
		_, _ = r.console.RecordStop(ctx)
		return 0, fmt.Errorf("send status probe: %w", err)
	}
	if err := r.console.WaitFor(ctx, PromptPattern); err != nil {
		_, _ = r.console.RecordStop(ctx)
		return 0, fmt.Errorf("wait for status prompt: %w", err)
	}
	captured, err := r.console.RecordStop(ctx)
	if err != nil {
		return 0, fmt.Errorf("stop recording: %w", err)
	}

	status, err := ParseStatus(captured)
	if err != nil {
		logger.Error().Err(err).Msg("cannot read exit status")
		return 0, err
	}
	logger.Debug().Int("status", status).Msg("console command finished")

	if status == 0 || noFail {
		return status, nil
	}

	cmdErr := &CommandError{Command: cmd, Status: status}
	if r.exitOnFailure {
		logger.Error().Int("status", status).Msg("console command failed, terminating")
		fmt.Fprintln(r.diag, ui.FailureStyle.Render(fmt.Sprintf(
			"Console command %q returned code %d.\nTerminating simulation (due exit=1).", cmd, status)))
		r.exit(TerminateExitCode)
	}
	return status, cmdErr
}
