// Package bench builds and reruns the microbenchmark binary.
package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/sandevgo/simdrive/internal/core"
	"github.com/sandevgo/simdrive/pkg/log"
)

type Bench struct {
	runner core.CommandRunner
	cfg    core.ToolchainConfig

	stdout io.Writer
	stderr io.Writer
}

func NewBench(runner core.CommandRunner, cfg core.ToolchainConfig) *Bench {
	return &Bench{
		runner: runner,
		cfg:    cfg,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// RecompileCommand is the console command line compiling file on the
// simulated machine.
func (b *Bench) RecompileCommand(file string) string {
	parts := []string{b.cfg.GetCompiler()}
	parts = append(parts, b.cfg.GetFlags()...)
	parts = append(parts, "-o", b.cfg.GetBinary(), file)
	return strings.Join(parts, " ")
}

// RerunCommand is the console command line running the last build.
func (b *Bench) RerunCommand() string {
	run := "./" + b.cfg.GetBinary()
	if env := b.cfg.GetRunEnv(); env != "" {
		return env + " " + run
	}
	return run
}

// Recompile compiles file on the simulated machine. A compiler error is a
// failing console command.
func (b *Bench) Recompile(ctx context.Context, file string) error {
	_, err := b.runner.Run(ctx, b.RecompileCommand(file), false)
	return err
}

// Rerun executes the last built binary on the simulated machine.
func (b *Bench) Rerun(ctx context.Context) error {
	_, err := b.runner.Run(ctx, b.RerunCommand(), false)
	return err
}

// RecompileLocal compiles a benchmark source on the host, in the current
// working directory, and waits for the compiler. Its exit status is only
// logged: unlike the console path, a failed local build is not an error.
func (b *Bench) RecompileLocal(ctx context.Context, file string) error {
	logger := log.FromCtx(ctx)

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	src := b.cfg.GetBenchSource(file)
	cmd := exec.CommandContext(ctx, b.cfg.GetLocalCompiler(), src, "-o", b.cfg.GetBinary())
	cmd.Dir = wd
	cmd.Stdout = b.stdout
	cmd.Stderr = b.stderr

	logger.Debug().Str("compiler", b.cfg.GetLocalCompiler()).Str("source", src).Msg("compiling locally")

	err = cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		logger.Warn().Int("status", exitErr.ExitCode()).Str("source", src).Msg("local compiler exited non-zero")
		return nil
	}
	if err != nil {
		return fmt.Errorf("run %s: %w", b.cfg.GetLocalCompiler(), err)
	}
	return nil
}
