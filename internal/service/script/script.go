// Package script runs a file of console commands one after another.
//
// Each non-blank line is a shell command for the console. Lines starting
// with "#" are comments. A leading "-" tolerates a non-zero exit status.
// Lines starting with "@" call the build helpers:
//
//	@recompile <file>
//	@recompile-local <file>
//	@rerun
package script

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sandevgo/simdrive/internal/core"
	"github.com/sandevgo/simdrive/pkg/log"
)

type Kind int

const (
	KindCommand Kind = iota
	KindRecompile
	KindRecompileLocal
	KindRerun
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindRecompile:
		return "recompile"
	case KindRecompileLocal:
		return "recompile-local"
	case KindRerun:
		return "rerun"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

type Step struct {
	Line   int
	Kind   Kind
	Text   string // command line or source file
	NoFail bool
}

func Parse(r io.Reader) ([]Step, error) {
	var steps []Step
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		step, err := parseLine(n, line)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return steps, nil
}

func parseLine(n int, line string) (Step, error) {
	if !strings.HasPrefix(line, "@") {
		step := Step{Line: n, Kind: KindCommand, Text: line}
		if rest, ok := strings.CutPrefix(line, "-"); ok {
			step.Text = strings.TrimSpace(rest)
			step.NoFail = true
		}
		if step.Text == "" {
			return Step{}, fmt.Errorf("line %d: empty command", n)
		}
		return step, nil
	}

	fields := strings.Fields(line[1:])
	if len(fields) == 0 {
		return Step{}, fmt.Errorf("line %d: empty directive", n)
	}

	switch name, args := fields[0], fields[1:]; name {
	case "recompile", "recompile-local":
		if len(args) != 1 {
			return Step{}, fmt.Errorf("line %d: @%s takes one source file", n, name)
		}
		kind := KindRecompile
		if name == "recompile-local" {
			kind = KindRecompileLocal
		}
		return Step{Line: n, Kind: kind, Text: args[0]}, nil
	case "rerun":
		if len(args) != 0 {
			return Step{}, fmt.Errorf("line %d: @rerun takes no arguments", n)
		}
		return Step{Line: n, Kind: KindRerun}, nil
	default:
		return Step{}, fmt.Errorf("line %d: unknown directive @%s", n, name)
	}
}

type Driver struct {
	runner core.CommandRunner
	bench  core.Bench
}

func NewDriver(runner core.CommandRunner, bench core.Bench) *Driver {
	return &Driver{runner: runner, bench: bench}
}

// Run executes steps in order and stops at the first error.
func (d *Driver) Run(ctx context.Context, steps []Step) error {
	logger := log.FromCtx(ctx)
	for _, step := range steps {
		logger.Info().Int("line", step.Line).Str("kind", step.Kind.String()).Str("text", step.Text).Msg("script step")

		var err error
		switch step.Kind {
		case KindCommand:
			var status int
			status, err = d.runner.Run(ctx, step.Text, step.NoFail)
			if err == nil && status != 0 {
				logger.Warn().Int("line", step.Line).Int("status", status).Msg("tolerated non-zero status")
			}
		case KindRecompile:
			err = d.bench.Recompile(ctx, step.Text)
		case KindRecompileLocal:
			err = d.bench.RecompileLocal(ctx, step.Text)
		case KindRerun:
			err = d.bench.Rerun(ctx)
		default:
			err = fmt.Errorf("unknown step kind %v", step.Kind)
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", step.Line, err)
		}
	}
	return nil
}
