package core

import "context"

type CommandRunner interface {
	// Run executes one shell command line on the console and returns its
	// exit status. With noFail set, a non-zero status is not an error.
	Run(ctx context.Context, cmd string, noFail bool) (int, error)
}

type Bench interface {
	Recompile(ctx context.Context, file string) error
	RecompileLocal(ctx context.Context, file string) error
	Rerun(ctx context.Context) error
}
