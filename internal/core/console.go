package core

import "context"

// Console is an interactive text console of a simulated machine.
type Console interface {
	// Input writes text to the console input stream as is.
	Input(ctx context.Context, text string) error
	// WaitFor blocks until pattern appears in console output that no
	// earlier WaitFor has consumed.
	WaitFor(ctx context.Context, pattern string) error
	RecordStart(ctx context.Context) error
	RecordStop(ctx context.Context) (string, error)
}
