package runner

import (
	"errors"
	"fmt"
)

// ErrMalformedOutput means the status probe output held no parsable exit
// status.
var ErrMalformedOutput = errors.New("malformed status output")

// CommandError is returned when a console command exits non-zero and the
// caller did not ask to tolerate it.
type CommandError struct {
	Command string
	Status  int
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("console command %q returned code %d", e.Command, e.Status)
}
