package console

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/creack/pty"
	"github.com/sandevgo/simdrive/pkg/log"
)

// Prompt is the PS1 given to spawned shells, matching what the runner
// waits for.
const Prompt = "$ "

// ShellConsole is a Stream attached to a local shell running in a
// pseudo-terminal.
type ShellConsole struct {
	*Stream
	cmd  *exec.Cmd
	ptmx *os.File
}

// Spawn starts shell in a pseudo-terminal with a plain "$ " prompt and waits
// for the first prompt before returning.
func Spawn(ctx context.Context, shell string, opts ...Option) (*ShellConsole, error) {
	cmd := exec.Command(shell)
	cmd.Env = append(os.Environ(), "PS1="+Prompt, "TERM=dumb")

	// Wide enough that long command lines are not wrapped by line editing.
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: 50, Cols: 250})
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", shell, err)
	}

	sc := &ShellConsole{cmd: cmd, ptmx: ptmx}
	sc.Stream = NewStream(ptmx, append(opts, WithCloser(closerFunc(sc.hangup)))...)

	if err := sc.WaitFor(ctx, Prompt); err != nil {
		_ = sc.Close()
		return nil, fmt.Errorf("wait for first prompt: %w", err)
	}

	log.FromCtx(ctx).Debug().Str("shell", shell).Int("pid", cmd.Process.Pid).Msg("console shell started")
	return sc, nil
}

// hangup closes the terminal and reaps the shell. Reached through
// Stream.Close, which runs it once.
func (sc *ShellConsole) hangup() error {
	closeErr := sc.ptmx.Close()
	if sc.cmd.Process != nil {
		_ = sc.cmd.Process.Kill()
	}
	waitErr := sc.cmd.Wait()

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		waitErr = nil
	}
	return errors.Join(closeErr, waitErr)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
