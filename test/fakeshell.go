package test

import (
	"bufio"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// ColorPrompt is a typical colored bash prompt ending in "$ ".
const ColorPrompt = "\x1b[01;32mroot@simulated\x1b[00m:\x1b[01;34m~\x1b[00m$ "

// Handler answers one command line with its output and exit status.
type Handler func(cmd string) (output string, status int)

// FakeShell plays an interactive shell on the far end of an in-memory
// connection: it echoes input, answers "echo $?" with the last status and
// prints a prompt after every line.
type FakeShell struct {
	Prompt string
	// StatusReply renders the answer to "echo $?". Defaults to the decimal
	// status followed by CRLF.
	StatusReply func(last int) string

	handler Handler

	mu       sync.Mutex
	received []string
}

// NewFakeShell starts the shell and returns the console side of the
// connection. Both ends are closed on test cleanup.
func NewFakeShell(t *testing.T, handler Handler) (*FakeShell, net.Conn) {
	t.Helper()

	fs := &FakeShell{
		Prompt:  ColorPrompt,
		handler: handler,
		StatusReply: func(last int) string {
			return strconv.Itoa(last) + "\r\n"
		},
	}

	client, server := net.Pipe()
	t.Cleanup(func() {
		_ = client.Close()
		_ = server.Close()
	})

	go fs.serve(server)
	return fs, client
}

// Received returns every line the shell got, without the trailing newline.
func (fs *FakeShell) Received() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]string(nil), fs.received...)
}

// Commands returns the received lines that were not status probes.
func (fs *FakeShell) Commands() []string {
	var cmds []string
	for _, line := range fs.Received() {
		if line != "echo $?" {
			cmds = append(cmds, line)
		}
	}
	return cmds
}

func (fs *FakeShell) serve(conn net.Conn) {
	r := bufio.NewReader(conn)
	last := 0
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSuffix(line, "\n")

		fs.mu.Lock()
		fs.received = append(fs.received, line)
		fs.mu.Unlock()

		out := line + "\r\n"
		if line == "echo $?" {
			out += fs.StatusReply(last)
		} else {
			var text string
			text, last = fs.handler(line)
			if text != "" && !strings.HasSuffix(text, "\n") {
				text += "\r\n"
			}
			out += text
		}
		out += fs.Prompt

		if _, err := io.WriteString(conn, out); err != nil {
			return
		}
	}
}

// Succeed is a Handler for which every command prints nothing and exits 0.
func Succeed(string) (string, int) {
	return "", 0
}
