package runner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// ParseStatus extracts the exit status from the text recorded around the
// status probe. The last line is the fresh prompt, the one before it holds
// the status digits.
func ParseStatus(captured string) (int, error) {
	lines := splitLines(ansi.Strip(captured))
	if len(lines) < 2 {
		return 0, fmt.Errorf("%w: want at least 2 lines, got %d in %q", ErrMalformedOutput, len(lines), captured)
	}

	line := strings.TrimSpace(lines[len(lines)-2])
	status, err := strconv.Atoi(line)
	if err != nil {
		return 0, fmt.Errorf("%w: status line %q is not an integer", ErrMalformedOutput, line)
	}
	return status, nil
}

// splitLines breaks s at "\n", "\r\n" and bare "\r". A terminator at the very
// end does not open another line.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
