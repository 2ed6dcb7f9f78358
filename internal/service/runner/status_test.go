package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name     string
		captured string
		want     int
	}{
		{name: "zero", captured: "echo $?\r\n0\r\n$ ", want: 0},
		{name: "non zero", captured: "echo $?\r\n127\r\n$ ", want: 127},
		{name: "bare newlines", captured: "echo $?\n1\n$ ", want: 1},
		{name: "bare carriage returns", captured: "echo $?\r3\r$ ", want: 3},
		{name: "colored prompt", captured: "echo $?\r\n0\r\n\x1b[01;32mroot@sim\x1b[00m:~$ ", want: 0},
		{name: "colored digits", captured: "echo $?\r\n\x1b[1;31m1\x1b[0m\r\n$ ", want: 1},
		{name: "padded digits", captured: "echo $?\r\n  2 \r\n$ ", want: 2},
		{name: "two lines only", captured: "5\n$ ", want: 5},
		{name: "trailing newline after prompt", captured: "echo $?\n4\n$ \n", want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStatus(tt.captured)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStatus_StripIsTransparent(t *testing.T) {
	plain := "echo $?\r\n1\r\nroot@sim:~$ "
	colored := "echo $?\r\n\x1b[0m\x1b[33m1\x1b[0m\r\n\x1b[01;32mroot@sim\x1b[00m:~$ "

	a, err := ParseStatus(plain)
	require.NoError(t, err)
	b, err := ParseStatus(colored)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestParseStatus_Malformed(t *testing.T) {
	tests := []struct {
		name     string
		captured string
	}{
		{name: "empty", captured: ""},
		{name: "single line", captured: "$ "},
		{name: "only escape codes", captured: "\x1b[0m"},
		{name: "not a number", captured: "echo $?\r\nbash: echo: write error\r\n$ "},
		{name: "empty status line", captured: "echo $?\r\n\r\n$ "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStatus(tt.captured)
			require.ErrorIs(t, err, ErrMalformedOutput)

			var cmdErr *CommandError
			assert.NotErrorAs(t, err, &cmdErr)
		})
	}
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, splitLines(""))
	assert.Equal(t, []string{"a"}, splitLines("a\n"))
	assert.Equal(t, []string{"a", "", "b"}, splitLines("a\r\n\r\nb"))
	assert.Equal(t, []string{"a", "b"}, splitLines("a\rb"))
}
