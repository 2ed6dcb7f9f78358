package script

import (
	"context"
	"strings"
	"testing"

	"github.com/sandevgo/simdrive/internal/config"
	"github.com/sandevgo/simdrive/internal/console"
	"github.com/sandevgo/simdrive/internal/service/bench"
	"github.com/sandevgo/simdrive/internal/service/runner"
	"github.com/sandevgo/simdrive/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	src := `# boot checks
uname -a

- grep -q ready /var/log/boot.log
@recompile loop.cpp
  @recompile-local   loop.cpp
@rerun
`
	steps, err := Parse(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, []Step{
		{Line: 2, Kind: KindCommand, Text: "uname -a"},
		{Line: 4, Kind: KindCommand, Text: "grep -q ready /var/log/boot.log", NoFail: true},
		{Line: 5, Kind: KindRecompile, Text: "loop.cpp"},
		{Line: 6, Kind: KindRecompileLocal, Text: "loop.cpp"},
		{Line: 7, Kind: KindRerun},
	}, steps)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{name: "unknown directive", src: "ls\n@reboot\n", wantErr: "line 2: unknown directive @reboot"},
		{name: "recompile without file", src: "@recompile", wantErr: "takes one source file"},
		{name: "rerun with args", src: "@rerun now", wantErr: "takes no arguments"},
		{name: "bare at", src: "@", wantErr: "empty directive"},
		{name: "bare dash", src: "-", wantErr: "empty command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "recompile-local", KindRecompileLocal.String())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}

type fakeBench struct {
	calls []string
	err   error
}

func (b *fakeBench) Recompile(ctx context.Context, file string) error {
	b.calls = append(b.calls, "recompile "+file)
	return b.err
}

func (b *fakeBench) RecompileLocal(ctx context.Context, file string) error {
	b.calls = append(b.calls, "recompile-local "+file)
	return b.err
}

func (b *fakeBench) Rerun(ctx context.Context) error {
	b.calls = append(b.calls, "rerun")
	return b.err
}

func TestDriver_Run(t *testing.T) {
	shell, conn := test.NewFakeShell(t, func(cmd string) (string, int) {
		if strings.HasPrefix(cmd, "grep") {
			return "", 1
		}
		return "", 0
	})
	b := &fakeBench{}
	d := NewDriver(runner.New(console.NewStream(conn)), b)

	steps := []Step{
		{Line: 1, Kind: KindCommand, Text: "mount -t proc proc /proc"},
		{Line: 2, Kind: KindCommand, Text: "grep -q x /proc/cpuinfo", NoFail: true},
		{Line: 3, Kind: KindRecompileLocal, Text: "loop.cpp"},
		{Line: 4, Kind: KindRerun},
	}
	require.NoError(t, d.Run(context.Background(), steps))

	assert.Equal(t, []string{"mount -t proc proc /proc", "grep -q x /proc/cpuinfo"}, shell.Commands())
	assert.Equal(t, []string{"recompile-local loop.cpp", "rerun"}, b.calls)
}

func TestDriver_StopsAtFirstFailure(t *testing.T) {
	shell, conn := test.NewFakeShell(t, func(cmd string) (string, int) {
		if cmd == "false" {
			return "", 1
		}
		return "", 0
	})
	r := runner.New(console.NewStream(conn))
	d := NewDriver(r, bench.NewBench(r, config.DefaultToolchainConfig()))

	steps, err := Parse(strings.NewReader("true\nfalse\n@rerun\n"))
	require.NoError(t, err)

	err = d.Run(context.Background(), steps)
	var cmdErr *runner.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Contains(t, err.Error(), "line 2")
	assert.Equal(t, []string{"true", "false"}, shell.Commands())
}
