package bench

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/sandevgo/simdrive/internal/config"
	"github.com/sandevgo/simdrive/internal/console"
	"github.com/sandevgo/simdrive/internal/service/runner"
	"github.com/sandevgo/simdrive/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	cmd    string
	noFail bool
}

type fakeRunner struct {
	calls  []call
	status int
	err    error
}

func (r *fakeRunner) Run(ctx context.Context, cmd string, noFail bool) (int, error) {
	r.calls = append(r.calls, call{cmd: cmd, noFail: noFail})
	return r.status, r.err
}

func TestBench_Recompile(t *testing.T) {
	r := &fakeRunner{}
	b := NewBench(r, config.DefaultToolchainConfig())

	require.NoError(t, b.Recompile(context.Background(), "loop.cpp"))

	assert.Equal(t, []call{{
		cmd: "g++ -g -gdwarf -Werror -ldl -lm -lpthread -pthread -Iinclude -o a.out loop.cpp",
	}}, r.calls)
}

func TestBench_Rerun(t *testing.T) {
	r := &fakeRunner{}
	b := NewBench(r, config.DefaultToolchainConfig())

	require.NoError(t, b.Rerun(context.Background()))

	assert.Equal(t, []call{{cmd: "CC_ENABLED=1 ./a.out"}}, r.calls)
}

func TestBench_RerunWithoutEnv(t *testing.T) {
	cfg := config.DefaultToolchainConfig()
	cfg.RunEnv = ""
	cfg.Binary = "bench"

	assert.Equal(t, "./bench", NewBench(&fakeRunner{}, cfg).RerunCommand())
}

func TestBench_PropagatesRunnerErrors(t *testing.T) {
	cmdErr := &runner.CommandError{Command: "g++", Status: 1}
	r := &fakeRunner{status: 1, err: cmdErr}
	b := NewBench(r, config.DefaultToolchainConfig())

	assert.ErrorIs(t, b.Recompile(context.Background(), "x.cpp"), cmdErr)
	assert.ErrorIs(t, b.Rerun(context.Background()), cmdErr)
}

func TestBench_RecompileOverConsole(t *testing.T) {
	shell, conn := test.NewFakeShell(t, func(cmd string) (string, int) {
		if strings.HasPrefix(cmd, "g++") {
			return "broken.cpp:1:1: error: expected unqualified-id", 1
		}
		return "", 0
	})
	b := NewBench(runner.New(console.NewStream(conn)), config.DefaultToolchainConfig())
	ctx := context.Background()

	err := b.Recompile(ctx, "broken.cpp")
	var cmdErr *runner.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 1, cmdErr.Status)

	require.NoError(t, b.Rerun(ctx))
	assert.Equal(t, []string{
		"g++ -g -gdwarf -Werror -ldl -lm -lpthread -pthread -Iinclude -o a.out broken.cpp",
		"CC_ENABLED=1 ./a.out",
	}, shell.Commands())
}

// fakeCompiler writes a script that records its arguments and working
// directory, then exits with status.
func fakeCompiler(t *testing.T, status string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script compiler needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fakecc")
	script := "#!/bin/sh\necho \"$@\" > invocation.txt\npwd >> invocation.txt\nexit " + status + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestBench_RecompileLocal(t *testing.T) {
	work := t.TempDir()
	t.Chdir(work)

	cfg := config.DefaultToolchainConfig()
	cfg.LocalCompiler = fakeCompiler(t, "0")
	b := NewBench(&fakeRunner{}, cfg)

	require.NoError(t, b.RecompileLocal(context.Background(), "loop.cpp"))

	out, err := os.ReadFile(filepath.Join(work, "invocation.txt"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "microbenchmarks/loop.cpp -o a.out", lines[0])

	wantDir, err := filepath.EvalSymlinks(work)
	require.NoError(t, err)
	gotDir, err := filepath.EvalSymlinks(lines[1])
	require.NoError(t, err)
	assert.Equal(t, wantDir, gotDir)
}

func TestBench_RecompileLocal_IgnoresExitStatus(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg := config.DefaultToolchainConfig()
	cfg.LocalCompiler = fakeCompiler(t, "1")
	r := &fakeRunner{}

	assert.NoError(t, NewBench(r, cfg).RecompileLocal(context.Background(), "broken.cpp"))
	assert.Empty(t, r.calls, "local builds never touch the console")
}

func TestBench_RecompileLocal_MissingCompiler(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg := config.DefaultToolchainConfig()
	cfg.LocalCompiler = "simdrive-no-such-compiler"
	b := NewBench(&fakeRunner{}, cfg)
	b.stderr = &bytes.Buffer{}

	err := b.RecompileLocal(context.Background(), "loop.cpp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "simdrive-no-such-compiler")
	assert.False(t, errors.Is(err, context.Canceled))
}
