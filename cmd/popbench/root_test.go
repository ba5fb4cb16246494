package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/clausecker/popcount"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// quick iteration counts so a run takes milliseconds
var quick = []string{"--iters-naive=1", "--iters-kernel=1", "--iters-fast=1"}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, log bytes.Buffer
	cmd := NewRootCommand(&out, &log)
	cmd.SetArgs(args)
	err = cmd.Execute()

	return out.String(), log.String(), err
}

func TestRootCommand(t *testing.T) {
	stdout, stderr, err := execute(t, append([]string{"1", "--threads=2"}, quick...)...)
	require.NoError(t, err, stderr)

	require.Contains(t, stdout, "Using 1 megs of data (1.0 MiB). threads: 2")
	require.Contains(t, stdout, "Generating random input... done.")
	require.Contains(t, stdout, "Naive implementation (")
	require.Contains(t, stdout, "Brian Kernighan's method (serial)")
	require.Contains(t, stdout, "Optimized hyperthread (parallel)")
	require.Contains(t, stderr, "timed strategy")

	// the thread override only lasts for the run
	require.Equal(t, runtime.GOMAXPROCS(0), popcount.Threads())
}

func TestKernelsFlag(t *testing.T) {
	stdout, _, err := execute(t, append([]string{"1", "--threads=1", "-k", "popcnt,asm"}, quick...)...)
	require.NoError(t, err)

	require.Contains(t, stdout, "Intrinsic implementation (serial)")
	require.Contains(t, stdout, "ASM implementation (serial)")
	require.NotContains(t, stdout, "Sideways")
	require.NotContains(t, stdout, "(parallel)")
}

func TestEnvironment(t *testing.T) {
	t.Setenv("POPBENCH_MEGS", "1")
	t.Setenv("POPBENCH_THREADS", "1")
	t.Setenv("POPBENCH_KERNELS", "sideways")
	t.Setenv("POPBENCH_LOG_LEVEL", "warn")

	stdout, stderr, err := execute(t, quick...)
	require.NoError(t, err)

	require.Contains(t, stdout, "Using 1 megs of data")
	require.Contains(t, stdout, "Sideways Addition (serial)")
	require.NotContains(t, stdout, "Intrinsic")
	require.NotContains(t, stderr, "timed strategy")
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"megs": 1, "threads": 1, "kernels": ["popcnt2"], "iters-fast": 1, "iters-naive": 1}`), 0o644))

	stdout, _, err := execute(t, "--config", good)
	require.NoError(t, err)
	require.Contains(t, stdout, "Intrinsic implementation double (serial)")
	require.Equal(t, 2, strings.Count(stdout, "seconds per iteration"))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"megabytes": 1}`), 0o644))

	_, _, err = execute(t, "--config", bad)
	require.True(t, Error.Has(err))

	_, _, err = execute(t, "--config", filepath.Join(dir, "missing.json"))
	require.True(t, Error.Has(err))
}

func TestErrors(t *testing.T) {
	_, _, err := execute(t, "0")
	require.True(t, Error.Has(err))

	_, _, err = execute(t, "lots")
	require.True(t, Error.Has(err))

	_, _, err = execute(t, "1", "--log-level=loud")
	require.True(t, Error.Has(err))

	_, _, err = execute(t, "1", "--threads=-2")
	require.True(t, popcount.ConfigError.Has(err))

	_, _, err = execute(t, "1", "--kernels=bogus")
	require.True(t, popcount.SelectorError.Has(err))

	_, _, err = execute(t, "1", "2")
	require.Error(t, err)
}
