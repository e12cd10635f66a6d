package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		val, ok := vars[key]
		return val, ok
	}
}

func run(vars map[string]string, args ...string) (int, string, string) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	code := runCmdline(append([]string{"zx7"}, args...), stdout, stderr, env(vars))
	return code, stdout.String(), stderr.String()
}

func TestConvertFile(t *testing.T) {
	input := filepath.Join(t.TempDir(), "a.bin")
	require.NoError(t, os.WriteFile(input, []byte("ABCDEFGHIJ"), 0644))

	code, stdout, stderr := run(nil, input)
	require.Equal(t, 0, code)
	require.Empty(t, stderr)
	require.True(t, strings.HasPrefix(stdout, "File converted from 10 to "), stdout)

	_, err := os.Stat(input + ".zx7")
	require.NoError(t, err)
}

func TestWrongArgCount(t *testing.T) {
	for _, args := range [][]string{nil, {"a", "b"}} {
		code, _, stderr := run(nil, args...)
		require.Equal(t, 2, code)
		require.Contains(t, stderr, "expected exactly one <file>")
	}
}

func TestMissingFile(t *testing.T) {
	input := filepath.Join(t.TempDir(), "missing.bin")

	code, stdout, stderr := run(nil, input)
	require.Equal(t, 1, code)
	require.Empty(t, stdout)
	require.Equal(t, 1, strings.Count(stderr, "\n"))
	require.Contains(t, stderr, "missing.bin")

	code, _, _ = run(map[string]string{"ZX7_EXIT_CODES": "by-kind"}, input)
	require.Equal(t, 3, code)
}

func TestBadEnvironment(t *testing.T) {
	input := filepath.Join(t.TempDir(), "a.bin")
	require.NoError(t, os.WriteFile(input, []byte("ABCDEFGHIJ"), 0644))

	code, _, stderr := run(map[string]string{"ZX7_VERIFY": "perhaps"}, input)
	require.Equal(t, 2, code)
	require.Contains(t, stderr, "ZX7_VERIFY")

	_, err := os.Stat(input + ".zx7")
	require.True(t, os.IsNotExist(err))
}
