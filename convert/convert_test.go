package convert

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/andybalholm/zx7"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func testOptions(stdout, stderr io.Writer) *Options {
	log := logrus.New()
	log.Out = io.Discard
	log.Level = logrus.DebugLevel

	opts := DefaultOptions()
	opts.Logger = log
	opts.Stdout = stdout
	opts.Stderr = stderr
	return opts
}

func writeFile(t *testing.T, path string, data []byte) {
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func requireMissing(t *testing.T, path string) {
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err), "%s should not exist: %v", path, err)
}

func requireOneLine(t *testing.T, out string) {
	require.Equal(t, 1, strings.Count(out, "\n"), "want one line, got %q", out)
	require.True(t, strings.HasSuffix(out, "\n"))
}

func TestConvertSmallFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "a.bin")
	data := []byte("ABCDEFGHIJ")
	writeFile(t, input, data)

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	code := Run(input, testOptions(stdout, stderr))
	require.Equal(t, ExitSuccess, code)
	require.Empty(t, stderr.String())

	want, err := zx7.Compress(data)
	require.NoError(t, err)

	got, err := os.ReadFile(input + ".zx7")
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.Equal(t, fmt.Sprintf("File converted from 10 to %d bytes!\n", len(want)), stdout.String())

	unchanged, err := os.ReadFile(input)
	require.NoError(t, err)
	require.Equal(t, data, unchanged)
}

func TestConvertResult(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "text.bin")
	data := bytes.Repeat([]byte("refraction of light in a prism "), 200)
	writeFile(t, input, data)

	res, err := Convert(input, testOptions(io.Discard, io.Discard))
	require.NoError(t, err)
	require.Equal(t, input, res.Input)
	require.Equal(t, input+Extension, res.Output)
	require.Equal(t, len(data), res.InputSize)
	require.Equal(t, StageDone, res.Stage)

	info, err := os.Stat(res.Output)
	require.NoError(t, err)
	require.Equal(t, int64(res.OutputSize), info.Size())
	require.True(t, res.OutputSize < res.InputSize)
}

func TestConvertMissingInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "missing.bin")

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	code := Run(input, testOptions(stdout, stderr))
	require.Equal(t, ExitFailure, code)
	require.Empty(t, stdout.String())
	requireOneLine(t, stderr.String())
	require.Contains(t, stderr.String(), "Error:")
	require.Contains(t, stderr.String(), "missing.bin")
	requireMissing(t, input+".zx7")

	res, err := Convert(input, testOptions(io.Discard, io.Discard))
	require.True(t, errors.Is(err, ErrNotFound))
	require.Equal(t, StageOpenInput, res.Stage)
}

func TestConvertEmptyInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "empty.bin")
	writeFile(t, input, nil)

	stderr := &bytes.Buffer{}
	require.Equal(t, ExitFailure, Run(input, testOptions(io.Discard, stderr)))
	requireOneLine(t, stderr.String())
	requireMissing(t, input+".zx7")

	res, err := Convert(input, testOptions(io.Discard, io.Discard))
	require.True(t, errors.Is(err, ErrEmptyInput))
	require.Equal(t, StageMeasureSize, res.Stage)
	requireMissing(t, input+".zx7")
}

func TestConvertExistingOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "dup.bin")
	writeFile(t, input, []byte("some input data"))
	writeFile(t, input+".zx7", []byte("OLD"))

	stderr := &bytes.Buffer{}
	require.Equal(t, ExitFailure, Run(input, testOptions(io.Discard, stderr)))
	requireOneLine(t, stderr.String())
	require.Contains(t, stderr.String(), "dup.bin.zx7")

	res, err := Convert(input, testOptions(io.Discard, io.Discard))
	require.True(t, errors.Is(err, ErrAlreadyExists))
	require.Equal(t, StageProbeCollision, res.Stage)

	old, err := os.ReadFile(input + ".zx7")
	require.NoError(t, err)
	require.Equal(t, []byte("OLD"), old)
}

func TestConvertUnreadableExistingOutput(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("root can read any file")
	}

	dir := t.TempDir()
	input := filepath.Join(dir, "locked.bin")
	writeFile(t, input, []byte("some input data"))
	require.NoError(t, os.WriteFile(input+".zx7", []byte("OLD"), 0))

	// The probe cannot open it, but the exclusive create still refuses.
	res, err := Convert(input, testOptions(io.Discard, io.Discard))
	require.True(t, errors.Is(err, ErrAlreadyExists))
	require.Equal(t, StageCreateOutput, res.Stage)

	require.NoError(t, os.Chmod(input+".zx7", 0644))
	old, err := os.ReadFile(input + ".zx7")
	require.NoError(t, err)
	require.Equal(t, []byte("OLD"), old)
}

func TestConvertDirectory(t *testing.T) {
	dir := t.TempDir()

	_, err := Convert(dir, testOptions(io.Discard, io.Discard))
	require.True(t, errors.Is(err, ErrNotFound))
	requireMissing(t, dir+".zx7")
}

func TestConvertInputTooLarge(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "big.bin")
	writeFile(t, input, []byte("ABCDEFGHIJ"))

	opts := testOptions(io.Discard, io.Discard)
	opts.MaxInputSize = 5
	res, err := Convert(input, opts)
	require.True(t, errors.Is(err, ErrOutOfMemory))
	require.Equal(t, StageAllocate, res.Stage)
	requireMissing(t, input+".zx7")

	opts.MaxInputSize = 10
	_, err = Convert(input, opts)
	require.NoError(t, err)
}

type fakeEngine struct {
	analyzeErr error
	encodeErr  error
	artifact   []byte
}

func (f *fakeEngine) Analyze(src []byte) ([]zx7.Match, error) {
	if f.analyzeErr != nil {
		return nil, f.analyzeErr
	}
	return []zx7.Match{{Unmatched: len(src)}}, nil
}

func (f *fakeEngine) Encode(plan []zx7.Match, src []byte) ([]byte, error) {
	return f.artifact, f.encodeErr
}

func TestConvertEngineFailure(t *testing.T) {
	tcs := []struct {
		name   string
		engine *fakeEngine
		stage  Stage
	}{
		{"analyze", &fakeEngine{analyzeErr: errors.New("out of ideas")}, StageAnalyze},
		{"encode", &fakeEngine{encodeErr: errors.New("bad plan")}, StageEncode},
		{"no-output", &fakeEngine{}, StageEncode},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			input := filepath.Join(dir, "in.bin")
			writeFile(t, input, []byte("ABCDEFGHIJ"))

			opts := testOptions(io.Discard, io.Discard)
			opts.Engine = tc.engine
			res, err := Convert(input, opts)
			require.True(t, errors.Is(err, ErrEncodingFailed))
			require.Equal(t, tc.stage, res.Stage)

			// The output was created before the engine ran and must be gone.
			requireMissing(t, input+".zx7")
		})
	}
}

func TestConvertConcurrently(t *testing.T) {
	dir := t.TempDir()
	wg := &sync.WaitGroup{}
	errs := make([]error, 8)

	for i := range errs {
		input := filepath.Join(dir, fmt.Sprintf("in-%d.bin", i))
		writeFile(t, input, bytes.Repeat([]byte{byte('a' + i)}, 1000+i))

		wg.Add(1)
		go func(i int, input string) {
			defer wg.Done()
			_, errs[i] = Convert(input, testOptions(io.Discard, io.Discard))
		}(i, input)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "conversion %d", i)
	}
}

func TestErrorMessage(t *testing.T) {
	err := error(fail(ErrNotFound, StageOpenInput, "x.bin", errors.New("no such file")))
	require.Equal(t, "cannot access input file x.bin (open-input): no such file", err.Error())
	require.True(t, errors.Is(err, ErrNotFound))
	require.False(t, errors.Is(err, ErrEmptyInput))

	var convErr *Error
	require.True(t, errors.As(err, &convErr))
	require.Equal(t, StageOpenInput, convErr.Stage)
	require.Equal(t, "x.bin", convErr.Path)

	err = fail(ErrEmptyInput, StageMeasureSize, "e.bin", nil)
	require.Equal(t, "empty input file e.bin (measure-size)", err.Error())
}
