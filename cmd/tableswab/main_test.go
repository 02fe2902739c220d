package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopWriteCloser struct {
	*bytes.Buffer
}

func (nopWriteCloser) Close() error { return nil }

func TestRunFiles(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.bin")
	out := filepath.Join(dir, "out.bin")
	require.NoError(t, os.WriteFile(in, []byte{9, 9, 1, 2, 3, 4, 5, 6, 7, 8}, 0o644))

	var stderr bytes.Buffer
	code := run([]string{"-w", "4", "-o", "2", in, out}, io.NopCloser(bytes.NewReader(nil)), nopWriteCloser{&bytes.Buffer{}}, &stderr)
	require.Equal(t, 0, code, stderr.String())

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 9, 4, 3, 2, 1, 8, 7, 6, 5}, got)
}

func TestRunStdio(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-w", "2", "-n", "2"}, io.NopCloser(bytes.NewReader([]byte{1, 2, 3, 4})), nopWriteCloser{&stdout}, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, []byte{2, 1, 3, 4}, stdout.Bytes())
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"bad width", []string{"-w", "3"}, 1},
		{"odd length", []string{"-w", "4", "-n", "6"}, 1},
		{"unknown flag", []string{"-x"}, 2},
		{"too many files", []string{"a", "b", "c"}, 2},
		{"missing input", []string{filepath.Join(t.TempDir(), "nope.bin")}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, io.NopCloser(bytes.NewReader([]byte{1, 2, 3, 4})), nopWriteCloser{&stdout}, &stderr)
			assert.Equal(t, tt.code, code)
			assert.NotEmpty(t, stderr.String())
		})
	}
}
