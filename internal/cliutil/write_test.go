package cliutil

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritef(t *testing.T) {
	var buf bytes.Buffer
	Writef(&buf, "Hello, %s!", "World")
	assert.Equal(t, "Hello, World!", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestWritef_WriteError(t *testing.T) {
	assert.NotPanics(t, func() { Writef(failingWriter{}, "lost") })
}

func TestWriteOutput(t *testing.T) {
	t.Run("writer gets a trailing newline", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteOutput(&buf, "", []byte(`{"a":1}`)))
		assert.Equal(t, "{\"a\":1}\n", buf.String())
	})

	t.Run("existing newline kept", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteOutput(&buf, "", []byte("a: 1\n")))
		assert.Equal(t, "a: 1\n", buf.String())
	})

	t.Run("file in new directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out", "api.json")
		require.NoError(t, WriteOutput(nil, path, []byte("{}")))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "{}", string(data))
	})

	t.Run("directory refused", func(t *testing.T) {
		err := WriteOutput(nil, t.TempDir(), []byte("{}"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is a directory")
	})

	t.Run("writer error", func(t *testing.T) {
		assert.Error(t, WriteOutput(failingWriter{}, "", []byte("x")))
	})
}

func TestReadInput(t *testing.T) {
	data, err := ReadInput(strings.NewReader("from stdin"), StdinPath)
	require.NoError(t, err)
	assert.Equal(t, "from stdin", string(data))

	path := filepath.Join(t.TempDir(), "in.yaml")
	require.NoError(t, os.WriteFile(path, []byte("from file"), 0o600))
	data, err = ReadInput(nil, path)
	require.NoError(t, err)
	assert.Equal(t, "from file", string(data))

	_, err = ReadInput(nil, filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
