package mcpserver

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/erraggy/oasgen/openapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceInput_Read(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		_, _, err := sourceInput{}.read()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "got 0")
	})

	t.Run("both", func(t *testing.T) {
		_, _, err := sourceInput{File: "a.yaml", Content: "x"}.read()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "got 2")
	})

	t.Run("content key is stable", func(t *testing.T) {
		_, k1, err := sourceInput{Content: oas30Doc}.read()
		require.NoError(t, err)
		_, k2, err := sourceInput{Content: oas30Doc}.read()
		require.NoError(t, err)
		assert.Equal(t, k1, k2)
		assert.True(t, strings.HasPrefix(k1, "content:"))
	})

	t.Run("file key tracks modification time", func(t *testing.T) {
		path := writeTemp(t, "api.yaml", oas30Doc)
		data, k1, err := sourceInput{File: path}.read()
		require.NoError(t, err)
		assert.Equal(t, oas30Doc, string(data))
		assert.True(t, strings.HasPrefix(k1, "file:"))

		later := time.Now().Add(time.Hour)
		require.NoError(t, os.Chtimes(path, later, later))
		_, k2, err := sourceInput{File: path}.read()
		require.NoError(t, err)
		assert.NotEqual(t, k1, k2)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := sourceInput{File: "does-not-exist.yaml"}.read()
		assert.Error(t, err)
	})

	t.Run("inline size limit", func(t *testing.T) {
		saved := cfg.MaxInlineSize
		t.Cleanup(func() { cfg.MaxInlineSize = saved })
		cfg.MaxInlineSize = 8

		_, _, err := sourceInput{Content: oas30Doc}.read()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "OASGEN_MAX_INLINE_SIZE")
	})
}

func TestParseCache(t *testing.T) {
	c := newParseCache[*openapi.Document](2)
	calls := 0
	parse := func(data []byte) (*openapi.Document, error) {
		calls++
		return openapi.FromYAML(data)
	}

	first, err := c.load("a", []byte(oas30Doc), parse)
	require.NoError(t, err)
	second, err := c.load("a", []byte(oas30Doc), parse)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)

	_, err = c.load("b", []byte(swagger2Doc), parse)
	require.NoError(t, err)
	_, err = c.load("c", []byte(swagger2Doc), parse)
	require.NoError(t, err)
	assert.Equal(t, 2, c.entries.Len(), "least recently used entry evicted")
	assert.False(t, c.entries.Contains("a"))
}

func TestParseCache_ErrorsAreNotCached(t *testing.T) {
	c := newParseCache[*openapi.Document](2)
	boom := errors.New("boom")
	_, err := c.load("k", nil, func([]byte) (*openapi.Document, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.entries.Len())
}

func TestSourceInput_Document(t *testing.T) {
	doc, raw, err := sourceInput{Content: swagger2Doc}.document()
	require.NoError(t, err)
	assert.Equal(t, openapi.Swagger2, doc.SourceDialect)
	assert.Equal(t, swagger2Doc, string(raw))

	again, _, err := sourceInput{Content: swagger2Doc}.document()
	require.NoError(t, err)
	assert.Same(t, doc, again, "second call is served from the cache")
}

func TestSourceInput_Descriptions(t *testing.T) {
	d, err := sourceInput{Content: petsDescriptions}.descriptions()
	require.NoError(t, err)
	assert.Contains(t, d.Types, "Pet")
	require.Len(t, d.Controllers, 1)
	assert.Equal(t, "PetsController", d.Controllers[0].Name)

	_, err = sourceInput{Content: "controllers: 12"}.descriptions()
	assert.Error(t, err)
}
