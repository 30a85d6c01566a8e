package mcpserver

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/erraggy/oasgen/apimeta"
	"github.com/erraggy/oasgen/internal/options"
	"github.com/erraggy/oasgen/openapi"
	lru "github.com/hashicorp/golang-lru/v2"
)

// sourceInput represents the two ways a document can be provided to a tool.
// Exactly one of File or Content must be set.
type sourceInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a file on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline content (JSON or YAML)"`
}

// read returns the input bytes and the cache key they are stored under.
// File inputs are keyed by (absolutePath, modTime), content inputs by a
// SHA-256 hash.
func (s sourceInput) read() ([]byte, string, error) {
	if err := options.ExactlyOne("file or content", s.File != "", s.Content != ""); err != nil {
		return nil, "", err
	}
	if s.Content != "" {
		if int64(len(s.Content)) > cfg.MaxInlineSize {
			return nil, "", fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set OASGEN_MAX_INLINE_SIZE to increase",
				len(s.Content), cfg.MaxInlineSize)
		}
		h := sha256.Sum256([]byte(s.Content))
		return []byte(s.Content), "content:" + hex.EncodeToString(h[:]), nil
	}
	absPath, err := filepath.Abs(s.File)
	if err != nil {
		return nil, "", err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(absPath) //nolint:gosec // G304: caller-supplied input path
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("file:%s:%d", absPath, info.ModTime().UnixNano()), nil
}

// parseCache is a session-scoped LRU of parsed inputs. Cached values are
// shared between calls and must not be mutated.
type parseCache[T any] struct {
	entries *lru.Cache[string, T]
}

func newParseCache[T any](size int) *parseCache[T] {
	entries, err := lru.New[string, T](size)
	if err != nil {
		// Only a non-positive size fails, and loadConfig rejects those.
		panic(err)
	}
	return &parseCache[T]{entries: entries}
}

// load returns the cached value for data's key, parsing and storing it on a
// miss. Parse failures are not cached.
func (c *parseCache[T]) load(key string, data []byte, parse func([]byte) (T, error)) (T, error) {
	if v, ok := c.entries.Get(key); ok {
		return v, nil
	}
	v, err := parse(data)
	if err != nil {
		return v, err
	}
	c.entries.Add(key, v)
	return v, nil
}

var (
	documentCache    = newParseCache[*openapi.Document](cfg.CacheSize)
	descriptionCache = newParseCache[*apimeta.Descriptions](cfg.CacheSize)
)

// document parses the input as a Swagger 2.0 or OpenAPI 3.0 document and
// returns it with the raw bytes.
func (s sourceInput) document() (*openapi.Document, []byte, error) {
	data, key, err := s.read()
	if err != nil {
		return nil, nil, err
	}
	doc, err := documentCache.load(key, data, openapi.FromYAML)
	if err != nil {
		return nil, nil, err
	}
	return doc, data, nil
}

// descriptions parses the input as a description file.
func (s sourceInput) descriptions() (*apimeta.Descriptions, error) {
	data, key, err := s.read()
	if err != nil {
		return nil, err
	}
	return descriptionCache.load(key, data, apimeta.ParseDescriptions)
}
