package apimeta

import (
	"errors"
	"testing"

	"github.com/erraggy/oasgen/oaserrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalAttributeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"OpenApiIgnoreAttribute", "Ignore"},
		{"SwaggerIgnore", "Ignore"},
		{"JsonIgnore", "Ignore"},
		{"OpenApiResponse", "SwaggerResponse"},
		{"OpenApiTags", "SwaggerTags"},
		{"Deprecated", "Obsolete"},
		{"HttpGet", "HttpGet"},
		{"Unknown", "Unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanonicalAttributeName(tt.in), tt.in)
	}
}

func TestDecodeAttribute(t *testing.T) {
	user := NewObject("", "User")
	resolve := func(expr string) (*Type, error) {
		if expr == "User" {
			return user, nil
		}
		return nil, &oaserrors.LookupError{Name: expr}
	}

	t.Run("aliased response with integer status", func(t *testing.T) {
		a, err := DecodeAttribute("OpenApiResponse", map[string]any{"StatusCode": 201, "Type": "User", "IsNullable": true}, resolve)
		require.NoError(t, err)
		assert.Equal(t, SwaggerResponse{StatusCode: "201", Type: user, IsNullable: true}, a)
	})

	t.Run("float status from JSON numbers", func(t *testing.T) {
		a, err := DecodeAttribute("ProducesResponseType", map[string]any{"statusCode": float64(404)}, resolve)
		require.NoError(t, err)
		assert.Equal(t, 404, a.(ProducesResponseType).StatusCode)
	})

	t.Run("legacy response type", func(t *testing.T) {
		a, err := DecodeAttribute("ResponseTypeAttribute", map[string]any{"responseType": "User"}, resolve)
		require.NoError(t, err)
		assert.Equal(t, ResponseType{ResponseType: user}, a)
	})

	t.Run("verb shortcut", func(t *testing.T) {
		a, err := DecodeAttribute("HttpGet", map[string]any{"template": "{id}"}, nil)
		require.NoError(t, err)
		assert.Equal(t, HTTPMethod{Methods: []string{"GET"}, Template: "{id}"}, a)

		a, err = DecodeAttribute("AcceptVerbs", map[string]any{"methods": []any{"get", "head"}}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"GET", "HEAD"}, a.(HTTPMethod).Methods)
	})

	t.Run("comma separated lists", func(t *testing.T) {
		a, err := DecodeAttribute("OpenApiTags", map[string]any{"value": "users, admin", "addToDocument": true}, nil)
		require.NoError(t, err)
		assert.Equal(t, Tags{Names: []string{"users", "admin"}, AddToDocument: true}, a)
	})

	t.Run("api explorer settings", func(t *testing.T) {
		a, err := DecodeAttribute("ApiExplorerSettings", map[string]any{"IgnoreApi": true}, nil)
		require.NoError(t, err)
		assert.Equal(t, ExcludeFromDocument{}, a)
		assert.True(t, IsExcluded([]Attribute{a}))
	})

	t.Run("unknown names become custom", func(t *testing.T) {
		a, err := DecodeAttribute("RequiresClaim", map[string]any{"Claim": "admin"}, nil)
		require.NoError(t, err)
		c, ok := a.(Custom)
		require.True(t, ok)
		assert.Equal(t, "RequiresClaim", c.AttributeName())
		assert.Equal(t, "admin", c.Props["claim"])
	})

	t.Run("unresolvable type", func(t *testing.T) {
		_, err := DecodeAttribute("SwaggerResponse", map[string]any{"type": "Nope"}, resolve)
		require.Error(t, err)
		assert.True(t, errors.Is(err, oaserrors.ErrParse))
		assert.True(t, errors.Is(err, oaserrors.ErrTypeNotFound))
	})

	t.Run("bad status code", func(t *testing.T) {
		_, err := DecodeAttribute("SwaggerResponse", map[string]any{"statusCode": 200.5}, nil)
		assert.Error(t, err)
	})
}

func TestFind(t *testing.T) {
	attrs := []Attribute{Tag{Name: "a"}, Description{Text: "x"}, Tag{Name: "b"}}
	tag, ok := Find[Tag](attrs)
	require.True(t, ok)
	assert.Equal(t, "a", tag.Name)
	assert.Len(t, FindAll[Tag](attrs), 2)
	assert.False(t, Has[Ignore](attrs))
}
