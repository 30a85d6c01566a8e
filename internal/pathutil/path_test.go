package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathParamRegex(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single parameter", "/pets/{petId}", []string{"petId"}},
		{"multiple parameters", "/pets/{petId}/owners/{ownerId}", []string{"petId", "ownerId"}},
		{"no parameters", "/pets/all", nil},
		{"parameter at start", "{version}/pets", []string{"version"}},
		{"constraint", "/pets/{id:int}", []string{"id:int"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, m := range PathParamRegex.FindAllStringSubmatch(tt.input, -1) {
				got = append(got, m[1])
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlaceholders(t *testing.T) {
	got := Placeholders("api/{version:apiVersion}/users/{id:int?}/{page=1}/{*rest}")
	assert.Equal(t, []Placeholder{
		{Raw: "{version:apiVersion}", Name: "version", Constraint: "apiVersion"},
		{Raw: "{id:int?}", Name: "id", Constraint: "int", Optional: true},
		{Raw: "{page=1}", Name: "page", Default: "1"},
		{Raw: "{*rest}", Name: "rest", CatchAll: true},
	}, got)
	assert.Empty(t, Placeholders("api/users"))
}

func TestHasPlaceholder(t *testing.T) {
	assert.True(t, HasPlaceholder("users/{ID:int}", "id"))
	assert.True(t, HasPlaceholder("users/{name?}", "Name"))
	assert.False(t, HasPlaceholder("users/{identity}", "id"))
}

func TestRewrite(t *testing.T) {
	assert.Equal(t, "api/v2/users", ReplacePlaceholder("api/{version:apiVersion}/users", "version", "v2"))
	assert.Equal(t, "/users/{id}", RemovePlaceholder("users/{tab?}/{id}", "tab"))
	assert.Equal(t, "/users/prefix-", RemovePlaceholder("users/prefix-{id}", "ID"))
	assert.Equal(t, "users/{id}/{tab}", Simplify("users/{id:int}/{tab?}"))
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"":            "/",
		"/":           "/",
		"api//users/": "/api/users",
		"/api/users":  "/api/users",
		"api/{id}/":   "/api/{id}",
	}
	for in, want := range tests {
		assert.Equal(t, want, Normalize(in), in)
	}
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "/api/users/{id}", Join("api/users", "{id}"))
	assert.Equal(t, "/api/users", Join("api/users", ""))
	assert.Equal(t, "/health", Join("api/users", "~/health"))
	assert.Equal(t, "/health", Join("api/users", "/health"))
	assert.Equal(t, "/ping", Join("", "ping"))
}
