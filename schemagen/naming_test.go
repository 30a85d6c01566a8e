package schemagen

import (
	"testing"

	"github.com/erraggy/oasgen/apimeta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamer_Strategies(t *testing.T) {
	user := apimeta.NewObject("user_models", "UserProfile")
	tests := []struct {
		strategy SchemaNamingStrategy
		want     string
	}{
		{SchemaNamingTypeOnly, "UserProfile"},
		{SchemaNamingPascalCase, "UserModelsUserProfile"},
		{SchemaNamingCamelCase, "userModelsUserProfile"},
		{SchemaNamingSnakeCase, "user_models_user_profile"},
		{SchemaNamingKebabCase, "user-models-user-profile"},
		{SchemaNamingQualified, "user_models.UserProfile"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			n := &namer{strategy: tt.strategy}
			assert.Equal(t, tt.want, n.name(user))
		})
	}

	n := &namer{strategy: SchemaNamingPascalCase}
	assert.Equal(t, "Local", n.name(apimeta.NewObject("", "Local")), "no package means no prefix")
	assert.Equal(t, anonymousTypeName, n.name(&apimeta.Type{Kind: apimeta.KindObject}))
}

func TestNamer_Generics(t *testing.T) {
	user := apimeta.NewObject("models", "User")
	page := &apimeta.Type{Name: "Page", Package: "models", Kind: apimeta.KindObject,
		GenericArgs: []*apimeta.Type{user}}
	pair := &apimeta.Type{Name: "Pair", Kind: apimeta.KindObject,
		GenericArgs: []*apimeta.Type{apimeta.Int64, apimeta.ArrayOf(apimeta.PointerTo(user))}}
	nested := &apimeta.Type{Name: "Envelope", Kind: apimeta.KindObject,
		GenericArgs: []*apimeta.Type{page}}

	tests := []struct {
		name     string
		strategy GenericNamingStrategy
		typ      *apimeta.Type
		want     string
	}{
		{"of", GenericNamingOf, page, "PageOfUser"},
		{"of multiple", GenericNamingOf, pair, "PairOfLongAndArrayOfUser"},
		{"of nested", GenericNamingOf, nested, "EnvelopeOfPageOfUser"},
		{"underscore", GenericNamingUnderscore, page, "Page_User_"},
		{"for", GenericNamingFor, page, "PageForUser"},
		{"flattened", GenericNamingFlattened, pair, "PairLongArrayOfUser"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &namer{generic: tt.strategy}
			assert.Equal(t, tt.want, n.name(tt.typ))
		})
	}

	n := &namer{genericPackages: true}
	assert.Equal(t, "PageOfModelsUser", n.name(page))

	ctx := (&namer{}).buildContext(pair)
	assert.True(t, ctx.IsGeneric)
	assert.Equal(t, "Pair[int64,[]*User]", ctx.Type)
	assert.Equal(t, "Pair", ctx.TypeBase)
	assert.Equal(t, []string{"Long", "ArrayOfUser"}, ctx.GenericParamsSanitized)
}

func TestNamer_TemplateAndFunc(t *testing.T) {
	user := apimeta.NewObject("models", "User")

	tmpl, err := parseSchemaNameTemplate(`{{upper .Package}}_{{.TypeSanitized}}`)
	require.NoError(t, err)
	assert.Equal(t, "MODELS_User", (&namer{template: tmpl}).name(user))

	fn := func(ctx SchemaNameContext) string { return "Dto" + ctx.TypeBase }
	assert.Equal(t, "DtoUser", (&namer{fn: fn, template: tmpl}).name(user), "functions win over templates")

	empty := func(SchemaNameContext) string { return "" }
	assert.Equal(t, "User", (&namer{fn: empty}).name(user), "empty names fall back to the strategy")

	_, err = parseSchemaNameTemplate("{{.Type")
	assert.Error(t, err)
}

func TestSanitizeSchemaName(t *testing.T) {
	tests := map[string]string{
		"Page[User]":         "Page_User",
		"Map[string,int]":    "Map_string_int",
		"Page<User>":         "Page_User",
		"  spaced name ":     "spaced_name",
		"a/b":                "a_b",
		"Already_Clean":      "Already_Clean",
		"Nested[List[User]]": "Nested_List_User",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizeSchemaName(in), in)
	}
}

func TestGenerate_GenericDefinitionName(t *testing.T) {
	g, doc := newGenerator(t, WithGenericNaming(GenericNamingUnderscore), WithSchemaNaming(SchemaNamingPascalCase))
	user := apimeta.NewObject("models", "User")
	page := &apimeta.Type{Name: "Page", Package: "models", Kind: apimeta.KindObject,
		GenericArgs: []*apimeta.Type{user},
		Properties:  []*apimeta.Property{{Name: "items", Type: apimeta.ArrayOf(user)}}}

	s, err := g.Generate(page)
	require.NoError(t, err)
	assert.Equal(t, "#/definitions/ModelsPage_User_", s.Ref)
	assert.Contains(t, doc.Definitions, "ModelsUser")
}
