package apimeta

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/erraggy/oasgen/oaserrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDescriptions = `
types:
  Entity:
    kind: interface
  Base:
    package: shop
    properties:
      - {name: id, type: int64, required: true}
  Order:
    package: shop
    base: Base
    interfaces: [Entity]
    description: A customer order.
    properties:
      - {name: customer, type: "*Customer"}
      - {name: lines, type: "[]Line"}
      - {name: status, type: Status, required: true}
      - {name: meta, type: "map[string]string"}
  Customer:
    package: shop
    properties:
      - {name: name, type: string}
  Line:
    package: shop
    properties:
      - {name: sku, type: string, description: Stock keeping unit.}
  Status:
    kind: enum
    enumType: int
    enum: [0, 1, 2]
  Page:
    package: shop
    typeParams: [T]
    properties:
      - {name: items, type: "[]T"}
      - {name: total, type: int}
controllers:
  - name: ApiControllerBase
    methods:
      - name: Ping
        attributes:
          - {name: HttpGet, props: {template: ping}}
  - name: OrdersController
    base: ApiControllerBase
    attributes:
      - {name: Route, props: {template: "api/orders"}}
      - ApiController
    docs:
      summary: Order management.
    methods:
      - name: GetOrder
        returns: "Task[*Order]"
        docs: {summary: Gets an order.}
        attributes:
          - {name: HttpGet, props: {template: "{id}"}}
          - {name: ProducesResponseType, props: {statusCode: 404}}
        parameters:
          - {name: id, type: int64, description: The order id.}
      - name: ListOrders
        returns: "Page[Order]"
        parameters:
          - {name: take, type: int, default: 20}
          - {name: cancellationToken, type: context}
apiDescriptions:
  - controller: OrdersController
    method: GetOrder
    httpMethod: get
    path: "api/orders/{id}"
    produces: [application/json]
    parameters:
      - {name: id, source: path, required: true}
    responses:
      - {statusCode: 200, type: Order}
      - {statusCode: default, default: true}
`

func TestParseDescriptions(t *testing.T) {
	d, err := ParseDescriptions([]byte(sampleDescriptions))
	require.NoError(t, err)

	order := d.Types["Order"]
	require.NotNil(t, order)
	assert.Equal(t, "shop", order.Package)
	assert.Equal(t, "A customer order.", order.Description)
	assert.Same(t, d.Types["Base"], order.Base)
	assert.Equal(t, []*Type{d.Types["Entity"]}, order.Interfaces)
	assert.Same(t, d.Types["Customer"], order.Property("customer").Type.Deref())
	assert.True(t, order.Property("customer").Type.IsNullable())
	assert.Same(t, d.Types["Line"], order.Property("lines").Type.Elem)
	assert.Equal(t, KindMap, order.Property("meta").Type.Kind)
	assert.Equal(t, "Stock keeping unit.", d.Types["Line"].Property("sku").Description)

	status := d.Types["Status"]
	assert.Equal(t, KindEnum, status.Kind)
	assert.Equal(t, "int32", status.Format)
	assert.Equal(t, []any{int64(0), int64(1), int64(2)}, status.EnumValues)

	_, isGenericDeclared := d.Types["Page"]
	assert.False(t, isGenericDeclared, "generic declarations are only reachable through instances")
}

func TestParseDescriptions_Controllers(t *testing.T) {
	d, err := ParseDescriptions([]byte(sampleDescriptions))
	require.NoError(t, err)

	c := d.Controller("OrdersController")
	require.NotNil(t, c)
	assert.Nil(t, d.Controller("Missing"))
	assert.Equal(t, "Order management.", c.Docs.Summary)
	require.Len(t, c.Attributes, 2)
	assert.Equal(t, Route{Template: "api/orders"}, c.Attributes[0])
	assert.IsType(t, Custom{}, c.Attributes[1])

	require.Len(t, c.Methods, 3)
	assert.Equal(t, []string{"GetOrder", "ListOrders", "Ping"},
		[]string{c.Methods[0].Name, c.Methods[1].Name, c.Methods[2].Name})
	assert.Same(t, c.Type, c.Methods[0].DeclaringType)
	assert.Same(t, c.Type.Base, c.Methods[2].DeclaringType, "inherited methods keep their declaring type")
	assert.Equal(t, "ApiControllerBase", c.Type.Base.Name)

	get := c.Methods[0]
	assert.Equal(t, KindTask, get.Returns.Kind)
	assert.Same(t, d.Types["Order"], get.Returns.Unwrap().Deref())
	assert.Equal(t, "The order id.", get.Docs.Params["id"])
	assert.Equal(t, ProducesResponseType{StatusCode: 404}, get.Attributes[1])

	list := c.Methods[1]
	page := list.Returns
	assert.Equal(t, "Page", page.Name)
	require.Len(t, page.GenericArgs, 1)
	assert.Same(t, d.Types["Order"], page.GenericArgs[0])
	assert.Same(t, d.Types["Order"], page.Property("items").Type.Elem)
	assert.True(t, list.Parameters[0].HasDefault)
	assert.Equal(t, int64(20), list.Parameters[0].Default)
	assert.Equal(t, KindCancellation, list.Parameters[1].Type.Kind)

	again, err := d.ResolveType("Page[Order]")
	require.NoError(t, err)
	assert.Same(t, page, again, "instances are cached")
}

func TestParseDescriptions_APIDescriptions(t *testing.T) {
	d, err := ParseDescriptions([]byte(sampleDescriptions))
	require.NoError(t, err)
	require.Len(t, d.APIDescriptions, 1)

	desc := d.APIDescriptions[0]
	assert.Equal(t, "GET", desc.HTTPMethod)
	assert.Equal(t, "api/orders/{id}", desc.RelativePath)
	assert.Equal(t, []string{"application/json"}, desc.Produces)
	require.Len(t, desc.Parameters, 1)
	assert.Equal(t, BindingPath, desc.Parameters[0].Source)
	assert.Same(t, desc.Method.Parameters[0], desc.Parameters[0].Parameter)
	assert.Same(t, Int64, desc.Parameters[0].Type)

	require.Len(t, desc.ResponseTypes, 2)
	assert.Equal(t, "200", desc.ResponseTypes[0].StatusCode)
	assert.Same(t, d.Types["Order"], desc.ResponseTypes[0].Type)
	assert.Equal(t, "default", desc.ResponseTypes[1].StatusCode)
	assert.True(t, desc.ResponseTypes[1].IsDefault)
}

func TestResolveType(t *testing.T) {
	d, err := ParseDescriptions([]byte(sampleDescriptions))
	require.NoError(t, err)

	tests := []struct {
		expr string
		kind Kind
	}{
		{"int", KindInteger},
		{"double", KindNumber},
		{"[]string", KindArray},
		{"*Order", KindPointer},
		{"map[string][]int", KindMap},
		{"Task", KindTask},
		{"Task[int]", KindTask},
		{"files", KindArray},
		{"Page[map[string]int]", KindObject},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := d.ResolveType(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, got.Kind)
		})
	}

	_, err = d.ResolveType("Unknown")
	assert.ErrorIs(t, err, oaserrors.ErrTypeNotFound)
	_, err = d.ResolveType("Page[int,string]")
	assert.ErrorContains(t, err, "type arguments")
	_, err = d.ResolveType("")
	assert.Error(t, err)
}

func TestParseDescriptions_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"invalid yaml", "types: [", "invalid YAML"},
		{"unknown field", "controlers: []", "invalid description file"},
		{"unknown kind", "types: {A: {kind: union}}", "unknown kind"},
		{"unknown property type", "types: {A: {properties: [{name: x, type: Nope}]}}", "Nope"},
		{"base cycle", "controllers: [{name: A, base: B}, {name: B, base: A}]", "cycle"},
		{"missing base", "controllers: [{name: A, base: Z}]", "Z"},
		{"unknown method", "controllers: [{name: A}]\napiDescriptions: [{controller: A, method: M}]", "A.M"},
		{"unknown source", "controllers: [{name: A, methods: [{name: M}]}]\napiDescriptions: [{controller: A, method: M, parameters: [{name: x, source: cookie}]}]", "binding source"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDescriptions([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, oaserrors.ErrParse)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadDescriptions(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "api.yaml")
	require.NoError(t, os.WriteFile(good, []byte(sampleDescriptions), 0o600))
	d, err := LoadDescriptions(good)
	require.NoError(t, err)
	assert.Len(t, d.Controllers, 2)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("types: {A: {kind: union}}"), 0o600))
	_, err = LoadDescriptions(bad)
	var pe *oaserrors.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, bad, pe.Path)

	_, err = LoadDescriptions(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, oaserrors.ErrParse)
}

func TestDescriptions_Select(t *testing.T) {
	d, err := ParseDescriptions([]byte(sampleDescriptions))
	require.NoError(t, err)

	t.Run("exact name", func(t *testing.T) {
		got, err := d.Select([]string{"OrdersController"})
		require.NoError(t, err)
		require.Len(t, got.Controllers, 1)
		assert.Equal(t, "OrdersController", got.Controllers[0].Name)
		assert.Len(t, got.APIDescriptions, 1)
		assert.Same(t, d.Types["Order"], got.Types["Order"])
		assert.Len(t, d.Controllers, 2, "source is left untouched")
	})

	t.Run("descriptions of other controllers are dropped", func(t *testing.T) {
		got, err := d.Select([]string{"Api*"})
		require.NoError(t, err)
		require.Len(t, got.Controllers, 1)
		assert.Empty(t, got.APIDescriptions)
		assert.Len(t, d.APIDescriptions, 1)
	})

	t.Run("no patterns", func(t *testing.T) {
		got, err := d.Select(nil)
		require.NoError(t, err)
		assert.Same(t, d, got)
	})

	t.Run("unknown exact name", func(t *testing.T) {
		_, err := d.Select([]string{"BillingController"})
		require.Error(t, err)
		assert.ErrorIs(t, err, oaserrors.ErrTypeNotFound)
	})
}
