package builder

import (
	"context"
	"testing"

	"github.com/erraggy/oasgen/apimeta"
	"github.com/erraggy/oasgen/openapi"
	"github.com/erraggy/oasgen/processor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseOperationID(t *testing.T) {
	users := &apimeta.Controller{Name: "UsersController"}
	tests := []struct {
		name   string
		c      *apimeta.Controller
		method *apimeta.Method
		want   string
	}{
		{name: "controller and method", c: users, method: &apimeta.Method{Name: "GetUser"}, want: "Users_GetUser"},
		{name: "async suffix", c: users, method: &apimeta.Method{Name: "GetUserAsync"}, want: "Users_GetUser"},
		{name: "no controller suffix", c: &apimeta.Controller{Name: "Health"}, method: &apimeta.Method{Name: "Ping"}, want: "Health_Ping"},
		{name: "lower-case suffix", c: &apimeta.Controller{Name: "Orderscontroller"}, method: &apimeta.Method{Name: "List"}, want: "Orders_List"},
		{
			name:   "explicit",
			c:      users,
			method: &apimeta.Method{Name: "GetUser", Attributes: []apimeta.Attribute{apimeta.OperationID{ID: "fetchUser"}}},
			want:   "fetchUser",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, baseOperationID(tt.c, tt.method))
		})
	}
}

func TestOperationIDs(t *testing.T) {
	ids := newOperationIDs()
	assert.Equal(t, "Users_Get", ids.claim("Users_Get"))
	assert.Equal(t, "Users_Get2", ids.claim("Users_Get"))
	assert.Equal(t, "Users_Get3", ids.claim("Users_Get"))

	ids.release("Users_Get2")
	assert.Equal(t, "Users_Get2", ids.claim("Users_Get"))
}

func TestGenerate_OperationIDSuffixes(t *testing.T) {
	c := controller("UsersController",
		&apimeta.Method{Name: "Get", Attributes: []apimeta.Attribute{route("users")}},
		&apimeta.Method{Name: "Get", Attributes: []apimeta.Attribute{route("users/{id}")}, Parameters: []*apimeta.Parameter{param("id", apimeta.Int32)}},
		&apimeta.Method{Name: "GetAsync", Attributes: []apimeta.Attribute{route("users/recent")}},
	)
	doc := generate(t, []*apimeta.Controller{c})

	assert.Equal(t, "Users_Get", doc.Operation("/users", "get").OperationID)
	assert.Equal(t, "Users_Get2", doc.Operation("/users/{id}", "get").OperationID)
	assert.Equal(t, "Users_Get3", doc.Operation("/users/recent", "get").OperationID)
}

// Processors may assign IDs that collide; the final pass renames all but
// the first.
func TestDedupeOperationIDs(t *testing.T) {
	c := controller("UsersController",
		&apimeta.Method{Name: "GetA", Attributes: []apimeta.Attribute{route("a")}},
		&apimeta.Method{Name: "GetB", Attributes: []apimeta.Attribute{route("b")}},
		&apimeta.Method{Name: "GetC", Attributes: []apimeta.Attribute{route("c"), apimeta.OperationID{ID: "list2"}}},
	)
	rename := processor.OperationProcessorFunc(func(_ context.Context, oc *processor.Context) (processor.Decision, error) {
		if oc.Operation.Path != "/c" {
			oc.Operation.Operation.OperationID = "list"
		}
		return processor.Continue, nil
	})

	doc := generate(t, []*apimeta.Controller{c}, WithOperationProcessors(rename))

	assert.Equal(t, "list", doc.Operation("/a", "get").OperationID)
	// "list2" is already taken by the explicit ID.
	assert.Equal(t, "list3", doc.Operation("/b", "get").OperationID)
	assert.Equal(t, "list2", doc.Operation("/c", "get").OperationID)
}

func TestDedupeOperationIDs_Document(t *testing.T) {
	doc := openapi.New()
	for _, path := range []string{"/a", "/b", "/c"} {
		require.NoError(t, doc.AddOperation(path, "get", &openapi.Operation{OperationID: "same"}))
	}
	require.NoError(t, doc.AddOperation("/d", "get", &openapi.Operation{}))

	dedupeOperationIDs(doc, openapi.NopLogger{})

	var got []string
	for _, ref := range doc.Operations() {
		got = append(got, ref.Operation.OperationID)
	}
	assert.Equal(t, []string{"same", "same2", "same3", ""}, got)
}
