package apimeta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestType_Unwrap(t *testing.T) {
	user := NewObject("models", "User")
	assert.Same(t, user, TaskOf(user).Unwrap())
	assert.Same(t, Void, VoidTask.Unwrap())
	assert.Same(t, Void, TaskOf(nil).Unwrap())
	assert.Same(t, user, user.Unwrap())

	var nilType *Type
	assert.True(t, nilType.IsVoid())
	assert.True(t, VoidTask.IsVoid())
	assert.False(t, TaskOf(user).IsVoid())
}

func TestType_Classification(t *testing.T) {
	user := NewObject("models", "User")
	tests := []struct {
		name      string
		typ       *Type
		primitive bool
		binary    bool
		complex   bool
		nullable  bool
	}{
		{"string", String, true, false, false, false},
		{"int32", Int32, true, false, false, false},
		{"enum", NewEnum("", "Color", "red"), true, false, false, false},
		{"nullable int", PointerTo(Int64), true, false, false, true},
		{"object", user, false, false, true, false},
		{"nullable object", PointerTo(user), false, false, true, true},
		{"array of objects", ArrayOf(user), false, false, true, false},
		{"map", MapOf(String), false, false, true, false},
		{"root object", Object, false, false, true, true},
		{"file", File, false, true, false, false},
		{"file collection", FileCollection, false, true, false, false},
		{"stream", Stream, false, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.primitive, tt.typ.IsPrimitive(), "IsPrimitive")
			assert.Equal(t, tt.binary, tt.typ.IsBinary(), "IsBinary")
			assert.Equal(t, tt.complex, tt.typ.IsComplex(), "IsComplex")
			assert.Equal(t, tt.nullable, tt.typ.IsNullable(), "IsNullable")
		})
	}
	assert.True(t, ArrayOf(Int32).IsPrimitiveOrArray())
	assert.False(t, ArrayOf(user).IsPrimitiveOrArray())
}

func TestPointerTo_DoesNotStack(t *testing.T) {
	p := PointerTo(String)
	assert.Same(t, p, PointerTo(p))
	assert.Same(t, String, p.Deref())
}

// TestType_Ancestry verifies the walk order: self, base chain, then
// interfaces of each level with the interfaces they extend.
func TestType_Ancestry(t *testing.T) {
	entity := NewInterface("", "Entity")
	named := NewInterface("", "Named")
	auditable := NewInterface("", "Auditable")
	auditable.Interfaces = []*Type{entity}

	base := NewObject("", "Base")
	base.Interfaces = []*Type{entity}
	user := NewObject("", "User")
	user.Base = base
	user.Interfaces = []*Type{named, auditable}

	assert.Equal(t, []*Type{user, base, named, auditable, entity}, user.Ancestry())
	assert.True(t, user.AssignableTo(entity))
	assert.True(t, PointerTo(user).AssignableTo(base))
	assert.True(t, String.AssignableTo(Object))
	assert.False(t, base.AssignableTo(user))
}

func TestType_AllProperties(t *testing.T) {
	base := NewObject("", "Base", &Property{Name: "id", Type: Int64}, &Property{Name: "name", Type: String})
	user := NewObject("", "User", &Property{Name: "name", Type: PointerTo(String)}, &Property{Name: "email", Type: String})
	user.Base = base

	props := user.AllProperties()
	names := make([]string, len(props))
	for i, p := range props {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"name", "email", "id"}, names)
	assert.True(t, props[0].Type.IsNullable())
}

func TestType_Names(t *testing.T) {
	assert.Equal(t, "models.User", NewObject("models", "User").QualifiedName())
	assert.Equal(t, "User", NewObject("", "User").QualifiedName())
	assert.True(t, NewObject("", "User").IsNamed())
	assert.False(t, NewObject("", "").IsNamed())
	assert.False(t, String.IsNamed())
	assert.Equal(t, "pointer", KindPointer.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
