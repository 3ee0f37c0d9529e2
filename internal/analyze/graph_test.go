package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGraph() *TypeGraph {
	g := NewTypeGraph()
	g.Add(&TypeInfo{ID: TypeID{PkgPath: "pkg", Name: "Base"}, HasZeroArgCtor: true})
	g.Add(&TypeInfo{
		ID:     TypeID{PkgPath: "pkg", Name: "Middle"},
		Supers: []*TypeRef{Class("pkg.Base")},
	})
	g.Add(&TypeInfo{
		ID:             TypeID{PkgPath: "pkg", Name: "Leaf"},
		Supers:         []*TypeRef{Class("pkg.Middle")},
		HasZeroArgCtor: true,
	})
	g.Add(&TypeInfo{
		ID:          TypeID{PkgPath: "pkg", Name: "List"},
		Params:      []string{"T"},
		Supers:      []*TypeRef{Class(SequenceName, Param("T"))},
		IsInterface: true,
	})
	g.Add(&TypeInfo{
		ID:     TypeID{PkgPath: "pkg", Name: "ArrayList"},
		Params: []string{"X"},
		Supers: []*TypeRef{Class("pkg.List", Param("X"))},
	})
	g.Add(&TypeInfo{
		ID:     TypeID{PkgPath: "pkg", Name: "Leaves"},
		Supers: []*TypeRef{Class("pkg.ArrayList", Class("pkg.Leaf"))},
	})
	// Cyclic hierarchy: A extends B, B extends A.
	g.Add(&TypeInfo{ID: TypeID{PkgPath: "pkg", Name: "A"}, Supers: []*TypeRef{Class("pkg.B")}})
	g.Add(&TypeInfo{ID: TypeID{PkgPath: "pkg", Name: "B"}, Supers: []*TypeRef{Class("pkg.A")}})

	return g
}

func TestTypeGraph_IsSubtype(t *testing.T) {
	g := sampleGraph()

	assert.True(t, g.IsSubtype(Class("pkg.Middle"), Class("pkg.Base")))
	assert.True(t, g.IsSubtype(Class("pkg.Leaf"), Class("pkg.Base")), "transitive")
	assert.False(t, g.IsSubtype(Class("pkg.Base"), Class("pkg.Leaf")))
	assert.False(t, g.IsSubtype(Class("pkg.Base"), Class("pkg.Base")), "identity is not subtyping")
	assert.False(t, g.IsSubtype(Class("pkg.A"), Class("pkg.Base")), "cycles terminate")
	assert.True(t, g.IsSubtype(Class("pkg.A"), Class("pkg.B")))
}

func TestTypeGraph_IsContainer(t *testing.T) {
	g := sampleGraph()

	assert.True(t, g.IsContainer(SliceOf(Class("pkg.Leaf"))))
	assert.True(t, g.IsContainer(Class("pkg.List", Class("pkg.Leaf"))))
	assert.True(t, g.IsContainer(Class("pkg.Leaves")))
	assert.True(t, g.IsContainer(Class(SequenceName, Class("pkg.Leaf"))))
	assert.False(t, g.IsContainer(Class("pkg.Leaf")))
	assert.False(t, g.IsContainer(Primitive("int")))
}

func TestTypeGraph_ElementType(t *testing.T) {
	g := sampleGraph()

	tests := []struct {
		name     string
		ref      *TypeRef
		expected string
		ok       bool
	}{
		{"slice", SliceOf(Class("pkg.Leaf")), "pkg.Leaf", true},
		{"direct", Class("pkg.List", Class("pkg.Base")), "pkg.Base", true},
		{"substituted through supertypes", Class("pkg.ArrayList", Class("pkg.Middle")), "pkg.Middle", true},
		{"fixed by a non-generic subtype", Class("pkg.Leaves"), "pkg.Leaf", true},
		{"raw", Class("pkg.List"), "", false},
		{"wildcard", Class("pkg.List", Wildcard()), "", false},
		{"primitive", SliceOf(Primitive("int")), "", false},
		{"array", SliceOf(ArrayOf("2", Class("pkg.Leaf"))), "", false},
		{"not a container", Class("pkg.Leaf"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			elem, ok := g.ElementType(tt.ref)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				require.NotNil(t, elem)
				assert.Equal(t, tt.expected, elem.String())
			}
		})
	}
}

func TestTypeGraph_HasZeroArgConstructor(t *testing.T) {
	g := sampleGraph()

	assert.True(t, g.HasZeroArgConstructor(Class("pkg.Leaf")))
	assert.False(t, g.HasZeroArgConstructor(Class("pkg.Middle")))
	assert.False(t, g.HasZeroArgConstructor(Class("pkg.List", Class("pkg.Leaf"))))
	assert.False(t, g.HasZeroArgConstructor(Class("pkg.Missing")))
}

func TestTypeGraph_Resolve(t *testing.T) {
	g := sampleGraph()

	info, err := g.Resolve(Class("pkg.Leaf"))
	require.NoError(t, err)
	assert.Equal(t, "pkg.Leaf", info.ID.String())

	_, err = g.Resolve(Class("pkg.Missing"))
	assert.ErrorIs(t, err, ErrUnresolved)

	_, err = g.Resolve(Primitive("int"))
	assert.ErrorIs(t, err, ErrUnresolved)
}
