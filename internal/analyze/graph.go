package analyze

import (
	"errors"
	"go/types"
	"sort"
)

// ErrUnresolved is returned when a type reference does not name a declared type.
var ErrUnresolved = errors.New("type is not resolved")

// TypeInfo describes a declared type in the type graph.
type TypeInfo struct {
	ID             TypeID     // Unique identifier
	Params         []string   // Type parameter names, in order
	Supers         []*TypeRef // Direct supertypes; may reference Params
	IsInterface    bool       // Declared as an interface (no constructor)
	HasZeroArgCtor bool       // Can be instantiated without arguments
	GoType         types.Type // The original go/types.Type when loaded from Go packages
}

// Ref returns a reference to the declaration with the given type arguments.
func (t *TypeInfo) Ref(args ...*TypeRef) *TypeRef {
	return Class(t.ID.String(), args...)
}

// TypeGraph holds all declared types.
type TypeGraph struct {
	// Types maps TypeID to TypeInfo for all declared types.
	Types map[TypeID]*TypeInfo
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

// PackageInfo holds information about a package of declared types.
type PackageInfo struct {
	Path  string   // Import path or dotted package name
	Name  string   // Package name
	Types []TypeID // Named types defined in this package
}

// NewTypeGraph creates a TypeGraph holding only the built-in sequence
// capability and the built-in list type.
func NewTypeGraph() *TypeGraph {
	g := &TypeGraph{
		Types:    make(map[TypeID]*TypeInfo),
		Packages: make(map[string]*PackageInfo),
	}

	g.Add(&TypeInfo{
		ID:          SplitQualified(SequenceName),
		Params:      []string{"E"},
		IsInterface: true,
	})
	g.Add(&TypeInfo{
		ID:             TypeID{Name: SliceName},
		Params:         []string{"E"},
		Supers:         []*TypeRef{Class(SequenceName, Param("E"))},
		HasZeroArgCtor: true,
	})

	return g
}

// Add declares a type, replacing any previous declaration with the same ID.
func (g *TypeGraph) Add(info *TypeInfo) {
	if _, exists := g.Types[info.ID]; !exists {
		pkg, ok := g.Packages[info.ID.PkgPath]
		if !ok {
			pkg = &PackageInfo{Path: info.ID.PkgPath, Name: info.ID.PkgPath}
			g.Packages[info.ID.PkgPath] = pkg
		}

		pkg.Types = append(pkg.Types, info.ID)
	}

	g.Types[info.ID] = info
}

// GetType returns the TypeInfo for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *TypeInfo {
	return g.Types[id]
}

// Lookup returns the declaration for a qualified name.
func (g *TypeGraph) Lookup(qualifiedName string) (*TypeInfo, bool) {
	info, ok := g.Types[Class(qualifiedName).ID()]
	return info, ok
}

// Resolve returns the declaration a class reference points to.
func (g *TypeGraph) Resolve(t *TypeRef) (*TypeInfo, error) {
	if !t.IsClass() {
		return nil, ErrUnresolved
	}

	info := g.GetType(t.ID())
	if info == nil {
		return nil, ErrUnresolved
	}

	return info, nil
}

// IsSubtype reports whether sub inherits from super, directly or transitively.
// A type is not its own subtype; identity is a separate question.
func (g *TypeGraph) IsSubtype(sub, super *TypeRef) bool {
	if !sub.IsClass() || !super.IsClass() {
		return false
	}

	target := super.ID()
	visited := map[TypeID]bool{}
	queue := []TypeID{sub.ID()}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		if visited[id] {
			continue
		}
		visited[id] = true

		info := g.GetType(id)
		if info == nil {
			continue
		}

		for _, s := range info.Supers {
			if !s.IsClass() {
				continue
			}

			if s.ID() == target {
				return true
			}

			queue = append(queue, s.ID())
		}
	}

	return false
}

// IsContainer reports whether t is, or inherits from, the sequence capability.
func (g *TypeGraph) IsContainer(t *TypeRef) bool {
	if !t.IsClass() {
		return false
	}

	if t.ID() == SplitQualified(SequenceName) {
		return true
	}

	return g.IsSubtype(t, Class(SequenceName))
}

// ElementType returns the single element type of a container reference.
// It fails for raw containers and for wildcard, primitive, array or
// parameter arguments.
func (g *TypeGraph) ElementType(t *TypeRef) (*TypeRef, bool) {
	elem := g.sequenceArg(t, map[TypeID]bool{})
	if !elem.IsClass() {
		return nil, false
	}

	return elem, true
}

// sequenceArg walks the supertypes of t, substituting type arguments, until it
// reaches the sequence capability. Visited declarations are skipped so cyclic
// hierarchies terminate.
func (g *TypeGraph) sequenceArg(t *TypeRef, visited map[TypeID]bool) *TypeRef {
	if !t.IsClass() {
		return nil
	}

	id := t.ID()
	if id == SplitQualified(SequenceName) {
		if len(t.Args) != 1 {
			return nil
		}

		return t.Args[0]
	}

	if visited[id] {
		return nil
	}
	visited[id] = true

	info := g.GetType(id)
	if info == nil {
		return nil
	}

	bindings := make(map[string]*TypeRef, len(info.Params))
	for i, p := range info.Params {
		if i < len(t.Args) {
			bindings[p] = t.Args[i]
		}
	}

	for _, s := range info.Supers {
		if arg := g.sequenceArg(s.Substitute(bindings), visited); arg != nil {
			return arg
		}
	}

	return nil
}

// HasZeroArgConstructor reports whether the referenced type can be created
// without arguments.
func (g *TypeGraph) HasZeroArgConstructor(t *TypeRef) bool {
	info, err := g.Resolve(t)
	if err != nil {
		return false
	}

	return info.HasZeroArgCtor && !info.IsInterface
}

// SortedIDs returns all declared type IDs in a stable order.
func (g *TypeGraph) SortedIDs() []TypeID {
	ids := make([]TypeID, 0, len(g.Types))
	for id := range g.Types {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})

	return ids
}
