package analyze

import (
	"strings"

	"assembler-generator/internal/common"
)

// Names of the built-in declarations every TypeGraph starts with.
const (
	// SequenceName is the homogeneous-sequence capability. A type is a
	// container when it inherits from it.
	SequenceName = "builtin.Sequence"
	// SliceName is the built-in list type, rendered as []T.
	SliceName = "[]"
)

// TypeID uniquely identifies a declared type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "pkg.dto" or "assembler-generator/warehouse"
	Name    string // e.g., "UserDto"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// SplitQualified splits a qualified name at its last dot.
func SplitQualified(name string) TypeID {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return TypeID{Name: name}
	}

	return TypeID{PkgPath: name[:i], Name: name[i+1:]}
}

// TypeKind represents the kind of a type reference.
type TypeKind int

const (
	TypeKindUnknown   TypeKind = iota
	TypeKindClass              // declared type, possibly parameterized
	TypeKindPrimitive          // int, string, bool, etc.
	TypeKindArray              // fixed-size array of another type
	TypeKindWildcard           // wildcard type argument
	TypeKindParam              // reference to a type parameter
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindClass:
		return "class"
	case TypeKindPrimitive:
		return "primitive"
	case TypeKindArray:
		return "array"
	case TypeKindWildcard:
		return "wildcard"
	case TypeKindParam:
		return "param"
	default:
		return common.UnknownStr
	}
}

// TypeRef is a use of a type: a qualified name and its ordered type arguments.
type TypeRef struct {
	Name string     // Qualified name for classes, keyword for primitives, "[N]" for arrays
	Args []*TypeRef // Type arguments, in declaration order
	Kind TypeKind
	Elem *TypeRef // For arrays, the element type
}

// Class returns a reference to a declared type.
func Class(name string, args ...*TypeRef) *TypeRef {
	return &TypeRef{Name: name, Args: args, Kind: TypeKindClass}
}

// SliceOf returns a reference to the built-in list of elem.
func SliceOf(elem *TypeRef) *TypeRef {
	return Class(SliceName, elem)
}

// Primitive returns a reference to a primitive type.
func Primitive(name string) *TypeRef {
	return &TypeRef{Name: name, Kind: TypeKindPrimitive}
}

// Wildcard returns a wildcard type argument.
func Wildcard() *TypeRef {
	return &TypeRef{Name: "?", Kind: TypeKindWildcard}
}

// Param returns a reference to the type parameter name.
func Param(name string) *TypeRef {
	return &TypeRef{Name: name, Kind: TypeKindParam}
}

// ArrayOf returns a reference to a fixed-size array.
func ArrayOf(length string, elem *TypeRef) *TypeRef {
	return &TypeRef{Name: "[" + length + "]", Kind: TypeKindArray, Elem: elem}
}

// IsClass reports whether t refers to a declared type.
func (t *TypeRef) IsClass() bool {
	return t != nil && t.Kind == TypeKindClass
}

// ID returns the identity of the referenced declaration.
func (t *TypeRef) ID() TypeID {
	if t.Name == SliceName {
		return TypeID{Name: SliceName}
	}

	return SplitQualified(t.Name)
}

// SimpleName returns the unqualified name, without type arguments.
func (t *TypeRef) SimpleName() string {
	if t == nil {
		return ""
	}

	if t.Kind != TypeKindClass {
		return t.String()
	}

	return t.ID().Name
}

// PkgPath returns the package part of the qualified name.
func (t *TypeRef) PkgPath() string {
	if !t.IsClass() {
		return ""
	}

	return t.ID().PkgPath
}

// String returns the canonical text of the reference.
func (t *TypeRef) String() string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind {
	case TypeKindArray:
		return t.Name + t.Elem.String()
	case TypeKindClass:
		if len(t.Args) == 0 {
			return t.Name
		}

		if t.Name == SliceName && len(t.Args) == 1 {
			return SliceName + t.Args[0].String()
		}

		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = a.String()
		}

		return t.Name + "[" + strings.Join(args, ", ") + "]"
	default:
		return t.Name
	}
}

// Equal reports whether two references have the same canonical text.
func (t *TypeRef) Equal(other *TypeRef) bool {
	if t == nil || other == nil {
		return t == other
	}

	return t.Kind == other.Kind && t.String() == other.String()
}

// Substitute returns a copy of t with type parameters replaced by bindings.
// Parameters without a binding are left as they are.
func (t *TypeRef) Substitute(bindings map[string]*TypeRef) *TypeRef {
	if t == nil {
		return nil
	}

	if t.Kind == TypeKindParam {
		if bound, ok := bindings[t.Name]; ok {
			return bound
		}

		return t
	}

	out := &TypeRef{Name: t.Name, Kind: t.Kind, Elem: t.Elem.Substitute(bindings)}
	for _, a := range t.Args {
		out.Args = append(out.Args, a.Substitute(bindings))
	}

	return out
}
