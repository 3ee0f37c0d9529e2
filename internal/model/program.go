package model

import (
	"errors"

	"assembler-generator/internal/analyze"
)

var (
	// ErrNotFound is returned when a file, directory or expression is unknown.
	ErrNotFound = errors.New("not found")
	// ErrReadOnly is returned when a mutation targets a read-only location.
	ErrReadOnly = errors.New("location is read-only")
	// ErrExists is returned when a declaration with the same name already exists.
	ErrExists = errors.New("declaration already exists")
)

// Scope is where declarations are looked up or created: a directory for
// top-level types, or an enclosing declaration for nested ones.
type Scope struct {
	Dir   *Directory
	Outer *Decl
}

// DirScope returns a top-level scope in dir.
func DirScope(dir *Directory) Scope {
	return Scope{Dir: dir}
}

// NestedScope returns a scope inside outer.
func NestedScope(outer *Decl) Scope {
	return Scope{Outer: outer}
}

// TypeQueries answers read-only questions about types.
type TypeQueries interface {
	ResolveType(qualifiedName string) (*analyze.TypeRef, bool)
	Resolve(t *analyze.TypeRef) (*analyze.TypeInfo, error)
	IsSubtype(sub, super *analyze.TypeRef) bool
	IsContainer(t *analyze.TypeRef) bool
	ElementType(t *analyze.TypeRef) (*analyze.TypeRef, bool)
	HasZeroArgConstructor(t *analyze.TypeRef) bool
}

// Declarations finds and mutates declared types and their members.
// Every mutation is idempotent: re-adding an existing member returns it.
type Declarations interface {
	FindDeclaredType(name string, scope Scope) *Decl
	FindMarkedTypes(marker string) []*Decl
	DeclareType(name string, kind DeclKind, scope Scope) (*Decl, error)
	AddMarker(d *Decl, marker string) bool
	AddSingletonField(d *Decl, field Field) (*Field, bool)
	AddOrReuseMethod(d *Decl, m *Method, same func(*Method) bool) (*Method, bool)
	AddAnnotation(owner Annotated, a *Annotation) bool
	AddOrReplaceDoc(m *Method, text string)
}

// Sources gives access to directories, files and expressions.
type Sources interface {
	Directory(path string) (*Directory, bool)
	Roots() []*Directory
	EnsureSubdirectory(parent *Directory, name, pkg string) (*Directory, error)
	File(path string) (*File, bool)
	Files() []*File
	Sites(path string) ([]Site, int64, error)
	Version(path string) (int64, error)
	ReplaceExpression(exprID, text string) error
	RetypeExpression(exprID string, t *analyze.TypeRef) error
	ShortenReferences(path string, names ...QualifiedName) error
}

// Program is the program model every component works against.
type Program interface {
	TypeQueries
	Declarations
	Sources
}
