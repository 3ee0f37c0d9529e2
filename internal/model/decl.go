package model

import (
	"strings"

	"assembler-generator/internal/analyze"
	"assembler-generator/internal/common"
)

// DeclKind distinguishes interface declarations from class declarations.
type DeclKind int

const (
	KindClass DeclKind = iota
	KindInterface
)

const (
	KindClassStr     = "class"
	KindInterfaceStr = "interface"
)

// String returns the keyword used for the kind in workspace files.
func (k DeclKind) String() string {
	switch k {
	case KindClass:
		return KindClassStr
	case KindInterface:
		return KindInterfaceStr
	default:
		return common.UnknownStr
	}
}

// ParseDeclKind parses a kind keyword. The empty string means class.
func ParseDeclKind(s string) (DeclKind, bool) {
	switch s {
	case "", KindClassStr:
		return KindClass, true
	case KindInterfaceStr:
		return KindInterface, true
	default:
		return KindClass, false
	}
}

// AnnotationArg is one named annotation argument. Value is source text.
type AnnotationArg struct {
	Key   string
	Value string
}

// Annotation is a marker or annotation attached to a declaration, method or
// parameter. Args keep their declaration order.
type Annotation struct {
	Name string
	Args []AnnotationArg
}

// Arg returns the value of the argument named key.
func (a *Annotation) Arg(key string) (string, bool) {
	for _, arg := range a.Args {
		if arg.Key == key {
			return arg.Value, true
		}
	}

	return "", false
}

// String renders the annotation as @Name(key = value, ...).
func (a *Annotation) String() string {
	if len(a.Args) == 0 {
		return "@" + a.Name
	}

	parts := make([]string, len(a.Args))
	for i, arg := range a.Args {
		if arg.Key == "" {
			parts[i] = arg.Value
		} else {
			parts[i] = arg.Key + " = " + arg.Value
		}
	}

	return "@" + a.Name + "(" + strings.Join(parts, ", ") + ")"
}

// Annotated is implemented by every element that can carry annotations.
type Annotated interface {
	Annotation(name string) *Annotation
	attach(a *Annotation)
	file() *File
}

type annotations []*Annotation

func (as annotations) find(name string) *Annotation {
	for _, a := range as {
		if a.Name == name {
			return a
		}
	}

	return nil
}

// Param is a method parameter.
type Param struct {
	Name        string
	Type        *analyze.TypeRef
	Annotations []*Annotation

	method *Method
}

// Annotation returns the parameter annotation called name, or nil.
func (p *Param) Annotation(name string) *Annotation {
	return annotations(p.Annotations).find(name)
}

func (p *Param) attach(a *Annotation) { p.Annotations = append(p.Annotations, a) }

func (p *Param) file() *File {
	if p.method == nil {
		return nil
	}

	return p.method.file()
}

// Method is a method declaration. Default methods carry a body; the rest are
// signatures implemented by a downstream generator.
type Method struct {
	Name        string
	Params      []*Param
	Result      *analyze.TypeRef
	Annotations []*Annotation
	Doc         string
	Body        []string
	Default     bool

	decl *Decl
}

// Annotation returns the method annotation called name, or nil.
func (m *Method) Annotation(name string) *Annotation {
	return annotations(m.Annotations).find(name)
}

func (m *Method) attach(a *Annotation) { m.Annotations = append(m.Annotations, a) }

func (m *Method) file() *File {
	if m.decl == nil {
		return nil
	}

	return m.decl.File
}

// Decl returns the declaration owning the method, or nil when detached.
func (m *Method) Decl() *Decl {
	return m.decl
}

// Param returns the i-th parameter, or nil.
func (m *Method) Param(i int) *Param {
	if i < 0 || i >= len(m.Params) {
		return nil
	}

	return m.Params[i]
}

func (m *Method) adopt(d *Decl) {
	m.decl = d
	for _, p := range m.Params {
		p.method = m
	}
}

// Field is a field declaration. Static fields with an initializer model the
// singleton accessor of a holder.
type Field struct {
	Name   string
	Type   *analyze.TypeRef
	Static bool
	Init   string
}

// Decl is a declared type: top level in a file, or nested inside Outer.
type Decl struct {
	Name        string
	Package     string
	Kind        DeclKind
	Params      []string
	Supers      []*analyze.TypeRef
	ZeroArg     bool
	Annotations []*Annotation
	Fields      []*Field
	Methods     []*Method
	Nested      []*Decl
	Outer       *Decl
	File        *File
	Writable    bool
}

// Annotation returns the declaration annotation called name, or nil.
func (d *Decl) Annotation(name string) *Annotation {
	return annotations(d.Annotations).find(name)
}

func (d *Decl) attach(a *Annotation) { d.Annotations = append(d.Annotations, a) }

func (d *Decl) file() *File { return d.File }

// LocalName is the name inside the package: Outer.Inner for nested types.
func (d *Decl) LocalName() string {
	if d.Outer == nil {
		return d.Name
	}

	return d.Outer.LocalName() + "." + d.Name
}

// Qualified returns the fully qualified name.
func (d *Decl) Qualified() string {
	return QualifiedName{Package: d.Package, Name: d.LocalName()}.String()
}

// QualifiedName returns the package and local name of the declaration.
func (d *Decl) QualifiedName() QualifiedName {
	return QualifiedName{Package: d.Package, Name: d.LocalName()}
}

// Ref returns a reference to the declared type.
func (d *Decl) Ref() *analyze.TypeRef {
	return analyze.Class(d.Qualified())
}

// Field returns the field called name, or nil.
func (d *Decl) Field(name string) *Field {
	for _, f := range d.Fields {
		if f.Name == name {
			return f
		}
	}

	return nil
}

// MethodsNamed returns the methods called name in declaration order.
func (d *Decl) MethodsNamed(name string) []*Method {
	var out []*Method

	for _, m := range d.Methods {
		if m.Name == name {
			out = append(out, m)
		}
	}

	return out
}

// TopLevel reports whether the declaration is not nested.
func (d *Decl) TopLevel() bool {
	return d.Outer == nil
}

func (d *Decl) walk(fn func(*Decl)) {
	fn(d)

	for _, n := range d.Nested {
		n.walk(fn)
	}
}

// QualifiedName is a package plus a name local to that package.
type QualifiedName struct {
	Package string
	Name    string
}

// String joins the package and local name with a dot.
func (q QualifiedName) String() string {
	if q.Package == "" {
		return q.Name
	}

	return q.Package + "." + q.Name
}
