package model

import (
	"path"
	"sort"

	"assembler-generator/internal/analyze"
	"assembler-generator/internal/common"
)

// Directory is a node of the workspace tree.
type Directory struct {
	Path     string
	Package  string // package of files created here; empty until known
	Parent   *Directory
	Children []*Directory
	Files    []*File
	Markers  map[string][]byte // non-source files by base name, e.g. go.mod
	Writable bool
}

// Name returns the last element of the directory path.
func (d *Directory) Name() string {
	return path.Base(d.Path)
}

// Child returns the direct subdirectory called name, or nil.
func (d *Directory) Child(name string) *Directory {
	for _, c := range d.Children {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

// Marker returns the content of a marker file in this directory.
func (d *Directory) Marker(name string) ([]byte, bool) {
	content, ok := d.Markers[name]
	return content, ok
}

func (d *Directory) addChild(c *Directory) {
	d.Children = append(d.Children, c)
	sort.Slice(d.Children, func(i, j int) bool {
		return d.Children[i].Path < d.Children[j].Path
	})
}

// Import is an import of another package into a file.
type Import struct {
	Path  string
	Alias string
}

// File is a source file holding declarations and inspected sites.
type File struct {
	Path    string
	Package string
	Dir     *Directory
	Imports []Import
	Decls   []*Decl
	Sites   []*Site
	Version int64 // incremented on every mutation
}

// Decl returns the top-level declaration called name, or nil.
func (f *File) Decl(name string) *Decl {
	for _, d := range f.Decls {
		if d.Name == name {
			return d
		}
	}

	return nil
}

// Lookup finds a declaration by local name ("Outer.Inner").
func (f *File) Lookup(localName string) *Decl {
	var found *Decl

	for _, d := range f.Decls {
		d.walk(func(n *Decl) {
			if found == nil && n.LocalName() == localName {
				found = n
			}
		})
	}

	return found
}

// ImportAlias returns the alias used for importPath.
func (f *File) ImportAlias(importPath string) (string, bool) {
	for _, imp := range f.Imports {
		if imp.Path == importPath {
			return imp.Alias, true
		}
	}

	return "", false
}

// Writable reports whether the file lives in a writable directory.
func (f *File) Writable() bool {
	return f.Dir != nil && f.Dir.Writable
}

// Expr is an expression in a file whose text can be replaced.
type Expr struct {
	ID   string
	Text string
	Type *analyze.TypeRef // static type of the expression
}

// SiteKind is the syntactic position of an inspected expression.
type SiteKind int

const (
	// SiteReturn is the value of a return statement; its target is the
	// enclosing function's declared result type.
	SiteReturn SiteKind = iota
	// SiteDeclaration is the initializer of a local variable declaration;
	// its target is the declared variable type.
	SiteDeclaration
)

const (
	SiteReturnStr      = "return"
	SiteDeclarationStr = "declaration"
)

// String returns the keyword used for the kind in workspace files.
func (k SiteKind) String() string {
	switch k {
	case SiteReturn:
		return SiteReturnStr
	case SiteDeclaration:
		return SiteDeclarationStr
	default:
		return common.UnknownStr
	}
}

// ParseSiteKind parses a site kind keyword.
func ParseSiteKind(s string) (SiteKind, bool) {
	switch s {
	case SiteReturnStr:
		return SiteReturn, true
	case SiteDeclarationStr:
		return SiteDeclaration, true
	default:
		return SiteReturn, false
	}
}

// Site is an expression together with the type it is assigned to.
type Site struct {
	ID        string
	Kind      SiteKind
	File      *File
	Expr      *Expr
	Target    *analyze.TypeRef
	Enclosing *Decl  // innermost enclosing declared type, if any
	Function  string // enclosing function name
	InLambda  bool   // return statement nested in a closure
	Literal   bool   // initializer is a literal
	Missing   bool   // declaration without an initializer
}
