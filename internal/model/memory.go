package model

import (
	"fmt"
	"path"
	"sort"
	"sync"

	"assembler-generator/internal/analyze"
)

// DefaultFileExt is the extension of files created for new declarations.
const DefaultFileExt = ".src"

// Memory is an in-memory Program backed by a TypeGraph.
// It is safe for concurrent use; callers that need several mutations to be
// atomic must serialize them themselves.
type Memory struct {
	mu       sync.RWMutex
	graph    *analyze.TypeGraph
	dirs     map[string]*Directory
	files    map[string]*File
	exprs    map[string]*Expr
	exprFile map[string]*File
	external []analyze.TypeID
	fileExt  string
}

var _ Program = (*Memory)(nil)

// NewMemory creates an empty program model. A nil graph starts from
// analyze.NewTypeGraph.
func NewMemory(graph *analyze.TypeGraph) *Memory {
	if graph == nil {
		graph = analyze.NewTypeGraph()
	}

	return &Memory{
		graph:    graph,
		dirs:     make(map[string]*Directory),
		files:    make(map[string]*File),
		exprs:    make(map[string]*Expr),
		exprFile: make(map[string]*File),
		fileExt:  DefaultFileExt,
	}
}

// SetFileExt sets the extension used for files created by DeclareType.
func (m *Memory) SetFileExt(ext string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.fileExt = ext
}

// Graph returns the underlying type graph.
func (m *Memory) Graph() *analyze.TypeGraph {
	return m.graph
}

// DeclareExternal adds a library type that has no source in the workspace.
func (m *Memory) DeclareExternal(info *analyze.TypeInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.graph.Types[info.ID]; !ok {
		m.external = append(m.external, info.ID)
	}

	m.graph.Add(info)
}

// AddDirectory ensures a writable directory and its ancestors exist.
func (m *Memory) AddDirectory(dirPath string) *Directory {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.ensureDir(path.Clean(dirPath))
}

// AddMarkerFile records a non-source file, such as go.mod, in a directory.
func (m *Memory) AddMarkerFile(filePath string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	dir := m.ensureDir(path.Dir(path.Clean(filePath)))
	dir.Markers[path.Base(filePath)] = content
}

// SetReadOnly marks the directory at prefix, everything below it and the
// declarations in those files as read-only.
func (m *Memory) SetReadOnly(prefix string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prefix = path.Clean(prefix)
	for p, d := range m.dirs {
		if p != prefix && !isBelow(p, prefix) {
			continue
		}

		d.Writable = false
		for _, f := range d.Files {
			for _, decl := range f.Decls {
				decl.walk(func(n *Decl) { n.Writable = false })
			}
		}
	}
}

// AddFile registers a file with its declarations and sites. Decl, Method and
// Site back-references are filled in, and every declaration is added to the
// type graph.
func (m *Memory) AddFile(f *File) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f.Path = path.Clean(f.Path)
	if _, ok := m.files[f.Path]; ok {
		return fmt.Errorf("file %s: %w", f.Path, ErrExists)
	}

	dir := m.ensureDir(path.Dir(f.Path))
	if dir.Package == "" {
		dir.Package = f.Package
	}

	f.Dir = dir
	dir.Files = append(dir.Files, f)
	m.files[f.Path] = f

	for _, d := range f.Decls {
		m.adoptDecl(d, f, nil)
	}

	for _, s := range f.Sites {
		if s.Expr == nil {
			return fmt.Errorf("site %s in %s has no expression", s.ID, f.Path)
		}

		s.File = f
		m.exprs[s.Expr.ID] = s.Expr
		m.exprFile[s.Expr.ID] = f
	}

	return nil
}

func (m *Memory) adoptDecl(d *Decl, f *File, outer *Decl) {
	d.File = f
	d.Package = f.Package
	d.Outer = outer
	d.Writable = f.Writable()

	for _, meth := range d.Methods {
		meth.adopt(d)
	}

	m.graph.Add(&analyze.TypeInfo{
		ID:             analyze.SplitQualified(d.Qualified()),
		Params:         d.Params,
		Supers:         d.Supers,
		IsInterface:    d.Kind == KindInterface,
		HasZeroArgCtor: d.Kind == KindClass && d.ZeroArg,
	})

	for _, n := range d.Nested {
		m.adoptDecl(n, f, d)
	}
}

func (m *Memory) ensureDir(p string) *Directory {
	if d, ok := m.dirs[p]; ok {
		return d
	}

	d := &Directory{Path: p, Writable: true, Markers: make(map[string][]byte)}
	m.dirs[p] = d

	if parentPath := path.Dir(p); parentPath != p && parentPath != "." && parentPath != "/" {
		parent := m.ensureDir(parentPath)
		d.Parent = parent
		d.Writable = parent.Writable
		parent.addChild(d)
	}

	return d
}

func isBelow(p, prefix string) bool {
	return len(p) > len(prefix) && p[:len(prefix)] == prefix && p[len(prefix)] == '/'
}

func touch(f *File) {
	if f != nil {
		f.Version++
	}
}

// ResolveType returns a reference to the declared type with the given name.
func (m *Memory) ResolveType(qualifiedName string) (*analyze.TypeRef, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info, ok := m.graph.Lookup(qualifiedName)
	if !ok {
		return nil, false
	}

	return info.Ref(), true
}

// Resolve returns the declaration a class reference points to.
func (m *Memory) Resolve(t *analyze.TypeRef) (*analyze.TypeInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.graph.Resolve(t)
}

// IsSubtype reports whether sub inherits from super.
func (m *Memory) IsSubtype(sub, super *analyze.TypeRef) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.graph.IsSubtype(sub, super)
}

// IsContainer reports whether t is a container type.
func (m *Memory) IsContainer(t *analyze.TypeRef) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.graph.IsContainer(t)
}

// ElementType returns the element type of a container reference.
func (m *Memory) ElementType(t *analyze.TypeRef) (*analyze.TypeRef, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.graph.ElementType(t)
}

// HasZeroArgConstructor reports whether t can be created without arguments.
func (m *Memory) HasZeroArgConstructor(t *analyze.TypeRef) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.graph.HasZeroArgConstructor(t)
}

// FindDeclaredType looks up a declaration by simple name in scope.
func (m *Memory) FindDeclaredType(name string, scope Scope) *Decl {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if scope.Outer != nil {
		for _, n := range scope.Outer.Nested {
			if n.Name == name {
				return n
			}
		}

		return nil
	}

	if scope.Dir == nil {
		return nil
	}

	for _, f := range scope.Dir.Files {
		if d := f.Decl(name); d != nil {
			return d
		}
	}

	return nil
}

// FindMarkedTypes returns every declaration carrying marker, ordered by
// qualified name.
func (m *Memory) FindMarkedTypes(marker string) []*Decl {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Decl

	for _, f := range m.files {
		for _, d := range f.Decls {
			d.walk(func(n *Decl) {
				if n.Annotation(marker) != nil {
					out = append(out, n)
				}
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Qualified() < out[j].Qualified()
	})

	return out
}

// Lookup returns the declaration with the given qualified name.
func (m *Memory) Lookup(qualified string) (*Decl, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, f := range m.files {
		for _, d := range f.Decls {
			var found *Decl

			d.walk(func(n *Decl) {
				if found == nil && n.Qualified() == qualified {
					found = n
				}
			})

			if found != nil {
				return found, true
			}
		}
	}

	return nil, false
}

// DeclareType creates a declaration. Top-level declarations get a file of
// their own named after the type.
func (m *Memory) DeclareType(name string, kind DeclKind, scope Scope) (*Decl, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := &Decl{Name: name, Kind: kind, Writable: true}

	switch {
	case scope.Outer != nil:
		outer := scope.Outer
		if !outer.Writable {
			return nil, fmt.Errorf("declare %s in %s: %w", name, outer.Qualified(), ErrReadOnly)
		}

		for _, n := range outer.Nested {
			if n.Name == name {
				return nil, fmt.Errorf("declare %s in %s: %w", name, outer.Qualified(), ErrExists)
			}
		}

		d.Outer = outer
		d.File = outer.File
		d.Package = outer.Package
		outer.Nested = append(outer.Nested, d)
	case scope.Dir != nil:
		dir := scope.Dir
		if !dir.Writable {
			return nil, fmt.Errorf("declare %s in %s: %w", name, dir.Path, ErrReadOnly)
		}

		for _, f := range dir.Files {
			if f.Decl(name) != nil {
				return nil, fmt.Errorf("declare %s in %s: %w", name, dir.Path, ErrExists)
			}
		}

		filePath := path.Join(dir.Path, name+m.fileExt)

		f, ok := m.files[filePath]
		if !ok {
			f = &File{Path: filePath, Package: dir.Package, Dir: dir}
			dir.Files = append(dir.Files, f)
			m.files[filePath] = f
		}

		d.File = f
		d.Package = f.Package
		f.Decls = append(f.Decls, d)
	default:
		return nil, fmt.Errorf("declare %s: empty scope: %w", name, ErrNotFound)
	}

	m.graph.Add(&analyze.TypeInfo{
		ID:          analyze.SplitQualified(d.Qualified()),
		IsInterface: kind == KindInterface,
	})
	touch(d.File)

	return d, nil
}

// AddMarker attaches the marker annotation unless present.
func (m *Memory) AddMarker(d *Decl, marker string) bool {
	return m.AddAnnotation(d, &Annotation{Name: marker})
}

// AddSingletonField adds field unless d already has a field with that name.
func (m *Memory) AddSingletonField(d *Decl, field Field) (*Field, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing := d.Field(field.Name); existing != nil {
		return existing, false
	}

	f := field
	d.Fields = append(d.Fields, &f)
	touch(d.File)

	return &f, true
}

// AddOrReuseMethod returns the first member of d accepted by same, or appends
// method when there is none. The boolean reports whether method was added.
func (m *Memory) AddOrReuseMethod(d *Decl, method *Method, same func(*Method) bool) (*Method, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range d.Methods {
		if same(existing) {
			return existing, false
		}
	}

	method.adopt(d)
	d.Methods = append(d.Methods, method)
	touch(d.File)

	return method, true
}

// AddAnnotation attaches a unless owner already has an annotation with the
// same name.
func (m *Memory) AddAnnotation(owner Annotated, a *Annotation) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if owner.Annotation(a.Name) != nil {
		return false
	}

	owner.attach(a)
	touch(owner.file())

	return true
}

// AddOrReplaceDoc sets the documentation of a method.
func (m *Memory) AddOrReplaceDoc(method *Method, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if method.Doc == text {
		return
	}

	method.Doc = text
	touch(method.file())
}

// Directory returns the directory at dirPath.
func (m *Memory) Directory(dirPath string) (*Directory, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.dirs[path.Clean(dirPath)]

	return d, ok
}

// Roots returns the top-level directories ordered by path.
func (m *Memory) Roots() []*Directory {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Directory

	for _, d := range m.dirs {
		if d.Parent == nil {
			out = append(out, d)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })

	return out
}

// EnsureSubdirectory returns the child of parent called name, creating it
// with package pkg when missing.
func (m *Memory) EnsureSubdirectory(parent *Directory, name, pkg string) (*Directory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if parent == nil {
		return nil, fmt.Errorf("subdirectory %s: %w", name, ErrNotFound)
	}

	if child := parent.Child(name); child != nil {
		if child.Package == "" {
			child.Package = pkg
		}

		return child, nil
	}

	if !parent.Writable {
		return nil, fmt.Errorf("subdirectory %s of %s: %w", name, parent.Path, ErrReadOnly)
	}

	child := m.ensureDir(path.Join(parent.Path, name))
	child.Package = pkg

	return child, nil
}

// File returns the file at filePath.
func (m *Memory) File(filePath string) (*File, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.files[path.Clean(filePath)]

	return f, ok
}

// Files returns all files ordered by path.
func (m *Memory) Files() []*File {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*File, 0, len(m.files))
	for _, f := range m.files {
		out = append(out, f)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })

	return out
}

// Sites returns a snapshot of the sites of a file and the file version the
// snapshot was taken at.
func (m *Memory) Sites(filePath string) ([]Site, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.files[path.Clean(filePath)]
	if !ok {
		return nil, 0, fmt.Errorf("file %s: %w", filePath, ErrNotFound)
	}

	out := make([]Site, len(f.Sites))
	for i, s := range f.Sites {
		expr := *s.Expr
		out[i] = *s
		out[i].Expr = &expr
	}

	return out, f.Version, nil
}

// Version returns the current version of a file.
func (m *Memory) Version(filePath string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.files[path.Clean(filePath)]
	if !ok {
		return 0, fmt.Errorf("file %s: %w", filePath, ErrNotFound)
	}

	return f.Version, nil
}

// ReplaceExpression replaces the text of an expression.
func (m *Memory) ReplaceExpression(exprID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	expr, ok := m.exprs[exprID]
	if !ok {
		return fmt.Errorf("expression %s: %w", exprID, ErrNotFound)
	}

	f := m.exprFile[exprID]
	if !f.Writable() {
		return fmt.Errorf("expression %s in %s: %w", exprID, f.Path, ErrReadOnly)
	}

	if expr.Text == text {
		return nil
	}

	expr.Text = text
	touch(f)

	return nil
}

// RetypeExpression records the static type of an expression after its text
// was replaced.
func (m *Memory) RetypeExpression(exprID string, t *analyze.TypeRef) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	expr, ok := m.exprs[exprID]
	if !ok {
		return fmt.Errorf("expression %s: %w", exprID, ErrNotFound)
	}

	f := m.exprFile[exprID]
	if !f.Writable() {
		return fmt.Errorf("expression %s in %s: %w", exprID, f.Path, ErrReadOnly)
	}

	if expr.Type.Equal(t) {
		return nil
	}

	expr.Type = t
	touch(f)

	return nil
}

// Expr returns the expression with the given ID.
func (m *Memory) Expr(exprID string) (*Expr, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.exprs[exprID]

	return e, ok
}
