package model

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"assembler-generator/internal/analyze"
)

// LoadFile loads a workspace YAML file into a Memory program model.
func LoadFile(path string) (*Memory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workspace file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses workspace YAML into a Memory program model.
func Parse(data []byte) (*Memory, error) {
	var wf WorkspaceFile

	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("failed to parse workspace YAML: %w", err)
	}

	return Build(&wf)
}

// Build creates a Memory program model from a decoded workspace file.
func Build(wf *WorkspaceFile) (*Memory, error) {
	m := NewMemory(nil)
	if wf.FileExt != "" {
		m.SetFileExt(wf.FileExt)
	}

	for _, t := range wf.Types {
		supers, err := parseRefs(t.Supers, t.Params)
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", t.Name, err)
		}

		m.DeclareExternal(&analyze.TypeInfo{
			ID:             analyze.SplitQualified(t.Name),
			Params:         t.Params,
			Supers:         supers,
			IsInterface:    t.Interface,
			HasZeroArgCtor: t.ZeroArg && !t.Interface,
		})
	}

	for _, d := range wf.Directories {
		m.AddDirectory(d)
	}

	for _, mk := range wf.Markers {
		m.AddMarkerFile(mk.Path, []byte(mk.Content))
	}

	for _, fy := range wf.Files {
		f, err := buildFile(fy)
		if err != nil {
			return nil, fmt.Errorf("file %s: %w", fy.Path, err)
		}

		if err := m.AddFile(f); err != nil {
			return nil, err
		}
	}

	for _, prefix := range wf.ReadOnly {
		m.SetReadOnly(prefix)
	}

	return m, nil
}

func buildFile(fy FileYAML) (*File, error) {
	f := &File{Path: fy.Path, Package: fy.Package, Version: fy.Version}

	for _, imp := range fy.Imports {
		f.Imports = append(f.Imports, Import(imp))
	}

	for _, dy := range fy.Decls {
		d, err := buildDecl(dy)
		if err != nil {
			return nil, err
		}

		f.Decls = append(f.Decls, d)
	}

	for _, sy := range fy.Sites {
		s, err := buildSite(f, sy)
		if err != nil {
			return nil, fmt.Errorf("site %s: %w", sy.ID, err)
		}

		f.Sites = append(f.Sites, s)
	}

	return f, nil
}

func buildDecl(dy DeclYAML) (*Decl, error) {
	kind, ok := ParseDeclKind(dy.Kind)
	if !ok {
		return nil, fmt.Errorf("decl %s: unknown kind %q", dy.Name, dy.Kind)
	}

	supers, err := parseRefs(dy.Supers, dy.Params)
	if err != nil {
		return nil, fmt.Errorf("decl %s: %w", dy.Name, err)
	}

	d := &Decl{
		Name:        dy.Name,
		Kind:        kind,
		Params:      dy.Params,
		Supers:      supers,
		ZeroArg:     dy.ZeroArg,
		Annotations: buildAnnotations(dy.Annotations),
	}

	for _, fy := range dy.Fields {
		t, err := parseRef(fy.Type, dy.Params)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", dy.Name, fy.Name, err)
		}

		d.Fields = append(d.Fields, &Field{Name: fy.Name, Type: t, Static: fy.Static, Init: fy.Init})
	}

	for _, my := range dy.Methods {
		meth, err := buildMethod(my, dy.Params)
		if err != nil {
			return nil, fmt.Errorf("method %s.%s: %w", dy.Name, my.Name, err)
		}

		d.Methods = append(d.Methods, meth)
	}

	for _, ny := range dy.Nested {
		n, err := buildDecl(ny)
		if err != nil {
			return nil, err
		}

		n.Outer = d
		d.Nested = append(d.Nested, n)
	}

	return d, nil
}

func buildMethod(my MethodYAML, params []string) (*Method, error) {
	result, err := parseRef(my.Result, params)
	if err != nil {
		return nil, err
	}

	meth := &Method{
		Name:        my.Name,
		Result:      result,
		Annotations: buildAnnotations(my.Annotations),
		Doc:         my.Doc,
		Body:        my.Body,
		Default:     my.Default,
	}

	for _, py := range my.Params {
		t, err := parseRef(py.Type, params)
		if err != nil {
			return nil, fmt.Errorf("param %s: %w", py.Name, err)
		}

		meth.Params = append(meth.Params, &Param{
			Name:        py.Name,
			Type:        t,
			Annotations: buildAnnotations(py.Annotations),
		})
	}

	return meth, nil
}

func buildAnnotations(ays []AnnotationYAML) []*Annotation {
	var out []*Annotation

	for _, ay := range ays {
		a := &Annotation{Name: ay.Name}
		for _, arg := range ay.Args {
			a.Args = append(a.Args, AnnotationArg(arg))
		}

		out = append(out, a)
	}

	return out
}

func buildSite(f *File, sy SiteYAML) (*Site, error) {
	kind, ok := ParseSiteKind(sy.Kind)
	if !ok {
		return nil, fmt.Errorf("unknown site kind %q", sy.Kind)
	}

	exprType, err := parseRef(sy.Type, nil)
	if err != nil {
		return nil, err
	}

	target, err := parseRef(sy.Target, nil)
	if err != nil {
		return nil, err
	}

	s := &Site{
		ID:       sy.ID,
		Kind:     kind,
		Expr:     &Expr{ID: sy.ID, Text: sy.Expr, Type: exprType},
		Target:   target,
		Function: sy.Function,
		InLambda: sy.InLambda,
		Literal:  sy.Literal,
		Missing:  sy.Missing,
	}

	if sy.Enclosing != "" {
		s.Enclosing = f.Lookup(sy.Enclosing)
		if s.Enclosing == nil {
			return nil, fmt.Errorf("enclosing type %s is not declared in the file", sy.Enclosing)
		}
	}

	return s, nil
}

func parseRef(s string, params []string) (*analyze.TypeRef, error) {
	if s == "" {
		return nil, nil
	}

	return analyze.ParseTypeRef(s, params...)
}

func parseRefs(ss []string, params []string) ([]*analyze.TypeRef, error) {
	out := make([]*analyze.TypeRef, 0, len(ss))

	for _, s := range ss {
		ref, err := analyze.ParseTypeRef(s, params...)
		if err != nil {
			return nil, err
		}

		out = append(out, ref)
	}

	return out, nil
}

// Encode converts the current state of a Memory program model back into a
// workspace file.
func Encode(m *Memory) *WorkspaceFile {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wf := &WorkspaceFile{}
	if m.fileExt != DefaultFileExt {
		wf.FileExt = m.fileExt
	}

	for _, id := range m.external {
		info := m.graph.Types[id]
		wf.Types = append(wf.Types, TypeYAML{
			Name:      id.String(),
			Params:    info.Params,
			Supers:    refStrings(info.Supers),
			Interface: info.IsInterface,
			ZeroArg:   info.HasZeroArgCtor,
		})
	}

	paths := make([]string, 0, len(m.dirs))
	for p := range m.dirs {
		paths = append(paths, p)
	}

	sort.Strings(paths)

	for _, p := range paths {
		d := m.dirs[p]

		if len(d.Files) == 0 && len(d.Children) == 0 {
			wf.Directories = append(wf.Directories, p)
		}

		if !d.Writable && (d.Parent == nil || d.Parent.Writable) {
			wf.ReadOnly = append(wf.ReadOnly, p)
		}

		names := make([]string, 0, len(d.Markers))
		for name := range d.Markers {
			names = append(names, name)
		}

		sort.Strings(names)

		for _, name := range names {
			wf.Markers = append(wf.Markers, MarkerYAML{Path: p + "/" + name, Content: string(d.Markers[name])})
		}
	}

	filePaths := make([]string, 0, len(m.files))
	for p := range m.files {
		filePaths = append(filePaths, p)
	}

	sort.Strings(filePaths)

	for _, p := range filePaths {
		wf.Files = append(wf.Files, encodeFile(m.files[p]))
	}

	return wf
}

func encodeFile(f *File) FileYAML {
	fy := FileYAML{Path: f.Path, Package: f.Package, Version: f.Version}

	for _, imp := range f.Imports {
		fy.Imports = append(fy.Imports, ImportYAML(imp))
	}

	for _, d := range f.Decls {
		fy.Decls = append(fy.Decls, encodeDecl(d))
	}

	for _, s := range f.Sites {
		sy := SiteYAML{
			ID:       s.ID,
			Kind:     s.Kind.String(),
			Expr:     s.Expr.Text,
			Type:     refString(s.Expr.Type),
			Target:   refString(s.Target),
			Function: s.Function,
			InLambda: s.InLambda,
			Literal:  s.Literal,
			Missing:  s.Missing,
		}
		if s.Enclosing != nil {
			sy.Enclosing = s.Enclosing.LocalName()
		}

		fy.Sites = append(fy.Sites, sy)
	}

	return fy
}

func encodeDecl(d *Decl) DeclYAML {
	dy := DeclYAML{
		Name:        d.Name,
		Params:      d.Params,
		Supers:      refStrings(d.Supers),
		ZeroArg:     d.ZeroArg,
		Annotations: encodeAnnotations(d.Annotations),
	}

	if d.Kind != KindClass {
		dy.Kind = d.Kind.String()
	}

	for _, f := range d.Fields {
		dy.Fields = append(dy.Fields, FieldYAML{Name: f.Name, Type: refString(f.Type), Static: f.Static, Init: f.Init})
	}

	for _, meth := range d.Methods {
		my := MethodYAML{
			Name:        meth.Name,
			Result:      refString(meth.Result),
			Annotations: encodeAnnotations(meth.Annotations),
			Doc:         meth.Doc,
			Body:        meth.Body,
			Default:     meth.Default,
		}

		for _, p := range meth.Params {
			my.Params = append(my.Params, ParamYAML{
				Name:        p.Name,
				Type:        refString(p.Type),
				Annotations: encodeAnnotations(p.Annotations),
			})
		}

		dy.Methods = append(dy.Methods, my)
	}

	for _, n := range d.Nested {
		dy.Nested = append(dy.Nested, encodeDecl(n))
	}

	return dy
}

func encodeAnnotations(as []*Annotation) []AnnotationYAML {
	var out []AnnotationYAML

	for _, a := range as {
		ay := AnnotationYAML{Name: a.Name}
		for _, arg := range a.Args {
			ay.Args = append(ay.Args, ArgYAML(arg))
		}

		out = append(out, ay)
	}

	return out
}

func refString(t *analyze.TypeRef) string {
	if t == nil {
		return ""
	}

	return t.String()
}

func refStrings(ts []*analyze.TypeRef) []string {
	var out []string
	for _, t := range ts {
		out = append(out, t.String())
	}

	return out
}

// Marshal serializes the current state of a Memory program model to YAML.
func Marshal(m *Memory) ([]byte, error) {
	return yaml.Marshal(Encode(m))
}

// WriteFile writes the current state of a Memory program model to path.
func WriteFile(m *Memory, path string) error {
	data, err := Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal workspace: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write workspace file %s: %w", path, err)
	}

	return nil
}
