package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assembler-generator/internal/analyze"
)

const testWorkspace = `
read_only: [lib]
types:
  - name: pkg.List
    params: [E]
    supers: ["builtin.Sequence[E]"]
    interface: true
markers:
  - path: mod/go.mod
    content: "module example.com/mod\n"
files:
  - path: src/pkg/User.src
    package: pkg
    decls:
      - name: User
        zero_arg: true
      - name: Admin
        supers: [pkg.User]
  - path: src/pkg/service/Service.src
    package: pkg.service
    imports:
      - path: other.dto
        alias: dto
    decls:
      - name: Service
        nested:
          - name: Inner
    sites:
      - id: s1
        kind: return
        expr: find()
        type: pkg.User
        target: pkg.dto.UserDto
        enclosing: Service.Inner
        function: get
  - path: lib/Holder.src
    package: lib
    decls:
      - name: UserDtoAssembler
        annotations:
          - name: mapper.Mapper
`

func loadTestWorkspace(t *testing.T) *Memory {
	t.Helper()

	m, err := Parse([]byte(testWorkspace))
	require.NoError(t, err)

	return m
}

func TestParse(t *testing.T) {
	m := loadTestWorkspace(t)

	f, ok := m.File("src/pkg/service/Service.src")
	require.True(t, ok)
	require.Len(t, f.Sites, 1)

	site := f.Sites[0]
	assert.Equal(t, SiteReturn, site.Kind)
	assert.Equal(t, "pkg.service.Service.Inner", site.Enclosing.Qualified())
	assert.Equal(t, "pkg.User", site.Expr.Type.String())
	assert.Same(t, f, site.File)

	user, ok := m.ResolveType("pkg.User")
	require.True(t, ok)
	assert.True(t, m.HasZeroArgConstructor(user))
	assert.True(t, m.IsSubtype(analyze.Class("pkg.Admin"), user))
	assert.True(t, m.IsContainer(analyze.Class("pkg.List", user)))

	_, ok = m.ResolveType("pkg.service.Service.Inner")
	assert.True(t, ok, "nested declarations are types too")

	dir, ok := m.Directory("mod")
	require.True(t, ok)
	content, ok := dir.Marker("go.mod")
	require.True(t, ok)
	assert.Contains(t, string(content), "example.com/mod")

	lib, ok := m.Directory("lib")
	require.True(t, ok)
	assert.False(t, lib.Writable)
	assert.False(t, lib.Files[0].Decls[0].Writable)

	roots := m.Roots()
	require.Len(t, roots, 3)
	assert.Equal(t, []string{"lib", "mod", "src"}, []string{roots[0].Path, roots[1].Path, roots[2].Path})
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "files: [\n"},
		{"bad kind", "files:\n  - path: a/A.src\n    package: a\n    decls:\n      - name: A\n        kind: enum\n"},
		{"bad type", "files:\n  - path: a/A.src\n    package: a\n    sites:\n      - id: x\n        kind: return\n        expr: x\n        type: \"pkg.A[\"\n        target: a.A\n"},
		{"bad site kind", "files:\n  - path: a/A.src\n    package: a\n    sites:\n      - id: x\n        kind: call\n        expr: x\n        type: a.A\n        target: a.A\n"},
		{"unknown enclosing", "files:\n  - path: a/A.src\n    package: a\n    sites:\n      - id: x\n        kind: return\n        expr: x\n        type: a.A\n        target: a.A\n        enclosing: Missing\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestMemory_FindDeclaredType(t *testing.T) {
	m := loadTestWorkspace(t)

	dir, ok := m.Directory("src/pkg")
	require.True(t, ok)

	assert.Equal(t, "pkg.User", m.FindDeclaredType("User", DirScope(dir)).Qualified())
	assert.Nil(t, m.FindDeclaredType("Missing", DirScope(dir)))

	service, ok := m.Lookup("pkg.service.Service")
	require.True(t, ok)
	assert.Equal(t, "Inner", m.FindDeclaredType("Inner", NestedScope(service)).Name)
	assert.Nil(t, m.FindDeclaredType("User", NestedScope(service)))
	assert.Nil(t, m.FindDeclaredType("User", Scope{}))
}

func TestMemory_FindMarkedTypes(t *testing.T) {
	m := loadTestWorkspace(t)

	marked := m.FindMarkedTypes("mapper.Mapper")
	require.Len(t, marked, 1)
	assert.Equal(t, "lib.UserDtoAssembler", marked[0].Qualified())

	assert.Empty(t, m.FindMarkedTypes("mapper.Other"))
}

func TestMemory_DeclareType(t *testing.T) {
	m := loadTestWorkspace(t)

	pkgDir, _ := m.Directory("src/pkg")
	sub, err := m.EnsureSubdirectory(pkgDir, "assemblers", "pkg.assemblers")
	require.NoError(t, err)
	assert.Equal(t, "src/pkg/assemblers", sub.Path)

	again, err := m.EnsureSubdirectory(pkgDir, "assemblers", "ignored")
	require.NoError(t, err)
	assert.Same(t, sub, again)
	assert.Equal(t, "pkg.assemblers", again.Package)

	d, err := m.DeclareType("UserDtoAssembler", KindInterface, DirScope(sub))
	require.NoError(t, err)
	assert.Equal(t, "pkg.assemblers.UserDtoAssembler", d.Qualified())
	assert.Equal(t, "src/pkg/assemblers/UserDtoAssembler.src", d.File.Path)
	assert.True(t, d.Writable)

	info, err := m.Resolve(d.Ref())
	require.NoError(t, err)
	assert.True(t, info.IsInterface)

	_, err = m.DeclareType("UserDtoAssembler", KindInterface, DirScope(sub))
	assert.ErrorIs(t, err, ErrExists)

	service, _ := m.Lookup("pkg.service.Service")
	nested, err := m.DeclareType("UserDtoAssembler", KindInterface, NestedScope(service))
	require.NoError(t, err)
	assert.Equal(t, "pkg.service.Service.UserDtoAssembler", nested.Qualified())
	assert.Same(t, service.File, nested.File)

	lib, _ := m.Directory("lib")
	_, err = m.DeclareType("X", KindInterface, DirScope(lib))
	assert.ErrorIs(t, err, ErrReadOnly)

	_, err = m.EnsureSubdirectory(lib, "assemblers", "lib.assemblers")
	assert.ErrorIs(t, err, ErrReadOnly)

	_, err = m.DeclareType("X", KindInterface, Scope{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_IdempotentMutations(t *testing.T) {
	m := loadTestWorkspace(t)

	holder, _ := m.Lookup("pkg.User")
	version := holder.File.Version

	assert.True(t, m.AddMarker(holder, "mapper.Mapper"))
	assert.False(t, m.AddMarker(holder, "mapper.Mapper"))
	assert.Len(t, holder.Annotations, 1)

	field, added := m.AddSingletonField(holder, Field{Name: "Instance", Static: true, Init: "mappers.Get(User)"})
	assert.True(t, added)
	same, added := m.AddSingletonField(holder, Field{Name: "Instance", Init: "other"})
	assert.False(t, added)
	assert.Same(t, field, same)

	byName := func(name string) func(*Method) bool {
		return func(existing *Method) bool { return existing.Name == name }
	}

	first, added := m.AddOrReuseMethod(holder, &Method{Name: "convert", Params: []*Param{{Name: "p"}}}, byName("convert"))
	require.True(t, added)
	assert.Same(t, holder, first.Decl())

	second, added := m.AddOrReuseMethod(holder, &Method{Name: "convert"}, byName("convert"))
	assert.False(t, added)
	assert.Same(t, first, second)
	assert.Len(t, holder.Methods, 1)

	assert.True(t, m.AddAnnotation(first.Param(0), &Annotation{Name: "lang.Nullable"}))
	assert.False(t, m.AddAnnotation(first.Param(0), &Annotation{Name: "lang.Nullable"}))

	m.AddOrReplaceDoc(first, "doc")
	assert.Equal(t, "doc", first.Doc)

	assert.Greater(t, holder.File.Version, version)
}

func TestMemory_SitesSnapshot(t *testing.T) {
	m := loadTestWorkspace(t)

	sites, version, err := m.Sites("src/pkg/service/Service.src")
	require.NoError(t, err)
	require.Len(t, sites, 1)

	require.NoError(t, m.ReplaceExpression("s1", "convert(find())"))

	assert.Equal(t, "find()", sites[0].Expr.Text, "snapshots are isolated from edits")

	now, err := m.Version("src/pkg/service/Service.src")
	require.NoError(t, err)
	assert.Greater(t, now, version)

	_, _, err = m.Sites("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.ReplaceExpression("missing", "x"), ErrNotFound)
}

func TestMemory_ShortenReferences(t *testing.T) {
	tests := []struct {
		name     string
		expr     string
		refs     []QualifiedName
		expected string
		imports  []Import
	}{
		{
			name:     "same package",
			expr:     "pkg.service.Helper.Instance.convert(find())",
			refs:     []QualifiedName{{Package: "pkg.service", Name: "Helper"}},
			expected: "Helper.Instance.convert(find())",
			imports:  []Import{{Path: "other.dto", Alias: "dto"}},
		},
		{
			name:     "other package",
			expr:     "pkg.assemblers.UserDtoAssembler.Instance.convert(find())",
			refs:     []QualifiedName{{Package: "pkg.assemblers", Name: "UserDtoAssembler"}},
			expected: "assemblers.UserDtoAssembler.Instance.convert(find())",
			imports:  []Import{{Path: "other.dto", Alias: "dto"}, {Path: "pkg.assemblers", Alias: "assemblers"}},
		},
		{
			name:     "alias clash",
			expr:     "pkg.dto.UserDtoAssembler.Instance.convert(find())",
			refs:     []QualifiedName{{Package: "pkg.dto", Name: "UserDtoAssembler"}},
			expected: "dto1.UserDtoAssembler.Instance.convert(find())",
			imports:  []Import{{Path: "other.dto", Alias: "dto"}, {Path: "pkg.dto", Alias: "dto1"}},
		},
		{
			name:     "nested holder",
			expr:     "pkg.service.Service.UserDtoAssembler.Instance.convert(find())",
			refs:     []QualifiedName{{Package: "pkg.service", Name: "Service.UserDtoAssembler"}},
			expected: "Service.UserDtoAssembler.Instance.convert(find())",
			imports:  []Import{{Path: "other.dto", Alias: "dto"}},
		},
		{
			name:     "longer name is untouched",
			expr:     "pkg.assemblers.UserDtoAssemblerImpl.Instance.convert(find())",
			refs:     []QualifiedName{{Package: "pkg.assemblers", Name: "UserDtoAssembler"}},
			expected: "pkg.assemblers.UserDtoAssemblerImpl.Instance.convert(find())",
			imports:  []Import{{Path: "other.dto", Alias: "dto"}},
		},
		{
			name:     "keyword alias",
			expr:     "app.func.Holder.Instance.convert(find())",
			refs:     []QualifiedName{{Package: "app.func", Name: "Holder"}},
			expected: "func_pkg.Holder.Instance.convert(find())",
			imports:  []Import{{Path: "other.dto", Alias: "dto"}, {Path: "app.func", Alias: "func_pkg"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := loadTestWorkspace(t)
			path := "src/pkg/service/Service.src"

			require.NoError(t, m.ReplaceExpression("s1", tt.expr))
			require.NoError(t, m.ShortenReferences(path, tt.refs...))

			f, _ := m.File(path)
			assert.Equal(t, tt.expected, f.Sites[0].Expr.Text)
			assert.Equal(t, tt.imports, f.Imports)
		})
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	m := loadTestWorkspace(t)

	pkgDir, _ := m.Directory("src/pkg")
	sub, err := m.EnsureSubdirectory(pkgDir, "assemblers", "pkg.assemblers")
	require.NoError(t, err)

	holder, err := m.DeclareType("UserDtoAssembler", KindInterface, DirScope(sub))
	require.NoError(t, err)
	m.AddMarker(holder, "mapper.Mapper")
	m.AddOrReuseMethod(holder, &Method{
		Name:        "convert",
		Params:      []*Param{{Name: "user", Type: analyze.Class("pkg.User")}},
		Result:      analyze.Class("pkg.dto.UserDto"),
		Annotations: []*Annotation{{Name: "mapper.Named", Args: []AnnotationArg{{Key: "value", Value: `"tag"`}}}},
		Doc:         "Converts.",
	}, func(*Method) bool { return false })

	data, err := Marshal(m)
	require.NoError(t, err)

	reloaded, err := Parse(data)
	require.NoError(t, err)

	if diff := cmp.Diff(Encode(m), Encode(reloaded)); diff != "" {
		t.Errorf("workspace changed after round trip (-want +got):\n%s", diff)
	}

	again, ok := reloaded.Lookup("pkg.assemblers.UserDtoAssembler")
	require.True(t, ok)
	require.Len(t, again.Methods, 1)
	assert.Equal(t, "pkg.User", again.Methods[0].Params[0].Type.String())
	assert.Same(t, again, again.Methods[0].Decl())

	lib, _ := reloaded.Directory("lib")
	assert.False(t, lib.Writable)
}
