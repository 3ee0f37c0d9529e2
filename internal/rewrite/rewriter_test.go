package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assembler-generator/internal/analyze"
	"assembler-generator/internal/holder"
	"assembler-generator/internal/model"
	"assembler-generator/internal/model/modeltest"
	"assembler-generator/internal/workspace"
)

func convertMethod(t *testing.T, m *model.Memory, h *model.Decl, source, target string) *model.Method {
	t.Helper()

	method, _ := m.AddOrReuseMethod(h, &model.Method{
		Name:   "convert",
		Params: []*model.Param{{Name: "source", Type: analyze.MustParseTypeRef(source)}},
		Result: analyze.MustParseTypeRef(target),
	}, func(*model.Method) bool { return false })

	return method
}

func resolve(t *testing.T, m *model.Memory, r holder.Resolver, site model.Site) *model.Decl {
	t.Helper()

	res, err := r.Resolve(holder.Request{File: site.File, Enclosing: site.Enclosing, Target: site.Target})
	require.NoError(t, err)

	return res.Holder
}

func TestRewrite(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		site       string
		enclosing  bool
		want       string
		wantImport model.Import
	}{
		{
			name:       "scope-wide holder in another package",
			path:       modeltest.ServicePath,
			site:       "get-user",
			want:       "assemblers.UserDtoAssembler.Instance.convert(repo.find(id))",
			wantImport: model.Import{Path: "pkg.assemblers", Alias: "assemblers"},
		},
		{
			name:      "enclosing holder in the same package",
			path:      modeltest.ServicePath,
			site:      "get-user",
			enclosing: true,
			want:      "UserService.UserDtoAssembler.Instance.convert(repo.find(id))",
		},
		{
			name:       "module package path",
			path:       modeltest.OrdersPath,
			site:       "view-order",
			want:       "assemblers.OrderViewAssembler.Instance.convert(load())",
			wantImport: model.Import{Path: "example.com/app/internal/orders/assemblers", Alias: "assemblers"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := modeltest.Sample(t)
			site := modeltest.Site(t, m, tt.path, tt.site)

			var r holder.Resolver = holder.NewScopeWide(m, workspace.New(m, workspace.DefaultOptions()), holder.DefaultSettings())
			if tt.enclosing {
				r = holder.NewEnclosing(m, holder.DefaultSettings())
			}

			h := resolve(t, m, r, site)
			method := convertMethod(t, m, h, site.Expr.Type.String(), site.Target.String())

			rw := New(m, holder.DefaultSingleton)
			call, err := rw.Rewrite(site, h, method)
			require.NoError(t, err)
			assert.Equal(t, h.Qualified()+".Instance.convert("+site.Expr.Text+")", call)

			expr, ok := m.Expr(site.Expr.ID)
			require.True(t, ok)
			assert.Equal(t, tt.want, expr.Text)
			assert.Equal(t, site.Target.String(), expr.Type.String())

			if tt.wantImport.Path == "" {
				assert.Empty(t, site.File.Imports)
			} else {
				assert.Contains(t, site.File.Imports, tt.wantImport)
			}
		})
	}
}

func TestRewrite_NothingToCall(t *testing.T) {
	m := modeltest.Sample(t)
	site := modeltest.Site(t, m, modeltest.ServicePath, "get-user")
	version := site.File.Version

	call, err := New(m, holder.DefaultSingleton).Rewrite(site, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, call)

	expr, _ := m.Expr(site.Expr.ID)
	assert.Equal(t, "repo.find(id)", expr.Text)
	assert.Equal(t, version, site.File.Version)
}

func TestRewrite_UnknownExpression(t *testing.T) {
	m := modeltest.Sample(t)
	site := modeltest.Site(t, m, modeltest.ServicePath, "get-user")

	h := resolve(t, m, holder.NewEnclosing(m, holder.DefaultSettings()), site)
	method := convertMethod(t, m, h, "pkg.UserEntity", "pkg.dto.UserDto")

	site.Expr = &model.Expr{ID: "missing", Text: "x"}

	_, err := New(m, holder.DefaultSingleton).Rewrite(site, h, method)
	require.ErrorIs(t, err, model.ErrNotFound)
}
