package diagnostic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assembler-generator/internal/analyze"
	"assembler-generator/internal/holder"
	"assembler-generator/internal/match"
	"assembler-generator/internal/model"
	"assembler-generator/internal/model/modeltest"
)

func newScanner(m *model.Memory) *Scanner {
	return NewScanner(m, match.NewClassifier(m, match.DefaultIgnoreSet()))
}

func siteIDs(findings []Finding) []string {
	ids := make([]string, 0, len(findings))
	for _, f := range findings {
		ids = append(ids, f.Site.ID)
	}

	return ids
}

func TestScanFile(t *testing.T) {
	m := modeltest.Sample(t)

	res, err := newScanner(m).ScanFile(context.Background(), modeltest.ServicePath)
	require.NoError(t, err)

	assert.Equal(t, []string{"get-user", "list-users", "account"}, siteIDs(res.Findings))

	first := res.Findings[0]
	assert.Equal(t, "pkg.UserEntity", first.Source.String())
	assert.Equal(t, "pkg.dto.UserDto", first.Target.String())
	assert.Equal(t, modeltest.ServicePath+"#get-user", first.Location())
	assert.Contains(t, first.Message, "not assignable")
	require.Len(t, first.Fixes, 2)
	assert.Equal(t, holder.KindScopeWide, first.Fixes[0].Strategy)
	assert.Equal(t, holder.KindEnclosing, first.Fixes[1].Strategy)
	assert.Contains(t, first.Fixes[1].Label, "UserService")

	codes := map[string]string{}
	for _, d := range res.Diagnostics.Infos {
		codes[d.Location] = d.Code
	}

	assert.Equal(t, match.VerdictIgnoredStr, codes[modeltest.ServicePath+"#count-users"])
	assert.Equal(t, match.VerdictSubtypeStr, codes[modeltest.ServicePath+"#admin"])
	assert.NotContains(t, codes, modeltest.ServicePath+"#in-lambda")
	assert.NotContains(t, codes, modeltest.ServicePath+"#literal")
	assert.Len(t, res.Diagnostics.Warnings, 3)
	assert.False(t, res.Diagnostics.HasErrors())
}

func TestScanFile_NoEnclosingType(t *testing.T) {
	m := modeltest.Sample(t)

	res, err := newScanner(m).ScanFile(context.Background(), modeltest.OrdersPath)
	require.NoError(t, err)
	require.Len(t, res.Findings, 1)

	f := res.Findings[0]
	require.Len(t, f.Fixes, 1)

	_, ok := f.Fix(holder.KindEnclosing)
	assert.False(t, ok)

	fix, ok := f.Fix(holder.KindScopeWide)
	require.True(t, ok)
	assert.NotEmpty(t, fix.Label)
}

func TestScanFile_UnknownFile(t *testing.T) {
	m := modeltest.Sample(t)

	_, err := newScanner(m).ScanFile(context.Background(), "nope.src")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestScanFiles_ReportsInFileOrder(t *testing.T) {
	m := modeltest.Sample(t)
	var c Collector

	diags, err := newScanner(m).ScanFiles(context.Background(),
		[]string{modeltest.ServicePath, modeltest.OrdersPath, "vendor/lib/Assemblers.src"}, &c)
	require.NoError(t, err)

	assert.Equal(t, []string{"get-user", "list-users", "account", "view-order"}, siteIDs(c.Findings()))
	assert.Len(t, diags.Warnings, 4)
	assert.False(t, diags.HasErrors())
}

func TestScanFiles_StableIDs(t *testing.T) {
	m := modeltest.Sample(t)
	s := newScanner(m)

	var first, second Collector
	_, err := s.ScanFiles(context.Background(), []string{modeltest.ServicePath}, &first)
	require.NoError(t, err)
	_, err = s.ScanFiles(context.Background(), []string{modeltest.ServicePath}, &second)
	require.NoError(t, err)

	a, b := first.Findings(), second.Findings()
	require.Len(t, b, len(a))

	for i := range a {
		assert.Equal(t, a[i].ID, b[i].ID)
	}

	assert.NotEqual(t, a[0].ID, a[1].ID)

	found, ok := second.Lookup(a[2].ID)
	require.True(t, ok)
	assert.Equal(t, "account", found.Site.ID)
}

// changingSource reports a newer version than the one the sites were read at.
type changingSource struct {
	*model.Memory
}

func (c changingSource) Version(filePath string) (int64, error) {
	v, err := c.Memory.Version(filePath)
	return v + 1, err
}

func TestScanFiles_DocumentChanged(t *testing.T) {
	m := modeltest.Sample(t)
	s := NewScanner(changingSource{m}, match.NewClassifier(m, match.DefaultIgnoreSet()))

	var c Collector
	diags, err := s.ScanFiles(context.Background(), []string{modeltest.ServicePath, modeltest.OrdersPath}, &c)
	require.ErrorIs(t, err, ErrDocumentChanged)

	assert.Empty(t, c.Findings())
	assert.True(t, diags.HasErrors())
	assert.Equal(t, CodeScanFailed, diags.Errors[0].Code)
}

// editedSource moves the file to a new version once the sites have been
// read and the first one checked.
type editedSource struct {
	*model.Memory
	calls int
}

func (e *editedSource) Version(filePath string) (int64, error) {
	e.calls++

	v, err := e.Memory.Version(filePath)
	if e.calls > 1 {
		v++
	}

	return v, err
}

// recordingTypes records every type the classifier resolves.
type recordingTypes struct {
	*model.Memory
	resolved []string
}

func (r *recordingTypes) Resolve(t *analyze.TypeRef) (*analyze.TypeInfo, error) {
	r.resolved = append(r.resolved, t.String())
	return r.Memory.Resolve(t)
}

func TestScanFile_StopsAtFirstSiteAfterChange(t *testing.T) {
	m := modeltest.Sample(t)
	types := &recordingTypes{Memory: m}
	s := NewScanner(&editedSource{Memory: m}, match.NewClassifier(types, match.DefaultIgnoreSet()))

	_, err := s.ScanFile(context.Background(), modeltest.ServicePath)
	require.ErrorIs(t, err, ErrDocumentChanged)

	assert.Contains(t, types.resolved, "pkg.dto.UserDto", "the first site is classified")
	assert.NotContains(t, types.resolved, "pkg.dto.AccountDto", "later sites are not")
	assert.NotContains(t, types.resolved, "math/big.Int")
}

func TestScanFile_WarningsCarryFixLabels(t *testing.T) {
	m := modeltest.Sample(t)

	res, err := newScanner(m).ScanFile(context.Background(), modeltest.ServicePath)
	require.NoError(t, err)
	require.Len(t, res.Diagnostics.Warnings, 3)

	w := res.Diagnostics.Warnings[0]
	assert.Equal(t, CodeNeedsConversion, w.Code)
	assert.Equal(t, modeltest.ServicePath+"#get-user", w.Location)
	assert.Equal(t, []string{
		"Generate converter and use it",
		"Generate converter nested in UserService and use it",
	}, w.Suggestions)
	assert.Contains(t, w.String(), " fixes: Generate converter and use it; ")

	for _, info := range res.Diagnostics.Infos {
		assert.Empty(t, info.Suggestions)
	}
}

func TestScanFiles_Canceled(t *testing.T) {
	m := modeltest.Sample(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var c Collector
	_, err := newScanner(m).ScanFiles(ctx, []string{modeltest.ServicePath}, &c)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, c.Findings())
}

func TestScan_DoesNotMutate(t *testing.T) {
	m := modeltest.Sample(t)
	f, ok := m.File(modeltest.ServicePath)
	require.True(t, ok)
	version := f.Version

	_, err := newScanner(m).ScanFiles(context.Background(), []string{modeltest.ServicePath}, &Collector{})
	require.NoError(t, err)

	assert.Equal(t, version, f.Version)
	assert.Len(t, m.Files(), 5)
}

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{Code: "ignored", Message: "target is ignored", TypePair: "a -> b", Location: "f.src#1"}
	assert.Equal(t, "[a -> b] f.src#1: [ignored] target is ignored", d.String())

	var diags Diagnostics
	require.NoError(t, diags.Error())

	diags.AddError("x", "boom", "", "")
	diags.AddInfo("y", "note", "", "")
	assert.Equal(t, 2, diags.Len())
	require.EqualError(t, diags.Error(), "[x] boom")
}
