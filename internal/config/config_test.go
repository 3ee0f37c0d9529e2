package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assembler-generator/internal/analyze"
	"assembler-generator/internal/holder"
	"assembler-generator/internal/match"
	"assembler-generator/internal/workspace"
)

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, "Assembler", c.Naming.Suffix)
	assert.Equal(t, workspace.DefaultSubdirectory, c.Host.Subdirectory)
	assert.Equal(t, workspace.DefaultSourceRoots, c.Host.SourceRoots)
	assert.Equal(t, []string{"go.mod"}, c.Host.RootMarkers)
	assert.Equal(t, holder.DefaultSingleton, c.Holder.Singleton)
	assert.Equal(t, holder.DefaultMarker, c.Annotations.Marker)
	assert.Equal(t, match.DefaultMaxContainerDepth, *c.Classifier.MaxContainerDepth)
	assert.Equal(t, analyze.SliceName, c.ListType)
	assert.True(t, *c.IgnoreDefaults)

	settings := c.FixSettings()
	assert.Equal(t, match.DefaultIgnoreSet().Names(), settings.Ignore.Names())
	assert.Equal(t, "UserDtoAssembler", settings.Holder.Naming.HolderName(analyze.MustParseTypeRef("pkg.dto.UserDto")))
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte(`
naming:
  suffix: Mapper
host:
  subdirectory: mappers
  source_roots: [src]
holder:
  singleton: INSTANCE
  factory: Mappers.getMapper
annotations:
  marker: org.mapstruct.Mapper
ignore: [pkg.Money]
classifier:
  max_container_depth: 0
list_type: java.util.List
`))
	require.NoError(t, err)

	assert.Equal(t, "Mapper", c.Naming.Suffix)
	assert.Equal(t, []string{"src"}, c.Host.SourceRoots)
	assert.Equal(t, []string{"go.mod"}, c.Host.RootMarkers, "unset lists take their default")

	hs := c.HolderSettings()
	assert.Equal(t, "INSTANCE", hs.Singleton)
	assert.Equal(t, "Mappers.getMapper", hs.Factory)
	assert.Equal(t, "org.mapstruct.Mapper", hs.Marker)
	assert.Equal(t, "UserDtoMapper", hs.Naming.HolderName(analyze.MustParseTypeRef("pkg.dto.UserDto")))

	ss := c.SynthSettings()
	assert.Equal(t, "java.util.List", ss.ListType)
	assert.Equal(t, "lang.Nullable", ss.Annotations.Nullable)

	ignore := c.IgnoreSet()
	assert.True(t, ignore.Contains("pkg.Money"))
	assert.True(t, ignore.Contains("time.Time"))

	assert.Equal(t, 0, c.FixSettings().MaxContainerDepth)
	assert.Equal(t, "mappers", c.WorkspaceOptions().Subdirectory)
}

func TestParse_IgnoreDefaultsOff(t *testing.T) {
	c, err := Parse([]byte("ignore_defaults: false\nignore: [pkg.Money]\n"))
	require.NoError(t, err)

	ignore := c.IgnoreSet()
	assert.True(t, ignore.Contains("pkg.Money"))
	assert.False(t, ignore.Contains("math/big.Int"))
	assert.Equal(t, 1, ignore.Len())
}

func TestParse_Empty(t *testing.T) {
	c, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		invalid bool
	}{
		{name: "unknown field", yaml: "nmaing: {suffix: X}\n"},
		{name: "bad yaml", yaml: "naming: [\n"},
		{name: "suffix", yaml: "naming: {suffix: 'Bad Suffix'}\n", invalid: true},
		{name: "subdirectory path", yaml: "host: {subdirectory: a/b}\n", invalid: true},
		{name: "no roots", yaml: "host: {source_roots: [], root_markers: []}\n", invalid: true},
		{name: "singleton", yaml: "holder: {singleton: '1st'}\n", invalid: true},
		{name: "negative depth", yaml: "classifier: {max_container_depth: -1}\n", invalid: true},
		{name: "nested depth", yaml: "classifier: {max_container_depth: 2}\n", invalid: true},
		{name: "empty ignore", yaml: "ignore: ['  ']\n", invalid: true},
		{name: "list type", yaml: "list_type: 'pkg.List['\n", invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)

			if tt.invalid {
				assert.ErrorIs(t, err, ErrInvalid)
			}
		})
	}
}

func TestFindAndDiscover(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	path, err := Find(nested)
	require.NoError(t, err)

	if path == "" {
		c, found, err := Discover(nested)
		require.NoError(t, err)
		assert.Empty(t, found)
		assert.Equal(t, Default(), c)
	}

	cfgPath := filepath.Join(root, FileName)
	require.NoError(t, os.WriteFile(cfgPath, []byte("naming: {suffix: Converter}\n"), 0o644))

	path, err = Find(nested)
	require.NoError(t, err)
	assert.Equal(t, cfgPath, path)

	c, found, err := Discover(nested)
	require.NoError(t, err)
	assert.Equal(t, cfgPath, found)
	assert.Equal(t, "Converter", c.Naming.Suffix)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), FileName))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestMarshal_RoundTrip(t *testing.T) {
	c := Default()
	c.Ignore = []string{"pkg.Money"}

	data, err := Marshal(c)
	require.NoError(t, err)

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, c, back)
}
