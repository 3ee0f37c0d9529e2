package config

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"assembler-generator/internal/analyze"
	"assembler-generator/internal/fix"
	"assembler-generator/internal/holder"
	"assembler-generator/internal/match"
	"assembler-generator/internal/synth"
	"assembler-generator/internal/workspace"
)

// FileName is the name of the configuration file.
const FileName = ".assembler.yaml"

// ErrInvalid is returned for semantically invalid configurations.
var ErrInvalid = errors.New("invalid configuration")

// Config is the contents of .assembler.yaml.
type Config struct {
	Naming      Naming      `yaml:"naming"`
	Host        Host        `yaml:"host"`
	Holder      Holder      `yaml:"holder"`
	Annotations Annotations `yaml:"annotations"`
	// Ignore adds qualified type names to the ignore list.
	Ignore []string `yaml:"ignore,omitempty"`
	// IgnoreDefaults keeps the built-in ignore list. Defaults to true.
	IgnoreDefaults *bool      `yaml:"ignore_defaults,omitempty"`
	Classifier     Classifier `yaml:"classifier"`
	// ListType is the list type of CONVERT_LIST methods; "[]" is the built-in list.
	ListType string `yaml:"list_type,omitempty"`
}

// Naming configures holder names.
type Naming struct {
	Suffix string `yaml:"suffix,omitempty"`
}

// Host configures where scope-wide holders are placed.
type Host struct {
	Subdirectory string   `yaml:"subdirectory,omitempty"`
	SourceRoots  []string `yaml:"source_roots,omitempty"`
	RootMarkers  []string `yaml:"root_markers,omitempty"`
}

// Holder configures the singleton field of holders.
type Holder struct {
	Singleton string `yaml:"singleton,omitempty"`
	Factory   string `yaml:"factory,omitempty"`
}

// Annotations names the annotations the generator attaches.
type Annotations struct {
	Marker   string `yaml:"marker,omitempty"`
	Nullable string `yaml:"nullable,omitempty"`
	NonNull  string `yaml:"non_null,omitempty"`
	Named    string `yaml:"named,omitempty"`
	Iterable string `yaml:"iterable,omitempty"`
}

// Classifier configures the compatibility classifier.
type Classifier struct {
	// MaxContainerDepth bounds container unwrapping. Nil means the default.
	MaxContainerDepth *int `yaml:"max_container_depth,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var c Config
	applyDefaults(&c)

	return &c
}

// LoadFile reads and parses a configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses configuration YAML, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var c Config

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	applyDefaults(&c)

	if err := c.validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Find looks for FileName in dir and its parents. It returns "" when there
// is none.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}

		dir = parent
	}
}

// Discover loads the configuration found from dir upwards, or the default
// configuration when there is none.
func Discover(dir string) (*Config, string, error) {
	path, err := Find(dir)
	if err != nil {
		return nil, "", err
	}

	if path == "" {
		return Default(), "", nil
	}

	c, err := LoadFile(path)
	if err != nil {
		return nil, "", err
	}

	return c, path, nil
}

func applyDefaults(c *Config) {
	if c.Naming.Suffix == "" {
		c.Naming.Suffix = holder.DefaultSuffix
	}

	if c.Host.Subdirectory == "" {
		c.Host.Subdirectory = workspace.DefaultSubdirectory
	}

	if c.Host.SourceRoots == nil {
		c.Host.SourceRoots = append([]string(nil), workspace.DefaultSourceRoots...)
	}

	if c.Host.RootMarkers == nil {
		c.Host.RootMarkers = []string{workspace.GoModMarker}
	}

	if c.Holder.Singleton == "" {
		c.Holder.Singleton = holder.DefaultSingleton
	}

	if c.Holder.Factory == "" {
		c.Holder.Factory = holder.DefaultFactory
	}

	ann := synth.DefaultAnnotations()
	if c.Annotations.Marker == "" {
		c.Annotations.Marker = holder.DefaultMarker
	}

	if c.Annotations.Nullable == "" {
		c.Annotations.Nullable = ann.Nullable
	}

	if c.Annotations.NonNull == "" {
		c.Annotations.NonNull = ann.NonNull
	}

	if c.Annotations.Named == "" {
		c.Annotations.Named = ann.Named
	}

	if c.Annotations.Iterable == "" {
		c.Annotations.Iterable = ann.Iterable
	}

	if c.IgnoreDefaults == nil {
		keep := true
		c.IgnoreDefaults = &keep
	}

	if c.Classifier.MaxContainerDepth == nil {
		depth := match.DefaultMaxContainerDepth
		c.Classifier.MaxContainerDepth = &depth
	}

	if c.ListType == "" {
		c.ListType = analyze.SliceName
	}
}

func (c *Config) validate() error {
	if !token.IsIdentifier(c.Naming.Suffix) {
		return fmt.Errorf("%w: naming.suffix %q is not an identifier", ErrInvalid, c.Naming.Suffix)
	}

	if !token.IsIdentifier(c.Host.Subdirectory) {
		return fmt.Errorf("%w: host.subdirectory %q is not a single directory name", ErrInvalid, c.Host.Subdirectory)
	}

	if len(c.Host.SourceRoots) == 0 && len(c.Host.RootMarkers) == 0 {
		return fmt.Errorf("%w: host needs source_roots or root_markers", ErrInvalid)
	}

	if !token.IsIdentifier(c.Holder.Singleton) {
		return fmt.Errorf("%w: holder.singleton %q is not an identifier", ErrInvalid, c.Holder.Singleton)
	}

	if depth := *c.Classifier.MaxContainerDepth; depth < 0 || depth > match.DefaultMaxContainerDepth {
		return fmt.Errorf("%w: classifier.max_container_depth must be between 0 and %d",
			ErrInvalid, match.DefaultMaxContainerDepth)
	}

	for i, name := range c.Ignore {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: ignore[%d] is empty", ErrInvalid, i)
		}
	}

	if c.ListType != analyze.SliceName {
		if _, err := analyze.ParseTypeRef(c.ListType); err != nil {
			return fmt.Errorf("%w: list_type: %w", ErrInvalid, err)
		}
	}

	return nil
}

// IgnoreSet builds the immutable ignore set.
func (c *Config) IgnoreSet() match.IgnoreSet {
	if c.IgnoreDefaults != nil && !*c.IgnoreDefaults {
		return match.NewIgnoreSet(c.Ignore...)
	}

	return match.DefaultIgnoreSet().With(c.Ignore...)
}

// HolderSettings returns the settings of holder resolution.
func (c *Config) HolderSettings() holder.Settings {
	return holder.Settings{
		Naming:    holder.SuffixNaming{Suffix: c.Naming.Suffix},
		Marker:    c.Annotations.Marker,
		Singleton: c.Holder.Singleton,
		Factory:   c.Holder.Factory,
	}
}

// SynthSettings returns the settings of method synthesis.
func (c *Config) SynthSettings() synth.Settings {
	return synth.Settings{
		Annotations: synth.Annotations{
			Nullable: c.Annotations.Nullable,
			NonNull:  c.Annotations.NonNull,
			Named:    c.Annotations.Named,
			Iterable: c.Annotations.Iterable,
		},
		ListType: c.ListType,
	}
}

// WorkspaceOptions returns the host directory options.
func (c *Config) WorkspaceOptions() workspace.Options {
	return workspace.Options{
		SourceRoots:  c.Host.SourceRoots,
		RootMarkers:  c.Host.RootMarkers,
		Subdirectory: c.Host.Subdirectory,
	}
}

// FixSettings returns the settings of the whole fix pipeline.
func (c *Config) FixSettings() fix.Settings {
	return fix.Settings{
		Ignore:            c.IgnoreSet(),
		MaxContainerDepth: *c.Classifier.MaxContainerDepth,
		Holder:            c.HolderSettings(),
		Synth:             c.SynthSettings(),
		Workspace:         c.WorkspaceOptions(),
	}
}

// Marshal serializes a configuration to YAML.
func Marshal(c *Config) ([]byte, error) {
	return yaml.Marshal(c)
}
