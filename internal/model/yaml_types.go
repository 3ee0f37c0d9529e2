package model

// WorkspaceFile is the YAML backing store of a Memory program model.
type WorkspaceFile struct {
	// FileExt is the extension of files created for new declarations.
	FileExt string `yaml:"file_ext,omitempty"`
	// ReadOnly lists directory prefixes that must never be modified.
	ReadOnly []string `yaml:"read_only,omitempty"`
	// Directories lists directories that exist without holding files.
	Directories []string `yaml:"directories,omitempty"`
	// Markers are non-source files such as go.mod.
	Markers []MarkerYAML `yaml:"markers,omitempty"`
	// Types are library types without source in the workspace.
	Types []TypeYAML `yaml:"types,omitempty"`
	// Files are the source files.
	Files []FileYAML `yaml:"files,omitempty"`
}

// MarkerYAML is a non-source file.
type MarkerYAML struct {
	Path    string `yaml:"path"`
	Content string `yaml:"content,omitempty"`
}

// TypeYAML declares a library type.
type TypeYAML struct {
	Name      string   `yaml:"name"`
	Params    []string `yaml:"params,omitempty"`
	Supers    []string `yaml:"supers,omitempty"`
	Interface bool     `yaml:"interface,omitempty"`
	ZeroArg   bool     `yaml:"zero_arg,omitempty"`
}

// FileYAML is a source file.
type FileYAML struct {
	Path    string       `yaml:"path"`
	Package string       `yaml:"package"`
	Imports []ImportYAML `yaml:"imports,omitempty"`
	Decls   []DeclYAML   `yaml:"decls,omitempty"`
	Sites   []SiteYAML   `yaml:"sites,omitempty"`
	Version int64        `yaml:"version,omitempty"`
}

// ImportYAML is an import of a package under an alias.
type ImportYAML struct {
	Path  string `yaml:"path"`
	Alias string `yaml:"alias"`
}

// DeclYAML is a declared type.
type DeclYAML struct {
	Name        string           `yaml:"name"`
	Kind        string           `yaml:"kind,omitempty"`
	Params      []string         `yaml:"params,omitempty"`
	Supers      []string         `yaml:"supers,omitempty"`
	ZeroArg     bool             `yaml:"zero_arg,omitempty"`
	Annotations []AnnotationYAML `yaml:"annotations,omitempty"`
	Fields      []FieldYAML      `yaml:"fields,omitempty"`
	Methods     []MethodYAML     `yaml:"methods,omitempty"`
	Nested      []DeclYAML       `yaml:"nested,omitempty"`
}

// AnnotationYAML is an annotation with ordered arguments.
type AnnotationYAML struct {
	Name string    `yaml:"name"`
	Args []ArgYAML `yaml:"args,omitempty"`
}

// ArgYAML is one annotation argument.
type ArgYAML struct {
	Key   string `yaml:"key,omitempty"`
	Value string `yaml:"value"`
}

// FieldYAML is a field.
type FieldYAML struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Static bool   `yaml:"static,omitempty"`
	Init   string `yaml:"init,omitempty"`
}

// MethodYAML is a method.
type MethodYAML struct {
	Name        string           `yaml:"name"`
	Params      []ParamYAML      `yaml:"params,omitempty"`
	Result      string           `yaml:"result,omitempty"`
	Annotations []AnnotationYAML `yaml:"annotations,omitempty"`
	Doc         string           `yaml:"doc,omitempty"`
	Body        []string         `yaml:"body,omitempty"`
	Default     bool             `yaml:"default,omitempty"`
}

// ParamYAML is a method parameter.
type ParamYAML struct {
	Name        string           `yaml:"name"`
	Type        string           `yaml:"type"`
	Annotations []AnnotationYAML `yaml:"annotations,omitempty"`
}

// SiteYAML is an inspected expression.
type SiteYAML struct {
	ID        string `yaml:"id"`
	Kind      string `yaml:"kind"`
	Expr      string `yaml:"expr"`
	Type      string `yaml:"type"`
	Target    string `yaml:"target"`
	Enclosing string `yaml:"enclosing,omitempty"` // local name of the enclosing type
	Function  string `yaml:"function,omitempty"`
	InLambda  bool   `yaml:"in_lambda,omitempty"`
	Literal   bool   `yaml:"literal,omitempty"`
	Missing   bool   `yaml:"missing,omitempty"`
}
