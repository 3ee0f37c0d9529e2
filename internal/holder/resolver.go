package holder

import (
	"errors"
	"fmt"
	"log/slog"

	"assembler-generator/internal/analyze"
	"assembler-generator/internal/common"
	"assembler-generator/internal/match"
	"assembler-generator/internal/model"
)

// ErrNoHost is returned when no writable location can receive the holder.
var ErrNoHost = errors.New("no writable host for holder")

// Kind selects a resolution strategy.
type Kind int

const (
	// KindScopeWide places a top-level holder in the host directory of the
	// source root.
	KindScopeWide Kind = iota
	// KindEnclosing places a nested holder inside the enclosing type of the
	// call site.
	KindEnclosing
)

const (
	KindScopeWideStr = "scope"
	KindEnclosingStr = "enclosing"
)

// String returns the keyword used for the kind on the command line.
func (k Kind) String() string {
	switch k {
	case KindScopeWide:
		return KindScopeWideStr
	case KindEnclosing:
		return KindEnclosingStr
	default:
		return common.UnknownStr
	}
}

// ParseKind parses a strategy keyword.
func ParseKind(s string) (Kind, error) {
	switch s {
	case KindScopeWideStr:
		return KindScopeWide, nil
	case KindEnclosingStr:
		return KindEnclosing, nil
	default:
		return KindScopeWide, fmt.Errorf("unknown holder strategy %q", s)
	}
}

// Request identifies the call site a holder is resolved for.
type Request struct {
	File      *model.File
	Enclosing *model.Decl
	// Target is the element-level target type the holder is named after.
	Target *analyze.TypeRef
}

// Resolution is the outcome of a successful resolve.
type Resolution struct {
	Holder *model.Decl
	// Created is true when the holder was declared by this call.
	Created bool
	// Adopted is true when an unmarked declaration was marked by this call.
	Adopted bool
	// NearMisses are marked holders whose names resemble the wanted name.
	NearMisses []string
}

// Resolver finds or creates the holder that receives conversion methods.
type Resolver interface {
	Resolve(req Request) (Resolution, error)
}

// HostLocator returns the directory scope-wide holders live in.
type HostLocator interface {
	FindOrCreateHostDirectory(file *model.File) (*model.Directory, error)
}

// Option configures a resolver.
type Option func(*base)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(b *base) {
		b.logger = logger
	}
}

type base struct {
	program  model.Program
	settings Settings
	logger   *slog.Logger
}

func newBase(program model.Program, settings Settings, opts []Option) base {
	if settings.Naming == nil {
		settings.Naming = SuffixNaming{Suffix: DefaultSuffix}
	}

	b := base{program: program, settings: settings, logger: slog.Default()}
	for _, opt := range opts {
		opt(&b)
	}

	return b
}

// New returns the resolver for kind.
func New(kind Kind, program model.Program, locator HostLocator, settings Settings, opts ...Option) (Resolver, error) {
	switch kind {
	case KindScopeWide:
		return NewScopeWide(program, locator, settings, opts...), nil
	case KindEnclosing:
		return NewEnclosing(program, settings, opts...), nil
	default:
		return nil, fmt.Errorf("unknown holder strategy %d", kind)
	}
}

// adopt marks an existing declaration as a holder.
func (b *base) adopt(d *model.Decl, res Resolution) (Resolution, error) {
	if !d.Writable {
		return Resolution{}, fmt.Errorf("%s is read-only: %w", d.Qualified(), ErrNoHost)
	}

	res.Holder = d
	res.Adopted = b.program.AddMarker(d, b.settings.Marker)
	b.ensureSingleton(d)

	return res, nil
}

// create declares a new marked holder in scope.
func (b *base) create(name string, scope model.Scope, res Resolution) (Resolution, error) {
	d, err := b.program.DeclareType(name, model.KindInterface, scope)
	if err != nil {
		return Resolution{}, fmt.Errorf("declare holder %s: %w: %w", name, ErrNoHost, err)
	}

	b.program.AddMarker(d, b.settings.Marker)
	b.ensureSingleton(d)

	res.Holder = d
	res.Created = true

	b.logger.Debug("holder created", "holder", d.Qualified(), "file", d.File.Path)

	return res, nil
}

// ensureSingleton adds the shared instance field, initialized by the
// conversion factory, unless the holder already has it.
func (b *base) ensureSingleton(d *model.Decl) {
	b.program.AddSingletonField(d, model.Field{
		Name:   b.settings.Singleton,
		Type:   d.Ref(),
		Static: true,
		Init:   fmt.Sprintf("%s(%s)", b.settings.Factory, d.LocalName()),
	})
}

func (b *base) nearMisses(name string) []string {
	var names []string
	for _, d := range b.program.FindMarkedTypes(b.settings.Marker) {
		names = append(names, d.Name)
	}

	var out []string
	for _, c := range match.SimilarNames(name, names, match.DefaultSimilarity) {
		out = append(out, c.Name)
	}

	return out
}

// ScopeWide resolves top-level holders in the host directory of the call
// site's source root.
type ScopeWide struct {
	base
	locator HostLocator
}

// NewScopeWide creates a scope-wide resolver.
func NewScopeWide(program model.Program, locator HostLocator, settings Settings, opts ...Option) *ScopeWide {
	return &ScopeWide{base: newBase(program, settings, opts), locator: locator}
}

// Resolve reuses a writable top-level holder already carrying the marker,
// then a same-named declaration in the host directory, and otherwise
// creates a new holder there.
func (s *ScopeWide) Resolve(req Request) (Resolution, error) {
	if !req.Target.IsClass() {
		return Resolution{}, fmt.Errorf("target %s: %w", req.Target, analyze.ErrUnresolved)
	}

	name := s.settings.Naming.HolderName(req.Target)

	for _, d := range s.program.FindMarkedTypes(s.settings.Marker) {
		if d.Name == name && d.TopLevel() && d.Writable {
			s.logger.Debug("holder reused", "holder", d.Qualified())
			s.ensureSingleton(d)

			return Resolution{Holder: d}, nil
		}
	}

	res := Resolution{NearMisses: s.nearMisses(name)}
	if !common.IsEmpty(res.NearMisses) {
		s.logger.Debug("similar holders exist", "wanted", name, "similar", res.NearMisses)
	}

	host, err := s.locator.FindOrCreateHostDirectory(req.File)
	if err != nil {
		return Resolution{}, fmt.Errorf("%w: %w", ErrNoHost, err)
	}

	if d := s.program.FindDeclaredType(name, model.DirScope(host)); d != nil {
		return s.adopt(d, res)
	}

	return s.create(name, model.DirScope(host), res)
}

// Enclosing resolves holders nested in the call site's enclosing type.
type Enclosing struct {
	base
}

// NewEnclosing creates an enclosing-type resolver.
func NewEnclosing(program model.Program, settings Settings, opts ...Option) *Enclosing {
	return &Enclosing{base: newBase(program, settings, opts)}
}

// Resolve reuses or adopts the same-named nested type of the enclosing
// declaration, and otherwise creates it.
func (e *Enclosing) Resolve(req Request) (Resolution, error) {
	if !req.Target.IsClass() {
		return Resolution{}, fmt.Errorf("target %s: %w", req.Target, analyze.ErrUnresolved)
	}

	outer := req.Enclosing
	if outer == nil {
		return Resolution{}, fmt.Errorf("call site has no enclosing type: %w", ErrNoHost)
	}

	if !outer.Writable {
		return Resolution{}, fmt.Errorf("%s is read-only: %w", outer.Qualified(), ErrNoHost)
	}

	name := e.settings.Naming.HolderName(req.Target)

	if d := e.program.FindDeclaredType(name, model.NestedScope(outer)); d != nil {
		if d.Annotation(e.settings.Marker) != nil {
			e.ensureSingleton(d)
			return Resolution{Holder: d}, nil
		}

		return e.adopt(d, Resolution{})
	}

	return e.create(name, model.NestedScope(outer), Resolution{})
}
