package synth

import (
	"fmt"
	"log/slog"

	"assembler-generator/internal/analyze"
	"assembler-generator/internal/model"
)

// Settings configures the synthesizer.
type Settings struct {
	Annotations Annotations
	// ListType is the qualified name of the list type used by CONVERT_LIST.
	// analyze.SliceName selects the built-in list.
	ListType string
}

// DefaultSettings returns the default synthesizer settings.
func DefaultSettings() Settings {
	return Settings{
		Annotations: DefaultAnnotations(),
		ListType:    analyze.SliceName,
	}
}

// Result holds the methods a synthesis produced or reused.
type Result struct {
	Convert   *model.Method
	OrDefault *model.Method // nil when the target has no zero-argument constructor
	List      *model.Method // nil for scalar pairs
	// Added lists the purposes whose method was appended by this run.
	Added []Purpose
}

// Primary returns the method a call site of the original pair should call:
// CONVERT_LIST for container pairs, CONVERT otherwise.
func (r *Result) Primary() *model.Method {
	if r == nil {
		return nil
	}

	if r.List != nil {
		return r.List
	}

	return r.Convert
}

// Synthesizer adds conversion method declarations to holders. Running it
// again for the same pair reuses the existing methods.
type Synthesizer struct {
	program  model.Program
	settings Settings
	logger   *slog.Logger
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Synthesizer) {
		s.logger = logger
	}
}

// New creates a Synthesizer.
func New(program model.Program, settings Settings, opts ...Option) *Synthesizer {
	if settings.ListType == "" {
		settings.ListType = analyze.SliceName
	}

	s := &Synthesizer{program: program, settings: settings, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ListOf returns the list type of elem.
func (s *Synthesizer) ListOf(elem *analyze.TypeRef) *analyze.TypeRef {
	if s.settings.ListType == analyze.SliceName {
		return analyze.SliceOf(elem)
	}

	return analyze.Class(s.settings.ListType, elem)
}

// Synthesize ensures holder declares the methods for pair: CONVERT always,
// CONVERT_OR_DEFAULT when the target has a zero-argument constructor, and
// CONVERT_LIST for container pairs.
func (s *Synthesizer) Synthesize(holder *model.Decl, pair Pair) (*Result, error) {
	if holder == nil {
		return nil, nil
	}

	if !holder.Writable {
		return nil, fmt.Errorf("holder %s: %w", holder.Qualified(), model.ErrReadOnly)
	}

	withDefault := s.program.HasZeroArgConstructor(pair.Target)
	if !withDefault {
		s.logger.Debug("skipping default converter", "target", pair.Target.String(),
			"reason", "no zero-argument constructor")
	}

	result := &Result{}

	for _, sig := range Signatures(pair, s.ListOf, withDefault) {
		m, added, err := s.ensure(holder, sig, pair)
		if err != nil {
			return nil, err
		}

		if added {
			result.Added = append(result.Added, sig.Purpose)
		}

		switch sig.Purpose {
		case PurposeConvert:
			result.Convert = m
		case PurposeConvertOrDefault:
			result.OrDefault = m
		case PurposeConvertList:
			result.List = m
		}
	}

	s.logger.Debug("synthesized", "holder", holder.Qualified(), "pair", pair.String(),
		"added", len(result.Added))

	return result, nil
}

// ensure reuses the method serving sig or appends a new one, then adds any
// missing annotation or documentation.
func (s *Synthesizer) ensure(holder *model.Decl, sig Signature, pair Pair) (*model.Method, bool, error) {
	doc, err := Doc(sig, pair)
	if err != nil {
		return nil, false, fmt.Errorf("render doc for %s: %w", sig.Name, err)
	}

	ann := s.settings.Annotations

	fresh := &model.Method{
		Name:        sig.Name,
		Params:      []*model.Param{{Name: sig.ParamName, Type: sig.Param, Annotations: ann.paramAnnotations(sig)}},
		Result:      sig.Result,
		Annotations: ann.methodAnnotations(sig),
		Doc:         doc,
		Body:        body(sig),
		Default:     sig.Purpose == PurposeConvertOrDefault,
	}

	m, added := s.program.AddOrReuseMethod(holder, fresh, sig.Matches)
	if added {
		return m, true, nil
	}

	for _, a := range ann.methodAnnotations(sig) {
		s.program.AddAnnotation(m, a)
	}

	if p := m.Param(0); p != nil {
		for _, a := range ann.paramAnnotations(sig) {
			s.program.AddAnnotation(p, a)
		}
	}

	if sig.Purpose == PurposeConvert || m.Doc == "" {
		s.program.AddOrReplaceDoc(m, doc)
	}

	return m, false, nil
}
