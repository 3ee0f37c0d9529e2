package match

import (
	"fmt"

	"assembler-generator/internal/analyze"
	"assembler-generator/internal/common"
)

// DefaultMaxContainerDepth allows one level of container nesting.
const DefaultMaxContainerDepth = 1

// TypeSystem is the read-only view of the program model the classifier needs.
// *analyze.TypeGraph implements it.
type TypeSystem interface {
	Resolve(t *analyze.TypeRef) (*analyze.TypeInfo, error)
	IsSubtype(sub, super *analyze.TypeRef) bool
	IsContainer(t *analyze.TypeRef) bool
	ElementType(t *analyze.TypeRef) (*analyze.TypeRef, bool)
}

// Verdict is the outcome of classifying a (source, target) pair.
type Verdict int

const (
	// VerdictUnresolved means one of the types is not a resolvable class.
	VerdictUnresolved Verdict = iota
	// VerdictArityMismatch means exactly one side is a container.
	VerdictArityMismatch
	// VerdictElementUnresolvable means a container element could not be extracted.
	VerdictElementUnresolvable
	// VerdictTooDeep means container nesting exceeds the configured depth.
	VerdictTooDeep
	// VerdictSubtype means the source is already assignable to the target.
	VerdictSubtype
	// VerdictIdentical means both sides have the same qualified name.
	VerdictIdentical
	// VerdictIgnored means the target is on the ignore list.
	VerdictIgnored
	// VerdictNeedsConversion means a conversion method is required.
	VerdictNeedsConversion
)

const (
	VerdictUnresolvedStr          = "unresolved"
	VerdictArityMismatchStr       = "arity_mismatch"
	VerdictElementUnresolvableStr = "element_unresolvable"
	VerdictTooDeepStr             = "too_deep"
	VerdictSubtypeStr             = "subtype"
	VerdictIdenticalStr           = "identical"
	VerdictIgnoredStr             = "ignored"
	VerdictNeedsConversionStr     = "needs_conversion"
)

// String returns a human-readable name for the verdict.
func (v Verdict) String() string {
	switch v {
	case VerdictUnresolved:
		return VerdictUnresolvedStr
	case VerdictArityMismatch:
		return VerdictArityMismatchStr
	case VerdictElementUnresolvable:
		return VerdictElementUnresolvableStr
	case VerdictTooDeep:
		return VerdictTooDeepStr
	case VerdictSubtype:
		return VerdictSubtypeStr
	case VerdictIdentical:
		return VerdictIdenticalStr
	case VerdictIgnored:
		return VerdictIgnoredStr
	case VerdictNeedsConversion:
		return VerdictNeedsConversionStr
	default:
		return common.UnknownStr
	}
}

// Result contains detailed information about a classification.
type Result struct {
	Verdict    Verdict
	Reason     string // Human-readable explanation
	SourceType string // String representation of source type
	TargetType string // String representation of target type
	// Depth is the number of container levels unwrapped before the verdict.
	Depth int
}

// NeedsConversion reports whether the verdict asks for a conversion method.
func (r Result) NeedsConversion() bool {
	return r.Verdict == VerdictNeedsConversion
}

// Classifier decides whether a pair of types needs a synthesized conversion.
// It never mutates the type system.
type Classifier struct {
	types    TypeSystem
	ignore   IgnoreSet
	maxDepth int
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithMaxContainerDepth bounds how many container levels are unwrapped.
// The bound also stops recursion through self-referential container types.
func WithMaxContainerDepth(depth int) Option {
	return func(c *Classifier) {
		c.maxDepth = depth
	}
}

// NewClassifier creates a Classifier over ts. The ignore set is copied by value
// and never changes afterwards.
func NewClassifier(ts TypeSystem, ignore IgnoreSet, opts ...Option) *Classifier {
	c := &Classifier{
		types:    ts,
		ignore:   ignore,
		maxDepth: DefaultMaxContainerDepth,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// NeedsConversion reports whether source must be converted before it can be
// assigned to target.
func (c *Classifier) NeedsConversion(source, target *analyze.TypeRef) bool {
	return c.Classify(source, target).NeedsConversion()
}

// Classify determines the verdict for a (source, target) pair.
func (c *Classifier) Classify(source, target *analyze.TypeRef) Result {
	return c.classify(source, target, 0)
}

func (c *Classifier) classify(source, target *analyze.TypeRef, depth int) Result {
	result := Result{
		SourceType: source.String(),
		TargetType: target.String(),
		Depth:      depth,
	}

	if !c.resolved(source) || !c.resolved(target) {
		return result.with(VerdictUnresolved, "source or target type is not resolved")
	}

	sourceIsContainer := c.types.IsContainer(source)
	targetIsContainer := c.types.IsContainer(target)

	if sourceIsContainer != targetIsContainer {
		return result.with(VerdictArityMismatch, "only one side is a container")
	}

	if sourceIsContainer {
		if depth >= c.maxDepth {
			return result.with(VerdictTooDeep,
				fmt.Sprintf("container nesting exceeds %d level(s)", c.maxDepth))
		}

		sourceElem, ok := c.types.ElementType(source)
		if !ok {
			return result.with(VerdictElementUnresolvable, "source element type cannot be extracted")
		}

		targetElem, ok := c.types.ElementType(target)
		if !ok {
			return result.with(VerdictElementUnresolvable, "target element type cannot be extracted")
		}

		inner := c.classify(sourceElem, targetElem, depth+1)
		inner.SourceType = result.SourceType
		inner.TargetType = result.TargetType

		return inner
	}

	if c.types.IsSubtype(source, target) {
		return result.with(VerdictSubtype, "source is a subtype of target")
	}

	if source.ID() == target.ID() {
		return result.with(VerdictIdentical, "types share the same qualified name")
	}

	if c.ignore.Contains(target.ID().String()) {
		return result.with(VerdictIgnored, "target type is on the ignore list")
	}

	return result.with(VerdictNeedsConversion, "types are unrelated and require a conversion method")
}

func (c *Classifier) resolved(t *analyze.TypeRef) bool {
	if !t.IsClass() {
		return false
	}

	_, err := c.types.Resolve(t)

	return err == nil
}

func (r Result) with(v Verdict, reason string) Result {
	r.Verdict = v
	r.Reason = reason

	return r
}
