package synth

import (
	"errors"
	"fmt"

	"assembler-generator/internal/analyze"
	"assembler-generator/internal/model"
)

var (
	// ErrArityMismatch is returned when exactly one side is a container.
	ErrArityMismatch = errors.New("container arity mismatch")
	// ErrNoElement is returned when a container element cannot be extracted.
	ErrNoElement = errors.New("container element type cannot be extracted")
	// ErrNestedContainer is returned when an element type is itself a
	// container. Only one level of nesting can be converted.
	ErrNestedContainer = errors.New("nested container types are not supported")
)

// Pair is an element-level (source, target) pair. Container records whether
// the original pair was a container pair that was unwrapped.
type Pair struct {
	Source    *analyze.TypeRef
	Target    *analyze.TypeRef
	Container bool
}

// String returns "source -> target".
func (p Pair) String() string {
	if p.Container {
		return fmt.Sprintf("[]%s -> []%s", p.Source, p.Target)
	}

	return fmt.Sprintf("%s -> %s", p.Source, p.Target)
}

// Unwrap reduces a container pair to its element types. Scalar pairs are
// returned unchanged. The element pair is always scalar.
func Unwrap(types model.TypeQueries, source, target *analyze.TypeRef) (Pair, error) {
	sourceIsContainer := types.IsContainer(source)
	targetIsContainer := types.IsContainer(target)

	if sourceIsContainer != targetIsContainer {
		return Pair{}, fmt.Errorf("%s -> %s: %w", source, target, ErrArityMismatch)
	}

	if !sourceIsContainer {
		return Pair{Source: source, Target: target}, nil
	}

	sourceElem, ok := types.ElementType(source)
	if !ok {
		return Pair{}, fmt.Errorf("%s: %w", source, ErrNoElement)
	}

	targetElem, ok := types.ElementType(target)
	if !ok {
		return Pair{}, fmt.Errorf("%s: %w", target, ErrNoElement)
	}

	if types.IsContainer(sourceElem) || types.IsContainer(targetElem) {
		return Pair{}, fmt.Errorf("%s -> %s: %w", source, target, ErrNestedContainer)
	}

	return Pair{Source: sourceElem, Target: targetElem, Container: true}, nil
}
