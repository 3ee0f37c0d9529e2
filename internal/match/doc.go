// Package match decides whether a value of one type needs a synthesized
// conversion before it can be assigned to another type.
//
// The decision is read-only and ordered: unresolved types, container arity
// mismatches, container element recursion, subtyping, identity and the
// ignore list are checked before a conversion is reported.
//
// Key types:
//   - Classifier: the decision function, built over a TypeSystem
//   - IgnoreSet: immutable set of qualified names that never need conversion
//   - Result: the verdict together with a human-readable reason
//
// SimilarNames reports near-miss holder names, such as a holder that was
// created under a different naming suffix.
package match
