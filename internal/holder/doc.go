// Package holder resolves the conversion holder that receives synthesized
// methods.
//
// Two strategies implement Resolver. ScopeWide places a top-level holder in
// the host directory of the call site's source root; Enclosing nests the
// holder in the call site's enclosing type. Both reuse a holder that already
// carries the marker before declaring a new one, and both make sure the
// holder has exactly one singleton field.
//
// Key types:
//   - Resolver: the strategy interface
//   - Naming / SuffixNaming: holder name from the target type
//   - Settings: marker, singleton and factory names
package holder
