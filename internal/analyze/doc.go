// Package analyze provides the type universe the classifier and the
// synthesizer reason about.
//
// Types are described by TypeRef values (a qualified name plus ordered type
// arguments) and declared in a TypeGraph that answers resolution, subtype and
// container-element queries. A TypeGraph can be built by hand, from a
// workspace file, or from real Go packages through golang.org/x/tools/go/packages.
//
// Key types:
//   - TypeID: package path + type name
//   - TypeRef: a use of a type (class, primitive, array, wildcard, parameter)
//   - TypeInfo: a declared type with parameters, supertypes and constructor info
//   - TypeGraph: all declared types, including the built-in sequence capability
package analyze
