// Package rewrite points a call site at a synthesized converter.
//
// The expression E is replaced with Holder.Instance.method(E), after which
// the holder reference is shortened and its package imported into the file.
package rewrite
