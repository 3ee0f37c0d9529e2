// Package model is the program model the assembler works against: directories,
// files, declared types with their members, and the inspected expression
// sites that may need a conversion.
//
// Components depend on the Program interface only. Memory is the in-memory
// implementation; it can be loaded from and saved to a workspace YAML file.
//
// Key types:
//   - Program: type queries, declaration mutations and source access
//   - Memory: in-memory Program backed by an analyze.TypeGraph
//   - Decl, Method, Param, Field, Annotation: declarations
//   - Directory, File, Site, Expr: sources
//   - WorkspaceFile: YAML schema of a workspace
package model
