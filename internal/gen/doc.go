// Package gen renders files of the program model as source text.
//
// RenderFile prints a file's declarations, holders included, with their
// annotations, singleton fields, documented methods and default bodies,
// followed by its inspected call sites. Type references are shortened
// against the file's package and imports. WriteFiles writes rendered files
// below an output directory.
package gen
