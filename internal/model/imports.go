package model

import (
	"fmt"
	"go/token"
	"path"
	"strings"

	"assembler-generator/internal/common"
)

// ShortenReferences rewrites fully qualified occurrences of names in the
// expressions of a file. References into the file's own package become the
// bare local name; other packages are imported and referenced through their
// alias. Names that do not occur in the file are left alone.
func (m *Memory) ShortenReferences(filePath string, names ...QualifiedName) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.files[path.Clean(filePath)]
	if !ok {
		return fmt.Errorf("file %s: %w", filePath, ErrNotFound)
	}

	if !f.Writable() {
		return fmt.Errorf("file %s: %w", filePath, ErrReadOnly)
	}

	changed := false

	for _, name := range names {
		full := name.String()
		if name.Package == "" || !fileMentions(f, full) {
			continue
		}

		short := name.Name
		if name.Package != f.Package {
			short = addImport(f, name.Package) + "." + name.Name
		}

		for _, s := range f.Sites {
			if text := replaceQualified(s.Expr.Text, full, short); text != s.Expr.Text {
				s.Expr.Text = text
				changed = true
			}
		}
	}

	if changed {
		touch(f)
	}

	return nil
}

func fileMentions(f *File, full string) bool {
	for _, s := range f.Sites {
		if replaceQualified(s.Expr.Text, full, "") != s.Expr.Text {
			return true
		}
	}

	return false
}

// replaceQualified replaces whole occurrences of full in text. An occurrence
// preceded or followed by an identifier character is part of a longer name.
func replaceQualified(text, full, short string) string {
	var b strings.Builder

	for {
		i := strings.Index(text, full)
		if i < 0 {
			b.WriteString(text)
			return b.String()
		}

		end := i + len(full)
		startsName := i == 0 || !isIdentByte(text[i-1]) && text[i-1] != '.' && text[i-1] != '/'
		endsName := end == len(text) || !isIdentByte(text[end])
		whole := startsName && endsName

		b.WriteString(text[:i])
		if whole {
			b.WriteString(short)
		} else {
			b.WriteString(full)
		}

		text = text[end:]
	}
}

func isIdentByte(c byte) bool {
	return c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

// addImport returns the alias under which importPath is visible in f,
// adding an import when needed. Aliases derive from the last path element;
// a clash with another package's alias, a keyword or an invalid identifier
// is resolved by a numeric suffix.
func addImport(f *File, importPath string) string {
	if alias, ok := f.ImportAlias(importPath); ok {
		return alias
	}

	candidate := strings.NewReplacer("-", "_", ".", "_").Replace(common.PkgAlias(importPath))
	if token.IsKeyword(candidate) {
		candidate += "_pkg"
	}

	if !token.IsIdentifier(candidate) {
		candidate = "pkg_" + candidate
	}

	inUse := make(map[string]bool, len(f.Imports))
	for _, imp := range f.Imports {
		inUse[imp.Alias] = true
	}

	alias := candidate
	for i := 1; inUse[alias]; i++ {
		alias = fmt.Sprintf("%s%d", candidate, i)
	}

	f.Imports = append(f.Imports, Import{Path: importPath, Alias: alias})

	return alias
}
