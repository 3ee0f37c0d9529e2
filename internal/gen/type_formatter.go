package gen

import (
	"strings"

	"assembler-generator/internal/analyze"
	"assembler-generator/internal/model"
)

// typeFormatter renders type references as seen from one file: types of the
// file's package by local name, imported packages through their alias, and
// everything else fully qualified.
type typeFormatter struct {
	pkg     string
	aliases map[string]string // package path -> alias
}

func newTypeFormatter(f *model.File) typeFormatter {
	tf := typeFormatter{pkg: f.Package, aliases: make(map[string]string, len(f.Imports))}
	for _, imp := range f.Imports {
		tf.aliases[imp.Path] = imp.Alias
	}

	return tf
}

func (tf typeFormatter) format(t *analyze.TypeRef) string {
	if t == nil {
		return ""
	}

	switch t.Kind {
	case analyze.TypeKindClass:
		if t.Name == analyze.SliceName && len(t.Args) == 1 {
			return "[]" + tf.format(t.Args[0])
		}

		name := tf.qualifier(t.ID()) + t.ID().Name
		if len(t.Args) == 0 {
			return name
		}

		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = tf.format(a)
		}

		return name + "[" + strings.Join(args, ", ") + "]"
	case analyze.TypeKindArray:
		return t.Name + tf.format(t.Elem)
	default:
		return t.String()
	}
}

// qualifier returns the prefix, including the dot, that t's package needs.
func (tf typeFormatter) qualifier(id analyze.TypeID) string {
	switch {
	case id.PkgPath == "" || id.PkgPath == tf.pkg:
		return ""
	case tf.aliases[id.PkgPath] != "":
		return tf.aliases[id.PkgPath] + "."
	default:
		return id.PkgPath + "."
	}
}
