package gen

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"assembler-generator/internal/model"
)

// GeneratedFile is a rendered source file.
type GeneratedFile struct {
	// Filename is the path of the file relative to the workspace root.
	Filename string
	// Content is the rendered source.
	Content []byte
}

const indentUnit = "\t"

var fileTemplate = template.Must(template.New("file").Parse(`package {{.Package}}
{{if .Imports}}
import (
{{range .Imports}}	{{.Alias}} "{{.Path}}"
{{end}})
{{end}}{{range .Decls}}
{{.}}{{end}}{{if .Sites}}
// Call sites
{{range .Sites}}
{{.}}{{end}}{{end}}`))

type fileData struct {
	Package string
	Imports []model.Import
	Decls   []string
	Sites   []string
}

// RenderFile renders a source file of the program model.
func RenderFile(f *model.File) (GeneratedFile, error) {
	tf := newTypeFormatter(f)

	imports := append([]model.Import(nil), f.Imports...)
	sort.Slice(imports, func(i, j int) bool { return imports[i].Path < imports[j].Path })

	data := fileData{Package: f.Package, Imports: imports}

	for _, d := range f.Decls {
		var sb strings.Builder
		renderDecl(&sb, tf, d, "")
		data.Decls = append(data.Decls, sb.String())
	}

	for _, s := range f.Sites {
		data.Sites = append(data.Sites, renderSite(tf, s))
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return GeneratedFile{}, fmt.Errorf("rendering %s: %w", f.Path, err)
	}

	return GeneratedFile{Filename: f.Path, Content: buf.Bytes()}, nil
}

// RenderFiles renders files in order.
func RenderFiles(files []*model.File) ([]GeneratedFile, error) {
	out := make([]GeneratedFile, 0, len(files))

	for _, f := range files {
		gf, err := RenderFile(f)
		if err != nil {
			return nil, err
		}

		out = append(out, gf)
	}

	return out, nil
}

func renderDecl(sb *strings.Builder, tf typeFormatter, d *model.Decl, indent string) {
	for _, a := range d.Annotations {
		sb.WriteString(indent + a.String() + "\n")
	}

	sb.WriteString(indent + "type " + d.Name)

	if len(d.Params) > 0 {
		sb.WriteString("[" + strings.Join(d.Params, ", ") + "]")
	}

	sb.WriteString(" " + d.Kind.String())

	if len(d.Supers) > 0 {
		supers := make([]string, len(d.Supers))
		for i, s := range d.Supers {
			supers[i] = tf.format(s)
		}

		sb.WriteString(" : " + strings.Join(supers, ", "))
	}

	if len(d.Fields) == 0 && len(d.Methods) == 0 && len(d.Nested) == 0 {
		sb.WriteString(" {}\n")
		return
	}

	sb.WriteString(" {\n")

	inner := indent + indentUnit

	for _, f := range d.Fields {
		sb.WriteString(inner)

		if f.Static {
			sb.WriteString("static ")
		}

		sb.WriteString(f.Name + " " + tf.format(f.Type))

		if f.Init != "" {
			sb.WriteString(" = " + f.Init)
		}

		sb.WriteString("\n")
	}

	for i, m := range d.Methods {
		if i > 0 || len(d.Fields) > 0 {
			sb.WriteString("\n")
		}

		renderMethod(sb, tf, m, inner)
	}

	for i, n := range d.Nested {
		if i > 0 || len(d.Fields) > 0 || len(d.Methods) > 0 {
			sb.WriteString("\n")
		}

		renderDecl(sb, tf, n, inner)
	}

	sb.WriteString(indent + "}\n")
}

func renderMethod(sb *strings.Builder, tf typeFormatter, m *model.Method, indent string) {
	if m.Doc != "" {
		for _, line := range strings.Split(m.Doc, "\n") {
			sb.WriteString(strings.TrimRight(indent+"// "+line, " ") + "\n")
		}
	}

	for _, a := range m.Annotations {
		sb.WriteString(indent + a.String() + "\n")
	}

	sb.WriteString(indent)

	if m.Default {
		sb.WriteString("default ")
	}

	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		var ps strings.Builder
		for _, a := range p.Annotations {
			ps.WriteString(a.String() + " ")
		}

		ps.WriteString(p.Name + " " + tf.format(p.Type))
		params[i] = ps.String()
	}

	sb.WriteString(m.Name + "(" + strings.Join(params, ", ") + ")")

	if m.Result != nil {
		sb.WriteString(" " + tf.format(m.Result))
	}

	if len(m.Body) == 0 {
		sb.WriteString("\n")
		return
	}

	sb.WriteString(" {\n")

	for _, line := range m.Body {
		sb.WriteString(indent + indentUnit + line + "\n")
	}

	sb.WriteString(indent + "}\n")
}

func renderSite(tf typeFormatter, s *model.Site) string {
	where := s.Function
	if s.Enclosing != nil {
		where = s.Enclosing.LocalName() + "." + s.Function
	}

	header := "// " + s.ID + " in " + where + "\n"

	if s.Kind == model.SiteReturn {
		return header + "return " + s.Expr.Text + "\n"
	}

	if s.Missing {
		return header + "var _ " + tf.format(s.Target) + "\n"
	}

	return header + "var _ " + tf.format(s.Target) + " = " + s.Expr.Text + "\n"
}
