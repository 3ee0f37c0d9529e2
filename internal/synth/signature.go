package synth

import (
	"bytes"
	"strconv"
	"strings"
	"text/template"

	"assembler-generator/internal/analyze"
	"assembler-generator/internal/common"
	"assembler-generator/internal/model"
)

// Signature describes one synthesized method.
type Signature struct {
	Name      string
	Purpose   Purpose
	ParamName string
	Param     *analyze.TypeRef
	Result    *analyze.TypeRef
	Tag       string // discriminator of the CONVERT method of the pair
}

// Tag returns the discriminator tag of the CONVERT method for a pair.
func Tag(pair Pair) string {
	return "convert_from_" + pair.Source.SimpleName() + "_to_" + pair.Target.SimpleName()
}

// Signatures returns the signatures for a pair in synthesis order. The
// CONVERT_OR_DEFAULT signature is included only when withDefault is set; the
// CONVERT_LIST signature only for container pairs.
func Signatures(pair Pair, listOf func(*analyze.TypeRef) *analyze.TypeRef, withDefault bool) []Signature {
	tag := Tag(pair)
	paramName := common.LowerFirst(pair.Source.SimpleName())

	sigs := []Signature{{
		Name:      ConvertName,
		Purpose:   PurposeConvert,
		ParamName: paramName,
		Param:     pair.Source,
		Result:    pair.Target,
		Tag:       tag,
	}}

	if withDefault {
		sigs = append(sigs, Signature{
			Name:      ConvertOrDefaultName,
			Purpose:   PurposeConvertOrDefault,
			ParamName: paramName,
			Param:     pair.Source,
			Result:    pair.Target,
			Tag:       tag,
		})
	}

	if pair.Container {
		sigs = append(sigs, Signature{
			Name:      listPrefix + pair.Source.SimpleName() + listSuffix,
			Purpose:   PurposeConvertList,
			ParamName: paramName + listSuffix,
			Param:     listOf(pair.Source),
			Result:    listOf(pair.Target),
			Tag:       tag,
		})
	}

	return sigs
}

// Matches reports whether an existing method already serves the signature:
// same purpose and the same single parameter type.
func (s Signature) Matches(m *model.Method) bool {
	purpose, ok := PurposeOf(m.Name)
	if !ok || purpose != s.Purpose {
		return false
	}

	return len(m.Params) == 1 && m.Params[0].Type.Equal(s.Param)
}

// Annotations names the annotations attached to synthesized methods.
type Annotations struct {
	Nullable string
	NonNull  string
	Named    string
	Iterable string
}

// DefaultAnnotations returns the default annotation names.
func DefaultAnnotations() Annotations {
	return Annotations{
		Nullable: "lang.Nullable",
		NonNull:  "lang.NonNull",
		Named:    "mapper.Named",
		Iterable: "mapper.IterableMapping",
	}
}

// methodAnnotations returns the annotations the method of a signature carries.
func (a Annotations) methodAnnotations(s Signature) []*model.Annotation {
	switch s.Purpose {
	case PurposeConvert:
		return []*model.Annotation{
			{Name: a.Nullable},
			{Name: a.Named, Args: []model.AnnotationArg{{Key: "value", Value: strconv.Quote(s.Tag)}}},
		}
	case PurposeConvertOrDefault:
		return []*model.Annotation{{Name: a.NonNull}}
	case PurposeConvertList:
		return []*model.Annotation{{Name: a.Iterable, Args: []model.AnnotationArg{
			{Key: "nullValueMappingStrategy", Value: "RETURN_DEFAULT"},
			{Key: "qualifiedByName", Value: strconv.Quote(s.Tag)},
		}}}
	default:
		return nil
	}
}

// paramAnnotations returns the annotations the parameter of a signature carries.
func (a Annotations) paramAnnotations(s Signature) []*model.Annotation {
	if s.Purpose == PurposeConvertList {
		return nil
	}

	return []*model.Annotation{{Name: a.Nullable}}
}

// body returns the default body of CONVERT_OR_DEFAULT.
func body(s Signature) []string {
	if s.Purpose != PurposeConvertOrDefault {
		return nil
	}

	return []string{
		"if result := " + ConvertName + "(" + s.ParamName + "); result != nil {",
		"\treturn result",
		"}",
		"return new(" + s.Result.String() + ")",
	}
}

var docTemplates = template.Must(template.New("docs").Parse(`
{{- define "Convert" -}}
Converts {{.Source}} into {{.Target}}.

Returns nil when {{.ParamName}} is nil. Distinguished from other converters
by the name {{printf "%q" .Tag}}.
{{- end}}
{{- define "ConvertOrDefault" -}}
Converts {{.Source}} into {{.Target}}, never returning nil.

Returns a new {{.TargetSimple}} when {{.ParamName}} is nil or converts to nil.
{{- end}}
{{- define "ConvertList" -}}
Converts every element of {{.ParamName}} from {{.Source}} into {{.Target}}
with the {{printf "%q" .Tag}} converter.

A nil {{.ParamName}} yields an empty list.
{{- end}}
`))

type docData struct {
	Source       string
	Target       string
	TargetSimple string
	ParamName    string
	Tag          string
}

// Doc renders the documentation of a signature.
func Doc(s Signature, pair Pair) (string, error) {
	var buf bytes.Buffer

	data := docData{
		Source:       pair.Source.String(),
		Target:       pair.Target.String(),
		TargetSimple: pair.Target.SimpleName(),
		ParamName:    s.ParamName,
		Tag:          s.Tag,
	}

	if err := docTemplates.ExecuteTemplate(&buf, s.Purpose.String(), data); err != nil {
		return "", err
	}

	return strings.TrimSpace(buf.String()), nil
}
