package synth

import "strings"

//go:generate go tool stringer -type=Purpose -trimprefix=Purpose -output=purpose_string.go

// Purpose is the role of a synthesized method in a holder.
type Purpose int

const (
	// PurposeConvert converts one nullable source into a nullable target.
	PurposeConvert Purpose = iota
	// PurposeConvertOrDefault converts like PurposeConvert but returns a new
	// target instance instead of null.
	PurposeConvertOrDefault
	// PurposeConvertList converts a list element by element.
	PurposeConvertList
)

// Method names per purpose.
const (
	ConvertName          = "convert"
	ConvertOrDefaultName = "convertOrNewInstance"
	listPrefix           = "convertFrom"
	listSuffix           = "List"
)

// PurposeOf derives the purpose of an existing method from its name.
func PurposeOf(methodName string) (Purpose, bool) {
	switch {
	case methodName == ConvertName:
		return PurposeConvert, true
	case methodName == ConvertOrDefaultName:
		return PurposeConvertOrDefault, true
	case len(methodName) > len(listPrefix)+len(listSuffix) &&
		strings.HasPrefix(methodName, listPrefix) && strings.HasSuffix(methodName, listSuffix):
		return PurposeConvertList, true
	default:
		return 0, false
	}
}
