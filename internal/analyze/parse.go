package analyze

import (
	"fmt"
	"strings"
	"unicode"
)

// primitiveNames are the predeclared non-class types.
var primitiveNames = map[string]bool{
	"bool": true, "string": true, "byte": true, "rune": true, "uintptr": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"float32": true, "float64": true, "complex64": true, "complex128": true,
}

// IsPrimitiveName reports whether name is a predeclared primitive type.
func IsPrimitiveName(name string) bool {
	return primitiveNames[name]
}

// ParseTypeRef parses the canonical text of a type reference.
//
// Supported forms:
//   - "pkg.dto.UserDto" and "example.com/app/dto.UserDto"
//   - "pkg.Page[pkg.User]" and "Map[K, V]" for parameterized types
//   - "[]pkg.User" for the built-in list
//   - "[4]int" for arrays
//   - "*pkg.User" (the pointer is dropped: references are nullable)
//   - "?" and "? extends pkg.User" for wildcards
//
// Names listed in params are parsed as type parameter references.
func ParseTypeRef(s string, params ...string) (*TypeRef, error) {
	p := &typeParser{src: s, params: params}

	ref, err := p.parse()
	if err != nil {
		return nil, fmt.Errorf("parsing type %q: %w", s, err)
	}

	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("parsing type %q: unexpected %q at offset %d", s, p.src[p.pos:], p.pos)
	}

	return ref, nil
}

// MustParseTypeRef is like ParseTypeRef but panics on error. Intended for tests
// and static tables.
func MustParseTypeRef(s string, params ...string) *TypeRef {
	ref, err := ParseTypeRef(s, params...)
	if err != nil {
		panic(err)
	}

	return ref
}

type typeParser struct {
	src    string
	pos    int
	params []string
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}

	return p.src[p.pos]
}

func (p *typeParser) parse() (*TypeRef, error) {
	p.skipSpace()

	switch c := p.peek(); {
	case c == 0:
		return nil, fmt.Errorf("unexpected end of input")
	case c == '*':
		p.pos++
		return p.parse()
	case c == '?':
		p.pos++
		p.skipSpace()

		if strings.HasPrefix(p.src[p.pos:], "extends ") || strings.HasPrefix(p.src[p.pos:], "super ") {
			p.pos += strings.Index(p.src[p.pos:], " ")
			if _, err := p.parse(); err != nil {
				return nil, err
			}
		}

		return Wildcard(), nil
	case c == '[':
		end := strings.IndexByte(p.src[p.pos:], ']')
		if end < 0 {
			return nil, fmt.Errorf("unterminated '['")
		}

		length := p.src[p.pos+1 : p.pos+end]
		p.pos += end + 1

		elem, err := p.parse()
		if err != nil {
			return nil, err
		}

		if length == "" {
			return SliceOf(elem), nil
		}

		return ArrayOf(length, elem), nil
	default:
		return p.parseNamed()
	}
}

func (p *typeParser) parseNamed() (*TypeRef, error) {
	start := p.pos
	for p.pos < len(p.src) && isNameChar(rune(p.src[p.pos])) {
		p.pos++
	}

	name := p.src[start:p.pos]
	if name == "" {
		return nil, fmt.Errorf("expected type name at offset %d", start)
	}

	for _, param := range p.params {
		if name == param {
			return Param(name), nil
		}
	}

	if IsPrimitiveName(name) {
		return Primitive(name), nil
	}

	ref := Class(name)
	if p.peek() != '[' {
		return ref, nil
	}

	p.pos++

	for {
		arg, err := p.parse()
		if err != nil {
			return nil, err
		}

		ref.Args = append(ref.Args, arg)

		p.skipSpace()

		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return ref, nil
		default:
			return nil, fmt.Errorf("expected ',' or ']' at offset %d", p.pos)
		}
	}
}

func isNameChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.' || r == '/' || r == '-'
}
