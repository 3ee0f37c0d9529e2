package match

import (
	"sort"
)

// defaultIgnored are built-in and runtime types for which no business-level
// conversion is meaningful.
var defaultIgnored = []string{
	// predeclared
	"any", "error", "bool", "string", "byte", "rune",
	"int", "int8", "int16", "int32", "int64",
	"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
	"float32", "float64", "complex64", "complex128",
	// numeric
	"math/big.Int", "math/big.Float", "math/big.Rat",
	// time
	"time.Time", "time.Duration", "time.Location", "time.Month", "time.Weekday",
	// runtime and plumbing
	"context.Context", "reflect.Type", "reflect.Value",
	"sync.Mutex", "sync.RWMutex", "sync.WaitGroup", "sync.Once",
	"bytes.Buffer", "strings.Builder", "fmt.Stringer",
	"io.Reader", "io.Writer", "io.Closer", "os.File",
	"encoding/json.Number", "encoding/json.RawMessage",
	"net.IP", "net/url.URL", "regexp.Regexp",
}

// IgnoreSet is an immutable set of qualified type names. The zero value is empty.
type IgnoreSet struct {
	names map[string]struct{}
}

// NewIgnoreSet creates an IgnoreSet holding names.
func NewIgnoreSet(names ...string) IgnoreSet {
	set := IgnoreSet{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		set.names[n] = struct{}{}
	}

	return set
}

// DefaultIgnoreSet returns the built-in ignore list.
func DefaultIgnoreSet() IgnoreSet {
	return NewIgnoreSet(defaultIgnored...)
}

// With returns a new set holding the receiver's names plus names.
func (s IgnoreSet) With(names ...string) IgnoreSet {
	return NewIgnoreSet(append(s.Names(), names...)...)
}

// Contains reports whether qualifiedName is ignored.
func (s IgnoreSet) Contains(qualifiedName string) bool {
	_, ok := s.names[qualifiedName]
	return ok
}

// Len returns the number of names in the set.
func (s IgnoreSet) Len() int {
	return len(s.names)
}

// Names returns the names in sorted order.
func (s IgnoreSet) Names() []string {
	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}

	sort.Strings(out)

	return out
}
