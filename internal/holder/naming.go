package holder

import "assembler-generator/internal/analyze"

// Defaults for Settings.
const (
	DefaultSuffix    = "Assembler"
	DefaultMarker    = "mapper.Mapper"
	DefaultSingleton = "Instance"
	DefaultFactory   = "mappers.Get"
)

// Naming derives the holder name from the element-level target type.
type Naming interface {
	HolderName(target *analyze.TypeRef) string
}

// SuffixNaming names holders <TargetSimpleName><Suffix>.
type SuffixNaming struct {
	Suffix string
}

// HolderName implements Naming.
func (n SuffixNaming) HolderName(target *analyze.TypeRef) string {
	return target.SimpleName() + n.Suffix
}

// Settings configures holder resolution.
type Settings struct {
	Naming    Naming
	Marker    string // annotation identifying holders
	Singleton string // name of the shared instance field
	Factory   string // function creating the shared instance
}

// DefaultSettings returns the default holder settings.
func DefaultSettings() Settings {
	return Settings{
		Naming:    SuffixNaming{Suffix: DefaultSuffix},
		Marker:    DefaultMarker,
		Singleton: DefaultSingleton,
		Factory:   DefaultFactory,
	}
}
