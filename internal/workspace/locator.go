package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"golang.org/x/mod/modfile"

	"assembler-generator/internal/common"
	"assembler-generator/internal/model"
)

var (
	// ErrNoSourceRoot is returned when no source root encloses a file.
	ErrNoSourceRoot = errors.New("no source root found")
	// ErrNotWritable is returned when the host directory cannot be modified.
	ErrNotWritable = errors.New("host directory is not writable")
)

// Default option values.
const (
	DefaultSubdirectory = "assemblers"
	GoModMarker         = "go.mod"
)

// DefaultSourceRoots are the directory suffixes recognized as source roots.
var DefaultSourceRoots = []string{"src/main/go", "src/main/java"}

// Options configures how source roots and host directories are found.
type Options struct {
	// SourceRoots are path suffixes marking a source root, e.g. "src/main/go".
	SourceRoots []string
	// RootMarkers are file names marking a source root, e.g. "go.mod".
	RootMarkers []string
	// Subdirectory is created under the host base to hold generated holders.
	Subdirectory string
}

// DefaultOptions returns the default locator options.
func DefaultOptions() Options {
	return Options{
		SourceRoots:  DefaultSourceRoots,
		RootMarkers:  []string{GoModMarker},
		Subdirectory: DefaultSubdirectory,
	}
}

// Root is a recognized source root.
type Root struct {
	Dir *model.Directory
	// ModulePath is the module declared by a go.mod marker. Packages below a
	// module root are import paths; below other roots they are dotted names.
	ModulePath string
}

// Locator finds the directory that hosts scope-wide holders.
type Locator struct {
	sources model.Sources
	opts    Options
	logger  *slog.Logger
}

// Option configures a Locator.
type Option func(*Locator)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Locator) {
		l.logger = logger
	}
}

// New creates a Locator over sources.
func New(sources model.Sources, opts Options, options ...Option) *Locator {
	if opts.Subdirectory == "" {
		opts.Subdirectory = DefaultSubdirectory
	}

	l := &Locator{
		sources: sources,
		opts:    opts,
		logger:  slog.Default(),
	}

	for _, o := range options {
		o(l)
	}

	return l
}

// SourceRoot walks upward from dir to the nearest source root.
func (l *Locator) SourceRoot(dir *model.Directory) (Root, error) {
	for d := dir; d != nil; d = d.Parent {
		for _, marker := range l.opts.RootMarkers {
			content, ok := d.Marker(marker)
			if !ok {
				continue
			}

			root := Root{Dir: d}
			if marker == GoModMarker {
				root.ModulePath = modfile.ModulePath(content)
				if root.ModulePath == "" {
					return Root{}, fmt.Errorf("%s in %s declares no module", marker, d.Path)
				}
			}

			return root, nil
		}

		for _, suffix := range l.opts.SourceRoots {
			if d.Path == suffix || strings.HasSuffix(d.Path, "/"+suffix) {
				return Root{Dir: d}, nil
			}
		}
	}

	if dir == nil {
		return Root{}, ErrNoSourceRoot
	}

	return Root{}, fmt.Errorf("above %s: %w", dir.Path, ErrNoSourceRoot)
}

// HostBase applies the host directory rule: starting at the source root,
// descend while the directory has no files of its own and exactly one
// subdirectory. The result is the deepest directory enclosing every source
// file under the root. The holder subdirectory itself is never descended into.
func (l *Locator) HostBase(root Root) *model.Directory {
	d := root.Dir

	for common.IsEmpty(d.Files) {
		var children []*model.Directory

		for _, c := range d.Children {
			if c.Name() != l.opts.Subdirectory {
				children = append(children, c)
			}
		}

		if !common.IsSingle(children) {
			break
		}

		d, _ = common.First(children)
	}

	return d
}

// PackageOf returns the package name of a directory below root.
func (l *Locator) PackageOf(root Root, dir *model.Directory) string {
	rel := strings.TrimPrefix(strings.TrimPrefix(dir.Path, root.Dir.Path), "/")

	if root.ModulePath != "" {
		return path.Join(root.ModulePath, rel)
	}

	return strings.ReplaceAll(rel, "/", ".")
}

// FindOrCreateHostDirectory returns the holder subdirectory for the source
// root enclosing file, creating it when missing.
func (l *Locator) FindOrCreateHostDirectory(file *model.File) (*model.Directory, error) {
	if file == nil || file.Dir == nil {
		return nil, ErrNoSourceRoot
	}

	root, err := l.SourceRoot(file.Dir)
	if err != nil {
		return nil, err
	}

	base := l.HostBase(root)
	if !base.Writable {
		return nil, fmt.Errorf("%s: %w", base.Path, ErrNotWritable)
	}

	sub := path.Join(base.Path, l.opts.Subdirectory)
	pkg := l.PackageOf(root, &model.Directory{Path: sub})

	host, err := l.sources.EnsureSubdirectory(base, l.opts.Subdirectory, pkg)
	if err != nil {
		return nil, fmt.Errorf("host directory: %w", err)
	}

	if !host.Writable {
		return nil, fmt.Errorf("%s: %w", host.Path, ErrNotWritable)
	}

	l.logger.Debug("host directory located",
		"file", file.Path, "root", root.Dir.Path, "host", host.Path, "package", host.Package)

	return host, nil
}
