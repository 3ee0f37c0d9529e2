package analyze

import (
	"fmt"
	"go/types"

	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedTypes |
	packages.NeedImports

// Loader loads Go packages and declares their named types in a TypeGraph.
//
// Go has no inheritance, so the loader maps Go's notion of assignability onto
// the graph: an interface implemented by T (or *T) becomes a supertype of T, and
// a named type whose underlying type is a slice inherits from the built-in list.
// Structs and defined basic types have a usable zero value, which counts as a
// zero-argument constructor.
type Loader struct {
	graph      *TypeGraph
	interfaces []*types.Named
	named      []*types.Named
}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{graph: NewTypeGraph()}
}

// LoadPackages loads the specified packages and builds the type graph.
// Patterns are standard Go package patterns (e.g., "./store", "assembler-generator/warehouse").
func (l *Loader) LoadPackages(patterns ...string) (*TypeGraph, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	for _, pkg := range pkgs {
		l.collectPackage(pkg)
	}

	for _, named := range l.named {
		l.graph.Add(l.declare(named))
	}

	return l.graph, nil
}

// Graph returns the current type graph.
func (l *Loader) Graph() *TypeGraph {
	return l.graph
}

// collectPackage records the exported named types of a loaded package.
func (l *Loader) collectPackage(pkg *packages.Package) {
	l.graph.Packages[pkg.PkgPath] = &PackageInfo{
		Path: pkg.PkgPath,
		Name: pkg.Name,
	}

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !typeName.Exported() || typeName.IsAlias() {
			continue
		}

		named, ok := typeName.Type().(*types.Named)
		if !ok {
			continue
		}

		l.named = append(l.named, named)

		if iface, ok := named.Underlying().(*types.Interface); ok && iface.NumMethods() > 0 {
			l.interfaces = append(l.interfaces, named)
		}
	}
}

// declare converts a named Go type into a TypeInfo.
func (l *Loader) declare(named *types.Named) *TypeInfo {
	obj := named.Obj()
	info := &TypeInfo{
		ID:     TypeID{PkgPath: obj.Pkg().Path(), Name: obj.Name()},
		GoType: named,
	}

	if tparams := named.TypeParams(); tparams != nil {
		for i := 0; i < tparams.Len(); i++ {
			info.Params = append(info.Params, tparams.At(i).Obj().Name())
		}
	}

	switch ut := named.Underlying().(type) {
	case *types.Interface:
		info.IsInterface = true
	case *types.Struct, *types.Basic:
		info.HasZeroArgCtor = true
	case *types.Slice:
		info.HasZeroArgCtor = true
		info.Supers = append(info.Supers, SliceOf(RefOf(ut.Elem())))
	}

	for _, iface := range l.interfaces {
		if iface == named {
			continue
		}

		if implements(named, iface) {
			info.Supers = append(info.Supers, RefOf(iface))
		}
	}

	return info
}

// implements reports whether T or *T satisfies the interface iface.
// Generic declarations are checked through their origin and skipped when
// instantiation would be required.
func implements(named, iface *types.Named) bool {
	if named.TypeParams().Len() > 0 || iface.TypeParams().Len() > 0 {
		return false
	}

	it, ok := iface.Underlying().(*types.Interface)
	if !ok {
		return false
	}

	return types.Implements(named, it) || types.Implements(types.NewPointer(named), it)
}

// RefOf converts a go/types type into a TypeRef. Pointers are dropped because
// every reference is nullable.
func RefOf(t types.Type) *TypeRef {
	switch tt := t.(type) {
	case *types.Named:
		obj := tt.Obj()
		name := obj.Name()
		if obj.Pkg() != nil {
			name = obj.Pkg().Path() + "." + name
		}

		ref := Class(name)
		if targs := tt.TypeArgs(); targs != nil {
			for i := 0; i < targs.Len(); i++ {
				ref.Args = append(ref.Args, RefOf(targs.At(i)))
			}
		}

		return ref
	case *types.Alias:
		return RefOf(types.Unalias(tt))
	case *types.Pointer:
		return RefOf(tt.Elem())
	case *types.Slice:
		return SliceOf(RefOf(tt.Elem()))
	case *types.Array:
		return ArrayOf(fmt.Sprint(tt.Len()), RefOf(tt.Elem()))
	case *types.Basic:
		return Primitive(tt.Name())
	case *types.TypeParam:
		return Param(tt.Obj().Name())
	default:
		return Class(t.String())
	}
}
