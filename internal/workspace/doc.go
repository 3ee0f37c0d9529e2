// Package workspace locates the directory that hosts scope-wide conversion
// holders.
//
// A source root is the nearest directory above a file that either carries a
// root marker (go.mod, whose module path becomes the package prefix) or whose
// path ends with a configured source-root suffix. Below the root, the host
// base is chosen by one fixed rule (see Locator.HostBase), so every file under
// the same root resolves to the same host directory.
package workspace
