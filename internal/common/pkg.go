package common

import (
	"path"
	"strings"
)

// PkgAlias returns the package alias (last element of path) for a given package path.
// Dotted package names ("pkg.dto") use their last dotted segment.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	base := path.Base(pkgPath)
	if i := strings.LastIndex(base, "."); i >= 0 && !strings.Contains(pkgPath, "/") {
		return base[i+1:]
	}

	return base
}
