package types

import (
	"fmt"
	"strings"
)

// PackageName is an Android package identifier, e.g. com.example.app.
// It is case-sensitive and doubles as the last segment of the target path.
type PackageName string

func (p PackageName) String() string { return string(p) }

// ValidatePackageName rejects names that are empty or cannot be used as a
// single path segment under the system app directories.
func ValidatePackageName(name string) error {
	if name == "" {
		return fmt.Errorf("package name is empty")
	}
	if strings.TrimSpace(name) != name {
		return fmt.Errorf("package name %q has surrounding whitespace", name)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("package name %q is not a valid path segment", name)
	}
	if strings.ContainsAny(name, "/\x00") {
		return fmt.Errorf("package name %q contains a path separator or NUL", name)
	}
	return nil
}
