package paths

import (
	"path/filepath"

	"github.com/arthur-debert/oukaro/pkg/errors"
	"github.com/arthur-debert/oukaro/pkg/types"
)

// Default directories and files
const (
	// DefaultSystemRoot is the partition packages are injected into
	DefaultSystemRoot = "/system"

	// DefaultModuleDir is the writable directory owned by oukaro
	DefaultModuleDir = "/data/adb/oukaro"

	// ConfigFileName is the desired-state document inside the module directory
	ConfigFileName = "config.toml"

	// StagingDirName holds copies made by the copy mount strategy
	StagingDirName = "staging"

	// OverlayDirName holds the overlay upper and work directories
	OverlayDirName = "overlay"
)

// Layout resolves target, staging and overlay locations.
type Layout struct {
	systemRoot string
	moduleDir  string
}

// New validates both roots and returns a Layout.
func New(systemRoot, moduleDir string) (Layout, error) {
	if systemRoot == "" {
		systemRoot = DefaultSystemRoot
	}
	if moduleDir == "" {
		moduleDir = DefaultModuleDir
	}
	if !filepath.IsAbs(systemRoot) {
		return Layout{}, errors.Newf(errors.ErrInvalidInput, "system root must be absolute: %s", systemRoot)
	}
	if !filepath.IsAbs(moduleDir) {
		return Layout{}, errors.Newf(errors.ErrInvalidInput, "module dir must be absolute: %s", moduleDir)
	}
	return Layout{
		systemRoot: filepath.Clean(systemRoot),
		moduleDir:  filepath.Clean(moduleDir),
	}, nil
}

// Default returns the on-device layout.
func Default() Layout {
	return Layout{systemRoot: DefaultSystemRoot, moduleDir: DefaultModuleDir}
}

// SystemRoot is the injection partition root.
func (l Layout) SystemRoot() string { return l.systemRoot }

// ModuleDir is oukaro's writable directory.
func (l Layout) ModuleDir() string { return l.moduleDir }

// DefaultConfigPath is the desired-state file inside the module directory.
func (l Layout) DefaultConfigPath() string {
	return filepath.Join(l.moduleDir, ConfigFileName)
}

// RoleDir returns <system>/app or <system>/priv-app.
func (l Layout) RoleDir(role types.Role) string {
	return filepath.Join(l.systemRoot, role.Dir())
}

// Target returns the mount point for a package.
func (l Layout) Target(name types.PackageName, role types.Role) string {
	return filepath.Join(l.RoleDir(role), string(name))
}

// StagingDir returns where the copy strategy stages a package.
func (l Layout) StagingDir(name types.PackageName, role types.Role) string {
	return filepath.Join(l.moduleDir, StagingDirName, role.Dir(), string(name))
}

// OverlayUpper is the overlayfs upperdir used over the system root.
func (l Layout) OverlayUpper() string {
	return filepath.Join(l.moduleDir, OverlayDirName, "upper")
}

// OverlayWork is the overlayfs workdir used over the system root.
func (l Layout) OverlayWork() string {
	return filepath.Join(l.moduleDir, OverlayDirName, "work")
}

// PackageFromTarget maps a mount point back to a package name when it sits
// directly under the role directory.
func (l Layout) PackageFromTarget(mountpoint string, role types.Role) (types.PackageName, bool) {
	clean := filepath.Clean(mountpoint)
	if filepath.Dir(clean) != l.RoleDir(role) {
		return "", false
	}
	name := filepath.Base(clean)
	if types.ValidatePackageName(name) != nil {
		return "", false
	}
	return types.PackageName(name), true
}
