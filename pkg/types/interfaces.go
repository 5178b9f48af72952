package types

import (
	"context"
	"io/fs"
)

// FS is the filesystem interface used for config files and content staging
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
	Rename(oldpath, newpath string) error

	// For testing, Lstat can fall back to Stat
	Lstat(name string) (fs.FileInfo, error)
}

// DesiredStore loads the declared package sets from durable storage.
type DesiredStore interface {
	Load() (DesiredState, error)
}

// Resolver maps a package name to the directory holding its installed
// content. found=false with a nil error means the package is not installed.
type Resolver interface {
	Resolve(ctx context.Context, name PackageName) (path string, found bool, err error)
}

// Inspector answers whether a package's injection is currently mounted.
// Implementations must consult the live mount table on every call.
type Inspector interface {
	IsMounted(name PackageName, role Role) (bool, error)
}

// Operator injects or retracts a package. Both calls are idempotent.
type Operator interface {
	Apply(name PackageName, role Role, source string) error
	Retract(name PackageName, role Role) error
}

// Notifier blocks until the configuration source may have changed.
type Notifier interface {
	Wait(ctx context.Context) error
}
