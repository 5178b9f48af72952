// Package types defines the core types and capability interfaces used
// throughout oukaro: package names, roles, package sets, the desired state
// document, and the boundaries to the package manager, the mount table and
// the mount syscalls.
package types
