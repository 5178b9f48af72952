// Package filesystem provides the types.FS implementations used by oukaro:
// the real OS filesystem for the daemon and an afero-backed filesystem for
// tests. It also carries CopyTree, which the copy mount strategy uses to
// stage package content before bind-mounting it.
package filesystem
