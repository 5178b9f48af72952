package mount

import stderrors "errors"

// ErrNotMounted is returned by Mounter.Unmount when the target carries no
// mount. Operator treats it as a successful retraction.
var ErrNotMounted = stderrors.New("target is not mounted")

// Mounter performs the raw mount syscalls.
type Mounter interface {
	// Bind recursively bind-mounts source onto target.
	Bind(source, target string) error
	// Remount changes the read-only flag of an existing bind mount.
	Remount(target string, readOnly bool) error
	// Overlay mounts an overlayfs on target.
	Overlay(lower, upper, work, target string) error
	// Unmount detaches target, lazily when lazy is set.
	Unmount(target string, lazy bool) error
}
