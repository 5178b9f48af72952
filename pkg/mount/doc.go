// Package mount injects packages into the system partition with bind
// mounts and removes them again.
//
// The kernel boundary is the Mounter interface. Operator layers the
// idempotency checks, source validation, copy staging and cleanup on top of
// it, and maps every failure to MOUNT_FAILURE or UNMOUNT_FAILURE with the
// specific cause (PERMISSION_DENIED, TARGET_BUSY, SOURCE_UNAVAILABLE)
// preserved underneath.
package mount
