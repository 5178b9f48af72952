//go:build !linux

package mount

import "github.com/arthur-debert/oukaro/pkg/errors"

type unsupportedMounter struct{}

// NewMounter returns a mounter that refuses every call off Linux.
func NewMounter() Mounter {
	return unsupportedMounter{}
}

func (unsupportedMounter) Bind(string, string) error { return notImplemented() }

func (unsupportedMounter) Remount(string, bool) error { return notImplemented() }

func (unsupportedMounter) Overlay(string, string, string, string) error { return notImplemented() }

func (unsupportedMounter) Unmount(string, bool) error { return notImplemented() }

func notImplemented() error {
	return errors.New(errors.ErrNotImplemented, "mounting is only supported on linux")
}
