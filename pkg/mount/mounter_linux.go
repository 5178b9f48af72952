//go:build linux

package mount

import (
	stderrors "errors"
	"fmt"

	"github.com/arthur-debert/oukaro/pkg/errors"
	"golang.org/x/sys/unix"
)

type linuxMounter struct{}

// NewMounter returns the kernel-backed mounter.
func NewMounter() Mounter {
	return linuxMounter{}
}

func (linuxMounter) Bind(source, target string) error {
	if err := unix.Mount(source, target, "", unix.MS_BIND|unix.MS_REC, ""); err != nil {
		return classify(err, errors.ErrMountFailure, "bind %s on %s", source, target)
	}
	return nil
}

func (linuxMounter) Remount(target string, readOnly bool) error {
	flags := uintptr(unix.MS_REMOUNT | unix.MS_BIND)
	if readOnly {
		flags |= unix.MS_RDONLY
	}
	if err := unix.Mount("", target, "", flags, ""); err != nil {
		return classify(err, errors.ErrMountFailure, "remount %s", target)
	}
	return nil
}

func (linuxMounter) Overlay(lower, upper, work, target string) error {
	data := fmt.Sprintf("lowerdir=%s,upperdir=%s,workdir=%s", lower, upper, work)
	if err := unix.Mount("overlay", target, "overlay", 0, data); err != nil {
		return classify(err, errors.ErrMountFailure, "overlay on %s", target)
	}
	return nil
}

func (linuxMounter) Unmount(target string, lazy bool) error {
	flags := 0
	if lazy {
		flags = unix.MNT_DETACH
	}
	err := unix.Unmount(target, flags)
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, unix.EINVAL), stderrors.Is(err, unix.ENOENT):
		return fmt.Errorf("%s: %w", target, ErrNotMounted)
	default:
		return classify(err, errors.ErrUnmountFailure, "unmount %s", target)
	}
}

// classify maps an errno to the matching error code, falling back to code.
func classify(err error, code errors.ErrorCode, format string, args ...interface{}) error {
	switch {
	case stderrors.Is(err, unix.EPERM), stderrors.Is(err, unix.EACCES), stderrors.Is(err, unix.EROFS):
		code = errors.ErrPermissionDenied
	case stderrors.Is(err, unix.EBUSY):
		code = errors.ErrTargetBusy
	case stderrors.Is(err, unix.ENOENT), stderrors.Is(err, unix.ENOTDIR):
		code = errors.ErrSourceUnavailable
	}
	return errors.Wrapf(err, code, format, args...)
}
