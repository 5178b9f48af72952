package mount

import (
	stderrors "errors"
	"os"

	"github.com/arthur-debert/oukaro/pkg/errors"
	"github.com/arthur-debert/oukaro/pkg/filesystem"
	"github.com/arthur-debert/oukaro/pkg/logging"
	"github.com/arthur-debert/oukaro/pkg/paths"
	"github.com/arthur-debert/oukaro/pkg/types"
)

// Strategies
const (
	StrategyBind = "bind"
	StrategyCopy = "copy"
)

// Checker is the part of the mount table inspector the operator needs.
type Checker interface {
	IsMountPoint(path string) (bool, error)
	IsOverlay(path string) (bool, error)
}

// Options tune how packages are injected.
type Options struct {
	// Strategy is StrategyBind (mount the installed directory) or
	// StrategyCopy (mount a private copy staged under the module directory).
	Strategy    string
	ReadOnly    bool
	LazyUnmount bool
	// Overlay makes Prepare mount an overlayfs over the system root.
	Overlay bool
}

// Operator applies and retracts package injections.
type Operator struct {
	fs      types.FS
	layout  paths.Layout
	mounter Mounter
	checker Checker
	opts    Options
}

// NewOperator wires an operator. An empty strategy means bind.
func NewOperator(fs types.FS, layout paths.Layout, mounter Mounter, checker Checker, opts Options) *Operator {
	if opts.Strategy == "" {
		opts.Strategy = StrategyBind
	}
	return &Operator{
		fs:      fs,
		layout:  layout,
		mounter: mounter,
		checker: checker,
		opts:    opts,
	}
}

var _ types.Operator = (*Operator)(nil)

// Prepare makes the system root writable for target directories by
// mounting an overlay over it. It is skipped when overlay is disabled or
// already in place.
func (o *Operator) Prepare() error {
	logger := logging.GetLogger("mount")
	if !o.opts.Overlay {
		return nil
	}

	root := o.layout.SystemRoot()
	present, err := o.checker.IsOverlay(root)
	if err != nil {
		return errors.Wrap(err, errors.ErrMountFailure, "cannot check system overlay")
	}
	if present {
		logger.Debug().Str("root", root).Msg("System overlay already mounted")
		return nil
	}

	upper, work := o.layout.OverlayUpper(), o.layout.OverlayWork()
	for _, dir := range []string{upper, work} {
		if err := o.fs.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrMountFailure, "cannot create %s", dir)
		}
	}
	if err := o.mounter.Overlay(root, upper, work, root); err != nil {
		return errors.Wrapf(err, errors.ErrMountFailure, "cannot mount overlay on %s", root).
			WithDetail("upper", upper)
	}

	logger.Info().Str("root", root).Str("upper", upper).Msg("Mounted system overlay")
	return nil
}

// Apply injects name at its role target from source. Already mounted
// targets are left alone.
func (o *Operator) Apply(name types.PackageName, role types.Role, source string) error {
	if err := validate(name, role); err != nil {
		return err
	}
	target := o.layout.Target(name, role)
	logger := logging.WithPackage(logging.GetLogger("mount"), string(name), role.String(), "apply")

	mounted, err := o.checker.IsMountPoint(target)
	if err != nil {
		return mountErr(err, name, role, "cannot inspect target")
	}
	if mounted {
		logger.Debug().Str("target", target).Msg("Already mounted")
		return nil
	}

	info, err := o.fs.Stat(source)
	if err != nil {
		cause := errors.Wrapf(err, errors.ErrSourceUnavailable, "source %s", source)
		return mountErr(cause, name, role, "source unavailable")
	}
	if !info.IsDir() {
		cause := errors.Newf(errors.ErrSourceUnavailable, "source %s is not a directory", source)
		return mountErr(cause, name, role, "source unavailable")
	}

	_, statErr := o.fs.Stat(target)
	created := os.IsNotExist(statErr)
	if err := o.fs.MkdirAll(target, 0755); err != nil {
		return mountErr(targetErr(err, target), name, role, "cannot create target")
	}

	mountSource := source
	if o.opts.Strategy == StrategyCopy {
		staging := o.layout.StagingDir(name, role)
		if err := o.stage(source, staging); err != nil {
			o.discardTarget(target, created)
			return mountErr(err, name, role, "cannot stage package")
		}
		mountSource = staging
	}

	if err := o.mounter.Bind(mountSource, target); err != nil {
		o.discardStaging(name, role)
		o.discardTarget(target, created)
		return mountErr(err, name, role, "bind mount failed")
	}

	if o.opts.ReadOnly {
		if err := o.mounter.Remount(target, true); err != nil {
			if uerr := o.mounter.Unmount(target, true); uerr != nil && !stderrors.Is(uerr, ErrNotMounted) {
				logger.Warn().Err(uerr).Msg("Cannot undo bind mount after failed remount")
			} else {
				o.discardTarget(target, created)
			}
			o.discardStaging(name, role)
			return mountErr(err, name, role, "read-only remount failed")
		}
	}

	logger.Info().
		Str("source", mountSource).
		Str("target", target).
		Str("strategy", o.opts.Strategy).
		Msg("Injected package")
	return nil
}

// Retract removes the injection of name. A target that is not mounted is a
// success, including when the kernel reports it as such during unmount.
func (o *Operator) Retract(name types.PackageName, role types.Role) error {
	if err := validate(name, role); err != nil {
		return err
	}
	target := o.layout.Target(name, role)
	logger := logging.WithPackage(logging.GetLogger("mount"), string(name), role.String(), "retract")

	mounted, err := o.checker.IsMountPoint(target)
	if err != nil {
		return unmountErr(err, name, role, "cannot inspect target")
	}
	if !mounted {
		logger.Debug().Str("target", target).Msg("Not mounted")
		return nil
	}

	if err := o.mounter.Unmount(target, o.opts.LazyUnmount); err != nil {
		if !stderrors.Is(err, ErrNotMounted) {
			return unmountErr(err, name, role, "unmount failed")
		}
		logger.Debug().Str("target", target).Msg("Target vanished before unmount")
	}

	o.discardStaging(name, role)
	if err := o.fs.Remove(target); err != nil && !os.IsNotExist(err) {
		logger.Debug().Err(err).Str("target", target).Msg("Target directory left in place")
	}

	logger.Info().Str("target", target).Msg("Retracted package")
	return nil
}

func (o *Operator) stage(source, staging string) error {
	if err := o.fs.RemoveAll(staging); err != nil {
		return errors.Wrapf(err, errors.ErrStaging, "cannot clear %s", staging)
	}
	if err := filesystem.CopyTree(o.fs, source, staging); err != nil {
		_ = o.fs.RemoveAll(staging)
		return errors.Wrapf(err, errors.ErrStaging, "cannot copy %s to %s", source, staging)
	}
	return nil
}

func (o *Operator) discardStaging(name types.PackageName, role types.Role) {
	staging := o.layout.StagingDir(name, role)
	if err := o.fs.RemoveAll(staging); err != nil {
		logger := logging.GetLogger("mount")
		logger.Warn().Err(err).Str("staging", staging).Msg("Cannot remove staging copy")
	}
}

// discardTarget removes a target directory that Apply created itself.
func (o *Operator) discardTarget(target string, created bool) {
	if !created {
		return
	}
	if err := o.fs.Remove(target); err != nil && !os.IsNotExist(err) {
		logger := logging.GetLogger("mount")
		logger.Warn().Err(err).Str("target", target).Msg("Cannot remove target directory")
	}
}

func validate(name types.PackageName, role types.Role) error {
	if !role.Valid() {
		return errors.Newf(errors.ErrInvalidInput, "invalid role %s", role)
	}
	if err := types.ValidatePackageName(string(name)); err != nil {
		return errors.Wrap(err, errors.ErrInvalidInput, "invalid package name")
	}
	return nil
}

func targetErr(err error, target string) error {
	if os.IsPermission(err) {
		return errors.Wrapf(err, errors.ErrPermissionDenied, "create target %s", target)
	}
	return err
}

func mountErr(err error, name types.PackageName, role types.Role, msg string) error {
	return errors.Wrap(err, errors.ErrMountFailure, msg).
		WithDetail("package", string(name)).
		WithDetail("role", role.String())
}

func unmountErr(err error, name types.PackageName, role types.Role, msg string) error {
	return errors.Wrap(err, errors.ErrUnmountFailure, msg).
		WithDetail("package", string(name)).
		WithDetail("role", role.String())
}
