package resolver

import (
	"bufio"
	"bytes"
	"context"
	stderrors "errors"
	"os/exec"
	"path"
	"strings"
	"time"

	"github.com/arthur-debert/oukaro/pkg/errors"
	"github.com/arthur-debert/oukaro/pkg/logging"
	"github.com/arthur-debert/oukaro/pkg/types"
)

const (
	// DefaultCommand is the package manager binary on device.
	DefaultCommand = "pm"

	// notFoundExit is what pm returns for a package it does not know.
	notFoundExit = 1

	linePrefix = "package:"
	baseAPK    = "base.apk"
)

// PMResolver answers "where is this package installed" by asking the
// package manager with `pm path <name>`.
type PMResolver struct {
	runner  CommandRunner
	command string
	timeout time.Duration
}

// Option configures a PMResolver.
type Option func(*PMResolver)

// WithCommand overrides the package manager binary.
func WithCommand(command string) Option {
	return func(r *PMResolver) {
		if command != "" {
			r.command = command
		}
	}
}

// WithTimeout bounds each query. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(r *PMResolver) { r.timeout = d }
}

// New returns a resolver backed by runner.
func New(runner CommandRunner, opts ...Option) *PMResolver {
	r := &PMResolver{runner: runner, command: DefaultCommand}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ types.Resolver = (*PMResolver)(nil)

// Resolve returns the directory holding the package's APKs. An uninstalled
// package yields found=false with a nil error. A query that could not run,
// or a package manager that answered with anything but a clean not-found,
// is RESOLVER_FAILURE.
func (r *PMResolver) Resolve(ctx context.Context, name types.PackageName) (string, bool, error) {
	logger := logging.GetLogger("resolver")

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	stdout, stderr, code, err := r.runner.Run(ctx, r.command, "path", string(name))
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", false, errors.Wrapf(ctxErr, errors.ErrResolverFailure,
			"%s path %s did not complete", r.command, name).
			WithDetail("package", string(name))
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !stderrors.As(err, &exitErr) {
			return "", false, errors.Wrapf(err, errors.ErrResolverFailure,
				"cannot run %s", r.command).
				WithDetail("package", string(name))
		}
	}

	dir, ok := ParseOutput(stdout)
	if !ok {
		if !notInstalled(stdout, stderr, code) {
			return "", false, errors.Newf(errors.ErrResolverFailure,
				"%s path %s failed with exit code %d", r.command, name, code).
				WithDetail("package", string(name)).
				WithDetail("exit_code", code).
				WithDetail("stderr", strings.TrimSpace(string(stderr)))
		}
		logger.Debug().
			Str("package", string(name)).
			Int("exit_code", code).
			Msg("Package not installed")
		return "", false, nil
	}

	logger.Trace().
		Str("package", string(name)).
		Str("path", dir).
		Msg("Resolved package")
	return dir, true, nil
}

// notInstalled reports whether a reply without package lines is the
// package manager's not-found answer: no output at all and an exit code of
// 0 or 1. Anything else means the package manager itself is unavailable.
func notInstalled(stdout, stderr []byte, code int) bool {
	if len(bytes.TrimSpace(stdout)) > 0 || len(bytes.TrimSpace(stderr)) > 0 {
		return false
	}
	return code == 0 || code == notFoundExit
}

// ParseOutput extracts the install directory from `pm path` output. Lines
// look like "package:/data/app/<dir>/base.apk"; split APKs add one line each.
// The base APK wins, otherwise the first package line is used.
func ParseOutput(out []byte) (string, bool) {
	var first string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, linePrefix) {
			continue
		}
		apk := strings.TrimSpace(strings.TrimPrefix(line, linePrefix))
		if apk == "" {
			continue
		}
		if path.Base(apk) == baseAPK {
			return path.Dir(apk), true
		}
		if first == "" {
			first = apk
		}
	}
	if first == "" {
		return "", false
	}
	return path.Dir(first), true
}
