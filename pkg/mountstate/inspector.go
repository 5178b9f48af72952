package mountstate

import (
	"path/filepath"
	"sort"

	"github.com/arthur-debert/oukaro/pkg/errors"
	"github.com/arthur-debert/oukaro/pkg/logging"
	"github.com/arthur-debert/oukaro/pkg/paths"
	"github.com/arthur-debert/oukaro/pkg/types"
	"github.com/moby/sys/mountinfo"
)

// Source reads the mount table, applying filter to each entry.
type Source func(filter mountinfo.FilterFunc) ([]*mountinfo.Info, error)

// TableInspector checks package targets against the mount table.
type TableInspector struct {
	layout paths.Layout
	source Source
}

// New returns an inspector reading the live table of this process.
func New(layout paths.Layout) *TableInspector {
	return NewWithSource(layout, mountinfo.GetMounts)
}

// NewWithSource returns an inspector reading from source.
func NewWithSource(layout paths.Layout, source Source) *TableInspector {
	return &TableInspector{layout: layout, source: source}
}

var _ types.Inspector = (*TableInspector)(nil)

// IsMounted reports whether the target of (name, role) is a mount point.
func (i *TableInspector) IsMounted(name types.PackageName, role types.Role) (bool, error) {
	target := i.layout.Target(name, role)
	mounted, err := i.IsMountPoint(target)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrInspectFailure, "cannot inspect %s", name).
			WithDetail("package", string(name)).
			WithDetail("role", role.String())
	}
	return mounted, nil
}

// IsMountPoint reports whether path appears as a mount point.
func (i *TableInspector) IsMountPoint(path string) (bool, error) {
	entries, err := i.source(mountinfo.SingleEntryFilter(filepath.Clean(path)))
	if err != nil {
		return false, errors.Wrap(err, errors.ErrInspectFailure, "cannot read mount table").
			WithDetail("path", path)
	}
	logger := logging.GetLogger("mountstate")
	logger.Trace().
		Str("path", path).
		Bool("mounted", len(entries) > 0).
		Msg("Checked mount point")
	return len(entries) > 0, nil
}

// IsOverlay reports whether path carries an overlay mount.
func (i *TableInspector) IsOverlay(path string) (bool, error) {
	clean := filepath.Clean(path)
	entries, err := i.source(func(info *mountinfo.Info) (bool, bool) {
		return info.Mountpoint != clean || info.FSType != "overlay", false
	})
	if err != nil {
		return false, errors.Wrap(err, errors.ErrInspectFailure, "cannot read mount table").
			WithDetail("path", path)
	}
	return len(entries) > 0, nil
}

// Mount describes one injection found in the table.
type Mount struct {
	Package    types.PackageName
	Role       types.Role
	Mountpoint string
	Source     string
	FSType     string
	Root       string
}

// ListInjected returns every mount sitting directly under the role
// directory, sorted by package name. Stacked mounts on the same target are
// reported once, using the topmost entry.
func (i *TableInspector) ListInjected(role types.Role) ([]Mount, error) {
	roleDir := i.layout.RoleDir(role)
	entries, err := i.source(mountinfo.PrefixFilter(roleDir))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInspectFailure, "cannot read mount table").
			WithDetail("role", role.String())
	}

	byName := make(map[types.PackageName]Mount)
	for _, e := range entries {
		name, ok := i.layout.PackageFromTarget(e.Mountpoint, role)
		if !ok {
			continue
		}
		// mountinfo lists mounts in mount order, so later entries are on top
		byName[name] = Mount{
			Package:    name,
			Role:       role,
			Mountpoint: e.Mountpoint,
			Source:     e.Source,
			FSType:     e.FSType,
			Root:       e.Root,
		}
	}

	out := make([]Mount, 0, len(byName))
	for _, m := range byName {
		out = append(out, m)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Package < out[b].Package })
	return out, nil
}
