package testutil

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/arthur-debert/oukaro/pkg/errors"
	"github.com/arthur-debert/oukaro/pkg/mountstate"
	"github.com/arthur-debert/oukaro/pkg/types"
)

type hostKey struct {
	role types.Role
	name types.PackageName
}

// FakeHost models a device: the package manager, the mount table and the
// mount operator share one state, so a test can drive a reconciler against
// it and then assert on both the calls made and the resulting mounts.
//
// Operator calls are recorded as "Apply(name,role,source)" and
// "Retract(name,role)".
type FakeHost struct {
	mu sync.Mutex

	installed map[types.PackageName]string
	mounted   map[hostKey]string
	calls     []string

	resolveCount int
	inspectCount int

	// ResolveErr fails every resolver call when set
	ResolveErr error
	// InspectErr fails every inspector call when set
	InspectErr error
	// ApplyErr and RetractErr fail the named packages
	ApplyErr   map[types.PackageName]error
	RetractErr map[types.PackageName]error
}

// NewFakeHost returns a host with nothing installed and nothing mounted.
func NewFakeHost() *FakeHost {
	return &FakeHost{
		installed:  make(map[types.PackageName]string),
		mounted:    make(map[hostKey]string),
		ApplyErr:   make(map[types.PackageName]error),
		RetractErr: make(map[types.PackageName]error),
	}
}

// Install makes the package manager report name at dir.
func (h *FakeHost) Install(name types.PackageName, dir string) *FakeHost {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.installed[name] = dir
	return h
}

// Uninstall removes name from the package manager.
func (h *FakeHost) Uninstall(name types.PackageName) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.installed, name)
}

// MountExternally adds a mount without recording an operator call, as if
// it survived from a previous run or was made by someone else.
func (h *FakeHost) MountExternally(name types.PackageName, role types.Role, source string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.mounted[hostKey{role, name}] = source
}

// UnmountExternally drops a mount without recording an operator call.
func (h *FakeHost) UnmountExternally(name types.PackageName, role types.Role) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.mounted, hostKey{role, name})
}

// Mounted reports whether (name, role) is in the mount table.
func (h *FakeHost) Mounted(name types.PackageName, role types.Role) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.mounted[hostKey{role, name}]
	return ok
}

// MountedSet returns the mounted packages of role.
func (h *FakeHost) MountedSet(role types.Role) types.PackageSet {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := types.NewPackageSet()
	for k := range h.mounted {
		if k.role == role {
			set.Add(k.name)
		}
	}
	return set
}

// Calls returns the recorded operator calls in order.
func (h *FakeHost) Calls() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.calls...)
}

// ResetCalls clears the call log and counters.
func (h *FakeHost) ResetCalls() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = nil
	h.resolveCount = 0
	h.inspectCount = 0
}

// ResolveCount is the number of resolver calls since the last reset.
func (h *FakeHost) ResolveCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.resolveCount
}

// InspectCount is the number of inspector calls since the last reset.
func (h *FakeHost) InspectCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.inspectCount
}

// Resolve implements types.Resolver.
func (h *FakeHost) Resolve(ctx context.Context, name types.PackageName) (string, bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.resolveCount++
	if h.ResolveErr != nil {
		return "", false, h.ResolveErr
	}
	dir, ok := h.installed[name]
	return dir, ok, nil
}

// IsMounted implements types.Inspector.
func (h *FakeHost) IsMounted(name types.PackageName, role types.Role) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.inspectCount++
	if h.InspectErr != nil {
		return false, h.InspectErr
	}
	_, ok := h.mounted[hostKey{role, name}]
	return ok, nil
}

// ListInjected lists the mounts of role under the default system root.
func (h *FakeHost) ListInjected(role types.Role) ([]mountstate.Mount, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.InspectErr != nil {
		return nil, h.InspectErr
	}
	var out []mountstate.Mount
	for k, source := range h.mounted {
		if k.role != role {
			continue
		}
		out = append(out, mountstate.Mount{
			Package:    k.name,
			Role:       role,
			Mountpoint: path.Join("/system", role.Dir(), string(k.name)),
			Source:     source,
		})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Package < out[b].Package })
	return out, nil
}

// Apply implements types.Operator.
func (h *FakeHost) Apply(name types.PackageName, role types.Role, source string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, fmt.Sprintf("Apply(%s,%s,%s)", name, role, source))
	if err := h.ApplyErr[name]; err != nil {
		return err
	}
	if source == "" {
		return errors.New(errors.ErrSourceUnavailable, "empty source")
	}
	h.mounted[hostKey{role, name}] = source
	return nil
}

// Retract implements types.Operator.
func (h *FakeHost) Retract(name types.PackageName, role types.Role) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, fmt.Sprintf("Retract(%s,%s)", name, role))
	if err := h.RetractErr[name]; err != nil {
		return err
	}
	delete(h.mounted, hostKey{role, name})
	return nil
}

// CallsMatching returns the recorded calls that start with prefix.
func (h *FakeHost) CallsMatching(prefix string) []string {
	var out []string
	for _, c := range h.Calls() {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}
