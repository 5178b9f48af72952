package reconcile

import (
	"context"

	"github.com/arthur-debert/oukaro/pkg/mountstate"
	"github.com/arthur-debert/oukaro/pkg/paths"
	"github.com/arthur-debert/oukaro/pkg/types"
)

// Lister is an inspector that can also enumerate injections.
type Lister interface {
	types.Inspector
	ListInjected(role types.Role) ([]mountstate.Mount, error)
}

// Report compares desired state with the live mount table without changing
// anything. Declared packages come first in role and name order, followed
// by orphaned mounts of undeclared packages.
func Report(ctx context.Context, desired types.DesiredState, resolver types.Resolver, lister Lister, layout paths.Layout) ([]types.PackageStatus, error) {
	var rows []types.PackageStatus

	for _, role := range types.AllRoles {
		for _, name := range desired.Set(role).Sorted() {
			row := types.PackageStatus{
				Package: name,
				Role:    role.String(),
				Target:  layout.Target(name, role),
			}

			mounted, err := lister.IsMounted(name, role)
			if err != nil {
				row.State, row.Message = types.StatusStateError, err.Error()
				rows = append(rows, row)
				continue
			}

			path, found, err := resolver.Resolve(ctx, name)
			switch {
			case err != nil:
				row.State, row.Message = types.StatusStateError, err.Error()
			case mounted:
				row.State, row.Source = types.StatusStateInjected, path
			case !found:
				row.State = types.StatusStateNotInstalled
			default:
				row.State, row.Source = types.StatusStatePending, path
			}
			rows = append(rows, row)
		}
	}

	for _, role := range types.AllRoles {
		mounts, err := lister.ListInjected(role)
		if err != nil {
			return nil, err
		}
		declared := desired.Set(role)
		for _, m := range mounts {
			if declared.Has(m.Package) {
				continue
			}
			rows = append(rows, types.PackageStatus{
				Package: m.Package,
				Role:    role.String(),
				State:   types.StatusStateOrphaned,
				Target:  m.Mountpoint,
				Source:  m.Source,
			})
		}
	}
	return rows, nil
}
