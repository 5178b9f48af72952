package reconcile

import "github.com/arthur-debert/oukaro/pkg/types"

// State is the reconciler's position in a pass.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateDiffing
	StateConverging
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateDiffing:
		return "diffing"
	case StateConverging:
		return "converging"
	default:
		return "unknown"
	}
}

// Snapshot is the per-role set of packages the reconciler last converged to.
type Snapshot struct {
	seeded bool
	sets   map[types.Role]types.PackageSet
}

// NewSnapshot returns an unseeded, empty snapshot.
func NewSnapshot() Snapshot {
	return Snapshot{sets: emptySets()}
}

// SeededSnapshot returns a seeded snapshot holding sets.
func SeededSnapshot(sets map[types.Role]types.PackageSet) Snapshot {
	s := Snapshot{seeded: true, sets: emptySets()}
	for role, set := range sets {
		s.sets[role] = set.Clone()
	}
	return s
}

func emptySets() map[types.Role]types.PackageSet {
	sets := make(map[types.Role]types.PackageSet, len(types.AllRoles))
	for _, role := range types.AllRoles {
		sets[role] = types.NewPackageSet()
	}
	return sets
}

// Seeded reports whether the snapshot reflects live state yet.
func (s Snapshot) Seeded() bool {
	return s.seeded
}

// Set returns a copy of the role's set.
func (s Snapshot) Set(role types.Role) types.PackageSet {
	return s.sets[role].Clone()
}

// Len is the number of packages across roles.
func (s Snapshot) Len() int {
	n := 0
	for _, set := range s.sets {
		n += set.Len()
	}
	return n
}

// Clone returns an independent copy.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{seeded: s.seeded, sets: emptySets()}
	for role, set := range s.sets {
		out.sets[role] = set.Clone()
	}
	return out
}
