package types

// DesiredState is the operator-declared set of packages to inject, one set
// per role. It is only ever replaced wholesale.
type DesiredState struct {
	SystemApps PackageSet
	PrivApps   PackageSet
}

// NewDesiredState returns a state with two empty sets.
func NewDesiredState() DesiredState {
	return DesiredState{
		SystemApps: NewPackageSet(),
		PrivApps:   NewPackageSet(),
	}
}

// Set returns the set for role. Unknown roles get an empty set.
func (d DesiredState) Set(role Role) PackageSet {
	switch role {
	case RoleSystemApp:
		return d.SystemApps
	case RolePrivApp:
		return d.PrivApps
	default:
		return PackageSet{}
	}
}

// Clone returns a deep copy.
func (d DesiredState) Clone() DesiredState {
	return DesiredState{
		SystemApps: d.SystemApps.Clone(),
		PrivApps:   d.PrivApps.Clone(),
	}
}

// Equal compares both role sets.
func (d DesiredState) Equal(other DesiredState) bool {
	return d.SystemApps.Equal(other.SystemApps) && d.PrivApps.Equal(other.PrivApps)
}

// Len is the total number of declared packages across roles.
func (d DesiredState) Len() int {
	return d.SystemApps.Len() + d.PrivApps.Len()
}
