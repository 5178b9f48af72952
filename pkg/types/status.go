package types

// StatusState represents the injection state of one declared or mounted package
type StatusState string

const (
	// StatusStateInjected means the package is desired and mounted
	StatusStateInjected StatusState = "injected"

	// StatusStatePending means the package is desired but not mounted yet
	StatusStatePending StatusState = "pending"

	// StatusStateNotInstalled means the package is desired but the package
	// manager does not know it
	StatusStateNotInstalled StatusState = "not-installed"

	// StatusStateOrphaned means a mount exists for a package that is not desired
	StatusStateOrphaned StatusState = "orphaned"

	// StatusStateError means the state could not be determined
	StatusStateError StatusState = "error"
)

// PackageStatus is one row of the status report.
type PackageStatus struct {
	Package PackageName `json:"package" yaml:"package"`
	Role    string      `json:"role" yaml:"role"`
	State   StatusState `json:"state" yaml:"state"`
	Target  string      `json:"target" yaml:"target"`
	Source  string      `json:"source,omitempty" yaml:"source,omitempty"`
	Message string      `json:"message,omitempty" yaml:"message,omitempty"`
}
