package reconcile

import (
	"time"

	"github.com/arthur-debert/oukaro/pkg/types"
)

// Outcome of one package in a pass.
type Outcome string

const (
	// OutcomeApplied means the package was mounted by this pass
	OutcomeApplied Outcome = "applied"
	// OutcomeAlready means the package was found mounted
	OutcomeAlready Outcome = "already"
	// OutcomeRetracted means the package was unmounted by this pass
	OutcomeRetracted Outcome = "retracted"
	// OutcomeAbsent means a package to remove was already unmounted
	OutcomeAbsent Outcome = "absent"
	// OutcomeSkipped means the package is not installed
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed means the operation failed and will be retried
	OutcomeFailed Outcome = "failed"
)

// Op is the direction of a package change.
type Op string

const (
	OpApply   Op = "apply"
	OpRetract Op = "retract"
)

// PackageResult records what a pass did with one package.
type PackageResult struct {
	Package types.PackageName
	Role    types.Role
	Op      Op
	Outcome Outcome
	Source  string
	Err     error
}

// PassResult summarises a completed pass.
type PassResult struct {
	Results  []PackageResult
	Desired  types.DesiredState
	Snapshot Snapshot
	Duration time.Duration
}

// Count returns how many packages ended with outcome.
func (r PassResult) Count(outcome Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}

// Failures returns the failed package results.
func (r PassResult) Failures() []PackageResult {
	var out []PackageResult
	for _, res := range r.Results {
		if res.Outcome == OutcomeFailed {
			out = append(out, res)
		}
	}
	return out
}

// HasFailures reports whether any package failed.
func (r PassResult) HasFailures() bool {
	return r.Count(OutcomeFailed) > 0
}
