package reconcile

import (
	"context"
	"time"

	"github.com/arthur-debert/oukaro/pkg/logging"
	"github.com/arthur-debert/oukaro/pkg/metrics"
	"github.com/arthur-debert/oukaro/pkg/types"
	"github.com/rs/zerolog"
)

// Reconciler drives passes. It is not safe for concurrent use: one
// goroutine calls Pass or Run.
type Reconciler struct {
	store     types.DesiredStore
	resolver  types.Resolver
	inspector types.Inspector
	operator  types.Operator

	state    State
	snapshot Snapshot
	desired  types.DesiredState
	loaded   bool
}

// New returns a reconciler with an unseeded snapshot.
func New(store types.DesiredStore, resolver types.Resolver, inspector types.Inspector, operator types.Operator) *Reconciler {
	return &Reconciler{
		store:     store,
		resolver:  resolver,
		inspector: inspector,
		operator:  operator,
		snapshot:  NewSnapshot(),
		desired:   types.NewDesiredState(),
	}
}

// State returns the current pass phase.
func (r *Reconciler) State() State {
	return r.state
}

// Snapshot returns a copy of the applied snapshot.
func (r *Reconciler) Snapshot() Snapshot {
	return r.snapshot.Clone()
}

// Desired returns a copy of the last successfully loaded desired state and
// whether one was ever loaded.
func (r *Reconciler) Desired() (types.DesiredState, bool) {
	return r.desired.Clone(), r.loaded
}

func (r *Reconciler) setState(logger zerolog.Logger, s State) {
	if r.state == s {
		return
	}
	logger.Debug().Str("from", r.state.String()).Str("to", s.String()).Msg("State transition")
	r.state = s
}

type key struct {
	role types.Role
	name types.PackageName
}

type resolution struct {
	path  string
	found bool
}

// Pass runs one reconciliation pass. A returned error means the pass was
// aborted before any mount was changed and the snapshot is untouched.
// Per-package failures are reported in the result, not as an error.
func (r *Reconciler) Pass(ctx context.Context) (PassResult, error) {
	logger := logging.GetLogger("reconcile")
	start := time.Now()
	defer r.setState(logger, StateIdle)

	fail := func(err error) (PassResult, error) {
		metrics.PassesTotal.WithLabelValues("failed").Inc()
		logger.Error().Err(err).Str("state", r.state.String()).Msg("Pass aborted")
		return PassResult{}, err
	}

	r.setState(logger, StateLoading)
	desired, err := r.store.Load()
	if err != nil {
		return fail(err)
	}
	r.desired = desired.Clone()
	r.loaded = true

	r.setState(logger, StateDiffing)
	applied := r.snapshot
	checkDrift := applied.Seeded()
	if !applied.Seeded() {
		if applied, err = r.seed(desired); err != nil {
			return fail(err)
		}
	}

	toAdd := make(map[types.Role]types.PackageSet, len(types.AllRoles))
	toRemove := make(map[types.Role]types.PackageSet, len(types.AllRoles))
	for _, role := range types.AllRoles {
		want := desired.Set(role)
		have := applied.Set(role)
		toAdd[role] = want.Difference(have)
		toRemove[role] = have.Difference(want)

		if !checkDrift {
			continue
		}
		for _, name := range want.Intersect(have).Sorted() {
			mounted, err := r.inspector.IsMounted(name, role)
			if err != nil {
				return fail(err)
			}
			if !mounted {
				pkgLogger := logging.WithPackage(logger, string(name), role.String(), "apply")
				pkgLogger.Warn().Msg("Injection disappeared, re-applying")
				toAdd[role].Add(name)
			}
		}
	}

	r.setState(logger, StateConverging)

	// Resolve everything up front so an unusable package manager aborts
	// the pass before any mount changes.
	sources := make(map[key]resolution)
	for _, role := range types.AllRoles {
		for _, name := range toAdd[role].Sorted() {
			path, found, err := r.resolver.Resolve(ctx, name)
			if err != nil {
				return fail(err)
			}
			sources[key{role, name}] = resolution{path: path, found: found}
		}
	}

	result := PassResult{Desired: desired}
	next := make(map[types.Role]types.PackageSet, len(types.AllRoles))
	for _, role := range types.AllRoles {
		set := applied.Set(role)
		for _, name := range toAdd[role].Sorted() {
			res := r.apply(logger, name, role, sources[key{role, name}])
			result.Results = append(result.Results, res)
			if res.Outcome == OutcomeApplied || res.Outcome == OutcomeAlready {
				set.Add(name)
			} else {
				set.Remove(name)
			}
		}
		for _, name := range toRemove[role].Sorted() {
			res := r.retract(logger, name, role)
			result.Results = append(result.Results, res)
			if res.Outcome == OutcomeRetracted || res.Outcome == OutcomeAbsent {
				set.Remove(name)
			}
		}
		next[role] = set
	}

	r.snapshot = SeededSnapshot(next)
	result.Snapshot = r.snapshot.Clone()
	result.Duration = time.Since(start)

	r.record(result)
	logger.Info().
		Int("applied", result.Count(OutcomeApplied)).
		Int("retracted", result.Count(OutcomeRetracted)).
		Int("skipped", result.Count(OutcomeSkipped)).
		Int("failed", result.Count(OutcomeFailed)).
		Int("injected", result.Snapshot.Len()).
		Dur("duration", result.Duration).
		Msg("Pass complete")
	return result, nil
}

// seed builds the first snapshot from the desired packages that are
// already mounted. Injections of undeclared packages are never adopted.
func (r *Reconciler) seed(desired types.DesiredState) (Snapshot, error) {
	logger := logging.GetLogger("reconcile")
	defer logging.LogOperationStart(logger, "seed")()
	sets := make(map[types.Role]types.PackageSet, len(types.AllRoles))
	for _, role := range types.AllRoles {
		sets[role] = types.NewPackageSet()
		for _, name := range desired.Set(role).Sorted() {
			mounted, err := r.inspector.IsMounted(name, role)
			if err != nil {
				return Snapshot{}, err
			}
			if mounted {
				sets[role].Add(name)
			}
		}
	}
	logger.Debug().
		Int("system_app", sets[types.RoleSystemApp].Len()).
		Int("priv_app", sets[types.RolePrivApp].Len()).
		Msg("Seeded snapshot from mount table")
	return SeededSnapshot(sets), nil
}

func (r *Reconciler) apply(logger zerolog.Logger, name types.PackageName, role types.Role, src resolution) PackageResult {
	res := PackageResult{Package: name, Role: role, Op: OpApply, Source: src.path}
	pkgLogger := logging.WithPackage(logger, string(name), role.String(), string(OpApply))

	if !src.found {
		pkgLogger.Info().Msg("Package not installed, skipping")
		res.Outcome = OutcomeSkipped
		return res
	}

	mounted, err := r.inspector.IsMounted(name, role)
	if err != nil {
		pkgLogger.Error().Err(err).Msg("Cannot inspect target")
		res.Outcome, res.Err = OutcomeFailed, err
		return res
	}
	if mounted {
		res.Outcome = OutcomeAlready
		return res
	}

	if err := r.operator.Apply(name, role, src.path); err != nil {
		pkgLogger.Error().Err(err).Str("source", src.path).Msg("Apply failed")
		res.Outcome, res.Err = OutcomeFailed, err
		return res
	}
	res.Outcome = OutcomeApplied
	return res
}

func (r *Reconciler) retract(logger zerolog.Logger, name types.PackageName, role types.Role) PackageResult {
	res := PackageResult{Package: name, Role: role, Op: OpRetract}
	pkgLogger := logging.WithPackage(logger, string(name), role.String(), string(OpRetract))

	mounted, err := r.inspector.IsMounted(name, role)
	if err != nil {
		pkgLogger.Error().Err(err).Msg("Cannot inspect target")
		res.Outcome, res.Err = OutcomeFailed, err
		return res
	}
	if !mounted {
		res.Outcome = OutcomeAbsent
		return res
	}

	if err := r.operator.Retract(name, role); err != nil {
		pkgLogger.Error().Err(err).Msg("Retract failed")
		res.Outcome, res.Err = OutcomeFailed, err
		return res
	}
	res.Outcome = OutcomeRetracted
	return res
}

func (r *Reconciler) record(result PassResult) {
	metrics.PassesTotal.WithLabelValues("ok").Inc()
	metrics.PassDuration.Observe(result.Duration.Seconds())
	for _, res := range result.Results {
		metrics.PackageOperationsTotal.
			WithLabelValues(res.Role.String(), string(res.Op), string(res.Outcome)).
			Inc()
	}
	for _, role := range types.AllRoles {
		metrics.DesiredPackages.WithLabelValues(role.String()).Set(float64(result.Desired.Set(role).Len()))
		metrics.AppliedPackages.WithLabelValues(role.String()).Set(float64(result.Snapshot.Set(role).Len()))
	}
}

// Run performs an initial pass and then one pass per notification until ctx
// ends or the notifier fails. A pass that fails is logged and the loop goes
// back to waiting. Passes are not interrupted by ctx.
func (r *Reconciler) Run(ctx context.Context, notifier types.Notifier) error {
	logger := logging.GetLogger("reconcile")
	passCtx := context.WithoutCancel(ctx)

	logger.Info().Msg("Starting reconciliation loop")
	_, _ = r.Pass(passCtx)

	for {
		if err := notifier.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				logger.Info().Msg("Reconciliation loop stopped")
				return nil
			}
			logger.Error().Err(err).Msg("Change notification failed")
			return err
		}
		logger.Debug().Msg("Change notified")
		_, _ = r.Pass(passCtx)
	}
}
