// Package reconcile converges the live mount state towards the declared
// package sets.
//
// A Reconciler owns an applied snapshot: the packages it believes it has
// injected, per role. The snapshot lives in process memory only. It starts
// unseeded and the first pass seeds it from the mount table, so a restarted
// daemon picks up the injections of its previous run without unmounting
// anything.
//
// Each pass loads the desired state, diffs it against the snapshot, resolves
// every package that needs mounting, and then applies and retracts package by
// package. Failures of a single package are recorded and retried on the next
// pass; failures that make the whole pass meaningless (unreadable
// configuration, package manager unavailable, mount table unreadable) abort
// it before anything is mutated.
package reconcile
