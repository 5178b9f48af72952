// Package testutil provides in-memory fakes for the reconciler's boundaries.
//
// FakeHost plays the package manager, the mount table and the mount operator
// at once, so a test can install a package, mount it behind oukaro's back
// and check which calls a pass made. MemoryStore stands in for the
// desired-state file and ChannelNotifier for the file watcher.
//
// Failure injection is per package: set ResolveErr, InspectErr, ApplyErr or
// RetractErr for a name and the matching call returns that error.
package testutil
