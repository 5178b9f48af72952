// Package watch turns filesystem events on the desired-state file into
// coalesced "something changed" wake-ups for the reconciliation loop.
//
// The directory holding the file is watched rather than the file itself, so
// saves that write a temp file and rename it over the original are seen.
// Bursts of events are debounced: Wait returns once the file has been quiet
// for the debounce interval.
package watch
