// Package mountstate answers mount questions from the live kernel mount
// table. Nothing is cached: every call re-reads /proc/self/mountinfo.
package mountstate
