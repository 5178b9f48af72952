// Package paths provides centralized path handling for oukaro.
//
// Every on-disk location the daemon touches is derived from two roots:
//
//   - the system root (default /system), under which packages are injected
//     into app/<name> or priv-app/<name>
//   - the module directory (default /data/adb/oukaro), which holds the
//     desired-state file, copy-strategy staging trees and the overlay
//     upper/work directories
//
// Nothing in this package touches the filesystem.
package paths
