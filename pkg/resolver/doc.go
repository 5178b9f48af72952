// Package resolver maps a package name to the directory its APKs are
// installed in, using the device package manager.
package resolver
