// Package config handles oukaro's two configuration sources.
//
// The desired-state document (FileStore) is the operator-edited TOML file
// listing packages per role:
//
//	[app]
//	system_app = ["com.a", "com.b"]
//	priv_app = ["com.c"]
//
// It is never created implicitly: a missing file is CONFIG_UNAVAILABLE and a
// file that does not parse or names an invalid package is CONFIG_MALFORMED.
//
// Daemon settings (Settings) are layered with koanf: embedded defaults, an
// optional settings file, then OUKARO_* environment variables.
package config
