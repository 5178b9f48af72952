package config

import _ "embed"

//go:embed embedded/defaults.toml
var defaultSettings []byte

// DefaultSettingsContent returns the embedded defaults, used by
// `oukaro settings` to print a starting point for a settings file.
func DefaultSettingsContent() string {
	return string(defaultSettings)
}
