package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/oukaro/pkg/errors"
	"github.com/arthur-debert/oukaro/pkg/mount"
	"github.com/arthur-debert/oukaro/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"
)

// EnvPrefix prefixes every settings override in the environment
const EnvPrefix = "OUKARO_"

// EnvSettingsFile points at an optional settings file
const EnvSettingsFile = "OUKARO_SETTINGS"

// Mount strategies
const (
	StrategyBind = mount.StrategyBind
	StrategyCopy = mount.StrategyCopy
)

// Settings are the daemon's runtime knobs.
type Settings struct {
	Paths    PathSettings     `koanf:"paths"`
	Mount    MountSettings    `koanf:"mount"`
	Resolver ResolverSettings `koanf:"resolver"`
	Watch    WatchSettings    `koanf:"watch"`
	Metrics  MetricsSettings  `koanf:"metrics"`
}

type PathSettings struct {
	Config     string `koanf:"config"`
	SystemRoot string `koanf:"system_root"`
	ModuleDir  string `koanf:"module_dir"`
}

type MountSettings struct {
	Strategy    string `koanf:"strategy"`
	Overlay     bool   `koanf:"overlay"`
	ReadOnly    bool   `koanf:"read_only"`
	LazyUnmount bool   `koanf:"lazy_unmount"`
}

type ResolverSettings struct {
	Command string        `koanf:"command"`
	Timeout time.Duration `koanf:"timeout"`
}

type WatchSettings struct {
	Debounce time.Duration `koanf:"debounce"`
}

type MetricsSettings struct {
	Addr string `koanf:"addr"`
}

// LoadSettings layers embedded defaults, the settings file at path (or
// $OUKARO_SETTINGS when path is empty) and OUKARO_* environment variables.
// An explicitly named settings file must exist.
func LoadSettings(path string) (*Settings, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	defaults, err := toml.Parser().Unmarshal(defaultSettings)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to parse default settings")
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load default settings")
	}

	// 2. Settings file
	if path == "" {
		path = os.Getenv(EnvSettingsFile)
	}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrapf(err, errors.ErrSettingsInvalid, "settings file %s", path)
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrSettingsInvalid, "failed to load settings from %s", path)
		}
	}

	// 3. Environment: OUKARO_PATHS_SYSTEM_ROOT -> paths.system_root
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrSettingsInvalid, "failed to load environment overrides")
	}

	// 4. Unmarshal
	var s Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &s,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &s, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrSettingsInvalid, "failed to decode settings")
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// envKey maps OUKARO_SECTION_SOME_KEY to section.some_key.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(key, "_", 2)
	if len(parts) != 2 {
		return key
	}
	return parts[0] + "." + parts[1]
}

// Validate rejects settings the daemon cannot run with.
func (s *Settings) Validate() error {
	switch s.Mount.Strategy {
	case StrategyBind, StrategyCopy:
	default:
		return errors.Newf(errors.ErrSettingsInvalid,
			"mount.strategy must be %q or %q, got %q", StrategyBind, StrategyCopy, s.Mount.Strategy)
	}
	if strings.TrimSpace(s.Resolver.Command) == "" {
		return errors.New(errors.ErrSettingsInvalid, "resolver.command is empty")
	}
	if s.Resolver.Timeout < 0 {
		return errors.New(errors.ErrSettingsInvalid, "resolver.timeout is negative")
	}
	if s.Watch.Debounce < 0 {
		return errors.New(errors.ErrSettingsInvalid, "watch.debounce is negative")
	}
	if s.Paths.Config != "" && !filepath.IsAbs(s.Paths.Config) {
		return errors.Newf(errors.ErrSettingsInvalid, "paths.config must be absolute: %s", s.Paths.Config)
	}
	if _, err := s.Layout(); err != nil {
		return errors.Wrap(err, errors.ErrSettingsInvalid, "invalid paths")
	}
	return nil
}

// Encode renders the settings in the same TOML layout as the defaults.
func (s *Settings) Encode() ([]byte, error) {
	doc := map[string]interface{}{
		"paths": map[string]interface{}{
			"config":      s.Paths.Config,
			"system_root": s.Paths.SystemRoot,
			"module_dir":  s.Paths.ModuleDir,
		},
		"mount": map[string]interface{}{
			"strategy":     s.Mount.Strategy,
			"overlay":      s.Mount.Overlay,
			"read_only":    s.Mount.ReadOnly,
			"lazy_unmount": s.Mount.LazyUnmount,
		},
		"resolver": map[string]interface{}{
			"command": s.Resolver.Command,
			"timeout": s.Resolver.Timeout.String(),
		},
		"watch": map[string]interface{}{
			"debounce": s.Watch.Debounce.String(),
		},
		"metrics": map[string]interface{}{
			"addr": s.Metrics.Addr,
		},
	}
	return gotoml.Marshal(doc)
}

// MountOptions converts the mount section for the operator.
func (s *Settings) MountOptions() mount.Options {
	return mount.Options{
		Strategy:    s.Mount.Strategy,
		ReadOnly:    s.Mount.ReadOnly,
		LazyUnmount: s.Mount.LazyUnmount,
		Overlay:     s.Mount.Overlay,
	}
}

// Layout builds the path layout from the configured roots.
func (s *Settings) Layout() (paths.Layout, error) {
	return paths.New(s.Paths.SystemRoot, s.Paths.ModuleDir)
}

// ConfigPath returns the desired-state file location.
func (s *Settings) ConfigPath() string {
	if s.Paths.Config != "" {
		return s.Paths.Config
	}
	layout, err := s.Layout()
	if err != nil {
		return paths.Default().DefaultConfigPath()
	}
	return layout.DefaultConfigPath()
}
