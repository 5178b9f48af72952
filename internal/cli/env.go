package cli

import (
	"fmt"

	"github.com/arthur-debert/oukaro/pkg/config"
	"github.com/arthur-debert/oukaro/pkg/errors"
	"github.com/arthur-debert/oukaro/pkg/filesystem"
	"github.com/arthur-debert/oukaro/pkg/mount"
	"github.com/arthur-debert/oukaro/pkg/mountstate"
	"github.com/arthur-debert/oukaro/pkg/paths"
	"github.com/arthur-debert/oukaro/pkg/reconcile"
	"github.com/arthur-debert/oukaro/pkg/resolver"
	"github.com/arthur-debert/oukaro/pkg/types"
	"github.com/spf13/cobra"
)

// environment is everything a command needs to touch the device.
type environment struct {
	Settings  *config.Settings
	Layout    paths.Layout
	FS        types.FS
	Store     *config.FileStore
	Resolver  types.Resolver
	Inspector reconcile.Lister
	Operator  types.Operator
	// Prepare readies the system root before the first pass
	Prepare func() error
}

// newEnvironment builds the device environment; tests replace it.
var newEnvironment = deviceEnvironment

func deviceEnvironment(settings *config.Settings) (*environment, error) {
	layout, err := settings.Layout()
	if err != nil {
		return nil, err
	}
	fs := filesystem.NewOS()
	inspector := mountstate.New(layout)
	operator := mount.NewOperator(fs, layout, mount.NewMounter(), inspector, settings.MountOptions())

	return &environment{
		Settings: settings,
		Layout:   layout,
		FS:       fs,
		Store:    config.NewFileStore(fs, settings.ConfigPath()),
		Resolver: resolver.New(resolver.ExecRunner{},
			resolver.WithCommand(settings.Resolver.Command),
			resolver.WithTimeout(settings.Resolver.Timeout)),
		Inspector: inspector,
		Operator:  operator,
		Prepare:   operator.Prepare,
	}, nil
}

// setup loads settings from the --settings and --config flags and builds
// the environment.
func setup(cmd *cobra.Command) (*environment, error) {
	settingsPath, _ := cmd.Flags().GetString("settings")
	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadSettings, err)
	}
	if configPath, _ := cmd.Flags().GetString("config"); configPath != "" {
		settings.Paths.Config = configPath
		if err := settings.Validate(); err != nil {
			return nil, err
		}
	}
	return newEnvironment(settings)
}

// requireConfig turns a missing package list into an actionable message.
func requireConfig(env *environment, err error) error {
	if errors.IsErrorCode(err, errors.ErrConfigUnavailable) {
		return errors.Wrapf(err, errors.ErrConfigUnavailable, MsgErrNoConfig, env.Store.Path())
	}
	return err
}

func addGlobalFlags(cmd *cobra.Command, verbosity *int) {
	cmd.PersistentFlags().CountVarP(verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	cmd.PersistentFlags().String("settings", "", "Settings file (default $"+config.EnvSettingsFile+")")
	cmd.PersistentFlags().StringP("config", "c", "", "Package list file (default <module_dir>/"+paths.ConfigFileName+")")
}
