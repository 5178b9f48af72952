package cli

import (
	"fmt"

	"github.com/arthur-debert/oukaro/internal/version"
	"github.com/arthur-debert/oukaro/pkg/errors"
	"github.com/arthur-debert/oukaro/pkg/logging"
	"github.com/arthur-debert/oukaro/pkg/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewManagerCmd creates the okrmng command
func NewManagerCmd() *cobra.Command {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:     "okrmng",
		Short:   MsgManagerShort,
		Long:    MsgManagerLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}
	addGlobalFlags(rootCmd, &verbosity)

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newRoleCmd(types.RoleSystemApp, MsgSystemAppShort))
	rootCmd.AddCommand(newRoleCmd(types.RolePrivApp, MsgPrivAppShort))
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newVersionCmd("okrmng"))

	return rootCmd
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: MsgInitShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			if err := env.Store.Init(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), MsgInitialized, env.Store.Path())
			return nil
		},
	}
}

// newRoleCmd builds `<role> add|rm -p <package>...`.
func newRoleCmd(role types.Role, short string) *cobra.Command {
	roleCmd := &cobra.Command{
		Use:   role.String(),
		Short: short,
	}
	roleCmd.AddCommand(newEditCmd(role, "add", MsgAddShort, true))
	roleCmd.AddCommand(newEditCmd(role, "rm", MsgRmShort, false))
	return roleCmd
}

func newEditCmd(role types.Role, use, short string, add bool) *cobra.Command {
	var packages []string

	cmd := &cobra.Command{
		Use:     use,
		Short:   short,
		Args:    cobra.NoArgs,
		Example: fmt.Sprintf("  okrmng %s %s -p com.example.app", role, use),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(packages) == 0 {
				return errors.New(errors.ErrInvalidInput, MsgErrNoPackages)
			}
			for _, p := range packages {
				if err := types.ValidatePackageName(p); err != nil {
					return errors.Wrap(err, errors.ErrInvalidInput, "invalid package")
				}
			}

			env, err := setup(cmd)
			if err != nil {
				return err
			}

			var lines []string
			err = env.Store.Update(func(state *types.DesiredState) error {
				set := state.Set(role)
				for _, p := range packages {
					name := types.PackageName(p)
					switch {
					case add && set.Has(name):
						lines = append(lines, fmt.Sprintf(MsgAlreadyPresent, name, role))
					case add:
						set.Add(name)
						lines = append(lines, fmt.Sprintf(MsgAdded, name, role))
					case set.Has(name):
						set.Remove(name)
						lines = append(lines, fmt.Sprintf(MsgRemoved, name, role))
					default:
						lines = append(lines, fmt.Sprintf(MsgNotPresent, name, role))
					}
				}
				return nil
			})
			if err != nil {
				return requireConfig(env, err)
			}

			logger := logging.GetLogger("okrmng")
			logger.Info().
				Str("role", role.String()).
				Strs("packages", packages).
				Bool("add", add).
				Msg("Updated package list")
			for _, line := range lines {
				fmt.Fprint(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&packages, "package", "p", nil, "Package name (repeatable)")
	return cmd
}

func newListCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: MsgListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := newRenderer(cmd, format)
			if err != nil {
				return err
			}
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			state, err := env.Store.Load()
			if err != nil {
				return requireConfig(env, err)
			}
			return renderer.RenderDesired(state)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "auto", "Output format (auto, text, json, yaml)")
	return cmd
}
