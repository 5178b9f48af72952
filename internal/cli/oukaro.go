package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/arthur-debert/oukaro/internal/version"
	"github.com/arthur-debert/oukaro/pkg/config"
	"github.com/arthur-debert/oukaro/pkg/errors"
	"github.com/arthur-debert/oukaro/pkg/logging"
	"github.com/arthur-debert/oukaro/pkg/metrics"
	"github.com/arthur-debert/oukaro/pkg/reconcile"
	"github.com/arthur-debert/oukaro/pkg/ui"
	"github.com/arthur-debert/oukaro/pkg/watch"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the oukaro daemon command
func NewRootCmd() *cobra.Command {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:     "oukaro",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
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

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newOnceCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newVersionCmd("oukaro"))

	return rootCmd
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: MsgRunShort,
		Long:  MsgRunLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			logger := logging.GetLogger("daemon")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := env.Prepare(); err != nil {
				// Targets on a read-only root will fail per package and be
				// retried; the loop is still useful for already writable roots.
				logger.Error().Err(err).Msg("System root preparation failed")
			}

			configPath := env.Store.Path()
			if err := env.FS.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
				return errors.Wrapf(err, errors.ErrWatchFailure, "cannot create %s", filepath.Dir(configPath))
			}
			watcher, err := watch.New(configPath, watch.WithDebounce(env.Settings.Watch.Debounce))
			if err != nil {
				return err
			}
			defer func() { _ = watcher.Close() }()

			if addr := env.Settings.Metrics.Addr; addr != "" {
				go func() {
					if err := metrics.Serve(ctx, addr); err != nil {
						logger.Error().Err(err).Str("addr", addr).Msg("Metrics endpoint stopped")
					}
				}()
			}

			logger.Info().
				Str("config", configPath).
				Str("system_root", env.Layout.SystemRoot()).
				Str("strategy", env.Settings.Mount.Strategy).
				Msg("oukaro started")

			rec := reconcile.New(env.Store, env.Resolver, env.Inspector, env.Operator)
			return rec.Run(ctx, watcher)
		},
	}
}

func newOnceCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "once",
		Short: MsgOnceShort,
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
			if err := env.Prepare(); err != nil {
				logger := logging.GetLogger("daemon")
				logger.Error().Err(err).Msg("System root preparation failed")
			}

			rec := reconcile.New(env.Store, env.Resolver, env.Inspector, env.Operator)
			result, err := rec.Pass(context.WithoutCancel(cmd.Context()))
			if err != nil {
				return requireConfig(env, err)
			}
			if err := renderer.RenderPass(result); err != nil {
				return err
			}
			if result.HasFailures() {
				return fmt.Errorf(MsgPassFailed, len(result.Failures()))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "auto", "Output format (auto, text, json, yaml)")
	return cmd
}

func newStatusCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "status",
		Short: MsgStatusShort,
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
			desired, err := env.Store.Load()
			if err != nil {
				return requireConfig(env, err)
			}
			rows, err := reconcile.Report(cmd.Context(), desired, env.Resolver, env.Inspector, env.Layout)
			if err != nil {
				return err
			}
			return renderer.RenderStatus(rows)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "auto", "Output format (auto, text, json, yaml)")
	return cmd
}

func newSettingsCmd() *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:   "settings",
		Short: MsgSettingsShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if defaults {
				_, err := fmt.Fprint(cmd.OutOrStdout(), config.DefaultSettingsContent())
				return err
			}
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			data, err := env.Settings.Encode()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&defaults, "defaults", false, "Print the built-in defaults instead")
	return cmd
}

func newVersionCmd(name string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Long:  MsgVersionLong,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s version %s\n", name, version.Version)
			if version.Commit != "" {
				fmt.Fprintf(out, "Commit: %s\n", version.Commit)
			}
			if version.Date != "" {
				fmt.Fprintf(out, "Built:  %s\n", version.Date)
			}
		},
	}
}

func newRenderer(cmd *cobra.Command, format string) (*ui.Renderer, error) {
	f, err := ui.ParseFormat(format)
	if err != nil {
		return nil, fmt.Errorf(MsgErrUnknownFormat, err)
	}
	return ui.NewRenderer(f, cmd.OutOrStdout()), nil
}
