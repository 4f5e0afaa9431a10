package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jask/atlas/internal/config"
	"github.com/jask/atlas/internal/logging"
	"github.com/jask/atlas/internal/provider"
	"github.com/jask/atlas/internal/search"
	"github.com/jask/atlas/internal/store"
	"github.com/jask/atlas/internal/tui"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd() *cobra.Command {
	v := config.NewViper()

	root := &cobra.Command{
		Use:          "atlas",
		Short:        "Explore countries, capitals and visa rules from the terminal",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default ~/.config/atlas/config.toml)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("api", "", "REST Countries base URL")
	_ = v.BindPFlag("config", flags.Lookup("config"))
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = v.BindPFlag("api.countries_base_url", flags.Lookup("api"))

	root.AddCommand(versionCmd(), configCmd(v))
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "atlas %s\n", version)
		},
	}
}

func configCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg config.Config
			if err := v.Unmarshal(&cfg); err != nil {
				return fmt.Errorf("unmarshal config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			path := v.GetString("config")
			if path == "" {
				path = config.DefaultPath()
			}
			if err := config.Save(path, cfg, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}

func run(parent context.Context, cfg config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, closer, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer closer.Close()

	prov, err := provider.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("provider: %w", err)
	}

	st := store.New()
	orch := search.New(ctx, st, prov, search.Options{
		MaxSuggestions: cfg.Search.MaxSuggestions,
		Logger:         logger,
	})
	app := tui.New(st, orch)
	defer app.Close()

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	logger.WithField("api", cfg.API.CountriesBaseURL).Info("starting")
	if _, err := tea.NewProgram(app, opts...).Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run: %w", err)
	}
	logger.Info("exited")
	return nil
}
