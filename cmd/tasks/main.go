package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tasks/internal/config"
	"github.com/sandeepkv93/tasks/internal/fileio"
	"github.com/sandeepkv93/tasks/internal/paths"
	"github.com/sandeepkv93/tasks/internal/registry"
	"github.com/sandeepkv93/tasks/internal/service"
	"github.com/sandeepkv93/tasks/internal/settings"
	"github.com/sandeepkv93/tasks/internal/storage"
)

// app carries the flags and the wiring shared by every subcommand.
type app struct {
	configPath string
	dataDir    string
	logFile    string

	cfg      config.RuntimeConfig
	logger   *slog.Logger
	closeLog func() error
	resolver *paths.Resolver
	svc      *service.Service
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "tasks",
		Short:         "Multi-list task manager",
		Long:          `tasks keeps named task lists as JSON files in one data directory and edits them from the command line or an interactive TUI.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultFilePath(), "YAML config file")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "Directory holding the list files (overrides config)")
	root.PersistentFlags().StringVar(&a.logFile, "log-file", "", "Write JSON logs to this file (overrides config)")

	root.AddCommand(
		newListsCmd(a),
		newCreateCmd(a),
		newDropCmd(a),
		newShowCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newCompleteCmd(a, "done", true),
		newCompleteCmd(a, "undo", false),
		newRemoveCmd(a),
		newSettingsCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newSnapshotsCmd(a),
		newTUICmd(a),
	)
	return root
}

// setup resolves configuration and builds the service. Flags win over the
// environment, which wins over the config file.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = a.dataDir
	}
	if cmd.Flags().Changed("log-file") {
		cfg.LogFile = a.logFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := config.NewLogger(cfg)
	if err != nil {
		return err
	}
	a.cfg, a.logger, a.closeLog = cfg, logger, closeLog

	a.resolver = paths.New(cfg.DataDir)
	locker := fileio.NewLocker(a.resolver.LockDir(), cfg.LockTimeout)
	repo := storage.NewFileRepository(a.resolver, locker, storage.WithLogger(logger))
	a.svc = service.New(service.Deps{
		Tasks:    repo,
		Lists:    registry.New(a.resolver, repo),
		Settings: settings.NewStore(a.resolver, locker),
		Logger:   logger,
	})
	logger.Debug("tasks started", "command", cmd.Name(), "data_dir", cfg.DataDir)
	return nil
}

func (a *app) close() {
	if a.closeLog != nil {
		_ = a.closeLog()
	}
}

func execute(ctx context.Context, args []string, out, errOut io.Writer) error {
	a := &app{}
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	return root.ExecuteContext(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "tasks: %v\n", err)
		stop()
		os.Exit(1)
	}
}
