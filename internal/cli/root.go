// Package cli wires the scheduling engine to a cobra command tree. The
// commands are thin: they parse flags, call the service, and render the
// result; every rule about recurrence, urgency and collapsing lives in
// the engine packages.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"flexplan/internal/config"
	"flexplan/internal/service"
	"flexplan/internal/storage"
)

var configPath string

func Execute(version string) error {
	rootCmd := &cobra.Command{
		Use:           "flexplan",
		Short:         "flexplan - a task planner with flexibility windows",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(doneCmd())
	rootCmd.AddCommand(reopenCmd())
	rootCmd.AddCommand(rmCmd())
	rootCmd.AddCommand(calCmd())
	rootCmd.AddCommand(expandCmd())
	rootCmd.AddCommand(guideCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errors.Is(err, service.ErrNotAuthenticated) {
			fmt.Fprintln(os.Stderr, "Set user_id in the config file or export FLEXPLAN_USER.")
		}
		return err
	}
	return nil
}

// openService loads the config, opens the store and returns a ready
// service. The returned closer must be called when the command is done.
func openService() (*service.TaskService, config.Config, func(), error) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, config.Config{}, nil, err
		}
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return nil, cfg, nil, err
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, cfg, nil, err
		}
	}
	repo, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, cfg, nil, err
	}
	if err := storage.MigrateUp(repo.DB()); err != nil {
		_ = repo.Close()
		return nil, cfg, nil, err
	}

	svc := service.New(repo, service.Session{UserID: cfg.UserID})
	return svc, cfg, func() { _ = repo.Close() }, nil
}
