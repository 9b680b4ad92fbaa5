package main

import (
	"context"
	"errors"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dataveil/dataveil/internal/config"
	"github.com/dataveil/dataveil/internal/watch"
)

var (
	watchDir string
	outDir   string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a directory and anonymize files as they appear",

	Run: func(cmd *cobra.Command, args []string) {
		cfg, log := setup(cmd)
		defer log.Sync()

		salt, err := resolveSalt(cfg, log)
		if err != nil {
			log.Fatal("Failed to resolve anonymization salt", zap.Error(err))
		}

		pipe, err := buildPipeline(cfg, salt, log)
		if err != nil {
			log.Fatal("Failed to build pipeline", zap.Error(err))
		}

		dest := outDir
		if dest == "" {
			dest = filepath.Join(watchDir, "anonymized")
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		watcher := watch.New(pipe, dest, log)

		// detection settings follow config edits while the watcher runs
		if err := config.Watch(cfg, func(newCfg *config.Config) {
			reloaded, err := buildPipeline(newCfg, salt, log)
			if err != nil {
				log.Warn("Ignoring configuration change", zap.Error(err))
				return
			}
			watcher.SetPipeline(reloaded)
			log.Info("Configuration reloaded")
		}); err != nil {
			log.Warn("Configuration watch unavailable", zap.Error(err))
		}

		if err := watcher.Run(ctx, watchDir); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatal("Watch failed", zap.Error(err))
		}
		log.Info("Watch stopped")
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchDir, "dir", "", "directory to watch for new files")
	watchCmd.Flags().StringVar(&outDir, "out-dir", "",
		"destination for anonymized copies (default <dir>/anonymized)")
	watchCmd.MarkFlagRequired("dir")

	rootCmd.AddCommand(watchCmd)
}
