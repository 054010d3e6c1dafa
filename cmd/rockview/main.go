// Package main is the entry point for rockview, the interactive asteroid viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/rockforge/internal/config"
	"github.com/Faultbox/rockforge/internal/forge"
	"github.com/Faultbox/rockforge/internal/logger"
	"github.com/Faultbox/rockforge/internal/viewer"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== rockview ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if path := config.Args(); len(path) > 0 {
		if cfg, err = config.LoadParams(path[0]); err != nil {
			logger.Error("failed to load params", zap.String("path", path[0]), zap.Error(err))
			os.Exit(1)
		}
	}

	v, err := viewer.New(cfg.Viewer, forge.New(cfg.Generation))
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}
