package main

import (
	"embed"
	"os"

	"code-armor/internal/config"
	"code-armor/internal/diagnostics"
	"code-armor/internal/domain"
	"code-armor/internal/jobs"
	"code-armor/internal/logging"
	"code-armor/internal/obfuscate"
	"code-armor/internal/preset"
	"code-armor/internal/server"
	"code-armor/internal/stats"
	"code-armor/internal/storage"
)

//go:embed web/index.html
var assets embed.FS

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.L().Error("load config", "error", err)
		os.Exit(1)
	}
	logging.Configure(logging.Options{Level: cfg.LogLevel, JSON: cfg.LogJSON})

	store := storage.New(cfg.UploadDir, cfg.OutputDir)
	if err := store.EnsureDirs(); err != nil {
		logging.L().Error("prepare storage", "error", err)
		os.Exit(1)
	}

	registry := preset.NewRegistry()
	if cfg.PresetsFile != "" {
		overrides, err := preset.LoadOverrides(cfg.PresetsFile)
		if err != nil {
			logging.L().Error("load preset overrides", "path", cfg.PresetsFile, "error", err)
			os.Exit(1)
		}
		registry.Apply(overrides)
	}

	checker := diagnostics.NewChecker()
	report := checker.Run(cfg.EngineBin, cfg.UploadDir, cfg.OutputDir)
	for _, check := range report.Checks {
		if check.Status == domain.CheckStatusFail {
			logging.L().Warn("startup check failed", "check", check.ID, "message", check.Message, "hint", check.Hint)
		}
	}

	pipeline := obfuscate.NewPipeline(registry, obfuscate.NewCLIEngine(cfg.EngineBin), store)
	srv := server.New(
		cfg,
		pipeline,
		registry,
		store,
		jobs.NewTracker(),
		stats.NewCollector(cfg.OutputDir),
		checker,
		assets,
	)

	if err := srv.Start(); err != nil {
		logging.L().Error("server stopped", "error", err)
		os.Exit(1)
	}
}
