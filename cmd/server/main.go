package main

import (
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"pah-access/internal/app"
	"pah-access/internal/config"
	"pah-access/internal/logger"
)

func main() {
	envFile := pflag.String("env-file", "", "env file to load before reading the environment (default .env)")
	logLevel := pflag.String("log-level", "", "overrides LOG_LEVEL (debug, info, warn, error)")
	noColor := pflag.Bool("no-color", false, "disable colored log output")
	pflag.Parse()

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}

	cfg, err := config.Load(envFiles...)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	level := cfg.LogLevel
	if *logLevel != "" {
		if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
			slog.Error("invalid --log-level", "value", *logLevel, "error", err)
			os.Exit(2)
		}
	}

	slog.SetDefault(slog.New(logger.NewPrettyHandler(os.Stdout, &logger.Options{
		Level:   level,
		NoColor: *noColor,
	})))

	application, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}
