// Package main is the entry point for the k4tool API server
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/james-see/k4tool/pkg/api"
	"github.com/james-see/k4tool/pkg/config"
	"github.com/james-see/k4tool/pkg/k4"
	"github.com/james-see/k4tool/pkg/logging"
)

func main() {
	envFile := flag.String("env-file", ".env", "Path to a .env file")
	port := flag.Int("port", 0, "Server port (overrides K4TOOL_PORT)")
	flag.Parse()

	if err := run(*envFile, *port); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func run(envFile string, port int) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if port != 0 {
		cfg.Port = port
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	log := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	names := k4.WaveNames{}
	if cfg.WaveNames != "" {
		f, err := os.Open(cfg.WaveNames)
		if err != nil {
			return err
		}
		names, err = k4.LoadWaveNames(f)
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", cfg.WaveNames, err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("swagger", fmt.Sprintf("http://localhost:%d/swagger/index.html", cfg.Port)).Msg("starting k4tool API server")
	return api.NewServer(cfg, names, log).Run(ctx)
}
