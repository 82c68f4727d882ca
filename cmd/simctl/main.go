package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/simstock-api/internal/bootstrap"
	"github.com/jhoicas/simstock-api/internal/cli"
	"github.com/jhoicas/simstock-api/pkg/config"
	"github.com/jhoicas/simstock-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(func(ctx context.Context) (*cli.Services, func(), error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, nil, err
		}
		log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})
		c, err := bootstrap.New(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return &cli.Services{
			Sync:         c.Sync,
			Import:       c.Import,
			Availability: c.Availability,
			Auth:         c.Auth,
		}, c.Close, nil
	})

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(cli.GetExitCode(err))
	}
}
