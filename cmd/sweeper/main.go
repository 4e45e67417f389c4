package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/No0oD/Stajh2Test/internal/application/cleanup"
	"github.com/No0oD/Stajh2Test/internal/config"
	"github.com/No0oD/Stajh2Test/internal/infrastructure/backend"
	"github.com/No0oD/Stajh2Test/internal/pkg/logging"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := logging.Setup("sweeper", cfg.AppEnv)

	cmd := &cli.Command{
		Name:  "sweeper",
		Usage: "delete expired password-reset codes",
		Commands: []*cli.Command{
			onceCommand(cfg),
			runCommand(cfg),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		logger.Error(err.Error())
		stop()
		os.Exit(1)
	}
}

func onceCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "once",
		Usage: "run a single sweep and exit",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withSweeper(ctx, cfg, func(s *cleanup.Sweeper) error {
				n, err := s.Sweep(ctx, time.Now())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.Root().Writer, "deleted %d expired verification codes\n", n)
				return nil
			})
		},
	}
}

func runCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "sweep on a fixed interval until interrupted",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:    "interval",
				Aliases: []string{"i"},
				Usage:   "time between sweeps",
				Value:   cfg.CleanupInterval,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withSweeper(ctx, cfg, func(s *cleanup.Sweeper) error {
				s.Run(ctx, cmd.Duration("interval"))
				return nil
			})
		},
	}
}

func withSweeper(ctx context.Context, cfg *config.Config, fn func(*cleanup.Sweeper) error) error {
	stores, err := backend.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}
	defer stores.Close()
	return fn(cleanup.NewSweeper(stores.Verifications, nil))
}
