package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	logger "github.com/beka-birhanu/vinom-common/log"
	"github.com/beka-birhanu/vinom-labyrinth/client"
	"github.com/beka-birhanu/vinom-labyrinth/config"
)

func main() {
	appLogger, _ := logger.New("APP", config.ColorGreen, os.Stdout)

	addr, cfg, err := config.ParseClientArgs(os.Args[1:], config.Envs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\nusage: %s [--team NAME] [--navigator frontier|wall] [--move-interval MS] <host:port>\n", err, os.Args[0])
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := client.RunTeam(ctx, &client.TeamConfig{
		Name:         cfg.TeamName,
		Addr:         addr,
		Strategy:     client.Strategy(cfg.Navigator),
		MoveInterval: time.Duration(cfg.MoveIntervalMS) * time.Millisecond,
		Logger:       appLogger,
	})
	for _, r := range results {
		appLogger.Info(fmt.Sprintf("%s: exited=%t moves=%d frames=%d blocked=%d", r.Player, r.Exited, r.Moves, r.Frames, r.Blocked))
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			appLogger.Warning("Interrupted")
			os.Exit(130)
		}
		appLogger.Error(fmt.Sprintf("Running team %s: %v", cfg.TeamName, err))
		os.Exit(1)
	}
}
