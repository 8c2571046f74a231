package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	logger "github.com/beka-birhanu/vinom-common/log"
	"github.com/beka-birhanu/vinom-labyrinth/api"
	"github.com/beka-birhanu/vinom-labyrinth/config"
	"github.com/beka-birhanu/vinom-labyrinth/maze"
	"github.com/beka-birhanu/vinom-labyrinth/service"
	"github.com/beka-birhanu/vinom-labyrinth/service/i"
	"google.golang.org/grpc"
)

// Global variables for dependencies
var (
	cfg            config.Config
	game           *service.Game
	sessionManager i.SessionManager
	gameListener   net.Listener
	grpcListener   net.Listener
	grpcServer     *grpc.Server
	appLogger      general_i.Logger
)

func initGame() {
	var (
		m   *maze.Maze
		err error
	)
	if cfg.MazeSeed != 0 {
		m, err = maze.NewSeeded(cfg.MazeWidth, cfg.MazeHeight, cfg.MazeSeed)
	} else {
		m, err = maze.Generate(cfg.MazeWidth, cfg.MazeHeight)
	}
	if err != nil {
		appLogger.Error(fmt.Sprintf("Generating maze: %v", err))
		os.Exit(1)
	}

	gameLogger, err := logger.New("GAME", config.ColorCyan, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating game logger: %v", err))
		os.Exit(1)
	}
	game, err = service.NewGame(&service.GameConfig{
		Maze:              m,
		ExpectedPlayers:   cfg.ExpectedPlayers,
		HintInterval:      cfg.HintInterval,
		ChallengeInterval: cfg.ChallengeInterval,
		ChallengePenalty:  cfg.ChallengePenalty,
		Logger:            gameLogger,
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating game: %v", err))
		os.Exit(1)
	}
	appLogger.Info(fmt.Sprintf("Game initialized with a %dx%d maze:\n%s", m.Width, m.Height, m.Render(nil)))
}

func initSessionManager() {
	sessionLogger, err := logger.New("SESSION-MANAGER", config.ColorBlue, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating session manager logger: %v", err))
		os.Exit(1)
	}
	manager, err := service.NewSessionManager(&service.Config{
		Game:   game,
		Logger: sessionLogger,
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating session manager: %v", err))
		os.Exit(1)
	}
	sessionManager = manager
	appLogger.Info("Session Manager initialized")
}

func initObserverController() {
	grpcServer = grpc.NewServer()
	if err := api.RegisterNewObserver(grpcServer, game); err != nil {
		appLogger.Error(fmt.Sprintf("Creating and Registering observer controller: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Observer controller initialized")
}

func serveObserver() {
	addr := fmt.Sprintf("%s:%d", cfg.HostAddress, cfg.AdminPort)
	var err error
	grpcListener, err = net.Listen("tcp", addr)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Listening tcp for gRPC: %v", err))
		os.Exit(1)
	}
	appLogger.Info(fmt.Sprintf("Serving observer gRPC at: %s", addr))
	if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		appLogger.Error(fmt.Sprintf("Serving gRPC: %v", err))
	}
}

func main() {
	appLogger, _ = logger.New("APP", config.ColorGreen, os.Stdout)

	var err error
	cfg, err = config.ParseServerFlags(os.Args[1:], config.Envs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\nusage: %s [--port N] [--host-address ADDR] [--admin-port N] [--seed N] [--maze W,H]\n", err, os.Args[0])
		os.Exit(2)
	}

	initGame()
	initSessionManager()

	addr := fmt.Sprintf("%s:%d", cfg.HostAddress, cfg.Port)
	gameListener, err = net.Listen("tcp", addr)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Listening tcp: %v", err))
		os.Exit(1)
	}
	defer sessionManager.StopAll()

	if cfg.AdminPort > 0 {
		initObserverController()
		go serveObserver()
		defer grpcServer.GracefulStop()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		s := <-sig
		appLogger.Info(fmt.Sprintf("Received %v, shutting down", s))
		_ = gameListener.Close()
	}()

	appLogger.Info(fmt.Sprintf("Serving game at: %s", addr))
	if err := sessionManager.Serve(gameListener); err != nil {
		appLogger.Error(fmt.Sprintf("Serving game: %v", err))
	}
}
