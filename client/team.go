package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	logger "github.com/beka-birhanu/vinom-common/log"
	"github.com/beka-birhanu/vinom-labyrinth/config"
	"github.com/beka-birhanu/vinom-labyrinth/protocol"
)

var (
	ErrRegistrationRejected = errors.New("team registration rejected")
	ErrMissingTeamName      = errors.New("team name is empty")
	ErrInvalidPlayerCount   = errors.New("expected players out of range")
)

// MaxExpectedPlayers bounds the number of players a server may ask a team to run.
const MaxExpectedPlayers = 64

var defaultPlayerNames = []string{"Nino", "Paul", "Loriane"}

// TeamConfig carries the team settings.
type TeamConfig struct {
	Name         string
	Addr         string
	PlayerNames  []string // Names used in order; missing names are generated.
	Strategy     Strategy
	Navigator    Navigator
	MoveInterval time.Duration
	MaxMoves     int
	Logger       general_i.Logger
}

// Register registers a team and returns its token and the number of expected players.
func Register(addr, name string) (string, int, error) {
	conn, err := protocol.Dial(addr, dialTimeout)
	if err != nil {
		return "", 0, err
	}
	defer func() { _ = conn.Close() }()

	if err := conn.Send(protocol.NewRegisterTeam(name)); err != nil {
		return "", 0, err
	}
	reply, err := conn.ReceiveServer()
	if err != nil {
		return "", 0, err
	}
	result := reply.RegisterTeamResult
	if result == nil {
		return "", 0, protocol.Wrap(protocol.Protocol, "register team",
			fmt.Errorf("%w: %s", protocol.ErrUnexpectedMessage, reply.Kind()))
	}
	if result.Error != nil {
		return "", 0, fmt.Errorf("%w: %s", ErrRegistrationRejected, *result.Error)
	}
	if n := result.Ok.ExpectedPlayers; n < 1 || n > MaxExpectedPlayers {
		return "", 0, protocol.Wrap(protocol.Protocol, "register team",
			fmt.Errorf("%w: %d", ErrInvalidPlayerCount, n))
	}
	return result.Ok.RegistrationToken, result.Ok.ExpectedPlayers, nil
}

// RunTeam registers the team and runs every expected player in its own goroutine.
// Players share one secret table. Errors of all players are joined.
func RunTeam(ctx context.Context, c *TeamConfig) ([]Result, error) {
	if c.Name == "" {
		return nil, ErrMissingTeamName
	}

	token, expected, err := Register(c.Addr, c.Name)
	if err != nil {
		return nil, err
	}
	if c.Logger != nil {
		c.Logger.Info(fmt.Sprintf("team %s registered, %d players expected", c.Name, expected))
	}

	secrets := NewSecretTable()
	results := make([]Result, expected)
	errs := make([]error, expected)

	var wg sync.WaitGroup
	for idx := 0; idx < expected; idx++ {
		name := playerName(c.PlayerNames, idx)
		playerLogger, err := logger.New("PLAYER-"+name, config.PlayerColors[idx%len(config.PlayerColors)], os.Stdout)
		if err != nil {
			errs[idx] = fmt.Errorf("creating logger for %s: %w", name, err)
			continue
		}
		player, err := NewPlayer(&PlayerConfig{
			Name:         name,
			Token:        token,
			Addr:         c.Addr,
			Secrets:      secrets,
			Strategy:     c.Strategy,
			Navigator:    c.Navigator,
			MoveInterval: c.MoveInterval,
			MaxMoves:     c.MaxMoves,
			Logger:       playerLogger,
		})
		if err != nil {
			errs[idx] = err
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := player.Run(ctx)
			results[idx] = res
			if err != nil {
				errs[idx] = fmt.Errorf("player %s: %w", name, err)
			}
		}()
	}
	wg.Wait()

	return results, errors.Join(errs...)
}

func playerName(names []string, idx int) string {
	if idx < len(names) {
		return names[idx]
	}
	if len(names) == 0 && idx < len(defaultPlayerNames) {
		return defaultPlayerNames[idx]
	}
	return fmt.Sprintf("player-%d", idx+1)
}
