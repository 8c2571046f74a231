package client

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	"github.com/beka-birhanu/vinom-labyrinth/codec"
	"github.com/beka-birhanu/vinom-labyrinth/protocol"
	"golang.org/x/time/rate"
)

// Player errors.
var (
	ErrMissingSecrets       = errors.New("player needs a secret table")
	ErrMissingLogger        = errors.New("player needs a logger")
	ErrSubscriptionRejected = errors.New("subscription rejected")
	ErrMoveLimit            = errors.New("move limit reached")
)

const (
	defaultMoveInterval = 20 * time.Millisecond
	dialTimeout         = 5 * time.Second
)

// PlayerConfig carries the player settings.
type PlayerConfig struct {
	Name         string
	Token        string
	Addr         string
	Secrets      *SecretTable
	Strategy     Strategy
	Navigator    Navigator
	MoveInterval time.Duration // 0 uses the default, negative disables pacing
	MaxMoves     int           // 0 means unbounded
	Logger       general_i.Logger
}

// Result summarises a finished run.
type Result struct {
	Player  string
	Moves   int
	Frames  int
	Blocked int
	Exited  bool
}

// Player plays one subscribed player over its own connection.
type Player struct {
	name     string
	token    string
	addr     string
	secrets  *SecretTable
	explorer *Explorer
	limiter  *rate.Limiter
	maxMoves int
	logger   general_i.Logger
}

func NewPlayer(c *PlayerConfig) (*Player, error) {
	if c.Secrets == nil {
		return nil, ErrMissingSecrets
	}
	if c.Logger == nil {
		return nil, ErrMissingLogger
	}

	interval := c.MoveInterval
	if interval == 0 {
		interval = defaultMoveInterval
	}
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}

	return &Player{
		name:     c.Name,
		token:    c.Token,
		addr:     c.Addr,
		secrets:  c.Secrets,
		explorer: NewExplorer(c.Strategy, c.Navigator),
		limiter:  rate.NewLimiter(limit, 1),
		maxMoves: c.MaxMoves,
		logger:   c.Logger,
	}, nil
}

// Run subscribes the player and plays until it finds the exit, ctx ends or an error occurs.
func (p *Player) Run(ctx context.Context) (Result, error) {
	res := Result{Player: p.name}

	conn, err := protocol.Dial(p.addr, dialTimeout)
	if err != nil {
		return res, err
	}
	defer func() { _ = conn.Close() }()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if err := conn.Send(protocol.NewSubscribePlayer(p.name, p.token)); err != nil {
		return res, err
	}
	reply, err := conn.ReceiveServer()
	if err != nil {
		return res, p.contextErr(ctx, err)
	}
	if reply.SubscribePlayerResult == nil {
		return res, protocol.Wrap(protocol.Protocol, "subscribe player",
			fmt.Errorf("%w: %s", protocol.ErrUnexpectedMessage, reply.Kind()))
	}
	if reply.SubscribePlayerResult.Error != nil {
		return res, fmt.Errorf("%w: %s", ErrSubscriptionRejected, *reply.SubscribePlayerResult.Error)
	}
	p.logger.Info(fmt.Sprintf("%s subscribed", p.name))

	for {
		msg, err := conn.ReceiveServer()
		if err != nil {
			return res, p.contextErr(ctx, err)
		}

		switch {
		case msg.RadarView != nil:
			res.Frames++
			frame, err := codec.DecodeRadar(*msg.RadarView)
			if err != nil {
				return res, protocol.Wrap(protocol.Codec, "decode radar view", err)
			}
			if err := p.explorer.Observe(frame); err != nil {
				return res, protocol.Wrap(protocol.Codec, "ingest radar view", err)
			}
			if p.maxMoves > 0 && p.explorer.Moves() >= p.maxMoves {
				return res, fmt.Errorf("%w: %d", ErrMoveLimit, p.maxMoves)
			}
			if err := p.limiter.Wait(ctx); err != nil {
				return res, err
			}
			action, err := p.explorer.Next()
			if err != nil {
				return res, err
			}
			res.Moves = p.explorer.Moves()
			if err := conn.Send(protocol.NewMoveTo(action)); err != nil {
				return res, p.contextErr(ctx, err)
			}

		case msg.CannotPassThroughWall:
			res.Blocked++
			p.explorer.Blocked()

		case msg.Hint != nil && msg.Hint.Secret != nil:
			p.secrets.Store(p.name, *msg.Hint.Secret)

		case msg.Hint != nil:
			p.logger.Info(fmt.Sprintf("%s got a compass hint: %.1f degrees", p.name, msg.Hint.RelativeCompass.Angle))

		case msg.Challenge != nil:
			answer := p.secrets.SumMod(*msg.Challenge.SecretSumModulo)
			if err := conn.Send(protocol.NewSolveChallenge(strconv.FormatUint(answer, 10))); err != nil {
				return res, p.contextErr(ctx, err)
			}

		case msg.FoundExit:
			p.explorer.Exit()
			res.Exited = true
			p.logger.Info(fmt.Sprintf("%s found the exit after %d moves", p.name, res.Moves))
			return res, nil

		default:
			return res, protocol.Wrap(protocol.Protocol, "play",
				fmt.Errorf("%w: %s", protocol.ErrUnexpectedMessage, msg.Kind()))
		}
	}
}

// contextErr prefers the context error when the connection was closed because ctx ended.
func (p *Player) contextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

// Explorer exposes the player's exploration state.
func (p *Player) Explorer() *Explorer {
	return p.explorer
}
