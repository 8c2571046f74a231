package service

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"

	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	"github.com/beka-birhanu/vinom-labyrinth/codec"
	"github.com/beka-birhanu/vinom-labyrinth/maze"
	"github.com/beka-birhanu/vinom-labyrinth/protocol"
	"github.com/beka-birhanu/vinom-labyrinth/service/i"
	"github.com/google/uuid"
	"github.com/sasha-s/go-deadlock"
)

// Game-related errors.
var (
	ErrMissingMaze             = errors.New("game needs a maze")
	ErrInvalidExpectedPlayers  = errors.New("expected players must be positive")
	ErrInvalidTeamName         = errors.New("team name is empty")
	ErrTeamAlreadyRegistered   = errors.New("team already registered")
	ErrInvalidToken            = errors.New("invalid registration token")
	ErrInvalidPlayerName       = errors.New("player name is empty")
	ErrPlayerAlreadyRegistered = errors.New("player already registered")
	ErrTooManyPlayers          = errors.New("too many players")
	ErrPlayerNotFound          = errors.New("player not found")
	ErrPlayerExited            = errors.New("player already found the exit")
	ErrChallengePending        = errors.New("challenge must be solved first")
)

const (
	defaultHintInterval      = 8
	defaultChallengeInterval = 16
	defaultChallengePenalty  = 5

	minChallengeModulo = 2
	maxChallengeModulo = 1 << 16
	maxSecret          = 1 << 32
)

// GameConfig carries the game dependencies and rules.
// Zero intervals fall back to defaults; a negative interval disables the feature.
type GameConfig struct {
	Maze              *maze.Maze
	ExpectedPlayers   int
	HintInterval      int
	ChallengeInterval int
	ChallengePenalty  int
	Rand              *rand.Rand
	Logger            general_i.Logger
}

// Team groups the players registered with one token.
type Team struct {
	Name            string
	Token           string
	ExpectedPlayers int
	Players         []string
	Secrets         map[string]uint64 // Latest secret per player name.
}

// Player is a subscribed player.
type Player struct {
	ID       uuid.UUID
	Name     string
	TeamName string
	Position maze.Position
	Facing   maze.Direction
	Moves    int
	Exited   bool

	PendingChallenge *uint64
	expectedAnswer   uint64
}

// Game holds the maze and every team and player behind a single lock.
type Game struct {
	maze              *maze.Maze
	expectedPlayers   int
	hintInterval      int
	challengeInterval int
	challengePenalty  int
	rng               *rand.Rand
	logger            general_i.Logger

	teams   map[string]*Team
	tokens  map[string]string // token -> team name
	players map[uuid.UUID]*Player
	joined  int

	deadlock.Mutex
}

// NewGame creates a game over c.Maze.
func NewGame(c *GameConfig) (*Game, error) {
	if c.Maze == nil {
		return nil, ErrMissingMaze
	}
	if c.ExpectedPlayers < 1 {
		return nil, ErrInvalidExpectedPlayers
	}

	rng := c.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &Game{
		maze:              c.Maze,
		expectedPlayers:   c.ExpectedPlayers,
		hintInterval:      intervalOrDefault(c.HintInterval, defaultHintInterval),
		challengeInterval: intervalOrDefault(c.ChallengeInterval, defaultChallengeInterval),
		challengePenalty:  intervalOrDefault(c.ChallengePenalty, defaultChallengePenalty),
		rng:               rng,
		logger:            c.Logger,
		teams:             make(map[string]*Team),
		tokens:            make(map[string]string),
		players:           make(map[uuid.UUID]*Player),
	}, nil
}

func intervalOrDefault(v, def int) int {
	switch {
	case v == 0:
		return def
	case v < 0:
		return 0
	default:
		return v
	}
}

// RegisterTeam creates a team and returns its registration token.
func (g *Game) RegisterTeam(name string) (i.Registration, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return i.Registration{}, ErrInvalidTeamName
	}

	g.Lock()
	defer g.Unlock()
	if _, ok := g.teams[name]; ok {
		return i.Registration{}, ErrTeamAlreadyRegistered
	}

	token := uuid.NewString()
	g.teams[name] = &Team{
		Name:            name,
		Token:           token,
		ExpectedPlayers: g.expectedPlayers,
		Secrets:         make(map[string]uint64),
	}
	g.tokens[token] = name
	g.logInfo(fmt.Sprintf("registered team %q", name))
	return i.Registration{Token: token, ExpectedPlayers: g.expectedPlayers}, nil
}

// SubscribePlayer places a new player on the maze start, facing a direction chosen by join order.
func (g *Game) SubscribePlayer(name, token string) (uuid.UUID, codec.RadarFrame, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return uuid.Nil, codec.RadarFrame{}, ErrInvalidPlayerName
	}

	g.Lock()
	defer g.Unlock()
	teamName, ok := g.tokens[token]
	if !ok {
		return uuid.Nil, codec.RadarFrame{}, ErrInvalidToken
	}
	team := g.teams[teamName]
	if slices.Contains(team.Players, name) {
		return uuid.Nil, codec.RadarFrame{}, ErrPlayerAlreadyRegistered
	}
	if len(team.Players) >= team.ExpectedPlayers {
		return uuid.Nil, codec.RadarFrame{}, ErrTooManyPlayers
	}

	p := &Player{
		ID:       uuid.New(),
		Name:     name,
		TeamName: teamName,
		Position: g.maze.Start,
		Facing:   maze.Directions[g.joined%len(maze.Directions)],
	}
	g.joined++
	team.Players = append(team.Players, name)
	g.players[p.ID] = p
	g.logInfo(fmt.Sprintf("player %s/%s joined at %v facing %v", teamName, name, p.Position, p.Facing))
	return p.ID, g.view(p), nil
}

// Move turns the player as dir asks and steps forward when no wall is in the way.
// The facing changes even when the step is blocked.
func (g *Game) Move(playerID uuid.UUID, dir protocol.RelativeDirection) (i.MoveOutcome, error) {
	if !dir.Valid() {
		return i.MoveOutcome{}, protocol.ErrInvalidDirection
	}

	g.Lock()
	defer g.Unlock()
	p, ok := g.players[playerID]
	if !ok {
		return i.MoveOutcome{}, ErrPlayerNotFound
	}
	if p.Exited {
		return i.MoveOutcome{}, ErrPlayerExited
	}
	if p.PendingChallenge != nil {
		return i.MoveOutcome{}, ErrChallengePending
	}

	var out i.MoveOutcome
	p.Facing = p.Facing.Rotate(dir.Quarters())
	if g.maze.CanMove(p.Position, p.Facing) {
		p.Position = p.Position.Step(p.Facing)
	} else {
		out.Blocked = true
	}
	p.Moves++

	if !out.Blocked && g.maze.Cell(p.Position).HasHint {
		angle := compassAngle(p.Position, p.Facing, g.maze.Exit)
		out.Compass = &angle
	}
	if g.hintInterval > 0 && p.Moves%g.hintInterval == 0 {
		secret := g.rng.Uint64N(maxSecret)
		g.teams[p.TeamName].Secrets[p.Name] = secret
		out.Secret = &secret
	}
	if g.challengeInterval > 0 && p.Moves%g.challengeInterval == 0 {
		modulo := minChallengeModulo + g.rng.Uint64N(maxChallengeModulo-minChallengeModulo)
		p.PendingChallenge = &modulo
		p.expectedAnswer = sumSecrets(g.teams[p.TeamName].Secrets, modulo)
		out.Challenge = &modulo
		return out, nil
	}

	if g.reachedExit(p) {
		out.FoundExit = true
		return out, nil
	}

	out.Frame = g.view(p)
	return out, nil
}

// SolveChallenge checks answer against the pending challenge. A wrong answer costs
// the configured move penalty. The exit check held back by the challenge runs afterwards.
func (g *Game) SolveChallenge(playerID uuid.UUID, answer string) (i.ChallengeOutcome, error) {
	g.Lock()
	defer g.Unlock()
	p, ok := g.players[playerID]
	if !ok {
		return i.ChallengeOutcome{}, ErrPlayerNotFound
	}
	if p.PendingChallenge == nil {
		return i.ChallengeOutcome{}, protocol.ErrNoPendingChallenge
	}

	var out i.ChallengeOutcome
	got, err := strconv.ParseUint(strings.TrimSpace(answer), 10, 64)
	out.Correct = err == nil && got == p.expectedAnswer
	if !out.Correct {
		p.Moves += g.challengePenalty
		g.logWarning(fmt.Sprintf("player %s/%s answered %q to challenge mod %d, expected %d",
			p.TeamName, p.Name, answer, *p.PendingChallenge, p.expectedAnswer))
	}
	p.PendingChallenge = nil

	if g.reachedExit(p) {
		out.FoundExit = true
		return out, nil
	}
	out.Frame = g.view(p)
	return out, nil
}

// RemovePlayer drops the player and frees its name in the team. Its latest
// secret stays with the team.
func (g *Game) RemovePlayer(playerID uuid.UUID) {
	g.Lock()
	defer g.Unlock()
	p, ok := g.players[playerID]
	if !ok {
		return
	}
	delete(g.players, playerID)
	if team, ok := g.teams[p.TeamName]; ok {
		team.Players = slices.DeleteFunc(team.Players, func(n string) bool { return n == p.Name })
	}
	g.logInfo(fmt.Sprintf("player %s/%s removed", p.TeamName, p.Name))
}

// Snapshot returns a copy of the game state and an ASCII picture of the maze.
func (g *Game) Snapshot() i.GameSnapshot {
	g.Lock()
	defer g.Unlock()

	s := i.GameSnapshot{
		Width:  g.maze.Width,
		Height: g.maze.Height,
		Start:  g.maze.Start,
		Exit:   g.maze.Exit,
	}

	marks := make(map[maze.Position]rune)
	for _, p := range g.players {
		marks[p.Position] = facingArrow(p.Facing)
		s.Players = append(s.Players, i.PlayerSnapshot{
			ID:        p.ID,
			Name:      p.Name,
			Team:      p.TeamName,
			Position:  p.Position,
			Facing:    p.Facing,
			Moves:     p.Moves,
			Exited:    p.Exited,
			Challenge: p.PendingChallenge != nil,
		})
	}
	s.Map = g.maze.Render(marks)
	slices.SortFunc(s.Players, func(a, b i.PlayerSnapshot) int {
		return strings.Compare(a.Team+"/"+a.Name, b.Team+"/"+b.Name)
	})

	for _, t := range g.teams {
		s.Teams = append(s.Teams, i.TeamSnapshot{
			Name:            t.Name,
			ExpectedPlayers: t.ExpectedPlayers,
			Players:         slices.Clone(t.Players),
		})
	}
	slices.SortFunc(s.Teams, func(a, b i.TeamSnapshot) int { return strings.Compare(a.Name, b.Name) })
	return s
}

// reachedExit marks p as exited when it stands on the exit. Lock must be held.
func (g *Game) reachedExit(p *Player) bool {
	if p.Position != g.maze.Exit {
		return false
	}
	p.Exited = true
	g.logInfo(fmt.Sprintf("team %s/%s found the exit in %d moves", p.TeamName, p.Name, p.Moves))
	return true
}

// view must be called with the lock held.
func (g *Game) view(p *Player) codec.RadarFrame {
	return ProjectView(g.maze, p.Position, p.Facing, func(pos maze.Position) codec.Entity {
		entity := codec.NoEntity
		for _, other := range g.players {
			if other.ID == p.ID || other.Position != pos {
				continue
			}
			if other.TeamName == p.TeamName {
				return codec.Ally
			}
			entity = codec.Enemy
		}
		return entity
	})
}

// compassAngle is the clockwise angle in degrees from facing to the exit.
func compassAngle(from maze.Position, facing maze.Direction, exit maze.Position) float64 {
	dx := float64(exit.X - from.X)
	dy := float64(exit.Y - from.Y)
	bearing := math.Atan2(dx, -dy) * 180 / math.Pi
	angle := math.Mod(bearing-float64(facing)*90, 360)
	if angle < 0 {
		angle += 360
	}
	return angle
}

// sumSecrets adds every secret modulo m without overflowing.
func sumSecrets(secrets map[string]uint64, m uint64) uint64 {
	var sum uint64
	for _, s := range secrets {
		s %= m
		if sum >= m-s {
			sum -= m - s
		} else {
			sum += s
		}
	}
	return sum
}

func facingArrow(d maze.Direction) rune {
	switch d {
	case maze.North:
		return '^'
	case maze.East:
		return '>'
	case maze.South:
		return 'v'
	default:
		return '<'
	}
}

func (g *Game) logInfo(msg string) {
	if g.logger != nil {
		g.logger.Info(msg)
	}
}

func (g *Game) logWarning(msg string) {
	if g.logger != nil {
		g.logger.Warning(msg)
	}
}
