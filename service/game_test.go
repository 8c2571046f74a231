package service

import (
	"math"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"testing"

	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	logger "github.com/beka-birhanu/vinom-common/log"
	"github.com/beka-birhanu/vinom-labyrinth/codec"
	"github.com/beka-birhanu/vinom-labyrinth/config"
	"github.com/beka-birhanu/vinom-labyrinth/maze"
	"github.com/beka-birhanu/vinom-labyrinth/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) general_i.Logger {
	t.Helper()
	l, err := logger.New("TEST", config.ColorWhite, os.Stdout)
	require.NoError(t, err)
	return l
}

// corridor is a 3x1 maze: start on the left, a hint in the middle, the exit on the right.
func corridor() *maze.Maze {
	m := walledMaze(3, 1)
	m.Cells[0][0].EastWall = false
	m.Cells[0][1].WestWall = false
	m.Cells[0][1].EastWall = false
	m.Cells[0][2].WestWall = false
	m.Cells[0][1].HasHint = true
	m.Cells[0][2].HasExit = true
	m.Start = maze.Position{X: 0, Y: 0}
	m.Exit = maze.Position{X: 2, Y: 0}
	return m
}

func newTestGame(t *testing.T, c GameConfig) *Game {
	t.Helper()
	if c.Maze == nil {
		c.Maze = corridor()
	}
	if c.ExpectedPlayers == 0 {
		c.ExpectedPlayers = 3
	}
	if c.Rand == nil {
		c.Rand = rand.New(rand.NewPCG(1, 2))
	}
	c.Logger = testLogger(t)
	g, err := NewGame(&c)
	require.NoError(t, err)
	return g
}

func TestNewGame_Errors(t *testing.T) {
	_, err := NewGame(&GameConfig{ExpectedPlayers: 1})
	assert.ErrorIs(t, err, ErrMissingMaze)
	_, err = NewGame(&GameConfig{Maze: corridor()})
	assert.ErrorIs(t, err, ErrInvalidExpectedPlayers)
}

func TestGame_Registration(t *testing.T) {
	g := newTestGame(t, GameConfig{ExpectedPlayers: 2})

	reg, err := g.RegisterTeam("rovers")
	require.NoError(t, err)
	assert.Equal(t, 2, reg.ExpectedPlayers)
	assert.NotEmpty(t, reg.Token)

	_, err = g.RegisterTeam("rovers")
	assert.ErrorIs(t, err, ErrTeamAlreadyRegistered)
	_, err = g.RegisterTeam("  ")
	assert.ErrorIs(t, err, ErrInvalidTeamName)

	_, _, err = g.SubscribePlayer("nino", "bogus")
	assert.ErrorIs(t, err, ErrInvalidToken)

	id, frame, err := g.SubscribePlayer("nino", reg.Token)
	require.NoError(t, err)
	assert.Equal(t, codec.Wall, frame.Horizontal[codec.FrontPassage])

	_, _, err = g.SubscribePlayer("nino", reg.Token)
	assert.ErrorIs(t, err, ErrPlayerAlreadyRegistered)
	_, _, err = g.SubscribePlayer("paul", reg.Token)
	require.NoError(t, err)
	_, _, err = g.SubscribePlayer("loriane", reg.Token)
	assert.ErrorIs(t, err, ErrTooManyPlayers)

	g.RemovePlayer(id)
	_, _, err = g.SubscribePlayer("loriane", reg.Token)
	assert.NoError(t, err)
}

func TestGame_MovementTable(t *testing.T) {
	g := newTestGame(t, GameConfig{HintInterval: -1, ChallengeInterval: -1})
	reg, err := g.RegisterTeam("rovers")
	require.NoError(t, err)
	id, _, err := g.SubscribePlayer("nino", reg.Token)
	require.NoError(t, err)

	// First player faces north on the start cell.
	out, err := g.Move(id, protocol.Front)
	require.NoError(t, err)
	assert.True(t, out.Blocked)

	// Back turns to face south, still blocked.
	out, err = g.Move(id, protocol.Back)
	require.NoError(t, err)
	assert.True(t, out.Blocked)

	// Left from south is east, which is open and leads to the hint.
	out, err = g.Move(id, protocol.Left)
	require.NoError(t, err)
	assert.False(t, out.Blocked)
	require.NotNil(t, out.Compass)
	assert.InDelta(t, 0, *out.Compass, 1e-9)
	assert.Equal(t, codec.Open, out.Frame.Horizontal[codec.FrontPassage])
	assert.Equal(t, codec.GoalItem, out.Frame.Cells[1].Item)

	// Right from east is south: blocked, facing still changes.
	out, err = g.Move(id, protocol.Right)
	require.NoError(t, err)
	assert.True(t, out.Blocked)
	assert.Equal(t, codec.GoalItem, out.Frame.Cells[3].Item)

	out, err = g.Move(id, protocol.Left)
	require.NoError(t, err)
	assert.True(t, out.FoundExit)

	_, err = g.Move(id, protocol.Front)
	assert.ErrorIs(t, err, ErrPlayerExited)

	snap := g.Snapshot()
	require.Len(t, snap.Players, 1)
	assert.Equal(t, 5, snap.Players[0].Moves)
	assert.Equal(t, maze.East, snap.Players[0].Facing)
	assert.True(t, snap.Players[0].Exited)
}

func TestGame_SecretsAndChallenges(t *testing.T) {
	g := newTestGame(t, GameConfig{HintInterval: 1, ChallengeInterval: 2, ChallengePenalty: 5})
	reg, err := g.RegisterTeam("rovers")
	require.NoError(t, err)
	id, _, err := g.SubscribePlayer("nino", reg.Token)
	require.NoError(t, err)

	_, err = g.SolveChallenge(id, "0")
	assert.ErrorIs(t, err, protocol.ErrNoPendingChallenge)

	out, err := g.Move(id, protocol.Front)
	require.NoError(t, err)
	require.NotNil(t, out.Secret)
	assert.Nil(t, out.Challenge)

	out, err = g.Move(id, protocol.Front)
	require.NoError(t, err)
	require.NotNil(t, out.Secret)
	require.NotNil(t, out.Challenge)
	modulo := *out.Challenge
	answer := *out.Secret % modulo

	_, err = g.Move(id, protocol.Front)
	assert.ErrorIs(t, err, ErrChallengePending)

	res, err := g.SolveChallenge(id, strconv.FormatUint(answer, 10))
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, codec.Wall, res.Frame.Horizontal[codec.FrontPassage])
	assert.Equal(t, 2, g.Snapshot().Players[0].Moves)

	_, err = g.Move(id, protocol.Front)
	require.NoError(t, err)
	out, err = g.Move(id, protocol.Front)
	require.NoError(t, err)
	require.NotNil(t, out.Challenge)

	res, err = g.SolveChallenge(id, "not a number")
	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.Equal(t, 9, g.Snapshot().Players[0].Moves)
}

func TestGame_RemovedPlayerSecretCounts(t *testing.T) {
	g := newTestGame(t, GameConfig{HintInterval: 1, ChallengeInterval: 2})
	reg, err := g.RegisterTeam("rovers")
	require.NoError(t, err)
	a, _, err := g.SubscribePlayer("nino", reg.Token)
	require.NoError(t, err)
	b, _, err := g.SubscribePlayer("paul", reg.Token)
	require.NoError(t, err)

	out, err := g.Move(a, protocol.Front)
	require.NoError(t, err)
	require.NotNil(t, out.Secret)
	secretA := *out.Secret
	g.RemovePlayer(a)

	_, err = g.Move(b, protocol.Front)
	require.NoError(t, err)
	out, err = g.Move(b, protocol.Front)
	require.NoError(t, err)
	require.NotNil(t, out.Secret)
	require.NotNil(t, out.Challenge)

	modulo := *out.Challenge
	answer := sumSecrets(map[string]uint64{"nino": secretA, "paul": *out.Secret}, modulo)
	res, err := g.SolveChallenge(b, strconv.FormatUint(answer, 10))
	require.NoError(t, err)
	assert.True(t, res.Correct)
}

func TestGame_ChallengeOnExitDefersFoundExit(t *testing.T) {
	g := newTestGame(t, GameConfig{HintInterval: -1, ChallengeInterval: 2})
	reg, err := g.RegisterTeam("rovers")
	require.NoError(t, err)
	id, _, err := g.SubscribePlayer("nino", reg.Token)
	require.NoError(t, err)

	_, err = g.Move(id, protocol.Right)
	require.NoError(t, err)
	out, err := g.Move(id, protocol.Front)
	require.NoError(t, err)
	require.NotNil(t, out.Challenge)
	assert.False(t, out.FoundExit)

	res, err := g.SolveChallenge(id, "0")
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.True(t, res.FoundExit)
}

func TestGame_Entities(t *testing.T) {
	g := newTestGame(t, GameConfig{})
	a, err := g.RegisterTeam("a")
	require.NoError(t, err)
	b, err := g.RegisterTeam("b")
	require.NoError(t, err)

	idA, frame, err := g.SubscribePlayer("one", a.Token)
	require.NoError(t, err)
	assert.Equal(t, codec.NoEntity, frame.Cells[4].Entity)

	_, frame, err = g.SubscribePlayer("two", b.Token)
	require.NoError(t, err)
	assert.Equal(t, codec.Enemy, frame.Cells[4].Entity)

	_, frame, err = g.SubscribePlayer("three", a.Token)
	require.NoError(t, err)
	assert.Equal(t, codec.Ally, frame.Cells[4].Entity)

	out, err := g.Move(idA, protocol.Front)
	require.NoError(t, err)
	assert.Equal(t, codec.Ally, out.Frame.Cells[4].Entity)
}

func TestGame_Snapshot(t *testing.T) {
	g := newTestGame(t, GameConfig{})
	for _, name := range []string{"zeta", "alpha"} {
		reg, err := g.RegisterTeam(name)
		require.NoError(t, err)
		_, _, err = g.SubscribePlayer("p-"+name, reg.Token)
		require.NoError(t, err)
	}

	s := g.Snapshot()
	assert.Equal(t, 3, s.Width)
	assert.Equal(t, 1, s.Height)
	assert.Equal(t, maze.Position{X: 2, Y: 0}, s.Exit)
	require.Len(t, s.Teams, 2)
	assert.Equal(t, "alpha", s.Teams[0].Name)
	assert.Equal(t, []string{"p-alpha"}, s.Teams[0].Players)
	require.Len(t, s.Players, 2)
	assert.Equal(t, "p-alpha", s.Players[0].Name)
	assert.True(t, strings.Contains(s.Map, "X"))
	assert.True(t, strings.ContainsAny(s.Map, "^>"))
}

func TestCompassAngle(t *testing.T) {
	origin := maze.Position{X: 5, Y: 5}
	assert.InDelta(t, 0, compassAngle(origin, maze.North, maze.Position{X: 5, Y: 0}), 1e-9)
	assert.InDelta(t, 90, compassAngle(origin, maze.North, maze.Position{X: 9, Y: 5}), 1e-9)
	assert.InDelta(t, 180, compassAngle(origin, maze.North, maze.Position{X: 5, Y: 9}), 1e-9)
	assert.InDelta(t, 270, compassAngle(origin, maze.North, maze.Position{X: 0, Y: 5}), 1e-9)
	assert.InDelta(t, 270, compassAngle(origin, maze.East, maze.Position{X: 5, Y: 0}), 1e-9)
	assert.InDelta(t, 45, compassAngle(origin, maze.North, maze.Position{X: 7, Y: 3}), 1e-9)
}

func TestSumSecrets(t *testing.T) {
	assert.Equal(t, uint64(0), sumSecrets(nil, 7))
	assert.Equal(t, uint64(3), sumSecrets(map[string]uint64{"a": 5, "b": 12}, 7))

	m := uint64(math.MaxUint64)
	got := sumSecrets(map[string]uint64{"a": m - 1, "b": m - 2}, m)
	assert.Equal(t, m-3, got)
}
