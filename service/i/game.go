package i

import (
	"github.com/beka-birhanu/vinom-labyrinth/codec"
	"github.com/beka-birhanu/vinom-labyrinth/maze"
	"github.com/beka-birhanu/vinom-labyrinth/protocol"
	"github.com/google/uuid"
)

// Registration is handed to a team once it is registered.
type Registration struct {
	Token           string
	ExpectedPlayers int
}

// MoveOutcome describes everything a move produced, in send order.
type MoveOutcome struct {
	Blocked   bool
	Compass   *float64 // Angle towards the exit, set when the player stepped on a hint.
	Secret    *uint64
	Challenge *uint64 // Modulo of a challenge the player must solve before moving again.
	FoundExit bool
	Frame     codec.RadarFrame
}

// ChallengeOutcome is the result of answering a challenge. Frame is only set
// when the player did not find the exit.
type ChallengeOutcome struct {
	Correct   bool
	FoundExit bool
	Frame     codec.RadarFrame
}

// Game is the shared game state driven by player sessions.
type Game interface {
	// RegisterTeam creates a team and returns its registration token.
	RegisterTeam(name string) (Registration, error)

	// SubscribePlayer places a new player of the team owning token on the maze.
	SubscribePlayer(name, token string) (uuid.UUID, codec.RadarFrame, error)

	// Move applies a relative move for the player.
	Move(playerID uuid.UUID, dir protocol.RelativeDirection) (MoveOutcome, error)

	// SolveChallenge checks an answer to the pending challenge.
	SolveChallenge(playerID uuid.UUID, answer string) (ChallengeOutcome, error)

	RemovePlayer(playerID uuid.UUID)
}

// GameState exposes a read-only view of the game.
type GameState interface {
	Snapshot() GameSnapshot
}

type TeamSnapshot struct {
	Name            string
	ExpectedPlayers int
	Players         []string
}

type PlayerSnapshot struct {
	ID        uuid.UUID
	Name      string
	Team      string
	Position  maze.Position
	Facing    maze.Direction
	Moves     int
	Exited    bool
	Challenge bool
}

type GameSnapshot struct {
	Width   int
	Height  int
	Start   maze.Position
	Exit    maze.Position
	Map     string
	Teams   []TeamSnapshot
	Players []PlayerSnapshot
}
