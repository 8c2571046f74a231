package client

import (
	"errors"

	"github.com/beka-birhanu/vinom-labyrinth/codec"
	"github.com/beka-birhanu/vinom-labyrinth/maze"
	"github.com/beka-birhanu/vinom-labyrinth/protocol"
)

// State of an explorer.
type State int

const (
	StateIdle State = iota
	StateExploring
	StateExited
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateExploring:
		return "Exploring"
	default:
		return "Exited"
	}
}

// Strategy picks how the explorer chooses moves.
type Strategy string

const (
	StrategyFrontier Strategy = "frontier"
	StrategyWall     Strategy = "wall"
)

var ErrNotExploring = errors.New("explorer is not exploring")

type pendingMove struct {
	from    maze.Position
	dir     maze.Direction
	blocked bool
}

// Explorer turns radar frames into moves. It is not safe for concurrent use.
type Explorer struct {
	state       State
	strategy    Strategy
	navigator   Navigator
	follower    WallFollower
	m           *Map
	orientation *Orientation
	pos         maze.Position
	frame       codec.RadarFrame
	pending     *pendingMove
	moves       int
	lastPlan    Plan
}

func NewExplorer(strategy Strategy, navigator Navigator) *Explorer {
	if strategy == "" {
		strategy = StrategyFrontier
	}
	return &Explorer{
		state:       StateIdle,
		strategy:    strategy,
		navigator:   navigator,
		m:           NewMap(),
		orientation: NewOrientation(),
	}
}

func (e *Explorer) State() State              { return e.state }
func (e *Explorer) Map() *Map                 { return e.m }
func (e *Explorer) Position() maze.Position   { return e.pos }
func (e *Explorer) Facing() maze.Direction    { return e.orientation.Facing() }
func (e *Explorer) Moves() int                { return e.moves }
func (e *Explorer) LastPlan() Plan            { return e.lastPlan }
func (e *Explorer) Frame() codec.RadarFrame   { return e.frame }
func (e *Explorer) Strategy() Strategy        { return e.strategy }
func (e *Explorer) Orientation() *Orientation { return e.orientation }

// Observe settles the pending move and merges frame into the map.
func (e *Explorer) Observe(frame codec.RadarFrame) error {
	if e.state == StateExited {
		return ErrNotExploring
	}
	if err := frame.Validate(); err != nil {
		return err
	}
	e.settle()
	if err := e.m.Ingest(frame, e.pos, e.orientation.Facing()); err != nil {
		return err
	}
	e.frame = frame
	e.state = StateExploring
	return nil
}

// Blocked records that the pending move hit a wall.
func (e *Explorer) Blocked() {
	if e.pending != nil {
		e.pending.blocked = true
	}
}

// Exit ends the exploration.
func (e *Explorer) Exit() {
	e.settle()
	e.state = StateExited
}

func (e *Explorer) settle() {
	p := e.pending
	if p == nil {
		return
	}
	e.pending = nil
	if p.blocked {
		e.m.ForceWall(p.from, p.dir)
		return
	}
	e.pos = p.from.Step(p.dir)
	e.m.MarkTraversed(p.from, p.dir)
}

// Next chooses the next move and turns as the server will.
func (e *Explorer) Next() (protocol.RelativeDirection, error) {
	if e.state != StateExploring {
		return "", ErrNotExploring
	}

	var action protocol.RelativeDirection
	if e.strategy == StrategyFrontier {
		e.lastPlan = e.navigator.Next(e.m, e.pos)
		if e.lastPlan.Cost != Unreachable {
			action = e.orientation.ActionFor(e.lastPlan.Direction)
		}
	}
	if action == "" {
		action = e.follower.Next(e.frame)
	}

	e.orientation.Apply(action)
	e.pending = &pendingMove{from: e.pos, dir: e.orientation.Facing()}
	e.moves++
	return action, nil
}
