package client

import (
	"testing"

	"github.com/beka-birhanu/vinom-labyrinth/codec"
	"github.com/beka-birhanu/vinom-labyrinth/maze"
	"github.com/beka-birhanu/vinom-labyrinth/protocol"
	"github.com/stretchr/testify/assert"
)

func pos(x, y int) maze.Position {
	return maze.Position{X: x, Y: y}
}

// corridorMap is (0,0)-(1,0)-(2,0) with both inner edges walked and an
// unexplored opening east of (2,0).
func corridorMap() *Map {
	m := NewMap()
	m.setSide(pos(0, 0), maze.East, codec.Open)
	m.setSide(pos(1, 0), maze.East, codec.Open)
	m.setSide(pos(2, 0), maze.East, codec.Open)
	m.MarkTraversed(pos(0, 0), maze.East)
	m.MarkTraversed(pos(1, 0), maze.East)
	return m
}

func TestNavigator_TiePriority(t *testing.T) {
	m := NewMap()
	for _, d := range maze.Directions {
		m.setSide(origin, d, codec.Open)
	}

	var n Navigator
	for _, want := range []maze.Direction{maze.North, maze.West, maze.South, maze.East} {
		plan := n.Next(m, origin)
		assert.Equal(t, want, plan.Direction)
		assert.Equal(t, 1, plan.Cost)
		assert.Equal(t, origin.Step(want), plan.Target)
		m.MarkTraversed(origin, want)
	}
}

func TestNavigator_Unreachable(t *testing.T) {
	var n Navigator
	assert.Equal(t, Unreachable, n.Next(NewMap(), origin).Cost)

	walled := NewMap()
	for _, d := range maze.Directions {
		walled.setSide(origin, d, codec.Wall)
	}
	assert.Equal(t, Unreachable, n.Next(walled, origin).Cost)

	loop := NewMap()
	edges := []struct {
		p maze.Position
		d maze.Direction
	}{
		{pos(0, 0), maze.East},
		{pos(1, 0), maze.South},
		{pos(1, 1), maze.West},
		{pos(0, 1), maze.North},
	}
	for _, e := range edges {
		loop.setSide(e.p, e.d, codec.Open)
		loop.MarkTraversed(e.p, e.d)
	}
	assert.Equal(t, Unreachable, n.Next(loop, origin).Cost)
}

func TestNavigator_Frontier(t *testing.T) {
	plan := Navigator{}.Next(corridorMap(), origin)
	assert.Equal(t, maze.East, plan.Direction)
	assert.Equal(t, 3, plan.Cost)
	assert.Equal(t, pos(2, 0), plan.Target)
	assert.False(t, plan.ToGoal)
}

func TestNavigator_MaxDepth(t *testing.T) {
	assert.Equal(t, Unreachable, Navigator{MaxDepth: 1}.Next(corridorMap(), origin).Cost)

	plan := Navigator{MaxDepth: 2}.Next(corridorMap(), origin)
	assert.Equal(t, 3, plan.Cost)
	assert.Equal(t, maze.East, plan.Direction)
}

func TestNavigator_PrefersGoal(t *testing.T) {
	m := NewMap()
	m.setSide(origin, maze.North, codec.Open)
	m.setSide(origin, maze.East, codec.Open)
	m.MarkTraversed(origin, maze.East)
	m.cell(pos(1, 0)).Item = codec.GoalItem

	plan := Navigator{}.Next(m, origin)
	assert.True(t, plan.ToGoal)
	assert.Equal(t, maze.East, plan.Direction)
	assert.Equal(t, 1, plan.Cost)
	assert.Equal(t, pos(1, 0), plan.Target)
}

func TestNavigator_UnreachableGoalFallsBackToFrontier(t *testing.T) {
	m := NewMap()
	m.setSide(origin, maze.North, codec.Open)
	m.setSide(origin, maze.East, codec.Wall)
	m.cell(pos(1, 0)).Item = codec.GoalItem

	plan := Navigator{}.Next(m, origin)
	assert.False(t, plan.ToGoal)
	assert.Equal(t, maze.North, plan.Direction)
}

func TestOrientation(t *testing.T) {
	o := NewOrientation()
	for range 4 {
		o.Apply(protocol.Right)
	}
	assert.Equal(t, maze.North, o.Facing())

	o.Apply(protocol.Left)
	assert.Equal(t, maze.West, o.Facing())
	o.Apply(protocol.Back)
	assert.Equal(t, maze.East, o.Facing())
	o.Apply(protocol.Front)
	assert.Equal(t, maze.East, o.Facing())

	tests := []struct {
		want protocol.RelativeDirection
		d    maze.Direction
	}{
		{protocol.Front, maze.East},
		{protocol.Right, maze.South},
		{protocol.Back, maze.West},
		{protocol.Left, maze.North},
	}
	for _, tt := range tests {
		action := o.ActionFor(tt.d)
		assert.Equal(t, tt.want, action, tt.d.String())
		assert.Equal(t, tt.d, o.Facing().Rotate(action.Quarters()))
	}
}

func TestWallFollower(t *testing.T) {
	var w WallFollower
	assert.Equal(t, protocol.Back, w.Next(walledFrame()))

	f := walledFrame()
	f.Vertical[codec.LeftPassage] = codec.Open
	assert.Equal(t, protocol.Left, w.Next(f))

	f.Horizontal[codec.FrontPassage] = codec.Open
	assert.Equal(t, protocol.Front, w.Next(f))

	f.Vertical[codec.RightPassage] = codec.Open
	assert.Equal(t, protocol.Right, w.Next(f))
}
