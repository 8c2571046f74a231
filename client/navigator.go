package client

import (
	"github.com/beka-birhanu/vinom-labyrinth/codec"
	"github.com/beka-birhanu/vinom-labyrinth/maze"
)

// Unreachable is the cost of a plan that found nothing to head for.
const Unreachable = 999

// searchOrder breaks ties between equally good moves.
var searchOrder = [4]maze.Direction{maze.North, maze.West, maze.South, maze.East}

// Plan is the next step towards the chosen target.
type Plan struct {
	Direction maze.Direction
	Cost      int
	Target    maze.Position
	ToGoal    bool
}

// Navigator picks moves over the known map. It heads for a known goal when one
// is reachable and otherwise for the nearest unexplored open passage.
type Navigator struct {
	// MaxDepth bounds the search in steps; 0 means unbounded.
	MaxDepth int
}

// Next returns the plan from at. Plan.Cost is Unreachable when nothing is left to explore.
func (n Navigator) Next(m *Map, at maze.Position) Plan {
	if goal, ok := m.Goal(); ok && goal != at {
		if plan, ok := n.search(m, at, func(p maze.Position, _ *MapCell) bool { return p == goal }); ok {
			plan.ToGoal = true
			return plan
		}
	}

	if c := m.Cell(at); c != nil {
		if d, ok := c.OpenUntraversed(); ok {
			return Plan{Direction: d, Cost: 1, Target: at.Step(d)}
		}
	}

	plan, ok := n.search(m, at, func(_ maze.Position, c *MapCell) bool {
		_, open := c.OpenUntraversed()
		return open
	})
	if !ok {
		return Plan{Cost: Unreachable}
	}
	// One more step crosses the unexplored passage.
	plan.Cost++
	return plan
}

// search runs a breadth-first search over open passages and returns the first
// step of the shortest path to a cell accepted by target.
func (n Navigator) search(m *Map, from maze.Position, target func(maze.Position, *MapCell) bool) (Plan, bool) {
	type node struct {
		pos   maze.Position
		first maze.Direction
		depth int
	}

	visited := map[maze.Position]bool{from: true}
	queue := []node{{pos: from}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		c := m.Cell(cur.pos)
		if c == nil {
			continue
		}
		if cur.depth > 0 && target(cur.pos, c) {
			return Plan{Direction: cur.first, Cost: cur.depth, Target: cur.pos}, true
		}
		if n.MaxDepth > 0 && cur.depth >= n.MaxDepth {
			continue
		}

		for _, d := range searchOrder {
			if c.Sides[d] != codec.Open {
				continue
			}
			next := cur.pos.Step(d)
			if visited[next] {
				continue
			}
			visited[next] = true
			first := cur.first
			if cur.depth == 0 {
				first = d
			}
			queue = append(queue, node{pos: next, first: first, depth: cur.depth + 1})
		}
	}
	return Plan{}, false
}
