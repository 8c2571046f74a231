package client

import (
	"strings"

	"github.com/beka-birhanu/vinom-labyrinth/codec"
	"github.com/beka-birhanu/vinom-labyrinth/maze"
)

// MapCell is what the player learned about one cell. Sides and Traversed are
// indexed by map-frame direction.
type MapCell struct {
	Sides     [4]codec.Boundary
	Traversed [4]bool
	HasPlayer bool
	Item      codec.Item
	Seen      bool // The cell itself was inside a radar window.
}

// OpenUntraversed reports the first side, in navigation priority, that is open
// and has not been walked through yet.
func (c *MapCell) OpenUntraversed() (maze.Direction, bool) {
	for _, d := range searchOrder {
		if c.Sides[d] == codec.Open && !c.Traversed[d] {
			return d, true
		}
	}
	return 0, false
}

// Map is the player's own picture of the maze in map-frame coordinates. The
// start cell is (0, 0) and map north is the direction the player first faced.
type Map struct {
	cells map[maze.Position]*MapCell
}

func NewMap() *Map {
	return &Map{cells: make(map[maze.Position]*MapCell)}
}

// Cell returns the cell at p or nil when nothing is known about it.
func (m *Map) Cell(p maze.Position) *MapCell {
	return m.cells[p]
}

func (m *Map) cell(p maze.Position) *MapCell {
	c, ok := m.cells[p]
	if !ok {
		c = &MapCell{}
		m.cells[p] = c
	}
	return c
}

// Len returns the number of known cells.
func (m *Map) Len() int {
	return len(m.cells)
}

// Goal returns the position of a known goal cell.
func (m *Map) Goal() (maze.Position, bool) {
	for p, c := range m.cells {
		if c.Item == codec.GoalItem {
			return p, true
		}
	}
	return maze.Position{}, false
}

// Ingest merges a radar frame seen from at while facing facing. Known
// boundaries are never overwritten; every write is mirrored onto the neighbour.
func (m *Map) Ingest(frame codec.RadarFrame, at maze.Position, facing maze.Direction) error {
	if err := frame.Validate(); err != nil {
		return err
	}

	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			content := frame.Cells[r*3+c]
			if content.Undefined {
				continue
			}
			p := at.Offset(facing, 1-r, c-1)
			cell := m.cell(p)
			cell.Seen = true
			if content.Item != codec.NoItem {
				cell.Item = content.Item
			}
			cell.HasPlayer = content.Entity != codec.NoEntity && (r != 1 || c != 1)

			relative := [4]codec.Boundary{
				frame.Horizontal[r*3+c],     // up
				frame.Vertical[r*4+c+1],     // right
				frame.Horizontal[(r+1)*3+c], // down
				frame.Vertical[r*4+c],       // left
			}
			for s, b := range relative {
				m.setSide(p, facing.Rotate(s), b)
			}
		}
	}
	return nil
}

func (m *Map) setSide(p maze.Position, d maze.Direction, b codec.Boundary) {
	if b == codec.Unknown {
		return
	}
	if c := m.cell(p); c.Sides[d] == codec.Unknown {
		c.Sides[d] = b
	}
	if n := m.cell(p.Step(d)); n.Sides[d.Opposite()] == codec.Unknown {
		n.Sides[d.Opposite()] = b
	}
}

// ForceWall records a wall the server reported, overriding what the map believed.
func (m *Map) ForceWall(p maze.Position, d maze.Direction) {
	m.cell(p).Sides[d] = codec.Wall
	m.cell(p.Step(d)).Sides[d.Opposite()] = codec.Wall
}

// MarkTraversed flags the edge from p in direction d on both sides.
func (m *Map) MarkTraversed(p maze.Position, d maze.Direction) {
	m.cell(p).Traversed[d] = true
	m.cell(p.Step(d)).Traversed[d.Opposite()] = true
}

// Render draws the known map; unknown passages are '?', the player '@'.
func (m *Map) Render(player maze.Position) string {
	if len(m.cells) == 0 {
		return ""
	}
	minP, maxP := player, player
	for p, c := range m.cells {
		if !c.Seen {
			continue
		}
		minP.X, minP.Y = min(minP.X, p.X), min(minP.Y, p.Y)
		maxP.X, maxP.Y = max(maxP.X, p.X), max(maxP.Y, p.Y)
	}

	var sb strings.Builder
	horizontal := func(y int, d maze.Direction) {
		for x := minP.X; x <= maxP.X; x++ {
			sb.WriteByte('+')
			sb.WriteString(strings.Repeat(string(boundaryRune(m.side(maze.Position{X: x, Y: y}, d), '-')), 3))
		}
		sb.WriteString("+\n")
	}

	horizontal(minP.Y, maze.North)
	for y := minP.Y; y <= maxP.Y; y++ {
		for x := minP.X; x <= maxP.X; x++ {
			p := maze.Position{X: x, Y: y}
			sb.WriteRune(boundaryRune(m.side(p, maze.West), '|'))
			symbol := ' '
			c := m.cells[p]
			switch {
			case p == player:
				symbol = '@'
			case c == nil || !c.Seen:
				symbol = '?'
			case c.Item == codec.GoalItem:
				symbol = 'X'
			case c.Item == codec.HintItem:
				symbol = 'H'
			}
			sb.WriteByte(' ')
			sb.WriteRune(symbol)
			sb.WriteByte(' ')
		}
		sb.WriteRune(boundaryRune(m.side(maze.Position{X: maxP.X, Y: y}, maze.East), '|'))
		sb.WriteByte('\n')
		horizontal(y, maze.South)
	}
	return sb.String()
}

func (m *Map) side(p maze.Position, d maze.Direction) codec.Boundary {
	if c := m.cells[p]; c != nil {
		return c.Sides[d]
	}
	return codec.Unknown
}

func boundaryRune(b codec.Boundary, wall rune) rune {
	switch b {
	case codec.Wall:
		return wall
	case codec.Open:
		return ' '
	default:
		return '?'
	}
}
