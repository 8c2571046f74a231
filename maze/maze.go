package maze

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotBigEnoughDimension is returned when a maze cannot hold an exit apart from its start.
var ErrNotBigEnoughDimension = errors.New("dimension is not big enough")

// Direction is an absolute compass direction. Values are in clockwise order.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// Directions lists the four directions in clockwise order.
var Directions = [4]Direction{North, East, South, West}

func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Rotate turns d clockwise by quarter turns. Negative values turn counter-clockwise.
func (d Direction) Rotate(quarters int) Direction {
	return Direction(((int(d)+quarters)%4 + 4) % 4)
}

// Opposite returns the direction facing away from d.
func (d Direction) Opposite() Direction {
	return d.Rotate(2)
}

// Delta returns the unit step for d; y grows towards the south.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	default:
		return -1, 0
	}
}

// Position is a cell coordinate; X is the column and Y the row.
type Position struct {
	X, Y int
}

// Step returns the neighbouring position in direction d.
func (p Position) Step(d Direction) Position {
	dx, dy := d.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Offset moves forward steps along facing and right steps along facing turned clockwise.
func (p Position) Offset(facing Direction, forward, right int) Position {
	fx, fy := facing.Delta()
	rx, ry := facing.Rotate(1).Delta()
	return Position{X: p.X + forward*fx + right*rx, Y: p.Y + forward*fy + right*ry}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Cell is a single maze cell.
type Cell struct {
	NorthWall bool
	EastWall  bool
	SouthWall bool
	WestWall  bool
	HasHint   bool
	HasExit   bool

	visited bool
}

// Wall reports whether the wall on side d is present.
func (c *Cell) Wall(d Direction) bool {
	switch d {
	case North:
		return c.NorthWall
	case East:
		return c.EastWall
	case South:
		return c.SouthWall
	default:
		return c.WestWall
	}
}

func (c *Cell) setWall(d Direction, v bool) {
	switch d {
	case North:
		c.NorthWall = v
	case East:
		c.EastWall = v
	case South:
		c.SouthWall = v
	default:
		c.WestWall = v
	}
}

func newWalledCell() Cell {
	return Cell{NorthWall: true, EastWall: true, SouthWall: true, WestWall: true}
}

// Maze is a rectangular labyrinth. Cells are indexed [y][x].
type Maze struct {
	Width  int
	Height int
	Cells  [][]Cell
	Start  Position
	Exit   Position
}

// InBound reports whether (x, y) lies inside the maze.
func (m *Maze) InBound(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// Cell returns the cell at p, or nil when p is outside the maze.
func (m *Maze) Cell(p Position) *Cell {
	if !m.InBound(p.X, p.Y) {
		return nil
	}
	return &m.Cells[p.Y][p.X]
}

// CanMove reports whether a player at p can step in direction d.
func (m *Maze) CanMove(p Position, d Direction) bool {
	c := m.Cell(p)
	if c == nil || c.Wall(d) {
		return false
	}
	n := p.Step(d)
	return m.InBound(n.X, n.Y)
}

// Distances runs a breadth-first search from p over open passages. Unreached cells hold -1.
func (m *Maze) Distances(p Position) [][]int {
	dist, _ := m.bfs(p)
	return dist
}

// bfs returns the distance grid and the last visited cell at maximum distance.
func (m *Maze) bfs(from Position) ([][]int, Position) {
	dist := make([][]int, m.Height)
	for y := range dist {
		dist[y] = make([]int, m.Width)
		for x := range dist[y] {
			dist[y][x] = -1
		}
	}

	farthest := from
	maxDistance := 0
	dist[from.Y][from.X] = 0
	queue := []Position{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		d := dist[cur.Y][cur.X]
		if d >= maxDistance {
			maxDistance = d
			farthest = cur
		}
		for _, dir := range Directions {
			if !m.CanMove(cur, dir) {
				continue
			}
			n := cur.Step(dir)
			if dist[n.Y][n.X] >= 0 {
				continue
			}
			dist[n.Y][n.X] = d + 1
			queue = append(queue, n)
		}
	}
	return dist, farthest
}

// Hints returns the positions of every hint cell in row-major order.
func (m *Maze) Hints() []Position {
	var out []Position
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.Cells[y][x].HasHint {
				out = append(out, Position{X: x, Y: y})
			}
		}
	}
	return out
}

// Render draws the maze as ASCII art. Marks overlay single characters on cells;
// the exit shows as 'X' and hints as 'H' unless a mark covers them.
func (m *Maze) Render(marks map[Position]rune) string {
	var sb strings.Builder
	border := func(y int, north bool) {
		sb.WriteString("  ")
		for x := 0; x < m.Width; x++ {
			sb.WriteByte('+')
			wall := m.Cells[y][x].SouthWall
			if north {
				wall = m.Cells[y][x].NorthWall
			}
			if wall {
				sb.WriteString("---")
			} else {
				sb.WriteString("   ")
			}
		}
		sb.WriteString("+\n")
	}

	border(0, true)
	for y := 0; y < m.Height; y++ {
		fmt.Fprintf(&sb, "%-2d", y%100)
		for x := 0; x < m.Width; x++ {
			c := m.Cells[y][x]
			if c.WestWall {
				sb.WriteByte('|')
			} else {
				sb.WriteByte(' ')
			}
			symbol := ' '
			switch {
			case marks[Position{X: x, Y: y}] != 0:
				symbol = marks[Position{X: x, Y: y}]
			case c.HasExit:
				symbol = 'X'
			case c.HasHint:
				symbol = 'H'
			}
			sb.WriteByte(' ')
			sb.WriteRune(symbol)
			sb.WriteByte(' ')
		}
		if m.Cells[y][m.Width-1].EastWall {
			sb.WriteString("|\n")
		} else {
			sb.WriteString(" \n")
		}
		border(y, false)
	}
	return sb.String()
}
