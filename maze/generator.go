package maze

import (
	"math/rand/v2"
)

// New generates a width x height maze with a randomized recursive backtracker
// carved from a random start cell.
// The result is fully determined by rng.
func New(width, height int, rng *rand.Rand) (*Maze, error) {
	if width < 1 || height < 1 || width*height < 2 {
		return nil, ErrNotBigEnoughDimension
	}

	m := &Maze{Width: width, Height: height}
	m.Cells = make([][]Cell, height)
	for y := range m.Cells {
		m.Cells[y] = make([]Cell, width)
		for x := range m.Cells[y] {
			m.Cells[y][x] = newWalledCell()
		}
	}

	m.Start = Position{X: rng.IntN(width), Y: rng.IntN(height)}
	m.carve(m.Start, rng)
	m.clearVisited()

	_, m.Exit = m.bfs(m.Start)
	m.Cells[m.Exit.Y][m.Exit.X].HasExit = true
	m.placeHints(rng)

	return m, nil
}

// NewSeeded builds a maze from a PCG source seeded with seed.
func NewSeeded(width, height int, seed uint64) (*Maze, error) {
	return New(width, height, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Generate builds a maze from a random seed.
func Generate(width, height int) (*Maze, error) {
	return NewSeeded(width, height, rand.Uint64())
}

func (m *Maze) carve(from Position, rng *rand.Rand) {
	stack := []Position{from}
	m.Cells[from.Y][from.X].visited = true

	for len(stack) > 0 {
		cur := stack[len(stack)-1]

		var options []Direction
		for _, d := range Directions {
			n := cur.Step(d)
			if m.InBound(n.X, n.Y) && !m.Cells[n.Y][n.X].visited {
				options = append(options, d)
			}
		}
		if len(options) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		d := options[rng.IntN(len(options))]
		n := cur.Step(d)
		m.Cells[cur.Y][cur.X].setWall(d, false)
		m.Cells[n.Y][n.X].setWall(d.Opposite(), false)
		m.Cells[n.Y][n.X].visited = true
		stack = append(stack, n)
	}
}

func (m *Maze) clearVisited() {
	for y := range m.Cells {
		for x := range m.Cells[y] {
			m.Cells[y][x].visited = false
		}
	}
}

// HintCount is the number of hint cells placed in a width x height maze.
func HintCount(width, height int) int {
	return max(1, min(width, height)/2)
}

func (m *Maze) placeHints(rng *rand.Rand) {
	candidates := make([]Position, 0, m.Width*m.Height-1)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			p := Position{X: x, Y: y}
			if p != m.Exit {
				candidates = append(candidates, p)
			}
		}
	}
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	n := min(HintCount(m.Width, m.Height), len(candidates))
	for _, p := range candidates[:n] {
		m.Cells[p.Y][p.X].HasHint = true
	}
}
