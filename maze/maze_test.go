package maze

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Dimensions(t *testing.T) {
	for _, dims := range [][2]int{{0, 5}, {5, 0}, {1, 1}, {-1, 3}} {
		_, err := NewSeeded(dims[0], dims[1], 1)
		assert.ErrorIs(t, err, ErrNotBigEnoughDimension, "%v", dims)
	}

	m, err := NewSeeded(1, 2, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []Position{{X: 0, Y: 0}, {X: 0, Y: 1}}, []Position{m.Start, m.Exit})
}

func TestNew_RandomStart(t *testing.T) {
	starts := make(map[Position]int)
	for seed := uint64(1); seed <= 200; seed++ {
		m, err := NewSeeded(7, 7, seed)
		require.NoError(t, err)
		require.True(t, m.InBound(m.Start.X, m.Start.Y), "seed %d", seed)
		starts[m.Start]++
	}
	assert.Greater(t, len(starts), 10, "start cells: %v", starts)

	a, err := NewSeeded(7, 7, 99)
	require.NoError(t, err)
	b, err := NewSeeded(7, 7, 99)
	require.NoError(t, err)
	assert.Equal(t, a.Start, b.Start)
}

func TestNew_Invariants(t *testing.T) {
	sizes := [][2]int{{2, 1}, {1, 7}, {3, 3}, {5, 5}, {8, 4}, {12, 9}}
	for seed := uint64(0); seed < 20; seed++ {
		for _, s := range sizes {
			m, err := NewSeeded(s[0], s[1], seed)
			require.NoError(t, err)
			assertValidMaze(t, m)
		}
	}
}

func assertValidMaze(t *testing.T, m *Maze) {
	t.Helper()

	// Shared walls agree on both sides.
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			p := Position{X: x, Y: y}
			for _, d := range Directions {
				n := p.Step(d)
				if !m.InBound(n.X, n.Y) {
					continue
				}
				assert.Equal(t, m.Cell(p).Wall(d), m.Cell(n).Wall(d.Opposite()), "%v %v", p, d)
			}
			assert.False(t, m.Cells[y][x].visited)
		}
	}

	// Every cell is reachable from the start, and carving a spanning tree leaves
	// exactly w*h-1 open passages.
	dist := m.Distances(m.Start)
	openings := 0
	maxDist := 0
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			require.GreaterOrEqual(t, dist[y][x], 0, "(%d,%d) unreachable", x, y)
			maxDist = max(maxDist, dist[y][x])
			if m.CanMove(Position{X: x, Y: y}, East) {
				openings++
			}
			if m.CanMove(Position{X: x, Y: y}, South) {
				openings++
			}
		}
	}
	assert.Equal(t, m.Width*m.Height-1, openings)

	// A single exit at maximum distance from the start.
	exits := 0
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.Cells[y][x].HasExit {
				exits++
				assert.Equal(t, Position{X: x, Y: y}, m.Exit)
			}
		}
	}
	assert.Equal(t, 1, exits)
	assert.Equal(t, maxDist, dist[m.Exit.Y][m.Exit.X])
	assert.NotEqual(t, m.Start, m.Exit)

	hints := m.Hints()
	assert.Len(t, hints, HintCount(m.Width, m.Height))
	for _, h := range hints {
		assert.NotEqual(t, m.Exit, h)
	}
}

func TestNew_Deterministic(t *testing.T) {
	a, err := New(9, 7, rand.New(rand.NewPCG(42, 4242)))
	require.NoError(t, err)
	b, err := New(9, 7, rand.New(rand.NewPCG(42, 4242)))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := NewSeeded(9, 7, 43)
	require.NoError(t, err)
	d, err := NewSeeded(9, 7, 43)
	require.NoError(t, err)
	assert.Equal(t, c.Render(nil), d.Render(nil))
}

func TestHintCount(t *testing.T) {
	assert.Equal(t, 1, HintCount(1, 2))
	assert.Equal(t, 1, HintCount(3, 3))
	assert.Equal(t, 2, HintCount(5, 5))
	assert.Equal(t, 2, HintCount(4, 10))
}

func TestCanMove_Borders(t *testing.T) {
	m, err := NewSeeded(4, 4, 3)
	require.NoError(t, err)
	for x := 0; x < m.Width; x++ {
		assert.False(t, m.CanMove(Position{X: x, Y: 0}, North))
		assert.False(t, m.CanMove(Position{X: x, Y: m.Height - 1}, South))
	}
	for y := 0; y < m.Height; y++ {
		assert.False(t, m.CanMove(Position{X: 0, Y: y}, West))
		assert.False(t, m.CanMove(Position{X: m.Width - 1, Y: y}, East))
	}
	assert.False(t, m.CanMove(Position{X: -1, Y: 0}, East))
	assert.Nil(t, m.Cell(Position{X: 4, Y: 0}))
}

func TestDirection_Rotate(t *testing.T) {
	assert.Equal(t, East, North.Rotate(1))
	assert.Equal(t, West, North.Rotate(-1))
	assert.Equal(t, South, West.Opposite())
	for _, d := range Directions {
		assert.Equal(t, d, d.Rotate(4))
		assert.Equal(t, d, d.Rotate(1).Rotate(1).Rotate(1).Rotate(1))
	}
	assert.Equal(t, Position{X: 2, Y: 2}, Position{X: 2, Y: 3}.Step(North))
}

func TestRender(t *testing.T) {
	m := &Maze{Width: 2, Height: 1, Cells: [][]Cell{{
		{NorthWall: true, SouthWall: true, WestWall: true},
		{NorthWall: true, SouthWall: true, EastWall: true, HasExit: true},
	}}}
	got := m.Render(map[Position]rune{{X: 0, Y: 0}: '^'})
	want := "  +---+---+\n" +
		"0 | ^   X |\n" +
		"  +---+---+\n"
	assert.Equal(t, want, got)

	big, err := NewSeeded(6, 3, 9)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(big.Render(nil), "X"))
}
