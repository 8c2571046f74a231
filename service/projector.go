package service

import (
	"github.com/beka-birhanu/vinom-labyrinth/codec"
	"github.com/beka-birhanu/vinom-labyrinth/maze"
)

// Frame-relative sides, clockwise from the front.
const (
	sideUp = iota
	sideRight
	sideDown
	sideLeft
)

// frameCellPosition maps radar cell (row, col) to an absolute maze position.
// Row 0 lies in front of the player and column 0 to its left.
func frameCellPosition(pos maze.Position, facing maze.Direction, row, col int) maze.Position {
	return pos.Offset(facing, 1-row, col-1)
}

// ProjectView builds the radar frame seen by a player standing at pos and facing facing.
// occupant reports the entity standing on a position; it may be nil.
func ProjectView(m *maze.Maze, pos maze.Position, facing maze.Direction, occupant func(maze.Position) codec.Entity) codec.RadarFrame {
	var f codec.RadarFrame
	var window [3][3]*maze.Cell

	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			p := frameCellPosition(pos, facing, r, c)
			cell := m.Cell(p)
			window[r][c] = cell
			if cell == nil {
				f.Cells[r*3+c] = codec.UndefinedCell
				continue
			}

			var content codec.Cell
			switch {
			case cell.HasExit:
				content.Item = codec.GoalItem
			case cell.HasHint:
				content.Item = codec.HintItem
			}
			if occupant != nil {
				content.Entity = occupant(p)
			}
			f.Cells[r*3+c] = content
		}
	}

	side := func(cell *maze.Cell, s int) codec.Boundary {
		if cell.Wall(facing.Rotate(s)) {
			return codec.Wall
		}
		return codec.Open
	}

	// Horizontal line l separates row l-1 (its down side) from row l (its up side).
	for l := 0; l < 4; l++ {
		for c := 0; c < 3; c++ {
			b := codec.Unknown
			switch {
			case l >= 1 && window[l-1][c] != nil:
				b = side(window[l-1][c], sideDown)
			case l <= 2 && window[l][c] != nil:
				b = side(window[l][c], sideUp)
			}
			f.Horizontal[l*3+c] = b
		}
	}

	// Vertical line l separates column l-1 (its right side) from column l (its left side).
	for r := 0; r < 3; r++ {
		for l := 0; l < 4; l++ {
			b := codec.Unknown
			switch {
			case l >= 1 && window[r][l-1] != nil:
				b = side(window[r][l-1], sideRight)
			case l <= 2 && window[r][l] != nil:
				b = side(window[r][l], sideLeft)
			}
			f.Vertical[r*4+l] = b
		}
	}

	return f
}
