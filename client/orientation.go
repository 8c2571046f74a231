package client

import (
	"github.com/beka-birhanu/vinom-labyrinth/maze"
	"github.com/beka-birhanu/vinom-labyrinth/protocol"
)

// Orientation tracks the map-frame direction the player faces.
type Orientation struct {
	facing maze.Direction
}

// NewOrientation faces map north.
func NewOrientation() *Orientation {
	return &Orientation{facing: maze.North}
}

func (o *Orientation) Facing() maze.Direction {
	return o.facing
}

// Apply turns the way the server does before it moves the player.
func (o *Orientation) Apply(a protocol.RelativeDirection) {
	o.facing = o.facing.Rotate(a.Quarters())
}

// ActionFor returns the relative move that ends up heading in d.
func (o *Orientation) ActionFor(d maze.Direction) protocol.RelativeDirection {
	switch (int(d) - int(o.facing) + 4) % 4 {
	case 1:
		return protocol.Right
	case 2:
		return protocol.Back
	case 3:
		return protocol.Left
	default:
		return protocol.Front
	}
}
