package client

import (
	"github.com/beka-birhanu/vinom-labyrinth/codec"
	"github.com/beka-birhanu/vinom-labyrinth/protocol"
)

// WallFollower keeps its right hand on the wall. It only looks at the
// passages around the center cell of the latest frame.
type WallFollower struct{}

// Next tries Right, Front, Left and finally turns Back.
func (WallFollower) Next(frame codec.RadarFrame) protocol.RelativeDirection {
	switch {
	case frame.Vertical[codec.RightPassage] == codec.Open:
		return protocol.Right
	case frame.Horizontal[codec.FrontPassage] == codec.Open:
		return protocol.Front
	case frame.Vertical[codec.LeftPassage] == codec.Open:
		return protocol.Left
	default:
		return protocol.Back
	}
}
