package codec

import (
	"errors"
	"fmt"
	"strings"
)

// Radar layout constants.
const (
	PassageCount = 12 // Horizontal or vertical passages per frame.
	CellCount    = 9  // Cells in the 3x3 window.
	FrameSize    = 11 // Encoded frame length in bytes.

	undefinedNibble = 0xF
)

// Radar frame errors.
var (
	ErrInvalidFrameLength = errors.New("radar frame must be exactly 11 bytes")
	ErrCorruptFrame       = errors.New("radar frame carries invalid passages")
)

// Boundary is the state of a passage. Its numeric value is the 2-bit wire code.
type Boundary uint8

const (
	Unknown Boundary = iota
	Open
	Wall
	Invalid
)

func (b Boundary) String() string {
	switch b {
	case Unknown:
		return "Unknown"
	case Open:
		return "Open"
	case Wall:
		return "Wall"
	default:
		return "Invalid"
	}
}

// Item found in a cell.
type Item uint8

const (
	NoItem Item = iota
	HintItem
	GoalItem
)

// Entity standing in a cell.
type Entity uint8

const (
	NoEntity Entity = iota
	Ally
	Enemy
	Monster
)

// Cell is the content of one radar cell. Undefined cells lie outside the maze.
type Cell struct {
	Undefined bool
	Item      Item
	Entity    Entity
}

// UndefinedCell is the content reported for positions outside the maze.
var UndefinedCell = Cell{Undefined: true}

func (c Cell) nibble() uint64 {
	if c.Undefined {
		return undefinedNibble
	}
	return uint64(c.Item&0b11)<<2 | uint64(c.Entity&0b11)
}

func cellFromNibble(v uint64) Cell {
	if v == undefinedNibble {
		return UndefinedCell
	}
	item := Item(v >> 2 & 0b11)
	if item > GoalItem {
		item = NoItem
	}
	return Cell{Item: item, Entity: Entity(v & 0b11)}
}

// RadarFrame is the player-relative 3x3 view. Horizontal passages are laid out as
// 4 lines of 3 (index line*3+col), vertical passages as 3 rows of 4 (row*4+line).
// Cells are row-major; row 0 is in front of the player and index 4 is the player.
type RadarFrame struct {
	Horizontal [PassageCount]Boundary
	Vertical   [PassageCount]Boundary
	Cells      [CellCount]Cell
}

// Passage indices around the center cell.
const (
	FrontPassage = 4 // Horizontal.
	BackPassage  = 7 // Horizontal.
	LeftPassage  = 5 // Vertical.
	RightPassage = 6 // Vertical.
)

// Validate reports ErrCorruptFrame when any passage decoded as Invalid.
func (f RadarFrame) Validate() error {
	for i := 0; i < PassageCount; i++ {
		if f.Horizontal[i] == Invalid || f.Vertical[i] == Invalid {
			return ErrCorruptFrame
		}
	}
	return nil
}

// MarshalRadar packs f into its 11-byte binary form.
func MarshalRadar(f RadarFrame) []byte {
	data := make([]byte, FrameSize)
	putPassages(data[0:3], f.Horizontal)
	putPassages(data[3:6], f.Vertical)

	var bits uint64
	for i, c := range f.Cells {
		bits |= c.nibble() << ((CellCount-1-i)*4 + 4)
	}
	for i := 0; i < 5; i++ {
		data[6+i] = byte(bits >> (32 - 8*i))
	}
	return data
}

// UnmarshalRadar unpacks the 11-byte binary form.
func UnmarshalRadar(data []byte) (RadarFrame, error) {
	var f RadarFrame
	if len(data) != FrameSize {
		return f, fmt.Errorf("%w: got %d", ErrInvalidFrameLength, len(data))
	}
	copy(f.Horizontal[:], ParsePassages(data[0:3], PassageCount))
	copy(f.Vertical[:], ParsePassages(data[3:6], PassageCount))

	var bits uint64
	for _, b := range data[6:11] {
		bits = bits<<8 | uint64(b)
	}
	bits >>= 4
	for i := 0; i < CellCount; i++ {
		f.Cells[i] = cellFromNibble(bits >> ((CellCount - 1 - i) * 4) & 0xF)
	}
	return f, nil
}

// ParsePassages extracts n 2-bit boundaries from the 3 bytes b, assembled as
// (b[2]<<16)|(b[1]<<8)|b[0] with boundary 0 in the most significant pair.
func ParsePassages(b []byte, n int) []Boundary {
	if len(b) < 3 || n <= 0 {
		return nil
	}
	bits := uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0])
	out := make([]Boundary, n)
	for i := 0; i < n; i++ {
		out[i] = Boundary(bits >> ((n - 1 - i) * 2) & 0b11)
	}
	return out
}

func putPassages(dst []byte, passages [PassageCount]Boundary) {
	var bits uint32
	for i, p := range passages {
		bits |= uint32(p&0b11) << ((PassageCount - 1 - i) * 2)
	}
	dst[0] = byte(bits)
	dst[1] = byte(bits >> 8)
	dst[2] = byte(bits >> 16)
}

// EncodeRadar packs f and encodes it with the symbol codec.
func EncodeRadar(f RadarFrame) string {
	return Encode(MarshalRadar(f))
}

// DecodeRadar reverses EncodeRadar.
func DecodeRadar(s string) (RadarFrame, error) {
	data, err := Decode(s)
	if err != nil {
		return RadarFrame{}, err
	}
	return UnmarshalRadar(data)
}

// String draws the frame as a 7x7 picture: '#' unknown, '-' and '|' walls,
// '•' joints next to a known horizontal passage.
func (f RadarFrame) String() string {
	var sb strings.Builder
	for i := 0; i < 7; i++ {
		line := i / 2
		for j := 0; j < 7; j++ {
			if i%2 == 0 {
				if j%2 == 1 {
					sb.WriteRune(horizontalSymbol(f.Horizontal[line*3+j/2]))
					continue
				}
				before := j > 0 && f.Horizontal[line*3+(j-1)/2] != Unknown
				after := j < 6 && f.Horizontal[line*3+j/2] != Unknown
				if before || after {
					sb.WriteRune('•')
				} else {
					sb.WriteRune('#')
				}
				continue
			}
			if j%2 == 0 {
				sb.WriteRune(verticalSymbol(f.Vertical[line*4+j/2]))
			} else if f.Cells[line*3+j/2].Undefined {
				sb.WriteRune('#')
			} else {
				sb.WriteRune(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func horizontalSymbol(b Boundary) rune {
	switch b {
	case Open:
		return ' '
	case Wall:
		return '-'
	default:
		return '#'
	}
}

func verticalSymbol(b Boundary) rune {
	switch b {
	case Open:
		return ' '
	case Wall:
		return '|'
	default:
		return '#'
	}
}
