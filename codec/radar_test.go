package codec

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repeat(b Boundary) []Boundary {
	out := make([]Boundary, PassageCount)
	for i := range out {
		out[i] = b
	}
	return out
}

func TestParsePassages_Uniform(t *testing.T) {
	assert.Equal(t, repeat(Unknown), ParsePassages([]byte{0x00, 0x00, 0x00}, 12))
	assert.Equal(t, repeat(Open), ParsePassages([]byte{0x55, 0x55, 0x55}, 12))
	assert.Equal(t, repeat(Wall), ParsePassages([]byte{0xAA, 0xAA, 0xAA}, 12))
	assert.Equal(t, repeat(Invalid), ParsePassages([]byte{0xFF, 0xFF, 0xFF}, 12))
	assert.Empty(t, ParsePassages(nil, 0))
}

func TestParsePassages_ByteOrder(t *testing.T) {
	// Assembled as 10010000 00010010 01001000.
	got := ParsePassages([]byte{0b01001000, 0b00010010, 0b10010000}, 12)
	want := []Boundary{
		Wall, Open, Unknown, Unknown,
		Unknown, Open, Unknown, Wall,
		Open, Unknown, Wall, Unknown,
	}
	assert.Equal(t, want, got)

	// Assembled as 11001100 01100110 00011011.
	got = ParsePassages([]byte{0b00011011, 0b01100110, 0b11001100}, 12)
	want = []Boundary{
		Invalid, Unknown, Invalid, Unknown,
		Open, Wall, Open, Wall,
		Unknown, Open, Wall, Invalid,
	}
	assert.Equal(t, want, got)
}

func TestUnmarshalRadar_Length(t *testing.T) {
	for _, n := range []int{0, 10, 12} {
		_, err := UnmarshalRadar(make([]byte, n))
		assert.ErrorIs(t, err, ErrInvalidFrameLength)
	}
}

func TestDecodeRadar_SymbolErrors(t *testing.T) {
	_, err := DecodeRadar("a")
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = DecodeRadar(Encode(make([]byte, 9)))
	assert.ErrorIs(t, err, ErrInvalidFrameLength)
}

func TestMarshalRadar_CellLayout(t *testing.T) {
	var f RadarFrame
	for i := range f.Cells {
		f.Cells[i] = UndefinedCell
	}
	f.Cells[0] = Cell{Item: GoalItem, Entity: Monster}
	f.Cells[4] = Cell{Item: HintItem, Entity: Ally}

	data := MarshalRadar(f)
	require.Len(t, data, FrameSize)
	// Cell 0 is the top nibble, cell 8 the nibble right above the 4 padding bits.
	assert.Equal(t, byte(0xBF), data[6])
	assert.Equal(t, byte(0xFF), data[7])
	assert.Equal(t, byte(0x5F), data[8])
	assert.Equal(t, byte(0xFF), data[9])
	assert.Equal(t, byte(0xF0), data[10])
}

func randomFrame(rng *rand.Rand) RadarFrame {
	var f RadarFrame
	for i := 0; i < PassageCount; i++ {
		f.Horizontal[i] = Boundary(rng.UintN(3))
		f.Vertical[i] = Boundary(rng.UintN(3))
	}
	for i := range f.Cells {
		if rng.UintN(5) == 0 {
			f.Cells[i] = UndefinedCell
			continue
		}
		f.Cells[i] = Cell{Item: Item(rng.UintN(3)), Entity: Entity(rng.UintN(4))}
	}
	return f
}

func TestRadar_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 500; i++ {
		f := randomFrame(rng)
		got, err := DecodeRadar(EncodeRadar(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
		assert.NoError(t, got.Validate())
	}
}

func TestRadarFrame_Validate(t *testing.T) {
	var f RadarFrame
	assert.NoError(t, f.Validate())
	f.Vertical[11] = Invalid
	assert.ErrorIs(t, f.Validate(), ErrCorruptFrame)
}

func TestRadarFrame_String(t *testing.T) {
	h := []Boundary{
		Unknown, Open, Unknown,
		Wall, Open, Unknown,
		Open, Wall, Unknown,
		Wall, Unknown, Unknown,
	}
	v := []Boundary{
		Unknown, Wall, Wall, Unknown,
		Wall, Open, Wall, Unknown,
		Wall, Unknown, Unknown, Unknown,
	}
	undefined := []bool{true, false, true, false, false, true, false, true, true}

	var f RadarFrame
	copy(f.Horizontal[:], h)
	copy(f.Vertical[:], v)
	for i, u := range undefined {
		f.Cells[i] = Cell{Undefined: u}
	}

	want := "##• •##\n" +
		"##| |##\n" +
		"•-• •##\n" +
		"|   |##\n" +
		"• •-•##\n" +
		"| #####\n" +
		"•-•####\n"
	assert.Equal(t, want, f.String())
}
