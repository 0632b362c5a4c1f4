package teletext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gkthemac/teletextdecoder/pkg/teletext/fragment"
)

func blankRow() Row {
	var r Row
	for i := range r {
		r[i] = 0x20
	}
	return r
}

func rowFrom(bytes ...byte) Row {
	r := blankRow()
	copy(r[:], bytes)
	return r
}

func TestDecode_BlankPage(t *testing.T) {
	page := NewPacketMap()
	for r := 0; r < 25; r++ {
		page.Rows[r] = blankRow()
	}

	d := NewDecoder()
	d.Decode(page, Level1, true, true)

	for r := 0; r < 25; r++ {
		for c := 0; c < 72; c++ {
			// Main-page spaces come from the Level 1 bytes in the region 0
			// Level 1 set (12); side-panel columns carry no Level 1 data and
			// are filled with set 0 spaces.
			wantSet := 12
			if c >= 40 {
				wantSet = 0
			}
			require.Equal(t, rune(0x20), d.GetCharCode(r, c))
			require.Equal(t, wantSet, d.GetCharSet(r, c))
			require.Equal(t, 7, d.GetForeground(r, c))
			require.Equal(t, 0, d.GetBackground(r, c))
			require.Equal(t, fragment.Normal, d.GetFragment(r, c))
		}
	}
}

func TestDecode_ColourAndDoubleHeight(t *testing.T) {
	page := NewPacketMap()
	page.Rows[1] = rowFrom(0x01, 'H', 'I', 0x0d, 'L', 'O')
	page.Rows[2] = blankRow()

	d := NewDecoder()
	d.Decode(page, Level1, true, true)

	assert.Equal(t, rune(0x20), d.GetCharCode(1, 0))
	assert.Equal(t, rune('H'), d.GetCharCode(1, 1))
	assert.Equal(t, 1, d.GetForeground(1, 1))
	assert.Equal(t, rune('I'), d.GetCharCode(1, 2))
	assert.Equal(t, 1, d.GetForeground(1, 2))
	assert.Equal(t, rune(0x20), d.GetCharCode(1, 3))
	assert.Equal(t, rune('L'), d.GetCharCode(1, 4))
	assert.Equal(t, 1, d.GetForeground(1, 4))
	assert.Equal(t, fragment.DHTop, d.GetFragment(1, 4))
	assert.Equal(t, rune('O'), d.GetCharCode(1, 5))
	assert.Equal(t, fragment.DHTop, d.GetFragment(1, 5))

	assert.Equal(t, fragment.DHBottom, d.GetFragment(2, 4))
	assert.Equal(t, fragment.DHBottom, d.GetFragment(2, 5))
	assert.Equal(t, rune('L'), d.GetCharCode(2, 4))
	assert.Equal(t, rune(0x20), d.GetCharCode(2, 0))
	assert.Equal(t, fragment.Normal, d.GetFragment(2, 0))
}

func TestDecode_MosaicHold(t *testing.T) {
	page := NewPacketMap()
	page.Rows[0] = rowFrom(0x11, 0x7f, 0x1e, 0x09, 0x7f)

	d := NewDecoder()
	d.Decode(page, Level1, true, true)

	assert.Equal(t, rune(0x7f), d.GetCharCode(0, 1))
	assert.Equal(t, 24, d.GetCharSet(0, 1))
	assert.Equal(t, 1, d.GetForeground(0, 1))

	assert.Equal(t, rune(0x7f), d.GetCharCode(0, 2))
	assert.Equal(t, 24, d.GetCharSet(0, 2))

	assert.Equal(t, rune(0x7f), d.GetCharCode(0, 3))

	assert.Equal(t, rune(0x7f), d.GetCharCode(0, 4))
}

func TestDecode_X26Diacritic(t *testing.T) {
	page := NewPacketMap()
	row5 := rowFrom()
	row5[10] = 'A'
	page.Rows[5] = row5

	pkt := TripletPacket{}

	// Triplet 0: Set Active Position to row 5 (address 40+5=45, mode 0x04).
	setRow := 45 | (0x04 << 6)
	pkt[0] = &setRow

	// Triplet 1: G0 diacritic-4 character at column 10, data='A'. Column-
	// triplet mode 0x34 is stored with its 0x20 bit stripped (Split adds it
	// back since address < 40), so the 5 stored mode bits are 0x34&0x1f ==
	// 0x14. data carries the character code itself ('A'), since an X/26
	// character triplet both selects the diacritic and overwrites ch_code.
	diacriticTriplet := 10 | (0x14 << 6) | (int('A') << 11)
	pkt[1] = &diacriticTriplet

	page.Enhancements[PacketKey{Y: 26, D: 0}] = pkt

	d := NewDecoder()
	d.Decode(page, Level1p5, true, true)

	assert.Equal(t, rune('A'), d.GetCharCode(5, 10))
	assert.Equal(t, 0, d.GetCharSet(5, 10))
	assert.Equal(t, 4, d.GetCharDiacritic(5, 10))
}

func TestDecode_ActiveObjectInvocation(t *testing.T) {
	page := NewPacketMap()

	root := TripletPacket{}
	// Triplet 0: Set Active Position to row 10, column 5 (address 40+10=50).
	setPos := 50 | (0x04 << 6) | (5 << 11)
	root[0] = &setPos
	// Triplet 1: Invoke Active object. Address 40 keeps bits 3-4 == 0b01 (the
	// Local Object locality marker) and bits 0-1 == 0, both of which must
	// match the definition triplet below. data=0x43 splits into objDefD=4
	// (data>>4) and objDefT=3 (data&0x0f).
	invokeActive := 40 | (0x11 << 6) | (0x43 << 11)
	root[1] = &invokeActive
	page.Enhancements[PacketKey{Y: 26, D: 0}] = root

	obj := TripletPacket{}
	// Triplet 3: the object's own entry point, an Object Definition triplet.
	// Mode 0x15 == invoke mode 0x11 | 0x04; address 40 matches the invoke
	// triplet's locality/bank bits and has bit 3 set, satisfying the Level
	// 2.5 levelFilter test.
	objDef := 40 | (0x15 << 6) | (0x43 << 11)
	obj[3] = &objDef
	// Triplet 4: Foreground colour red (1) at the object's own origin
	// (address 0, so actC stays 0 and the cell lands at orgC+0).
	fgRed := 0 | (0x00 << 6) | (1 << 11)
	obj[4] = &fgRed
	// Triplet 5: G0 character 'X', again at address 0.
	charX := 0 | (0x09 << 6) | (int('X') << 11)
	obj[5] = &charX
	page.Enhancements[PacketKey{Y: 26, D: 4}] = obj

	d := NewDecoder()
	d.Decode(page, Level2p5, true, true)

	assert.Equal(t, rune('X'), d.GetCharCode(10, 5))
	assert.Equal(t, 1, d.GetForeground(10, 5))

	// The object's foreground triplet is a non-spacing attribute: it stays in
	// force for the rest of row 10's main page (columns 5-39) and is reset at
	// the side-panel boundary; every other cell keeps the default white.
	for r := 0; r < 25; r++ {
		for c := 0; c < 72; c++ {
			if r == 10 && c == 5 {
				continue
			}
			wantFg := 7
			if r == 10 && c > 5 && c < 40 {
				wantFg = 1
			}
			assert.Equal(t, rune(0x20), d.GetCharCode(r, c), "r=%d c=%d", r, c)
			assert.Equal(t, wantFg, d.GetForeground(r, c), "r=%d c=%d", r, c)
		}
	}
}

func TestDecode_PaletteOverride(t *testing.T) {
	page := NewPacketMap()
	for r := 0; r < 25; r++ {
		page.Rows[r] = blankRow()
	}

	// X/28/0: decodePaletteBlock's first iteration (c=16) builds
	// palette[16] = ((v1>>2)&0xf00) | ((v1>>10)&0x0f0) | (v2&0x00f). Pick v1
	// so bits 10-13 are set (giving high nibble 0xf, mid nibble 0x0) and v2
	// so its low nibble is 0xf, yielding palette[16] == 0xf0f.
	pres := TripletPacket{}
	v1 := 0x3c00
	v2 := 0x00f
	pres[1] = &v1
	pres[2] = &v2
	page.Enhancements[PacketKey{Y: 28, D: 0}] = pres

	d := NewDecoder()
	d.Decode(page, Level2p5, true, true)

	got := d.GetPalette()
	require.Len(t, got, 96)
	assert.Equal(t, byte(0xff), got[48])
	assert.Equal(t, byte(0x00), got[49])
	assert.Equal(t, byte(0xff), got[50])
}

func TestDecode_Idempotent(t *testing.T) {
	page := NewPacketMap()
	page.Rows[1] = rowFrom(0x01, 'H', 'I', 0x0d, 'L', 'O')

	d := NewDecoder()
	d.Decode(page, Level1, true, true)
	snap1 := d.GetPalette()
	ch1 := d.GetCharCode(1, 4)

	d.Decode(page, Level1, true, true)
	snap2 := d.GetPalette()
	ch2 := d.GetCharCode(1, 4)

	assert.Equal(t, snap1, snap2)
	assert.Equal(t, ch1, ch2)
}

func TestDecode_DoubleHeightOnLastRowHasNoCompanion(t *testing.T) {
	page := NewPacketMap()
	page.Rows[24] = rowFrom(0x0d, 'X')

	d := NewDecoder()
	d.Decode(page, Level1, true, true)

	// Row 24 has no row below it for a DH_BOTTOM companion, so the grid
	// builder stamps no enlargement there and the cell stays NORMAL.
	assert.Equal(t, fragment.Normal, d.GetFragment(24, 1))
}

func TestDecode_EnlargeCharClampsAtGridEdges(t *testing.T) {
	var cells [25][72]Cell
	for r := range cells {
		for c := range cells[r] {
			cells[r][c] = defaultCell()
		}
	}
	cells[24][5].Attr.Display.DHeight = true
	cells[10][39].Attr.Display.DWidth = true

	covered := make(map[cellKey]bool)
	enlargeChar(&cells, 24, 5, covered)
	enlargeChar(&cells, 10, 39, covered)

	assert.Equal(t, fragment.Normal, cells[24][5].Frag)
	assert.Equal(t, fragment.Normal, cells[10][39].Frag)
}

func TestDecode_FlashBookkeeping(t *testing.T) {
	page := NewPacketMap()
	d := NewDecoder()
	d.Decode(page, Level1, true, true)
	assert.Equal(t, 0, d.GetFlashPresent())

	page2 := NewPacketMap()
	page2.Rows[0] = rowFrom(0x08, 'F')
	d2 := NewDecoder()
	d2.Decode(page2, Level1, true, true)
	assert.NotEqual(t, 0, d2.GetFlashPresent()&1)
}
