package teletext

import "github.com/gkthemac/teletextdecoder/pkg/teletext/fragment"

// GetCharCode returns the character code at (r, c), as a rune in its
// originating font bank's own code space (0x20-0xff); it is not a Unicode
// code point on its own, GetCharSet identifies which bank to render it from.
func (d *Decoder) GetCharCode(r, c int) rune {
	return rune(d.cells[r][c].Ch.Code)
}

// GetCharSet returns the font bank id of the character at (r, c).
func (d *Decoder) GetCharSet(r, c int) int {
	return d.cells[r][c].Ch.Set
}

// GetCharDiacritic returns the G0 diacritic mark id (0-15) applied to the
// character at (r, c); 0 means no diacritic.
func (d *Decoder) GetCharDiacritic(r, c int) int {
	return d.cells[r][c].Ch.Diacritic
}

// GetForeground returns the resolved palette index (0-31) of the foreground
// colour at (r, c), substituting the row/page background through
// transparency when index 8 was selected.
func (d *Decoder) GetForeground(r, c int) int {
	result := d.cells[r][c].Attr.Foreground
	if result == 8 {
		return d.transparent(r, c)
	}
	return result
}

// GetBackground returns the resolved palette index (0-31) of the background
// colour at (r, c), substituting through transparency when index 8 was
// selected.
func (d *Decoder) GetBackground(r, c int) int {
	result := d.cells[r][c].Attr.Background
	if result == 8 {
		return d.transparent(r, c)
	}
	return result
}

// GetFlashForeground returns the resolved palette index the cell flashes to:
// the foreground index with bit 3 toggled, again substituting through
// transparency when that toggled index is 8.
func (d *Decoder) GetFlashForeground(r, c int) int {
	result := d.cells[r][c].Attr.Foreground ^ 8
	if result == 8 {
		return d.transparent(r, c)
	}
	return result
}

// GetFragment returns which quadrant/half of an enlarged character (r, c)
// holds, or fragment.Normal for an unenlarged cell.
func (d *Decoder) GetFragment(r, c int) fragment.Fragment {
	return d.cells[r][c].Frag
}

// GetFlashMode returns the flash mode at (r, c): 0 steady, 1 normal, 2
// invert, 3 adjacent-CLUT.
func (d *Decoder) GetFlashMode(r, c int) int {
	return d.cells[r][c].Attr.Flash.Mode
}

// GetFlashRatePhase returns the flash rate/phase code (0-5) at (r, c).
func (d *Decoder) GetFlashRatePhase(r, c int) int {
	return d.cells[r][c].Attr.Flash.RatePhase
}

// GetFlashPhaseShown returns the currently displayed flash phase (0-3) at
// (r, c).
func (d *Decoder) GetFlashPhaseShown(r, c int) int {
	return d.cells[r][c].Attr.Flash.PhaseShown
}

// GetConceal reports whether (r, c) is concealed (revealed on demand).
func (d *Decoder) GetConceal(r, c int) bool {
	return d.cells[r][c].Attr.Display.Conceal
}

// GetInvert reports whether (r, c) has the invert display attribute set.
func (d *Decoder) GetInvert(r, c int) bool {
	return d.cells[r][c].Attr.Display.Invert
}

// GetUndSep reports whether (r, c) has the underline/separated display
// attribute set (its meaning depends on whether the cell holds an
// alphanumeric or mosaic character).
func (d *Decoder) GetUndSep(r, c int) bool {
	return d.cells[r][c].Attr.Display.UndSep
}

// GetPalette returns the 32-entry CLUT as 96 bytes of RGB triples, each
// 4-bit channel expanded to 8 bits by nibble doubling.
func (d *Decoder) GetPalette() []byte {
	result := make([]byte, 0, 96)
	for i := 0; i < 32; i++ {
		r := (d.palette[i] & 0xf00) >> 8
		g := (d.palette[i] & 0x0f0) >> 4
		b := d.palette[i] & 0x00f
		result = append(result, byte((r<<4)|r), byte((g<<4)|g), byte((b<<4)|b))
	}
	return result
}

// GetFullScreen returns the page's full-screen colour index.
func (d *Decoder) GetFullScreen() int {
	return d.fullScreen
}

// GetFullRow returns the resolved full-row colour index for row r.
func (d *Decoder) GetFullRow(r int) int {
	return d.fullRow[r]
}

// GetLeftSidePanel returns the width, in columns, of the left side panel.
func (d *Decoder) GetLeftSidePanel() int {
	return d.leftSidePanel
}

// GetRightSidePanel returns the width, in columns, of the right side panel.
func (d *Decoder) GetRightSidePanel() int {
	return d.rightSidePanel
}
