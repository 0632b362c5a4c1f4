package teletext

import "github.com/gkthemac/teletextdecoder/pkg/teletext/fragment"

// transparent resolves palette index 8 (the transparency sentinel) at (r, c)
// to the row colour that should show through, or 8 itself if that row
// colour is also transparent.
//
// The page is considered "declared transparent" when StatusBits has either
// of its low two bits set; StatusBits is never derived from page content by
// Decode (see the field's doc comment), so in practice this XORs box_win
// against false and only box_win drives the result.
func (d *Decoder) transparent(r, c int) int {
	transparentPage := (d.StatusBits & 0x03) != 0x00

	if d.cells[r][c].Attr.Display.BoxWin != transparentPage {
		return 8
	}

	rowColour := d.fullRow[r]
	switch d.cells[r][c].Frag {
	case fragment.DHBottom, fragment.DSBottomLeft, fragment.DSBottomRight:
		rowColour = d.fullRow[r-1]
	}

	if rowColour == 8 {
		return 8
	}
	return rowColour
}
