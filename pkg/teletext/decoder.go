package teletext

import "github.com/gkthemac/teletextdecoder/pkg/teletext/fragment"

// Decoder holds the 25x72 cell grid and page-level state produced by a call
// to Decode. A Decoder may be reused across pages; Decode clears it first.
type Decoder struct {
	cells   [25][72]Cell
	palette [32]uint16
	level   Level

	actInvoc []*Invocation
	adpInvoc []*Invocation
	pasInvoc []*Invocation

	fullScreen     int
	fullRow        [25]int
	leftSidePanel  int
	rightSidePanel int
	flashPresent   int

	// StatusBits mirrors the page status word's two transparency bits
	// (C14 DER/C11-C13 erase-page flags, depending on the subtitle
	// vs. open transmission profile the caller is decoding). Decode never
	// assigns it; the caller sets it before calling Decode if the
	// transparency test in GetForeground/GetBackground should consider the
	// page transparent. Leaving it unset (the zero value) means
	// box_win alone drives that test, which matches the great majority of
	// magazine pages that never touch either bit.
	StatusBits int
}

// NewDecoder returns a Decoder with an empty page, ready for Decode.
func NewDecoder() *Decoder {
	d := &Decoder{}
	d.clearPage()
	return d
}

// clearPage resets the grid, palette, and page-level state to their
// just-constructed defaults. Decode calls this at the start of every page.
func (d *Decoder) clearPage() {
	for r := 0; r < 25; r++ {
		for c := 0; c < 72; c++ {
			d.cells[r][c] = defaultCell()
		}
	}
	d.palette = defaultPalette
	d.fullScreen = 0
	for r := range d.fullRow {
		d.fullRow[r] = 0
	}
	d.leftSidePanel = 0
	d.rightSidePanel = 0
}

// GetFlashPresent reports which flash behaviours appear anywhere on the
// decoded page: bit 0 set means at least one flashing cell with rate/phase
// code 0, bit 1 set means at least one flashing cell with rate/phase code 1-5.
func (d *Decoder) GetFlashPresent() int {
	return d.flashPresent
}

// cellEnhancements gathers, in encounter order, every (mode, data) pair that
// Active objects and the local X/26 enhancement walk recorded against (r, c).
func cellEnhancements(actInvoc []*Invocation, localEnh *Invocation, r, c int) []enhEntry {
	var out []enhEntry
	key := cellKey{r, c}
	for _, inv := range actInvoc {
		out = append(out, inv.Enhancements[key]...)
	}
	if localEnh != nil {
		out = append(out, localEnh.Enhancements[key]...)
	}
	return out
}

// parseAttrEnhancements applies X/26 attribute-affecting triplets to attr in
// place and returns the set of modes that changed something, so callers can
// tell a cancelling "no foreground change" apart from "foreground set to the
// same value".
func parseAttrEnhancements(enhances []enhEntry, attr *Attribute) map[int]bool {
	changes := make(map[int]bool)

	for _, e := range enhances {
		switch {
		case e.Mode == 0x20 && e.Data < 0x20: // Foreground colour
			attr.Foreground = e.Data
			changes[0x20] = true
		case e.Mode == 0x23 && e.Data < 0x20: // Background colour
			attr.Background = e.Data
			changes[0x23] = true
		case e.Mode == 0x27: // Additional flash functions
			attr.Flash.Mode = e.Data & 0x03
			attr.Flash.RatePhase = e.Data >> 2
			if attr.Flash.RatePhase == 4 || attr.Flash.RatePhase == 5 {
				attr.Flash.PhaseShown = 0
			} else {
				attr.Flash.PhaseShown = attr.Flash.RatePhase
			}
			changes[0x27] = true
		case e.Mode == 0x2c: // Display attributes
			attr.Display.DHeight = (e.Data & 0x01) == 0x01
			attr.Display.BoxWin = (e.Data & 0x02) == 0x02
			attr.Display.Conceal = (e.Data & 0x04) == 0x04
			attr.Display.Invert = (e.Data & 0x10) == 0x10
			attr.Display.UndSep = (e.Data & 0x20) == 0x20
			attr.Display.DWidth = (e.Data & 0x40) == 0x40
			changes[0x2c] = true
		}
	}

	return changes
}

// charEnhancement is the result of parseCharEnhancements: a single character
// override plus the font bank it selects and an optional diacritic.
type charEnhancement struct {
	code      int
	set       int
	diacritic int
	hasDia    bool
}

// parseCharEnhancements returns the last X/26 character-selecting triplet
// found in enhances, or nil if none applied. set is reported as the raw
// (un-resolved) bank selector: 0 for G0, 2 for G2, 24 for G1, 26 for G3; the
// caller resolves 0/2/24 against the active G0/G2 designators and und_sep.
func parseCharEnhancements(enhances []enhEntry) *charEnhancement {
	var result *charEnhancement

	for _, e := range enhances {
		if e.Data < 0x20 {
			continue
		}
		switch {
		case e.Mode == 0x21: // G1 character
			result = &charEnhancement{code: e.Data, set: 24}
		case e.Mode == 0x22 || e.Mode == 0x2b: // G3 character
			result = &charEnhancement{code: e.Data, set: 26}
		case e.Mode == 0x29: // G0 character
			result = &charEnhancement{code: e.Data, set: 0}
		case e.Mode == 0x2f: // G2 character
			result = &charEnhancement{code: e.Data, set: 2}
		case e.Mode >= 0x30: // G0 diacritic
			result = &charEnhancement{code: e.Data, set: 0, diacritic: e.Mode - 0x30, hasDia: true}
		}
	}

	return result
}

// parseG0G2Enhancement returns the (region, NOS) pair of the last "modified
// G0 and G2 character set" triplet in enhances, if any.
func parseG0G2Enhancement(enhances []enhEntry) (region, nos int, ok bool) {
	for _, e := range enhances {
		if e.Mode == 0x28 {
			region, nos, ok = e.Data>>3, e.Data&0x07, true
		}
	}
	return
}

// enlargeChar stamps the enlargement fragment implied by (r, c)'s current
// display attributes and deep-copies the result into the 1-3 companion cells
// the enlargement covers, adding each to covered.
func enlargeChar(cells *[25][72]Cell, r, c int, covered map[cellKey]bool) {
	dheight := r <= 22 && cells[r][c].Attr.Display.DHeight
	dwidth := c != 39 && cells[r][c].Attr.Display.DWidth

	switch {
	case dheight && dwidth:
		cells[r][c].Frag = fragment.DSTopLeft
	case dheight:
		cells[r][c].Frag = fragment.DHTop
	case dwidth:
		cells[r][c].Frag = fragment.DWLeft
	default:
		cells[r][c].Frag = fragment.Normal
	}

	switch cells[r][c].Frag {
	case fragment.DHTop:
		cells[r+1][c] = cells[r][c]
		cells[r+1][c].Frag = fragment.DHBottom
		covered[cellKey{r + 1, c}] = true
	case fragment.DWLeft:
		cells[r][c+1] = cells[r][c]
		cells[r][c+1].Frag = fragment.DWRight
		covered[cellKey{r, c + 1}] = true
	case fragment.DSTopLeft:
		cells[r][c+1] = cells[r][c]
		cells[r+1][c] = cells[r][c]
		cells[r+1][c+1] = cells[r][c]
		cells[r][c+1].Frag = fragment.DSTopRight
		cells[r+1][c].Frag = fragment.DSBottomLeft
		cells[r+1][c+1].Frag = fragment.DSBottomRight
		covered[cellKey{r, c + 1}] = true
		covered[cellKey{r + 1, c}] = true
		covered[cellKey{r + 1, c + 1}] = true
	}
}
