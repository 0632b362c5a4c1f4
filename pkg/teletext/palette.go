package teletext

// defaultPalette is the ETSI EN 300 706 default 32-entry CLUT: primary
// colours, half-intensity copies, and the two default extension halves.
var defaultPalette = [32]uint16{
	0x000, 0xf00, 0x0f0, 0xff0, 0x00f, 0xf0f, 0x0ff, 0xfff,
	0x000, 0x700, 0x070, 0x770, 0x007, 0x707, 0x077, 0x777,
	0xf05, 0xf70, 0x0f7, 0xffb, 0x0ca, 0x500, 0x652, 0xc77,
	0x333, 0xf77, 0x7f7, 0xff7, 0x77f, 0xf7f, 0x7ff, 0xddd,
}

// clutRemap maps a 3-bit X/28 CLUT-remap code to foreground/background
// palette offsets, per ETSI EN 300 706 table 33.
var clutRemap = [8][2]int{
	{0, 0}, {0, 8}, {0, 16}, {8, 8}, {8, 16}, {16, 8}, {16, 16}, {16, 24},
}

// presentation holds the page-level state X/28 presentation data (or its
// absence) resolves to, in addition to the region/NOS character-set
// designators.
type presentation struct {
	defaultRegion, defaultNOS int
	secondRegion, secondNOS   int

	fullScreen   int
	fullRowDown  int
	bbcs         bool
	fgroundMap   int
	bgroundMap   int
	startForeground int

	leftSidePanel  int
	rightSidePanel int
}

// newPresentation returns the defaults used before any X/28 data is read.
func newPresentation(page PacketMap) presentation {
	p := presentation{
		defaultRegion: page.Region,
		secondRegion:  0xf,
		secondNOS:     0x7,
		startForeground: 7,
	}
	if page.HasControlBit(12) {
		p.defaultNOS |= 1
	}
	if page.HasControlBit(13) {
		p.defaultNOS |= 2
	}
	if page.HasControlBit(14) {
		p.defaultNOS |= 4
	}
	return p
}

// resolvePresentation reads X/28/0 (and, at Level 3.5, X/28/4) to build the
// presentation state and override entries 16-31 (and 0-15 at Level 3.5) of
// palette in place.
func resolvePresentation(page PacketMap, level Level, palette *[32]uint16) presentation {
	p := newPresentation(page)

	presDes := -1
	if _, ok := page.Enhancement(28, 0); ok {
		presDes = 0
	} else if level == Level3p5 {
		if _, ok := page.Enhancement(28, 4); ok {
			presDes = 4
		}
	}

	if presDes != -1 {
		pres, _ := page.Enhancement(28, presDes)

		if pres[0] != nil {
			v := *pres[0]
			p.defaultRegion = (v >> 10) & 0xf
			p.defaultNOS = (v >> 7) & 0x7
			p.secondRegion = v >> 14
		}
		if pres[1] != nil {
			p.secondNOS = *pres[1] & 0x7
		}

		clutCode := 0
		if pres[12] != nil {
			v := *pres[12]
			p.fullScreen = (v >> 4) & 0x1f
			p.fullRowDown = (v >> 9) & 0x1f
			p.bbcs = (v & 0x4000) == 0x4000
			clutCode = v >> 15
		}
		p.fgroundMap = clutRemap[clutCode&0x7][0]
		p.bgroundMap = clutRemap[clutCode&0x7][1]
		p.startForeground = p.fgroundMap | 7

		if pres[1] != nil && (level == Level3p5 || (*pres[1]&0x20) == 0x20) {
			v := *pres[1]
			sidePanelCols := (v >> 6) & 0xf
			if (v & 0x8) == 0x8 {
				if sidePanelCols == 0 {
					p.leftSidePanel = 16
				} else {
					p.leftSidePanel = sidePanelCols
				}
			}
			if (v & 0x10) == 0x10 {
				p.rightSidePanel = 16 - sidePanelCols
			}
		}

		for _, d := range []int{0, 4} {
			pres, ok := page.Enhancement(28, d)
			if !ok {
				continue
			}
			if d == 4 && level != Level3p5 {
				continue
			}
			decodePaletteBlock(palette, pres, d)
		}
	}

	return p
}

// decodePaletteBlock unpacks the 12-bit-per-entry palette triplets of an X/28
// designation d (0 overrides entries 16-31, 4 overrides entries 0-15) into
// palette in place.
func decodePaletteBlock(palette *[32]uint16, pres TripletPacket, d int) {
	c := 0
	if d == 0 {
		c = 16
	}
	cEnd := c + 15
	t := 1

	for {
		if pres[t] != nil && pres[t+1] != nil {
			v1, v2 := *pres[t], *pres[t+1]
			palette[c] = uint16(((v1 >> 2) & 0xf00) | ((v1 >> 10) & 0x0f0) | (v2 & 0x00f))
		}
		if c == cEnd {
			break
		}
		if pres[t+1] != nil && pres[t+2] != nil {
			v2, v3 := *pres[t+1], *pres[t+2]
			palette[c+1] = uint16(((v2 << 4) & 0xf00) | ((v2 >> 4) & 0x0f0) | ((v2 >> 12) & 0x00f))
			palette[c+2] = uint16(((v2 >> 8) & 0x300) | ((v3 << 10) & 0xc00) | ((v3 << 2) & 0x0f0) | ((v3 >> 6) & 0x00f))
		}
		c += 3
		t += 2
	}
}
