package teletext

import (
	"github.com/gkthemac/teletextdecoder/pkg/teletext/charset"
	"github.com/gkthemac/teletextdecoder/pkg/teletext/fragment"
)

// Decode builds the 25x72 grid for one subpage at the given level. At Level
// 2.5 and above allowBlackForeground and allowDoubleWidth are ignored and
// treated as true; at Levels 1 and 1.5 the caller's values decide whether the
// black foreground codes (0x00/0x10) and double width/size (0x0e/0x0f) apply.
func (d *Decoder) Decode(page PacketMap, level Level, allowBlackForeground, allowDoubleWidth bool) {
	d.clearPage()
	d.level = level

	startAttr := defaultAttribute()

	defaultRegion := page.Region
	defaultNOS := 0
	if page.HasControlBit(12) {
		defaultNOS |= 1
	}
	if page.HasControlBit(13) {
		defaultNOS |= 2
	}
	if page.HasControlBit(14) {
		defaultNOS |= 4
	}
	secondRegion, secondNOS := 0xf, 0x7

	d.fullScreen = 0
	fullRowDown := 0
	bbcs := false
	fgroundMap, bgroundMap := 0, 0

	d.flashPresent = 0

	var localEnh *Invocation
	d.actInvoc = nil
	d.adpInvoc = nil
	d.pasInvoc = nil

	if level >= Level2p5 {
		allowBlackForeground = true
		allowDoubleWidth = true

		pres := resolvePresentation(page, level, &d.palette)
		defaultRegion, defaultNOS = pres.defaultRegion, pres.defaultNOS
		secondRegion, secondNOS = pres.secondRegion, pres.secondNOS
		d.fullScreen = pres.fullScreen
		fullRowDown = pres.fullRowDown
		bbcs = pres.bbcs
		fgroundMap, bgroundMap = pres.fgroundMap, pres.bgroundMap
		startAttr.Foreground = pres.startForeground
		d.leftSidePanel = pres.leftSidePanel
		d.rightSidePanel = pres.rightSidePanel

		if _, ok := page.Enhancement(26, 0); ok {
			localEnh = walk(page, 0, 0, 0, 0, Level2p5)
			d.findObjects(page, localEnh, 0, make(map[objectKey]bool))
		}
	} else if level == Level1p5 {
		if _, ok := page.Enhancement(26, 0); ok {
			localEnh = walk(page, 0, 0, 0, 0, Level1p5)
		}
	}

	l1DefaultCharSet := charset.Level1(defaultRegion, defaultNOS)
	l1SecondCharSet := l1DefaultCharSet
	if v, ok := charset.Level1Lookup(secondRegion, secondNOS); ok {
		l1SecondCharSet = v
	}
	g0DefaultCharSet := charset.G0(defaultRegion, defaultNOS)
	g2DefaultCharSet := charset.G2(defaultRegion, defaultNOS)

	// Level 2.5 limits the "modified G0/G2 character set designation"
	// triplet to two character sets; this tracks whether the second one has
	// been claimed yet for the whole page.
	secondG0G2Set := false

	l1DHeightFound := false
	l1BottomHalf := false

	for r := 0; r < 25; r++ {
		pkt := page.Row40(r)

		d.fullRow[r] = fullRowDown
		if bbcs {
			startAttr.Background = fullRowDown
		} else {
			startAttr.Background = bgroundMap
		}

		currentAttr := startAttr

		l1FgroundCol := 7
		l1Mosaics := false
		l1SepMosaics := false
		l1HoldMosaics := false
		l1HoldMosaicCh := 0x20
		l1HoldMosaicSep := false
		l1EscapeSwitch := false

		l1CharSet := l1DefaultCharSet
		g0CharSet := g0DefaultCharSet
		g2CharSet := g2DefaultCharSet

		for c := 0; c < 72; c++ {
			enhances := cellEnhancements(d.actInvoc, localEnh, r, c)

			if c == 0 {
				for _, e := range enhances {
					switch {
					case e.Mode == 0x00 && (e.Data&0x60) == 0x00:
						d.fullScreen = e.Data
						fullRowDown = e.Data
						d.fullRow[r] = e.Data
						if bbcs {
							startAttr.Background = e.Data
						}
					case e.Mode == 0x01 || (e.Mode == 0x07 && r == 0):
						d.fullRow[r] = e.Data & 0x1f
						if bbcs {
							startAttr.Background = e.Data & 0x1f
						}
						if (e.Data & 0x60) == 0x60 {
							fullRowDown = e.Data & 0x1f
						}
					}
				}
			}

			switch c {
			case 0:
				currentAttr = startAttr
			case 40, 56:
				currentAttr = startAttr
				currentAttr.Background = d.fullRow[r]
			}

			l1Byte := byte(0x20)
			if c < 40 && page.HasRow(r) {
				l1Byte = pkt[c]
			}

			// Level 1 set-at and "set-between" attributes.
			if c < 40 && !l1BottomHalf {
				switch l1Byte {
				case 0x09: // Steady
					currentAttr.Flash.Mode = 0
					currentAttr.Flash.RatePhase = 0
				case 0x0a: // End box
					if c > 0 && pkt[c-1] == 0x0a {
						currentAttr.Display.BoxWin = false
					}
				case 0x0b: // Start box
					if c > 0 && pkt[c-1] == 0x0b {
						currentAttr.Display.BoxWin = true
					}
				case 0x0c: // Normal size
					if currentAttr.Display.DHeight || currentAttr.Display.DWidth {
						l1HoldMosaicCh = 0x20
						l1HoldMosaicSep = false
					}
					currentAttr.Display.DHeight = false
					currentAttr.Display.DWidth = false
				case 0x18: // Conceal
					currentAttr.Display.Conceal = true
				case 0x19: // Contiguous mosaics
					if !currentAttr.Display.UndSep {
						l1SepMosaics = false
					}
				case 0x1a: // Separated mosaics
					l1SepMosaics = true
				case 0x1c: // Black background
					currentAttr.Background = startAttr.Background
				case 0x1d: // New background
					currentAttr.Background = l1FgroundCol | bgroundMap
				case 0x1e: // Hold mosaics
					l1HoldMosaics = true
				}
			}

			// X/26 attributes.
			changes := parseAttrEnhancements(enhances, &currentAttr)
			if changes[0x2c] && !currentAttr.Display.UndSep {
				l1SepMosaics = false
			}

			// Modified G0/G2 character set triplet.
			if region, nos, ok := parseG0G2Enhancement(enhances); ok {
				applyNew := false

				switch {
				case level == Level3p5:
					applyNew = true
				case region == defaultRegion && nos == defaultNOS:
					applyNew = true
				case region == secondRegion && nos == secondNOS:
					applyNew = true
				case !secondG0G2Set:
					applyNew = true
					secondG0G2Set = true
					secondRegion, secondNOS = region, nos
				}

				if applyNew {
					g0CharSet = charset.G0(region, nos)
					g2CharSet = charset.G2(region, nos)
				}
			}

			// Level 1 character.
			if c < 40 && !l1BottomHalf {
				d.cells[r][c].Ch.Diacritic = 0
				switch {
				case l1Byte >= 0x20:
					d.cells[r][c].Ch.Code = int(l1Byte)
					if l1Mosaics && (l1Byte&0x20) == 0x20 {
						sep := 0
						if l1SepMosaics || currentAttr.Display.UndSep {
							sep = 1
						}
						d.cells[r][c].Ch.Set = 24 + sep
						l1HoldMosaicCh = int(l1Byte)
						l1HoldMosaicSep = l1SepMosaics
					} else {
						d.cells[r][c].Ch.Set = l1CharSet
					}
				case l1HoldMosaics:
					d.cells[r][c].Ch.Code = int(l1HoldMosaicCh)
					sep := 0
					if l1HoldMosaicSep {
						sep = 1
					}
					d.cells[r][c].Ch.Set = 24 + sep
					d.cells[r][c].Ch.Diacritic = 0
				default:
					d.cells[r][c].Ch.Code = 0x20
					d.cells[r][c].Ch.Set = 0
					d.cells[r][c].Ch.Diacritic = 0
				}
			} else {
				d.cells[r][c].Ch.Code = 0x20
				d.cells[r][c].Ch.Set = 0
				d.cells[r][c].Ch.Diacritic = 0
			}

			// X/26 character.
			x26 := parseCharEnhancements(enhances)
			if x26 != nil {
				x26Set := x26.set
				switch {
				case x26Set == 0:
					x26Set = g0CharSet
				case x26Set == 2:
					x26Set = g2CharSet
				case x26Set == 24 && currentAttr.Display.UndSep:
					x26Set = 25
				}

				d.cells[r][c].Ch.Code = x26.code
				d.cells[r][c].Ch.Set = x26Set
				if x26.hasDia {
					d.cells[r][c].Ch.Diacritic = x26.diacritic
				}
			}

			covered := false

			// Left half of a double-width/double-size character to the left.
			if c > 0 {
				switch d.cells[r][c-1].Frag {
				case fragment.DWLeft:
					d.cells[r][c] = d.cells[r][c-1]
					d.cells[r][c].Frag = fragment.DWRight
					covered = true
				case fragment.DSTopLeft:
					d.cells[r][c] = d.cells[r][c-1]
					d.cells[r][c].Frag = fragment.DSTopRight
					covered = true
				}
			}

			// Top half of a double-height/double-size character above.
			if !covered && r > 0 {
				prevDHeight := d.cells[r][c].Attr.Display.DHeight
				prevDWidth := d.cells[r][c].Attr.Display.DWidth

				switch d.cells[r-1][c].Frag {
				case fragment.DHTop:
					d.cells[r][c] = d.cells[r-1][c]
					d.cells[r][c].Frag = fragment.DHBottom
					covered = true
				case fragment.DSTopLeft:
					d.cells[r][c] = d.cells[r-1][c]
					d.cells[r][c].Frag = fragment.DSBottomLeft
					covered = true
				case fragment.DSTopRight:
					d.cells[r][c] = d.cells[r-1][c]
					d.cells[r][c].Frag = fragment.DSBottomRight
					covered = true
				}

				if covered {
					d.cells[r][c].Attr.Display.DHeight = prevDHeight
					d.cells[r][c].Attr.Display.DWidth = prevDWidth
				}
			}

			// Bottom half of a Level 1 double-height row, single-height text above.
			if !covered && l1BottomHalf && x26 == nil {
				d.cells[r][c] = d.cells[r-1][c]
				d.cells[r][c].Frag = fragment.Normal
				d.cells[r][c].Attr.Display.DHeight = false
				d.cells[r][c].Attr.Display.DWidth = false
				d.cells[r][c].Ch.Code = 0x20
				d.cells[r][c].Ch.Set = 0
				d.cells[r][c].Ch.Diacritic = 0
				covered = true
			}

			if currentAttr.Flash.Mode != 0 {
				flashOriginC := 0
				if currentAttr.Flash.RatePhase == 4 || currentAttr.Flash.RatePhase == 5 {
					if currentAttr.Flash.PhaseShown == 0 {
						flashOriginC = c
					}
					if currentAttr.Flash.RatePhase == 4 {
						currentAttr.Flash.PhaseShown = ((c - flashOriginC) % 3) + 1
					} else {
						currentAttr.Flash.PhaseShown = 3 - ((c + 2 - flashOriginC) % 3)
					}
				}

				if currentAttr.Flash.RatePhase == 0 {
					d.flashPresent |= 1
				} else if currentAttr.Flash.RatePhase <= 5 {
					d.flashPresent |= 2
				}
			}

			if !covered {
				d.cells[r][c].Attr = currentAttr
				// No enlargement is stamped where its companion cell would
				// fall below row 24, past column 71, or out of the main page
				// at column 39.
				dheight := currentAttr.Display.DHeight && r < 24
				dwidth := currentAttr.Display.DWidth && c != 39 && c != 71
				switch {
				case dheight && dwidth:
					d.cells[r][c].Frag = fragment.DSTopLeft
				case dheight:
					d.cells[r][c].Frag = fragment.DHTop
				case dwidth:
					d.cells[r][c].Frag = fragment.DWLeft
				}
			}

			// Level 1 set-after spacing attributes.
			if c < 40 && !l1BottomHalf {
				switch {
				case (l1Byte == 0x00 && allowBlackForeground) || (l1Byte >= 0x01 && l1Byte <= 0x07):
					l1Mosaics = false
					l1FgroundCol = int(l1Byte)
					currentAttr.Foreground = l1FgroundCol | fgroundMap
					currentAttr.Display.Conceal = false
					l1HoldMosaicCh = 0x20
					l1HoldMosaicSep = false
				case (l1Byte == 0x10 && allowBlackForeground) || (l1Byte >= 0x11 && l1Byte <= 0x17):
					l1Mosaics = true
					l1FgroundCol = int(l1Byte) & 0x07
					currentAttr.Foreground = l1FgroundCol | fgroundMap
					currentAttr.Display.Conceal = false
				case l1Byte == 0x08: // Flashing
					currentAttr.Flash.Mode = 1
					currentAttr.Flash.RatePhase = 0
				case l1Byte == 0x0d: // Double height
					if !currentAttr.Display.DHeight || currentAttr.Display.DWidth {
						l1HoldMosaicCh = 0x20
						l1HoldMosaicSep = false
					}
					currentAttr.Display.DHeight = true
					currentAttr.Display.DWidth = false
					l1DHeightFound = true
				case l1Byte == 0x0e && allowDoubleWidth: // Double width
					if currentAttr.Display.DHeight || !currentAttr.Display.DWidth {
						l1HoldMosaicCh = 0x20
						l1HoldMosaicSep = false
					}
					currentAttr.Display.DHeight = false
					currentAttr.Display.DWidth = true
				case l1Byte == 0x0f && allowDoubleWidth: // Double size
					if !currentAttr.Display.DHeight || !currentAttr.Display.DWidth {
						l1HoldMosaicCh = 0x20
						l1HoldMosaicSep = false
					}
					currentAttr.Display.DHeight = true
					currentAttr.Display.DWidth = true
					l1DHeightFound = true
				case l1Byte == 0x1b: // ESC/switch
					l1EscapeSwitch = !l1EscapeSwitch
					if l1EscapeSwitch {
						l1CharSet = l1SecondCharSet
					} else {
						l1CharSet = l1DefaultCharSet
					}
				case l1Byte == 0x1f: // Release mosaics
					l1HoldMosaics = false
				}
			}
		}

		if l1BottomHalf {
			l1BottomHalf = false
		}
		if l1DHeightFound {
			l1BottomHalf = true
			l1DHeightFound = false
		}
	}

	d.overlayAdaptive(g2DefaultCharSet)
	d.overlayPassive(g2DefaultCharSet)
}
