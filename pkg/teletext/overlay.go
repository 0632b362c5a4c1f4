package teletext

// overlayAdaptive applies every Adaptive object's recorded enhancements on
// top of the already-built Level 1/local-enhancement grid. An Adaptive
// object that changes display attributes may cover any part of any size
// underlying character; one that only changes colour or flash does not
// repaint the right-hand (non-origin) part of an already-enlarged character,
// only its anchor, from which the change is copied to the companions.
func (d *Decoder) overlayAdaptive(g2DefaultCharSet int) {
	for _, inv := range d.adpInvoc {
		colLeft := make(map[int]int)
		colRight := make(map[int]int)
		var rows []int
		for _, key := range inv.Order {
			if _, ok := colLeft[key.R]; !ok {
				colLeft[key.R] = key.C
				rows = append(rows, key.R)
			}
			colRight[key.R] = key.C
		}

		covered := make(map[cellKey]bool)

		for _, r := range rows {
			adpAttr := defaultAttribute()

			for c := colLeft[r]; c <= colRight[r]; c++ {
				key := cellKey{r, c}
				var changes map[int]bool
				var x26 *charEnhancement

				if cellEnh, ok := inv.Enhancements[key]; ok {
					changes = parseAttrEnhancements(cellEnh, &adpAttr)
					x26 = parseCharEnhancements(cellEnh)
				}

				if changes[0x2c] {
					d.cells[r][c].Attr.Display = adpAttr.Display
					if !covered[key] {
						enlargeChar(&d.cells, r, c, covered)
					}
				} else if d.cells[r][c].Frag.IsRightHalf() {
					covered[key] = true
				}

				if !covered[key] {
					anyChange := false
					if changes[0x20] {
						d.cells[r][c].Attr.Foreground = adpAttr.Foreground
						anyChange = true
					}
					if changes[0x23] {
						d.cells[r][c].Attr.Background = adpAttr.Background
						anyChange = true
					}
					if changes[0x27] {
						d.cells[r][c].Attr.Flash = adpAttr.Flash
						anyChange = true
					}
					if anyChange {
						enlargeChar(&d.cells, r, c, covered)
					}
				}

				if x26 != nil && !covered[key] {
					x26Set := x26.set
					switch {
					case x26Set == 2:
						x26Set = g2DefaultCharSet
					case x26Set == 24 && adpAttr.Display.UndSep:
						x26Set = 25
					}
					d.cells[r][c].Ch.Code = x26.code
					d.cells[r][c].Ch.Set = x26Set
					if x26.hasDia {
						d.cells[r][c].Ch.Diacritic = x26.diacritic
					} else {
						d.cells[r][c].Ch.Diacritic = 0
					}
					enlargeChar(&d.cells, r, c, covered)
				}
			}
		}
	}
}

// overlayPassive applies every Passive object's recorded enhancements.
// Unlike Adaptive objects, a Passive object always starts from default
// attributes and, in the encounter order the triplets were recorded in,
// overwrites attribute and character wholesale at each cell where it places
// a character; cells already filled as a companion of one of its own
// enlarged characters are skipped.
func (d *Decoder) overlayPassive(g2DefaultCharSet int) {
	for _, inv := range d.pasInvoc {
		covered := make(map[cellKey]bool)
		pasAttr := defaultAttribute()

		for _, key := range inv.Order {
			enh := inv.Enhancements[key]
			parseAttrEnhancements(enh, &pasAttr)
			x26 := parseCharEnhancements(enh)
			if x26 == nil || covered[key] {
				continue
			}

			x26Set := x26.set
			switch {
			case x26Set == 2:
				x26Set = g2DefaultCharSet
			case x26Set == 24 && pasAttr.Display.UndSep:
				x26Set = 25
			}

			r, c := key.R, key.C
			d.cells[r][c].Attr = pasAttr
			d.cells[r][c].Ch.Code = x26.code
			d.cells[r][c].Ch.Set = x26Set
			if x26.hasDia {
				d.cells[r][c].Ch.Diacritic = x26.diacritic
			} else {
				d.cells[r][c].Ch.Diacritic = 0
			}
			enlargeChar(&d.cells, r, c, covered)
		}
	}
}
