package teletext

// cellKey addresses a single (row, column) enhancement target.
type cellKey struct {
	R, C int
}

// enhEntry is one (mode, data) pair recorded against a cell, in encounter order.
type enhEntry struct {
	Mode, Data int
}

// invokeEntry records an object-invocation triplet found by a Level 2.5 walk.
type invokeEntry struct {
	R, C, Address, Mode, Data int
}

// Invocation is the state accumulated while walking a linear sequence of
// triplets starting at a given entry point. Only Local Objects are supported
// (POP/GPOP are not, per §4.3), so every walk lives entirely within packet 26
// (X/26) designations 0-15; the walk never needs to step to packet 27+.
type Invocation struct {
	Enhancements map[cellKey][]enhEntry
	// Order records each distinct cell key in the order it was first
	// recorded. Passive object overlay accumulates attribute state across
	// cells in this same order, so it must be preserved rather than read
	// back from Enhancements, whose map iteration order is unspecified.
	Order   []cellKey
	Invokes []invokeEntry

	orgR, orgC       int
	actR, actC       int
	orgModR, orgModC int
}

func newInvocation(orgR, orgC int) *Invocation {
	return &Invocation{
		Enhancements: make(map[cellKey][]enhEntry),
		orgR:         orgR,
		orgC:         orgC,
	}
}

func (inv *Invocation) record(r, c, mode, data int) {
	key := cellKey{r, c}
	if _, ok := inv.Enhancements[key]; !ok {
		inv.Order = append(inv.Order, key)
	}
	inv.Enhancements[key] = append(inv.Enhancements[key], enhEntry{Mode: mode, Data: data})
}

// mapper is implemented once per level variant (1.5 and 2.5); walk() selects
// the implementation once per decode, per the Invocation Walker design note.
type mapper interface {
	mapTriplet(address, mode, data int)
}

// walk traverses packet (26, d) starting at triplet t, applying termination
// rules, and returns the accumulated Invocation. org_r/org_c are non-zero only
// when walking an invoked object.
func walk(page PacketMap, d, t, orgR, orgC int, level Level) *Invocation {
	inv := newInvocation(orgR, orgC)

	var m mapper
	if level == Level1p5 {
		m = &walker1p5{inv: inv}
	} else {
		m = &walker2p5{inv: inv}
	}

	firstTriplet := true
	for {
		pkt, ok := page.Enhancement(26, d)
		if !ok {
			break
		}
		next := pkt[t]
		if next != nil {
			tr := Split(*next)

			// Termination Marker.
			if tr.Mode == 0x1f && tr.Address == 0x3f {
				break
			}
			// Object Definition triplets end the walk unless they are the
			// entry header (first triplet of this walk).
			if (tr.Mode == 0x15 || tr.Mode == 0x16 || tr.Mode == 0x17) && !firstTriplet {
				break
			}

			m.mapTriplet(tr.Address, tr.Mode, tr.Data)
		}

		firstTriplet = false

		t++
		if t == 13 {
			t = 0
			d++
			if d == 16 {
				break
			}
		}
	}

	return inv
}

// walker1p5 implements the Level 1.5 Invocation Walker mode table.
type walker1p5 struct {
	inv *Invocation
}

func (w *walker1p5) mapTriplet(address, mode, data int) {
	inv := w.inv

	if mode == 0x04 { // Set Active Position
		newRow := addressToRow(address)
		if inv.actR < newRow {
			inv.actR = newRow
			inv.actC = 0
		}
	} else if mode == 0x07 { // Address row 0
		if inv.actR == 0 && inv.actC == 0 && address == 63 {
			inv.actC = 8
		}
	}

	if address < inv.actC {
		return
	}

	if mode == 0x22 || mode >= 0x2f {
		inv.actC = address
		inv.record(inv.orgR+inv.actR, inv.orgC+inv.actC, mode, data)
	}
}

// walker2p5 implements the Level 2.5 Invocation Walker mode table.
type walker2p5 struct {
	inv *Invocation
}

func (w *walker2p5) mapTriplet(address, mode, data int) {
	inv := w.inv

	switch mode {
	case 0x00: // Full screen colour
		if inv.actR == 0 && inv.actC == 0 && (data&0x60) == 0x00 {
			inv.record(inv.orgR, 0, mode, data)
		}
	case 0x01: // Full row colour
		newRow := addressToRow(address)
		if inv.actR < newRow {
			inv.actR = newRow
			inv.actC = 0
			if (data&0x60) == 0x00 || (data&0x60) == 0x60 {
				inv.record(inv.orgR+inv.actR, 0, mode, data)
			}
		}
	case 0x04: // Set Active Position
		newRow := addressToRow(address)
		if inv.actR < newRow {
			inv.actR = newRow
			if data < 40 {
				inv.actC = data
			}
		} else if inv.actR == newRow && inv.actC <= data {
			inv.actC = data
		}
	case 0x07: // Address row 0
		if inv.actR == 0 && inv.actC == 0 && address == 63 {
			inv.actC = 8
			if (data&0x60) == 0x00 || (data&0x60) == 0x60 {
				inv.record(inv.orgR+inv.actR, 0, mode, data)
			}
		}
	case 0x10: // Origin modifier
		inv.orgModR = address - 40
		inv.orgModC = data
		return
	case 0x11, 0x12, 0x13: // Invoke active/adaptive/passive object
		r := inv.orgR + inv.orgModR + inv.actR
		c := inv.orgC + inv.orgModC + inv.actC
		inv.record(r, c, mode, data)
		inv.Invokes = append(inv.Invokes, invokeEntry{R: r, C: c, Address: address, Mode: mode, Data: data})
	case 0x24, 0x25, 0x26, 0x2a: // Reserved / PDC column triplets
		// Column triplets other than those above set the active position;
		// these four don't, but the origin modifier still only applies to
		// the triplet immediately following it.
		inv.orgModR = 0
		inv.orgModC = 0
		return
	}

	inv.orgModR = 0
	inv.orgModC = 0

	if mode < 0x20 {
		return
	}
	if address < inv.actC {
		return
	}

	inv.actC = address
	inv.record(inv.orgR+inv.actR, inv.orgC+inv.actC, mode, data)
}
