package teletext

// Triplet is the decomposition of an 18-bit X/26-29 triplet into its three
// fields. Column triplets (address < 40) have 0x20 added to Mode so that row
// and column triplets can be dispatched from a single switch.
type Triplet struct {
	Address int
	Mode    int
	Data    int
}

// Split decomposes an 18-bit triplet value into address (6 bits), mode (5
// bits) and data (7 bits). It is total: every int input, however the high
// bits are set, produces a Triplet.
func Split(t int) Triplet {
	address := t & 0x3f
	mode := (t >> 6) & 0x1f
	data := (t >> 11) & 0x7f
	if address < 40 {
		mode |= 0x20
	}
	return Triplet{Address: address, Mode: mode, Data: data}
}

// addressToRow converts a row-triplet address into a grid row number. Address
// 40 denotes row 24 (FLOF); addresses 41-63 denote rows 1-23, and row 0 is
// reached via the dedicated "address row 0" mode rather than this mapping.
func addressToRow(address int) int {
	if address == 40 {
		return 24
	}
	return address - 40
}
