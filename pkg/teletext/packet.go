package teletext

// PacketKey identifies an enhancement packet by its packet number (26-29) and
// designation code (0-15), mirroring a DICOM Tag's (group, element) pair.
type PacketKey struct {
	Y int
	D int
}

// Row is 40 bytes of Level 1 row data, already 7-bit-clean.
type Row = [40]byte

// TripletPacket is 13 triplets, each either a valid 18-bit value or nil for an
// undecodable ("null") triplet that readers and walkers must tolerate.
type TripletPacket = [13]*int

// PacketMap is the normalized representation of a single subpage that a reader
// produces and the decoder consumes. It is the sole interface boundary between
// readers and the decoder core.
type PacketMap struct {
	// Region is the default character-set region hint, 0-15.
	Region int
	// ControlBits is the set of control bits in {4..14} carried by the page
	// header / PS record. Bits 12/13/14 form the default NOS.
	ControlBits map[int]struct{}
	// Rows holds Level 1 row data keyed by row number 0-24.
	Rows map[int]Row
	// Enhancements holds X/26-29 triplet packets keyed by (packet number,
	// designation code).
	Enhancements map[PacketKey]TripletPacket

	// Number and Subcode are reader-supplied page identification, not
	// consumed by the decoder but useful for CLI output and logging.
	Number  int
	Subcode int
}

// NewPacketMap returns an empty PacketMap ready for a reader to populate.
func NewPacketMap() PacketMap {
	return PacketMap{
		ControlBits:  make(map[int]struct{}),
		Rows:         make(map[int]Row),
		Enhancements: make(map[PacketKey]TripletPacket),
	}
}

// HasControlBit reports whether the given control bit is set.
func (p PacketMap) HasControlBit(bit int) bool {
	_, ok := p.ControlBits[bit]
	return ok
}

// Row40 returns the 40 Level 1 bytes for row r, or 40 spaces if the row is
// absent, per the "missing packet behaves as default" policy.
func (p PacketMap) Row40(r int) Row {
	if row, ok := p.Rows[r]; ok {
		return row
	}
	var blank Row
	for i := range blank {
		blank[i] = 0x20
	}
	return blank
}

// HasRow reports whether row r was supplied by the reader.
func (p PacketMap) HasRow(r int) bool {
	_, ok := p.Rows[r]
	return ok
}

// Enhancement returns the triplet packet at (y, d) and whether it is present.
func (p PacketMap) Enhancement(y, d int) (TripletPacket, bool) {
	pkt, ok := p.Enhancements[PacketKey{Y: y, D: d}]
	return pkt, ok
}
