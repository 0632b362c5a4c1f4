package teletext

// Level selects which ETSI EN 300 706 overlay model the decoder applies.
type Level int

const (
	// Level1 decodes Level 1 row bytes only; no X/26-29 enhancement data is
	// consulted at all.
	Level1 Level = iota
	// Level1p5 additionally walks the X/26/0 local enhancement packet with
	// the restricted Level 1.5 mode table (no object invocation, no
	// presentation data).
	Level1p5
	// Level2p5 adds presentation data (X/28/0), object invocation (Active /
	// Adaptive / Passive), and the full Level 2.5 mode table.
	Level2p5
	// Level3p5 additionally allows X/28/4 (entries 0-15 of the palette and
	// the second G0/G2 designator) and removes the Level 2.5 restriction to
	// two character set designators.
	Level3p5
)

// ParseLevel converts the four accepted level strings ("1", "1.5", "2.5",
// "3.5") into a Level. It is the caller's responsibility to pass one of
// these; any other string returns (0, false).
func ParseLevel(s string) (Level, bool) {
	switch s {
	case "1":
		return Level1, true
	case "1.5":
		return Level1p5, true
	case "2.5":
		return Level2p5, true
	case "3.5":
		return Level3p5, true
	default:
		return 0, false
	}
}

func (l Level) String() string {
	switch l {
	case Level1:
		return "1"
	case Level1p5:
		return "1.5"
	case Level2p5:
		return "2.5"
	case Level3p5:
		return "3.5"
	default:
		return "unknown"
	}
}
