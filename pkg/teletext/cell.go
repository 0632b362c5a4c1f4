package teletext

import "github.com/gkthemac/teletextdecoder/pkg/teletext/fragment"

// FlashAttr is the flash-cycle state of a cell's attribute.
type FlashAttr struct {
	Mode       int // 0 steady, 1 normal, 2 invert, 3 adjacent-CLUT
	RatePhase  int // 0-5; 4 and 5 are incremental/decremental
	PhaseShown int // 0-3, the phase currently displayed
}

// DisplayAttr holds the boolean display-affecting attributes of a cell.
type DisplayAttr struct {
	DHeight bool
	DWidth  bool
	BoxWin  bool
	Conceal bool
	Invert  bool
	UndSep  bool
}

// Attribute is the full set of non-character attributes applied to a cell.
type Attribute struct {
	Foreground int // palette index 0-31; 8 means transparent
	Background int // palette index 0-31; 8 means transparent
	Flash      FlashAttr
	Display    DisplayAttr
}

// defaultAttribute returns the attribute state every row starts from before
// presentation-level overrides (X/28) are applied.
func defaultAttribute() Attribute {
	return Attribute{Foreground: 7, Background: 0}
}

// CellChar is the character identity held by a cell.
type CellChar struct {
	Code      int // 0x00-0xFF
	Set       int // font bank id, 0-27
	Diacritic int // 0-15
}

// Cell is one element of the 25x72 decoded grid.
type Cell struct {
	Ch   CellChar
	Attr Attribute
	Frag fragment.Fragment
}

// defaultCell is the cleared state every cell is reset to at the start of a
// decode call.
func defaultCell() Cell {
	return Cell{
		Ch:   CellChar{Code: 0x20, Set: 0, Diacritic: 0},
		Attr: defaultAttribute(),
		Frag: fragment.Normal,
	}
}
