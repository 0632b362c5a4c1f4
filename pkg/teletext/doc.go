// Package teletext decodes a single World System Teletext subpage, per ETSI
// EN 300 706, into a 25x72 grid of character and attribute cells.
//
// It provides:
//   - Levels 1, 1.5, 2.5 and 3.5 decoding, selected per call
//   - X/26 local object enhancement (Active, Adaptive and Passive objects)
//   - X/28 presentation data, including CLUT remap and side panels
//   - Character enlargement (double height/width/size) with fragment tracking
//
// Basic usage:
//
//	page := teletext.NewPacketMap()
//	// ... a reader in pkg/teletext/reader populates page ...
//
//	d := teletext.NewDecoder()
//	d.Decode(page, teletext.Level2p5, true, true)
//
//	ch := d.GetCharCode(0, 0)
//	fg := d.GetForeground(0, 0)
package teletext
