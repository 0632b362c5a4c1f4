// Package ep1 reads the EP1 subpage capture format (a JWC multi-subpage
// envelope wrapping one or more fixed-layout subpage records) into
// teletext.PacketMap values.
package ep1

import (
	"fmt"
	"io"

	"github.com/gkthemac/teletextdecoder/pkg/teletext"
)

// languageEntry is the (region, NOS) pair an EP1 language code maps to.
type languageEntry struct {
	region, nos int
}

// languageMap translates EP1's own language code byte to the region and NOS
// bits the rest of the decoder expects; it predates and does not match the
// language codes used elsewhere in the format family.
var languageMap = map[byte]languageEntry{
	0x07: {0, 6}, // Czech/Slovak
	0x08: {0, 2}, // Swedish/Finnish
	0x09: {0, 0}, // English
	0x0b: {0, 4}, // French
	0x0d: {0, 1}, // German
	0x0e: {6, 7}, // Greek
	0x11: {0, 3}, // Italian
	0x14: {1, 0}, // Polish
	0x16: {3, 7}, // Romanian
	0x17: {0, 5}, // Portuguese/Spanish
	0x18: {0, 2}, // Swedish/Finnish
	0x1c: {2, 6}, // Turkish
	0x1e: {3, 5}, // Serbian/Croatian/Slovenian
	0xff: {4, 3}, // Lettish/Lithuanian, ambiguous with Estonian/Hungarian
}

// Read parses every subpage found in r and returns one PacketMap per
// subpage, in file order. A leading "JWC"+count preamble introduces a
// multi-subpage stream; without one, r holds exactly one subpage.
func Read(r io.Reader) ([]teletext.PacketMap, error) {
	var pages []teletext.PacketMap

	preamble := make([]byte, 6)
	if _, err := io.ReadFull(r, preamble); err != nil {
		if err == io.EOF {
			return pages, nil
		}
		return nil, fmt.Errorf("ep1: reading preamble: %w", err)
	}

	numPagesLeft := 1
	subcode := 0

	if string(preamble[0:3]) == "JWC" {
		numPagesLeft = int(preamble[3])
		subcode = 1
		if _, err := io.ReadFull(r, preamble); err != nil {
			return nil, fmt.Errorf("ep1: reading first subpage header: %w", err)
		}
	}

	for numPagesLeft > 0 {
		if preamble[0] != 0xfe || preamble[1] != 0x01 {
			return nil, fmt.Errorf("ep1: missing subpage header marker")
		}

		page := teletext.NewPacketMap()

		lang, ok := languageMap[preamble[2]]
		if !ok {
			lang = languageEntry{0, 0}
		}
		page.Region = lang.region
		if lang.nos&0x1 == 0x1 {
			page.ControlBits[12] = struct{}{}
		}
		if lang.nos&0x2 == 0x2 {
			page.ControlBits[13] = struct{}{}
		}
		if lang.nos&0x4 == 0x4 {
			page.ControlBits[14] = struct{}{}
		}

		if preamble[3] == 0xca {
			if err := readEnhancementHeader(r, &page); err != nil {
				return nil, err
			}
		}

		for row := 0; row < 24; row++ {
			packet := make([]byte, 40)
			if _, err := io.ReadFull(r, packet); err != nil {
				return nil, fmt.Errorf("ep1: reading row %d: %w", row, err)
			}
			if !isBlankRow(packet) {
				var r40 teletext.Row
				copy(r40[:], packet)
				page.Rows[row] = r40
			}
		}

		page.Subcode = subcode
		pages = append(pages, page)

		subcode++
		numPagesLeft--

		if numPagesLeft > 0 {
			postamble := make([]byte, 42)
			if _, err := io.ReadFull(r, postamble); err != nil {
				return nil, fmt.Errorf("ep1: reading subpage postamble: %w", err)
			}
			if _, err := io.ReadFull(r, preamble); err != nil {
				return nil, fmt.Errorf("ep1: reading next subpage header: %w", err)
			}
		}
	}

	return pages, nil
}

// readEnhancementHeader reads the 4-byte X/26 enhancement header and the
// designation-ordered packets of triplets that follow it.
func readEnhancementHeader(r io.Reader, page *teletext.PacketMap) error {
	header := make([]byte, 4)
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("ep1: reading enhancement header: %w", err)
	}
	numBytes := int(header[2]) | (int(header[3]) << 8)
	numPackets := (numBytes + 39) / 40

	for d := 0; d < numPackets; d++ {
		packet := make([]byte, 40)
		if _, err := io.ReadFull(r, packet); err != nil {
			return fmt.Errorf("ep1: reading enhancement packet %d: %w", d, err)
		}

		var triplets teletext.TripletPacket
		idx := 0
		for b := 1; b+2 < 40 && idx < 13; b += 3 {
			address := int(packet[b]) & 0x3f
			mode := int(packet[b+1])
			data := int(packet[b+2])
			v := address | (mode << 6) | (data << 11)
			triplets[idx] = &v
			idx++
		}
		page.Enhancements[teletext.PacketKey{Y: 26, D: d}] = triplets
	}
	return nil
}

func isBlankRow(packet []byte) bool {
	for _, b := range packet {
		if b != 0x20 {
			return false
		}
	}
	return true
}
