// Package tti reads the line-oriented ".tti" teletext page interchange
// format (PN/SC/PS/OL records) into teletext.PacketMap values.
package tti

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gkthemac/teletextdecoder/pkg/teletext"
)

// Read parses every page found in r and returns one PacketMap per PN record
// encountered, in file order. A PS record before any PN record applies to an
// implicit first page; later pages inherit the previous page's control bits
// until their own PS record arrives.
func Read(r io.Reader) ([]teletext.PacketMap, error) {
	var pages []teletext.PacketMap
	pages = append(pages, teletext.NewPacketMap())
	cur := &pages[len(pages)-1]
	firstPN := false

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "PN,"):
			if !firstPN {
				firstPN = true
			} else {
				prevBits := cur.ControlBits
				pages = append(pages, teletext.NewPacketMap())
				cur = &pages[len(pages)-1]
				for b := range prevBits {
					cur.ControlBits[b] = struct{}{}
				}
			}
			value := lastField(line)
			if len(value) < 5 {
				return nil, fmt.Errorf("tti: malformed PN record %q", line)
			}
			number, err := strconv.ParseInt(value[:3], 16, 32)
			if err != nil {
				return nil, fmt.Errorf("tti: parsing PN page number: %w", err)
			}
			subcode, err := strconv.ParseInt(value[3:], 16, 32)
			if err != nil {
				return nil, fmt.Errorf("tti: parsing PN subcode: %w", err)
			}
			cur.Number = int(number)
			cur.Subcode = int(subcode)

		case strings.HasPrefix(line, "SC,"):
			subcode, err := strconv.ParseInt(lastField(line), 16, 32)
			if err != nil {
				return nil, fmt.Errorf("tti: parsing SC record: %w", err)
			}
			cur.Subcode = int(subcode)

		case strings.HasPrefix(line, "PS,"):
			statusBits, err := strconv.ParseInt(lastField(line), 16, 32)
			if err != nil {
				return nil, fmt.Errorf("tti: parsing PS record: %w", err)
			}
			cur.ControlBits = make(map[int]struct{})
			for b := 0; b < 7; b++ {
				if statusBits&(1<<uint(b)) != 0 {
					cur.ControlBits[b+5] = struct{}{}
				}
			}
			if statusBits&0x4000 == 0x4000 {
				cur.ControlBits[4] = struct{}{}
			}
			// C12-C14 are stored out of order in TTI.
			if statusBits&0x200 == 0x200 {
				cur.ControlBits[12] = struct{}{}
			}
			if statusBits&0x100 == 0x100 {
				cur.ControlBits[13] = struct{}{}
			}
			if statusBits&0x80 == 0x80 {
				cur.ControlBits[14] = struct{}{}
			}

		case strings.HasPrefix(line, "OL,"):
			if err := readOL(cur, line); err != nil {
				return nil, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("tti: scanning input: %w", err)
	}

	return pages, nil
}

func lastField(line string) string {
	idx := strings.LastIndex(line, ",")
	if idx < 0 {
		return ""
	}
	return strings.TrimRight(line[idx+1:], "\r\n")
}

// readOL decodes one OL record, either a Level 1 row (packet 0-25) or a
// triplet packet (26-28).
func readOL(page *teletext.PacketMap, line string) error {
	if len(line) < 4 {
		return fmt.Errorf("tti: truncated OL record %q", line)
	}

	var pktNo, lineStart int
	if len(line) > 4 && line[4] == ',' {
		pktNo = int(line[3]) - '0'
		lineStart = 5
	} else {
		if len(line) < 5 {
			return fmt.Errorf("tti: truncated OL record %q", line)
		}
		pktNo = (int(line[3])-'0')*10 + int(line[4]) - '0'
		lineStart = 6
	}

	switch {
	case pktNo >= 0 && pktNo <= 25:
		var row teletext.Row
		i := lineStart
		for j := 0; j < 40 && i < len(line); j++ {
			ch := line[i]
			switch ch {
			case 0x10:
				ch = 0x0d
			case 0x1b:
				i++
				if i >= len(line) {
					return fmt.Errorf("tti: OL escape at end of record %q", line)
				}
				ch = line[i] - 0x40
			}
			row[j] = ch
			i++
		}
		page.Rows[pktNo] = row

	case pktNo >= 26 && pktNo <= 28:
		if lineStart >= len(line) {
			return fmt.Errorf("tti: truncated OL enhancement record %q", line)
		}
		desigNo := int(line[lineStart]) - 64
		var triplets teletext.TripletPacket
		idx := 0
		for t := lineStart + 1; t+2 < len(line) && idx < 13; t += 3 {
			t1 := int(line[t]) & 0x3f
			t2 := int(line[t+1]) & 0x3f
			t3 := int(line[t+2]) & 0x3f
			v := (t3 << 12) | (t2 << 6) | t1
			triplets[idx] = &v
			idx++
		}
		page.Enhancements[teletext.PacketKey{Y: pktNo, D: desigNo}] = triplets
	}

	return nil
}
