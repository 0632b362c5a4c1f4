// Package t42 reads raw T42 teletext packet captures (one 42-byte packet per
// record, Hamming-protected, 8 magazines interleaved on one stream) into
// teletext.PacketMap values.
package t42

import (
	"fmt"
	"io"

	"github.com/gkthemac/teletextdecoder/pkg/teletext"
)

const packetSize = 42

// magazine accumulates the packets of one in-progress page for one of the
// eight magazines multiplexed onto a T42 stream.
type magazine struct {
	page     teletext.PacketMap
	started  bool
	lastPage int // page number of the last X/0, -1 if none or if a row/enhancement packet followed it
}

// Read parses every packet in r and returns one PacketMap per completed
// page, in the order each page's closing X/0 packet (or end of stream) was
// reached. Unlike a single-page capture, r may carry any number of pages
// across any of the 8 magazines; every one that completes is returned.
//
// A page is "complete" when a later X/0 for the same magazine arrives that
// is not an immediate repeat of the open page's header (it carries a
// different page number, or the same number after any row or enhancement
// packet), or when the stream ends while a page is open.
// Packets with an uncorrectable Hamming error are skipped, matching a
// hardware teletext receiver discarding the packet rather than the page.
func Read(r io.Reader) ([]teletext.PacketMap, error) {
	var mags [8]magazine
	for m := range mags {
		mags[m].lastPage = -1
	}
	var results []teletext.PacketMap

	buf := make([]byte, packetSize)
	for {
		n, err := io.ReadFull(r, buf)
		if err == io.EOF {
			break
		}
		if err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("t42: reading packet: %w", err)
		}
		if n != packetSize {
			break
		}

		magPkt, ok1 := decode84(buf[0])
		pktHi, ok2 := decode84(buf[1])
		if !ok1 || !ok2 {
			continue
		}
		magNo := magPkt & 0x07
		pktNo := (magPkt >> 3) | (pktHi << 1)
		mg := &mags[magNo]

		switch {
		case pktNo == 0:
			if completed, ok := readHeader(mg, magNo, buf); ok {
				results = append(results, completed)
			}
		case pktNo > 28:
			// Whole-magazine packets are not part of a displayable page.
		case !mg.started:
			// No X/0 observed yet for this magazine; packet is orphaned.
		case pktNo < 26:
			mg.lastPage = -1
			var row teletext.Row
			for i := 0; i < 40; i++ {
				row[i] = buf[2+i] & 0x7f
			}
			mg.page.Rows[pktNo] = row
		default:
			mg.lastPage = -1
			if err := readTriplets(&mg.page, pktNo, buf); err != nil {
				return nil, err
			}
		}
	}

	for m := range mags {
		if mags[m].started {
			results = append(results, mags[m].page)
		}
	}

	return results, nil
}

// readHeader decodes an X/0 packet. It returns the previously open page for
// this magazine (if any) and true when that page should be emitted, i.e.
// this X/0 starts a genuinely new page rather than repeating the current one.
func readHeader(mg *magazine, magNo int, buf []byte) (teletext.PacketMap, bool) {
	var decoded [8]int
	var pageOK [2]bool
	for i := 0; i < 8; i++ {
		v, ok := decode84(buf[2+i])
		if i < 2 {
			pageOK[i] = ok
		} else if !ok {
			// Leave non-page-number fields neutralised to zero; only the
			// page number itself aborts the whole header on error.
			v = 0
		}
		decoded[i] = v
	}
	if !pageOK[0] || !pageOK[1] {
		return teletext.PacketMap{}, false
	}
	pageNo := (decoded[1] << 4) | decoded[0]
	if pageNo == 0xff {
		// Time-filling header, not a real page.
		return teletext.PacketMap{}, false
	}

	if pageNo == mg.lastPage {
		// Consecutive X/0 for the same page; not a new page.
		return teletext.PacketMap{}, false
	}
	mg.lastPage = pageNo

	var completed teletext.PacketMap
	emit := false
	if mg.started {
		completed = mg.page
		emit = true
	}

	mg.page = teletext.NewPacketMap()
	mg.started = true

	mg.page.Number = (magNo << 8) | pageNo
	if magNo == 0 {
		mg.page.Number |= 0x800
	}
	mg.page.Subcode = ((decoded[5] & 0x3) << 12) | (decoded[4] << 8) | ((decoded[3] & 0x7) << 4) | decoded[2]

	if decoded[3]&0x08 == 0x08 {
		mg.page.ControlBits[4] = struct{}{}
	}
	if decoded[5]&0x04 == 0x04 {
		mg.page.ControlBits[5] = struct{}{}
	}
	if decoded[5]&0x08 == 0x08 {
		mg.page.ControlBits[6] = struct{}{}
	}
	for b := 0; b < 4; b++ {
		if decoded[6]&(1<<uint(b)) != 0 {
			mg.page.ControlBits[b+7] = struct{}{}
		}
	}
	if decoded[7]&0x01 == 0x01 {
		mg.page.ControlBits[11] = struct{}{}
	}
	if decoded[7]&0x08 == 0x08 {
		mg.page.ControlBits[12] = struct{}{}
	}
	if decoded[7]&0x04 == 0x04 {
		mg.page.ControlBits[13] = struct{}{}
	}
	if decoded[7]&0x02 == 0x02 {
		mg.page.ControlBits[14] = struct{}{}
	}

	var row teletext.Row
	for i := 0; i < 8; i++ {
		row[i] = 0x20
	}
	for i := 8; i < 40; i++ {
		row[i] = buf[10+(i-8)] & 0x7f
	}
	mg.page.Rows[0] = row

	return completed, emit
}

// readTriplets decodes an X/26, X/27 or X/28 packet's 13 Hamming 24/18
// triplets into the page's enhancement map.
func readTriplets(page *teletext.PacketMap, pktNo int, buf []byte) error {
	desigNo, ok := decode84(buf[2])
	if !ok {
		return nil
	}
	if pktNo == 27 && desigNo < 4 {
		// FLOF/TOP navigation links, Hamming 8/4 coded; not decoded here.
		return nil
	}

	var triplets teletext.TripletPacket
	for t := 0; t < 13; t++ {
		off := 3 + t*3
		d, ok := decode24p18(buf[off], buf[off+1], buf[off+2])
		if ok {
			v := d
			triplets[t] = &v
		}
	}
	page.Enhancements[teletext.PacketKey{Y: pktNo, D: desigNo}] = triplets
	return nil
}
