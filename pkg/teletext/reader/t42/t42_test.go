package t42

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func packetHeader(magNo, pageNo int) []byte {
	buf := make([]byte, packetSize)
	buf[0] = encode84(magNo)
	buf[1] = encode84(0)
	buf[2] = encode84(pageNo & 0x0f)
	buf[3] = encode84((pageNo >> 4) & 0x0f)
	for i := 4; i < 10; i++ {
		buf[i] = encode84(0)
	}
	for i := 10; i < packetSize; i++ {
		buf[i] = ' '
	}
	return buf
}

func packetRow(magNo, rowNo int, text string) []byte {
	buf := make([]byte, packetSize)
	v := magNo | ((rowNo & 1) << 3)
	buf[0] = encode84(v)
	buf[1] = encode84(rowNo >> 1)
	for i := 0; i < 40; i++ {
		ch := byte(' ')
		if i < len(text) {
			ch = text[i]
		}
		buf[2+i] = ch & 0x7f
	}
	return buf
}

func packetTriplets(magNo, pktNo, desigNo int, data [13]int) []byte {
	buf := make([]byte, packetSize)
	v := magNo | ((pktNo & 1) << 3)
	buf[0] = encode84(v)
	buf[1] = encode84(pktNo >> 1)
	buf[2] = encode84(desigNo)
	for t := 0; t < 13; t++ {
		p0, p1, p2 := encode24p18(data[t])
		buf[3+t*3] = p0
		buf[3+t*3+1] = p1
		buf[3+t*3+2] = p2
	}
	return buf
}

func TestRead_SinglePage(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(packetHeader(3, 0x12))
	stream.Write(packetRow(3, 1, "HELLO"))

	pages, err := Read(&stream)
	require.NoError(t, err)
	require.Len(t, pages, 1)

	assert.Equal(t, (3<<8)|0x12, pages[0].Number)
	require.True(t, pages[0].HasRow(1))
	row := pages[0].Rows[1]
	assert.Equal(t, byte('H'), row[0])
	assert.Equal(t, byte('O'), row[4])
}

func TestRead_FlushesOnNextHeader(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(packetHeader(0, 0x01))
	stream.Write(packetRow(0, 1, "FIRST"))
	stream.Write(packetHeader(0, 0x02))
	stream.Write(packetRow(0, 1, "SECOND"))

	pages, err := Read(&stream)
	require.NoError(t, err)
	require.Len(t, pages, 2)

	assert.Equal(t, 0x800|0x01, pages[0].Number)
	assert.Equal(t, 0x800|0x02, pages[1].Number)
	assert.Equal(t, byte('F'), pages[0].Rows[1][0])
	assert.Equal(t, byte('S'), pages[1].Rows[1][0])
}

func TestRead_RepeatedHeaderIsNotANewPage(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(packetHeader(1, 0x05))
	stream.Write(packetHeader(1, 0x05))
	stream.Write(packetRow(1, 1, "ONLYONE"))

	pages, err := Read(&stream)
	require.NoError(t, err)
	require.Len(t, pages, 1)
}

func TestRead_DecodesTriplets(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(packetHeader(2, 0x10))
	var data [13]int
	data[0] = 0x1a2b3
	stream.Write(packetTriplets(2, 26, 0, data))

	pages, err := Read(&stream)
	require.NoError(t, err)
	require.Len(t, pages, 1)

	pkt, ok := pages[0].Enhancement(26, 0)
	require.True(t, ok)
	require.NotNil(t, pkt[0])
	assert.Equal(t, 0x1a2b3, *pkt[0])
}

func TestRead_SeparatesMagazines(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(packetHeader(0, 0x01))
	stream.Write(packetHeader(4, 0x01))
	stream.Write(packetRow(0, 1, "MAGZERO"))
	stream.Write(packetRow(4, 1, "MAGFOUR"))

	pages, err := Read(&stream)
	require.NoError(t, err)
	require.Len(t, pages, 2)

	byNumber := map[int]string{}
	for _, p := range pages {
		row := p.Rows[1]
		byNumber[p.Number] = string(row[:7])
	}
	assert.Equal(t, "MAGZERO", byNumber[0x800|0x01])
	assert.Equal(t, "MAGFOUR", byNumber[4<<8|0x01])
}
