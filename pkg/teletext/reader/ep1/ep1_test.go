package ep1

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subpageHeader(lang byte, enhanced bool) []byte {
	fourth := byte(0x00)
	if enhanced {
		fourth = 0xca
	}
	return []byte{0xfe, 0x01, lang, fourth, 0x00, 0x00}
}

func blankRowBytes() []byte {
	b := make([]byte, 40)
	for i := range b {
		b[i] = 0x20
	}
	return b
}

func rowBytes(text string) []byte {
	b := blankRowBytes()
	copy(b, text)
	return b
}

func TestRead_SingleSubpageEnglish(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(subpageHeader(0x09, false))
	for row := 0; row < 24; row++ {
		if row == 3 {
			stream.Write(rowBytes("HELLO"))
		} else {
			stream.Write(blankRowBytes())
		}
	}

	pages, err := Read(&stream)
	require.NoError(t, err)
	require.Len(t, pages, 1)

	assert.Equal(t, 0, pages[0].Region)
	assert.False(t, pages[0].HasControlBit(12))
	require.True(t, pages[0].HasRow(3))
	assert.Equal(t, byte('H'), pages[0].Rows[3][0])
	assert.False(t, pages[0].HasRow(0))
}

func TestRead_UnknownLanguageDefaultsToEnglish(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(subpageHeader(0x99, false))
	for row := 0; row < 24; row++ {
		stream.Write(blankRowBytes())
	}

	pages, err := Read(&stream)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, 0, pages[0].Region)
}

func TestRead_MultiSubpageEnvelope(t *testing.T) {
	var stream bytes.Buffer
	stream.Write([]byte("JWC"))
	stream.WriteByte(2)
	stream.Write([]byte{0x00, 0x00})

	stream.Write(subpageHeader(0x0d, false))
	for row := 0; row < 24; row++ {
		stream.Write(blankRowBytes())
	}
	stream.Write(make([]byte, 42))

	stream.Write(subpageHeader(0x0d, false))
	for row := 0; row < 24; row++ {
		stream.Write(blankRowBytes())
	}

	pages, err := Read(&stream)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, 1, pages[0].Subcode)
	assert.Equal(t, 2, pages[1].Subcode)
}

func TestRead_EnhancementHeaderParsesTriplets(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(subpageHeader(0x09, true))
	stream.Write([]byte{0x00, 0x00, 40, 0x00})

	packet := make([]byte, 40)
	packet[1] = 10
	packet[2] = 0x04
	packet[3] = 'A'
	stream.Write(packet)

	for row := 0; row < 24; row++ {
		stream.Write(blankRowBytes())
	}

	pages, err := Read(&stream)
	require.NoError(t, err)
	require.Len(t, pages, 1)

	pkt, ok := pages[0].Enhancement(26, 0)
	require.True(t, ok)
	require.NotNil(t, pkt[0])
	want := 10 | (0x04 << 6) | (int('A') << 11)
	assert.Equal(t, want, *pkt[0])
}
