package t42

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func encode84(data int) byte {
	d1 := data & 1
	d2 := (data >> 1) & 1
	d3 := (data >> 2) & 1
	d4 := (data >> 3) & 1

	p1 := d1 ^ d2 ^ d4
	p2 := d1 ^ d3 ^ d4
	p3 := d2 ^ d3 ^ d4

	b := p1 | (p2 << 1) | (d1 << 2) | (p3 << 3) | (d2 << 4) | (d3 << 5) | (d4 << 6)
	overall := 0
	for pos := uint(0); pos < 7; pos++ {
		overall ^= (b >> pos) & 1
	}
	b |= overall << 7
	return byte(b)
}

func TestDecode84_RoundTrip(t *testing.T) {
	for data := 0; data < 16; data++ {
		got, ok := decode84(encode84(data))
		assert.True(t, ok)
		assert.Equal(t, data, got)
	}
}

func TestDecode84_CorrectsSingleBitError(t *testing.T) {
	encoded := encode84(0x5)
	for bit := uint(0); bit < 8; bit++ {
		flipped := encoded ^ (1 << bit)
		got, ok := decode84(flipped)
		assert.True(t, ok, "bit %d", bit)
		assert.Equal(t, 0x5, got, "bit %d", bit)
	}
}

func TestDecode84_DetectsDoubleBitError(t *testing.T) {
	encoded := encode84(0x3)
	flipped := encoded ^ 0x03 // flip two low bits together
	_, ok := decode84(flipped)
	assert.False(t, ok)
}

func encode24p18(data int) (byte, byte, byte) {
	positions := make([]int, 24)
	bitNo := 0
	for pos := 1; pos <= 23; pos++ {
		if pos == 1 || pos == 2 || pos == 4 || pos == 8 || pos == 16 {
			continue
		}
		positions[pos-1] = (data >> uint(bitNo)) & 1
		bitNo++
	}
	for k := uint(0); k < 5; k++ {
		parityPos := 1 << k
		group := 0
		for pos := 1; pos <= 23; pos++ {
			if pos != parityPos && pos&parityPos != 0 {
				group ^= positions[pos-1]
			}
		}
		positions[parityPos-1] = group
	}
	overall := 0
	for pos := 1; pos <= 23; pos++ {
		overall ^= positions[pos-1]
	}
	positions[23] = overall

	word := 0
	for pos := 1; pos <= 24; pos++ {
		word |= positions[pos-1] << uint(pos-1)
	}
	return byte(word), byte(word >> 8), byte(word >> 16)
}

func TestDecode24p18_RoundTrip(t *testing.T) {
	for _, data := range []int{0x00000, 0x3ffff, 0x1a2b3, 0x00001, 0x20000} {
		p0, p1, p2 := encode24p18(data)
		got, ok := decode24p18(p0, p1, p2)
		assert.True(t, ok)
		assert.Equal(t, data, got)
	}
}

func TestDecode24p18_CorrectsSingleBitError(t *testing.T) {
	p0, p1, p2 := encode24p18(0x12345)
	flipped := []byte{p0 ^ 0x01, p1, p2}
	got, ok := decode24p18(flipped[0], flipped[1], flipped[2])
	assert.True(t, ok)
	assert.Equal(t, 0x12345, got)
}
