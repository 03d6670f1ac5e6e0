package codec

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fingon/ghostfs/carrier"
)

func TestLSBCapacity(t *testing.T) {
	c := NewLSBCodec(carrier.NewMemCarrier(80))
	require.EqualValues(t, 10, c.Capacity())
}

func TestLSBRoundTrip(t *testing.T) {
	mc := carrier.NewMemCarrier(8 * 64)
	c := NewLSBCodec(mc)

	rng := rand.New(rand.NewSource(1))
	data := make([]byte, 64)
	rng.Read(data)

	require.NoError(t, c.WriteAt(data, 0))

	out := make([]byte, 64)
	require.NoError(t, c.ReadAt(out, 0))
	require.Equal(t, data, out)
}

func TestLSBOnlyTouchesLowBit(t *testing.T) {
	mc := carrier.NewMemCarrier(8 * 4)
	// Seed samples with a recognizable high-bit pattern.
	seed := []byte{0xF0, 0xF1, 0xF2, 0xF3, 0xF4, 0xF5, 0xF6, 0xF7,
		0xE0, 0xE1, 0xE2, 0xE3, 0xE4, 0xE5, 0xE6, 0xE7,
		0xD0, 0xD1, 0xD2, 0xD3, 0xD4, 0xD5, 0xD6, 0xD7,
		0xC0, 0xC1, 0xC2, 0xC3, 0xC4, 0xC5, 0xC6, 0xC7}
	require.NoError(t, mc.WriteAt(seed, 0))

	c := NewLSBCodec(mc)
	require.NoError(t, c.WriteAt([]byte{0xAA, 0x55}, 0))

	after := make([]byte, len(seed))
	require.NoError(t, mc.ReadAt(after, 0))
	for i := range seed {
		require.Equal(t, seed[i]&^1, after[i]&^1, "sample %d: high bits must be unchanged", i)
	}

	out := make([]byte, 2)
	require.NoError(t, c.ReadAt(out, 0))
	require.Equal(t, []byte{0xAA, 0x55}, out)
}

func TestLSBBitOrderingMSBFirst(t *testing.T) {
	mc := carrier.NewMemCarrier(8)
	c := NewLSBCodec(mc)
	require.NoError(t, c.WriteAt([]byte{0x80}, 0)) // only MSB set

	samples := make([]byte, 8)
	require.NoError(t, mc.ReadAt(samples, 0))
	require.EqualValues(t, 1, samples[0]&1, "first sample must carry the MSB")
	for i := 1; i < 8; i++ {
		require.EqualValues(t, 0, samples[i]&1)
	}
}

func TestLSBOutOfRange(t *testing.T) {
	c := NewLSBCodec(carrier.NewMemCarrier(16))
	require.Error(t, c.ReadAt(make([]byte, 4), 0))
	require.Error(t, c.WriteAt(make([]byte, 4), 0))
}
