package ghostfs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fingon/ghostfs/carrier"
	"github.com/fingon/ghostfs/codec"
)

func newTestStore(t *testing.T, count uint16) *ClusterStore {
	t.Helper()
	mc := carrier.NewMemCarrier((superblockSize + int(count)*ClusterSize) * 8)
	c := codec.NewLSBCodec(mc)
	return NewClusterStore(c, count)
}

func TestClusterStoreAtOutOfRange(t *testing.T) {
	s := newTestStore(t, 4)
	_, err := s.At(4)
	require.Error(t, err)
}

func TestClusterStoreFlushPersists(t *testing.T) {
	s := newTestStore(t, 4)

	c, err := s.At(2)
	require.NoError(t, err)
	c.Data[0] = 0x42
	c.Used = true
	c.markDirty()
	s.MarkDirty(2)

	require.NoError(t, s.Flush())

	// A fresh store over the same codec must observe the write.
	s2 := NewClusterStore(s.codec, 4)
	c2, err := s2.At(2)
	require.NoError(t, err)
	require.EqualValues(t, 0x42, c2.Data[0])
	require.True(t, c2.Used)
}

func TestClusterStoreNextFollowsChain(t *testing.T) {
	s := newTestStore(t, 4)

	c1, err := s.At(1)
	require.NoError(t, err)
	c1.Next = 2
	c1.Used = true

	idx, c2, err := s.Next(1)
	require.NoError(t, err)
	require.EqualValues(t, 2, idx)
	require.NotNil(t, c2)

	_, c3, err := s.Next(2)
	require.NoError(t, err)
	require.Nil(t, c3)
}
