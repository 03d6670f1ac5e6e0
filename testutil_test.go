package ghostfs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fingon/ghostfs/carrier"
	"github.com/fingon/ghostfs/codec"
)

// newTestFS formats a fresh in-memory filesystem sized to hold exactly
// clusterCount clusters plus the superblock header, generously multiplied
// into samples so LSB packing never runs short.
func newTestFS(t *testing.T, clusterCount uint16) *FS {
	t.Helper()
	mc := carrier.NewMemCarrier((superblockSize + int(clusterCount)*ClusterSize) * 8)
	c := codec.NewLSBCodec(mc)
	store, sb, err := Format(c)
	require.NoError(t, err)
	require.EqualValues(t, clusterCount, sb.ClusterCount)
	return &FS{store: store, sb: sb}
}
