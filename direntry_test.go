package ghostfs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirEntryEncodeDecodeRoundTrip(t *testing.T) {
	e := &DirEntry{Name: "notes.txt", IsDir: false, Size: 1024, Cluster: 7}
	buf, err := encodeDirEntry(e)
	require.NoError(t, err)
	require.Len(t, buf, direntSize)

	decoded := decodeDirEntry(buf)
	require.Equal(t, e.Name, decoded.Name)
	require.Equal(t, e.IsDir, decoded.IsDir)
	require.Equal(t, e.Size, decoded.Size)
	require.Equal(t, e.Cluster, decoded.Cluster)
}

func TestDirEntryDirFlagDoesNotLeakIntoSize(t *testing.T) {
	e := &DirEntry{Name: "sub", IsDir: true, Size: 0, Cluster: 3}
	buf, err := encodeDirEntry(e)
	require.NoError(t, err)

	decoded := decodeDirEntry(buf)
	require.True(t, decoded.IsDir)
	require.EqualValues(t, 0, decoded.Size)
}

func TestDirEntryNameTooLongRejected(t *testing.T) {
	e := &DirEntry{Name: strings.Repeat("x", maxNameLen+1)}
	_, err := encodeDirEntry(e)
	require.Error(t, err)
}

func TestDirEntryEmptySlotHasEmptyName(t *testing.T) {
	e := &DirEntry{}
	require.True(t, e.empty())
	buf, err := encodeDirEntry(e)
	require.NoError(t, err)
	decoded := decodeDirEntry(buf)
	require.True(t, decoded.empty())
}
