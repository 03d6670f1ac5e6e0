package ghostfs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFsckCleanTreeReportsNoIssues(t *testing.T) {
	fsys := newTestFS(t, 30)
	require.NoError(t, fsys.Mkdir("/dir"))
	fh, err := fsys.Create("/dir/a.txt")
	require.NoError(t, err)
	_, err = fh.WriteAt(make([]byte, ClusterData+10), 0)
	require.NoError(t, err)

	report, err := Fsck(fsys)
	require.NoError(t, err)
	require.Empty(t, report.Issues)
	require.Equal(t, 2, report.DirsChecked) // root + /dir
	require.Equal(t, 1, report.FilesChecked)
}

func TestFsckDetectsChainLengthMismatch(t *testing.T) {
	fsys := newTestFS(t, 30)
	fh, err := fsys.Create("/a.txt")
	require.NoError(t, err)
	_, err = fh.WriteAt(make([]byte, ClusterData+10), 0)
	require.NoError(t, err)

	// Corrupt the entry's reported size without updating the chain, so
	// the stored size implies more clusters than the chain actually has.
	entry := fh.entry
	entry.Size += uint32(ClusterData)
	require.NoError(t, writeSlot(fsys.store, fh.slot, entry))

	report, err := Fsck(fsys)
	require.NoError(t, err)
	require.Len(t, report.Issues, 1)
	require.Equal(t, "/a.txt", report.Issues[0].Path)
}
