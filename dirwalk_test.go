package ghostfs

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestDir(t *testing.T, s *ClusterStore) uint16 {
	t.Helper()
	head, err := allocChain(s, 1, true)
	require.NoError(t, err)
	return head
}

func TestCreateAndLookupEntry(t *testing.T) {
	s := newTestStore(t, 10)
	dir := newTestDir(t, s)

	require.NoError(t, createEntry(s, dir, &DirEntry{Name: "a.txt", Size: 5}))

	_, e, err := lookupInDir(s, dir, "a.txt")
	require.NoError(t, err)
	require.Equal(t, "a.txt", e.Name)
}

func TestCreateEntryDuplicateRejected(t *testing.T) {
	s := newTestStore(t, 10)
	dir := newTestDir(t, s)

	require.NoError(t, createEntry(s, dir, &DirEntry{Name: "a.txt"}))
	err := createEntry(s, dir, &DirEntry{Name: "a.txt"})
	require.Error(t, err)
	require.True(t, IsKind(err, KindExists))
}

func TestLookupMissingReturnsNotFound(t *testing.T) {
	s := newTestStore(t, 10)
	dir := newTestDir(t, s)

	_, _, err := lookupInDir(s, dir, "nope")
	require.Error(t, err)
	require.True(t, IsKind(err, KindNotFound))
}

func TestRemoveEntryFreesSlot(t *testing.T) {
	s := newTestStore(t, 10)
	dir := newTestDir(t, s)

	require.NoError(t, createEntry(s, dir, &DirEntry{Name: "a.txt"}))
	require.NoError(t, removeEntry(s, dir, "a.txt"))

	_, _, err := lookupInDir(s, dir, "a.txt")
	require.Error(t, err)

	// The slot must be reusable.
	require.NoError(t, createEntry(s, dir, &DirEntry{Name: "b.txt"}))
}

func TestDirectoryOnlyReachesSixtyFiveSlotsPerCluster(t *testing.T) {
	s := newTestStore(t, 200)
	dir := newTestDir(t, s)

	for i := 0; i < reachableDirents; i++ {
		require.NoError(t, createEntry(s, dir, &DirEntry{Name: "f" + strconv.Itoa(i)}))
	}

	c, err := s.At(dir)
	require.NoError(t, err)
	require.EqualValues(t, 0, c.Next, "cluster should still be full without needing an extension")

	// One more entry must force a chain extension since the 66th slot of
	// the cluster is never visited by iteration.
	require.NoError(t, createEntry(s, dir, &DirEntry{Name: "overflow"}))
	c, err = s.At(dir)
	require.NoError(t, err)
	require.NotEqualValues(t, 0, c.Next)
}
