package ghostfs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateWriteReadFileThroughAPI(t *testing.T) {
	fs := newTestFS(t, 20)

	fh, err := fs.Create("/hello.txt")
	require.NoError(t, err)

	n, err := fh.WriteAt([]byte("hello, ghostfs"), 0)
	require.NoError(t, err)
	require.Equal(t, 14, n)

	fh2, err := fs.Open("/hello.txt")
	require.NoError(t, err)
	buf := make([]byte, 14)
	n, err = fh2.ReadAt(buf, 0)
	require.NoError(t, err)
	require.Equal(t, "hello, ghostfs", string(buf[:n]))
}

func TestMkdirAndNestedCreate(t *testing.T) {
	fs := newTestFS(t, 20)

	require.NoError(t, fs.Mkdir("/docs"))
	fh, err := fs.Create("/docs/readme.txt")
	require.NoError(t, err)
	_, err = fh.WriteAt([]byte("hi"), 0)
	require.NoError(t, err)

	attr, err := fs.Getattr("/docs")
	require.NoError(t, err)
	require.True(t, attr.IsDir)
	require.EqualValues(t, ClusterSize, attr.Size)

	attr2, err := fs.Getattr("/docs/readme.txt")
	require.NoError(t, err)
	require.False(t, attr2.IsDir)
	require.EqualValues(t, 2, attr2.Size)
}

func TestOpendirListsEntries(t *testing.T) {
	fs := newTestFS(t, 20)
	require.NoError(t, fs.Mkdir("/a"))
	_, err := fs.Create("/b.txt")
	require.NoError(t, err)

	dh, err := fs.Opendir("/")
	require.NoError(t, err)

	names := map[string]bool{}
	for {
		e, ok, err := dh.NextEntry()
		require.NoError(t, err)
		if !ok {
			break
		}
		names[e.Name] = true
	}
	require.True(t, names["a"])
	require.True(t, names["b.txt"])
}

func TestRemoveNonEmptyDirFails(t *testing.T) {
	fs := newTestFS(t, 20)
	require.NoError(t, fs.Mkdir("/a"))
	_, err := fs.Create("/a/f.txt")
	require.NoError(t, err)

	err = fs.Remove("/a")
	require.Error(t, err)
	require.True(t, IsKind(err, KindNotEmpty))
}

func TestRemoveFileFreesItsChain(t *testing.T) {
	fs := newTestFS(t, 20)
	fh, err := fs.Create("/f.txt")
	require.NoError(t, err)
	_, err = fh.WriteAt(make([]byte, ClusterData+1), 0)
	require.NoError(t, err)

	require.NoError(t, fs.Remove("/f.txt"))

	_, err = fs.Open("/f.txt")
	require.Error(t, err)
	require.True(t, IsKind(err, KindNotFound))

	stat, err := fs.Statvfs()
	require.NoError(t, err)
	require.EqualValues(t, 19, stat.BlocksFree)
}

func TestRenameClobbersExistingFile(t *testing.T) {
	fs := newTestFS(t, 20)

	fh, err := fs.Create("/old.txt")
	require.NoError(t, err)
	_, err = fh.WriteAt([]byte("old"), 0)
	require.NoError(t, err)

	fh2, err := fs.Create("/new.txt")
	require.NoError(t, err)
	_, err = fh2.WriteAt([]byte("new content"), 0)
	require.NoError(t, err)

	require.NoError(t, fs.Rename("/old.txt", "/new.txt"))

	_, err = fs.Open("/old.txt")
	require.Error(t, err)

	out, err := fs.Open("/new.txt")
	require.NoError(t, err)
	buf := make([]byte, 3)
	n, err := out.ReadAt(buf, 0)
	require.NoError(t, err)
	require.Equal(t, "old", string(buf[:n]))
}

func TestStatvfsReportsFreeClusters(t *testing.T) {
	fs := newTestFS(t, 10)
	stat, err := fs.Statvfs()
	require.NoError(t, err)
	require.EqualValues(t, 10, stat.Blocks)
	require.EqualValues(t, 9, stat.BlocksFree)

	require.NoError(t, fs.Mkdir("/a"))
	stat2, err := fs.Statvfs()
	require.NoError(t, err)
	require.EqualValues(t, 8, stat2.BlocksFree)
}

func TestTruncateThroughAPI(t *testing.T) {
	fs := newTestFS(t, 10)
	fh, err := fs.Create("/f.txt")
	require.NoError(t, err)
	_, err = fh.WriteAt([]byte("0123456789"), 0)
	require.NoError(t, err)

	require.NoError(t, fh.Truncate(4))
	require.EqualValues(t, 4, fh.Size())

	buf := make([]byte, 4)
	n, err := fh.ReadAt(buf, 0)
	require.NoError(t, err)
	require.Equal(t, "0123", string(buf[:n]))
}
