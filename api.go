// Package ghostfs implements a small hierarchical filesystem whose entire
// on-disk image lives inside the least-significant bits of an uncompressed
// BMP or WAV carrier file.
package ghostfs

import (
	"strconv"
	"strings"

	"github.com/fingon/ghostfs/carrier"
	"github.com/fingon/ghostfs/codec"
	"github.com/fingon/ghostfs/internal/obslog"
)

// FS is the mounted filesystem: a cluster store plus the superblock that
// governs its integrity header.
type FS struct {
	store *ClusterStore
	sb    *Superblock
}

// OpenBMPImage mounts the GhostFS image hidden inside the BMP file at path.
func OpenBMPImage(path string) (*FS, error) {
	c, err := carrier.OpenBMP(path)
	if err != nil {
		return nil, err
	}
	return mount(c)
}

// OpenWAVImage mounts the GhostFS image hidden inside the WAV file at path.
func OpenWAVImage(path string) (*FS, error) {
	c, err := carrier.OpenWAV(path)
	if err != nil {
		return nil, err
	}
	return mount(c)
}

func mount(c carrier.Carrier) (*FS, error) {
	lc := codec.NewLSBCodec(c)
	store, sb, err := Mount(lc)
	if err != nil {
		return nil, err
	}
	return &FS{store: store, sb: sb}, nil
}

// FormatBMPImage carves a fresh, empty GhostFS image into an existing BMP
// file, sized to fit as many clusters as the carrier's capacity allows
// (see clusterCountForCapacity). It discards whatever image data the file
// previously carried (its high bits are preserved; payload bits are not).
func FormatBMPImage(path string) (*FS, error) {
	c, err := carrier.OpenBMP(path)
	if err != nil {
		return nil, err
	}
	return format(c)
}

// FormatWAVImage is FormatBMPImage for WAV carriers.
func FormatWAVImage(path string) (*FS, error) {
	c, err := carrier.OpenWAV(path)
	if err != nil {
		return nil, err
	}
	return format(c)
}

func format(c carrier.Carrier) (*FS, error) {
	lc := codec.NewLSBCodec(c)
	store, sb, err := Format(lc)
	if err != nil {
		return nil, err
	}
	return &FS{store: store, sb: sb}, nil
}

// Sync flushes pending writes and recomputes the integrity digest.
func (fs *FS) Sync() error { return fs.sb.Sync(fs.store) }

// Close flushes the filesystem. Callers that took a carrier lock via
// LockCarrier are responsible for releasing it after Close returns.
func (fs *FS) Close() error { return fs.Sync() }

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// resolve walks path components starting at the root, returning the slot
// and entry of the final component plus the cluster of its parent
// directory. An empty path resolves to the root directory itself, whose
// slot is the zero value and whose entry is a synthetic directory entry.
func (fs *FS) resolve(path string) (parent uint16, slot dirSlot, e *DirEntry, err error) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return 0, dirSlot{}, &DirEntry{Name: "/", IsDir: true, Cluster: RootCluster}, nil
	}

	dir := uint16(RootCluster)
	for i, name := range parts {
		s, ent, lookupErr := lookupInDir(fs.store, dir, name)
		if lookupErr != nil {
			return 0, dirSlot{}, nil, lookupErr
		}
		if i == len(parts)-1 {
			return dir, s, ent, nil
		}
		if !ent.IsDir {
			return 0, dirSlot{}, nil, newErr(KindNotADirectory, "%q is not a directory", name)
		}
		dir = ent.Cluster
	}
	panic("unreachable")
}

func (fs *FS) resolveDir(path string) (uint16, error) {
	_, _, e, err := fs.resolve(path)
	if err != nil {
		return 0, err
	}
	if !e.IsDir {
		return 0, newErr(KindNotADirectory, "%q is not a directory", path)
	}
	return e.Cluster, nil
}

func splitParent(path string) (dir string, name string) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return "", ""
	}
	return strings.Join(parts[:len(parts)-1], "/"), parts[len(parts)-1]
}

// Mkdir creates an empty directory at path.
func (fs *FS) Mkdir(path string) error {
	dirPath, name := splitParent(path)
	if name == "" {
		return newErr(KindInvalid, "cannot create the root directory")
	}
	if len(name) > maxNameLen {
		return newErr(KindNameTooLong, "%q exceeds the maximum filename length", name)
	}

	parentCluster, err := fs.resolveDir(dirPath)
	if err != nil {
		return err
	}

	head, err := allocChain(fs.store, 1, true)
	if err != nil {
		return err
	}

	if err := createEntry(fs.store, parentCluster, &DirEntry{Name: name, IsDir: true, Cluster: head}); err != nil {
		freeChain(fs.store, head)
		return err
	}
	obslog.Tracef("api", "mkdir %s -> cluster %d", path, head)
	return nil
}

// Create creates an empty regular file at path.
func (fs *FS) Create(path string) (*FileHandle, error) {
	dirPath, name := splitParent(path)
	if name == "" {
		return nil, newErr(KindInvalid, "cannot create a file with no name")
	}
	if len(name) > maxNameLen {
		return nil, newErr(KindNameTooLong, "%q exceeds the maximum filename length", name)
	}

	parentCluster, err := fs.resolveDir(dirPath)
	if err != nil {
		return nil, err
	}

	e := &DirEntry{Name: name, IsDir: false, Cluster: 0, Size: 0}
	if err := createEntry(fs.store, parentCluster, e); err != nil {
		return nil, err
	}

	slot, _, err := lookupInDir(fs.store, parentCluster, name)
	if err != nil {
		return nil, err
	}
	return newFileHandle(fs, parentCluster, slot, e), nil
}

// Open opens an existing regular file at path for reading and writing.
func (fs *FS) Open(path string) (*FileHandle, error) {
	dir, slot, e, err := fs.resolve(path)
	if err != nil {
		return nil, err
	}
	if e.IsDir {
		return nil, newErr(KindIsADirectory, "%q is a directory", path)
	}
	return newFileHandle(fs, dir, slot, e), nil
}

// Opendir opens the directory at path for iteration.
func (fs *FS) Opendir(path string) (*DirHandle, error) {
	cluster, err := fs.resolveDir(path)
	if err != nil {
		return nil, err
	}
	return newDirHandle(fs, cluster), nil
}

// Remove deletes the file or empty directory at path.
func (fs *FS) Remove(path string) error {
	dirPath, name := splitParent(path)
	if name == "" {
		return newErr(KindInvalid, "cannot remove the root directory")
	}

	parentCluster, err := fs.resolveDir(dirPath)
	if err != nil {
		return err
	}

	_, e, err := lookupInDir(fs.store, parentCluster, name)
	if err != nil {
		return err
	}

	if e.IsDir {
		dh := newDirHandle(fs, e.Cluster)
		if _, ok, err := dh.NextEntry(); err != nil {
			return err
		} else if ok {
			return newErr(KindNotEmpty, "%q is not empty", path)
		}
	}

	if err := removeEntry(fs.store, parentCluster, name); err != nil {
		return err
	}
	return freeChain(fs.store, e.Cluster)
}

// Rename moves the file or directory at oldPath to newPath, silently
// clobbering an existing file or empty directory at newPath, matching
// original_source/fs.c's ghostfs_rename().
func (fs *FS) Rename(oldPath, newPath string) error {
	oldDirPath, oldName := splitParent(oldPath)
	newDirPath, newName := splitParent(newPath)
	if oldName == "" || newName == "" {
		return newErr(KindInvalid, "cannot rename the root directory")
	}
	if len(newName) > maxNameLen {
		return newErr(KindNameTooLong, "%q exceeds the maximum filename length", newName)
	}

	oldDir, err := fs.resolveDir(oldDirPath)
	if err != nil {
		return err
	}
	newDir, err := fs.resolveDir(newDirPath)
	if err != nil {
		return err
	}

	_, e, err := lookupInDir(fs.store, oldDir, oldName)
	if err != nil {
		return err
	}

	if _, existing, err := lookupInDir(fs.store, newDir, newName); err == nil {
		if existing.IsDir {
			dh := newDirHandle(fs, existing.Cluster)
			if _, ok, err := dh.NextEntry(); err != nil {
				return err
			} else if ok {
				return newErr(KindNotEmpty, "%q is not empty", newPath)
			}
		}
		if err := removeEntry(fs.store, newDir, newName); err != nil {
			return err
		}
		if err := freeChain(fs.store, existing.Cluster); err != nil {
			return err
		}
	}

	if err := removeEntry(fs.store, oldDir, oldName); err != nil {
		return err
	}
	renamed := &DirEntry{Name: newName, IsDir: e.IsDir, Size: e.Size, Cluster: e.Cluster}
	return createEntry(fs.store, newDir, renamed)
}

// Attr describes the metadata GhostFS tracks per file or directory.
type Attr struct {
	IsDir bool
	Size  uint64
}

// Getattr returns metadata for path. A directory's reported size is always
// exactly one cluster, matching original_source/fs.c's ghostfs_getattr(),
// which never accounts for a directory's actual chain length.
func (fs *FS) Getattr(path string) (Attr, error) {
	_, _, e, err := fs.resolve(path)
	if err != nil {
		return Attr{}, err
	}
	if e.IsDir {
		return Attr{IsDir: true, Size: ClusterSize}, nil
	}
	return Attr{IsDir: false, Size: uint64(e.Size)}, nil
}

// StatVFS describes filesystem-wide capacity, mirroring struct statvfs as
// populated by original_source/fs.c's ghostfs_statfs().
type StatVFS struct {
	BlockSize    uint32
	Blocks       uint64
	BlocksFree   uint64
	MaxNameBytes uint32
}

// Statvfs reports capacity for the mounted filesystem. MaxNameBytes is
// reported as the maximum file size rather than the maximum filename
// length, an original_source/fs.c quirk (it reuses FILESIZE_MAX for
// f_namemax) preserved here rather than corrected.
func (fs *FS) Statvfs() (StatVFS, error) {
	total := fs.store.Count()
	var free uint64
	for i := uint16(1); i < total; i++ {
		c, err := fs.store.At(i)
		if err != nil {
			return StatVFS{}, err
		}
		if !c.Used {
			free++
		}
	}
	return StatVFS{
		BlockSize:    ClusterSize,
		Blocks:       uint64(total),
		BlocksFree:   free,
		MaxNameBytes: 0x7fffffff,
	}, nil
}

// Debug returns a human-readable summary of the filesystem's allocation
// state (total and used cluster counts), intended for administrative
// inspection rather than programmatic use. It does not list the directory
// tree.
func (fs *FS) Debug() string {
	var b strings.Builder
	total := fs.store.Count()
	var used int
	for i := uint16(0); i < total; i++ {
		c, err := fs.store.At(i)
		if err != nil {
			continue
		}
		if c.Used {
			used++
		}
	}
	b.WriteString("clusters: ")
	b.WriteString(strconv.Itoa(int(total)))
	b.WriteString(" total, ")
	b.WriteString(strconv.Itoa(used))
	b.WriteString(" used\n")
	return b.String()
}
