package ghostfs

import "sync"

// FileHandle tracks an open regular file, giving Read/Write/Truncate a
// place to store the file's identity without re-resolving the path on
// every call, the same role original_source/fs.c's per-open struct
// ghostfs_file plays.
type FileHandle struct {
	fs *FS

	mu      sync.Mutex
	dir     uint16 // parent directory cluster
	slot    dirSlot
	name    string
	entry   *DirEntry
}

func newFileHandle(fs *FS, dir uint16, slot dirSlot, e *DirEntry) *FileHandle {
	return &FileHandle{fs: fs, dir: dir, slot: slot, name: e.Name, entry: e}
}

func (h *FileHandle) Size() uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entry.Size
}

func (h *FileHandle) ReadAt(buf []byte, offset int64) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return readFile(h.fs.store, h.entry.Cluster, h.entry.Size, offset, buf)
}

func (h *FileHandle) WriteAt(buf []byte, offset int64) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	newHead, newSize, err := writeFile(h.fs.store, h.entry.Cluster, h.entry.Size, offset, buf)
	if err != nil {
		return 0, err
	}
	h.entry.Cluster = newHead
	h.entry.Size = newSize
	if err := writeSlot(h.fs.store, h.slot, h.entry); err != nil {
		return 0, err
	}
	return len(buf), nil
}

func (h *FileHandle) Truncate(size uint32) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	newHead, err := truncateFile(h.fs.store, h.entry.Cluster, h.entry.Size, size)
	if err != nil {
		return err
	}
	h.entry.Cluster = newHead
	h.entry.Size = size
	return writeSlot(h.fs.store, h.slot, h.entry)
}

func (h *FileHandle) Fingerprint() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Fingerprint(h.fs.store, h.entry.Cluster, h.entry.Size)
}

// Release is a no-op today; it exists so callers have a symmetric
// open/close pair even though FileHandle holds no OS resources of its
// own.
func (h *FileHandle) Release() error { return nil }

// DirHandle iterates a directory's entries across repeated NextEntry calls,
// mirroring the opendir/readdir/closedir triple of original_source/fs.c.
type DirHandle struct {
	it *dirIterator
}

func newDirHandle(fs *FS, cluster uint16) *DirHandle {
	return &DirHandle{it: newDirIterator(fs.store, cluster)}
}

// NextEntry returns the next non-empty entry, or ok=false once the
// directory is exhausted.
func (h *DirHandle) NextEntry() (*DirEntry, bool, error) {
	for {
		_, e, ok, err := h.it.next()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, nil
		}
		if !e.empty() {
			return e, true, nil
		}
	}
}

func (h *DirHandle) Close() error { return nil }
