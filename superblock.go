package ghostfs

import (
	"crypto/md5"
	"encoding/binary"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"

	"github.com/fingon/ghostfs/codec"
	"github.com/fingon/ghostfs/internal/obslog"
)

const (
	// superblockSize is the size of the integrity header: a 16-byte MD5
	// digest followed by a 2-byte little-endian cluster count. It sits at
	// the very start of the codec's logical address space, ahead of
	// cluster 0, so every cluster is addressed at codecOffset(idx) rather
	// than idx*ClusterSize (see ClusterStore.codecOffset).
	superblockSize = md5.Size + 2

	// RootCluster is the index of the filesystem's root directory
	// cluster. It is never allocatable and never appears as a chain
	// successor, which is what makes 0 safe to use as a chain
	// terminator elsewhere.
	RootCluster = 0
)

// Superblock owns the carrier-level integrity digest and cluster count
// header that precedes cluster 0 in the codec's address space. Its lock
// field is never set by Format or Mount; the carrier lock is taken and
// released separately through LockCarrier and UnlockCarrier.
type Superblock struct {
	ClusterCount uint16

	lock *flock.Flock
}

// digest computes the MD5 covering the cluster count and the whole of
// cluster 0's encoded form, matching original_source/fs.c's
// compute_checksum().
func digest(clusterCount uint16, root *Cluster) [md5.Size]byte {
	h := md5.New()
	var countBuf [2]byte
	binary.LittleEndian.PutUint16(countBuf[:], clusterCount)
	h.Write(countBuf[:])
	raw := root.encode()
	h.Write(raw[:])
	var out [md5.Size]byte
	copy(out[:], h.Sum(nil))
	return out
}

// clusterCountForCapacity derives the number of clusters a carrier of the
// given byte capacity can hold, per spec.md §4.G:
// cluster_count = min(0xFFFF, (capacity - superblock_size) / ClusterSize).
// It returns 0 if the capacity cannot even fit the header plus one
// cluster.
func clusterCountForCapacity(capacity int64) uint16 {
	usable := capacity - superblockSize
	if usable < ClusterSize {
		return 0
	}
	n := usable / ClusterSize
	if n > 0xFFFF {
		n = 0xFFFF
	}
	return uint16(n)
}

// Format initializes a fresh filesystem over codec c: as many clusters as
// c's capacity allows (see clusterCountForCapacity), an empty root
// directory in cluster 0, and a valid integrity digest. It does not touch
// any lock file; callers that need exclusive access should pair Format
// with LockCarrier.
func Format(c codec.Codec) (*ClusterStore, *Superblock, error) {
	clusterCount := clusterCountForCapacity(c.Capacity())
	if clusterCount == 0 {
		return nil, nil, newErr(KindNoSpace, "carrier capacity %d too small for even one cluster plus the superblock header", c.Capacity())
	}

	store := NewClusterStore(c, clusterCount)
	root, err := store.At(RootCluster)
	if err != nil {
		return nil, nil, err
	}
	root.Data = [ClusterData]byte{}
	root.Used = true
	root.Next = 0
	root.markDirty()
	store.MarkDirty(RootCluster)

	for i := uint16(1); i < clusterCount; i++ {
		c, err := store.At(i)
		if err != nil {
			return nil, nil, err
		}
		c.Used = false
		c.markDirty()
		store.MarkDirty(i)
	}

	sb := &Superblock{ClusterCount: clusterCount}
	if err := sb.writeHeader(store); err != nil {
		return nil, nil, err
	}
	if err := store.Flush(); err != nil {
		return nil, nil, err
	}
	return store, sb, nil
}

// writeHeader recomputes and writes the digest+count header to the codec
// at the absolute offset preceding cluster 0. Callers must hold whatever
// synchronization is appropriate for store; writeHeader itself does not
// lock.
func (sb *Superblock) writeHeader(store *ClusterStore) error {
	root, err := store.At(RootCluster)
	if err != nil {
		return err
	}

	d := digest(sb.ClusterCount, root)

	var header [superblockSize]byte
	copy(header[:md5.Size], d[:])
	binary.LittleEndian.PutUint16(header[md5.Size:superblockSize], sb.ClusterCount)

	return store.codec.WriteAt(header[:], 0)
}

// Mount reads and validates the superblock header that precedes cluster 0
// in the codec's address space, returning a ready ClusterStore on success.
func Mount(c codec.Codec) (*ClusterStore, *Superblock, error) {
	if c.Capacity() < superblockSize+ClusterSize {
		return nil, nil, newErr(KindCorrupt, "carrier too small to hold a superblock and even one cluster")
	}

	var header [superblockSize]byte
	if err := c.ReadAt(header[:], 0); err != nil {
		return nil, nil, err
	}

	var wantDigest [md5.Size]byte
	copy(wantDigest[:], header[:md5.Size])
	count := binary.LittleEndian.Uint16(header[md5.Size:superblockSize])

	if count == 0 {
		return nil, nil, newErr(KindCorrupt, "superblock reports zero clusters")
	}
	if int64(superblockSize)+int64(count)*ClusterSize > c.Capacity() {
		return nil, nil, newErr(KindCorrupt, "superblock cluster count %d exceeds carrier capacity", count)
	}

	store := NewClusterStore(c, count)
	root, err := store.At(RootCluster)
	if err != nil {
		return nil, nil, err
	}

	got := digest(count, root)
	if got != wantDigest {
		return nil, nil, newErr(KindCorrupt, "superblock digest mismatch: carrier is not a GhostFS image or is corrupted")
	}

	sb := &Superblock{ClusterCount: count}
	obslog.Tracef("superblock", "mounted %d clusters", count)
	return store, sb, nil
}

// Sync recomputes the integrity digest and flushes every dirty cluster
// back through the codec.
func (sb *Superblock) Sync(store *ClusterStore) error {
	if err := sb.writeHeader(store); err != nil {
		return err
	}
	return store.Flush()
}

// LockCarrier takes an advisory, process-exclusive lock on the carrier
// file at path for the duration of a mount, refusing to mount an image two
// processes might write concurrently. It is a no-op for in-memory
// carriers, which have no path to lock.
func LockCarrier(path string) (*flock.Flock, error) {
	if path == "" {
		return nil, nil
	}
	fl := flock.New(path + ".lock")
	locked, err := fl.TryLock()
	if err != nil {
		return nil, errors.Wrapf(err, "ghostfs: locking carrier %s", path)
	}
	if !locked {
		return nil, newErr(KindInvalid, "carrier %s is already mounted by another process", path)
	}
	return fl, nil
}

// UnlockCarrier releases a lock taken by LockCarrier. It is safe to call
// with a nil lock.
func UnlockCarrier(fl *flock.Flock) error {
	if fl == nil {
		return nil
	}
	return fl.Unlock()
}
