package ghostfs

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/fingon/ghostfs/codec"
	"github.com/fingon/ghostfs/internal/obslog"
)

// ClusterStore is a read/write cache of Clusters backed by a codec.Codec.
// It never evicts: the whole filesystem lives in memory for the lifetime of
// a mount, the same tradeoff the teacher's storage.Storage makes for its
// ibtree node cache. Dirty clusters are flushed to the codec on Flush.
type ClusterStore struct {
	mu      sync.Mutex
	codec   codec.Codec
	count   uint16
	cache   map[uint16]*Cluster
}

// NewClusterStore opens a cluster store over codec c addressing exactly
// count clusters. c's capacity must be at least
// superblockSize+count*ClusterSize; this is not checked here since Format
// derives count from the capacity and Mount validates it against the
// capacity before constructing the store.
func NewClusterStore(c codec.Codec, count uint16) *ClusterStore {
	return &ClusterStore{
		codec: c,
		count: count,
		cache: make(map[uint16]*Cluster),
	}
}

func (s *ClusterStore) Count() uint16 { return s.count }

func (s *ClusterStore) checkIndex(idx uint16) error {
	if idx >= s.count {
		return errors.Errorf("cluster: index %d out of range [0,%d)", idx, s.count)
	}
	return nil
}

// codecOffset maps a cluster index to its byte offset in the codec's
// logical address space. Cluster 0 does not sit at offset 0: the
// superblock header (MD5 digest + cluster count) occupies the first
// superblockSize bytes, and every cluster is shifted past it.
func (s *ClusterStore) codecOffset(idx uint16) int64 {
	return int64(superblockSize) + int64(idx)*ClusterSize
}

// At returns the cluster at the given index, loading it from the codec on
// first access.
func (s *ClusterStore) At(idx uint16) (*Cluster, error) {
	if err := s.checkIndex(idx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.cache[idx]; ok {
		return c, nil
	}

	raw := make([]byte, ClusterSize)
	if err := s.codec.ReadAt(raw, s.codecOffset(idx)); err != nil {
		return nil, errors.Wrapf(err, "cluster: reading cluster %d", idx)
	}

	c := newCluster()
	c.decode(raw)
	s.cache[idx] = c
	obslog.Tracef("cluster", "loaded cluster %d (used=%v next=%d)", idx, c.Used, c.Next)
	return c, nil
}

// Next returns the cluster chained after c's index, or (nil, nil) if c.Next
// is the chain terminator (0). Cluster 0 is the root and can never appear as
// a successor, which is exactly what makes 0 safe to use as the terminator
// (see original_source/fs.c).
func (s *ClusterStore) Next(idx uint16) (uint16, *Cluster, error) {
	c, err := s.At(idx)
	if err != nil {
		return 0, nil, err
	}
	if c.Next == 0 {
		return 0, nil, nil
	}
	nc, err := s.At(c.Next)
	if err != nil {
		return 0, nil, err
	}
	return c.Next, nc, nil
}

// MarkDirty flags the cluster at idx for inclusion in the next Flush.
func (s *ClusterStore) MarkDirty(idx uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.cache[idx]; ok {
		c.markDirty()
	}
}

// Flush writes every dirty cluster back through the codec, in ascending
// index order so a partial failure leaves a deterministic prefix committed.
func (s *ClusterStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for idx := uint16(0); idx < s.count; idx++ {
		c, ok := s.cache[idx]
		if !ok || !c.isDirty() {
			continue
		}
		raw := c.encode()
		if err := s.codec.WriteAt(raw[:], s.codecOffset(idx)); err != nil {
			return errors.Wrapf(err, "cluster: flushing cluster %d", idx)
		}
		c.dirty = false
	}
	return nil
}
