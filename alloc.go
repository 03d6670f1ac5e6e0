package ghostfs

import "github.com/pkg/errors"

// ErrNoSpace is returned when the cluster store has no free clusters left
// to satisfy an allocation request.
var ErrNoSpace = newErr(KindNoSpace, "no space left")

// allocChain allocates n clusters, chains them in order (first.Next ->
// second -> ... -> last.Next = 0), marks each Used and dirty, and returns
// the index of the first cluster in the chain. If zero is true, each
// claimed cluster's payload is cleared before being handed out, so a fresh
// file or directory extension never exposes a previous occupant's bytes.
// If fewer than n free clusters are available, every cluster claimed so
// far is returned to the free pool before returning ErrNoSpace, mirroring
// the rollback loop in original_source/fs.c's alloc_clusters().
func allocChain(s *ClusterStore, n int, zero bool) (uint16, error) {
	if n <= 0 {
		return 0, errors.Errorf("ghostfs: invalid allocation size %d", n)
	}

	claimed := make([]uint16, 0, n)
	for idx := uint16(1); idx < s.Count() && len(claimed) < n; idx++ {
		c, err := s.At(idx)
		if err != nil {
			return 0, err
		}
		if !c.Used {
			claimed = append(claimed, idx)
		}
	}

	if len(claimed) < n {
		for _, idx := range claimed {
			c, _ := s.At(idx)
			c.Used = false
			c.Next = 0
		}
		return 0, ErrNoSpace
	}

	for i, idx := range claimed {
		c, err := s.At(idx)
		if err != nil {
			return 0, err
		}
		if zero {
			c.Data = [ClusterData]byte{}
		}
		c.Used = true
		if i+1 < len(claimed) {
			c.Next = claimed[i+1]
		} else {
			c.Next = 0
		}
		c.markDirty()
		s.MarkDirty(idx)
	}

	return claimed[0], nil
}

// freeChain walks the chain starting at head and marks every cluster in it
// free, clearing Next as it goes. head may be 0, in which case freeChain is
// a no-op (an empty chain has nothing to free).
func freeChain(s *ClusterStore, head uint16) error {
	idx := head
	for idx != 0 {
		c, err := s.At(idx)
		if err != nil {
			return err
		}
		next := c.Next
		c.Used = false
		c.Next = 0
		c.markDirty()
		s.MarkDirty(idx)
		idx = next
	}
	return nil
}

// extendChain appends n newly allocated, zeroed clusters to the end of the
// chain headed by head and returns the index of the first newly allocated
// cluster. head must be the first cluster of an existing chain: for a file,
// head 0 means no chain at all (use allocChain to create one), while the
// root directory's chain legitimately starts at cluster 0.
func extendChain(s *ClusterStore, head uint16, n int) (uint16, error) {
	tail := head
	for {
		c, err := s.At(tail)
		if err != nil {
			return 0, err
		}
		if c.Next == 0 {
			break
		}
		tail = c.Next
	}

	newHead, err := allocChain(s, n, true)
	if err != nil {
		return 0, err
	}

	tc, err := s.At(tail)
	if err != nil {
		return 0, err
	}
	tc.Next = newHead
	tc.markDirty()
	s.MarkDirty(tail)

	return newHead, nil
}
