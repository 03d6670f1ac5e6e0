package ghostfs

// reachableDirents is the number of directory-entry slots actually visited
// per cluster during iteration. A cluster's data area fits exactly
// clusterDirents (66) slots of direntSize bytes each, but the directory
// walk inherited from original_source/fs.c stops one slot short per
// cluster — the last slot of every directory cluster is permanently dead
// space. This is preserved rather than fixed: on-disk layouts and any
// existing GhostFS image depend on it.
const reachableDirents = clusterDirents - 1

// dirSlot identifies one directory-entry slot by the cluster holding it and
// the slot's offset within that cluster's data area.
type dirSlot struct {
	cluster uint16
	index   int
}

func (s dirSlot) byteOffset() int { return s.index * direntSize }

// dirIterator walks every reachable slot of the cluster chain headed by a
// directory's starting cluster, in on-disk order.
type dirIterator struct {
	store *ClusterStore
	head  uint16

	cur   uint16
	idx   int
	atEnd bool
}

func newDirIterator(store *ClusterStore, head uint16) *dirIterator {
	return &dirIterator{store: store, head: head, cur: head, idx: 0}
}

// next returns the next slot and the DirEntry stored there, or ok=false
// once every reachable slot in the chain has been visited.
func (it *dirIterator) next() (dirSlot, *DirEntry, bool, error) {
	for {
		if it.atEnd {
			return dirSlot{}, nil, false, nil
		}
		if it.idx >= reachableDirents {
			c, err := it.store.At(it.cur)
			if err != nil {
				return dirSlot{}, nil, false, err
			}
			if c.Next == 0 {
				it.atEnd = true
				return dirSlot{}, nil, false, nil
			}
			it.cur = c.Next
			it.idx = 0
			continue
		}

		c, err := it.store.At(it.cur)
		if err != nil {
			return dirSlot{}, nil, false, err
		}
		slot := dirSlot{cluster: it.cur, index: it.idx}
		off := slot.byteOffset()
		e := decodeDirEntry(c.Data[off : off+direntSize])
		it.idx++
		return slot, e, true, nil
	}
}

// lookupInDir scans the directory chain headed by dirCluster for an entry
// named name, returning its slot and decoded entry.
func lookupInDir(store *ClusterStore, dirCluster uint16, name string) (dirSlot, *DirEntry, error) {
	it := newDirIterator(store, dirCluster)
	for {
		slot, e, ok, err := it.next()
		if err != nil {
			return dirSlot{}, nil, err
		}
		if !ok {
			return dirSlot{}, nil, errNotExist(name)
		}
		if !e.empty() && e.Name == name {
			return slot, e, nil
		}
	}
}

// findEmptySlot scans the directory chain for the first empty slot,
// extending the chain by one cluster if every reachable slot is occupied.
func findEmptySlot(store *ClusterStore, dirCluster uint16) (dirSlot, error) {
	it := newDirIterator(store, dirCluster)
	for {
		slot, e, ok, err := it.next()
		if err != nil {
			return dirSlot{}, err
		}
		if !ok {
			break
		}
		if e.empty() {
			return slot, nil
		}
	}

	newCl, err := extendChain(store, dirCluster, 1)
	if err != nil {
		return dirSlot{}, err
	}
	return dirSlot{cluster: newCl, index: 0}, nil
}

// writeSlot encodes e and stores it at slot, marking the owning cluster
// dirty.
func writeSlot(store *ClusterStore, slot dirSlot, e *DirEntry) error {
	c, err := store.At(slot.cluster)
	if err != nil {
		return err
	}
	buf, err := encodeDirEntry(e)
	if err != nil {
		return err
	}
	off := slot.byteOffset()
	copy(c.Data[off:off+direntSize], buf)
	c.markDirty()
	store.MarkDirty(slot.cluster)
	return nil
}

// createEntry adds a new entry named name to the directory chain headed by
// dirCluster. It fails with a KindExists error if an entry by that name
// already exists.
func createEntry(store *ClusterStore, dirCluster uint16, e *DirEntry) error {
	if _, _, err := lookupInDir(store, dirCluster, e.Name); err == nil {
		return errExist(e.Name)
	}
	slot, err := findEmptySlot(store, dirCluster)
	if err != nil {
		return err
	}
	return writeSlot(store, slot, e)
}

// removeEntry clears the slot occupied by name within the directory chain
// headed by dirCluster.
func removeEntry(store *ClusterStore, dirCluster uint16, name string) error {
	slot, _, err := lookupInDir(store, dirCluster, name)
	if err != nil {
		return err
	}
	return writeSlot(store, slot, &DirEntry{})
}

func errNotExist(name string) error {
	return newErr(KindNotFound, "%q does not exist", name)
}

func errExist(name string) error {
	return newErr(KindExists, "%q already exists", name)
}
