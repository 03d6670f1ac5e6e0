package ghostfs

// clustersForSize returns the number of clusters needed to hold size bytes
// of file payload, per cluster (rounding up, with 0 bytes needing 0
// clusters — an empty file owns no chain at all).
func clustersForSize(size uint32) int {
	if size == 0 {
		return 0
	}
	n := int(size) / ClusterData
	if int(size)%ClusterData != 0 {
		n++
	}
	return n
}

// readFile copies up to len(buf) bytes of the file's content starting at
// offset into buf, returning the number of bytes actually read. Reading
// past end-of-file yields 0, matching original_source/fs.c's
// ghostfs_read().
func readFile(store *ClusterStore, head uint16, size uint32, offset int64, buf []byte) (int, error) {
	if offset >= int64(size) {
		return 0, nil
	}
	toRead := int64(len(buf))
	if offset+toRead > int64(size) {
		toRead = int64(size) - offset
	}

	clusterIdx := int(offset / ClusterData)
	within := int(offset % ClusterData)

	cur := head
	for i := 0; i < clusterIdx; i++ {
		c, err := store.At(cur)
		if err != nil {
			return 0, err
		}
		cur = c.Next
	}

	var read int64
	for read < toRead {
		c, err := store.At(cur)
		if err != nil {
			return 0, err
		}
		n := int64(ClusterData - within)
		if n > toRead-read {
			n = toRead - read
		}
		copy(buf[read:read+n], c.Data[within:within+int(n)])
		read += n
		within = 0
		cur = c.Next
	}
	return int(read), nil
}

// writeFile writes buf into the file's chain at offset, growing the chain
// (and thus the file) as needed. It returns the file's new size. The
// caller is responsible for persisting the returned size and (possibly
// unchanged) head cluster into the owning DirEntry.
func writeFile(store *ClusterStore, head uint16, size uint32, offset int64, buf []byte) (newHead uint16, newSize uint32, err error) {
	end := offset + int64(len(buf))
	if end > 0x7fffffff {
		return 0, 0, newErr(KindTooLarge, "write would grow file past maximum size")
	}

	neededClusters := clustersForSize(uint32(end))
	haveClusters := clustersForSize(size)

	newHead = head
	if haveClusters == 0 && neededClusters > 0 {
		newHead, err = allocChain(store, neededClusters, true)
		if err != nil {
			return 0, 0, err
		}
	} else if neededClusters > haveClusters {
		if _, err = extendChain(store, head, neededClusters-haveClusters); err != nil {
			return 0, 0, err
		}
	}

	clusterIdx := int(offset / ClusterData)
	within := int(offset % ClusterData)

	cur := newHead
	for i := 0; i < clusterIdx; i++ {
		c, err := store.At(cur)
		if err != nil {
			return 0, 0, err
		}
		cur = c.Next
	}

	var written int64
	total := int64(len(buf))
	for written < total {
		c, err := store.At(cur)
		if err != nil {
			return 0, 0, err
		}
		n := int64(ClusterData - within)
		if n > total-written {
			n = total - written
		}
		copy(c.Data[within:within+int(n)], buf[written:written+n])
		c.markDirty()
		store.MarkDirty(cur)
		written += n
		within = 0
		cur = c.Next
	}

	newSize = size
	if uint32(end) > newSize {
		newSize = uint32(end)
	}
	return newHead, newSize, nil
}

// truncateFile grows or shrinks the file's chain to exactly newSize bytes,
// freeing any clusters no longer needed or allocating new zero-filled ones,
// mirroring original_source/fs.c's do_truncate().
func truncateFile(store *ClusterStore, head uint16, size uint32, newSize uint32) (resultHead uint16, err error) {
	haveClusters := clustersForSize(size)
	needClusters := clustersForSize(newSize)

	if needClusters == haveClusters {
		if needClusters > 0 {
			if err := zeroTail(store, head, newSize); err != nil {
				return 0, err
			}
		}
		return head, nil
	}

	if needClusters == 0 {
		if err := freeChain(store, head); err != nil {
			return 0, err
		}
		return 0, nil
	}

	if haveClusters == 0 {
		newHead, err := allocChain(store, needClusters, true)
		if err != nil {
			return 0, err
		}
		return newHead, nil
	}

	if needClusters > haveClusters {
		if _, err := extendChain(store, head, needClusters-haveClusters); err != nil {
			return 0, err
		}
		return head, nil
	}

	// Shrinking: walk to the new last cluster, sever and free the rest.
	cur := head
	for i := 0; i < needClusters-1; i++ {
		c, err := store.At(cur)
		if err != nil {
			return 0, err
		}
		cur = c.Next
	}
	c, err := store.At(cur)
	if err != nil {
		return 0, err
	}
	tail := c.Next
	c.Next = 0
	c.markDirty()
	store.MarkDirty(cur)

	if err := freeChain(store, tail); err != nil {
		return 0, err
	}
	if err := zeroTail(store, head, newSize); err != nil {
		return 0, err
	}
	return head, nil
}

// zeroTail zeroes the payload bytes of the last cluster in the chain past
// newSize, so that bytes beyond a shrunk file's logical end never leak old
// content if the file is grown again later.
func zeroTail(store *ClusterStore, head uint16, newSize uint32) error {
	if newSize == 0 {
		return nil
	}
	within := int(newSize % ClusterData)
	if within == 0 {
		return nil
	}
	clusterIdx := int(newSize / ClusterData)
	cur := head
	for i := 0; i < clusterIdx; i++ {
		c, err := store.At(cur)
		if err != nil {
			return err
		}
		cur = c.Next
	}
	c, err := store.At(cur)
	if err != nil {
		return err
	}
	for i := within; i < ClusterData; i++ {
		c.Data[i] = 0
	}
	c.markDirty()
	store.MarkDirty(cur)
	return nil
}
