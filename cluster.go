package ghostfs

import "encoding/binary"

const (
	// ClusterSize is the fixed size, in bytes, of every allocation unit.
	ClusterSize = 4096
	// ClusterData is the payload portion of a cluster; the remaining 4
	// bytes are the trailer (next, used, reserved).
	ClusterData = 4092
	// clusterDirents is the number of directory-entry slots a directory
	// cluster's payload is divided into. Only clusterDirents-1 of them are
	// ever reached by iteration — see dirIterator.next, and spec.md §9.
	clusterDirents = 66

	trailerSize = ClusterSize - ClusterData
)

// Cluster is the fixed 4096-byte allocation unit: 4092 bytes of payload
// followed by a 4-byte trailer. The trailer's dirty byte exists only in
// memory; on disk it is always written and read as zero.
type Cluster struct {
	Data [ClusterData]byte
	Next uint16
	Used bool

	dirty bool
}

func (c *Cluster) markDirty() { c.dirty = true }
func (c *Cluster) isDirty() bool { return c.dirty }

// encode serializes the cluster to its on-disk 4096-byte representation.
// The reserved trailer byte is always written as zero.
func (c *Cluster) encode() [ClusterSize]byte {
	var out [ClusterSize]byte
	copy(out[:ClusterData], c.Data[:])
	binary.LittleEndian.PutUint16(out[ClusterData:ClusterData+2], c.Next)
	if c.Used {
		out[ClusterData+2] = 1
	}
	out[ClusterData+3] = 0
	return out
}

// decode populates the cluster from its on-disk 4096-byte representation.
// The dirty flag is always cleared, matching original_source/fs.c's
// unmark_cluster() call at the end of read_cluster().
func (c *Cluster) decode(raw []byte) {
	copy(c.Data[:], raw[:ClusterData])
	c.Next = binary.LittleEndian.Uint16(raw[ClusterData : ClusterData+2])
	c.Used = raw[ClusterData+2] != 0
	c.dirty = false
}

func newCluster() *Cluster {
	return &Cluster{}
}
