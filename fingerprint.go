package ghostfs

import (
	"encoding/hex"
	"fmt"
	"hash"
	"sort"

	"github.com/minio/sha256-simd"
)

// Fingerprint is the hex-encoded SHA-256 digest of a file's content,
// computed off the cluster chain directly rather than through a Read
// call, so that fingerprinting a large file never forces the whole
// content through the public read path.
func Fingerprint(store *ClusterStore, head uint16, size uint32) (string, error) {
	h := sha256.New()
	remaining := int64(size)
	cur := head
	buf := make([]byte, ClusterData)

	for remaining > 0 {
		c, err := store.At(cur)
		if err != nil {
			return "", err
		}
		n := int64(ClusterData)
		if n > remaining {
			n = remaining
		}
		copy(buf[:n], c.Data[:n])
		h.Write(buf[:n])
		remaining -= n
		cur = c.Next
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// TreeFingerprint is the hex-encoded SHA-256 digest of an entire mounted
// filesystem's tree: every path, its directory/file flag, and every
// regular file's content, in a deterministic sorted walk order. Two
// carriers holding identical GhostFS trees produce the same
// TreeFingerprint regardless of their underlying allocation layout, which
// is what makes it useful for cross-carrier identity checks.
func TreeFingerprint(fsys *FS) (string, error) {
	h := sha256.New()
	if err := treeFingerprintWalk(fsys, "/", RootCluster, true, h); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func treeFingerprintWalk(fsys *FS, path string, cluster uint16, isDir bool, h hash.Hash) error {
	fmt.Fprintf(h, "%s\x00dir=%v\x00", path, isDir)

	if !isDir {
		return nil
	}

	dh := newDirHandle(fsys, cluster)
	var entries []*DirEntry
	for {
		e, ok, err := dh.NextEntry()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	for _, e := range entries {
		childPath := path + e.Name
		if e.IsDir {
			childPath += "/"
			if err := treeFingerprintWalk(fsys, childPath, e.Cluster, true, h); err != nil {
				return err
			}
			continue
		}
		fp, err := Fingerprint(fsys.store, e.Cluster, e.Size)
		if err != nil {
			return err
		}
		fmt.Fprintf(h, "%s\x00dir=false\x00size=%d\x00sha256=%s\x00", childPath, e.Size, fp)
	}
	return nil
}
