package ghostfs

import "fmt"

// FsckIssue describes one consistency problem found while walking a
// mounted filesystem's tree.
type FsckIssue struct {
	Path   string
	Detail string
}

// FsckReport summarizes a read-only consistency pass over a mounted
// filesystem: the carrier's overall allocation state plus any chain-length
// mismatches found while walking the tree. Fsck never repairs anything; it
// only reports.
type FsckReport struct {
	ClustersTotal int
	ClustersUsed  int
	DirsChecked   int
	FilesChecked  int
	Issues        []FsckIssue
}

func (r *FsckReport) String() string {
	s := fmt.Sprintf("clusters: %d total, %d used\ndirs: %d, files: %d\n",
		r.ClustersTotal, r.ClustersUsed, r.DirsChecked, r.FilesChecked)
	if len(r.Issues) == 0 {
		return s + "no inconsistencies found\n"
	}
	s += fmt.Sprintf("%d inconsistencies found:\n", len(r.Issues))
	for _, iss := range r.Issues {
		s += fmt.Sprintf("  %s: %s\n", iss.Path, iss.Detail)
	}
	return s
}

// Fsck walks fsys's whole directory tree, verifying that each file's
// on-disk cluster chain length equals ceil(size/ClusterData), the same
// invariant clustersForSize encodes for allocation. It never mutates the
// carrier.
func Fsck(fsys *FS) (*FsckReport, error) {
	total := fsys.store.Count()
	report := &FsckReport{ClustersTotal: int(total)}

	for i := uint16(0); i < total; i++ {
		c, err := fsys.store.At(i)
		if err != nil {
			return nil, err
		}
		if c.Used {
			report.ClustersUsed++
		}
	}

	if err := fsckWalk(fsys, "/", RootCluster, report); err != nil {
		return nil, err
	}
	return report, nil
}

func fsckWalk(fsys *FS, path string, cluster uint16, report *FsckReport) error {
	report.DirsChecked++

	dh := newDirHandle(fsys, cluster)
	for {
		e, ok, err := dh.NextEntry()
		if err != nil {
			return err
		}
		if !ok {
			break
		}

		childPath := path + e.Name
		if e.IsDir {
			if err := fsckWalk(fsys, childPath+"/", e.Cluster, report); err != nil {
				return err
			}
			continue
		}

		report.FilesChecked++
		want := clustersForSize(e.Size)
		got, err := chainLength(fsys.store, e.Cluster)
		if err != nil {
			return err
		}
		if got != want {
			report.Issues = append(report.Issues, FsckIssue{
				Path:   childPath,
				Detail: fmt.Sprintf("size %d needs %d clusters, chain has %d", e.Size, want, got),
			})
		}
	}
	return nil
}

// chainLength counts the clusters in the chain headed by head, or 0 if
// head is the terminator (an empty file with no allocated clusters).
func chainLength(store *ClusterStore, head uint16) (int, error) {
	n := 0
	cur := head
	for cur != 0 {
		c, err := store.At(cur)
		if err != nil {
			return 0, err
		}
		n++
		cur = c.Next
	}
	return n, nil
}
