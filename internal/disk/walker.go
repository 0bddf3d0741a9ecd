package disk

import "path"

// MaxWalkDepth bounds directory recursion so that a malformed image —
// forged subdirectory cluster numbers, or '.'/'..' entries that were not
// correctly skipped — cannot drive the walker into unbounded recursion.
const MaxWalkDepth = 64

// RecoveredEntry is one node of the in-memory tree the walker builds while
// it processes a volume. It is kept around after the walk completes (not
// just streamed and discarded) so a FUSE mount can browse it without
// re-walking the image.
type RecoveredEntry struct {
	Name         string
	IsDir        bool
	Deleted      bool
	Size         uint32
	StartCluster uint32
	Children     []*RecoveredEntry // only for directories
}

// RecoveryEvent is emitted once for every file entry with a nonzero size and
// a starting cluster >= 2, once for every directory entry with a starting
// cluster >= 2, and once for every directory that could not be read or was
// skipped at MaxWalkDepth. Long-name fragments, volume labels, '.'/'..',
// zero-length files and entries with a starting cluster below 2 emit no
// event. It is the concrete shape of the specification's abstract progress
// channel.
type RecoveryEvent struct {
	RelPath      string
	IsDir        bool
	Deleted      bool
	Size         uint32
	BytesWritten uint64
	Clusters     []uint32 // the traced chain, for files; nil for directories
	Err          error
	SkippedDepth bool // true when a subdirectory was not entered due to MaxWalkDepth
}

// Walker performs the single-threaded recursive traversal of a volume's
// directory tree described in §4.5. A Walker is not safe for concurrent use
// (it is not reentrant across goroutines), matching the single-threaded
// cooperative model of §5.
type Walker struct {
	vol    *Volume
	Events chan<- RecoveryEvent

	// Recover, when set, receives the chain and root-relative path for every
	// live/deleted file with data encountered so the caller can decide whether (and
	// how) to materialize it on the host file system. When nil, the walker
	// only builds the RecoveredEntry tree and emits events — a "scan
	// without extraction" mode.
	Recover func(vol *Volume, chain ChainResult, size uint32, relPath string) (uint64, error)

	// RecoverDir, when set, is called once for every live/deleted
	// directory entry with a valid starting cluster, before its contents
	// are walked — independent of whether the directory turns out to
	// contain any recoverable file. When nil, the walker only builds the
	// RecoveredEntry tree and emits events.
	RecoverDir func(relPath string) error
}

func NewWalker(vol *Volume, events chan<- RecoveryEvent) *Walker {
	return &Walker{vol: vol, Events: events}
}

// Walk traverses the root directory and returns its reconstructed tree.
func (w *Walker) Walk() *RecoveredEntry {
	root := &RecoveredEntry{Name: "", IsDir: true}
	geom := w.vol.Geometry()

	data, err := w.vol.ReadSectors(uint64(geom.RootDirLBA), int(geom.RootDirSectors))
	if err != nil {
		w.emit(RecoveryEvent{RelPath: "/", IsDir: true, Err: err})
		return root
	}

	w.walkBlock(data, root, "", 0)
	return root
}

// walkDir reads a subdirectory's first cluster and walks its records. Per
// §9's documented Open Question, only the first cluster is read — matching
// the original source — so multi-cluster subdirectories are a known
// limitation rather than followed to completion.
func (w *Walker) walkDir(startCluster uint32, parent *RecoveredEntry, relPath string, depth int) {
	if depth >= MaxWalkDepth {
		w.emit(RecoveryEvent{RelPath: relPath, IsDir: true, SkippedDepth: true})
		return
	}

	geom := w.vol.Geometry()
	lba := uint64(geom.ClusterLBA(startCluster))

	data, err := w.vol.ReadSectors(lba, int(geom.SectorsPerCluster))
	if err != nil {
		w.emit(RecoveryEvent{RelPath: relPath, IsDir: true, Err: err})
		return
	}
	w.walkBlock(data, parent, relPath, depth)
}

func (w *Walker) walkBlock(data []byte, parent *RecoveredEntry, relPath string, depth int) {
	var pending []lfnFragment

	for off := 0; off+dirRecordSize <= len(data); off += dirRecordSize {
		entry := parseRawDirEntry(data[off : off+dirRecordSize])

		if entry.isEndMarker() {
			return
		}

		if entry.isLongName() {
			if !entry.isDeleted() {
				pending = append(pending, entry.parseLFNFragment())
			}
			continue
		}

		if entry.isVolumeLabel() {
			pending = nil
			continue
		}

		name := resolveName(entry, pending)
		pending = nil

		if name == "." || name == ".." {
			continue
		}

		deleted := entry.isDeleted()
		isDir := entry.isDirectory()
		startCluster := entry.firstCluster()
		size := entry.fileSize()
		childPath := path.Join(relPath, name)

		node := &RecoveredEntry{
			Name: name, IsDir: isDir, Deleted: deleted,
			Size: size, StartCluster: startCluster,
		}
		parent.Children = append(parent.Children, node)

		switch {
		case isDir && startCluster >= 2:
			var dirErr error
			if w.RecoverDir != nil {
				dirErr = w.RecoverDir(childPath)
			}
			w.emit(RecoveryEvent{RelPath: childPath, IsDir: true, Deleted: deleted, Err: dirErr})
			w.walkDir(startCluster, node, childPath, depth+1)

		case !isDir && size > 0 && startCluster >= 2:
			chain := w.vol.FAT().Chain(startCluster)
			var written uint64
			var err error
			if w.Recover != nil {
				written, err = w.Recover(w.vol, chain, size, childPath)
			}
			w.emit(RecoveryEvent{RelPath: childPath, IsDir: false, Deleted: deleted, Size: size, BytesWritten: written, Clusters: chain.Clusters, Err: err})

		default:
			// zero-length file or zero starting cluster: nothing to recover
		}
	}
}

func (w *Walker) emit(ev RecoveryEvent) {
	if w.Events != nil {
		w.Events <- ev
	}
}
