package dfxml

// BuildByteRuns groups a cluster chain into the minimal set of byte_run
// elements needed to describe a (possibly fragmented) recovered file: one
// run per maximal sequence of contiguous clusters, truncated so the sum of
// run lengths never exceeds the file's recorded size. This is what lets a
// DFXML report describe a file recovered from a reused/fragmented chain
// faithfully instead of lying about contiguity.
func BuildByteRuns(clusters []uint32, clusterLBA func(uint32) uint32, sectorSize, sectorsPerCluster uint32, size uint64) ByteRuns {
	if len(clusters) == 0 {
		return ByteRuns{}
	}

	clusterBytes := uint64(sectorSize) * uint64(sectorsPerCluster)

	var runs []ByteRun
	var logicalOffset uint64
	remaining := size

	runStart := clusters[0]
	runLen := 1

	flush := func(start uint32, count int) {
		if remaining == 0 {
			return
		}
		length := uint64(count) * clusterBytes
		if length > remaining {
			length = remaining
		}
		runs = append(runs, ByteRun{
			Offset:    logicalOffset,
			ImgOffset: uint64(clusterLBA(start)) * uint64(sectorSize),
			Length:    length,
		})
		logicalOffset += length
		remaining -= length
	}

	for i := 1; i < len(clusters); i++ {
		if clusters[i] == clusters[i-1]+1 {
			runLen++
			continue
		}
		flush(runStart, runLen)
		runStart = clusters[i]
		runLen = 1
	}
	flush(runStart, runLen)

	return ByteRuns{Runs: runs}
}
