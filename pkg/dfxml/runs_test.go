package dfxml_test

import (
	"testing"

	"github.com/fatforensics/fat16recover/pkg/dfxml"
	"github.com/stretchr/testify/require"
)

func lba(cluster uint32) uint32 { return 4 + (cluster - 2) } // 1 sector/cluster, data region at LBA 4

func TestBuildByteRuns_SingleContiguousRun(t *testing.T) {
	runs := dfxml.BuildByteRuns([]uint32{2, 3, 4}, lba, 512, 1, 1500)

	require.Len(t, runs.Runs, 1)
	require.EqualValues(t, 0, runs.Runs[0].Offset)
	require.EqualValues(t, 4*512, runs.Runs[0].ImgOffset)
	require.EqualValues(t, 1500, runs.Runs[0].Length)
}

func TestBuildByteRuns_SplitsAtFragmentation(t *testing.T) {
	// clusters 2,3 contiguous, then a gap to cluster 10
	runs := dfxml.BuildByteRuns([]uint32{2, 3, 10}, lba, 512, 1, 1536)

	require.Len(t, runs.Runs, 2)
	require.EqualValues(t, 0, runs.Runs[0].Offset)
	require.EqualValues(t, 1024, runs.Runs[0].Length)
	require.EqualValues(t, 1024, runs.Runs[1].Offset)
	require.EqualValues(t, 512, runs.Runs[1].Length)
	require.EqualValues(t, uint64(lba(10))*512, runs.Runs[1].ImgOffset)
}

func TestBuildByteRuns_TruncatesLastRunToRecordedSize(t *testing.T) {
	// two clusters of slack but the file is only 600 bytes
	runs := dfxml.BuildByteRuns([]uint32{2, 3}, lba, 512, 1, 600)

	require.Len(t, runs.Runs, 1)
	require.EqualValues(t, 600, runs.Runs[0].Length)
}

func TestBuildByteRuns_EmptyChain(t *testing.T) {
	runs := dfxml.BuildByteRuns(nil, lba, 512, 1, 0)
	require.Empty(t, runs.Runs)
}
