package disk_test

import (
	"testing"

	"github.com/fatforensics/fat16recover/internal/disk"
	"github.com/stretchr/testify/require"
)

func TestNewGeometry_DerivesLBAs(t *testing.T) {
	data := buildBootSector(512, 1, 1, 1, 16, 19, 1, "FAT16   ")
	bs, err := disk.ReadFatBootSectorFrom(data)
	require.NoError(t, err)

	g, err := disk.NewGeometry(bs, 1)
	require.NoError(t, err)

	require.EqualValues(t, 2, g.FAT1StartLBA)  // partitionStart(1) + reserved(1)
	require.EqualValues(t, 3, g.RootDirLBA)    // fat1(2) + numFATs(1)*fatSize(1)
	require.EqualValues(t, 1, g.RootDirSectors) // ceil(16*32/512)
	require.EqualValues(t, 4, g.DataRegionLBA) // root(3) + rootDirSectors(1)
	require.EqualValues(t, 4, g.ClusterLBA(2)) // first data cluster starts at data region LBA
	require.EqualValues(t, 5, g.ClusterLBA(3))
}

func TestNewGeometry_RejectsImplausibleSectorSize(t *testing.T) {
	data := buildBootSector(100, 1, 1, 1, 16, 19, 1, "FAT16   ")
	bs, err := disk.ReadFatBootSectorFrom(data)
	require.NoError(t, err)

	_, err = disk.NewGeometry(bs, 1)
	require.Error(t, err)
}

func TestNewGeometry_RejectsNonPowerOfTwoCluster(t *testing.T) {
	data := buildBootSector(512, 3, 1, 1, 16, 19, 1, "FAT16   ")
	bs, err := disk.ReadFatBootSectorFrom(data)
	require.NoError(t, err)

	_, err = disk.NewGeometry(bs, 1)
	require.Error(t, err)
}

func TestNewGeometry_RejectsZeroFATs(t *testing.T) {
	data := buildBootSector(512, 1, 1, 0, 16, 19, 1, "FAT16   ")
	bs, err := disk.ReadFatBootSectorFrom(data)
	require.NoError(t, err)

	_, err = disk.NewGeometry(bs, 1)
	require.Error(t, err)
}
