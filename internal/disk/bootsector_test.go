package disk_test

import (
	"testing"

	"github.com/fatforensics/fat16recover/internal/disk"
	"github.com/stretchr/testify/require"
)

// buildBootSector produces a minimal but valid FAT16 BPB with the given
// field values, ready to pass to disk.ReadFatBootSectorFrom.
func buildBootSector(sectorSize uint16, sectorsPerCluster uint8, reserved uint16, numFATs uint8,
	rootEntries uint16, totalSectors uint16, fatSizeSectors uint16, fsType string) []byte {

	data := make([]byte, 512)
	putU16 := func(off int, v uint16) { data[off], data[off+1] = byte(v), byte(v>>8) }

	putU16(0x0B, sectorSize)
	data[0x0D] = sectorsPerCluster
	putU16(0x0E, reserved)
	data[0x10] = numFATs
	putU16(0x11, rootEntries)
	putU16(0x13, totalSectors)
	putU16(0x16, fatSizeSectors)
	copy(data[0x52:0x5A], fsType)

	data[0x1FE] = 0x55
	data[0x1FF] = 0xAA
	return data
}

func TestReadFatBootSectorFrom_DecodesFields(t *testing.T) {
	data := buildBootSector(512, 1, 1, 1, 16, 19, 1, "FAT16   ")

	bs, err := disk.ReadFatBootSectorFrom(data)
	require.NoError(t, err)
	require.EqualValues(t, 512, bs.SectorSize)
	require.EqualValues(t, 1, bs.SectorsPerCluster)
	require.EqualValues(t, 1, bs.ReservedSectors)
	require.EqualValues(t, 1, bs.NumFATs)
	require.EqualValues(t, 16, bs.RootEntryCount)
	require.EqualValues(t, 19, bs.TotalSectors())
	require.Equal(t, "FAT16", bs.FSTypeLabel())
}

func TestReadFatBootSectorFrom_FallsBackToLargeTotalSectors(t *testing.T) {
	data := buildBootSector(512, 4, 1, 2, 512, 0, 8, "FAT16   ")
	data[0x20], data[0x21], data[0x22], data[0x23] = 0x00, 0x00, 0x01, 0x00 // 65536

	bs, err := disk.ReadFatBootSectorFrom(data)
	require.NoError(t, err)
	require.EqualValues(t, 65536, bs.TotalSectors())
}

func TestReadFatBootSectorFrom_RejectsMissingSignature(t *testing.T) {
	data := buildBootSector(512, 1, 1, 1, 16, 19, 1, "FAT16   ")
	data[0x1FF] = 0

	_, err := disk.ReadFatBootSectorFrom(data)
	require.Error(t, err)
}

func TestReadFatBootSectorFrom_RejectsWrongSize(t *testing.T) {
	_, err := disk.ReadFatBootSectorFrom(make([]byte, 100))
	require.Error(t, err)
}
