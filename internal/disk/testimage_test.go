package disk_test

import (
	"encoding/binary"
	"os"
	"testing"

	"github.com/fatforensics/fat16recover/internal/disk"
)

// syntheticImage describes the minimal FAT16 layout used across the walker
// and recovery tests: sector size 512, 1 sector per cluster, a single FAT,
// a 1-sector root directory, and a handful of data clusters laid out by
// hand so every test can address cluster N directly.
//
// Layout (absolute LBA):
//
//	0:  MBR, one partition starting at LBA 1
//	1:  partition boot sector
//	2:  FAT (1 sector, 256 entries)
//	3:  root directory (1 sector, 16 entries)
//	4:  cluster 2
//	5:  cluster 3
//	6:  cluster 4 (SUBDIR contents)
//	7:  cluster 5 (deleted file contents)
//	8:  cluster 6 (INNER.TXT, inside SUBDIR)
const (
	clusterLBABase  = 4
	totalDiskSectors = 16
)

type syntheticImage struct {
	sectors [][]byte // one 512-byte slice per sector, index = LBA
}

func newSyntheticImage() *syntheticImage {
	img := &syntheticImage{sectors: make([][]byte, totalDiskSectors)}
	for i := range img.sectors {
		img.sectors[i] = make([]byte, 512)
	}
	return img
}

func (img *syntheticImage) sector(lba int) []byte { return img.sectors[lba] }

func (img *syntheticImage) writeFAT(entries map[uint32]uint16) {
	fat := img.sector(2)
	binary.LittleEndian.PutUint16(fat[0:], 0xFFF8) // media descriptor
	binary.LittleEndian.PutUint16(fat[2:], 0xFFFF) // reserved
	for cluster, v := range entries {
		binary.LittleEndian.PutUint16(fat[cluster*2:], v)
	}
}

// writeDirEntry writes one 32-byte short-name directory record at slot i of the
// given sector.
func writeDirEntry(sector []byte, slot int, shortName [11]byte, attr byte, firstCluster uint32, size uint32) {
	off := slot * 32
	copy(sector[off:off+11], shortName[:])
	sector[off+0x0B] = attr
	binary.LittleEndian.PutUint16(sector[off+0x14:], uint16(firstCluster>>16))
	binary.LittleEndian.PutUint16(sector[off+0x1A:], uint16(firstCluster))
	binary.LittleEndian.PutUint32(sector[off+0x1C:], size)
}

func sname(s string) [11]byte {
	var n [11]byte
	for i := range n {
		n[i] = ' '
	}
	copy(n[:], s)
	return n
}

// buildSyntheticFAT16Image writes a complete, valid FAT16 image to a fresh
// temp file containing:
//   - HELLO.TXT, a 600-byte live file spanning clusters 2-3
//   - SUBDIR, a live subdirectory at cluster 4 containing INNER.TXT
//   - a deleted 10-byte file at cluster 5
//
// and returns the path.
func buildSyntheticFAT16Image(t *testing.T) string {
	t.Helper()
	img := newSyntheticImage()

	// MBR: one bootable FAT16 partition starting at LBA 1.
	mbr := img.sector(0)
	e := fat16Entry(true, 1, totalDiskSectors-1)
	copy(mbr[0x1BE:0x1BE+16], e[:])
	mbr[0x1FE], mbr[0x1FF] = 0x55, 0xAA

	// Partition boot sector at LBA 1.
	bs := buildBootSector(512, 1, 1, 1, 16, uint16(totalDiskSectors-1), 1, "FAT16   ")
	copy(img.sector(1), bs)

	img.writeFAT(map[uint32]uint16{
		2: 3,      // HELLO.TXT: cluster 2 -> 3
		3: 0xFFFF, // -> EOC
		4: 0xFFFF, // SUBDIR: single cluster
		5: 0xFFFF, // deleted file: single cluster
		6: 0xFFFF, // INNER.TXT: single cluster
	})

	root := img.sector(3)
	writeDirEntry(root, 0, sname("HELLO   TXT"), 0x20, 2, 600)
	writeDirEntry(root, 1, sname("SUBDIR     "), 0x10, 4, 0)

	deletedName := sname("FOO     TXT")
	deletedName[0] = 0xE5
	writeDirEntry(root, 2, deletedName, 0x20, 5, 10)

	// cluster 2 + 3: HELLO.TXT content (600 bytes total)
	c2 := img.sector(clusterLBABase + 0)
	c3 := img.sector(clusterLBABase + 1)
	for i := range c2 {
		c2[i] = 'A'
	}
	for i := range c3 {
		c3[i] = 'B'
	}

	// cluster 4: SUBDIR contents, one entry for INNER.TXT at cluster 6
	subdir := img.sector(clusterLBABase + 2)
	writeDirEntry(subdir, 0, sname("INNER   TXT"), 0x20, 6, 5)

	// cluster 5: deleted file content
	c5 := img.sector(clusterLBABase + 3)
	copy(c5, []byte("0123456789"))

	// cluster 6: INNER.TXT content
	c6 := img.sector(clusterLBABase + 4)
	copy(c6, []byte("inner"))

	f, err := os.CreateTemp(t.TempDir(), "fat16image-*.img")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	for _, s := range img.sectors {
		if _, err := f.Write(s); err != nil {
			t.Fatal(err)
		}
	}
	return f.Name()
}
