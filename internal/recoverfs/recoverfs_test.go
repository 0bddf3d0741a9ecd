package recoverfs_test

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatforensics/fat16recover/internal/disk"
	"github.com/fatforensics/fat16recover/internal/recoverfs"
	"github.com/stretchr/testify/require"
)

// buildImageWithEmptyDir writes a minimal FAT16 image containing a live
// file "A.TXT" and a live, empty subdirectory "EMPTYDIR" that holds no
// entries of its own, so Recover must create it purely from the directory
// record rather than as a side effect of writing a file into it.
func buildImageWithEmptyDir(t *testing.T) string {
	t.Helper()

	sectors := make([][]byte, 6)
	for i := range sectors {
		sectors[i] = make([]byte, 512)
	}

	mbr := sectors[0]
	mbr[0x1BE+4] = 0x06
	binary.LittleEndian.PutUint32(mbr[0x1BE+8:], 1)
	binary.LittleEndian.PutUint32(mbr[0x1BE+12:], 5)
	mbr[0x1FE], mbr[0x1FF] = 0x55, 0xAA

	bs := sectors[1]
	putU16 := func(off int, v uint16) { bs[off], bs[off+1] = byte(v), byte(v>>8) }
	putU16(0x0B, 512)
	bs[0x0D] = 1 // sectors per cluster
	putU16(0x0E, 1)
	bs[0x10] = 1
	putU16(0x11, 16)
	putU16(0x13, 5)
	putU16(0x16, 1)
	bs[0x1FE], bs[0x1FF] = 0x55, 0xAA

	fat := sectors[2]
	binary.LittleEndian.PutUint16(fat[0:], 0xFFF8)
	binary.LittleEndian.PutUint16(fat[2:], 0xFFFF)
	binary.LittleEndian.PutUint16(fat[2*2:], 0xFFFF) // cluster 2 (A.TXT): EOC
	binary.LittleEndian.PutUint16(fat[3*2:], 0xFFFF) // cluster 3 (EMPTYDIR): EOC

	root := sectors[3]
	writeEntry := func(slot int, name [11]byte, attr byte, cluster uint32, size uint32) {
		off := slot * 32
		copy(root[off:off+11], name[:])
		root[off+0x0B] = attr
		binary.LittleEndian.PutUint16(root[off+0x1A:], uint16(cluster))
		binary.LittleEndian.PutUint32(root[off+0x1C:], size)
	}
	aName := [11]byte{'A', ' ', ' ', ' ', ' ', ' ', ' ', ' ', 'T', 'X', 'T'}
	dirName := [11]byte{'E', 'M', 'P', 'T', 'Y', 'D', 'I', 'R', ' ', ' ', ' '}
	writeEntry(0, aName, 0x20, 2, 3)
	writeEntry(1, dirName, 0x10, 3, 0)

	copy(sectors[4], []byte("aaa")) // cluster 2: A.TXT content
	// cluster 3 (EMPTYDIR contents) stays zero-filled: an immediate end marker.

	path := filepath.Join(t.TempDir(), "image.dd")
	buf := make([]byte, 0, len(sectors)*512)
	for _, s := range sectors {
		buf = append(buf, s...)
	}
	require.NoError(t, os.WriteFile(path, buf, 0644))
	return path
}

func TestRecover_CreatesEmptyDirectoryWithNoRecoverableFile(t *testing.T) {
	vol, err := recoverfs.Open(buildImageWithEmptyDir(t), recoverfs.Options{PartitionIndex: -1})
	require.NoError(t, err)
	defer vol.Close()

	outDir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.MkdirAll(outDir, 0755))

	events := make(chan disk.RecoveryEvent, 16)
	go func() {
		recoverfs.Recover(vol, outDir, events)
		close(events)
	}()
	for range events {
	}

	data, err := os.ReadFile(filepath.Join(outDir, "A.TXT"))
	require.NoError(t, err)
	require.Equal(t, "aaa", string(data))

	info, err := os.Stat(filepath.Join(outDir, "EMPTYDIR"))
	require.NoError(t, err)
	require.True(t, info.IsDir())
}
