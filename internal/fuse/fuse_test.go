package fuse_test

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"bazil.org/fuse"

	fusepkg "github.com/fatforensics/fat16recover/internal/fuse"
	"github.com/fatforensics/fat16recover/internal/recoverfs"
	"github.com/stretchr/testify/require"
)

// buildImage writes a single-cluster-per-file FAT16 image: a live file
// "A.TXT" (3 bytes) and a deleted file "B.TXT" (3 bytes), both in the root
// directory, so the mounted tree has exactly one live and one deleted leaf.
func buildImage(t *testing.T) string {
	t.Helper()

	sectors := make([][]byte, 10)
	for i := range sectors {
		sectors[i] = make([]byte, 512)
	}

	mbr := sectors[0]
	mbr[0x1BE+4] = 0x06
	binary.LittleEndian.PutUint32(mbr[0x1BE+8:], 1)
	binary.LittleEndian.PutUint32(mbr[0x1BE+12:], 9)
	mbr[0x1FE], mbr[0x1FF] = 0x55, 0xAA

	bs := sectors[1]
	putU16 := func(off int, v uint16) { bs[off], bs[off+1] = byte(v), byte(v>>8) }
	putU16(0x0B, 512)
	bs[0x0D] = 1 // sectors per cluster
	putU16(0x0E, 1)
	bs[0x10] = 1
	putU16(0x11, 16)
	putU16(0x13, 9)
	putU16(0x16, 1)
	bs[0x1FE], bs[0x1FF] = 0x55, 0xAA

	fat := sectors[2]
	binary.LittleEndian.PutUint16(fat[0:], 0xFFF8)
	binary.LittleEndian.PutUint16(fat[2:], 0xFFFF)
	binary.LittleEndian.PutUint16(fat[2*2:], 0xFFFF) // cluster 2 EOC
	binary.LittleEndian.PutUint16(fat[3*2:], 0xFFFF) // cluster 3 EOC

	root := sectors[3]
	writeEntry := func(slot int, name [11]byte, attr byte, cluster uint32, size uint32) {
		off := slot * 32
		copy(root[off:off+11], name[:])
		root[off+0x0B] = attr
		binary.LittleEndian.PutUint16(root[off+0x1A:], uint16(cluster))
		binary.LittleEndian.PutUint32(root[off+0x1C:], size)
	}
	aName := [11]byte{'A', ' ', ' ', ' ', ' ', ' ', ' ', ' ', 'T', 'X', 'T'}
	bName := [11]byte{0xE5, 'B', ' ', ' ', ' ', ' ', ' ', ' ', 'T', 'X', 'T'}
	writeEntry(0, aName, 0x20, 2, 3)
	writeEntry(1, bName, 0x20, 3, 3)

	copy(sectors[4], []byte("aaa")) // cluster 2
	copy(sectors[5], []byte("bbb")) // cluster 3

	path := filepath.Join(t.TempDir(), "image.dd")
	buf := make([]byte, 0, len(sectors)*512)
	for _, s := range sectors {
		buf = append(buf, s...)
	}
	require.NoError(t, os.WriteFile(path, buf, 0644))
	return path
}

func TestTreeFS_ListsLiveAndDeletedEntries(t *testing.T) {
	vol, err := recoverfs.Open(buildImage(t), recoverfs.Options{PartitionIndex: -1})
	require.NoError(t, err)
	defer vol.Close()

	root := recoverfs.Walk(vol, nil)
	treeFS := fusepkg.NewTreeFS(vol, root)

	node, err := treeFS.Root()
	require.NoError(t, err)
	dir := node.(*fusepkg.Dir)

	dirents, err := dir.ReadDirAll(context.Background())
	require.NoError(t, err)
	require.Len(t, dirents, 2)

	names := map[string]bool{}
	for _, d := range dirents {
		names[d.Name] = true
	}
	require.True(t, names["A.TXT"])
	require.True(t, names["~_B.TXT"])
}

func TestTreeFS_FileReadTracesChainAndTruncates(t *testing.T) {
	vol, err := recoverfs.Open(buildImage(t), recoverfs.Options{PartitionIndex: -1})
	require.NoError(t, err)
	defer vol.Close()

	root := recoverfs.Walk(vol, nil)
	treeFS := fusepkg.NewTreeFS(vol, root)

	node, err := treeFS.Root()
	require.NoError(t, err)
	dir := node.(*fusepkg.Dir)

	child, err := dir.Lookup(context.Background(), "A.TXT")
	require.NoError(t, err)
	file := child.(*fusepkg.File)

	var attr fuse.Attr
	require.NoError(t, file.Attr(context.Background(), &attr))
	require.EqualValues(t, 3, attr.Size)

	req := &fuse.ReadRequest{Offset: 0, Size: 512}
	resp := &fuse.ReadResponse{}
	require.NoError(t, file.Read(context.Background(), req, resp))
	require.Equal(t, "aaa", string(resp.Data))
}

func TestTreeFS_LookupMissingReturnsENOENT(t *testing.T) {
	vol, err := recoverfs.Open(buildImage(t), recoverfs.Options{PartitionIndex: -1})
	require.NoError(t, err)
	defer vol.Close()

	root := recoverfs.Walk(vol, nil)
	treeFS := fusepkg.NewTreeFS(vol, root)

	node, err := treeFS.Root()
	require.NoError(t, err)
	dir := node.(*fusepkg.Dir)

	_, err = dir.Lookup(context.Background(), "NOPE.TXT")
	require.Equal(t, fuse.ENOENT, err)
}
