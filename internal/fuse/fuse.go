// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package fuse

import (
	"context"
	"os"
	"sort"
	"time"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"

	"github.com/fatforensics/fat16recover/internal/disk"
)

// TreeFS serves the RecoveredEntry tree the walker built for a volume as a
// read-only FUSE file system. Unlike the flat byte-range listing a carve
// report would produce, this mirrors the actual FAT directory hierarchy —
// including deleted entries — and reads file contents by re-tracing each
// file's cluster chain rather than from a single contiguous byte range.
type TreeFS struct {
	vol  *disk.Volume
	root *disk.RecoveredEntry
}

func NewTreeFS(vol *disk.Volume, root *disk.RecoveredEntry) *TreeFS {
	return &TreeFS{vol: vol, root: root}
}

func (t *TreeFS) Root() (fusefs.Node, error) {
	return &Dir{fs: t, entry: t.root}, nil
}

// Dir implements fs.Node and fs.HandleReadDirAller for one directory node
// of the recovered tree.
type Dir struct {
	fs    *TreeFS
	entry *disk.RecoveredEntry
}

func (d *Dir) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Mode = os.ModeDir | 0555
	return nil
}

func (d *Dir) Lookup(ctx context.Context, name string) (fusefs.Node, error) {
	for _, c := range d.entry.Children {
		if displayName(c) != name {
			continue
		}
		if c.IsDir {
			return &Dir{fs: d.fs, entry: c}, nil
		}
		return &File{fs: d.fs, entry: c}, nil
	}
	return nil, fuse.ENOENT
}

func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	dirents := make([]fuse.Dirent, len(d.entry.Children))
	for i, c := range d.entry.Children {
		typ := fuse.DT_File
		if c.IsDir {
			typ = fuse.DT_Dir
		}
		dirents[i] = fuse.Dirent{Inode: uint64(i + 1), Name: displayName(c), Type: typ}
	}
	sort.Slice(dirents, func(i, j int) bool { return dirents[i].Name < dirents[j].Name })
	return dirents, nil
}

// displayName marks deleted entries the same way common recovery tools do,
// so a browsing examiner can tell a restored name from a live one.
func displayName(e *disk.RecoveredEntry) string {
	if e.Deleted {
		return "~" + e.Name
	}
	return e.Name
}

// File implements fs.Node and fs.HandleReader, streaming cluster data
// through the volume's FAT chain tracer on every read rather than holding
// the whole file in memory.
type File struct {
	fs    *TreeFS
	entry *disk.RecoveredEntry
}

func (f *File) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Mode = 0444
	a.Size = uint64(f.entry.Size)
	a.Mtime = time.Now()
	return nil
}

func (f *File) Read(ctx context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	size := f.entry.Size
	if req.Offset >= int64(size) {
		resp.Data = []byte{}
		return nil
	}

	chain := f.fs.vol.FAT().Chain(f.entry.StartCluster)
	geom := f.fs.vol.Geometry()
	clusterBytes := int64(geom.SectorSize) * int64(geom.SectorsPerCluster)

	readLen := int64(req.Size)
	if req.Offset+readLen > int64(size) {
		readLen = int64(size) - req.Offset
	}

	out := make([]byte, 0, readLen)
	var consumed int64
	for _, cluster := range chain.Clusters {
		if consumed+clusterBytes <= req.Offset {
			consumed += clusterBytes
			continue
		}

		data, err := f.fs.vol.ReadCluster(cluster)
		if err != nil {
			return err
		}

		start := int64(0)
		if consumed < req.Offset {
			start = req.Offset - consumed
		}
		end := int64(len(data))
		if consumed+int64(len(data)) > req.Offset+readLen {
			end = req.Offset + readLen - consumed
		}
		if start < end {
			out = append(out, data[start:end]...)
		}
		consumed += clusterBytes
		if int64(len(out)) >= readLen {
			break
		}
	}

	resp.Data = out
	return nil
}
