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
package disk

import (
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"unicode"

	"github.com/fatforensics/fat16recover/internal/fs"
)

// Volume is the single value that replaces the source's module-level
// globals: geometry and the loaded FAT are derived once, at Open, and every
// subsequent operation (walker, recovery writer, FUSE mount) takes a
// *Volume explicitly rather than reading package state. This is what makes
// it possible to open and walk more than one image in the same process,
// including concurrently from the read-only FUSE mount (§5).
type Volume struct {
	file     fs.File
	reader   *SectorReader
	geometry *Geometry
	fat      *FATTable
	log      *slog.Logger

	PartitionIndex int
}

// OpenOptions configures Volume.Open.
type OpenOptions struct {
	// PartitionIndex selects which of up to four MBR entries to mount. A
	// negative value (the default) picks the first FAT16 candidate found.
	PartitionIndex int
	Log            *slog.Logger
}

// Open parses the MBR and boot sector of the image at path and loads its
// FAT into memory. The returned Volume is read-only and safe to share
// across goroutines once constructed (see §5).
func Open(path string, opts OpenOptions) (*Volume, error) {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	f, err := fs.Open(NormalizeVolumePath(path))
	if err != nil {
		return nil, newErr(ErrInvalidImage, "Open", err)
	}

	if sectorSize, size, gerr := fs.DeviceGeometry(f); gerr == nil {
		log.Debug("raw device geometry", "sector_size", sectorSize, "size", size)
	}

	v := &Volume{file: f, log: log, PartitionIndex: opts.PartitionIndex}
	if err := v.load(); err != nil {
		f.Close()
		return nil, err
	}
	return v, nil
}

func (v *Volume) load() error {
	sector0, err := readAt(v.file, 0, BootSectorSize)
	if err != nil {
		return newErr(ErrInvalidImage, "Volume.load", err)
	}

	parts, err := DiscoverPartitions(sector0)
	if err != nil {
		return err
	}
	v.log.Debug("discovered partitions", "count", len(parts))

	part, err := selectPartition(parts, v.PartitionIndex)
	if err != nil {
		return err
	}
	v.log.Debug("selected partition", "index", part.Index, "type", part.Type, "start_lba", part.StartLBA)

	bsSector, err := readAt(v.file, int64(part.StartLBA)*BootSectorSize, BootSectorSize)
	if err != nil {
		return newErr(ErrInvalidImage, "Volume.load", err)
	}

	bs, err := ReadFatBootSectorFrom(bsSector)
	if err != nil {
		return err
	}

	geom, err := NewGeometry(bs, part.StartLBA)
	if err != nil {
		return err
	}
	v.geometry = geom
	v.reader = NewSectorReader(v.file, int64(geom.SectorSize))

	fatBytes, err := v.reader.ReadSectors(uint64(geom.FAT1StartLBA), int(geom.FATSizeSectors))
	if err != nil {
		return newErr(ErrInvalidImage, "Volume.load", fmt.Errorf("reading FAT: %w", err))
	}
	v.fat = NewFATTable(fatBytes)

	v.log.Debug("volume geometry", "root_dir_lba", geom.RootDirLBA, "data_region_lba", geom.DataRegionLBA,
		"sectors_per_cluster", geom.SectorsPerCluster)
	return nil
}

func readAt(f fs.File, off int64, n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := f.ReadAt(buf, off)
	if err != nil && read != n {
		return nil, fmt.Errorf("short read at offset %d: %w", off, err)
	}
	return buf, nil
}

// selectPartition picks the partition to mount: an explicit non-negative
// index if given, otherwise the first descriptor whose type byte is a
// FAT16 candidate. UnsupportedFs is returned if neither yields a usable
// partition.
func selectPartition(parts []PartitionDescriptor, index int) (PartitionDescriptor, error) {
	if index >= 0 {
		for _, p := range parts {
			if p.Index == index {
				if !p.Type.IsFAT16Candidate() {
					return PartitionDescriptor{}, newErr(ErrUnsupportedFs, "selectPartition",
						fmt.Errorf("partition %d has type 0x%02X, not FAT16", index, p.Type))
				}
				return p, nil
			}
		}
		return PartitionDescriptor{}, newErr(ErrUnsupportedFs, "selectPartition",
			fmt.Errorf("no partition at index %d", index))
	}

	for _, p := range parts {
		if p.Type.IsFAT16Candidate() {
			return p, nil
		}
	}
	return PartitionDescriptor{}, newErr(ErrUnsupportedFs, "selectPartition",
		fmt.Errorf("no FAT16 partition found among %d entries", len(parts)))
}

func (v *Volume) Geometry() *Geometry { return v.geometry }
func (v *Volume) FAT() *FATTable      { return v.fat }

// ReadSectors reads count sectors starting at lba through the volume's
// block reader.
func (v *Volume) ReadSectors(lba uint64, count int) ([]byte, error) {
	return v.reader.ReadSectors(lba, count)
}

// ReadCluster reads the raw bytes of a single data cluster.
func (v *Volume) ReadCluster(cluster uint32) ([]byte, error) {
	return v.reader.ReadSectors(uint64(v.geometry.ClusterLBA(cluster)), int(v.geometry.SectorsPerCluster))
}

func (v *Volume) Close() error {
	return v.file.Close()
}

// NormalizeVolumePath checks if a given path is a Windows volume path and
// normalizes it to \\.\C: format if running on Windows. Otherwise returns
// the path unchanged.
func NormalizeVolumePath(path string) string {
	if runtime.GOOS != "windows" {
		return path
	}

	path = strings.TrimSpace(path)
	path = strings.ReplaceAll(path, "/", `\`)
	upper := strings.ToUpper(path)

	if strings.HasPrefix(upper, `\\.\`) {
		return upper
	}
	if len(upper) >= 2 && upper[1] == ':' && unicode.IsLetter(rune(upper[0])) {
		return `\\.\` + strings.ToUpper(string(upper[0])) + `:`
	}
	return path
}
