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

// Package scan reports the partition table and FAT16 geometry of an image
// without walking its directory tree or extracting anything — the
// read-only "what is on this disk" half of the CLI, as distinct from the
// internal/recoverfs package that performs the actual recursive walk.
package scan

import (
	"fmt"

	"github.com/fatforensics/fat16recover/internal/disk"
	"github.com/fatforensics/fat16recover/internal/fs"
)

// PartitionReport summarizes one MBR entry, with FAT16 geometry populated
// only when the boot sector decodes successfully.
type PartitionReport struct {
	disk.PartitionDescriptor
	FAT16     bool
	Geometry  *disk.Geometry
	DecodeErr error
}

// Report opens path and describes every partition found in its MBR.
func Report(path string) ([]PartitionReport, error) {
	f, err := fs.Open(disk.NormalizeVolumePath(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var sector0 [disk.BootSectorSize]byte
	if _, err := f.ReadAt(sector0[:], 0); err != nil {
		return nil, fmt.Errorf("reading sector 0: %w", err)
	}

	parts, err := disk.DiscoverPartitions(sector0[:])
	if err != nil {
		return nil, err
	}

	reports := make([]PartitionReport, 0, len(parts))
	for _, p := range parts {
		r := PartitionReport{PartitionDescriptor: p}

		if p.Type.IsFAT16Candidate() {
			var bsSector [disk.BootSectorSize]byte
			off := int64(p.StartLBA) * disk.BootSectorSize
			if _, err := f.ReadAt(bsSector[:], off); err != nil {
				r.DecodeErr = err
			} else if bs, err := disk.ReadFatBootSectorFrom(bsSector[:]); err != nil {
				r.DecodeErr = err
			} else if geom, err := disk.NewGeometry(bs, p.StartLBA); err != nil {
				r.DecodeErr = err
			} else {
				r.FAT16 = true
				r.Geometry = geom
			}
		}
		reports = append(reports, r)
	}
	return reports, nil
}
