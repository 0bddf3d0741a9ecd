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
	"io"

	"github.com/fatforensics/fat16recover/internal/fs"
)

const DefaultBlocksize = 512

// SectorReader performs positional, length-checked reads of whole sectors
// from an image. It never short-reads: a request that runs past EOF fails
// with ErrNotEnoughData instead of returning a truncated buffer.
type SectorReader struct {
	f          fs.File
	sectorSize int64
}

func NewSectorReader(f fs.File, sectorSize int64) *SectorReader {
	return &SectorReader{f: f, sectorSize: sectorSize}
}

// ReadSectors reads count sectors starting at lba and returns exactly
// count*sectorSize bytes.
func (r *SectorReader) ReadSectors(lba uint64, count int) ([]byte, error) {
	if count <= 0 {
		return nil, newErr(ErrNotEnoughData, "ReadSectors", fmt.Errorf("count must be positive, got %d", count))
	}

	size := int64(count) * r.sectorSize
	buf := make([]byte, size)

	n, err := r.f.ReadAt(buf, int64(lba)*r.sectorSize)
	if err != nil && !(err == io.EOF && int64(n) == size) {
		return nil, newErr(ErrNotEnoughData, "ReadSectors",
			fmt.Errorf("lba=%d count=%d: %w", lba, count, err))
	}
	if int64(n) != size {
		return nil, newErr(ErrNotEnoughData, "ReadSectors",
			fmt.Errorf("lba=%d count=%d: short read: got %d of %d bytes", lba, count, n, size))
	}
	return buf, nil
}

func (r *SectorReader) SectorSize() int64 { return r.sectorSize }
