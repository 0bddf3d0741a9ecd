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

// Package recoverfs wires the disk package's volume, walker and recovery
// writer together into the two workflows the CLI exposes: a full recover
// (walk + extract to the host file system) and a scan-only walk that just
// builds the in-memory tree for the FUSE mount to serve.
package recoverfs

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatforensics/fat16recover/internal/disk"
)

// Options configures Open.
type Options struct {
	PartitionIndex int // negative selects the first FAT16 candidate
	Log            *slog.Logger
}

// Open parses the image's MBR and boot sector and loads its FAT, returning
// a ready-to-walk Volume.
func Open(imagePath string, opts Options) (*disk.Volume, error) {
	return disk.Open(imagePath, disk.OpenOptions{
		PartitionIndex: opts.PartitionIndex,
		Log:            opts.Log,
	})
}

// Walk builds the RecoveredEntry tree without writing anything to the host
// file system, emitting a RecoveryEvent for every file with data and every
// directory with a starting cluster >= 2.
func Walk(vol *disk.Volume, events chan<- disk.RecoveryEvent) *disk.RecoveredEntry {
	w := disk.NewWalker(vol, events)
	return w.Walk()
}

// Recover walks vol and extracts every reachable file under outDir,
// preserving the reconstructed directory structure. Every directory entry
// with a starting cluster >= 2 gets its own host directory created, regardless of whether it (or its
// subtree) contains any recoverable file.
func Recover(vol *disk.Volume, outDir string, events chan<- disk.RecoveryEvent) *disk.RecoveredEntry {
	w := disk.NewWalker(vol, events)
	w.Recover = func(vol *disk.Volume, chain disk.ChainResult, size uint32, relPath string) (uint64, error) {
		return disk.RecoverFile(vol, chain, size, filepath.Join(outDir, filepath.FromSlash(relPath)))
	}
	w.RecoverDir = func(relPath string) error {
		return os.MkdirAll(filepath.Join(outDir, filepath.FromSlash(relPath)), 0755)
	}
	return w.Walk()
}
