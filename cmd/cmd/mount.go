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
package cmd

import (
	"path/filepath"
	"strings"

	"github.com/fatforensics/fat16recover/internal/fuse"
	"github.com/fatforensics/fat16recover/internal/recoverfs"
	"github.com/spf13/cobra"
)

func DefineMountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mount <image_path>",
		Short: "Mount a FAT16 volume's recovered tree as a read-only file system",
		Long: `The 'mount' command walks a FAT16 volume, including deleted entries, and
exposes the reconstructed directory tree as a read-only FUSE file system.
Deleted entries are listed with a leading '~' and are read the same way as
live files, by re-tracing their recorded cluster chain.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunMount,
	}

	cmd.Flags().StringP("mountpoint", "m", "", "Directory to mount the volume at (default: derived from the image name)")
	cmd.Flags().IntP("partition", "p", -1, "MBR partition index to mount (default: first FAT16 partition)")
	return cmd
}

func RunMount(cmd *cobra.Command, args []string) error {
	imagePath := args[0]

	partitionIndex, _ := cmd.Flags().GetInt("partition")
	vol, err := recoverfs.Open(imagePath, recoverfs.Options{PartitionIndex: partitionIndex})
	if err != nil {
		return err
	}
	defer vol.Close()

	mountpoint, _ := cmd.Flags().GetString("mountpoint")
	if mountpoint == "" {
		mountpoint = defaultMountpoint(imagePath)
	}

	root := recoverfs.Walk(vol, nil)
	return fuse.Mount(mountpoint, vol, root)
}

// defaultMountpoint derives a mountpoint name from the image name when the
// caller did not provide one explicitly.
func defaultMountpoint(imagePath string) string {
	base := filepath.Base(imagePath)
	ext := filepath.Ext(base)
	base = strings.TrimSuffix(base, ext)
	return base + "_mnt"
}
