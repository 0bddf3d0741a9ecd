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
	"fmt"

	"github.com/fatforensics/fat16recover/internal/scan"
	fmtutil "github.com/fatforensics/fat16recover/pkg/util/format"
	"github.com/spf13/cobra"
)

func DefineScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "scan <image_path>",
		Short:        "Report the partition table and FAT16 geometry of an image",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunScan,
	}
	return cmd
}

func RunScan(cmd *cobra.Command, args []string) error {
	reports, err := scan.Report(args[0])
	if err != nil {
		return err
	}

	for _, r := range reports {
		fmt.Printf("Partition %d: type=0x%02X bootable=%v start_lba=%d size=%s\n",
			r.Index, r.Type, r.Bootable, r.StartLBA, fmtutil.FormatBytes(int64(r.SectorCount)*512))

		switch {
		case r.DecodeErr != nil:
			fmt.Printf("  not usable: %v\n", r.DecodeErr)
		case r.FAT16:
			g := r.Geometry
			fmt.Printf("  FAT16: sector_size=%d sectors_per_cluster=%d root_dir_lba=%d data_region_lba=%d\n",
				g.SectorSize, g.SectorsPerCluster, g.RootDirLBA, g.DataRegionLBA)
		}
	}
	return nil
}
