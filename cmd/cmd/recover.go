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
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatforensics/fat16recover/internal/disk"
	"github.com/fatforensics/fat16recover/internal/env"
	"github.com/fatforensics/fat16recover/internal/logger"
	"github.com/fatforensics/fat16recover/internal/recoverfs"
	"github.com/fatforensics/fat16recover/pkg/dfxml"
	osutils "github.com/fatforensics/fat16recover/pkg/util/os"
	"github.com/spf13/cobra"
)

func DefineRecoverCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recover <image_path>",
		Short: "Walk a FAT16 volume and recover its files to a directory",
		Long: `The 'recover' command walks the directory tree of a FAT16 volume, including
deleted entries, and writes every recoverable file under the output directory,
preserving the reconstructed path structure.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunRecover,
	}
	cmd.Flags().StringP("output-dir", "o", "", "Directory recovered files are written under (default: <image name>-recovered)")
	cmd.Flags().IntP("partition", "p", -1, "MBR partition index to recover (default: first FAT16 partition)")
	cmd.Flags().String("report", "", "Optional DFXML report path")
	cmd.Flags().Bool("no-log", false, "Disable the detailed trace log")
	return cmd
}

func RunRecover(cmd *cobra.Command, args []string) error {
	imagePath := args[0]

	outDir, _ := cmd.Flags().GetString("output-dir")
	if outDir == "" {
		base := filepath.Base(imagePath)
		outDir = filepath.Join(".", base[:len(base)-len(filepath.Ext(base))]+"-recovered")
	}
	if _, err := osutils.EnsureDir(outDir, false); err != nil {
		return err
	}

	partitionIndex, _ := cmd.Flags().GetInt("partition")
	noLog, _ := cmd.Flags().GetBool("no-log")
	reportPath, _ := cmd.Flags().GetString("report")

	traceLevel := slog.LevelInfo
	if noLog {
		traceLevel = slog.LevelError + 1 // effectively silent; no dedicated "off" level exists
	}
	trace := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: traceLevel}))

	vol, err := recoverfs.Open(imagePath, recoverfs.Options{PartitionIndex: partitionIndex, Log: trace})
	if err != nil {
		return err
	}
	defer vol.Close()

	log := logger.New(os.Stdout, logger.InfoLevel)

	var report *dfxml.DFXMLWriter
	var reportFile *os.File
	if reportPath != "" {
		reportFile, err = os.Create(reportPath)
		if err != nil {
			return err
		}
		defer reportFile.Close()

		report = dfxml.NewDFXMLWriter(reportFile)
		imgInfo, _ := os.Stat(imagePath)
		var imgSize uint64
		if imgInfo != nil {
			imgSize = uint64(imgInfo.Size())
		}
		if err := report.WriteHeader(dfxml.DFXMLHeader{
			XmlOutput: dfxml.XmlOutputVersion,
			Metadata:  dfxml.DefaultMetadata,
			Creator: dfxml.Creator{
				Package:              env.AppName,
				Version:              env.Version,
				ExecutionEnvironment: dfxml.GetExecEnv(),
			},
			Source: dfxml.Source{
				ImageFilename: imagePath,
				SectorSize:    int(vol.Geometry().SectorSize),
				ImageSize:     imgSize,
			},
		}); err != nil {
			return err
		}
		defer report.Close()
	}

	events := make(chan disk.RecoveryEvent, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range events {
			logEvent(log, ev)
			if report != nil && ev.Err == nil && !ev.IsDir {
				writeReportEntry(report, vol, ev)
			}
		}
	}()

	recoverfs.Recover(vol, outDir, events)
	close(events)
	<-done

	return nil
}

func logEvent(log *logger.Logger, ev disk.RecoveryEvent) {
	switch {
	case ev.Err != nil:
		log.Errorf("%s: %v", ev.RelPath, ev.Err)
	case ev.SkippedDepth:
		log.Warnf("%s: max recursion depth reached, skipping", ev.RelPath)
	case ev.IsDir:
		if ev.Deleted {
			log.Infof("restoring directory %s (deleted)", ev.RelPath)
		} else {
			log.Infof("entering directory %s", ev.RelPath)
		}
	default:
		tag := ""
		if ev.Deleted {
			tag = " (deleted)"
		}
		log.Infof("recovered %s: %d/%d bytes%s", ev.RelPath, ev.BytesWritten, ev.Size, tag)
	}
}

func writeReportEntry(report *dfxml.DFXMLWriter, vol *disk.Volume, ev disk.RecoveryEvent) {
	g := vol.Geometry()
	runs := dfxml.BuildByteRuns(ev.Clusters, g.ClusterLBA, g.SectorSize, g.SectorsPerCluster, uint64(ev.Size))

	_ = report.WriteFileObject(dfxml.FileObject{
		Filename: ev.RelPath,
		FileSize: uint64(ev.Size),
		Deleted:  ev.Deleted,
		ByteRuns: runs,
	})
}
