//go:build !linux
// +build !linux

package fuse

import (
	"fmt"

	"github.com/fatforensics/fat16recover/internal/disk"
)

func Mount(mountpoint string, vol *disk.Volume, root *disk.RecoveredEntry) error {
	return fmt.Errorf("FUSE mount is only supported on Linux")
}
