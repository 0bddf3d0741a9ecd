//go:build linux
// +build linux

package fs

import (
	"os"

	"golang.org/x/sys/unix"
)

// DeviceGeometry reports the logical sector size and total size of a raw
// block device, via the same BLKSSZGET/BLKGETSIZE64 ioctls PhotoRec-style
// tools use to avoid trusting a stale partition table. Returns an error for
// anything that is not an *os.File referring to a block device. The result
// is informational only: volume layout always comes from the boot sector.
func DeviceGeometry(f File) (sectorSize int64, size int64, err error) {
	osFile, ok := f.(*os.File)
	if !ok {
		return 0, 0, os.ErrInvalid
	}
	fd := int(osFile.Fd())

	ssz, err := unix.IoctlGetInt(fd, unix.BLKSSZGET)
	if err != nil {
		return 0, 0, err
	}

	total, err := unix.IoctlGetUint64(fd, unix.BLKGETSIZE64)
	if err != nil {
		return 0, 0, err
	}

	return int64(ssz), int64(total), nil
}
