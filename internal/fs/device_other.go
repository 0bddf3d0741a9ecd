//go:build !linux
// +build !linux

package fs

import "os"

// DeviceGeometry is only implemented on Linux, where the BLKSSZGET/
// BLKGETSIZE64 ioctls are available; elsewhere it always returns
// os.ErrInvalid.
func DeviceGeometry(f File) (sectorSize int64, size int64, err error) {
	return 0, 0, os.ErrInvalid
}
