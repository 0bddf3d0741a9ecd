package disk

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Boot sector size in bytes (also the sector size assumed while reading it).
const BootSectorSize = 512

// FatBootSector is the on-disk BIOS Parameter Block of a FAT12/16/32 volume,
// decoded field-by-field at fixed offsets (see the BPB table in the
// specification) rather than mapped as a packed struct, since the fields
// above 0x24 only apply to FAT32 and a struct overlay would assume a single
// layout for both.
type FatBootSector struct {
	SectorSize        uint16 // 0x0B
	SectorsPerCluster uint8  // 0x0D
	ReservedSectors   uint16 // 0x0E
	NumFATs           uint8  // 0x10
	RootEntryCount    uint16 // 0x11
	TotalSectorsSmall uint16 // 0x13
	Media             uint8  // 0x15
	FATSizeSectors    uint16 // 0x16
	SectorsPerTrack   uint16 // 0x18
	NumHeads          uint16 // 0x1A
	HiddenSectors     uint32 // 0x1C
	TotalSectorsLarge uint32 // 0x20

	VolumeLabel [11]byte // 0x47 for FAT12/16 (BS_VolLab)
	FSType      [8]byte  // 0x52 for FAT12/16 (BS_FilSysType), e.g. "FAT16   "
}

// ReadFatBootSectorFrom decodes a 512-byte boot sector buffer. It validates
// only the trailing 0x55 0xAA signature; BPB field-value sanity (sector
// size, cluster size, FAT count, ...) is the job of Geometry validation so
// that the two failure modes (malformed sector vs. implausible geometry)
// stay distinguishable.
func ReadFatBootSectorFrom(data []byte) (*FatBootSector, error) {
	if len(data) != BootSectorSize {
		return nil, newErr(ErrInvalidImage, "ReadFatBootSectorFrom",
			fmt.Errorf("expected %d bytes, got %d bytes", BootSectorSize, len(data)))
	}

	if data[0x1FE] != 0x55 || data[0x1FF] != 0xAA {
		return nil, newErr(ErrInvalidImage, "ReadFatBootSectorFrom",
			fmt.Errorf("invalid boot sector signature: got %02X%02X", data[0x1FE], data[0x1FF]))
	}

	le := binary.LittleEndian
	bs := &FatBootSector{
		SectorSize:        le.Uint16(data[0x0B:]),
		SectorsPerCluster: data[0x0D],
		ReservedSectors:   le.Uint16(data[0x0E:]),
		NumFATs:           data[0x10],
		RootEntryCount:    le.Uint16(data[0x11:]),
		TotalSectorsSmall: le.Uint16(data[0x13:]),
		Media:             data[0x15],
		FATSizeSectors:    le.Uint16(data[0x16:]),
		SectorsPerTrack:   le.Uint16(data[0x18:]),
		NumHeads:          le.Uint16(data[0x1A:]),
		HiddenSectors:     le.Uint32(data[0x1C:]),
		TotalSectorsLarge: le.Uint32(data[0x20:]),
	}
	copy(bs.VolumeLabel[:], data[0x47:0x52])
	copy(bs.FSType[:], data[0x52:0x5A])
	return bs, nil
}

// TotalSectors returns the volume's total sector count, preferring the
// 16-bit field and falling back to the 32-bit one when it is zero.
func (b *FatBootSector) TotalSectors() uint32 {
	if b.TotalSectorsSmall != 0 {
		return uint32(b.TotalSectorsSmall)
	}
	return b.TotalSectorsLarge
}

// FSTypeLabel returns the ASCII filesystem-type label, trimmed of
// trailing padding spaces.
func (b *FatBootSector) FSTypeLabel() string {
	return string(bytes.TrimRight(b.FSType[:], " \x00"))
}
