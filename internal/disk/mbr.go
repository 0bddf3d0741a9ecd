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
	"encoding/binary"
	"fmt"
)

// MBRPartitionEntry represents a single 16-byte entry in the MBR's partition
// table. Multi-byte fields are stored as byte arrays so endianness is
// handled explicitly rather than relying on struct layout.
type MBRPartitionEntry struct {
	BootIndicator uint8        // 0x00: 0x80 for bootable, 0x00 for inactive
	StartCHS      [3]byte      // 0x01: starting CHS address (ignored)
	PartitionType MBRPartition // 0x04: partition type ID
	EndCHS        [3]byte      // 0x05: ending CHS address (ignored)
	StartLBA      [4]byte      // 0x08: starting LBA, little-endian uint32
	TotalSectors  [4]byte      // 0x0C: total sectors, little-endian uint32
}

func (p *MBRPartitionEntry) ReadStartLBA() uint32 {
	return binary.LittleEndian.Uint32(p.StartLBA[:])
}

func (p *MBRPartitionEntry) ReadTotalSectors() uint32 {
	return binary.LittleEndian.Uint32(p.TotalSectors[:])
}

// IsEmpty reports whether the 16-byte entry was never populated.
func (p *MBRPartitionEntry) IsEmpty() bool {
	return p.BootIndicator == 0 && p.PartitionType == 0 &&
		p.ReadStartLBA() == 0 && p.ReadTotalSectors() == 0
}

func (p *MBRPartitionEntry) String() string {
	bootable := "No"
	if p.BootIndicator == 0x80 {
		bootable = "Yes"
	}
	return fmt.Sprintf("  Bootable: %s (0x%02X)\n"+
		"  Partition Type: 0x%02X (%s)\n"+
		"  Start LBA: %d\n"+
		"  Total Sectors: %d\n"+
		"  Size: %s",
		bootable, p.BootIndicator,
		p.PartitionType, getPartitionTypeName(p.PartitionType),
		p.ReadStartLBA(),
		p.ReadTotalSectors(),
		formatBytes(uint64(p.ReadTotalSectors())*512))
}

// MBR represents the Master Boot Record structure.
type MBR struct {
	BootCode         [440]byte
	DiskSignature    [4]byte
	Reserved         [2]byte
	PartitionEntries [4]MBRPartitionEntry
	Signature        [2]byte
}

func (m *MBR) ReadDiskSignature() uint32 { return binary.LittleEndian.Uint32(m.DiskSignature[:]) }
func (m *MBR) ReadSignature() uint16     { return binary.LittleEndian.Uint16(m.Signature[:]) }

func (m *MBR) String() string {
	s := fmt.Sprintf("--- Master Boot Record (MBR) ---\n"+
		"Disk Signature: 0x%08X\n"+
		"MBR Signature: 0x%04X (Expected: 0xAA55)\n\n"+
		"--- Partition Table Entries ---",
		m.ReadDiskSignature(), m.ReadSignature())

	for i, entry := range m.PartitionEntries {
		s += fmt.Sprintf("\nPartition %d:\n%s", i+1, entry.String())
	}
	return s
}

// ParseMBR parses a 512-byte slice into an MBR struct. Input that is not
// exactly 512 bytes, or whose trailing 0x55 0xAA signature is missing, is
// rejected with ErrInvalidImage.
func ParseMBR(data []byte) (*MBR, error) {
	const mbrSize = 512
	const sigOffset = 0x1FE

	if len(data) != mbrSize {
		return nil, newErr(ErrInvalidImage, "ParseMBR",
			fmt.Errorf("expected %d bytes, got %d bytes", mbrSize, len(data)))
	}

	var mbr MBR
	copy(mbr.BootCode[:], data[0x000:0x1B8])
	copy(mbr.DiskSignature[:], data[0x1B8:0x1BC])
	copy(mbr.Reserved[:], data[0x1BC:0x1BE])

	for i := 0; i < 4; i++ {
		off := 0x1BE + i*16
		e := data[off : off+16]

		mbr.PartitionEntries[i].BootIndicator = e[0x00]
		copy(mbr.PartitionEntries[i].StartCHS[:], e[0x01:0x04])
		mbr.PartitionEntries[i].PartitionType = MBRPartition(e[0x04])
		copy(mbr.PartitionEntries[i].EndCHS[:], e[0x05:0x08])
		copy(mbr.PartitionEntries[i].StartLBA[:], e[0x08:0x0C])
		copy(mbr.PartitionEntries[i].TotalSectors[:], e[0x0C:0x10])
	}

	copy(mbr.Signature[:], data[sigOffset:sigOffset+2])

	if mbr.ReadSignature() != 0xAA55 {
		return nil, newErr(ErrInvalidImage, "ParseMBR",
			fmt.Errorf("invalid MBR signature: expected 0xAA55, got 0x%04X", mbr.ReadSignature()))
	}
	return &mbr, nil
}

type MBRPartition uint8

// Partition type IDs are not sequential in the MBR spec, so each constant
// carries its real on-disk byte value explicitly rather than relying on
// iota — a sequential assignment previously put PartitionTypeFAT16LBA at
// 0x0D instead of its actual byte, 0x0E.
const (
	PartitionTypeEmpty                MBRPartition = 0x00
	PartitionTypeFAT12                MBRPartition = 0x01
	PartitionTypeXENIXRoot             MBRPartition = 0x02
	PartitionTypeXENIXUsr              MBRPartition = 0x03
	PartitionTypeFAT16LessThan32MB    MBRPartition = 0x04
	PartitionTypeExtendedCHS          MBRPartition = 0x05
	PartitionTypeFAT16GreaterThan32MB MBRPartition = 0x06
	PartitionTypeNTFSHPFSexFATQNX     MBRPartition = 0x07
	PartitionTypeAIX                  MBRPartition = 0x08
	PartitionTypeAIXBootable          MBRPartition = 0x09
	PartitionTypeOs2BootManager       MBRPartition = 0x0A
	PartitionTypeFAT32CHS             MBRPartition = 0x0B
	PartitionTypeFAT32LBA             MBRPartition = 0x0C
	PartitionTypeFAT16LBA             MBRPartition = 0x0E
	PartitionTypeExtendedLBA          MBRPartition = 0x0F
	PartitionTypeLinuxSwap            MBRPartition = 0x82
	PartitionTypeLinuxFilesystem      MBRPartition = 0x83
	PartitionTypeGPTProtectiveMBR     MBRPartition = 0xEE
	PartitionTypeEFISystemPartition   MBRPartition = 0xEF
)

// IsFAT16Candidate reports whether the partition type byte is one of the
// well-known FAT16 identifiers (0x04, 0x06, 0x0E); FAT12 (0x01) is not
// included. It does not guarantee the boot sector
// will actually decode as FAT16 — that is left to the boot-sector decoder.
func (t MBRPartition) IsFAT16Candidate() bool {
	switch t {
	case PartitionTypeFAT16LessThan32MB, PartitionTypeFAT16GreaterThan32MB, PartitionTypeFAT16LBA:
		return true
	}
	return false
}

func getPartitionTypeName(id MBRPartition) string {
	switch id {
	case PartitionTypeEmpty:
		return "Empty"
	case PartitionTypeFAT12:
		return "FAT12"
	case PartitionTypeFAT16LessThan32MB:
		return "FAT16 (<32MB)"
	case PartitionTypeExtendedCHS:
		return "Extended (CHS)"
	case PartitionTypeFAT16GreaterThan32MB:
		return "FAT16 (>32MB)"
	case PartitionTypeNTFSHPFSexFATQNX:
		return "NTFS/HPFS/exFAT/QNX"
	case PartitionTypeFAT32CHS:
		return "FAT32 (CHS)"
	case PartitionTypeFAT32LBA:
		return "FAT32 (LBA)"
	case PartitionTypeFAT16LBA:
		return "FAT16 (LBA)"
	case PartitionTypeExtendedLBA:
		return "Extended (LBA)"
	case PartitionTypeLinuxSwap:
		return "Linux swap"
	case PartitionTypeLinuxFilesystem:
		return "Linux filesystem"
	case PartitionTypeGPTProtectiveMBR:
		return "GPT Protective MBR"
	case PartitionTypeEFISystemPartition:
		return "EFI System Partition"
	default:
		return "Unknown"
	}
}

func formatBytes(b uint64) string {
	const (
		_  = iota
		KB = 1 << (10 * iota)
		MB = 1 << (10 * iota)
		GB = 1 << (10 * iota)
		TB = 1 << (10 * iota)
	)
	switch {
	case b >= TB:
		return fmt.Sprintf("%.2f TB", float64(b)/float64(TB))
	case b >= GB:
		return fmt.Sprintf("%.2f GB", float64(b)/float64(GB))
	case b >= MB:
		return fmt.Sprintf("%.2f MB", float64(b)/float64(MB))
	case b >= KB:
		return fmt.Sprintf("%.2f KB", float64(b)/float64(KB))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// PartitionDescriptor is the value DiscoverPartitions returns for each
// populated MBR entry, independent of whether it later decodes as FAT16.
type PartitionDescriptor struct {
	Index       int
	Bootable    bool
	Type        MBRPartition
	StartLBA    uint32
	SectorCount uint32
}

// DiscoverPartitions parses the MBR in sector0 (which must be exactly one
// 512-byte sector) and returns a descriptor for every non-empty entry.
// Entries with an unrecognized type byte are still returned, per the rule
// that unknown partition types are reported rather than silently dropped.
func DiscoverPartitions(sector0 []byte) ([]PartitionDescriptor, error) {
	mbr, err := ParseMBR(sector0)
	if err != nil {
		return nil, err
	}

	var out []PartitionDescriptor
	for i, e := range mbr.PartitionEntries {
		if e.IsEmpty() {
			continue
		}
		out = append(out, PartitionDescriptor{
			Index:       i,
			Bootable:    e.BootIndicator == 0x80,
			Type:        e.PartitionType,
			StartLBA:    e.ReadStartLBA(),
			SectorCount: e.ReadTotalSectors(),
		})
	}
	return out, nil
}
