package disk

import "encoding/binary"

const (
	dirRecordSize = 32

	attrReadOnly = 0x01
	attrHidden   = 0x02
	attrSystem   = 0x04
	attrVolumeID = 0x08
	attrDir      = 0x10
	attrArchive  = 0x20
	attrLongName = 0x0F // combination of RO|Hidden|System|VolumeID

	entryEndMarker = 0x00
	entryDeleted   = 0xE5
	entryKanjiE5   = 0x05 // literal 0xE5 byte stored as 0x05
)

// rawDirEntry is one 32-byte directory record, decoded but not yet
// interpreted as a short-name or long-name record.
type rawDirEntry struct {
	data       [dirRecordSize]byte
	attributes uint8
}

func parseRawDirEntry(b []byte) rawDirEntry {
	var e rawDirEntry
	copy(e.data[:], b[:dirRecordSize])
	e.attributes = e.data[0x0B]
	return e
}

func (e *rawDirEntry) isEndMarker() bool  { return e.data[0x00] == entryEndMarker }
func (e *rawDirEntry) isLongName() bool   { return e.attributes == attrLongName }
func (e *rawDirEntry) isDeleted() bool    { return e.data[0x00] == entryDeleted }
func (e *rawDirEntry) isDirectory() bool  { return e.attributes&attrDir != 0 }
func (e *rawDirEntry) isVolumeLabel() bool {
	return e.attributes&attrVolumeID != 0 && e.attributes&attrDir == 0
}

func (e *rawDirEntry) shortNameRaw() [11]byte {
	var n [11]byte
	copy(n[:], e.data[0x00:0x0B])
	return n
}

func (e *rawDirEntry) firstCluster() uint32 {
	hi := binary.LittleEndian.Uint16(e.data[0x14:0x16])
	lo := binary.LittleEndian.Uint16(e.data[0x1A:0x1C])
	return uint32(hi)<<16 | uint32(lo)
}

func (e *rawDirEntry) fileSize() uint32 {
	return binary.LittleEndian.Uint32(e.data[0x1C:0x20])
}

// lfnFragment is one long-name auxiliary record: up to 13 UTF-16LE code
// units plus the sequence/ordering byte that lets fragments be reassembled
// regardless of their order on disk.
type lfnFragment struct {
	sequence uint8 // low 5 bits: 1-based order; bit 0x40: last fragment
	units    [13]uint16
}

func (e *rawDirEntry) parseLFNFragment() lfnFragment {
	f := lfnFragment{sequence: e.data[0x00]}
	idx := 0
	for off := 0x01; off < 0x0B; off += 2 {
		f.units[idx] = binary.LittleEndian.Uint16(e.data[off : off+2])
		idx++
	}
	for off := 0x0E; off < 0x1A; off += 2 {
		f.units[idx] = binary.LittleEndian.Uint16(e.data[off : off+2])
		idx++
	}
	for off := 0x1C; off < 0x20; off += 2 {
		f.units[idx] = binary.LittleEndian.Uint16(e.data[off : off+2])
		idx++
	}
	return f
}

func (f lfnFragment) order() int { return int(f.sequence & 0x1F) }
