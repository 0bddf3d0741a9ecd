package disk

import (
	"bytes"
	"sort"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// resolveName derives a displayable name for a short-name entry, preferring
// a reconstructed long name when fragments were collected for it and
// falling back to the 8.3 short name (with the deleted-entry heuristic)
// otherwise.
func resolveName(entry rawDirEntry, fragments []lfnFragment) string {
	if long := assembleLongName(fragments); long != "" {
		return sanitizeName(long)
	}
	return sanitizeName(decodeShortName(entry))
}

// assembleLongName sorts fragments by their sequence order and concatenates
// their UTF-16LE text, stripping the NUL/0xFFFF padding each fragment uses
// to fill out its fixed 13-unit capacity.
func assembleLongName(fragments []lfnFragment) string {
	if len(fragments) == 0 {
		return ""
	}

	sorted := make([]lfnFragment, len(fragments))
	copy(sorted, fragments)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].order() < sorted[j].order() })

	var units []uint16
	for _, f := range sorted {
		for _, u := range f.units {
			if u == 0x0000 || u == 0xFFFF {
				break
			}
			units = append(units, u)
		}
	}
	return strings.TrimSpace(string(utf16Decode(units)))
}

func utf16Decode(units []uint16) []rune {
	runes := make([]rune, 0, len(units))
	for i := 0; i < len(units); i++ {
		u := units[i]
		if u >= 0xD800 && u <= 0xDBFF && i+1 < len(units) {
			u2 := units[i+1]
			if u2 >= 0xDC00 && u2 <= 0xDFFF {
				r := (rune(u-0xD800)<<10 | rune(u2-0xDC00)) + 0x10000
				runes = append(runes, r)
				i++
				continue
			}
		}
		runes = append(runes, rune(u))
	}
	return runes
}

// decodeShortName reconstructs a printable name from the 11-byte 8.3 field,
// applying the deleted-entry restoration heuristic (§4.6) when the first
// byte has been overwritten with the 0xE5 delete marker.
func decodeShortName(entry rawDirEntry) string {
	raw := entry.shortNameRaw()

	if entry.isDeleted() {
		if raw[1] == 0x5F {
			raw[0] = 0x2E // '.'
		} else {
			raw[0] = 0x5F // '_'
		}
	} else if raw[0] == entryKanjiE5 {
		raw[0] = 0xE5
	}

	base := decodeOEM437(bytes.TrimRight(raw[0:8], " "))
	ext := decodeOEM437(bytes.TrimRight(raw[8:11], " "))

	if ext == "" {
		return base
	}
	return base + "." + ext
}

// decodeOEM437 decodes legacy 8-bit short-name bytes using code page 437,
// the encoding FAT16 short names commonly use, rather than degrading
// non-ASCII bytes to a replacement character.
func decodeOEM437(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	out, err := charmap.CodePage437.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

// sanitizeName escapes characters that are unsafe on typical host file
// systems while leaving the logical reconstructed name otherwise intact.
func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	replacer := strings.NewReplacer("?", "_", "/", "_", `\`, "_")
	return replacer.Replace(name)
}
