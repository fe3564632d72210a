// This file is part of genesis.
//
// genesis is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// genesis is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with genesis.  If not, see <https://www.gnu.org/licenses/>.

package cartridge

import "strings"

// Header field offsets, taken from original_source/romdb.c.
const (
	titleStart  = 0x150
	titleLength = 48
	productIDOffset = 0x183
	productIDLength = 8
	romEndOffset    = 0x1A4
	ramIDOffset     = 0x1B0
	ramStartOffset  = 0x1B4
	ramEndOffset    = 0x1B8
	regionOffset    = 0x1F0
)

// Region is a bitset over the three sales-region groups a cartridge may
// declare support for.
type Region uint8

const (
	RegionJapan Region = 1 << iota
	RegionAmericas
	RegionEurope
)

func (r Region) String() string {
	var b strings.Builder
	if r&RegionJapan != 0 {
		b.WriteByte('J')
	}
	if r&RegionAmericas != 0 {
		b.WriteByte('U')
	}
	if r&RegionEurope != 0 {
		b.WriteByte('E')
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}

// ParseProductID extracts the product ID field, trimmed at the first
// space and at trailing NULs.
func ParseProductID(rom []byte) string {
	return trimField(rom, productIDOffset, productIDLength)
}

// ParseTitle extracts the 48-byte title field, replacing any non
// printable-ASCII byte with a space.
func ParseTitle(rom []byte) string {
	end := titleStart + titleLength
	if end > len(rom) {
		end = len(rom)
	}
	if titleStart >= len(rom) {
		return ""
	}
	buf := make([]byte, end-titleStart)
	for i, c := range rom[titleStart:end] {
		if c < 0x20 || c > 0x7E {
			buf[i] = ' '
		} else {
			buf[i] = c
		}
	}
	return strings.TrimSpace(string(buf))
}

// ParseRegions reads the three region characters and returns the
// equivalent bitset.
func ParseRegions(rom []byte) Region {
	if regionOffset+3 > len(rom) {
		return 0
	}
	var r Region
	for _, c := range rom[regionOffset : regionOffset+3] {
		switch c {
		case 'J':
			r |= RegionJapan
		case 'U', 'B', '4':
			r |= RegionAmericas
		case 'E', 'A':
			r |= RegionEurope
		}
	}
	return r
}

// hasSaveDeclaration reports whether the header's RAM-ID field spells
// "RA", meaning a save-RAM region is declared.
func hasSaveDeclaration(rom []byte) bool {
	return ramIDOffset+2 <= len(rom) && rom[ramIDOffset] == 'R' && rom[ramIDOffset+1] == 'A'
}

func romEnd(rom []byte) uint32 { return be32(rom, romEndOffset) }
func saveStart(rom []byte) uint32 { return be32(rom, ramStartOffset) }
func saveEnd(rom []byte) uint32 { return be32(rom, ramEndOffset) }

func be32(rom []byte, off int) uint32 {
	if off+4 > len(rom) {
		return 0
	}
	return uint32(rom[off])<<24 | uint32(rom[off+1])<<16 | uint32(rom[off+2])<<8 | uint32(rom[off+3])
}

func trimField(rom []byte, offset, length int) string {
	end := offset + length
	if end > len(rom) {
		end = len(rom)
	}
	if offset >= len(rom) {
		return ""
	}
	field := rom[offset:end]
	if i := indexByte(field, ' '); i >= 0 {
		field = field[:i]
	}
	return strings.TrimRight(string(field), "\x00")
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}
