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

// Package database loads the cartridge fingerprint database that
// overrides the standard ROM-header-derived memory map for carts with
// unusual save hardware (SRAM at a non-standard window, an EEPROM
// instead of SRAM, bus width quirks).
//
// File format, one entry per product ID, its fields on the lines after
// it (leading and trailing whitespace on every line is ignored, so the
// indentation below is only for readability):
//
//	[SMGE]
//		name = Phantasy Star IV
//		regions = UE
//		map.200000 = last:3FFFFF device:sram offset:0 bus:odd
//		EEPROM.size = 128
//		EEPROM.type = 24C01
//
// A bracketed line starts a new entry keyed by product ID (the text
// between the brackets, matched against the ROM header's trimmed
// product-ID field). Every following line until the next
// bracketed line or EOF belongs to that entry. A `map.<start-hex>` key
// introduces one memory-map override, with `device`, `last`, `offset`
// and (device-dependent) `bus` / `bits_read.N` / `bits_write.N` given as
// space-separated `key:value` pairs on the same line. `EEPROM.*` and
// `SRAM.*` lines describe the save device itself, independent of any
// map override (used when the standard banked mapper synthesis already
// places the window correctly and only the device type needs pinning).
//
// This on-disk grammar is original to this port — original_source/'s
// romdb.c is the C loader for BlastEm's own (more elaborate) tree
// format, not the file itself, so there is no literal wire format to
// preserve. The field names and semantics it parses into (start/last/
// device/offset/bus/bits) are taken directly from romdb.c and from
// spec.md §6, and the flat indented-key-value shape mirrors the way the
// teacher's own database package keeps one file-backed Entry per
// fingerprint.
package database
