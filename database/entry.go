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

package database

// Device names the storage kind a MapEntry or save descriptor refers
// to.
type Device int

const (
	DeviceROM Device = iota
	DeviceSRAM
	DeviceEEPROM
)

// BitWire names what an EEPROM bit-mapping line controls.
type BitWire int

const (
	BitSDA BitWire = iota
	BitSCL
)

// MapEntry is one `map.<start>` override line.
type MapEntry struct {
	Start, Last uint32
	Device      Device
	Offset      uint32

	// SRAM-specific.
	SRAMBus string // "odd", "even", or "both"

	// EEPROM-specific bit mapping: which data bit on a byte read
	// carries SDA, and which bits of a byte write drive SDA/SCL.
	BitsRead  map[int]BitWire
	BitsWrite map[int]BitWire
}

// EEPROMInfo describes a cartridge's EEPROM when not implied purely by
// a MapEntry.
type EEPROMInfo struct {
	Size uint32
	Type string
}

// SRAMInfo describes a cartridge's raw SRAM when not implied purely by
// a MapEntry.
type SRAMInfo struct {
	Size uint32
	Bus  string
}

// Entry is one product ID's database record.
type Entry struct {
	ProductID string
	Name      string
	Regions   string
	Map       []MapEntry
	EEPROM    *EEPROMInfo
	SRAM      *SRAMInfo
}

// HasExplicitMap reports whether the entry declares its own memory map,
// per spec.md §4.3 step 2 ("If the database has an entry with an
// explicit map...").
func (e *Entry) HasExplicitMap() bool { return len(e.Map) > 0 }
