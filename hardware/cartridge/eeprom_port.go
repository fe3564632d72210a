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

import (
	"github.com/retrobus/genesis/database"
	"github.com/retrobus/genesis/hardware/bus"
)

// eepromChunk builds the memory-map chunk that bit-bangs an EEPROM
// device through the cartridge's declared SDA-read bit and SDA/SCL
// write-mask pins, per spec.md §6's "bits_read.<n>"/"bits_write.<n>"
// database fields.
func (c *Cartridge) eepromChunk(start, end uint32) *bus.Chunk {
	return &bus.Chunk{
		Start: start, End: end, Mask: 0xFFFFFF,
		Flags: bus.FlagRead | bus.FlagWrite,
		Kind:  bus.KindCallback,
		Read8: func(uint32) (uint8, error) {
			return c.eepromReadByte(), nil
		},
		Read16: func(uint32) (uint16, error) {
			b := c.eepromReadByte()
			return uint16(b)<<8 | uint16(b), nil
		},
		Write8: func(_ uint32, v uint8) error {
			c.eepromWriteByte(v)
			return nil
		},
		Write16: func(_ uint32, v uint16) error {
			c.eepromWriteByte(uint8(v))
			return nil
		},
	}
}

func (c *Cartridge) eepromReadByte() uint8 {
	var out uint8
	for bit := 0; bit < 8; bit++ {
		if wire, ok := c.eepromMap.BitsRead[bit]; ok && wire == database.BitSDA && c.EEPROM.SDA() {
			out |= 1 << uint(bit)
		}
	}
	return out
}

// eepromWriteByte applies SDA before SCL, in ascending bit order, so a
// START/STOP condition on SDA is judged against the SCL level left by
// the previous write; a write that changes both lines at once has its
// SDA change seen before its SCL change.
func (c *Cartridge) eepromWriteByte(v uint8) {
	for bit := 0; bit < 8; bit++ {
		if wire, ok := c.eepromMap.BitsWrite[bit]; ok && wire == database.BitSDA {
			c.EEPROM.SetHostSDA(v&(1<<uint(bit)) != 0)
		}
	}
	for bit := 0; bit < 8; bit++ {
		if wire, ok := c.eepromMap.BitsWrite[bit]; ok && wire == database.BitSCL {
			c.EEPROM.SetSCL(v&(1<<uint(bit)) != 0)
		}
	}
}
