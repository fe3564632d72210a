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

// HasSave reports whether this cartridge has any battery-backed storage
// worth persisting to the `.sram` save file (spec.md §6). The I2C EEPROM
// and raw SRAM cases share the same backing SaveBuffer, so a single
// export/import pair covers both.
func (c *Cartridge) HasSave() bool { return c.SaveType != SaveNone }

// ExportSave returns a copy of the save storage's current contents. Its
// length is already the on-disk save file size spec.md §6 calls for:
// save_ram_mask+1 for a BOTH-width cartridge, half that for ODD/EVEN
// (setupSRAM allocates SaveBuffer at that halved size), or the EEPROM's
// byte count for an I2C part.
func (c *Cartridge) ExportSave() []byte {
	out := make([]byte, len(c.SaveBuffer))
	copy(out, c.SaveBuffer)
	return out
}

// ImportSave loads previously saved contents back into the save
// storage. data longer than the backing store is truncated; shorter
// leaves the remainder zeroed, matching a save file taken against an
// older, smaller database entry.
func (c *Cartridge) ImportSave(data []byte) {
	copy(c.SaveBuffer, data)
}
