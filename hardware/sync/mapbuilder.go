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

package sync

import "github.com/retrobus/genesis/hardware/bus"

// workRAMStart/End bound the main CPU's 64KiB work RAM window, which
// repeats across the full 0xE00000-0xFFFFFF range (spec.md §6).
const (
	workRAMStart = 0xE00000
	workRAMEnd   = 0x1000000
	workRAMSize  = 64 * 1024
)

// WorkRAM is the main CPU's 64KiB scratch RAM.
type WorkRAM struct {
	Buffer [workRAMSize]byte
}

// BuildWorkRAMChunk returns the work-RAM chunk, mirrored across its
// whole address window by masking to its size.
func BuildWorkRAMChunk(ram *WorkRAM) *bus.Chunk {
	return &bus.Chunk{
		Start: workRAMStart, End: workRAMEnd, Mask: workRAMSize - 1,
		Flags:  bus.FlagRead | bus.FlagWrite | bus.FlagCode,
		Kind:   bus.KindBuffer,
		Buffer: ram.Buffer[:],
	}
}

// BuildMap assembles the complete memory map: the cartridge's chunks
// (ROM, and SRAM/EEPROM/banked save windows), the static I/O and VDP
// windows this package services directly, work RAM, and the sound
// CPU's gated RAM window.
func (m *Machine) BuildMap(ram *WorkRAM, soundRAM *SoundRAM) *bus.Map {
	chunks := make([]*bus.Chunk, 0, len(m.Cart.Chunks)+4)
	chunks = append(chunks, m.Cart.Chunks...)
	chunks = append(chunks,
		m.BuildSoundRAMChunk(soundRAM),
		m.BuildIOChunk(),
		m.BuildVDPChunk(),
		BuildWorkRAMChunk(ram),
	)
	return &bus.Map{Chunks: chunks}
}
