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

import (
	"github.com/retrobus/genesis/hardware/bus"
	"github.com/retrobus/genesis/logger"
)

// soundRAMStart/End bound the sound CPU's private 8KiB RAM window as
// seen from the main CPU's address space (spec.md §6, §5).
const (
	soundRAMStart = 0xA00000
	soundRAMEnd   = 0xA10000
	soundRAMSize  = 8 * 1024
)

// CodeWriteObserver is notified of every write to the sound CPU's RAM
// made while the main CPU holds the bus, so a JIT-translating sound
// CPU decoder (out of scope here) can invalidate any translated block
// covering the written address. Restored from original_source/
// blastem.c's z80_handle_code_write call in io_write (spec.md §5).
type CodeWriteObserver interface {
	CodeWrite(addr uint32)
}

type noopCodeWriteObserver struct{}

func (noopCodeWriteObserver) CodeWrite(uint32) {}

// SoundRAM is the sound CPU's private RAM, reachable by the main CPU
// only while the bus arbiter reports it accessible.
type SoundRAM struct {
	Buffer   [soundRAMSize]byte
	Observer CodeWriteObserver
}

// NewSoundRAM returns a SoundRAM with a no-op CodeWriteObserver.
func NewSoundRAM() *SoundRAM {
	return &SoundRAM{Observer: noopCodeWriteObserver{}}
}

// BuildSoundRAMChunk returns the memory-map chunk gating main-CPU
// access to the sound CPU's RAM behind the bus arbiter's
// SoundRAMAccessible check: an inaccessible access reads 0xFF/0xFFFF
// and drops writes silently, per spec.md §5's "dropped" rule, and a
// successful write notifies the CodeWriteObserver.
func (m *Machine) BuildSoundRAMChunk(ram *SoundRAM) *bus.Chunk {
	mask := uint32(soundRAMSize - 1)
	return &bus.Chunk{
		Start: soundRAMStart, End: soundRAMEnd, Mask: mask,
		Flags: bus.FlagRead | bus.FlagWrite,
		Kind:  bus.KindCallback,
		Read8: func(addr uint32) (uint8, error) {
			if !m.Arbiter.SoundRAMAccessible() {
				m.log.Log(logger.Warn, "soundram", "read at %#x while bus not held", addr)
				return 0xFF, nil
			}
			return ram.Buffer[addr], nil
		},
		Read16: func(addr uint32) (uint16, error) {
			if !m.Arbiter.SoundRAMAccessible() {
				m.log.Log(logger.Warn, "soundram", "read at %#x while bus not held", addr)
				return 0xFFFF, nil
			}
			return uint16(ram.Buffer[addr])<<8 | uint16(ram.Buffer[(addr+1)&mask]), nil
		},
		Write8: func(addr uint32, v uint8) error {
			if !m.Arbiter.SoundRAMAccessible() {
				m.log.Log(logger.Warn, "soundram", "dropped write at %#x while bus not held", addr)
				return nil
			}
			ram.Buffer[addr] = v
			ram.Observer.CodeWrite(addr)
			return nil
		},
		Write16: func(addr uint32, v uint16) error {
			if !m.Arbiter.SoundRAMAccessible() {
				m.log.Log(logger.Warn, "soundram", "dropped write at %#x while bus not held", addr)
				return nil
			}
			ram.Buffer[addr] = uint8(v >> 8)
			ram.Observer.CodeWrite(addr)
			next := (addr + 1) & mask
			ram.Buffer[next] = uint8(v)
			ram.Observer.CodeWrite(next)
			return nil
		},
	}
}
