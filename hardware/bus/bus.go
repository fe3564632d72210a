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

// Package bus defines the memory-map dispatch table shared by both CPUs'
// load/store glue. A Map is a small, ordered list of Chunks; dispatch is
// a linear scan since real chunk counts are small (at most a few dozen).
//
// It defines two of the surfaces the teacher splits its bus into:
// CPUBus (the full read/write surface used by a CPU decoder) and
// DebugBus (the debugger's Peek/Poke side channel). There is no
// ChipBus here. Peek/Poke dispatch through the same chunks as a CPU
// access, so a chunk callback that raises a machine-freeze error
// raises it for them too.
package bus

// CPUBus is the word/byte read/write surface a CPU decoder uses.
type CPUBus interface {
	Read16(addr uint32) (uint16, error)
	Write16(addr uint32, v uint16) error
	Read8(addr uint32) (uint8, error)
	Write8(addr uint32, v uint8) error
}

// DebugBus is the debugger's side channel: it reads/writes the same
// chunk table through the same callbacks as CPUBus, mirroring the
// teacher's DebuggerBus Peek/Poke distinction in name only.
type DebugBus interface {
	Peek16(addr uint32) (uint16, error)
	Poke16(addr uint32, v uint16) error
}

// Flag is a bit in a Chunk's flag set.
type Flag uint8

const (
	FlagRead Flag = 1 << iota
	FlagWrite
	FlagCode
	FlagOnlyOdd
	FlagOnlyEven
)

func (f Flag) has(o Flag) bool { return f&o != 0 }

// Kind tags which of the three dispatch shapes a Chunk uses, replacing
// the original "FUNC_NULL plus PTR_INDEX" function-pointer trick with a
// first-class tagged variant (spec.md §9).
type Kind int

const (
	// KindBuffer chunks are directly addressable: (addr-start)&mask
	// indexes straight into Buffer.
	KindBuffer Kind = iota
	// KindCallback chunks dispatch to Read16/Write16/Read8/Write8
	// callbacks.
	KindCallback
	// KindBanked chunks select, at dispatch time, between a direct
	// buffer and callbacks depending on a live *bool/selector — the
	// Sega banked mapper's window 2 (ROM mirror vs SRAM).
	KindBanked
)

// Chunk is one entry of the memory map: an address range plus the means
// to service it.
type Chunk struct {
	Start, End uint32 // [Start, End)
	Mask       uint32
	Flags      Flag
	Kind       Kind

	// KindBuffer / KindBanked-selected-direct.
	Buffer []uint8

	// KindCallback / KindBanked-selected-indirect.
	Read16  func(addr uint32) (uint16, error)
	Write16 func(addr uint32, v uint16) error
	Read8   func(addr uint32) (uint8, error)
	Write8  func(addr uint32, v uint8) error

	// KindBanked selector: when *Selected is true the chunk behaves as
	// a direct buffer (BankedBuffer), otherwise it falls through to
	// the callbacks above. This is the Banked{direct_when_selected,
	// callbacks_when_not, selector_ref} variant spec.md §9 calls for.
	Selected    *bool
	BankedBuffer []uint8
}

func (c *Chunk) contains(addr uint32) bool { return addr >= c.Start && addr < c.End }

func (c *Chunk) offset(addr uint32) uint32 { return (addr - c.Start) & c.Mask }

// effectiveBuffer returns the buffer to address directly, and whether
// the chunk should be treated as directly addressable for this access.
func (c *Chunk) effectiveBuffer() ([]uint8, bool) {
	switch c.Kind {
	case KindBuffer:
		return c.Buffer, true
	case KindBanked:
		if c.Selected != nil && *c.Selected {
			return c.BankedBuffer, true
		}
		return nil, false
	default:
		return nil, false
	}
}

// Map is an ordered, linear-scanned memory map.
type Map struct {
	Chunks []*Chunk
}

func (m *Map) find(addr uint32) *Chunk {
	for _, c := range m.Chunks {
		if c.contains(addr) {
			return c
		}
	}
	return nil
}

// Read16 implements CPUBus. Half-RAM (ONLY_ODD/ONLY_EVEN) chunks
// decompose into two independent byte accesses, one per parity, because
// only every other byte lane is physically wired to the backing array.
func (m *Map) Read16(addr uint32) (uint16, error) {
	c := m.find(addr)
	if c == nil || !c.Flags.has(FlagRead) {
		return 0xFFFF, nil
	}
	if c.Flags.has(FlagOnlyOdd) || c.Flags.has(FlagOnlyEven) {
		hi, err := m.Read8(addr)
		if err != nil {
			return 0, err
		}
		lo, err := m.Read8(addr + 1)
		if err != nil {
			return 0, err
		}
		return uint16(hi)<<8 | uint16(lo), nil
	}
	if buf, direct := c.effectiveBuffer(); direct {
		off := c.offset(addr)
		if int(off)+1 >= len(buf) {
			return 0xFFFF, nil
		}
		return uint16(buf[off])<<8 | uint16(buf[off+1]), nil
	}
	if c.Read16 != nil {
		return c.Read16(c.offset(addr))
	}
	return 0xFFFF, nil
}

// Write16 implements CPUBus.
func (m *Map) Write16(addr uint32, v uint16) error {
	c := m.find(addr)
	if c == nil || !c.Flags.has(FlagWrite) {
		return nil
	}
	if c.Flags.has(FlagOnlyOdd) || c.Flags.has(FlagOnlyEven) {
		if err := m.Write8(addr, uint8(v>>8)); err != nil {
			return err
		}
		return m.Write8(addr+1, uint8(v))
	}
	if buf, direct := c.effectiveBuffer(); direct {
		off := c.offset(addr)
		if int(off)+1 >= len(buf) {
			return nil
		}
		buf[off] = uint8(v >> 8)
		buf[off+1] = uint8(v)
		return nil
	}
	if c.Write16 != nil {
		return c.Write16(c.offset(addr), v)
	}
	return nil
}

// Read8 implements CPUBus, gating ONLY_ODD/ONLY_EVEN chunks so a wrong
// parity access reads 0xFF without touching the backing array.
func (m *Map) Read8(addr uint32) (uint8, error) {
	c := m.find(addr)
	if c == nil || !c.Flags.has(FlagRead) {
		return 0xFF, nil
	}
	odd := addr&1 == 1
	if c.Flags.has(FlagOnlyOdd) && !odd {
		return 0xFF, nil
	}
	if c.Flags.has(FlagOnlyEven) && odd {
		return 0xFF, nil
	}
	if buf, direct := c.effectiveBuffer(); direct {
		idx := c.offset(addr)
		if c.Flags.has(FlagOnlyOdd) || c.Flags.has(FlagOnlyEven) {
			idx >>= 1
		}
		if int(idx) >= len(buf) {
			return 0xFF, nil
		}
		return buf[idx], nil
	}
	if c.Read8 != nil {
		return c.Read8(c.offset(addr))
	}
	return 0xFF, nil
}

// Write8 implements CPUBus.
func (m *Map) Write8(addr uint32, v uint8) error {
	c := m.find(addr)
	if c == nil || !c.Flags.has(FlagWrite) {
		return nil
	}
	odd := addr&1 == 1
	if c.Flags.has(FlagOnlyOdd) && !odd {
		return nil
	}
	if c.Flags.has(FlagOnlyEven) && odd {
		return nil
	}
	if buf, direct := c.effectiveBuffer(); direct {
		idx := c.offset(addr)
		if c.Flags.has(FlagOnlyOdd) || c.Flags.has(FlagOnlyEven) {
			idx >>= 1
		}
		if int(idx) >= len(buf) {
			return nil
		}
		buf[idx] = v
		return nil
	}
	if c.Write8 != nil {
		return c.Write8(c.offset(addr), v)
	}
	return nil
}

// Peek16/Poke16 implement DebugBus for the debugger. They are Read16/
// Write16 under another name: same addressing, same flag checks, and
// the same chunk callbacks, including any machine-freeze error those
// callbacks (the VDP port glue) return.
func (m *Map) Peek16(addr uint32) (uint16, error) { return m.Read16(addr) }
func (m *Map) Poke16(addr uint32, v uint16) error { return m.Write16(addr, v) }
