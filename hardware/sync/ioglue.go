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
	"github.com/retrobus/genesis/hardware/cartridge"
	"github.com/retrobus/genesis/hardware/clocks"
)

// I/O sub-map offsets, relative to 0xA10000 (spec.md §6).
const (
	ioStart = 0xA10000
	ioEnd   = 0xA12100

	verOffset      = 0x00
	pad1DataOffset = 0x02
	pad2DataOffset = 0x04
	pad1CtrlOffset = 0x08
	pad2CtrlOffset = 0x0A
	busReqOffset   = 0x1100
	resetOffset    = 0x1200

	noDiskBit  = 0x20
	overseasBit = 0x80
	palBit     = 0x40
)

// BuildIOChunk returns the memory-map chunk servicing the version
// register, both gamepad ports, and the Z80 bus-request/reset ports.
// The bank register at 0xA13000 is a separate chunk
// (Cartridge.bankRegisterChunk), since it needs no cross-domain time
// synchronisation and lives outside this package's I/O window.
func (m *Machine) BuildIOChunk() *bus.Chunk {
	return &bus.Chunk{
		Start: ioStart, End: ioEnd, Mask: 0xFFFFFF,
		Flags:   bus.FlagRead | bus.FlagWrite,
		Kind:    bus.KindCallback,
		Read8:   m.ioRead8,
		Write8:  m.ioWrite8,
		Read16:  m.ioRead16,
		Write16: m.ioWrite16,
	}
}

func (m *Machine) ioRead8(addr uint32) (uint8, error) {
	switch addr {
	case verOffset:
		return m.versionRegister(), nil
	case pad1DataOffset:
		return m.Pad1.Read(m.MainCycle), nil
	case pad2DataOffset:
		return m.Pad2.Read(m.MainCycle), nil
	case pad1CtrlOffset:
		return m.Pad1.Control, nil
	case pad2CtrlOffset:
		return m.Pad2.Control, nil
	case busReqOffset:
		return boolByte(m.Arbiter.ReadRequestPort(m.MainCycle), 0x01), nil
	default:
		return 0xFF, nil
	}
}

func (m *Machine) ioRead16(addr uint32) (uint16, error) {
	switch addr {
	case busReqOffset:
		return uint16(boolByte(m.Arbiter.ReadRequestPort(m.MainCycle), 0x80)) << 8, nil
	default:
		lo, err := m.ioRead8(addr)
		if err != nil {
			return 0, err
		}
		return uint16(lo)<<8 | uint16(lo), nil
	}
}

func (m *Machine) ioWrite8(addr uint32, v uint8) error {
	switch addr {
	case pad1DataOffset:
		m.Pad1.Write(m.MainCycle, v)
	case pad2DataOffset:
		m.Pad2.Write(m.MainCycle, v)
	case pad1CtrlOffset:
		m.Pad1.Control = v
	case pad2CtrlOffset:
		m.Pad2.Control = v
	case busReqOffset:
		if m.SoundDisabled {
			break
		}
		m.syncSoundToMain()
		m.Arbiter.Request(m.MainCycle, m.Sound.CurrentCycle(), v&1 != 0)
	case resetOffset:
		if m.SoundDisabled {
			break
		}
		m.syncSoundToMain()
		if m.Arbiter.ResetLine(m.MainCycle, m.Sound.CurrentCycle(), v&1 != 0) {
			m.Sound.SetCurrentCycle(clocks.ToSound(clocks.MainToMaster(m.MainCycle)))
		}
	}
	return nil
}

// ioWrite16 mostly forwards to ioWrite8 on the low byte, matching the
// gamepad data/control ports, but the busreq/reset ports test the high
// byte of a word write instead (original_source/blastem.c's io_write_w,
// `if (value & 0x100)`), so they get their own extraction here.
func (m *Machine) ioWrite16(addr uint32, v uint16) error {
	switch addr {
	case busReqOffset, resetOffset:
		return m.ioWrite8(addr, uint8(v>>8))
	default:
		return m.ioWrite8(addr, uint8(v))
	}
}

// syncSoundToMain brings the sound CPU up to the main CPU's present
// instant before a bus-request/reset port access observes or changes
// its state, per spec.md §4.6.
func (m *Machine) syncSoundToMain() {
	m.advanceSound(clocks.MainToMaster(m.MainCycle))
}

// versionRegister assembles the byte read at I/O offset 0x00: the
// NO_DISK bit is always set (no CD attachment, an explicit Non-goal),
// and the region bits are derived from the cartridge's declared
// regions. This is an approximation of the real version register's
// full field layout (boot-ROM revision bits are not modeled) adequate
// for region reporting, the only part of it this module's callers
// observe.
func (m *Machine) versionRegister() uint8 {
	v := uint8(noDiskBit)
	if m.Cart != nil {
		if m.Cart.Regions&cartridge.RegionEurope != 0 {
			v |= palBit
		}
		if m.Cart.Regions&cartridge.RegionJapan == 0 {
			v |= overseasBit
		}
	}
	return v
}

func boolByte(v bool, bit uint8) uint8 {
	if v {
		return bit
	}
	return 0
}
