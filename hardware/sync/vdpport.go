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
	"github.com/retrobus/genesis/hardware/clocks"
	"github.com/retrobus/genesis/hardware/vdp"
)

// vdpWindowStart/End bound the VDP port window in the static memory
// map (spec.md §6).
const (
	vdpWindowStart = 0xC00000
	vdpWindowEnd   = 0xE00000
)

// BuildVDPChunk returns the memory-map chunk servicing the VDP's
// data/control/HV-counter/PSG-write/test ports for the main CPU.
func (m *Machine) BuildVDPChunk() *bus.Chunk {
	return &bus.Chunk{
		Start: vdpWindowStart, End: vdpWindowEnd, Mask: 0x1FFFFF,
		Flags:   bus.FlagRead | bus.FlagWrite,
		Kind:    bus.KindCallback,
		Read16:  m.vdpRead16,
		Write16: m.vdpWrite16,
		Read8:   m.vdpRead8,
		Write8:  m.vdpWrite8,
	}
}

func (m *Machine) vdpRead16(addr uint32) (uint16, error) {
	kind, reserved := vdp.DecodePort(addr)
	if reserved {
		return 0, vdp.ErrMachineFreeze(addr)
	}
	m.SyncComponents(m.MainCycle, m.MainCycle)
	switch kind {
	case vdp.PortData:
		return m.VDP.DataPortRead(), nil
	case vdp.PortControl:
		return m.VDP.ControlPortRead(), nil
	case vdp.PortHVCounter:
		return m.VDP.HVCounter(), nil
	default:
		return 0xFFFF, nil
	}
}

func (m *Machine) vdpWrite16(addr uint32, value uint16) error {
	kind, reserved := vdp.DecodePort(addr)
	if reserved || kind == vdp.PortHVCounter {
		return vdp.ErrMachineFreeze(addr)
	}
	m.SyncComponents(m.MainCycle, m.MainCycle)
	switch kind {
	case vdp.PortData:
		for !m.VDP.DataPortWrite(value) {
			m.stallStep()
		}
	case vdp.PortControl:
		for m.VDP.ControlPortWrite(value) < 0 {
			m.stallStep()
		}
	case vdp.PortPSG, vdp.PortTest:
		// PSG tone-register writes and the test register are accepted
		// but not modeled further; audio synthesis is out of scope.
	}
	m.MainCycle = m.VDP.Cycles / clocks.MclksPerMain
	return nil
}

func (m *Machine) vdpRead8(addr uint32) (uint8, error) {
	v, err := m.vdpRead16(addr)
	return uint8(v >> 8), err
}

func (m *Machine) vdpWrite8(addr uint32, v uint8) error {
	return m.vdpWrite16(addr, uint16(v)<<8|uint16(v))
}

// SoundVDPWrite handles a sound-CPU write to the VDP: word-wide with
// the byte duplicated to both halves, advancing only the VDP's own
// cursor rather than the full Frame Scheduler (spec.md §4.7).
func (m *Machine) SoundVDPWrite(soundCycle uint32, value uint16) {
	m.VDP.RunTo(clocks.SoundToMaster(soundCycle))
	for !m.VDP.DataPortWrite(value) {
		m.stallStep()
	}
}

// stallStep is one iteration of the VDP write stall loop (spec.md
// §4.7): it runs DMA forward by one scanline's worth of time, and if
// that crossed a frame boundary, performs the same render-wait/rebase
// the Frame Scheduler does at frame end.
func (m *Machine) stallStep() {
	target := m.VDP.Cycles + clocks.MclksLine
	m.VDP.RunDMAUntilDone(target)

	frameMaster := m.FrameMasterCycles()
	if m.VDP.Cycles >= frameMaster {
		remainder := m.VDP.Cycles - frameMaster
		if !m.Headless && m.Render != nil && m.Render.WaitFrame() {
			m.BreakRequested = true
		}
		m.rebase(m.VDP.Cycles/clocks.MclksPerMain, frameMaster)
		m.VDP.Cycles += remainder
	}
	m.MainCycle = m.VDP.Cycles / clocks.MclksPerMain
}
