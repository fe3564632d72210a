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

package vdp

import "github.com/retrobus/genesis/errors"

// PortOffset decodes the low 5 bits of a VDP-window address into the
// port it addresses, per spec.md §4.7.
type PortOffset int

const (
	PortData PortOffset = iota
	PortControl
	PortHVCounter
	PortPSG
	PortTest
)

// DecodePort classifies a VDP-window address (already masked to the
// window) by its low 5 bits, and reports whether the access touches a
// reserved bit that must trigger the machine-freeze trap.
func DecodePort(offset uint32) (PortOffset, bool) {
	reserved := offset&0x2700E0 != 0
	low := offset & 0x1F
	switch {
	case low < 0x04:
		return PortData, reserved
	case low < 0x08:
		return PortControl, reserved
	case low < 0x10:
		return PortHVCounter, reserved
	case low < 0x18:
		return PortPSG, reserved
	default:
		return PortTest, reserved
	}
}

// DataPortWrite writes a 16-bit value to the data port. It returns
// ok=false ("blocked") when the write is rejected by FIFO back-pressure
// and must be retried by the caller's stall loop once time has actually
// advanced (RunTo drains occupied slots as master cycles elapse).
func (v *VDP) DataPortWrite(value uint16) bool {
	if v.fifoUsed >= fifoDepth {
		return false
	}
	v.fifoUsed++
	return true
}

// ControlPortWrite writes to the control port. Returns blocked=0 for an
// immediate write, blocked=-1 for a retryable stall while a DMA is in
// flight (mirrors the C
// "blocked" int: <0 retry-and-recheck, >0 stalled-but-done, 0 clear).
func (v *VDP) ControlPortWrite(value uint16) int {
	if value&0x8000 == 0x8000 && value&0x4000 != 0 {
		// Start-of-DMA control word; begin a bounded DMA run.
		v.StartDMA(1024)
		return 0
	}
	if v.dmaRun {
		return -1
	}
	return 0
}

// DataPortRead reads the data port.
func (v *VDP) DataPortRead() uint16 { return 0xFFFF }

// ControlPortRead reads the control port status register.
func (v *VDP) ControlPortRead() uint16 {
	status := uint16(0x3400)
	if v.fifoUsed >= fifoDepth {
		status |= 0x0100
	}
	if v.fifoUsed == 0 {
		status |= 0x0200
	}
	if v.dmaRun {
		status |= 0x0002
	}
	return status
}

// ErrMachineFreeze is returned by the bus glue around this package when
// a reserved-bit or HV-counter write trips spec.md §4.7's freeze trap.
func ErrMachineFreeze(addr uint32) error {
	return errors.Errorf(errors.MachineFreeze, "machine freeze due to access to reserved VDP address %#x", addr)
}
