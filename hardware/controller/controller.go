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

// Package controller emulates a gamepad port's TH-line multiplex
// protocol: a 3-button pad reads directly, a 6-button pad cycles
// through extra read phases selected by toggling the TH output line,
// with a real-time timeout that resets the phase counter if the host
// stops toggling TH (so a 3-button pad plugged in is never stuck
// reporting 6-button phase data).
//
// Unlike the teacher's hardware/controller, which drives a real HID
// joystick over github.com/splace/joysticks, this package only models
// the port's internal state machine; a caller (keyboard/gamepad
// frontend, itself out of scope here) is responsible for calling
// SetInput with the current button state for each of the three phases.
package controller

// Phase selects one of the three input slots the 6-button protocol
// multiplexes onto the data port.
type Phase int

const (
	TH0 Phase = iota
	TH1
	Extra
)

// TH is the bit of the control/output byte wired to the TH line.
const TH uint8 = 0x40

// Timeout is the number of Main-CPU cycles of TH inactivity after which
// the phase counter resets to zero.
const Timeout uint32 = 8000

// Port is one gamepad port.
type Port struct {
	Output  uint8
	Control uint8

	thCounter    int
	timeoutCycle uint32

	input [3]uint8
}

// SetInput sets the masked input byte presented for the given phase.
func (p *Port) SetInput(phase Phase, value uint8) { p.input[phase] = value }

func (p *Port) checkTimeout(cycle uint32) {
	if cycle >= p.timeoutCycle {
		p.thCounter = 0
	}
}

// Write handles a write to the port's data register at the given
// Main-CPU cycle.
func (p *Port) Write(cycle uint32, value uint8) {
	if p.Control&TH != 0 {
		if (p.Output&TH)^(value&TH) != 0 {
			p.checkTimeout(cycle)
			if value&TH == 0 {
				if p.thCounter < 4 {
					p.thCounter++
				}
			}
			p.timeoutCycle = cycle + Timeout
		}
	}
	p.Output = value
}

// Read returns the port's data register at the given Main-CPU cycle.
func (p *Port) Read(cycle uint32) uint8 {
	p.checkTimeout(cycle)

	control := p.Control | 0x80
	th := control & p.Output

	var input uint8
	if th != 0 {
		if p.thCounter == 3 {
			input = p.input[Extra]
		} else {
			input = p.input[TH1]
		}
	} else {
		switch p.thCounter {
		case 3:
			input = p.input[TH0] | 0x0F
		case 4:
			input = p.input[TH0] & 0x30
		default:
			input = p.input[TH0] | 0x0C
		}
	}

	return (^input & ^control) | (p.Output & control)
}

// AdjustCycles rebases the port's timeout deadline across a frame
// boundary, matching io_adjust_cycles: if the deadline has already
// passed, the phase counter resets to zero instead of being rebased
// into negative territory.
func (p *Port) AdjustCycles(cycle uint32, deduction uint32) {
	if cycle >= p.timeoutCycle {
		p.thCounter = 0
	} else {
		p.timeoutCycle -= deduction
	}
}

// THCounter returns the current phase counter, for debugger display.
func (p *Port) THCounter() int { return p.thCounter }
