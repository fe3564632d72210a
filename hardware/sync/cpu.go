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

// MainCPU is the subset of the (external, out of scope) 68k decoder's
// state the synchronization layer needs to observe and update: its own
// cycle position, the interrupt it's scheduled to take next, and
// whether it just acknowledged one.
type MainCPU interface {
	CurrentCycle() uint32
	SetCurrentCycle(cycle uint32)

	// Status returns the processor status word; the low 3 bits are the
	// current interrupt priority level (IPL).
	Status() uint8

	// SetInterrupt records the next scheduled interrupt cycle/number,
	// and the combined target_cycle = min(int_cycle, sync_cycle).
	SetInterrupt(intCycle uint32, intNum int, targetCycle uint32)

	// TakeIntAck returns the interrupt number the core just
	// acknowledged (and clears the pending flag), or ok=false if none.
	TakeIntAck() (num int, ok bool)
}

// SoundCPU is the subset of the (external, out of scope) Z80 decoder's
// state the synchronization layer needs.
type SoundCPU interface {
	CurrentCycle() uint32
	SetCurrentCycle(cycle uint32)
	SetSyncCycle(cycle uint32)

	// IntEnableCycle is the sound-domain cycle at which interrupts
	// become acceptable again after an EI instruction's one-instruction
	// pipeline delay (spec.md §4.9).
	IntEnableCycle() uint32

	// RunTo executes instructions until CurrentCycle() reaches (or
	// would exceed) the configured sync/target cycle. The decoder
	// itself is out of scope; a reference StubSoundCPU is provided for
	// testing the synchronization contract in isolation.
	RunTo(targetCycle uint32)

	// Reset is invoked once when the bus arbiter's NeedReset flag is
	// serviced.
	Reset()
}

// StubSoundCPU is a minimal SoundCPU used by tests: it has no
// instruction semantics and simply advances its cycle counter to
// whatever target it's asked to run to.
type StubSoundCPU struct {
	Cycle          uint32
	SyncTarget     uint32
	IntEnableAt    uint32
	ResetCount     int
}

func (s *StubSoundCPU) CurrentCycle() uint32      { return s.Cycle }
func (s *StubSoundCPU) SetCurrentCycle(c uint32)  { s.Cycle = c }
func (s *StubSoundCPU) SetSyncCycle(c uint32)     { s.SyncTarget = c }
func (s *StubSoundCPU) IntEnableCycle() uint32    { return s.IntEnableAt }
func (s *StubSoundCPU) RunTo(target uint32) {
	if target > s.Cycle {
		s.Cycle = target
	}
}
func (s *StubSoundCPU) Reset() { s.ResetCount++ }

// StubMainCPU is a minimal MainCPU used by tests.
type StubMainCPU struct {
	Cycle      uint32
	StatusWord uint8
	IntCycle   uint32
	IntNum     int
	TargetCyc  uint32
	pendingAck int
	hasAck     bool
}

func (m *StubMainCPU) CurrentCycle() uint32     { return m.Cycle }
func (m *StubMainCPU) SetCurrentCycle(c uint32) { m.Cycle = c }
func (m *StubMainCPU) Status() uint8            { return m.StatusWord }
func (m *StubMainCPU) SetInterrupt(intCycle uint32, intNum int, targetCycle uint32) {
	m.IntCycle, m.IntNum, m.TargetCyc = intCycle, intNum, targetCycle
}
func (m *StubMainCPU) TakeIntAck() (int, bool) {
	if !m.hasAck {
		return 0, false
	}
	m.hasAck = false
	return m.pendingAck, true
}

// RaiseIntAck is a test helper simulating the CPU acknowledging an
// interrupt.
func (m *StubMainCPU) RaiseIntAck(num int) { m.pendingAck, m.hasAck = num, true }
