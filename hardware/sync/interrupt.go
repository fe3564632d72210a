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

import "github.com/retrobus/genesis/hardware/clocks"

// RecomputeMainInterrupt derives the main CPU's next scheduled
// interrupt cycle and number from its current status word (whose low
// 3 bits are the interrupt priority level) and the VDP's next
// vertical/horizontal interrupt master cycles. It is a pure function
// of the Interrupt Scheduler's documented rule so it can be tested in
// isolation from a real VDP or CPU.
func RecomputeMainInterrupt(status uint8, nextVint, nextHint uint32) (intCycle uint32, intNum int) {
	ipl := status & 7
	intCycle = clocks.NEVER

	if ipl < 6 && nextVint != clocks.NEVER {
		intCycle = clocks.ToMain(nextVint)
		intNum = 6
	}
	if ipl < 4 && nextHint != clocks.NEVER {
		if hintMain := clocks.ToMain(nextHint); hintMain < intCycle {
			intCycle = hintMain
			intNum = 4
		}
	}
	return intCycle, intNum
}

// RecomputeSoundInterrupt derives the sound CPU's next vertical
// interrupt cycle in its own clock domain, clamped to not precede
// intEnableCycle — the cycle at which interrupts become acceptable
// again after an EI instruction's one-instruction pipeline delay.
func RecomputeSoundInterrupt(nextVint uint32, intEnableCycle uint32) uint32 {
	if nextVint == clocks.NEVER {
		return clocks.NEVER
	}
	s := clocks.ToSound(nextVint)
	if s < intEnableCycle {
		return intEnableCycle
	}
	return s
}
