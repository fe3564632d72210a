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

package controller

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// toggleTH drives a TH transition at cycle by writing a value that
// differs from the port's current Output only in the TH bit.
func toggleTH(p *Port, cycle uint32, high bool) {
	v := p.Output &^ TH
	if high {
		v |= TH
	}
	p.Write(cycle, v)
}

// TestThCounterIncrementsOnFallingEdgeAndSaturates exercises spec.md §8's
// gamepad phase-counter scenario: the counter advances once per TH
// high-to-low transition and saturates at 4 rather than wrapping.
func TestThCounterIncrementsOnFallingEdgeAndSaturates(t *testing.T) {
	p := &Port{Control: 0xFF}

	toggleTH(p, 0, true) // establish a high baseline; not a falling edge
	require.Equal(t, 0, p.THCounter())

	for i, cycle := range []uint32{100, 300, 500, 700, 900} {
		toggleTH(p, cycle, false)
		want := i + 1
		if want > 4 {
			want = 4
		}
		require.Equal(t, want, p.THCounter(), "falling edge %d", i)
		toggleTH(p, cycle+50, true)
	}
}

// TestTimeoutResetsCounterOnNextEdge matches io_adjust_cycles's sibling
// behavior in Write: once the timeout deadline has passed, the next TH
// transition sees the counter reset to zero before it's (maybe)
// incremented.
func TestTimeoutResetsCounterOnNextEdge(t *testing.T) {
	p := &Port{Control: 0xFF}

	toggleTH(p, 0, true)
	toggleTH(p, 100, false) // counter -> 1, timeoutCycle = 100+Timeout
	require.Equal(t, 1, p.THCounter())

	toggleTH(p, 100+Timeout, true) // rising edge at/after the deadline
	require.Equal(t, 0, p.THCounter())
}

// TestReadCheckTimeoutResetsCounterWithoutAWrite confirms Read's own
// checkTimeout call resets a stale counter even with no intervening
// Write.
func TestReadCheckTimeoutResetsCounterWithoutAWrite(t *testing.T) {
	p := &Port{Control: 0xFF}

	toggleTH(p, 0, true)
	toggleTH(p, 100, false)
	require.Equal(t, 1, p.THCounter())

	p.Read(100 + Timeout)
	require.Equal(t, 0, p.THCounter())
}

// TestAdjustCyclesResetsOrRebasesTimeout mirrors io_adjust_cycles: a
// deadline already passed resets the counter outright instead of
// rebasing into an underflowed cycle value.
func TestAdjustCyclesResetsOrRebasesTimeout(t *testing.T) {
	p := &Port{Control: 0xFF}
	toggleTH(p, 0, true)
	toggleTH(p, 100, false)
	require.Equal(t, 1, p.THCounter())

	p.AdjustCycles(100+Timeout, 200)
	require.Equal(t, 0, p.THCounter())

	p2 := &Port{Control: 0xFF}
	toggleTH(p2, 0, true)
	toggleTH(p2, 100, false)
	before := p2.timeoutCycle
	p2.AdjustCycles(50, 40)
	require.Equal(t, 1, p2.THCounter())
	require.Equal(t, before-40, p2.timeoutCycle)
}

// TestReadTHHighSelectsTH1OrExtraPhase covers spec.md §4.5's phase
// selection when TH is driven high: TH1 data ordinarily, Extra data once
// the counter has reached exactly 3.
func TestReadTHHighSelectsTH1OrExtraPhase(t *testing.T) {
	p := &Port{Control: TH, Output: TH}
	p.SetInput(TH1, 0x15)
	p.SetInput(Extra, 0x2B)

	p.thCounter = 0
	require.Equal(t, uint8(0x6A), p.Read(0))

	p.thCounter = 3
	require.Equal(t, uint8(0x54), p.Read(0))
}

// TestReadTHLowSelectsTH0PhaseVariants covers the TH-low branch's three
// distinct phase encodings (the "ID nibble" phases at counter 3 and 4,
// and the ordinary TH0 read otherwise).
func TestReadTHLowSelectsTH0PhaseVariants(t *testing.T) {
	p := &Port{Control: TH, Output: 0}
	p.SetInput(TH0, 0x01)

	p.thCounter = 0
	require.Equal(t, uint8(0x32), p.Read(0))

	p.thCounter = 3
	require.Equal(t, uint8(0x30), p.Read(0))

	p.thCounter = 4
	require.Equal(t, uint8(0x3F), p.Read(0))
}

// TestWriteIgnoresTHWhenNotConfiguredAsOutput confirms the counter never
// advances when Control's TH bit is clear, regardless of what gets
// written to Output.
func TestWriteIgnoresTHWhenNotConfiguredAsOutput(t *testing.T) {
	p := &Port{Control: 0x00}
	p.Write(0, TH)
	p.Write(100, 0)
	p.Write(200, TH)
	require.Equal(t, 0, p.THCounter())
}
