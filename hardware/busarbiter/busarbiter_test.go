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

package busarbiter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/retrobus/genesis/hardware/clocks"
)

// TestRequestGrantsAckAfterDelay drives spec.md §8's bus-handshake
// scenario: a bus request is acknowledged only once AckDelay sound-CPU
// cycles, converted to the main-CPU domain, have actually elapsed.
func TestRequestGrantsAckAfterDelay(t *testing.T) {
	a := New()
	a.ResetLine(0, 0, true) // release reset so the request can take effect

	a.Request(0, 0, true)
	want := clocks.SoundToMain(AckDelay)
	require.Equal(t, want, a.BusAckEffectiveCycle())

	require.False(t, a.ReadRequestPort(want-1))
	require.False(t, a.BusAcknowledged)

	require.True(t, a.ReadRequestPort(want))
	require.True(t, a.BusAcknowledged)
}

// TestRequestReleaseGoesBusyAfterDelay confirms releasing a bus request
// reverts BusAcknowledged only after BusyDelay sound cycles have passed,
// not the instant the release is written.
func TestRequestReleaseGoesBusyAfterDelay(t *testing.T) {
	a := New()
	a.ResetLine(0, 0, true)

	a.Request(0, 0, true)
	ackAt := a.BusAckEffectiveCycle()
	require.True(t, a.ReadRequestPort(ackAt))
	require.True(t, a.BusAcknowledged)

	a.Request(ackAt, 7, false)
	releaseAt := clocks.SoundToMain(7 + BusyDelay)
	require.Equal(t, releaseAt, a.BusAckEffectiveCycle())

	require.True(t, a.ReadRequestPort(releaseAt-1))
	require.False(t, a.ReadRequestPort(releaseAt))
	require.False(t, a.BusAcknowledged)
}

// TestReadRequestPortReflectsResetRegardlessOfAcknowledge confirms the
// request port reads asserted whenever reset is held, independent of any
// pending or committed acknowledge state.
func TestReadRequestPortReflectsResetRegardlessOfAcknowledge(t *testing.T) {
	a := New()
	require.True(t, a.ReadRequestPort(0))
}

// TestSoundRAMAccessibleRequiresAckAndNotReset matches spec.md §4.6: the
// sound CPU's RAM is only reachable by the main CPU while the bus is
// acknowledged and the sound CPU isn't held in reset.
func TestSoundRAMAccessibleRequiresAckAndNotReset(t *testing.T) {
	a := New()
	require.False(t, a.SoundRAMAccessible())

	a.ResetLine(0, 0, true)
	a.Request(0, 0, true)
	ackAt := a.BusAckEffectiveCycle()
	a.ReadRequestPort(ackAt)
	require.True(t, a.SoundRAMAccessible())

	a.ResetLine(ackAt, 0, false)
	require.False(t, a.SoundRAMAccessible())
}

// TestResetLineReleaseWhilePendingRequestSchedulesAck covers the
// falling-to-rising reset transition that occurs while a bus request was
// already made during reset: the release itself must schedule the
// acknowledge and ask the caller to resynchronise the sound CPU's clock.
func TestResetLineReleaseWhilePendingRequestSchedulesAck(t *testing.T) {
	a := New()
	a.BusRequestPending = true

	resync := a.ResetLine(0, 2, true)
	require.True(t, resync)
	require.True(t, a.NeedReset)
	require.False(t, a.Reset)
	require.Equal(t, clocks.SoundToMain(2+AckDelay), a.BusAckEffectiveCycle())
}

// TestAdjustCyclesCommitsPassedDeadlineOrRebases mirrors
// sync_components's busack_cycle rebase: a deadline that has already
// fallen within the frame just ending commits outright; one still ahead
// rebases by subtraction.
func TestAdjustCyclesCommitsPassedDeadlineOrRebases(t *testing.T) {
	a := &Arbiter{busAckEffectiveCycle: 50, pendingAckValue: true}
	a.AdjustCycles(100)
	require.Equal(t, clocks.NEVER, a.BusAckEffectiveCycle())
	require.True(t, a.BusAcknowledged)

	b := &Arbiter{busAckEffectiveCycle: 150, pendingAckValue: true}
	b.AdjustCycles(100)
	require.Equal(t, uint32(50), b.BusAckEffectiveCycle())
	require.False(t, b.BusAcknowledged)

	c := New()
	c.AdjustCycles(1000)
	require.Equal(t, clocks.NEVER, c.BusAckEffectiveCycle())
}
