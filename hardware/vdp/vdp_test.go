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

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDataPortWriteBlocksWhenFifoFullAndUnblocksAsTimePasses drives
// spec.md §4.7's FIFO back-pressure contract end to end: filling the
// FIFO blocks the next write, and only advancing the VDP's cycle cursor
// past a drain period frees a slot.
func TestDataPortWriteBlocksWhenFifoFullAndUnblocksAsTimePasses(t *testing.T) {
	v := New(262, nil)

	for i := 0; i < fifoDepth; i++ {
		require.True(t, v.DataPortWrite(uint16(i)), "write %d should have room", i)
	}
	require.False(t, v.DataPortWrite(0xFFFF), "fifo should be full")

	// Advancing by less than a full drain period doesn't free a slot.
	v.RunTo(v.Cycles + fifoDrainPeriod - 1)
	require.False(t, v.DataPortWrite(0xFFFF))

	// Crossing the drain period retires exactly one slot.
	v.RunTo(v.Cycles + 1)
	require.True(t, v.DataPortWrite(0xFFFF))
	require.False(t, v.DataPortWrite(0xFFFF))
}

// TestDrainFIFORetiresOneSlotPerPeriod confirms multiple slots drain
// independently as time advances further, rather than all clearing on
// the first RunTo past the deadline.
func TestDrainFIFORetiresOneSlotPerPeriod(t *testing.T) {
	v := New(262, nil)
	for i := 0; i < fifoDepth; i++ {
		require.True(t, v.DataPortWrite(uint16(i)))
	}

	v.RunTo(v.Cycles + fifoDrainPeriod*uint32(fifoDepth))
	// All four slots should have drained by now.
	for i := 0; i < fifoDepth; i++ {
		require.True(t, v.DataPortWrite(uint16(i)), "slot %d should have drained", i)
	}
}

// TestDrainFIFOIdleKeepsCycleCurrent confirms an empty FIFO doesn't
// accumulate drain credit while idle: filling it right after a long gap
// still requires the full drain period to free the first slot.
func TestDrainFIFOIdleKeepsCycleCurrent(t *testing.T) {
	v := New(262, nil)
	v.RunTo(10_000)

	require.True(t, v.DataPortWrite(1))
	v.RunTo(v.Cycles + fifoDrainPeriod - 1)
	for i := 1; i < fifoDepth; i++ {
		require.True(t, v.DataPortWrite(uint16(i)))
	}
	require.False(t, v.DataPortWrite(0xFFFF))
}

// TestControlPortReadReflectsFifoOccupancy exercises the status-register
// empty/full flags alongside the same fill/drain sequence.
func TestControlPortReadReflectsFifoOccupancy(t *testing.T) {
	v := New(262, nil)
	require.NotZero(t, v.ControlPortRead()&0x0200, "fifo starts empty")

	for i := 0; i < fifoDepth; i++ {
		require.True(t, v.DataPortWrite(uint16(i)))
	}
	status := v.ControlPortRead()
	require.NotZero(t, status&0x0100, "fifo full flag should be set")
	require.Zero(t, status&0x0200, "fifo empty flag should be clear")
}

type fakeSink struct{ completed int }

func (f *fakeSink) DMAComplete() { f.completed++ }

// TestDMACompletesAfterConfiguredDurationAndNotifiesSink covers the DMA
// block-move completion callback ControlPortWrite's start-of-DMA branch
// schedules.
func TestDMACompletesAfterConfiguredDurationAndNotifiesSink(t *testing.T) {
	sink := &fakeSink{}
	v := New(262, sink)

	blocked := v.ControlPortWrite(0x8000 | 0x4000)
	require.Equal(t, 0, blocked)
	require.True(t, v.DMARunning())

	v.RunTo(v.Cycles + 1023)
	require.True(t, v.DMARunning())
	require.Equal(t, 0, sink.completed)

	v.RunTo(v.Cycles + 10)
	require.False(t, v.DMARunning())
	require.Equal(t, 1, sink.completed)
}

// TestControlPortWriteBlocksWhileDMARunning confirms a second
// control-port write is rejected (must be retried) while a DMA is
// already in flight.
func TestControlPortWriteBlocksWhileDMARunning(t *testing.T) {
	v := New(262, nil)
	v.ControlPortWrite(0x8000 | 0x4000)
	require.True(t, v.DMARunning())
	require.Less(t, v.ControlPortWrite(0x1234), 0)
}

func TestAdjustCyclesRebasesCursorAndDrainDeadline(t *testing.T) {
	v := New(262, nil)
	v.RunTo(5000)
	require.True(t, v.DataPortWrite(1))

	frame := v.FrameMasterCycles()
	v.Cycles = frame + 100
	v.fifoDrainCycle = frame + 40
	v.AdjustCycles(frame)

	require.Equal(t, uint32(100), v.Cycles)
	require.Equal(t, uint32(40), v.fifoDrainCycle)
}

func TestHVCounterTracksLineAndColumnFromCycles(t *testing.T) {
	v := New(262, nil)
	v.Cycles = 0
	require.Equal(t, uint16(0), v.HVCounter())

	v.Cycles = 3420 // exactly one line in
	hv := v.HVCounter()
	require.Equal(t, uint8(1), uint8(hv>>8))
}
