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

// Package vdp implements the video display processor's bus-facing
// protocol: data/control/HV-counter ports, FIFO back-pressure on data
// writes, and the DMA-stall loop a control-port write can trigger. The
// rendering pipeline that consumes the registers this package exposes
// (sprite table, plane composition, palette) is the external
// FrameSink collaborator named in spec.md §1; this package only ever
// tracks the minimal state the port protocol and DMA-completion
// callback need.
package vdp

import "github.com/retrobus/genesis/hardware/clocks"

// FIFO depth. The real VDP's FIFO holds 4 pending data-port writes;
// once full, a data write blocks until the DMA engine (or plain video
// memory access timing) drains an entry.
const fifoDepth = 4

// fifoDrainPeriod is the number of master cycles an occupied FIFO slot
// takes to drain, approximating the VDP's own video-memory access slot
// timing during active display (the exact timing is out of scope per
// spec.md §1; this is only precise enough to make the documented
// back-pressure contract — DataPortWrite blocking until RunTo/RunDMA
// advance time — actually observable).
const fifoDrainPeriod = 16

// FrameSink is the external renderer a real frontend would implement
// (the rendering pipeline is out of scope, per spec.md §1). The only
// call this package makes on it is DMAComplete, when a DMA block-move
// finishes; a nil Sink is allowed.
type FrameSink interface {
	// DMAComplete is called once a DMA block-move finishes.
	DMAComplete()
}

// VDP is the minimal internal state needed to drive the bus protocol:
// a cycle cursor in master-clock units, pending-DMA bookkeeping, FIFO
// occupancy, and the next interrupt cycles the interrupt scheduler
// reads.
type VDP struct {
	Cycles uint32 // master-clock cursor

	fifoUsed       int
	fifoDrainCycle uint32 // master cycle at which the next occupied slot drains
	dmaRun         bool
	dmaRemaining   int

	nextVint uint32 // master cycle of next vertical interrupt, or clocks.NEVER
	nextHint uint32 // master cycle of next horizontal interrupt, or clocks.NEVER

	// line geometry, set at construction from the NTSC/PAL choice.
	lines int

	Sink FrameSink
}

// New creates a VDP for the given frame line count (262 NTSC, 312 PAL).
func New(lines int, sink FrameSink) *VDP {
	v := &VDP{lines: lines, Sink: sink}
	v.recomputeInterrupts()
	return v
}

// FrameMasterCycles is this VDP's configured frame length in master
// cycles.
func (v *VDP) FrameMasterCycles() uint32 { return clocks.FrameMasterCycles(v.lines) }

// RunTo advances the VDP's cycle cursor to at most target (master
// cycles), running any pending DMA along the way. Real sprite/plane
// timing effects are not modeled; only the cursor and DMA/interrupt
// bookkeeping this package's callers need are kept current.
func (v *VDP) RunTo(target uint32) {
	if target <= v.Cycles {
		return
	}
	if v.dmaRun {
		v.runDMA(target)
	}
	v.drainFIFO(target)
	v.Cycles = target
}

// drainFIFO retires occupied FIFO slots as time passes, one every
// fifoDrainPeriod master cycles, so a data-port write that blocked on a
// full FIFO is guaranteed to succeed after enough time (DMA run or
// plain bus progress) has elapsed — the back-pressure spec.md §4.7
// documents, not a permanent stall.
func (v *VDP) drainFIFO(target uint32) {
	if v.fifoUsed == 0 {
		v.fifoDrainCycle = target
		return
	}
	for v.fifoUsed > 0 && v.fifoDrainCycle+fifoDrainPeriod <= target {
		v.fifoDrainCycle += fifoDrainPeriod
		v.fifoUsed--
	}
	if v.fifoUsed == 0 {
		v.fifoDrainCycle = target
	}
}

func (v *VDP) runDMA(target uint32) {
	elapsed := int(target - v.Cycles)
	if elapsed <= 0 {
		return
	}
	if v.dmaRemaining <= elapsed {
		v.dmaRemaining = 0
		v.dmaRun = false
		if v.Sink != nil {
			v.Sink.DMAComplete()
		}
	} else {
		v.dmaRemaining -= elapsed
	}
}

// RunDMAUntilDone advances the VDP to target in one RunTo call (running
// any pending DMA and draining the FIFO), used by the stall loop in
// hardware/sync (stallStep) when FIFO/DMA back-pressure blocks a write.
func (v *VDP) RunDMAUntilDone(target uint32) {
	v.RunTo(target)
}

// DMARunning reports whether a DMA block-move is in progress.
func (v *VDP) DMARunning() bool { return v.dmaRun }

// StartDMA begins a DMA transfer of the given length in master cycles.
func (v *VDP) StartDMA(masterCycles int) {
	v.dmaRun = true
	v.dmaRemaining = masterCycles
}

// AdjustCycles rebases the VDP's cycle cursor and FIFO/interrupt state
// across a frame boundary.
func (v *VDP) AdjustCycles(frameMasterCycles uint32) {
	if v.Cycles >= frameMasterCycles {
		v.Cycles -= frameMasterCycles
	} else {
		v.Cycles = 0
	}
	if v.fifoDrainCycle >= frameMasterCycles {
		v.fifoDrainCycle -= frameMasterCycles
	} else {
		v.fifoDrainCycle = 0
	}
	v.recomputeInterrupts()
}

// recomputeInterrupts derives the next vertical/horizontal interrupt
// master cycle from the current line geometry. This is a simplified
// stand-in for the real VDP's line-counter-driven interrupts (the
// rendering/line-timing pipeline is out of scope); it is sufficient to
// drive the interrupt scheduler's documented contract (clock boundaries
// and IPL gating), not to reproduce exact video timing.
func (v *VDP) recomputeInterrupts() {
	frame := v.FrameMasterCycles()
	// Vertical interrupt fires once per frame, at the start of the
	// vertical blanking period (approximated as 38 lines before the
	// frame's end: line 224 of an NTSC frame, line 274 of a PAL one).
	vblankLine := v.lines - 38
	v.nextVint = uint32(vblankLine) * clocks.MclksLine
	if v.nextVint < v.Cycles {
		v.nextVint += frame
	}
	// Horizontal interrupt fires once per line; report the next line
	// boundary.
	line := v.Cycles / clocks.MclksLine
	v.nextHint = (line + 1) * clocks.MclksLine
}

// NextVint returns the master cycle of the next vertical interrupt, or
// clocks.NEVER.
func (v *VDP) NextVint() uint32 { return v.nextVint }

// NextHint returns the master cycle of the next horizontal interrupt,
// or clocks.NEVER.
func (v *VDP) NextHint() uint32 { return v.nextHint }

// IntAck notifies the VDP that interrupt number num was acknowledged by
// the main CPU. It recomputes the next deadlines; no per-interrupt
// pending state is kept, so num is not used.
func (v *VDP) IntAck(num int) {
	v.recomputeInterrupts()
}

// HVCounter returns the value read from the HV-counter port, derived
// from the current cycle position within the frame.
func (v *VDP) HVCounter() uint16 {
	line := (v.Cycles / clocks.MclksLine) % uint32(v.lines)
	col := (v.Cycles % clocks.MclksLine) / 4 // coarse horizontal-counter approximation
	return uint16(line&0xFF)<<8 | uint16(col&0xFF)
}
