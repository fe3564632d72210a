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

// Package sync is the machine context: the single value that threads
// every other device together (clocks, bus, cartridge, controller
// ports, bus arbiter, VDP) per the design note in spec.md §9 asking
// for global mutable state to be encapsulated this way. Its two
// operations, the Frame Scheduler and the Interrupt Scheduler, do the
// cross-domain time conversion for the devices they advance; the only
// other conversion is the bus arbiter's, which turns its sound-CPU
// latencies into main-CPU deadlines.
package sync

import (
	"github.com/retrobus/genesis/hardware/busarbiter"
	"github.com/retrobus/genesis/hardware/cartridge"
	"github.com/retrobus/genesis/hardware/clocks"
	"github.com/retrobus/genesis/hardware/controller"
	"github.com/retrobus/genesis/hardware/vdp"
	"github.com/retrobus/genesis/logger"
	"github.com/retrobus/genesis/render"
)

// Machine is the emulated console: every device, threaded through one
// value instead of captured as process-wide globals.
type Machine struct {
	Lines int // 262 (NTSC) or 312 (PAL)

	Cart    *cartridge.Cartridge
	Arbiter *busarbiter.Arbiter
	Pad1    *controller.Port
	Pad2    *controller.Port
	VDP     *vdp.VDP
	FM      *FM
	PSG     *PSG

	Main  MainCPU
	Sound SoundCPU

	Render   render.Waiter
	Headless bool

	// SoundDisabled holds the sound CPU permanently in reset, ignoring
	// the Z80 bus-request/reset ports entirely (cmd/genesis's -n flag,
	// spec.md §6).
	SoundDisabled bool

	// MainCycle is the main CPU's present cycle position, kept current
	// by the (external, out of scope) CPU decoder before every bus
	// access — this is the "observer's current instant" spec.md §5
	// requires every cross-domain observation to be converted from.
	MainCycle uint32

	// BreakRequested latches true once the render layer (or the
	// debugger) asks the frame scheduler to stop advancing.
	BreakRequested bool

	log *logger.Logger
}

// New creates a Machine. waiter may be render.Headless{} when headless
// is true.
func New(lines int, cart *cartridge.Cartridge, main MainCPU, sound SoundCPU, waiter render.Waiter, headless bool) *Machine {
	m := &Machine{
		Lines:    lines,
		Cart:     cart,
		Arbiter:  busarbiter.New(),
		Pad1:     &controller.Port{},
		Pad2:     &controller.Port{},
		FM:       &FM{},
		PSG:      &PSG{},
		Main:     main,
		Sound:    sound,
		Render:   waiter,
		Headless: headless,
		log:      logger.Default,
	}
	m.VDP = vdp.New(lines, m)
	return m
}

// DMAComplete implements vdp.FrameSink: nothing to do at this layer,
// the rendering pipeline (out of scope) is the real consumer.
func (m *Machine) DMAComplete() {}

// FrameMasterCycles is one frame's length in master cycles.
func (m *Machine) FrameMasterCycles() uint32 { return clocks.FrameMasterCycles(m.Lines) }

// FrameMainCycles is one frame's length in the main-CPU domain.
func (m *Machine) FrameMainCycles() uint32 { return clocks.ToMain(m.FrameMasterCycles()) }

// SyncComponents is the Frame Scheduler (spec.md §4.8). mainCycle is
// the main CPU's current cycle; syncCycle is the deadline the caller's
// own scheduling loop already committed to (e.g. the cycle a pending
// breakpoint or a bounded run-loop wants to stop at). It advances every
// other device up to mainCycle, performs the frame-boundary rebase if
// crossed, and recomputes the main CPU's next interrupt.
func (m *Machine) SyncComponents(mainCycle uint32, syncCycle uint32) {
	m.MainCycle = mainCycle
	frameMaster := m.FrameMasterCycles()
	masterCycle := clocks.MainToMaster(mainCycle)

	m.advanceSound(masterCycle)

	if masterCycle >= frameMaster {
		remainder := masterCycle - frameMaster

		m.FM.RunTo(mainCycle)
		m.FM.Fold(m.FrameMainCycles())

		m.VDP.RunTo(frameMaster)
		m.PSG.RunTo(frameMaster)

		if !m.Headless && m.Render != nil {
			if m.Render.WaitFrame() {
				m.BreakRequested = true
			}
		}

		m.rebase(mainCycle, frameMaster)
		m.VDP.Cycles += remainder
		m.MainCycle = m.Main.CurrentCycle()
	} else {
		m.VDP.RunTo(masterCycle)
		m.PSG.RunTo(masterCycle)
	}

	if num, ok := m.Main.TakeIntAck(); ok {
		m.VDP.IntAck(num)
	}

	intCycle, intNum := RecomputeMainInterrupt(m.Main.Status(), m.VDP.NextVint(), m.VDP.NextHint())
	target := syncCycle
	if intCycle < target {
		target = intCycle
	}
	m.Main.SetInterrupt(intCycle, intNum, target)
	m.Sound.SetSyncCycle(RecomputeSoundInterrupt(m.VDP.NextVint(), m.Sound.IntEnableCycle()))
}

// advanceSound runs the sound CPU up to masterTarget, honoring the bus
// arbiter's reset/busreq state: a sound CPU held in reset is never
// advanced, and a just-released reset resynchronises its cycle counter
// to the main CPU's present instant rather than letting it free-run
// from a stale position.
func (m *Machine) advanceSound(masterTarget uint32) {
	if m.SoundDisabled || m.Arbiter.Reset {
		return
	}
	if m.Arbiter.NeedReset {
		m.Sound.SetCurrentCycle(clocks.ToSound(masterTarget))
		m.Arbiter.NeedReset = false
		return
	}
	m.Sound.RunTo(clocks.ToSound(masterTarget))
}

// rebase performs step 2d of the Frame Scheduler: every device's
// counter and every pending deadline is reduced by one frame, with the
// sound CPU clamped to zero instead of underflowing when a deep stall
// left it short of a full frame's progress.
func (m *Machine) rebase(preRebaseMainCycle uint32, frameMaster uint32) {
	frameMain := clocks.ToMain(frameMaster)
	frameSound := clocks.ToSound(frameMaster)

	m.VDP.AdjustCycles(frameMaster)
	m.PSG.AdjustCycles(frameMaster)
	m.Arbiter.AdjustCycles(frameMain)
	m.Pad1.AdjustCycles(preRebaseMainCycle, frameMain)
	m.Pad2.AdjustCycles(preRebaseMainCycle, frameMain)

	if preRebaseMainCycle >= frameMain {
		m.Main.SetCurrentCycle(preRebaseMainCycle - frameMain)
	} else {
		m.Main.SetCurrentCycle(0)
	}

	if soundCur := m.Sound.CurrentCycle(); soundCur >= frameSound {
		m.Sound.SetCurrentCycle(soundCur - frameSound)
	} else {
		m.Sound.SetCurrentCycle(0)
	}
}
