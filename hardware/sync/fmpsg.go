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

// FM tracks the FM synthesizer's cycle cursor in the main-CPU domain,
// enough to participate in the frame rebase (§4.8 step 2a). FM advances
// 6 of its own cycles per sample; the synthesis math itself is out of
// scope (spec.md §1), so Cycle is the only state kept.
type FM struct {
	Cycle uint32
}

// foldQuantum is the FM's own per-sample cycle count.
const foldQuantum = 6

// RunTo advances the FM's cursor to the given main-CPU cycle.
func (f *FM) RunTo(mainCycle uint32) {
	if mainCycle > f.Cycle {
		f.Cycle = mainCycle
	}
}

// Fold subtracts whole sample periods' worth of frameMainCycles from
// the FM's cursor, keeping the remainder that didn't fit a full sample.
func (f *FM) Fold(frameMainCycles uint32) {
	fold := (frameMainCycles / foldQuantum) * foldQuantum
	if f.Cycle >= fold {
		f.Cycle -= fold
	} else {
		f.Cycle = 0
	}
}

// PSG tracks the programmable sound generator's cycle cursor in master
// cycles, mirroring how the VDP's cursor participates in the frame
// scheduler; the tone/noise synthesis math is out of scope.
type PSG struct {
	Cycle uint32
}

// RunTo advances the PSG's cursor to the given master cycle.
func (p *PSG) RunTo(masterCycle uint32) {
	if masterCycle > p.Cycle {
		p.Cycle = masterCycle
	}
}

// AdjustCycles rebases the PSG's cursor across a frame boundary.
func (p *PSG) AdjustCycles(frameMasterCycles uint32) {
	if p.Cycle >= frameMasterCycles {
		p.Cycle -= frameMasterCycles
	} else {
		p.Cycle = 0
	}
}
