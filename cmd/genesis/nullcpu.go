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

package main

import (
	"github.com/retrobus/genesis/debugger"
	"github.com/retrobus/genesis/hardware/sync"
)

var (
	_ sync.MainCPU         = (*nullCPU)(nil)
	_ debugger.Registers   = (*nullCPU)(nil)
	_ debugger.StackReader = (*nullCPU)(nil)
	_ sync.SoundCPU        = (*nullSoundCPU)(nil)
)

// nullCPU stands in for the out-of-scope 68k instruction decoder
// (spec.md §1): it satisfies hardware/sync.MainCPU and the debugger's
// Registers/StackReader interfaces with no instruction semantics at
// all, just enough state to let the bus/sync core and debugger be
// exercised from the command line while a real decoder is absent. A
// real integration replaces this type, not the packages it talks to.
type nullCPU struct {
	cycle    uint32
	status   uint8
	d, a     [8]uint32
	intCycle uint32
	intNum   int
	target   uint32
}

func newNullCPU() *nullCPU { return &nullCPU{} }

func (n *nullCPU) CurrentCycle() uint32     { return n.cycle }
func (n *nullCPU) SetCurrentCycle(c uint32) { n.cycle = c }
func (n *nullCPU) Status() uint8            { return n.status }

func (n *nullCPU) SetInterrupt(intCycle uint32, intNum int, targetCycle uint32) {
	n.intCycle, n.intNum, n.target = intCycle, intNum, targetCycle
}

func (n *nullCPU) TakeIntAck() (int, bool) { return 0, false }

// Registers/StackReader, for the debugger's `p` and single-step commands.
func (n *nullCPU) D(i int) uint32                { return n.d[i] }
func (n *nullCPU) A(i int) uint32                { return n.a[i] }
func (n *nullCPU) Flags() uint8                  { return n.status & 0xF8 }
func (n *nullCPU) IPL() uint8                    { return n.status & 0x7 }
func (n *nullCPU) Cycle() uint32                 { return n.cycle }
func (n *nullCPU) Peek16(uint32) (uint16, error) { return 0xFFFF, nil }

// nullSoundCPU stands in for the out-of-scope Z80 instruction decoder.
type nullSoundCPU struct {
	cycle       uint32
	syncCycle   uint32
	intEnableAt uint32
}

func newNullSoundCPU() *nullSoundCPU { return &nullSoundCPU{} }

func (n *nullSoundCPU) CurrentCycle() uint32     { return n.cycle }
func (n *nullSoundCPU) SetCurrentCycle(c uint32) { n.cycle = c }
func (n *nullSoundCPU) SetSyncCycle(c uint32)    { n.syncCycle = c }
func (n *nullSoundCPU) IntEnableCycle() uint32   { return n.intEnableAt }
func (n *nullSoundCPU) RunTo(target uint32) {
	if target > n.cycle {
		n.cycle = target
	}
}
func (n *nullSoundCPU) Reset() { n.cycle = 0 }
