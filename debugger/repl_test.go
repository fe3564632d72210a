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

package debugger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeRegs struct {
	d     [8]uint32
	a     [8]uint32
	flags uint8
	ipl   uint8
	cycle uint32
}

func (r fakeRegs) D(n int) uint32   { return r.d[n] }
func (r fakeRegs) A(n int) uint32   { return r.a[n] }
func (r fakeRegs) Flags() uint8     { return r.flags }
func (r fakeRegs) IPL() uint8       { return r.ipl }
func (r fakeRegs) Cycle() uint32    { return r.cycle }

type fakeBus struct{ mem map[uint32]uint16 }

func (b fakeBus) Peek16(addr uint32) (uint16, error) { return b.mem[addr], nil }

func newTestDebugger(t *testing.T, script string) (*Debugger, *bytes.Buffer) {
	t.Helper()
	trans := NewFakeTranslator()
	regs := fakeRegs{d: [8]uint32{0: 0x42}, flags: 0x13, ipl: 2, cycle: 999}
	bus := fakeBus{mem: map[uint32]uint16{0x100: 0xBEEF}}
	var out bytes.Buffer
	lines := NewPlainLineReader(strings.NewReader(script), nil)
	return New(trans, regs, fakeStack{}, bus, nil, nil, lines, &out), &out
}

func TestDebuggerPrintRegisterAndMemory(t *testing.T) {
	d, out := newTestDebugger(t, "p d0\np/d d0\np 0x100\nc\n")
	require.NoError(t, d.Trap(0x1000))
	text := out.String()
	require.Contains(t, text, "d0 = 0x42")
	require.Contains(t, text, "d0 = 66")
	require.Contains(t, text, "0x100 = 0xbeef")
}

func TestDebuggerSRPacking(t *testing.T) {
	d, out := newTestDebugger(t, "p SR\nc\n")
	require.NoError(t, d.Trap(0x1000))
	require.Contains(t, out.String(), "SR = 0x213") // flags 0x13 | ipl 2 << 8
}

func TestDebuggerSetAndDeleteBreakpoint(t *testing.T) {
	d, _ := newTestDebugger(t, "b 2000\nc\n")
	require.NoError(t, d.Trap(0x1000))
	require.Len(t, d.Breakpoints().List(), 1)
	require.Equal(t, uint32(0x2000), d.Breakpoints().List()[0].Address)
}

func TestDebuggerEmptyLineRepeatsLast(t *testing.T) {
	d, out := newTestDebugger(t, "p d0\n\nc\n")
	require.NoError(t, d.Trap(0x1000))
	// "p d0" runs twice: once explicitly, once via the repeated empty line.
	require.Equal(t, 2, strings.Count(out.String(), "d0 = 0x42"))
}

func TestDebuggerQuit(t *testing.T) {
	d, _ := newTestDebugger(t, "q\n")
	require.NoError(t, d.Trap(0x1000))
	require.True(t, d.Quit)
}

func TestDebuggerUnknownCommandReprompts(t *testing.T) {
	d, out := newTestDebugger(t, "zzz\nc\n")
	require.NoError(t, d.Trap(0x1000))
	require.Contains(t, out.String(), "* debugger: unknown command")
}
