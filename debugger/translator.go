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

// Package debugger implements the breakpoint trap and line-editing REPL
// of spec.md §4.10: a synchronous control-transfer intercept installed
// in the main CPU's translated code, not a nested event loop. The
// (external, out of scope) 68k translator is modeled as the Translator
// interface; this package supplies a FakeTranslator sufficient to unit
// test breakpoint bookkeeping and the REPL command parser without a
// real decoder.
package debugger

// Translator is the main CPU translator's side of the breakpoint
// trampoline: InsertBreakpoint installs a hook that calls handler when
// the translated code reaches addr; RemoveBreakpoint removes it.
// Grounded on the teacher's debugger/halt_breakpoints.go pattern of
// registering CPU-side hooks rather than polling the program counter
// every instruction.
type Translator interface {
	InsertBreakpoint(addr uint32, handler func(addr uint32))
	RemoveBreakpoint(addr uint32)
}

// FakeTranslator is an in-memory Translator sufficient for testing the
// breakpoint bookkeeping and single-step logic in isolation from a real
// CPU decoder.
type FakeTranslator struct {
	hooks map[uint32]func(addr uint32)
}

// NewFakeTranslator returns an empty FakeTranslator.
func NewFakeTranslator() *FakeTranslator {
	return &FakeTranslator{hooks: make(map[uint32]func(addr uint32))}
}

func (f *FakeTranslator) InsertBreakpoint(addr uint32, handler func(addr uint32)) {
	f.hooks[addr] = handler
}

func (f *FakeTranslator) RemoveBreakpoint(addr uint32) {
	delete(f.hooks, addr)
}

// Installed reports whether a hook is currently installed at addr.
func (f *FakeTranslator) Installed(addr uint32) bool {
	_, ok := f.hooks[addr]
	return ok
}

// Hit simulates the translated code reaching addr: if a hook is
// installed there, it is invoked.
func (f *FakeTranslator) Hit(addr uint32) {
	if h, ok := f.hooks[addr]; ok {
		h(addr)
	}
}
