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
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/retrobus/genesis/errors"
)

// Decoder is the (external, out of scope) 68k decoder's side of
// single-stepping: given the address the trap fired at, it reports
// enough about the instruction there to plan the step.
type Decoder interface {
	Decode(addr uint32) (Instruction, error)
}

// VDPInspector exposes read-only VDP state for the `v s`/`v r` dump
// commands.
type VDPInspector interface {
	SpriteTable() []byte
	RegisterDump() []byte
}

// Debugger is the breakpoint trap and its REPL: spec.md §4.10. It is
// installed as a Translator hook; Trap is what the hook calls.
type Debugger struct {
	Trans   Translator
	Regs    Registers
	Stack   StackReader
	Bus     Bus
	Decoder Decoder
	VDP     VDPInspector
	Lines   LineReader
	Out     io.Writer

	bps     *Breakpoints
	lastCmd string

	// Quit latches true once the user issues `q`; the caller's run
	// loop should check it after every Trap call and stop emulation.
	Quit bool

	// GraphTarget, if set, is what the supplementary `g <path>` command
	// renders via memviz.Map (see memviz.go).
	GraphTarget interface{}
}

// New returns a Debugger wired to the given collaborators.
func New(trans Translator, regs Registers, stack StackReader, bus Bus, dec Decoder, vdp VDPInspector, lines LineReader, out io.Writer) *Debugger {
	d := &Debugger{Trans: trans, Regs: regs, Stack: stack, Bus: bus, Decoder: dec, VDP: vdp, Lines: lines, Out: out}
	d.bps = NewBreakpoints(trans, d.onBreakpoint)
	return d
}

// Breakpoints exposes the underlying table (for `cmd/genesis`'s
// `-d` startup wiring, and for tests).
func (d *Debugger) Breakpoints() *Breakpoints { return d.bps }

// onBreakpoint is installed as every Translator hook's handler; it
// just forwards to Trap, discarding the transient/user distinction
// (Trap itself reports that in its banner).
func (d *Debugger) onBreakpoint(addr uint32) { _ = d.Trap(addr) }

// Trap is entered whenever the CPU reaches an installed breakpoint. It
// is a synchronous command loop, not a coroutine: it returns only once
// a command (`c`, `n`, `a`, or `q`) decides control should go back to
// the CPU, per spec.md §9's note to model the debugger as a trap
// handler rather than a nested event loop.
func (d *Debugger) Trap(addr uint32) error {
	if d.bps.IsTransient(addr) {
		d.bps.ClearTransient()
	}
	fmt.Fprintf(d.Out, "break at %#06x\n", addr)

	for {
		line, err := d.Lines.ReadLine("> ")
		if err == io.EOF {
			d.Quit = true
			return nil
		}
		if err != nil {
			return err
		}

		if strings.TrimSpace(line) == "" {
			if d.lastCmd == "" {
				continue
			}
			line = d.lastCmd
		} else {
			d.lastCmd = line
		}

		done, err := d.dispatch(addr, line)
		if err != nil {
			fmt.Fprintf(d.Out, "* %v\n", err)
			continue
		}
		if done {
			return nil
		}
	}
}

// dispatch parses and runs one command line. done=true means control
// should return to the CPU.
func (d *Debugger) dispatch(addr uint32, line string) (done bool, err error) {
	cmd, rest := splitCommand(line)

	switch {
	case cmd == "c":
		d.bps.ClearTransient()
		return true, nil

	case cmd == "q":
		d.Quit = true
		return true, nil

	case cmd == "n":
		return d.step(addr)

	case cmd == "b":
		return false, d.cmdBreak(rest)

	case cmd == "d":
		return false, d.cmdDelete(rest)

	case cmd == "a":
		return d.cmdRunUntil(rest)

	case strings.HasPrefix(cmd, "p"):
		return false, d.cmdPrint(cmd, rest)

	case cmd == "v":
		return false, d.cmdVDP(rest)

	case cmd == "g":
		return false, d.cmdGraph(rest)

	case cmd == "l":
		return false, d.cmdList()

	default:
		return false, errors.Errorf(errors.CommandError, "debugger: unknown command %q", cmd)
	}
}

func splitCommand(line string) (cmd, rest string) {
	line = strings.TrimSpace(line)
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i+1:])
}

func (d *Debugger) step(addr uint32) (bool, error) {
	if d.Decoder == nil {
		return false, errors.Errorf(errors.CommandError, "debugger: no decoder attached, cannot single-step")
	}
	inst, err := d.Decoder.Decode(addr)
	if err != nil {
		return false, err
	}
	targets, err := PlanStep(inst, d.Stack)
	if err != nil {
		return false, err
	}
	d.bps.PlanStep(targets...)
	return true, nil
}

func (d *Debugger) cmdBreak(rest string) error {
	addr, err := parseHex(rest)
	if err != nil {
		return err
	}
	idx := d.bps.Set(addr)
	fmt.Fprintf(d.Out, "breakpoint %d set at %#06x\n", idx, addr)
	return nil
}

func (d *Debugger) cmdDelete(rest string) error {
	n, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil {
		return errors.Errorf(errors.CommandError, "debugger: bad breakpoint index %q", rest)
	}
	if !d.bps.Clear(n) {
		return errors.Errorf(errors.BreakpointUnknown, "debugger: no breakpoint with index %d", n)
	}
	return nil
}

func (d *Debugger) cmdRunUntil(rest string) (bool, error) {
	addr, err := parseHex(rest)
	if err != nil {
		return false, err
	}
	d.bps.PlanStep(addr)
	return true, nil
}

func (d *Debugger) cmdList() error {
	for _, bp := range d.bps.List() {
		fmt.Fprintf(d.Out, "%d: %#06x\n", bp.Index, bp.Address)
	}
	return nil
}

func (d *Debugger) cmdPrint(cmd, rest string) error {
	radixStr := ""
	if i := strings.IndexByte(cmd, '/'); i >= 0 {
		radixStr = cmd[i+1:]
	}
	radix, err := parseRadix(radixStr)
	if err != nil {
		return err
	}
	v, err := EvalExpr(rest, d.Regs, d.Bus)
	if err != nil {
		return err
	}
	fmt.Fprintf(d.Out, "%s = %s\n", rest, FormatValue(v, radix))
	return nil
}

func (d *Debugger) cmdVDP(rest string) error {
	if d.VDP == nil {
		return errors.Errorf(errors.CommandError, "debugger: no VDP attached")
	}
	switch strings.TrimSpace(rest) {
	case "s":
		hexDump(d.Out, d.VDP.SpriteTable())
	case "r":
		hexDump(d.Out, d.VDP.RegisterDump())
	default:
		return errors.Errorf(errors.CommandError, "debugger: usage: v s|r")
	}
	return nil
}

func hexDump(w io.Writer, data []byte) {
	for i := 0; i < len(data); i += 16 {
		end := i + 16
		if end > len(data) {
			end = len(data)
		}
		fmt.Fprintf(w, "%04x:", i)
		for _, b := range data[i:end] {
			fmt.Fprintf(w, " %02x", b)
		}
		fmt.Fprintln(w)
	}
}

func parseHex(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, errors.Errorf(errors.CommandError, "debugger: bad hex address %q", s)
	}
	return uint32(n), nil
}
