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
	"strconv"
	"strings"

	"github.com/retrobus/genesis/errors"
)

// Registers is the subset of the (external) main CPU's visible state
// the `p` command can print.
type Registers interface {
	D(n int) uint32
	A(n int) uint32
	// Flags returns the condition-code/status flags, excluding the IPL
	// bits already reported separately by Status (hardware/sync.MainCPU).
	Flags() uint8
	IPL() uint8
	Cycle() uint32
}

// PackSR packs the pseudo-register `SR` the way original_source/'s
// status byte usage does: flags in the low byte, IPL shifted into bits
// 8-10. Restored from blastem.c's `context->status & 0x7` usage per
// spec.md §4.10/§9 D ("Debug print formats").
func PackSR(regs Registers) uint16 {
	return uint16(regs.Flags()) | uint16(regs.IPL())<<8
}

// Radix is the print format requested by a `p/{x,X,d,c}` command.
type Radix int

const (
	RadixDefault Radix = iota // same as hex, lowercase
	RadixHexLower
	RadixHexUpper
	RadixDecimal
	RadixChar
)

func parseRadix(s string) (Radix, error) {
	switch s {
	case "", "x":
		return RadixHexLower, nil
	case "X":
		return RadixHexUpper, nil
	case "d":
		return RadixDecimal, nil
	case "c":
		return RadixChar, nil
	default:
		return 0, errors.Errorf(errors.CommandError, "debugger: unknown print radix %q", s)
	}
}

// FormatValue renders v according to radix.
func FormatValue(v uint32, radix Radix) string {
	switch radix {
	case RadixHexUpper:
		return fmt.Sprintf("%#X", v)
	case RadixDecimal:
		return strconv.FormatUint(uint64(v), 10)
	case RadixChar:
		if v >= 0x20 && v < 0x7F {
			return fmt.Sprintf("'%c'", rune(v))
		}
		return fmt.Sprintf("'\\x%02x'", v&0xFF)
	default:
		return fmt.Sprintf("%#x", v)
	}
}

// EvalExpr evaluates a `p` expression: d0..d7, a0..a7, SR, c (cycle), or
// a 0x-prefixed address read through bus (spec.md §4.10).
func EvalExpr(expr string, regs Registers, bus Bus) (uint32, error) {
	expr = strings.TrimSpace(expr)
	switch {
	case expr == "SR":
		return uint32(PackSR(regs)), nil
	case expr == "c":
		return regs.Cycle(), nil
	case len(expr) == 2 && (expr[0] == 'd' || expr[0] == 'D') && expr[1] >= '0' && expr[1] <= '7':
		return regs.D(int(expr[1] - '0')), nil
	case len(expr) == 2 && (expr[0] == 'a' || expr[0] == 'A') && expr[1] >= '0' && expr[1] <= '7':
		return regs.A(int(expr[1] - '0')), nil
	case strings.HasPrefix(expr, "0x") || strings.HasPrefix(expr, "0X"):
		addr, err := strconv.ParseUint(expr[2:], 16, 32)
		if err != nil {
			return 0, errors.Errorf(errors.CommandError, "debugger: bad address %q: %v", expr, err)
		}
		v, err := bus.Peek16(uint32(addr))
		if err != nil {
			return 0, err
		}
		return uint32(v), nil
	default:
		return 0, errors.Errorf(errors.CommandError, "debugger: unrecognised expression %q", expr)
	}
}

// Bus is the debugger's side-channel read surface, backed by
// hardware/bus.DebugBus. On a hardware/bus.Map that is the same
// dispatch as a CPU read, so a read that raises a machine-freeze error
// for the CPU raises it here too.
type Bus interface {
	Peek16(addr uint32) (uint16, error)
}
