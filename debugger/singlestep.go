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

// InstKind classifies the decoded instruction at the trap address for
// the purposes of single-step planning, per spec.md §4.10.
type InstKind int

const (
	// InstOrdinary is any instruction that falls through to the
	// textual next address.
	InstOrdinary InstKind = iota
	// InstSubroutineReturn is RTS/RTE-shaped: the next address is
	// popped off the stack rather than textually adjacent.
	InstSubroutineReturn
	// InstConditionalBranch is Bcc-shaped: it may fall through or jump
	// to BranchTarget depending on CondAlwaysTrue.
	InstConditionalBranch
)

// Instruction is what the (external, out of scope) 68k decoder reports
// about the instruction at the current breakpoint address, sufficient
// to plan a single step.
type Instruction struct {
	Kind InstKind

	// NextAddr is the textual next instruction address (fall-through).
	NextAddr uint32

	// BranchTarget is the jump target for InstConditionalBranch.
	BranchTarget uint32

	// CondAlwaysTrue reports whether the branch condition is known to
	// always hold (e.g. BRA). spec.md §9 Open Question (a) notes the
	// reference implementation has an assignment-in-conditional bug
	// here (`inst.extra.cond = COND_TRUE`); this port is specified
	// against equality, i.e. CondAlwaysTrue must be computed by the
	// caller, not defaulted to true by a stray assignment.
	CondAlwaysTrue bool
}

// StackReader supplies the A7 stack pointer and a 16-bit bus peek,
// enough to decode an RTS/RTE return address.
type StackReader interface {
	A(reg int) uint32
	Peek16(addr uint32) (uint16, error)
}

// PlanStep computes the breakpoint address(es) a single step should
// install, per spec.md §4.10:
//
//   - ordinary instruction: break at NextAddr.
//   - subroutine return: decode the return target from the word pair
//     at A7 and break there.
//   - conditional branch, CondAlwaysTrue: break at BranchTarget.
//   - conditional branch otherwise: return both NextAddr and
//     BranchTarget; the caller installs both and tears down whichever
//     didn't fire.
func PlanStep(inst Instruction, stack StackReader) ([]uint32, error) {
	switch inst.Kind {
	case InstSubroutineReturn:
		target, err := returnTarget(stack)
		if err != nil {
			return nil, err
		}
		return []uint32{target}, nil
	case InstConditionalBranch:
		if inst.CondAlwaysTrue {
			return []uint32{inst.BranchTarget}, nil
		}
		return []uint32{inst.NextAddr, inst.BranchTarget}, nil
	default:
		return []uint32{inst.NextAddr}, nil
	}
}

// returnTarget reads the 32-bit return address off the top of the
// stack (A7), as two big-endian 16-bit halves.
func returnTarget(stack StackReader) (uint32, error) {
	sp := stack.A(7)
	hi, err := stack.Peek16(sp)
	if err != nil {
		return 0, err
	}
	lo, err := stack.Peek16(sp + 2)
	if err != nil {
		return 0, err
	}
	return uint32(hi)<<16 | uint32(lo), nil
}
