package asm

import (
	"strconv"
	"strings"
)

type (
	// Instr is one VTT assembly instruction as written in the hint source.
	Instr struct {
		Mnemonic string
		Args     []Operand

		// Raw is operands as written, if known. The flag field goes first
		// already reduced to bits.
		Raw []string

		Pos int
		End int
	}

	// Operand is one of Point, Axis, Flags, Func, Int or Literal.
	Operand interface {
		String() string

		operand()
	}

	Point int

	// Axis selects the Y (0) or X (1) direction.
	Axis int

	// Flags is the bit pattern written in brackets after the mnemonic.
	Flags string

	// Func is the id of a function called with CALL.
	Func int

	Int int

	Literal string
)

const (
	Y Axis = iota
	X
)

func (Point) operand()   {}
func (Axis) operand()    {}
func (Flags) operand()   {}
func (Func) operand()    {}
func (Int) operand()     {}
func (Literal) operand() {}

func (p Point) String() string { return strconv.Itoa(int(p)) }
func (f Func) String() string  { return strconv.Itoa(int(f)) }
func (x Int) String() string   { return strconv.Itoa(int(x)) }
func (f Flags) String() string { return string(f) }
func (l Literal) String() string {
	return string(l)
}

// String returns the selector as written in assembly.
// Use Name for the axis letter.
func (a Axis) String() string { return strconv.Itoa(int(a)) }

func (a Axis) Name() string {
	if a == Y {
		return "Y"
	}

	return "X"
}

// Text is the instruction in the passthrough form: mnemonic and operands
// separated by spaces. Operands are taken from Raw if it matches Args.
func (x Instr) Text() string {
	var b strings.Builder

	b.WriteString(x.Mnemonic)

	raw := len(x.Raw) == len(x.Args)

	for i, a := range x.Args {
		b.WriteByte(' ')

		if raw {
			b.WriteString(x.Raw[i])
		} else {
			b.WriteString(a.String())
		}
	}

	return b.String()
}

func (x Instr) String() string { return x.Text() }

// Arg returns i-th operand if it exists.
func (x Instr) Arg(i int) (Operand, bool) {
	if i < 0 || i >= len(x.Args) {
		return nil, false
	}

	return x.Args[i], true
}
