package match

import (
	"github.com/moyogo/Hinting-Decompiler/decompiler/asm"
	"github.com/moyogo/Hinting-Decompiler/decompiler/outline"
	"github.com/moyogo/Hinting-Decompiler/decompiler/talk"
)

type (
	Options struct {
		// FuseIPAnchor merges IP[] pt followed by MDAP[R] pt into one IPAnchor.
		FuseIPAnchor bool
	}

	// State is the implicit machine state instructions depend on.
	State struct {
		Axis asm.Axis
		RP1  asm.Point
		RP2  asm.Point
	}

	// Env is read only input shared by all the steps of one decompilation.
	Env struct {
		Options

		Points outline.Points
	}

	// Step is the result of applying a rule to an instruction.
	Step struct {
		State State

		// Line is nil if nothing is emitted.
		Line talk.Line

		// Skip is the number of instructions fused into Line
		// after the current one.
		Skip int
	}
)

func NewState() State {
	return State{Axis: asm.X}
}

// Decompile translates instructions into Talk.
// pts is the outline of the glyph, used to order Interpolate arguments.
func Decompile(code []asm.Instr, pts outline.Points, opts Options) talk.Program {
	env := &Env{
		Options: opts,
		Points:  pts,
	}

	s := NewStream(code)
	st := NewState()
	p := make(talk.Program, 0, len(code))

	for {
		x, ok := s.Next()
		if !ok {
			return p
		}

		step := Apply(env, st, x, s)

		st = step.State
		s.Skip(step.Skip)

		if step.Line != nil {
			p = append(p, step.Line)
		}
	}
}

// Apply runs the first rule matching x, or the fallback.
// s is positioned after x and is used only for lookahead.
func Apply(env *Env, st State, x asm.Instr, s *Stream) Step {
	r, ok := Lookup(x)
	if !ok {
		return fallback(st, x)
	}

	return r.Apply(env, st, x, s)
}

func fallback(st State, x asm.Instr) Step {
	return Step{
		State: st,
		Line:  talk.ASM{Text: x.Text()},
	}
}

// order returns the reference points in Interpolate argument order:
// the one with bigger coordinate along the current axis goes first.
func (e *Env) order(st State) (first, last asm.Point) {
	p1, ok1 := e.Points.At(int(st.RP1))
	p2, ok2 := e.Points.At(int(st.RP2))

	x := st.Axis == asm.X

	if ok1 && ok2 && p1.Coord(x) > p2.Coord(x) {
		return st.RP1, st.RP2
	}

	return st.RP2, st.RP1
}
