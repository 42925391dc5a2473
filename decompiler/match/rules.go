package match

import (
	"sort"

	"tlog.app/go/loc"

	"github.com/moyogo/Hinting-Decompiler/decompiler/asm"
	"github.com/moyogo/Hinting-Decompiler/decompiler/talk"
)

type (
	Handler func(env *Env, st State, x asm.Instr, s *Stream) Step

	// Rule translates one instruction of a given mnemonic and operand shape.
	Rule struct {
		Name     string
		Mnemonic string
		Arity    int
		Shape    func(args []asm.Operand) bool
		Apply    Handler

		From loc.PC
	}
)

// VTT library functions recognized in CALL.
const (
	FuncResAnchor asm.Func = 114
	FuncResDist   asm.Func = 105
	// FuncResDist2 is translated the same as FuncResDist.
	// How they differ is not known.
	FuncResDist2 asm.Func = 106
)

const minDistFlags asm.Flags = "01110"

var shiftRef = map[asm.Flags]func(State) asm.Point{
	"0": func(st State) asm.Point { return st.RP2 },
	"1": func(st State) asm.Point { return st.RP1 },
}

var rules = map[string][]Rule{}

func init() {
	register("svtca", "SVTCA", 1, shape(isAxis), setAxis)

	register("res_anchor", "CALL", 3, callOf(FuncResAnchor), resAnchor)
	register("res_dist", "CALL", 3, callOf(FuncResDist), resDist)
	register("res_dist2", "CALL", 3, callOf(FuncResDist2), resDist)

	register("min_dist", "MDRP", 2, shape(is(minDistFlags), isPoint), minDist)
	register("interpolate", "IP", 1, shape(isPoint), interpolate)
	register("anchor", "MDAP", 2, shape(isFlags, isPoint), anchor)
	register("shift", "SHP", 2, shape(isShiftRef, isPoint), shift)

	register("srp1", "SRP1", 1, shape(isPoint), setRP1)
	register("srp2", "SRP2", 1, shape(isPoint), setRP2)

	register("smooth", "IUP", 1, shape(is(asm.Y)), smooth)
}

func register(name, mnemonic string, arity int, sh func([]asm.Operand) bool, h Handler) {
	rules[mnemonic] = append(rules[mnemonic], Rule{
		Name:     name,
		Mnemonic: mnemonic,
		Arity:    arity,
		Shape:    sh,
		Apply:    h,
		From:     loc.Caller(1),
	})
}

// Lookup finds the rule for the instruction.
func Lookup(x asm.Instr) (Rule, bool) {
	for _, r := range rules[x.Mnemonic] {
		if r.Arity == len(x.Args) && r.Shape(x.Args) {
			return r, true
		}
	}

	return Rule{}, false
}

// Rules returns all the rules sorted by mnemonic.
func Rules() []Rule {
	var l []Rule

	for _, rs := range rules {
		l = append(l, rs...)
	}

	sort.SliceStable(l, func(i, j int) bool {
		if l[i].Mnemonic != l[j].Mnemonic {
			return l[i].Mnemonic < l[j].Mnemonic
		}

		return l[i].Name < l[j].Name
	})

	return l
}

func setAxis(env *Env, st State, x asm.Instr, s *Stream) Step {
	st.Axis = x.Args[0].(asm.Axis)

	return Step{State: st}
}

func resAnchor(env *Env, st State, x asm.Instr, s *Stream) Step {
	a, b := x.Args[0], x.Args[1]

	st.RP2 = asm.Point(a.(asm.Int))

	return Step{
		State: st,
		Line:  talk.NewCall("Res"+st.Axis.Name()+"Anchor", a, b),
	}
}

func resDist(env *Env, st State, x asm.Instr, s *Stream) Step {
	a, b := x.Args[0], x.Args[1]

	st.RP1 = asm.Point(a.(asm.Int))
	st.RP2 = asm.Point(b.(asm.Int))

	return Step{
		State: st,
		Line:  talk.NewCall("Res"+st.Axis.Name()+"Dist", a, b),
	}
}

func minDist(env *Env, st State, x asm.Instr, s *Stream) Step {
	return Step{
		State: st,
		Line:  talk.NewCall(st.Axis.Name()+"Dist", st.RP2, x.Args[1], ">="),
	}
}

func interpolate(env *Env, st State, x asm.Instr, s *Stream) Step {
	pt := x.Args[0].(asm.Point)

	keyword := "Interpolate"
	skip := 0

	if next, ok := s.Peek(1); ok && env.FuseIPAnchor && isRoundedAnchor(next, pt) {
		keyword = "IPAnchor"
		skip = 1
	}

	first, last := env.order(st)

	return Step{
		State: st,
		Line:  talk.NewCall(st.Axis.Name()+keyword, first, pt, last),
		Skip:  skip,
	}
}

func anchor(env *Env, st State, x asm.Instr, s *Stream) Step {
	pt := x.Args[1].(asm.Point)

	st.RP1 = pt

	return Step{
		State: st,
		Line:  talk.NewCall(st.Axis.Name()+"Anchor", pt),
	}
}

func shift(env *Env, st State, x asm.Instr, s *Stream) Step {
	ref := shiftRef[x.Args[0].(asm.Flags)](st)

	return Step{
		State: st,
		Line:  talk.NewCall(st.Axis.Name()+"Shift", ref, x.Args[1]),
	}
}

func setRP1(env *Env, st State, x asm.Instr, s *Stream) Step {
	st.RP1 = x.Args[0].(asm.Point)

	return Step{State: st}
}

func setRP2(env *Env, st State, x asm.Instr, s *Stream) Step {
	st.RP2 = x.Args[0].(asm.Point)

	return Step{State: st}
}

// smooth merges IUP[Y] IUP[X] pair.
func smooth(env *Env, st State, x asm.Instr, s *Stream) Step {
	next, ok := s.Peek(1)
	if !ok || next.Mnemonic != "IUP" || len(next.Args) != 1 || next.Args[0] != asm.Operand(asm.X) {
		return fallback(st, x)
	}

	return Step{
		State: st,
		Line:  talk.NewCall("Smooth"),
		Skip:  1,
	}
}

func isRoundedAnchor(x asm.Instr, pt asm.Point) bool {
	return x.Mnemonic == "MDAP" && len(x.Args) == 2 &&
		x.Args[0] == asm.Operand(asm.Flags("1")) &&
		x.Args[1] == asm.Operand(pt)
}

func shape(preds ...func(asm.Operand) bool) func([]asm.Operand) bool {
	return func(args []asm.Operand) bool {
		if len(args) != len(preds) {
			return false
		}

		for i, p := range preds {
			if !p(args[i]) {
				return false
			}
		}

		return true
	}
}

func callOf(f asm.Func) func([]asm.Operand) bool {
	return shape(isRef, isRef, is(f))
}

func is(v asm.Operand) func(asm.Operand) bool {
	return func(a asm.Operand) bool { return a == v }
}

func isAxis(a asm.Operand) bool {
	_, ok := a.(asm.Axis)
	return ok
}

func isPoint(a asm.Operand) bool {
	_, ok := a.(asm.Point)
	return ok
}

func isFlags(a asm.Operand) bool {
	_, ok := a.(asm.Flags)
	return ok
}

func isShiftRef(a asm.Operand) bool {
	f, ok := a.(asm.Flags)
	if !ok {
		return false
	}

	_, ok = shiftRef[f]

	return ok
}

// isRef is an Int usable as a point number.
func isRef(a asm.Operand) bool {
	v, ok := a.(asm.Int)
	return ok && v >= 0
}
