package asm

import "strconv"

type (
	kind int

	signature struct {
		flags kind
		args  []kind

		// last argument is a function id
		call bool
	}
)

const (
	kindInt kind = iota
	kindPoint
	kindAxis
	kindFlags
)

var signatures = map[string]signature{
	"SVTCA":  {flags: kindAxis},
	"SPVTCA": {flags: kindAxis},
	"SFVTCA": {flags: kindAxis},
	"IUP":    {flags: kindAxis},

	"SRP0": {args: []kind{kindPoint}},
	"SRP1": {args: []kind{kindPoint}},
	"SRP2": {args: []kind{kindPoint}},
	"IP":   {args: []kind{kindPoint}},

	"MDAP":  {flags: kindFlags, args: []kind{kindPoint}},
	"MIAP":  {flags: kindFlags, args: []kind{kindPoint, kindInt}},
	"MDRP":  {flags: kindFlags, args: []kind{kindPoint}},
	"MIRP":  {flags: kindFlags, args: []kind{kindPoint, kindInt}},
	"SHP":   {flags: kindFlags, args: []kind{kindPoint}},
	"SHPIX": {args: []kind{kindPoint, kindInt}},

	"ALIGNRP": {args: []kind{kindPoint}},
	"FLIPPT":  {args: []kind{kindPoint}},

	"CALL":     {call: true},
	"LOOPCALL": {call: true},
}

// Classify gives kinds to the raw operands of an instruction.
// flags is the text in brackets already reduced to bits (may be empty),
// args are operands as written.
// Operands which do not fit the known signature of the mnemonic
// become Int or Literal.
func Classify(mnemonic, flags string, args []string) []Operand {
	sig := signatures[mnemonic]

	res := make([]Operand, 0, len(args)+1)

	if flags != "" {
		res = append(res, classifyFlags(sig.flags, flags))
	}

	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			res = append(res, Literal(a))
			continue
		}

		k := kindInt
		if i < len(sig.args) {
			k = sig.args[i]
		}

		switch {
		case sig.call && i == len(args)-1:
			res = append(res, Func(v))
		case k == kindPoint && v >= 0:
			res = append(res, Point(v))
		default:
			res = append(res, Int(v))
		}
	}

	return res
}

func classifyFlags(k kind, flags string) Operand {
	if k == kindAxis {
		switch flags {
		case "0":
			return Y
		case "1":
			return X
		}
	}

	if isBits(flags) {
		return Flags(flags)
	}

	return Literal(flags)
}

func isBits(s string) bool {
	for _, c := range []byte(s) {
		if c != '0' && c != '1' {
			return false
		}
	}

	return s != ""
}
