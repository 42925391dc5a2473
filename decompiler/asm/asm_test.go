package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	for _, tc := range []struct {
		mn, flags string
		args      []string
		exp       []Operand
	}{
		{"SVTCA", "1", nil, []Operand{X}},
		{"IUP", "0", nil, []Operand{Y}},
		{"SVTCA", "2", nil, []Operand{Literal("2")}},
		{"SRP1", "", []string{"3"}, []Operand{Point(3)}},
		{"SRP1", "", []string{"-3"}, []Operand{Int(-3)}},
		{"MDRP", "01110", []string{"5"}, []Operand{Flags("01110"), Point(5)}},
		{"MIRP", "00100", []string{"5", "12"}, []Operand{Flags("00100"), Point(5), Int(12)}},
		{"CALL", "", []string{"7", "3", "114"}, []Operand{Int(7), Int(3), Func(114)}},
		{"LOOPCALL", "", []string{"4", "20"}, []Operand{Int(4), Func(20)}},
		{"CALL", "", []string{"7", "x"}, []Operand{Int(7), Literal("x")}},
		{"MDAP", "mR", []string{"+3"}, []Operand{Literal("mR"), Point(3)}},
		{"FOO", "", []string{"1", "007"}, []Operand{Int(1), Int(7)}},
	} {
		assert.Equal(t, tc.exp, Classify(tc.mn, tc.flags, tc.args), "%v[%v] %v", tc.mn, tc.flags, tc.args)
	}
}

func TestText(t *testing.T) {
	x := Instr{Mnemonic: "MDRP", Args: []Operand{Flags("01110"), Point(5)}}
	assert.Equal(t, "MDRP 01110 5", x.Text())
	assert.Equal(t, "MDRP 01110 5", x.String())

	assert.Equal(t, "RTG", Instr{Mnemonic: "RTG"}.Text())
	assert.Equal(t, "SVTCA 1", Instr{Mnemonic: "SVTCA", Args: []Operand{X}}.Text())

	a, ok := x.Arg(1)
	assert.True(t, ok)
	assert.Equal(t, Operand(Point(5)), a)

	_, ok = x.Arg(2)
	assert.False(t, ok)
}

func TestAxisName(t *testing.T) {
	assert.Equal(t, "X", X.Name())
	assert.Equal(t, "Y", Y.Name())
	assert.Equal(t, "1", X.String())
}
