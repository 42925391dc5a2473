package parse

import (
	"bytes"
	"context"

	"tlog.app/go/errors"

	"github.com/moyogo/Hinting-Decompiler/decompiler/asm"
)

type (
	// Program is the whole hint program: instructions and directives
	// one per line, comments anywhere between them.
	Program struct{}

	// Instruction is MNEMONIC[flags], operand, operand...
	Instruction struct{}

	// Directive is #NAME with optional arguments up to the line end.
	Directive struct{}

	// FlagField is the text in brackets after the mnemonic.
	FlagField []byte
)

func (Program) Parse(ctx context.Context, b []byte, st int) (x Node, i int, err error) {
	line := AnyOf{Directive{}, Instruction{}}

	code := []asm.Instr{}
	i = st

	for {
		i, err = skipBlank(ctx, b, i)
		if err != nil {
			return nil, i, err
		}

		if i == len(b) {
			return code, i, nil
		}

		x, i, err = line.Parse(ctx, b, i)
		if err != nil {
			return nil, i, err
		}

		i = SpaceTab.Skip(b, i)

		if i < len(b) && b[i] != '\n' && b[i] != '\r' && !bytes.HasPrefix(b[i:], commentOpen) {
			return nil, i, errors.New("end of line expected, got %q", b[i])
		}

		code = append(code, x.(asm.Instr))
	}
}

func (Instruction) Parse(ctx context.Context, b []byte, st int) (x Node, i int, err error) {
	m, i, err := Ident{}.Parse(ctx, b, st)
	if err != nil {
		return nil, st, errors.New("instruction expected")
	}

	mn := string(m.(Ident))

	f, i, err := Optional{FlagField{}}.Parse(ctx, b, i)
	if err != nil {
		return nil, i, errors.Wrap(err, "%v flags", mn)
	}

	flags, _ := f.(FlagField)

	args, i, err := operands(ctx, b, i, SpaceAll)
	if err != nil {
		return nil, i, errors.Wrap(err, "%v", mn)
	}

	bits := FlagBits(mn, string(flags))
	ops := asm.Classify(mn, bits, args)

	raw := args
	if bits != "" {
		raw = append([]string{ops[0].String()}, args...)
	}

	return asm.Instr{
		Mnemonic: mn,
		Args:     ops,
		Raw:      raw,
		Pos:      st,
		End:      i,
	}, i, nil
}

func (Directive) Parse(ctx context.Context, b []byte, st int) (x Node, i int, err error) {
	_, i, err = Const("#").Parse(ctx, b, st)
	if err != nil {
		return nil, st, err
	}

	m, i, err := Ident{}.Parse(ctx, b, i)
	if err != nil {
		return nil, i, errors.Wrap(err, "directive")
	}

	// VTT writes "#PUSH, 1, 2"; plain "#PUSH 1 2" is also accepted.
	words, i, err := operands(ctx, b, i, SpaceTab)
	if err != nil {
		return nil, i, errors.Wrap(err, "#%s", m.(Ident))
	}

	for {
		a, j, err := Spaced(Word{}, SpaceTab).Parse(ctx, b, i)
		if err != nil {
			break
		}

		words = append(words, string(a.(Word)))
		i = j
	}

	var args []asm.Operand

	for _, w := range words {
		args = append(args, asm.Literal(w))
	}

	return asm.Instr{
		Mnemonic: "#" + string(m.(Ident)),
		Args:     args,
		Raw:      words,
		Pos:      st,
		End:      i,
	}, i, nil
}

func (FlagField) Parse(ctx context.Context, b []byte, st int) (x Node, i int, err error) {
	_, i, err = Const("[").Parse(ctx, b, st)
	if err != nil {
		return nil, st, err
	}

	vst := i

	for i < len(b) && b[i] != ']' && b[i] != '\n' {
		i++
	}

	if i == len(b) || b[i] != ']' {
		return nil, i, errors.New("\"]\" expected")
	}

	return FlagField(bytes.TrimSpace(b[vst:i])), i + 1, nil
}

// operands parses ", a, b, c". ss are the spaces allowed between
// a comma and the operand.
func operands(ctx context.Context, b []byte, st int, ss Spaces) (args []string, i int, err error) {
	i = st

	for {
		_, j, err := Spaced(Const(","), SpaceTab).Parse(ctx, b, i)
		if err != nil {
			return args, i, nil
		}

		a, j, err := Spaced(Word{}, ss).Parse(ctx, b, j)
		if err != nil {
			return nil, j, errors.Wrap(err, "operand %d", len(args)+1)
		}

		args = append(args, string(a.(Word)))
		i = j
	}
}

func skipBlank(ctx context.Context, b []byte, st int) (i int, err error) {
	i = st

	for {
		i = SpaceAll.Skip(b, i)

		if !bytes.HasPrefix(b[i:], commentOpen) {
			return i, nil
		}

		_, i, err = Comment{}.Parse(ctx, b, i)
		if err != nil {
			return i, err
		}
	}
}
