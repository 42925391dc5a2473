package talk

import (
	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"
)

// Format appends x to b. x is a Program or a single Line.
// Program lines are separated by newlines, with no newline after the last one.
func Format(b []byte, x any) ([]byte, error) {
	switch x := x.(type) {
	case Program:
		return formatProgram(b, x)
	case Call:
		return formatCall(b, x), nil
	case ASM:
		return hfmt.Appendf(b, "ASM(\"%s\")", x.Text), nil
	default:
		return nil, errors.New("unsupported type: %T", x)
	}
}

func formatProgram(b []byte, p Program) (_ []byte, err error) {
	for i, l := range p {
		if i != 0 {
			b = append(b, '\n')
		}

		b, err = Format(b, l)
		if err != nil {
			return nil, errors.Wrap(err, "line %d", i)
		}
	}

	return b, nil
}

func formatCall(b []byte, c Call) []byte {
	b = append(b, c.Name...)
	b = append(b, '(')

	for i, a := range c.Args {
		if i != 0 {
			b = append(b, ',')
		}

		b = hfmt.Appendf(b, "%v", a)
	}

	return append(b, ')')
}
