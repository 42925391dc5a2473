package talk

type (
	// Program is the decompiled VTT Talk of one hint program.
	Program []Line

	// Line is Call or ASM.
	Line interface {
		line()
	}

	// Call is a Talk statement like XInterpolate(4,7,2).
	Call struct {
		Name string
		Args []any
	}

	// ASM passes an instruction through as is.
	ASM struct {
		Text string
	}
)

func (Call) line() {}
func (ASM) line()  {}

func NewCall(name string, args ...any) Call {
	return Call{Name: name, Args: args}
}

func (p Program) String() string {
	b, err := Format(nil, p)
	if err != nil {
		return "<" + err.Error() + ">"
	}

	return string(b)
}

func (c Call) String() string {
	b, _ := Format(nil, c)
	return string(b)
}

func (a ASM) String() string {
	b, _ := Format(nil, a)
	return string(b)
}
