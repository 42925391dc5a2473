package parse

import (
	"bytes"
	"context"
	"fmt"

	"github.com/moyogo/Hinting-Decompiler/decompiler/asm"
)

type (
	State struct {
		b []byte

		Grammar Parser
	}

	Node = any

	Parser interface {
		Parse(ctx context.Context, b []byte, st int) (x Node, i int, err error)
	}

	// Error is returned when the program text can't be tokenized.
	// Line and Col are 1-based.
	Error struct {
		Pos  int
		Line int
		Col  int

		Err error
	}
)

func Parse(ctx context.Context, text []byte) (code []asm.Instr, err error) {
	s := New(text)

	return s.Parse(ctx)
}

func New(text []byte) *State {
	return &State{
		b:       text,
		Grammar: Program{},
	}
}

func (s *State) Parse(ctx context.Context) (code []asm.Instr, err error) {
	x, i, err := s.Grammar.Parse(ctx, s.b, 0)
	if err != nil {
		return nil, s.newError(i, err)
	}

	code, _ = x.([]asm.Instr)

	return code, nil
}

func (s *State) newError(pos int, err error) *Error {
	if pos > len(s.b) {
		pos = len(s.b)
	}

	before := s.b[:pos]
	line := bytes.Count(before, []byte{'\n'}) + 1
	col := pos - (bytes.LastIndexByte(before, '\n') + 1) + 1

	return &Error{
		Pos:  pos,
		Line: line,
		Col:  col,
		Err:  err,
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %v", e.Line, e.Col, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
