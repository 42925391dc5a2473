package match

import "github.com/moyogo/Hinting-Decompiler/decompiler/asm"

// Stream is a forward only cursor over instructions.
type Stream struct {
	code []asm.Instr
	i    int
}

func NewStream(code []asm.Instr) *Stream {
	return &Stream{code: code}
}

// Next returns the instruction under the cursor and moves past it.
func (s *Stream) Next() (asm.Instr, bool) {
	if s.i >= len(s.code) {
		return asm.Instr{}, false
	}

	x := s.code[s.i]
	s.i++

	return x, true
}

// Peek returns k-th instruction after the last one returned by Next.
// Peek(1) is the one Next would return.
func (s *Stream) Peek(k int) (asm.Instr, bool) {
	j := s.i + k - 1

	if k < 1 || j >= len(s.code) {
		return asm.Instr{}, false
	}

	return s.code[j], true
}

// Skip moves past n instructions. It never goes beyond the end.
func (s *Stream) Skip(n int) {
	s.i = min(s.i+max(n, 0), len(s.code))
}

// Pos is the number of instructions consumed so far.
func (s *Stream) Pos() int { return s.i }
