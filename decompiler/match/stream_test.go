package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/moyogo/Hinting-Decompiler/decompiler/asm"
)

func TestStream(t *testing.T) {
	s := NewStream([]asm.Instr{srp1(1), srp2(2)})

	_, ok := s.Peek(0)
	assert.False(t, ok)

	x, ok := s.Peek(1)
	assert.True(t, ok)
	assert.Equal(t, "SRP1", x.Mnemonic)

	x, ok = s.Next()
	assert.True(t, ok)
	assert.Equal(t, "SRP1", x.Mnemonic)

	x, ok = s.Peek(1)
	assert.True(t, ok)
	assert.Equal(t, "SRP2", x.Mnemonic)

	_, ok = s.Peek(2)
	assert.False(t, ok)

	s.Skip(5)
	assert.Equal(t, 2, s.Pos())

	_, ok = s.Next()
	assert.False(t, ok)

	_, ok = s.Peek(1)
	assert.False(t, ok)

	s.Skip(-1)
	assert.Equal(t, 2, s.Pos())
}
