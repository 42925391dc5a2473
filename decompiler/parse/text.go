package parse

import (
	"bytes"
	"context"

	"tlog.app/go/errors"
)

type (
	Const []byte

	Ident []byte

	// Word is an operand: everything up to a comma, space or line end.
	Word []byte

	// Comment is a /* ... */ block.
	Comment []byte
)

var (
	commentOpen  = []byte("/*")
	commentClose = []byte("*/")
)

func (p Const) Parse(ctx context.Context, b []byte, st int) (x Node, i int, err error) {
	if bytes.HasPrefix(b[st:], p) {
		return Const(b[st : st+len(p)]), st + len(p), nil
	}

	return nil, st, errors.New("%q expected", []byte(p))
}

func (p Ident) Parse(ctx context.Context, b []byte, st int) (x Node, i int, err error) {
	if st == len(b) {
		return nil, st, errors.New("Ident expected")
	}

	i = st

	switch c := b[i]; {
	case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_':
		i++
	default:
		return nil, st, errors.New("Ident expected")
	}

	for i < len(b) {
		c := b[i]

		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_') {
			break
		}

		i++
	}

	return Ident(b[st:i]), i, nil
}

func (p Word) Parse(ctx context.Context, b []byte, st int) (x Node, i int, err error) {
	i = st

	for i < len(b) && !isDelim(b, i) {
		i++
	}

	if i == st {
		return nil, st, errors.New("operand expected")
	}

	return Word(b[st:i]), i, nil
}

func (p Comment) Parse(ctx context.Context, b []byte, st int) (x Node, i int, err error) {
	if !bytes.HasPrefix(b[st:], commentOpen) {
		return nil, st, errors.New("comment expected")
	}

	end := bytes.Index(b[st+len(commentOpen):], commentClose)
	if end < 0 {
		return nil, len(b), errors.New("unterminated comment")
	}

	i = st + len(commentOpen) + end + len(commentClose)

	return Comment(b[st:i]), i, nil
}

func isDelim(b []byte, i int) bool {
	switch b[i] {
	case ',', ' ', '\t', '\r', '\n', '[', ']':
		return true
	}

	return bytes.HasPrefix(b[i:], commentOpen)
}
