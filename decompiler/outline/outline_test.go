package outline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tlog.app/go/errors"

	"github.com/moyogo/Hinting-Decompiler/decompiler/outline"
	"github.com/moyogo/Hinting-Decompiler/internal/fonttest"
)

func TestSimple(t *testing.T) {
	exp := outline.Points{{X: 10, Y: 20}, {X: -300, Y: 20}, {X: 0, Y: 0}}

	pts, err := outline.Decode(fonttest.SimpleGlyph(exp...), nil)
	require.NoError(t, err)
	assert.Equal(t, exp, pts)
}

func TestSimpleCompressed(t *testing.T) {
	data := []byte{
		0, 1, // contours
		0, 0, 0, 0, 0, 0, 0, 0, // bbox
		0, 2, // last point
		0, 2, 0xb0, 0x00, // instructions
		0x3b, 1, 0x15, // flags, the first one repeated
		10, 10, // x
		5, // y
	}

	pts, err := outline.Decode(data, nil)
	require.NoError(t, err)
	assert.Equal(t, outline.Points{{X: 10, Y: 0}, {X: 20, Y: 0}, {X: 20, Y: -5}}, pts)
}

func TestEmpty(t *testing.T) {
	pts, err := outline.Decode(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, pts)
}

func TestTruncated(t *testing.T) {
	data := fonttest.SimpleGlyph(outline.Point{X: 1, Y: 2}, outline.Point{X: 3, Y: 4})

	_, err := outline.Decode(data[:len(data)-1], nil)
	assert.ErrorIs(t, err, outline.ErrTruncated)
}

func TestComposite(t *testing.T) {
	glyphs := map[uint16]outline.Points{
		1: {{X: 0, Y: 0}, {X: 10, Y: 0}},
		2: {{X: 0, Y: 0}, {X: 4, Y: 4}},
	}

	resolve := func(gid uint16) (outline.Points, error) {
		p, ok := glyphs[gid]
		if !ok {
			return nil, errors.New("no glyph %d", gid)
		}

		return p, nil
	}

	for _, tc := range []struct {
		name string
		cs   []fonttest.Component
		exp  outline.Points
	}{
		{
			name: "offset",
			cs:   []fonttest.Component{{Glyph: 1, DX: 5, DY: -7}},
			exp:  outline.Points{{X: 5, Y: -7}, {X: 15, Y: -7}},
		},
		{
			name: "scale",
			cs:   []fonttest.Component{{Glyph: 1, Scale: 0.5}},
			exp:  outline.Points{{X: 0, Y: 0}, {X: 5, Y: 0}},
		},
		{
			name: "match_points",
			cs: []fonttest.Component{
				{Glyph: 1},
				{Glyph: 2, Match: true, P1: 1, P2: 0},
			},
			exp: outline.Points{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 0}, {X: 14, Y: 4}},
		},
	} {
		pts, err := outline.Decode(fonttest.CompositeGlyph(tc.cs...), resolve)
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.exp, pts, tc.name)
	}

	_, err := outline.Decode(fonttest.CompositeGlyph(fonttest.Component{Glyph: 5}), resolve)
	assert.Error(t, err)

	_, err = outline.Decode(fonttest.CompositeGlyph(fonttest.Component{Glyph: 2, Match: true, P1: 3, P2: 0}), resolve)
	assert.Error(t, err)

	_, err = outline.Decode(fonttest.CompositeGlyph(fonttest.Component{Glyph: 1}), nil)
	assert.Error(t, err)
}

func TestCoord(t *testing.T) {
	p := outline.Point{X: 3, Y: 4}

	assert.Equal(t, 3, p.Coord(true))
	assert.Equal(t, 4, p.Coord(false))

	_, ok := outline.Points{p}.At(1)
	assert.False(t, ok)

	_, ok = outline.Points{p}.At(-1)
	assert.False(t, ok)
}
