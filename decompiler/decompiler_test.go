package decompiler

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tlog.app/go/errors"

	"github.com/moyogo/Hinting-Decompiler/decompiler/font"
	"github.com/moyogo/Hinting-Decompiler/decompiler/match"
	"github.com/moyogo/Hinting-Decompiler/decompiler/outline"
	"github.com/moyogo/Hinting-Decompiler/decompiler/parse"
	"github.com/moyogo/Hinting-Decompiler/internal/fonttest"
)

type fakeFont struct {
	names  []string
	asm    map[string]string
	stored map[string]string
	pts    map[string]outline.Points
}

func (f *fakeFont) GlyphOrder() []string { return f.names }

func (f *fakeFont) Program(src font.Source, kind font.Kind, name string) (string, error) {
	m, tag := f.asm, "TSI1"
	if src == font.Talk {
		m, tag = f.stored, "TSI3"
	}

	text, ok := m[name]
	if !ok {
		return "", &font.MissingProgramError{Tag: tag, Kind: kind, Name: name}
	}

	return text, nil
}

func (f *fakeFont) Points(name string) (outline.Points, error) {
	return f.pts[name], nil
}

const interpolateText = `SVTCA[X]
SRP1[], 2
SRP2[], 4
IP[], 7
`

var interpolatePoints = outline.Points{2: {X: 0}, 4: {X: 10}, 7: {X: 5}}

func TestText(t *testing.T) {
	p, err := Text(context.Background(), interpolateText, interpolatePoints, match.Options{})
	require.NoError(t, err)
	assert.Equal(t, "XInterpolate(4,7,2)", p.String())

	p, err = Text(context.Background(), "FOO[], 1, 2", nil, match.Options{})
	require.NoError(t, err)
	assert.Equal(t, `ASM("FOO 1 2")`, p.String())

	p, err = Text(context.Background(), "FOO[], 007, +3", nil, match.Options{})
	require.NoError(t, err)
	assert.Equal(t, `ASM("FOO 007 +3")`, p.String())

	p, err = Text(context.Background(), "#PUSHOFF\nSVTCA[Y]\n#PUSH, 7, 3, 114\nCALL[]", nil, match.Options{})
	require.NoError(t, err)
	assert.Contains(t, p.String(), `ASM("#PUSH 7 3 114")`)

	p, err = Text(context.Background(), "", nil, match.Options{})
	require.NoError(t, err)
	assert.Empty(t, p)
}

func TestTextParseError(t *testing.T) {
	_, err := Text(context.Background(), "SVTCA[X]\nSRP1[, 2", nil, match.Options{})

	var pe *parse.Error
	require.True(t, errors.As(err, &pe), "%v", err)
	assert.Equal(t, 2, pe.Line)
}

func TestGlyph(t *testing.T) {
	f := &fakeFont{
		names:  []string{"a"},
		asm:    map[string]string{"a": "\n  " + interpolateText + "\n\n"},
		stored: map[string]string{"a": "XInterpolate(4,7,2)"},
		pts:    map[string]outline.Points{"a": interpolatePoints},
	}

	res, err := Glyph(context.Background(), f, "a", Options{WithStored: true})
	require.NoError(t, err)

	assert.Equal(t, "a", res.Name)
	assert.Equal(t, interpolateText[:len(interpolateText)-1], res.Assembly)
	assert.Equal(t, "XInterpolate(4,7,2)", res.Talk.String())
	assert.Equal(t, "XInterpolate(4,7,2)", res.Stored)

	f.stored = nil

	res, err = Glyph(context.Background(), f, "a", Options{WithStored: true})
	require.NoError(t, err)
	assert.Equal(t, "", res.Stored)

	_, err = Glyph(context.Background(), f, "b", Options{})
	assert.True(t, font.IsMissing(err), "%v", err)
}

func TestGlyphFromFont(t *testing.T) {
	data := fonttest.Font{
		Glyphs: []fonttest.Glyph{
			{
				Points:   []outline.Point{{X: 0, Y: 0}, {X: 500, Y: 0}, {X: 250, Y: 700}},
				Assembly: "SVTCA[Y]\nSRP1[], 0\nSRP2[], 2\nIP[], 1\nIUP[Y]\nIUP[X]",
			},
		},
	}.Build()

	f, err := font.New(context.Background(), data)
	require.NoError(t, err)

	res, err := Glyph(context.Background(), f, ".notdef", Options{})
	require.NoError(t, err)

	assert.Equal(t, "YInterpolate(2,1,0)\nSmooth()", res.Talk.String())
}

func manyGlyphs(n int) *fakeFont {
	f := &fakeFont{
		asm: map[string]string{},
		pts: map[string]outline.Points{},
	}

	for i := 0; i < n; i++ {
		name := fmt.Sprintf("g%d", i)

		f.names = append(f.names, name)
		f.asm[name] = fmt.Sprintf("SVTCA[Y]\nMDAP[R], %d\nFOO[], %d", i%7, i)
		f.pts[name] = nil
	}

	return f
}

func collect(t *testing.T, f Font, opts Options) (l []*Result) {
	t.Helper()

	err := Decompile(context.Background(), f, opts, func(r *Result) error {
		l = append(l, r)
		return nil
	})
	require.NoError(t, err)

	return l
}

func TestDecompileOrder(t *testing.T) {
	f := manyGlyphs(100)

	seq := collect(t, f, Options{Jobs: 1})
	par := collect(t, f, Options{Jobs: 8})

	require.Len(t, seq, 100)
	assert.Equal(t, seq, par)

	for i, r := range par {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, f.names[i], r.Name)
		assert.Equal(t, fmt.Sprintf("YAnchor(%d)\nASM(\"FOO %d\")", i%7, i), r.Talk.String())
	}
}

func TestDecompileSubset(t *testing.T) {
	f := manyGlyphs(10)

	l := collect(t, f, Options{Jobs: 3, Glyphs: []string{"g7", "g2"}})
	require.Len(t, l, 2)

	assert.Equal(t, "g7", l[0].Name)
	assert.Equal(t, "g2", l[1].Name)
}

func TestDecompileAbort(t *testing.T) {
	for _, jobs := range []int{1, 4, 16} {
		f := manyGlyphs(50)
		delete(f.asm, "g20")

		var emitted []string

		err := Decompile(context.Background(), f, Options{Jobs: jobs}, func(r *Result) error {
			emitted = append(emitted, r.Name)
			return nil
		})
		assert.True(t, font.IsMissing(err), "jobs %d: %v", jobs, err)
		assert.ErrorContains(t, err, "glyph g20", "jobs %d", jobs)
		assert.Equal(t, f.names[:20], emitted, "jobs %d", jobs)
	}
}

func TestDecompileFirstFailure(t *testing.T) {
	for _, jobs := range []int{1, 2, 8} {
		f := manyGlyphs(30)
		delete(f.asm, "g5")
		delete(f.asm, "g25")

		var emitted int

		err := Decompile(context.Background(), f, Options{Jobs: jobs}, func(r *Result) error {
			emitted++
			return nil
		})

		var mp *font.MissingProgramError
		require.True(t, errors.As(err, &mp), "jobs %d: %v", jobs, err)
		assert.Equal(t, "g5", mp.Name, "jobs %d", jobs)
		assert.Equal(t, 5, emitted, "jobs %d", jobs)
	}
}

func TestDecompileEmitError(t *testing.T) {
	f := manyGlyphs(50)
	stop := errors.New("stop")

	var emitted int

	err := Decompile(context.Background(), f, Options{Jobs: 4}, func(r *Result) error {
		emitted++

		if r.Index == 3 {
			return stop
		}

		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 4, emitted)
}
