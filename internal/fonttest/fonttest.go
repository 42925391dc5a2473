// Package fonttest builds minimal TrueType fonts with VTT tables for tests.
package fonttest

import (
	"encoding/binary"
	"sort"
	"strings"

	"github.com/go-text/typesetting/font/opentype"

	"github.com/moyogo/Hinting-Decompiler/decompiler/outline"
)

type (
	Font struct {
		Glyphs []Glyph

		// Extra programs by name: ppgm, cvt, reserved, fpgm.
		Extra map[string]string

		// TalkExtra is extra Talk programs: reserved0 to reserved3.
		TalkExtra map[string]string

		NoGlyf   bool
		NoTSI    bool
		WithTalk bool
	}

	Glyph struct {
		// Data is raw glyf entry. Points is used if nil.
		Data   []byte
		Points []outline.Point

		Assembly string
		Talk     string
	}

	Component struct {
		Glyph  uint16
		DX, DY int16

		// Match points instead of DX, DY offset if set.
		Match  bool
		P1, P2 uint16

		Scale float64
	}
)

var (
	extraIDs     = []uint16{0xfffa, 0xfffb, 0xfffc, 0xfffd}
	asmExtraIDs  = []string{"ppgm", "cvt", "reserved", "fpgm"}
	talkExtraIDs = []string{"reserved0", "reserved1", "reserved2", "reserved3"}
)

// Build returns the font file bytes.
func (f Font) Build() []byte {
	tables := map[string][]byte{
		"head": head(),
		"maxp": maxp(len(f.Glyphs)),
	}

	if !f.NoGlyf {
		tables["glyf"], tables["loca"] = f.glyf()
	}

	if !f.NoTSI {
		tables["TSI0"], tables["TSI1"] = f.vtt(func(g Glyph) string { return g.Assembly }, asmExtraIDs, f.Extra)
	}

	if f.WithTalk {
		tables["TSI2"], tables["TSI3"] = f.vtt(func(g Glyph) string { return g.Talk }, talkExtraIDs, f.TalkExtra)
	}

	return sfnt(tables)
}

// SimpleGlyph encodes one contour of on-curve points.
func SimpleGlyph(pts ...outline.Point) []byte {
	if len(pts) == 0 {
		return nil
	}

	b := be16(nil, 1)
	b = append(b, make([]byte, 8)...) // bbox
	b = be16(b, uint16(len(pts)-1))
	b = be16(b, 0) // instructions

	for range pts {
		b = append(b, 0x01)
	}

	x := 0
	for _, p := range pts {
		b = be16(b, uint16(int16(p.X-x)))
		x = p.X
	}

	y := 0
	for _, p := range pts {
		b = be16(b, uint16(int16(p.Y-y)))
		y = p.Y
	}

	return b
}

// CompositeGlyph encodes a composite glyph with word arguments.
func CompositeGlyph(cs ...Component) []byte {
	b := be16(nil, 0xffff) // -1 contours
	b = append(b, make([]byte, 8)...)

	for i, c := range cs {
		flags := uint16(0x0001)

		if !c.Match {
			flags |= 0x0002
		}

		if c.Scale != 0 {
			flags |= 0x0008
		}

		if i+1 < len(cs) {
			flags |= 0x0020
		}

		b = be16(b, flags)
		b = be16(b, c.Glyph)

		if c.Match {
			b = be16(b, c.P1)
			b = be16(b, c.P2)
		} else {
			b = be16(b, uint16(c.DX))
			b = be16(b, uint16(c.DY))
		}

		if c.Scale != 0 {
			b = be16(b, uint16(int16(c.Scale*(1<<14))))
		}
	}

	return b
}

func (f Font) glyf() (glyf, loca []byte) {
	loca = be32(loca, 0)

	for _, g := range f.Glyphs {
		data := g.Data
		if data == nil {
			data = SimpleGlyph(g.Points...)
		}

		glyf = append(glyf, data...)
		if len(glyf)%2 != 0 {
			glyf = append(glyf, 0)
		}

		loca = be32(loca, uint32(len(glyf)))
	}

	return glyf, loca
}

// vtt encodes index and text tables. Line ends are written as CR like VTT does.
func (f Font) vtt(text func(Glyph) string, names []string, extra map[string]string) (index, data []byte) {
	rec := func(id uint16, s string) {
		s = strings.ReplaceAll(s, "\n", "\r")

		index = be16(index, id)
		index = be16(index, uint16(len(s)))
		index = be32(index, uint32(len(data)))

		data = append(data, s...)
	}

	for i, g := range f.Glyphs {
		rec(uint16(i), text(g))
	}

	index = be16(index, 0xfffe)
	index = be16(index, 0)
	index = be32(index, 0xabfc1f34)

	for i, id := range extraIDs {
		rec(id, extra[names[i]])
	}

	return index, data
}

func head() []byte {
	b := make([]byte, 54)

	binary.BigEndian.PutUint32(b[0:], 0x00010000)
	binary.BigEndian.PutUint32(b[12:], 0x5f0f3cf5)
	binary.BigEndian.PutUint16(b[18:], 1000)
	binary.BigEndian.PutUint16(b[50:], 1) // long loca

	return b
}

func maxp(n int) []byte {
	b := make([]byte, 6)

	binary.BigEndian.PutUint32(b[0:], 0x00005000)
	binary.BigEndian.PutUint16(b[4:], uint16(n))

	return b
}

func sfnt(tables map[string][]byte) []byte {
	l := make([]opentype.Table, 0, len(tables))

	for tag, data := range tables {
		l = append(l, opentype.Table{Tag: opentype.MustNewTag(tag), Content: data})
	}

	sort.Slice(l, func(i, j int) bool { return l[i].Tag < l[j].Tag })

	return opentype.WriteTTF(l)
}

func be16(b []byte, v uint16) []byte { return binary.BigEndian.AppendUint16(b, v) }
func be32(b []byte, v uint32) []byte { return binary.BigEndian.AppendUint32(b, v) }
