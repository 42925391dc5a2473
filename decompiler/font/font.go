package font

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/go-text/typesetting/font/opentype"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/font/sfnt"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/moyogo/Hinting-Decompiler/decompiler/outline"
)

type (
	// Font is a TrueType font opened for reading its VTT sources.
	// It's safe for concurrent use.
	Font struct {
		ld *opentype.Loader

		names []string
		ids   map[string]uint16

		sources [2]source

		glyf     []byte
		loca     []uint32
		glyfErr  error
		outlines *lru.Cache[uint16, outline.Points]
	}

	source struct {
		p   *programs
		err error
	}
)

const (
	outlineCacheSize  = 512
	maxComponentDepth = 16
)

func Open(ctx context.Context, name string) (*Font, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read font", "size", len(data), "name", name)

	return New(ctx, data)
}

func New(ctx context.Context, data []byte) (f *Font, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "open font", "size", len(data))
	defer tr.Finish("err", &err)

	ld, err := opentype.NewLoader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "sfnt header")
	}

	f = &Font{
		ld: ld,
	}

	f.outlines, err = lru.New[uint16, outline.Points](outlineCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "outline cache")
	}

	n, err := f.numGlyphs()
	if err != nil {
		return nil, errors.Wrap(err, "maxp")
	}

	f.names = glyphNames(ctx, data, n)

	f.ids = make(map[string]uint16, len(f.names))
	for i, name := range f.names {
		f.ids[name] = uint16(i)
	}

	for _, s := range []Source{Assembly, Talk} {
		f.sources[s].p, f.sources[s].err = f.loadPrograms(s)

		if tr.If("dump_tables") {
			tr.Printw("source", "source", s, "err", f.sources[s].err)
		}
	}

	f.glyfErr = f.loadGlyf()

	tr.Printw("font", "glyphs", n, "glyf_err", f.glyfErr)

	return f, nil
}

// GlyphOrder returns glyph names in glyph id order.
func (f *Font) GlyphOrder() []string {
	return f.names
}

// HasTable reports if the font has the table.
func (f *Font) HasTable(tag string) bool {
	return f.ld.HasTable(opentype.MustNewTag(tag))
}

// Program returns the text of the named program with line ends normalized.
// name is a glyph name for Glyph kind. For Extra it is one of ppgm, cvt, reserved, fpgm
// in Assembly and reserved0 to reserved3 in Talk.
func (f *Font) Program(src Source, kind Kind, name string) (string, error) {
	s := f.sources[src]
	if s.err != nil {
		return "", s.err
	}

	_, tag := src.Tables()

	text, ok := s.p.get(kind)[name]
	if !ok {
		return "", &MissingProgramError{Tag: tag, Kind: kind, Name: name}
	}

	return Normalize(text), nil
}

// GlyphProgram is Program(Assembly, Glyph, name).
func (f *Font) GlyphProgram(name string) (string, error) {
	return f.Program(Assembly, Glyph, name)
}

// Points returns the outline points of the glyph.
func (f *Font) Points(name string) (outline.Points, error) {
	if f.glyfErr != nil {
		return nil, f.glyfErr
	}

	gid, ok := f.ids[name]
	if !ok {
		return nil, errors.New("no such glyph: %q", name)
	}

	return f.points(gid, 0)
}

func (f *Font) points(gid uint16, depth int) (outline.Points, error) {
	if pts, ok := f.outlines.Get(gid); ok {
		return pts, nil
	}

	if depth > maxComponentDepth {
		return nil, errors.New("glyph %d: components nested too deep", gid)
	}

	if int(gid)+1 >= len(f.loca) {
		return nil, errors.New("glyph %d: out of loca range", gid)
	}

	st, end := f.loca[gid], f.loca[gid+1]
	if st > end || end > uint32(len(f.glyf)) {
		return nil, errors.New("glyph %d: bad glyf offsets %d..%d", gid, st, end)
	}

	pts, err := outline.Decode(f.glyf[st:end], func(c uint16) (outline.Points, error) {
		return f.points(c, depth+1)
	})
	if err != nil {
		return nil, errors.Wrap(err, "glyph %d", gid)
	}

	f.outlines.Add(gid, pts)

	return pts, nil
}

func (f *Font) loadPrograms(src Source) (*programs, error) {
	itag, ttag := src.Tables()

	index, err := f.table(itag)
	if err != nil {
		return nil, err
	}

	text, err := f.table(ttag)
	if err != nil {
		return nil, err
	}

	p, err := parsePrograms(src, index, text, f.glyphName)
	if err != nil {
		return nil, errors.Wrap(err, "%v", ttag)
	}

	return p, nil
}

func (f *Font) loadGlyf() (err error) {
	for _, tag := range []string{"glyf", "loca", "head"} {
		if !f.HasTable(tag) {
			return &UnsupportedFontError{Reason: fmt.Sprintf("missing '%s' table; not a TrueType font", tag)}
		}
	}

	head, err := f.table("head")
	if err != nil {
		return err
	}

	if len(head) < 54 {
		return errors.New("head table too short")
	}

	long := binary.BigEndian.Uint16(head[50:]) != 0

	loca, err := f.table("loca")
	if err != nil {
		return err
	}

	f.loca = parseLoca(loca, long)

	f.glyf, err = f.table("glyf")

	return err
}

func (f *Font) numGlyphs() (int, error) {
	maxp, err := f.table("maxp")
	if err != nil {
		return 0, err
	}

	if len(maxp) < 6 {
		return 0, errors.New("maxp table too short")
	}

	return int(binary.BigEndian.Uint16(maxp[4:])), nil
}

func (f *Font) table(tag string) ([]byte, error) {
	t := opentype.MustNewTag(tag)

	if !f.ld.HasTable(t) {
		return nil, &MissingTableError{Tag: tag}
	}

	data, err := f.ld.RawTable(t)
	if err != nil {
		return nil, errors.Wrap(err, "read %v", tag)
	}

	return data, nil
}

func (f *Font) glyphName(gid uint16) string {
	if int(gid) < len(f.names) {
		return f.names[gid]
	}

	return ""
}

func parseLoca(data []byte, long bool) []uint32 {
	var l []uint32

	if long {
		for i := 0; i+4 <= len(data); i += 4 {
			l = append(l, binary.BigEndian.Uint32(data[i:]))
		}

		return l
	}

	for i := 0; i+2 <= len(data); i += 2 {
		l = append(l, 2*uint32(binary.BigEndian.Uint16(data[i:])))
	}

	return l
}

// glyphNames takes names from the post table where it has them.
func glyphNames(ctx context.Context, data []byte, n int) []string {
	names := make([]string, n)

	sf, err := sfnt.Parse(data)
	if err != nil {
		tlog.SpanFromContext(ctx).Printw("no glyph names, using generated", "err", err)
	}

	var buf sfnt.Buffer

	for i := range names {
		if sf != nil && i < sf.NumGlyphs() {
			names[i], _ = sf.GlyphName(&buf, sfnt.GlyphIndex(i))
		}

		if names[i] == "" {
			names[i] = defaultGlyphName(i)
		}
	}

	return names
}

func defaultGlyphName(i int) string {
	if i == 0 {
		return ".notdef"
	}

	return fmt.Sprintf("glyph%05d", i)
}
