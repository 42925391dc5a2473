package decompiler

import (
	"context"
	"strings"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/moyogo/Hinting-Decompiler/decompiler/font"
	"github.com/moyogo/Hinting-Decompiler/decompiler/match"
	"github.com/moyogo/Hinting-Decompiler/decompiler/outline"
	"github.com/moyogo/Hinting-Decompiler/decompiler/parse"
	"github.com/moyogo/Hinting-Decompiler/decompiler/talk"
)

type (
	Options struct {
		match.Options

		// WithStored also reads Talk saved in the font (TSI3), if any.
		WithStored bool

		// Jobs is the number of glyphs decompiled in parallel.
		Jobs int

		// Glyphs limits Font to these glyphs. All glyphs if empty.
		Glyphs []string
	}

	Result struct {
		Index int
		Name  string

		Assembly string
		Talk     talk.Program

		// Stored is the Talk found in the font.
		Stored string
	}

	// Font is what decompiler needs from a font.
	// It's implemented by *font.Font.
	Font interface {
		GlyphOrder() []string
		Program(src font.Source, kind font.Kind, name string) (string, error)
		Points(name string) (outline.Points, error)
	}
)

// Glyph decompiles the glyph program of the named glyph.
func Glyph(ctx context.Context, f Font, name string, opts Options) (res *Result, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "decompile glyph", "name", name)
	defer tr.Finish("err", &err)

	text, err := f.Program(font.Assembly, font.Glyph, name)
	if err != nil {
		return nil, errors.Wrap(err, "get assembly")
	}

	text = strings.TrimSpace(text)

	pts, err := f.Points(name)
	if err != nil {
		return nil, errors.Wrap(err, "get points")
	}

	p, err := Text(ctx, text, pts, opts.Options)
	if err != nil {
		return nil, err
	}

	res = &Result{
		Name:     name,
		Assembly: text,
		Talk:     p,
	}

	if opts.WithStored {
		res.Stored, err = f.Program(font.Talk, font.Glyph, name)
		if font.IsMissing(err) {
			tr.V("stored").Printw("no stored talk", "err", err)
		} else if err != nil {
			return nil, errors.Wrap(err, "get stored talk")
		}
	}

	return res, nil
}

// Text decompiles assembly text.
func Text(ctx context.Context, text string, pts outline.Points, opts match.Options) (talk.Program, error) {
	tr := tlog.SpanFromContext(ctx)

	code, err := parse.Parse(ctx, []byte(text))
	if err != nil {
		return nil, errors.Wrap(err, "tokenize")
	}

	if tr.If("dump_code") {
		for i, x := range code {
			tr.Printw("instr", "i", i, "pos", x.Pos, "instr", x.Text())
		}
	}

	p := match.Decompile(code, pts, opts)

	tr.V("talk").Printw("decompiled", "instrs", len(code), "lines", len(p))

	return p, nil
}
