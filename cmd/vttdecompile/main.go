package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/moyogo/Hinting-Decompiler/decompiler"
	"github.com/moyogo/Hinting-Decompiler/decompiler/font"
	"github.com/moyogo/Hinting-Decompiler/decompiler/match"
)

func main() {
	app := &cli.Command{
		Name:        "vttdecompile",
		Description: "vttdecompile prints VTT Talk reconstructed from the VTT assembly of every glyph",
		Action:      decompileAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("fuse-ipanchor", false, "merge IP[] and MDAP[R] of the same point into IPAnchor"),
			cli.NewFlag("jobs,j", 1, "glyphs decompiled in parallel"),
			cli.NewFlag("glyph,g", "", "comma separated glyph names to decompile instead of all"),
			cli.NewFlag("stored", false, "also print Talk stored in the font"),
			cli.HelpFlag,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func decompileAct(c *cli.Command) (err error) {
	if len(c.Args) != 1 {
		return errors.New("usage: %v [flags] font.ttf", c.Name)
	}

	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	if tlog.If("dump_rules") {
		for _, r := range match.Rules() {
			tlog.Printw("rule", "mnemonic", r.Mnemonic, "arity", r.Arity, "name", r.Name, "from", r.From)
		}
	}

	f, err := font.Open(ctx, c.Args[0])
	if err != nil {
		return errors.Wrap(err, "open %v", c.Args[0])
	}

	opts := decompiler.Options{
		Options: match.Options{
			FuseIPAnchor: c.Bool("fuse-ipanchor"),
		},
		WithStored: c.Bool("stored"),
		Jobs:       c.Int("jobs"),
		Glyphs:     splitNames(c.String("glyph")),
	}

	w := bufio.NewWriter(os.Stdout)
	defer func() {
		e := w.Flush()
		if err == nil && e != nil {
			err = errors.Wrap(e, "flush")
		}
	}()

	err = run(ctx, w, f, opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "done\n")

	return nil
}

func run(ctx context.Context, w io.Writer, f decompiler.Font, opts decompiler.Options) error {
	return decompiler.Decompile(ctx, f, opts, func(r *decompiler.Result) error {
		_, err := fmt.Fprintf(w, "== %s ==\n%s\n\n== VTT Talk ==\n%s\n\n", r.Name, r.Assembly, r.Talk)
		if err != nil {
			return err
		}

		if opts.WithStored {
			_, err = fmt.Fprintf(w, "== Stored Talk ==\n%s\n\n", strings.TrimSpace(r.Stored))
		}

		return err
	})
}

func splitNames(s string) (l []string) {
	for _, n := range strings.Split(s, ",") {
		n = strings.TrimSpace(n)
		if n != "" {
			l = append(l, n)
		}
	}

	return l
}
