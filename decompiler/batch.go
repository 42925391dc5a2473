package decompiler

import (
	"context"

	"golang.org/x/sync/errgroup"
	"nikand.dev/go/heap"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

type (
	job struct {
		i    int
		name string
	}

	done struct {
		i   int
		res *Result
		err error
	}

	results struct {
		heap.Heap[done]
	}
)

// Decompile decompiles all the glyphs of the font (or opts.Glyphs)
// and calls emit for each one in the glyph order.
// Glyphs are processed by opts.Jobs workers.
// The first failing glyph in the glyph order stops the run:
// all the glyphs before it are emitted and its error is returned.
func Decompile(ctx context.Context, f Font, opts Options, emit func(*Result) error) (err error) {
	names := opts.Glyphs
	if len(names) == 0 {
		names = f.GlyphOrder()
	}

	workers := max(opts.Jobs, 1)

	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "decompile font", "glyphs", len(names), "jobs", workers)
	defer tr.Finish("err", &err)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	jobs := make(chan job)
	out := make(chan done)

	g.Go(func() error {
		defer close(jobs)

		for i, name := range names {
			select {
			case jobs <- job{i: i, name: name}:
			case <-gctx.Done():
				return gctx.Err()
			}
		}

		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for j := range jobs {
				d := done{i: j.i}

				d.res, d.err = Glyph(gctx, f, j.name, opts)
				if d.err != nil {
					d.err = errors.Wrap(d.err, "glyph %v", j.name)
				} else {
					d.res.Index = j.i
				}

				select {
				case out <- d:
				case <-gctx.Done():
					return gctx.Err()
				}
			}

			return nil
		})
	}

	errc := make(chan error, 1)

	go func() {
		errc <- g.Wait()
		close(out)
	}()

	q := results{Heap: heap.Heap[done]{Less: resultsLess}}
	next := 0

	var runErr error

	for d := range out {
		if runErr != nil {
			continue
		}

		q.Push(d)

		for q.Len() != 0 && runErr == nil {
			r := q.Pop()
			if r.i != next {
				q.Push(r)
				break
			}

			next++

			if r.err != nil {
				runErr = r.err
				cancel()

				break
			}

			if eerr := emit(r.res); eerr != nil {
				runErr = errors.Wrap(eerr, "emit")
				cancel()
			}
		}
	}

	werr := <-errc

	if runErr != nil {
		return runErr
	}

	if werr != nil {
		return werr
	}

	if tr.If("dump_done") {
		tr.Printw("all glyphs done", "emitted", next)
	}

	return nil
}

func resultsLess(d []done, i, j int) bool {
	return d[i].i < d[j].i
}
