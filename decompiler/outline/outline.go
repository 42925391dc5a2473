package outline

import (
	"encoding/binary"
	"math"

	"tlog.app/go/errors"
)

type (
	Point struct {
		X, Y int
	}

	// Points is a glyph outline. Index is the point number.
	Points []Point

	// Resolver returns the outline of a composite glyph component.
	Resolver func(gid uint16) (Points, error)

	reader struct {
		b []byte
		i int
	}
)

// Simple glyph flags.
const (
	xShort     = 0x02
	yShort     = 0x04
	repeatFlag = 0x08
	xSameOrPos = 0x10
	ySameOrPos = 0x20
)

// Composite glyph flags.
const (
	argsAreWords   = 0x0001
	argsAreXY      = 0x0002
	haveScale      = 0x0008
	moreComponents = 0x0020
	haveXYScale    = 0x0040
	have2x2        = 0x0080
	scaledOffset   = 0x0800
)

var ErrTruncated = errors.New("truncated glyph data")

func (p Points) At(i int) (Point, bool) {
	if i < 0 || i >= len(p) {
		return Point{}, false
	}

	return p[i], true
}

// Coord returns the coordinate along x (x == true) or y axis.
func (p Point) Coord(x bool) int {
	if x {
		return p.X
	}

	return p.Y
}

// Decode decodes one glyf table entry.
// Empty data is an empty glyph.
func Decode(data []byte, component Resolver) (Points, error) {
	if len(data) == 0 {
		return Points{}, nil
	}

	r := &reader{b: data}

	ncont, err := r.i16()
	if err != nil {
		return nil, errors.Wrap(err, "header")
	}

	r.i += 8 // bbox

	if ncont >= 0 {
		return decodeSimple(r, int(ncont))
	}

	if component == nil {
		return nil, errors.New("composite glyph without component resolver")
	}

	return decodeComposite(r, component)
}

func decodeSimple(r *reader, ncont int) (Points, error) {
	if ncont == 0 {
		return Points{}, nil
	}

	npts := 0

	for c := 0; c < ncont; c++ {
		end, err := r.u16()
		if err != nil {
			return nil, errors.Wrap(err, "contour ends")
		}

		npts = int(end) + 1
	}

	ilen, err := r.u16()
	if err != nil {
		return nil, errors.Wrap(err, "instructions length")
	}

	r.i += int(ilen)

	flags := make([]byte, 0, npts)

	for len(flags) < npts {
		f, err := r.u8()
		if err != nil {
			return nil, errors.Wrap(err, "flags")
		}

		flags = append(flags, f)

		if f&repeatFlag == 0 {
			continue
		}

		n, err := r.u8()
		if err != nil {
			return nil, errors.Wrap(err, "flags repeat")
		}

		for ; n > 0 && len(flags) < npts; n-- {
			flags = append(flags, f)
		}
	}

	pts := make(Points, npts)

	x := 0
	for j, f := range flags {
		d, err := r.delta(f, xShort, xSameOrPos)
		if err != nil {
			return nil, errors.Wrap(err, "x coordinates")
		}

		x += d
		pts[j].X = x
	}

	y := 0
	for j, f := range flags {
		d, err := r.delta(f, yShort, ySameOrPos)
		if err != nil {
			return nil, errors.Wrap(err, "y coordinates")
		}

		y += d
		pts[j].Y = y
	}

	return pts, nil
}

func decodeComposite(r *reader, component Resolver) (pts Points, err error) {
	for {
		flags, err := r.u16()
		if err != nil {
			return nil, errors.Wrap(err, "component flags")
		}

		gid, err := r.u16()
		if err != nil {
			return nil, errors.Wrap(err, "component glyph")
		}

		a1, a2, err := r.args(flags)
		if err != nil {
			return nil, errors.Wrap(err, "component args")
		}

		m := [4]float64{1, 0, 0, 1}

		switch {
		case flags&haveScale != 0:
			s, err := r.f2dot14()
			if err != nil {
				return nil, errors.Wrap(err, "scale")
			}

			m[0], m[3] = s, s
		case flags&haveXYScale != 0:
			for _, k := range []int{0, 3} {
				m[k], err = r.f2dot14()
				if err != nil {
					return nil, errors.Wrap(err, "xy scale")
				}
			}
		case flags&have2x2 != 0:
			for k := range m {
				m[k], err = r.f2dot14()
				if err != nil {
					return nil, errors.Wrap(err, "2x2 transform")
				}
			}
		}

		sub, err := component(gid)
		if err != nil {
			return nil, errors.Wrap(err, "component %d", gid)
		}

		moved := make(Points, len(sub))
		for j, p := range sub {
			moved[j] = transform(m, p)
		}

		var dx, dy int

		if flags&argsAreXY != 0 {
			dx, dy = a1, a2

			if flags&scaledOffset != 0 {
				o := transform(m, Point{X: a1, Y: a2})
				dx, dy = o.X, o.Y
			}
		} else {
			parent, ok1 := pts.At(a1)
			child, ok2 := moved.At(a2)
			if !ok1 || !ok2 {
				return nil, errors.New("component %d: bad anchor points %d, %d", gid, a1, a2)
			}

			dx, dy = parent.X-child.X, parent.Y-child.Y
		}

		for _, p := range moved {
			pts = append(pts, Point{X: p.X + dx, Y: p.Y + dy})
		}

		if flags&moreComponents == 0 {
			return pts, nil
		}
	}
}

func (r *reader) args(flags uint16) (a1, a2 int, err error) {
	if flags&argsAreWords != 0 {
		x, err := r.u16()
		if err != nil {
			return 0, 0, err
		}

		y, err := r.u16()
		if err != nil {
			return 0, 0, err
		}

		if flags&argsAreXY != 0 {
			return int(int16(x)), int(int16(y)), nil
		}

		return int(x), int(y), nil
	}

	x, err := r.u8()
	if err != nil {
		return 0, 0, err
	}

	y, err := r.u8()
	if err != nil {
		return 0, 0, err
	}

	if flags&argsAreXY != 0 {
		return int(int8(x)), int(int8(y)), nil
	}

	return int(x), int(y), nil
}

func transform(m [4]float64, p Point) Point {
	if m == [4]float64{1, 0, 0, 1} {
		return p
	}

	x, y := float64(p.X), float64(p.Y)

	return Point{
		X: int(math.Round(m[0]*x + m[2]*y)),
		Y: int(math.Round(m[1]*x + m[3]*y)),
	}
}

func (r *reader) delta(f, short, same byte) (int, error) {
	switch {
	case f&short != 0:
		v, err := r.u8()
		if err != nil {
			return 0, err
		}

		if f&same == 0 {
			return -int(v), nil
		}

		return int(v), nil
	case f&same != 0:
		return 0, nil
	default:
		v, err := r.i16()
		return int(v), err
	}
}

func (r *reader) u8() (byte, error) {
	if r.i+1 > len(r.b) {
		return 0, ErrTruncated
	}

	v := r.b[r.i]
	r.i++

	return v, nil
}

func (r *reader) u16() (uint16, error) {
	if r.i+2 > len(r.b) {
		return 0, ErrTruncated
	}

	v := binary.BigEndian.Uint16(r.b[r.i:])
	r.i += 2

	return v, nil
}

func (r *reader) i16() (int16, error) {
	v, err := r.u16()

	return int16(v), err
}

func (r *reader) f2dot14() (float64, error) {
	v, err := r.i16()

	return float64(v) / (1 << 14), err
}
