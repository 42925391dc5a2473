package font

import (
	"encoding/binary"
	"strings"

	"tlog.app/go/errors"
)

type (
	// Source selects which VTT sources to read: assembly or Talk.
	Source int

	// Kind selects glyph programs or extra (font-wide) programs.
	Kind int

	programs struct {
		glyph map[string]string
		extra map[string]string
	}

	indexRecord struct {
		id     uint16
		length uint16
		offset uint32
	}
)

const (
	Assembly Source = iota
	Talk
)

const (
	Glyph Kind = iota
	Extra
)

const (
	indexMagicID     = 0xfffe
	indexMagicOffset = 0xabfc1f34

	longText = 0x8000
)

var (
	asmExtraNames = map[uint16]string{
		0xfffa: "ppgm",
		0xfffb: "cvt",
		0xfffc: "reserved",
		0xfffd: "fpgm",
	}

	talkExtraNames = map[uint16]string{
		0xfffa: "reserved0",
		0xfffb: "reserved1",
		0xfffc: "reserved2",
		0xfffd: "reserved3",
	}
)

// Tables returns index and text table tags for the source.
func (s Source) Tables() (index, text string) {
	if s == Talk {
		return "TSI2", "TSI3"
	}

	return "TSI0", "TSI1"
}

// ExtraName names the extra program stored under the index record id.
// It returns "" for unknown ids.
func (s Source) ExtraName(id uint16) string {
	if s == Talk {
		return talkExtraNames[id]
	}

	return asmExtraNames[id]
}

func (s Source) String() string {
	if s == Talk {
		return "talk"
	}

	return "assembly"
}

func (k Kind) String() string {
	if k == Extra {
		return "Extra"
	}

	return "Glyph"
}

func (p *programs) get(k Kind) map[string]string {
	if k == Extra {
		return p.extra
	}

	return p.glyph
}

func parseIndex(data []byte) (glyph, extra []indexRecord, err error) {
	if len(data)%8 != 0 {
		return nil, nil, errors.New("index size %d is not a multiple of 8", len(data))
	}

	magic := -1

	for i := 0; i < len(data); i += 8 {
		r := indexRecord{
			id:     binary.BigEndian.Uint16(data[i:]),
			length: binary.BigEndian.Uint16(data[i+2:]),
			offset: binary.BigEndian.Uint32(data[i+4:]),
		}

		if magic < 0 && r.id == indexMagicID && r.offset == indexMagicOffset {
			magic = i / 8
			continue
		}

		if magic < 0 {
			glyph = append(glyph, r)
		} else {
			extra = append(extra, r)
		}
	}

	return glyph, extra, nil
}

// parsePrograms decodes a VTT text table using its index.
// Glyph programs are named with name(glyph id), extra ones with src.ExtraName.
func parsePrograms(src Source, index, text []byte, name func(gid uint16) string) (*programs, error) {
	glyph, extra, err := parseIndex(index)
	if err != nil {
		return nil, errors.Wrap(err, "index")
	}

	p := &programs{}

	firstExtra := uint32(len(text))
	if len(extra) != 0 {
		firstExtra = extra[0].offset
	}

	p.glyph, err = readPrograms(glyph, text, firstExtra, name)
	if err != nil {
		return nil, errors.Wrap(err, "glyph programs")
	}

	p.extra, err = readPrograms(extra, text, uint32(len(text)), src.ExtraName)
	if err != nil {
		return nil, errors.Wrap(err, "extra programs")
	}

	return p, nil
}

// readPrograms reads records. A record with the length 0x8000 extends
// to the next record offset; the last one extends to end.
// Records running past the table are cut at its end.
func readPrograms(recs []indexRecord, text []byte, end uint32, name func(uint16) string) (map[string]string, error) {
	res := make(map[string]string, len(recs))

	for i, r := range recs {
		n := name(r.id)
		if n == "" {
			continue
		}

		if r.offset > uint32(len(text)) {
			continue
		}

		length := uint32(r.length)

		switch {
		case r.length < longText:
		case r.length == longText:
			next := end
			if i+1 < len(recs) {
				next = recs[i+1].offset
			}

			if next < r.offset {
				return nil, errors.New("%v: entries not sorted by offset", n)
			}

			next = min(next, uint32(len(text)))

			length = next - r.offset
		default:
			return nil, errors.New("%v: text length %d must not be > 32768", n, r.length)
		}

		length = min(length, uint32(len(text))-r.offset)

		if length == 0 {
			continue
		}

		res[n] = string(text[r.offset : r.offset+length])
	}

	return res, nil
}

// Normalize converts CR and CRLF line ends to LF.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	return strings.ReplaceAll(text, "\r", "\n")
}
