package parse

import "strings"

var (
	axisFlags  = map[string]string{"X": "1", "Y": "0", "x": "1", "y": "0"}
	roundFlags = map[string]string{"R": "1", "r": "0"}
	refFlags   = map[string]string{"1": "1", "2": "0"}
	origFlags  = map[string]string{"N": "0", "O": "1"}

	distanceTypes = map[string]string{"Gr": "00", "Bl": "01", "Wh": "10"}

	letterFlags = map[string]map[string]string{
		"SVTCA":  axisFlags,
		"SPVTCA": axisFlags,
		"SFVTCA": axisFlags,
		"SPVTL":  {"r": "0", "R": "1"},
		"SFVTL":  {"r": "0", "R": "1"},
		"IUP":    axisFlags,

		"MDAP": roundFlags,
		"MIAP": roundFlags,

		"SHP": refFlags,
		"SHC": refFlags,
		"SHZ": refFlags,

		"GC": origFlags,
		"MD": origFlags,

		"ROUND":  distanceTypes,
		"NROUND": distanceTypes,
	}
)

// FlagBits translates VTT flag letters, like the X in SVTCA[X]
// or the m>RWh in MDRP[m>RWh], into the instruction bits.
// Bit strings are returned as is.
// Unknown flags are returned unchanged.
func FlagBits(mnemonic, flags string) string {
	if flags == "" || isBits(flags) && mnemonic != "SHP" && mnemonic != "SHC" && mnemonic != "SHZ" {
		return flags
	}

	switch mnemonic {
	case "MDRP", "MIRP":
		if bits, ok := relativeFlags(flags); ok {
			return bits
		}

		return flags
	}

	if bits, ok := letterFlags[mnemonic][flags]; ok {
		return bits
	}

	return flags
}

// relativeFlags decodes [m|M][<|>][r|R](Gr|Bl|Wh).
func relativeFlags(f string) (string, bool) {
	var b strings.Builder

	for _, pair := range [...][2]byte{{'m', 'M'}, {'<', '>'}, {'r', 'R'}} {
		if f == "" {
			return "", false
		}

		switch f[0] {
		case pair[0]:
			b.WriteByte('0')
		case pair[1]:
			b.WriteByte('1')
		default:
			return "", false
		}

		f = f[1:]
	}

	d, ok := distanceTypes[f]
	if !ok {
		return "", false
	}

	b.WriteString(d)

	return b.String(), true
}

func isBits(s string) bool {
	for _, c := range []byte(s) {
		if c != '0' && c != '1' {
			return false
		}
	}

	return s != ""
}
