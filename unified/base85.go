package unified

import "fmt"

// base85Alphabet is the alphabet defined by base85.c in the Git source
// tree, which does not match the more common btoa/RFC 1924 alphabets.
const base85Alphabet = "0123456789" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"abcdefghijklmnopqrstuvwxyz" +
	"!#$%&()*+-;<=>?@^_`{|}~"

var base85Decode [256]int16

func init() {
	for i := range base85Decode {
		base85Decode[i] = -1
	}
	for i, c := range base85Alphabet {
		base85Decode[byte(c)] = int16(i)
	}
}

// decodeBase85 decodes Base85-encoded src into a buffer of exactly n bytes.
// Git encodes each 32-bit group as 5 base85 digits, most-significant digit
// first; the final group may be underpadded with no explicit marker, so
// the caller must tell decodeBase85 how many bytes it actually wants.
func decodeBase85(src []byte, n int) ([]byte, error) {
	dst := make([]byte, 0, n)

	var v uint32
	var digits int
	for i, b := range src {
		d := base85Decode[b]
		if d < 0 {
			return nil, fmt.Errorf("invalid base85 byte at index %d: 0x%02x", i, b)
		}
		v = v*85 + uint32(d)
		digits++

		if digits == 5 {
			for shift := 24; shift >= 0 && len(dst) < n; shift -= 8 {
				dst = append(dst, byte(v>>uint(shift)))
			}
			v, digits = 0, 0
		}
	}

	if digits > 0 {
		return nil, fmt.Errorf("base85 data terminated by an underpadded group")
	}
	if len(dst) < n {
		return nil, fmt.Errorf("base85 data is too short: decoded %d of %d bytes", len(dst), n)
	}
	return dst, nil
}
