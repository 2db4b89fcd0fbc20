package unified

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/gopatch/core/patch"
)

// decodeBinaryChunk reads base85-encoded lines from s until a blank line,
// decoding each one according to Git's binary patch line format: the first
// character encodes the number of raw bytes the line represents ('A'-'Z'
// for 1-26, 'a'-'z' for 27-52), and the rest of the line is that many
// bytes, base85-encoded in groups of 4 (padded to 5 encoded characters per
// group). The decoded bytes are still zlib-compressed: the "literal N" /
// "delta N" header gives the size *after* inflation, which this function
// never sees, so it cannot cross-check the byte count it accumulates here.
func decodeBinaryChunk(s *bufio.Scanner) ([]byte, error) {
	var out []byte

	for s.Scan() {
		line := s.Text()
		if line == "" {
			return out, nil
		}

		n, err := binaryLineLength(line[0])
		if err != nil {
			return nil, err
		}

		groups := (n + 3) / 4
		encodedLen := groups * 5
		if len(line)-1 < encodedLen {
			return nil, fmt.Errorf("corrupt data line: too short for declared length %d", n)
		}

		decoded, err := decodeBase85([]byte(line[1:1+encodedLen]), n)
		if err != nil {
			return nil, err
		}
		out = append(out, decoded...)
	}

	if err := s.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("unexpected EOF in binary chunk")
}

func binaryLineLength(b byte) (int, error) {
	switch {
	case b >= 'A' && b <= 'Z':
		return int(b-'A') + 1, nil
	case b >= 'a' && b <= 'z':
		return int(b-'a') + 27, nil
	default:
		return 0, fmt.Errorf("invalid length byte: 0x%02x", b)
	}
}

// parseBinaryFragmentHeader parses a "literal N" or "delta N" line into the
// binary type and declared inflated size it announces.
func parseBinaryFragmentHeader(line string) (patch.BinaryType, int, error) {
	switch {
	case strings.HasPrefix(line, "literal "):
		n, err := strconv.Atoi(strings.TrimSpace(line[len("literal "):]))
		return patch.BinaryLiteral, n, err
	case strings.HasPrefix(line, "delta "):
		n, err := strconv.Atoi(strings.TrimSpace(line[len("delta "):]))
		return patch.BinaryDelta, n, err
	default:
		return patch.BinaryNone, 0, fmt.Errorf("unrecognized binary fragment header: %q", line)
	}
}

// parseBinaryPatch parses the body of a "GIT binary patch" block: a forward
// fragment, a blank line, and an optional reverse fragment. It deflates
// nothing; Data is left zlib-compressed for the patch package to inflate.
//
// A reverse fragment is only present when the line after the forward
// fragment's terminating blank line itself starts a "literal "/"delta "
// header. Otherwise that line belongs to whatever comes next in the
// surrounding patch (commonly the following file's "diff --git" header),
// and is returned as next so the caller can resume parsing from it.
func parseBinaryPatch(s *bufio.Scanner) (bp *patch.BinaryPatch, next string, err error) {
	bp = &patch.BinaryPatch{ContainsData: true}

	forward, err := parseBinaryFragment(s)
	if err != nil {
		return nil, "", err
	}
	bp.NewFile = forward

	if !s.Scan() {
		if err := s.Err(); err != nil {
			return nil, "", err
		}
		return bp, "", nil
	}

	line := s.Text()
	if line == "" {
		return bp, "", nil
	}
	if !strings.HasPrefix(line, "literal ") && !strings.HasPrefix(line, "delta ") {
		return bp, line, nil
	}

	reverse, err := parseBinaryFragmentFromHeader(s, line)
	if err != nil {
		return nil, "", err
	}
	bp.OldFile = reverse

	return bp, "", nil
}

func parseBinaryFragment(s *bufio.Scanner) (patch.BinaryFile, error) {
	if !s.Scan() {
		if err := s.Err(); err != nil {
			return patch.BinaryFile{}, err
		}
		return patch.BinaryFile{}, fmt.Errorf("missing binary fragment header")
	}
	return parseBinaryFragmentFromHeader(s, s.Text())
}

func parseBinaryFragmentFromHeader(s *bufio.Scanner, header string) (patch.BinaryFile, error) {
	typ, size, err := parseBinaryFragmentHeader(header)
	if err != nil {
		return patch.BinaryFile{}, err
	}

	compressed, err := decodeBinaryChunk(s)
	if err != nil {
		return patch.BinaryFile{}, err
	}

	return patch.BinaryFile{Type: typ, Data: compressed, InflatedLen: int64(size)}, nil
}
