package patch

import "errors"

// DecodeGitDelta is the default DeltaDecodeFunc. It implements the classic
// git pack-style copy/insert opcode stream: a variable-length base size, a
// variable-length target size, then a sequence of copy and insert opcodes.
// See pack-format.txt in the Git source for the wire format this mirrors.
func DecodeGitDelta(base, instructions []byte) ([]byte, error) {
	srcSize, rest := readDeltaSize(instructions)
	if int64(len(base)) != srcSize {
		return nil, errors.New("delta base size does not match actual base size")
	}

	dstSize, rest := readDeltaSize(rest)

	out := make([]byte, 0, dstSize)
	for len(rest) > 0 {
		op := rest[0]
		if op == 0 {
			return nil, errors.New("invalid delta opcode 0")
		}

		var chunk []byte
		var err error
		if op&0x80 != 0 {
			chunk, rest, err = deltaCopy(op, rest[1:], base)
		} else {
			chunk, rest, err = deltaInsert(op, rest[1:])
		}
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}

	if int64(len(out)) != dstSize {
		return nil, errors.New("corrupt delta: insufficient or extra data")
	}
	return out, nil
}

// readDeltaSize reads a variable length size from a delta-encoded
// instruction stream, returning the size and the unused data. Data is
// encoded as [[1xxxxxxx]...] [0xxxxxxx] in little-endian order, with 7 bits
// of the value per byte.
func readDeltaSize(d []byte) (size int64, rest []byte) {
	shift := uint(0)
	for i, b := range d {
		size |= int64(b&0x7F) << shift
		shift += 7
		if b <= 0x7F {
			return size, d[i+1:]
		}
	}
	return size, nil
}

// deltaInsert applies an insert opcode, returning the inserted bytes and the
// unused part of the instruction stream. An insert operation takes the
// form [0xxxxxx][[data1]...], where the lower seven bits of the opcode are
// the number of data bytes following it.
func deltaInsert(op byte, instructions []byte) (chunk, rest []byte, err error) {
	size := int(op)
	if len(instructions) < size {
		return nil, instructions, errors.New("corrupt delta: incomplete insert")
	}
	return instructions[:size], instructions[size:], nil
}

// deltaCopy applies a copy opcode, returning the copied bytes and the
// unused part of the instruction stream. A copy operation takes the form
// [1xxxxxxx][offset1][offset2][offset3][offset4][size1][size2][size3],
// where the lower seven bits of the opcode determine which non-zero offset
// and size bytes are present, in little-endian order: if bit 0 is set,
// offset1 is present, and so on. If no offset or size bytes are present,
// offset is 0 and size is 0x10000.
func deltaCopy(op byte, instructions, base []byte) (chunk, rest []byte, err error) {
	const defaultSize = 0x10000

	d := instructions
	unpack := func(start, bits uint) (v int64, uerr error) {
		for i := uint(0); i < bits; i++ {
			mask := byte(1 << (i + start))
			if op&mask > 0 {
				if len(d) == 0 {
					return 0, errors.New("corrupt delta: incomplete copy")
				}
				v |= int64(d[0]) << (8 * i)
				d = d[1:]
			}
		}
		return v, nil
	}

	offset, err := unpack(0, 4)
	if err != nil {
		return nil, instructions, err
	}
	size, err := unpack(4, 3)
	if err != nil {
		return nil, instructions, err
	}
	if size == 0 {
		size = defaultSize
	}

	if offset < 0 || size < 0 || offset+size > int64(len(base)) {
		return nil, instructions, errors.New("corrupt delta: copy outside base")
	}

	return base[offset : offset+size], d, nil
}
