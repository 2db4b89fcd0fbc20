package patch

import "bytes"

// InflateFunc decompresses a zlib-compatible stream, consuming all of
// compressed and returning the inflated bytes. This package only calls the
// function it is given; see the zlib.go default implementation.
type InflateFunc func(compressed []byte) ([]byte, error)

// DeltaDecodeFunc reconstructs a target buffer from a base buffer and a
// copy/insert opcode stream. See DecodeGitDelta for the default
// implementation.
type DeltaDecodeFunc func(base, instructions []byte) ([]byte, error)

// ApplyBinary applies a binary patch to src. It decompresses both the
// forward delta (bp.NewFile) and the reverse delta (bp.OldFile), applies
// the forward delta to produce the result, then applies the reverse delta
// to the result and checks that it reproduces src exactly. The reverse
// check is mandatory: it catches both corrupted payloads and mis-paired
// patches.
//
// A BinaryPatch that has ContainsData set but whose two sides are both
// empty carries no delta at all; status resolves what that means: Modified leaves src untouched, Added and
// Deleted both resolve to an empty file, since neither side has content to
// report.
func ApplyBinary(src []byte, bp *BinaryPatch, status DeltaStatus, inflate InflateFunc, decodeDelta DeltaDecodeFunc) ([]byte, error) {
	if bp == nil || !bp.ContainsData {
		return nil, newApplyFail("patch does not contain binary data")
	}

	if bp.NewFile.datalen() == 0 && bp.OldFile.datalen() == 0 {
		if status == Modified {
			return src, nil
		}
		return []byte{}, nil
	}

	forward, err := applyBinarySide(src, bp.NewFile, inflate, decodeDelta)
	if err != nil {
		return nil, err
	}

	reverse, err := applyBinarySide(forward, bp.OldFile, inflate, decodeDelta)
	if err != nil {
		return nil, err
	}

	if !bytes.Equal(reverse, src) {
		return nil, newApplyFail("binary patch did not apply cleanly")
	}

	return forward, nil
}

// applyBinarySide applies one side (forward or reverse) of a binary patch
// to src.
func applyBinarySide(src []byte, bf BinaryFile, inflate InflateFunc, decodeDelta DeltaDecodeFunc) ([]byte, error) {
	if bf.datalen() == 0 {
		return src, nil
	}

	inflated, err := inflate(bf.Data)
	if err != nil {
		return nil, newDecodeError(err)
	}
	if int64(len(inflated)) != bf.InflatedLen {
		return nil, newApplyFail("inflated delta does not match expected length")
	}

	switch bf.Type {
	case BinaryLiteral:
		return inflated, nil
	case BinaryDelta:
		result, err := decodeDelta(src, inflated)
		if err != nil {
			return nil, newDecodeError(err)
		}
		return result, nil
	default:
		return nil, newApplyFail("unknown binary delta type")
	}
}
