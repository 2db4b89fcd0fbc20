package patch

import (
	"bytes"
	"errors"
	"hash/adler32"
	"io"

	dflate "github.com/dsnet/compress/flate"
)

// Inflate is the default InflateFunc. It decodes a zlib stream (RFC 1950):
// a two-byte header, a raw DEFLATE body, and a trailing four-byte Adler-32
// checksum of the uncompressed data. The DEFLATE body itself is decoded
// with dsnet/compress/flate, a pure-Go raw-deflate decoder; only the zlib
// envelope (header validation, checksum verification) is handled directly
// here, since that is a few lines of bit-shifting rather than a compression
// algorithm.
func Inflate(compressed []byte) ([]byte, error) {
	if len(compressed) < 6 {
		return nil, errors.New("zlib: stream too short")
	}

	cmf, flg := compressed[0], compressed[1]
	if cmf&0x0F != 8 {
		return nil, errors.New("zlib: unsupported compression method")
	}
	if (uint16(cmf)*256+uint16(flg))%31 != 0 {
		return nil, errors.New("zlib: header checksum mismatch")
	}
	if flg&0x20 != 0 {
		return nil, errors.New("zlib: preset dictionaries are not supported")
	}

	body := compressed[2 : len(compressed)-4]
	trailer := compressed[len(compressed)-4:]

	fr := dflate.NewReader(bytes.NewReader(body))
	out, err := io.ReadAll(fr)
	if err != nil {
		return nil, err
	}
	if err := fr.Close(); err != nil {
		return nil, err
	}

	want := uint32(trailer[0])<<24 | uint32(trailer[1])<<16 | uint32(trailer[2])<<8 | uint32(trailer[3])
	if got := adler32.Checksum(out); got != want {
		return nil, errors.New("zlib: adler-32 checksum mismatch")
	}

	return out, nil
}
