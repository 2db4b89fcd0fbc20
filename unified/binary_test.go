package unified

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gopatch/core/patch"
)

func TestParseBinaryFragmentHeader(t *testing.T) {
	typ, n, err := parseBinaryFragmentHeader("literal 42")
	require.NoError(t, err)
	assert.Equal(t, patch.BinaryLiteral, typ)
	assert.Equal(t, 42, n)

	typ, n, err = parseBinaryFragmentHeader("delta 7")
	require.NoError(t, err)
	assert.Equal(t, patch.BinaryDelta, typ)
	assert.Equal(t, 7, n)

	_, _, err = parseBinaryFragmentHeader("garbage 1")
	assert.Error(t, err)
}

func TestBinaryLineLength(t *testing.T) {
	n, err := binaryLineLength('A')
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = binaryLineLength('Z')
	require.NoError(t, err)
	assert.Equal(t, 26, n)

	n, err = binaryLineLength('a')
	require.NoError(t, err)
	assert.Equal(t, 27, n)

	_, err = binaryLineLength('!')
	assert.Error(t, err)
}

func TestDecodeBinaryChunk(t *testing.T) {
	raw := []byte{'h', 'e', 'l', 'l', 'o'}
	line := string(byte('A'-1+byte(len(raw)))) + string(encodeBase85(raw)) + "\n\n"

	s := bufio.NewScanner(strings.NewReader(line))
	got, err := decodeBinaryChunk(s)
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

func TestParseBinaryPatchForwardOnly(t *testing.T) {
	raw := []byte("zlibdata")
	chunk := string(byte('A'-1+byte(len(raw)))) + string(encodeBase85(raw))

	body := "literal 8\n" + chunk + "\n\n"

	s := bufio.NewScanner(strings.NewReader(body))
	bp, next, err := parseBinaryPatch(s)
	require.NoError(t, err)

	assert.Empty(t, next)
	assert.True(t, bp.ContainsData)
	assert.Equal(t, patch.BinaryLiteral, bp.NewFile.Type)
	assert.Equal(t, int64(8), bp.NewFile.InflatedLen)
	assert.Equal(t, raw, bp.NewFile.Data)
	assert.Equal(t, patch.BinaryType(patch.BinaryNone), bp.OldFile.Type)
}

// TestParseBinaryPatchForwardOnlyFollowedByAnotherFile covers a binary
// block with no reverse fragment that is not the last file in the patch:
// the line after the forward fragment's terminating blank line is the next
// file's "diff --git" header, not a "literal "/"delta " header, and must be
// handed back to the caller rather than rejected as a bad fragment header.
func TestParseBinaryPatchForwardOnlyFollowedByAnotherFile(t *testing.T) {
	raw := []byte("zlibdata")
	chunk := string(byte('A'-1+byte(len(raw)))) + string(encodeBase85(raw))

	body := "literal 8\n" + chunk + "\n\n" + "diff --git a/other b/other\n"

	s := bufio.NewScanner(strings.NewReader(body))
	bp, next, err := parseBinaryPatch(s)
	require.NoError(t, err)

	assert.Equal(t, "diff --git a/other b/other", next)
	assert.Equal(t, patch.BinaryType(patch.BinaryNone), bp.OldFile.Type)
}

func TestParseBinaryPatchForwardAndReverse(t *testing.T) {
	fwd := []byte("forwarddata")
	rev := []byte("reversedat1")

	encode := func(raw []byte) string {
		return string(byte('A'-1+byte(len(raw)))) + string(encodeBase85(raw))
	}

	body := "literal 11\n" + encode(fwd) + "\n\n" +
		"literal 11\n" + encode(rev) + "\n\n"

	s := bufio.NewScanner(strings.NewReader(body))
	bp, next, err := parseBinaryPatch(s)
	require.NoError(t, err)

	assert.Empty(t, next)
	assert.Equal(t, fwd, bp.NewFile.Data)
	assert.Equal(t, rev, bp.OldFile.Data)
}
