package unified

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gopatch/core/patch"
)

func TestParseFragmentHeader(t *testing.T) {
	h, err := parseFragmentHeader("@@ -3,4 +3,5 @@ func foo() {")
	require.NoError(t, err)
	assert.Equal(t, 3, h.OldStart)
	assert.Equal(t, 4, h.OldCount)
	assert.Equal(t, 3, h.NewStart)
	assert.Equal(t, 5, h.NewCount)
}

func TestParseFragmentHeaderOmittedCounts(t *testing.T) {
	h, err := parseFragmentHeader("@@ -3 +3 @@")
	require.NoError(t, err)
	assert.Equal(t, 1, h.OldCount)
	assert.Equal(t, 1, h.NewCount)
}

func TestParseFragmentHeaderRejectsGarbage(t *testing.T) {
	_, err := parseFragmentHeader("not a header")
	assert.Error(t, err)
}

func TestParseFragmentBody(t *testing.T) {
	body := " context\n" +
		"-removed\n" +
		"+added\n" +
		"@@ -1 +1 @@\n"

	s := bufio.NewScanner(strings.NewReader(body))
	h := patch.Hunk{}
	next, err := parseFragmentBody(s, &h)
	require.NoError(t, err)
	assert.Equal(t, "@@ -1 +1 @@", next)

	require.Len(t, h.Lines, 3)
	assert.Equal(t, patch.Context, h.Lines[0].Origin)
	assert.Equal(t, "context\n", string(h.Lines[0].Data))
	assert.Equal(t, patch.Deletion, h.Lines[1].Origin)
	assert.Equal(t, patch.Addition, h.Lines[2].Origin)
}

func TestParseFragmentBodyNoNewlineAtEOF(t *testing.T) {
	body := " context\n" +
		"+added\n" +
		`\ No newline at end of file` + "\n"

	s := bufio.NewScanner(strings.NewReader(body))
	h := patch.Hunk{}
	_, err := parseFragmentBody(s, &h)
	require.NoError(t, err)

	require.Len(t, h.Lines, 2)
	last := h.Lines[1]
	assert.Equal(t, patch.AddEOFNL, last.Origin)
	assert.Equal(t, "added", string(last.Data))
}

func TestParseFragmentBodyEmptyContextLine(t *testing.T) {
	body := "\n+added\n"

	s := bufio.NewScanner(strings.NewReader(body))
	h := patch.Hunk{}
	_, err := parseFragmentBody(s, &h)
	require.NoError(t, err)

	require.Len(t, h.Lines, 2)
	assert.Equal(t, patch.Context, h.Lines[0].Origin)
	assert.Equal(t, "\n", string(h.Lines[0].Data))
}

func TestParseFragmentBodyRejectsBadPrefix(t *testing.T) {
	s := bufio.NewScanner(strings.NewReader("*garbage\n"))
	h := patch.Hunk{}
	_, err := parseFragmentBody(s, &h)
	assert.Error(t, err)
}

func TestParseFragmentBodyNoNewlineWithoutPrecedingLine(t *testing.T) {
	s := bufio.NewScanner(strings.NewReader(`\ No newline at end of file` + "\n"))
	h := patch.Hunk{}
	_, err := parseFragmentBody(s, &h)
	assert.Error(t, err)
}
