package unified

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gopatch/core/patch"
)

// Parse reads a multi-file patch (the concatenation of "diff --git" blocks
// produced by "git diff" or "git format-patch") and returns one Delta per
// file, in the order they appear.
func Parse(r io.Reader) ([]*patch.Delta, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var deltas []*patch.Delta

	line, ok := scanLine(s)
	for ok {
		if !strings.HasPrefix(line, "diff --git ") {
			// skip preamble (commit message, etc.) until the first file
			var err error
			if line, ok, err = skipUntilDiffHeader(s); err != nil {
				return nil, err
			}
			if !ok {
				break
			}
		}

		d, next, nok, err := parseOneDelta(s, line)
		if err != nil {
			return nil, err
		}
		deltas = append(deltas, d)
		line, ok = next, nok
	}

	return deltas, nil
}

func scanLine(s *bufio.Scanner) (string, bool) {
	if !s.Scan() {
		return "", false
	}
	return s.Text(), true
}

func skipUntilDiffHeader(s *bufio.Scanner) (string, bool, error) {
	for s.Scan() {
		line := s.Text()
		if strings.HasPrefix(line, "diff --git ") {
			return line, true, nil
		}
	}
	return "", false, s.Err()
}

// parseOneDelta parses a single file's diff block starting at its
// "diff --git" line. It returns the Delta, the line that ended the block
// (the next "diff --git" line, or "" at EOF), and whether such a line
// exists.
func parseOneDelta(s *bufio.Scanner, diffLine string) (*patch.Delta, string, bool, error) {
	d := &patch.Delta{}

	oldName, newName, err := parseDiffGitLine(diffLine)
	if err != nil {
		return nil, "", false, err
	}
	d.OldPath, d.NewPath = oldName, newName

	line, ok := scanLine(s)
	for ok && !strings.HasPrefix(line, "diff --git ") {
		switch {
		case strings.HasPrefix(line, "old mode "):
			d.OldMode, err = parseOctalMode(line[len("old mode "):])
		case strings.HasPrefix(line, "new mode "):
			d.NewMode, err = parseOctalMode(line[len("new mode "):])
		case strings.HasPrefix(line, "deleted file mode "):
			d.Status = patch.Deleted
			d.OldMode, err = parseOctalMode(line[len("deleted file mode "):])
			d.NewPath = ""
		case strings.HasPrefix(line, "new file mode "):
			d.Status = patch.Added
			d.NewMode, err = parseOctalMode(line[len("new file mode "):])
			d.OldPath = ""
		case strings.HasPrefix(line, "rename from "):
			d.Status = patch.Renamed
			d.OldPath = line[len("rename from "):]
		case strings.HasPrefix(line, "rename to "):
			d.Status = patch.Renamed
			d.NewPath = line[len("rename to "):]
		case strings.HasPrefix(line, "copy from "):
			d.Status = patch.Copied
			d.OldPath = line[len("copy from "):]
		case strings.HasPrefix(line, "copy to "):
			d.Status = patch.Copied
			d.NewPath = line[len("copy to "):]
		case strings.HasPrefix(line, "--- "):
			// paired with the following "+++ " line; path already known
			// from the diff --git line, so there is nothing further to do
			// unless this is a rename without content changes.
		case strings.HasPrefix(line, "+++ "):
			// see above
		case line == "GIT binary patch":
			d.Flags.Binary = true
			bp, bnext, berr := parseBinaryPatch(s)
			if berr != nil {
				return nil, "", false, berr
			}
			d.Binary = bp
			if strings.HasPrefix(bnext, "diff --git ") {
				return finishDelta(d), bnext, true, nil
			}
			if bnext != "" {
				line = bnext
				continue
			}
		case strings.HasPrefix(line, "Binary files ") || line == "Files differ":
			d.Flags.Binary = true
			d.Binary = &patch.BinaryPatch{ContainsData: false}
		case strings.HasPrefix(line, fragmentHeaderPrefix):
			h, herr := parseFragmentHeader(line)
			if herr != nil {
				return nil, "", false, herr
			}
			next, berr := parseFragmentBody(s, &h)
			if berr != nil {
				return nil, "", false, berr
			}
			d.Hunks = append(d.Hunks, h)
			if strings.HasPrefix(next, "diff --git ") {
				return finishDelta(d), next, true, nil
			}
			if next == "" {
				return finishDelta(d), "", false, nil
			}
			line = next
			continue
		}
		if err != nil {
			return nil, "", false, err
		}
		line, ok = scanLine(s)
	}

	return finishDelta(d), line, ok, nil
}

// finishDelta fills in a default status for files that never hit an
// explicit status-setting header line: a "diff --git a/old b/new" line
// whose two names differ, with no other header, is a content-preserving
// rename.
func finishDelta(d *patch.Delta) *patch.Delta {
	if d.Status == patch.Modified && d.OldPath != "" && d.NewPath != "" && d.OldPath != d.NewPath {
		d.Status = patch.Renamed
	}
	return d
}

func parseDiffGitLine(line string) (oldName, newName string, err error) {
	const prefix = "diff --git "
	if !strings.HasPrefix(line, prefix) {
		return "", "", fmt.Errorf("not a diff header: %q", line)
	}
	rest := line[len(prefix):]

	a, n, err := parseName(rest)
	if err != nil {
		return "", "", err
	}
	rest = strings.TrimPrefix(rest[n:], " ")
	b, _, err := parseName(rest)
	if err != nil {
		return "", "", err
	}
	return stripPrefix(a), stripPrefix(b), nil
}

// stripPrefix drops the leading "a/" or "b/" component Git always adds to
// paths in a "diff --git" line.
func stripPrefix(name string) string {
	if i := strings.IndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func parseOctalMode(s string) (patch.Mode, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid mode %q: %w", s, err)
	}
	return patch.Mode(v), nil
}
