package unified

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/gopatch/core/patch"
)

const fragmentHeaderPrefix = "@@ -"

// parseFragmentHeader parses a "@@ -oldStart[,oldCount] +newStart[,newCount] @@"
// line into a Hunk with its position and count fields set, leaving Lines
// empty for parseFragmentBody to fill in.
func parseFragmentHeader(line string) (patch.Hunk, error) {
	const endMark = " @@"

	if !strings.HasPrefix(line, fragmentHeaderPrefix) {
		return patch.Hunk{}, fmt.Errorf("not a fragment header: %q", line)
	}

	rest := line[len("@@ "):]
	end := strings.Index(rest, endMark)
	if end < 0 {
		return patch.Hunk{}, fmt.Errorf("invalid fragment header: missing closing %q", endMark)
	}
	ranges := strings.Fields(rest[:end])
	if len(ranges) != 2 || !strings.HasPrefix(ranges[0], "-") || !strings.HasPrefix(ranges[1], "+") {
		return patch.Hunk{}, fmt.Errorf("invalid fragment header: %q", line)
	}

	oldStart, oldCount, err := parseRange(ranges[0][1:])
	if err != nil {
		return patch.Hunk{}, fmt.Errorf("invalid old range: %w", err)
	}
	newStart, newCount, err := parseRange(ranges[1][1:])
	if err != nil {
		return patch.Hunk{}, fmt.Errorf("invalid new range: %w", err)
	}

	return patch.Hunk{OldStart: oldStart, OldCount: oldCount, NewStart: newStart, NewCount: newCount}, nil
}

// parseRange parses "start[,count]"; an omitted count means 1, matching
// unified diff convention.
func parseRange(s string) (start, count int, err error) {
	parts := strings.SplitN(s, ",", 2)
	if start, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, err
	}
	if len(parts) == 1 {
		return start, 1, nil
	}
	if count, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, err
	}
	return start, count, nil
}

// parseFragmentBody reads context/add/delete lines from s until the next
// fragment header, the next file header, or EOF, filling in h.Lines. It
// returns the last line it read but did not consume (the one that ended
// the fragment), or "" at EOF.
func parseFragmentBody(s *bufio.Scanner, h *patch.Hunk) (next string, err error) {
	for s.Scan() {
		line := s.Text()

		if line == `\ No newline at end of file` {
			if len(h.Lines) == 0 {
				return "", fmt.Errorf("no newline marker with no preceding line")
			}
			last := &h.Lines[len(h.Lines)-1]
			last.Origin = noEOLVariant(last.Origin)
			last.Data = bytesTrimSuffixNewline(last.Data)
			continue
		}

		if strings.HasPrefix(line, fragmentHeaderPrefix) || isFileHeaderLine(line) {
			return line, nil
		}

		if line == "" {
			h.Lines = append(h.Lines, patch.Line{Origin: patch.Context, Data: []byte("\n")})
			continue
		}

		origin, ok := lineOrigin(line[0])
		if !ok {
			return "", fmt.Errorf("invalid fragment line prefix: %q", line)
		}
		h.Lines = append(h.Lines, patch.Line{Origin: origin, Data: []byte(line[1:] + "\n")})
	}
	if err := s.Err(); err != nil {
		return "", err
	}
	return "", nil
}

func lineOrigin(prefix byte) (patch.LineOrigin, bool) {
	switch prefix {
	case ' ':
		return patch.Context, true
	case '+':
		return patch.Addition, true
	case '-':
		return patch.Deletion, true
	default:
		return 0, false
	}
}

func noEOLVariant(o patch.LineOrigin) patch.LineOrigin {
	switch o {
	case patch.Context:
		return patch.ContextEOFNL
	case patch.Addition:
		return patch.AddEOFNL
	case patch.Deletion:
		return patch.DelEOFNL
	default:
		return o
	}
}

func isFileHeaderLine(line string) bool {
	return strings.HasPrefix(line, "--- ") || strings.HasPrefix(line, "diff ")
}

func bytesTrimSuffixNewline(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\n' {
		return b[:len(b)-1]
	}
	return b
}
