package patch

import "bytes"

// ApplyHunk locates h's preimage inside img at h's anchor line and, if it
// matches exactly, splices in h's postimage. It never searches: only the
// exact anchor position is tried. Patches produced by the same pipeline
// that produced the source already carry authoritative positions; an
// ambiguous placement is an error here, not a silent mis-application.
//
// On a preimage mismatch, ApplyHunk returns an *ApplyFail naming the line
// where the mismatch was detected. img is left unchanged in that case.
func ApplyHunk(img *Image, h *Hunk) error {
	preimage, postimage, err := splitHunkLines(h)
	if err != nil {
		return err
	}

	anchor := h.NewStart - 1
	if anchor < 0 {
		anchor = 0
	}
	if anchor > img.Len() {
		anchor = img.Len()
	}

	if err := matchAt(img, anchor, preimage); err != nil {
		return err
	}

	return img.Splice(anchor, len(preimage), postimage)
}

// splitHunkLines builds the preimage and postimage line sequences from a
// hunk's tagged lines: context lines go to both, deletions to the preimage
// only, additions to the postimage only.
func splitHunkLines(h *Hunk) (preimage, postimage [][]byte, err error) {
	preimage = make([][]byte, 0, len(h.Lines))
	postimage = make([][]byte, 0, len(h.Lines))

	for i, line := range h.Lines {
		if line.Data == nil {
			return nil, nil, newInternalBug("hunk line %d has no data", i)
		}
		if line.Origin.inPreimage() {
			preimage = append(preimage, line.Data)
		}
		if line.Origin.inPostimage() {
			postimage = append(postimage, line.Data)
		}
	}
	return preimage, postimage, nil
}

// matchAt checks whether preimage matches img exactly starting at anchor,
// by per-line byte equality. It returns an *ApplyFail naming the one-indexed
// line of the first mismatch (or the line just past the end of the image,
// if the image runs out of lines first).
func matchAt(img *Image, anchor int, preimage [][]byte) error {
	if anchor+len(preimage) > img.Len() {
		fail := newApplyFail("preimage extends past the end of the source")
		fail.Line = anchor + 1
		return fail
	}

	for i, want := range preimage {
		got, err := img.Get(anchor + i)
		if err != nil {
			return err
		}
		if !bytes.Equal(got, want) {
			fail := newApplyFail("fragment does not match source at the expected line")
			fail.Line = anchor + i + 1
			return fail
		}
	}
	return nil
}
