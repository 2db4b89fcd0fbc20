package patch

// Location chooses the preimage source a collaborator reads from and where
// it writes results: the working tree, the index, or both. The core itself
// never branches on it; it exists only so collaborators share a single
// vocabulary for the choice.
type Location int

const (
	Workdir Location = iota
	Index
	Both
)

func (l Location) String() string {
	switch l {
	case Workdir:
		return "Workdir"
	case Index:
		return "Index"
	case Both:
		return "Both"
	default:
		return "Location(?)"
	}
}

// ApplyOptions configures a call to ApplyPatch.
type ApplyOptions struct {
	Location Location

	// Inflate decompresses binary delta payloads. If nil, Inflate (the
	// zlib-compatible default) is used.
	Inflate InflateFunc

	// DecodeDelta reconstructs a target buffer from a base buffer and an
	// opcode stream. If nil, DecodeGitDelta is used.
	DecodeDelta DeltaDecodeFunc
}

func (o ApplyOptions) withDefaults() ApplyOptions {
	if o.Inflate == nil {
		o.Inflate = Inflate
	}
	if o.DecodeDelta == nil {
		o.DecodeDelta = DecodeGitDelta
	}
	return o
}

// Result is what ApplyPatch produces for one file: the path and mode of the
// postimage, and its bytes. Path is empty when the delta deletes the file.
type Result struct {
	Path  string
	Mode  Mode
	Bytes []byte
}

// ApplyPatch applies d to src and returns the resulting path, mode, and
// bytes. Hunks, if any, are applied strictly left to right against a
// single Image built from src; each hunk's
// NewStart is interpreted in the numbering produced by the hunks before it
// in the same call, so no offset bookkeeping beyond the evolving image is
// needed.
func ApplyPatch(src []byte, d *Delta, opts ApplyOptions) (*Result, error) {
	opts = opts.withDefaults()

	res := &Result{}
	if d.Status != Deleted {
		res.Path = d.NewPath
		res.Mode = d.NewMode
		if res.Mode == 0 {
			res.Mode = ModeRegular
		}
	}

	var err error
	switch {
	case d.Flags.Binary:
		res.Bytes, err = ApplyBinary(src, d.Binary, d.Status, opts.Inflate, opts.DecodeDelta)
	case len(d.Hunks) > 0:
		res.Bytes, err = applyHunks(src, d.Hunks)
	default:
		res.Bytes = src
	}
	if err != nil {
		return nil, err
	}

	if d.Status == Deleted && len(res.Bytes) > 0 {
		return nil, newApplyFail("removal patch leaves file contents")
	}

	return res, nil
}

// applyHunks runs ApplyHunk once per hunk, in order, sharing a single Image
// built from src, then linearizes the result.
func applyHunks(src []byte, hunks []Hunk) ([]byte, error) {
	img := NewImage(src)
	for i := range hunks {
		if err := ApplyHunk(img, &hunks[i]); err != nil {
			if fail, ok := err.(*ApplyFail); ok && fail.HunkIndex < 0 {
				fail.HunkIndex = i
			}
			return nil, err
		}
	}
	return img.ToBytes(), nil
}

// Operation is one step of a batch apply: a path to remove from the
// preimage namespace, a new entry to write to the postimage namespace, or
// both (a rename that also has content changes).
type Operation struct {
	Delta *Delta

	// RemovePath is the old path to remove, or empty if nothing should be
	// removed (a pure addition).
	RemovePath string

	// Result is nil if the delta only removes a path (a deletion with no
	// corresponding new entry).
	Result *Result
}

// PlanBatch orders a set of already-applied deltas into a removal-then-add
// sequence: every removal happens before any addition, so a rename A->B
// cannot collide with a pre-existing B that is itself being removed or
// replaced in the same batch. PlanBatch does not call ApplyPatch; callers
// apply each delta first, then hand the results here in delta order.
func PlanBatch(deltas []*Delta, results []*Result) []Operation {
	ops := make([]Operation, 0, len(deltas))

	for i, d := range deltas {
		op := Operation{Delta: d}
		if d.Status == Deleted || d.Status == Renamed {
			op.RemovePath = d.OldPath
		}
		if d.Status != Deleted {
			op.Result = results[i]
		}
		ops = append(ops, op)
	}

	// An operation that both removes and adds (a rename with content
	// changes) is still a single Operation, placed in the removal phase so
	// its old path is freed before any pure addition in the same batch
	// might want to reuse it.
	ordered := make([]Operation, 0, len(ops))
	for _, op := range ops {
		if op.RemovePath != "" {
			ordered = append(ordered, op)
		}
	}
	for _, op := range ops {
		if op.RemovePath == "" {
			ordered = append(ordered, op)
		}
	}
	return ordered
}
