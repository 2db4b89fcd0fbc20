package patch

// LineOrigin classifies a line within a Hunk by where it came from. It has
// no meaning once a line has been placed into an Image: splicing discards
// origin information, the way a git tree has no memory of which hunk wrote
// a given line.
type LineOrigin int

const (
	// Context lines are present in both the preimage and the postimage.
	Context LineOrigin = iota
	// Addition lines are present only in the postimage.
	Addition
	// Deletion lines are present only in the preimage.
	Deletion
	// ContextEOFNL is a context line immediately followed by a "no newline
	// at end of file" marker in the patch; it behaves exactly like Context.
	ContextEOFNL
	// AddEOFNL is an addition line immediately followed by a "no newline at
	// end of file" marker; it behaves exactly like Addition.
	AddEOFNL
	// DelEOFNL is a deletion line immediately followed by a "no newline at
	// end of file" marker; it behaves exactly like Deletion.
	DelEOFNL
)

func (o LineOrigin) String() string {
	switch o {
	case Context:
		return "Context"
	case Addition:
		return "Addition"
	case Deletion:
		return "Deletion"
	case ContextEOFNL:
		return "ContextEOFNL"
	case AddEOFNL:
		return "AddEOFNL"
	case DelEOFNL:
		return "DelEOFNL"
	default:
		return "LineOrigin(?)"
	}
}

// inPreimage reports whether a line with this origin belongs to a hunk's
// preimage (the lines the hunk expects to find).
func (o LineOrigin) inPreimage() bool {
	switch o {
	case Context, Deletion, ContextEOFNL, DelEOFNL:
		return true
	default:
		return false
	}
}

// inPostimage reports whether a line with this origin belongs to a hunk's
// postimage (the lines the hunk leaves behind).
func (o LineOrigin) inPostimage() bool {
	switch o {
	case Context, Addition, ContextEOFNL, AddEOFNL:
		return true
	default:
		return false
	}
}

// Line is a hunk line: a byte slice borrowed from the patch's own backing
// buffer, tagged with where it belongs.
type Line struct {
	Origin LineOrigin
	Data   []byte
}

// Hunk is a single localized edit within a text file, parsed upstream of
// this package. OldStart and NewStart are one-indexed; zero means "the
// empty side has no position" (an insertion at the very top, or a deletion
// that leaves nothing). OldCount and NewCount give the number of lines on
// each side; the applier assumes, but does not re-verify, that
// len(context)+len(deletions) == OldCount and
// len(context)+len(additions) == NewCount.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []Line
}

// BinaryType classifies the payload of a BinaryFile.
type BinaryType int

const (
	// BinaryNone indicates no binary data is present for this side.
	BinaryNone BinaryType = iota
	// BinaryLiteral indicates the inflated payload is the full file
	// contents for this side.
	BinaryLiteral
	// BinaryDelta indicates the inflated payload is a copy/insert opcode
	// stream to be applied against the other side's contents.
	BinaryDelta
)

func (t BinaryType) String() string {
	switch t {
	case BinaryNone:
		return "None"
	case BinaryLiteral:
		return "Literal"
	case BinaryDelta:
		return "Delta"
	default:
		return "BinaryType(?)"
	}
}

// BinaryFile describes one side (forward or reverse) of a binary patch.
type BinaryFile struct {
	Type BinaryType

	// Data is the deflate-compressed payload. Compression is a compression
	// primitive's concern; this package only inflates it.
	Data []byte

	// InflatedLen is the declared size of Data after inflation. Inflate
	// must produce exactly this many bytes.
	InflatedLen int64
}

// datalen returns the length of the compressed payload. A zero length means
// "apply as identity", independent of Type.
func (f BinaryFile) datalen() int {
	return len(f.Data)
}

// BinaryPatch carries both deltas of a binary file change: the forward
// delta (source to target) and the reverse delta (target to source), used
// to verify the forward application.
type BinaryPatch struct {
	// ContainsData distinguishes "the patch includes binary data" from "the
	// patch only carries a binary flag with no payload" (as happens with a
	// "Binary files differ" marker and no literal/delta block).
	ContainsData bool

	// NewFile is the forward delta: source to target.
	NewFile BinaryFile
	// OldFile is the reverse delta: target to source, used only to verify
	// NewFile's result.
	OldFile BinaryFile
}

// DeltaStatus classifies the kind of change a Delta describes.
type DeltaStatus int

const (
	Modified DeltaStatus = iota
	Added
	Deleted
	Renamed
	Copied
)

func (s DeltaStatus) String() string {
	switch s {
	case Modified:
		return "Modified"
	case Added:
		return "Added"
	case Deleted:
		return "Deleted"
	case Renamed:
		return "Renamed"
	case Copied:
		return "Copied"
	default:
		return "DeltaStatus(?)"
	}
}

// Mode is a POSIX file mode reduced to the handful of values a patch cares
// about.
type Mode uint32

const (
	ModeRegular    Mode = 0o100644
	ModeExecutable Mode = 0o100755
	ModeSymlink    Mode = 0o120000
	ModeGitlink    Mode = 0o160000
)

func (m Mode) String() string {
	switch m {
	case 0:
		return "unset"
	case ModeRegular:
		return "regular"
	case ModeExecutable:
		return "executable"
	case ModeSymlink:
		return "symlink"
	case ModeGitlink:
		return "gitlink"
	default:
		return "Mode(?)"
	}
}

// DeltaFlags holds boolean properties of a Delta that affect how it is
// applied.
type DeltaFlags struct {
	Binary bool
}

// Delta is the top-level parsed-patch record for a single file.
type Delta struct {
	Status DeltaStatus

	OldPath string
	NewPath string
	OldMode Mode
	NewMode Mode

	Flags DeltaFlags

	// Hunks is empty for binary changes, pure renames, and pure mode
	// changes.
	Hunks []Hunk

	// Binary is non-nil only when Flags.Binary is set.
	Binary *BinaryPatch
}
