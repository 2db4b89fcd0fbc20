// Package patch applies a previously-computed change to a byte buffer.
//
// It is split into four layers, leaves first: Image, a line-indexed mutable
// view of a buffer; the text hunk applier, which locates and splices a
// single hunk into an Image; the binary applier, which decompresses and
// verifies a pair of binary deltas; and the patch driver, which orchestrates
// a whole Delta against a source buffer.
//
// The package does not parse diffs and does not touch a filesystem or
// version control index. It consumes already-parsed Hunk and Delta values
// and produces a new byte buffer. See the unified and fsrepo packages for
// collaborators that fill in those gaps.
package patch
