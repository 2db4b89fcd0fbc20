// Package unified parses unified-diff (git-style) patch text into the
// patch package's Hunk and Delta values.
//
// It is deliberately independent of the patch package's transform core:
// text parsing and byte-level patch application are different concerns
// with different failure modes, so they live in different packages. This
// one exists so the module is runnable end-to-end without requiring every
// caller to bring its own parser.
package unified
