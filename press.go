// Package zx7 implements Einar Saukas' ZX7 format: optimal LZ77/LZSS
// compression aimed at decompressors running on small 8-bit machines.
//
// Compression happens in two steps:
//  - A MatchFinder analyzes the input and chooses how to factor it into
//    literal bytes and back-references (the plan).
//  - An Encoder serializes the plan, together with the input, into the
//    final byte sequence.
//
// The steps communicate through a slice of Match values, so a plan can be
// inspected, validated, or rendered as text before it is encoded.
package zx7

// Format limits.
const (
	MaxOffset = 2176  // Largest back-reference distance (1..2176).
	MaxLength = 65536 // Longest back-reference (2..65536).
	MinLength = 2     // Shortest back-reference.

	shortOffset = 128 // Distances up to this fit in a single offset byte.
)

// A Match is the basic unit of LZ77 compression.
type Match struct {
	Unmatched int // the number of unmatched bytes since the previous match
	Length    int // the number of bytes in the matched string; it may be 0 at the end of the input
	Distance  int // how far back in the stream to copy from
}

// A MatchFinder performs the LZ77 stage of compression, looking for matches.
type MatchFinder interface {
	// FindMatches looks for matches in src, appends them to dst, and returns dst.
	// The first byte of src is never part of a match.
	FindMatches(dst []Match, src []byte) []Match

	// Reset clears any internal state, preparing the MatchFinder to be used with
	// new input.
	Reset()
}

// An Encoder encodes the data in its final format.
type Encoder interface {
	// Encode appends the encoded format of src to dst, using the match
	// information from matches. It returns an error if matches does not
	// describe src.
	Encode(dst []byte, src []byte, matches []Match) ([]byte, error)
}
