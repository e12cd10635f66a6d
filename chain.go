package zx7

import (
	"encoding/binary"
	"math/bits"
	"runtime"
)

// PairChain is an implementation of the MatchFinder and Searcher
// interfaces that chains together the positions where each two-byte
// sequence occurs, so that even the shortest matches the format allows can
// be found.
type PairChain struct {
	// SearchLen is how many entries to examine on the chain.
	// The default is 64.
	SearchLen int

	// MaxDistance is the maximum distance (in bytes) to look back for
	// a match. The default (and the format's limit) is MaxOffset.
	MaxDistance int

	// Parser chooses among the matches. The default is a GreedyParser.
	Parser Parser

	// table holds the most recent position+1 of each two-byte sequence.
	table [1 << 16]uint32

	history []byte
	chain   []uint16
}

func (q *PairChain) Reset() {
	q.table = [1 << 16]uint32{}
	q.history = q.history[:0]
	q.chain = q.chain[:0]
}

// FindMatches looks for matches in src, appends them to dst, and returns dst.
// Each call compresses src on its own; no history is carried over.
func (q *PairChain) FindMatches(dst []Match, src []byte) []Match {
	if q.MaxDistance <= 0 || q.MaxDistance > MaxOffset {
		q.MaxDistance = MaxOffset
	}
	if q.SearchLen == 0 {
		q.SearchLen = 64
	}
	if q.Parser == nil {
		q.Parser = &GreedyParser{}
	}
	if len(src) == 0 {
		return dst
	}
	q.Reset()
	q.history = append(q.history, src...)
	src = q.history

	// Pre-calculate the chains. chain[i] is the distance back to the
	// previous occurrence of src[i:i+2], or 0 if there is none in range.
	chain := q.chain
	for i := 0; i+1 < len(src); i++ {
		h := binary.LittleEndian.Uint16(src[i:])
		candidate := int(q.table[h]) - 1
		q.table[h] = uint32(i + 1)
		if candidate < 0 || i-candidate > q.MaxDistance {
			chain = append(chain, 0)
		} else {
			chain = append(chain, uint16(i-candidate))
		}
	}
	q.chain = chain

	return q.Parser.Parse(dst, q, 0, len(src))
}

// extendMatch returns the largest k such that k <= len(src) and that
// src[i:i+k-j] and src[j:k] have the same contents.
//
// It assumes that:
//
//	0 <= i && i < j && j <= len(src)
func extendMatch(src []byte, i, j int) int {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		// As long as we are 8 or more bytes before the end of src, we can load and
		// compare 8 bytes at a time. If those 8 bytes are equal, repeat.
		for j+8 < len(src) {
			iBytes := binary.LittleEndian.Uint64(src[i:])
			jBytes := binary.LittleEndian.Uint64(src[j:])
			if iBytes != jBytes {
				// The first differing byte is the lowest set byte of the XOR,
				// since the loads are little-endian.
				return j + bits.TrailingZeros64(iBytes^jBytes)>>3
			}
			i, j = i+8, j+8
		}
	}
	for ; j < len(src) && src[i] == src[j]; i, j = i+1, j+1 {
	}
	return j
}

func (q *PairChain) Search(dst []AbsoluteMatch, pos, min, max int) []AbsoluteMatch {
	if pos >= len(q.chain) || pos+MinLength > max || max > len(q.history) {
		return dst
	}
	src := q.history
	searchSeq := binary.LittleEndian.Uint16(src[pos:])

	var length int

	candidate := pos
	for i := 0; i < q.SearchLen; i++ {
		d := q.chain[candidate]
		if d == 0 {
			break
		}
		candidate -= int(d)
		if candidate < 0 || pos-candidate > q.MaxDistance {
			break
		}
		if binary.LittleEndian.Uint16(src[candidate:]) != searchSeq {
			continue
		}

		newEnd := extendMatch(src[:max], candidate+MinLength, pos+MinLength)

		// Extend the match backward as far as possible.
		newStart := pos
		newMatch := candidate
		for newStart > min && newMatch > 0 && src[newStart-1] == src[newMatch-1] {
			newStart--
			newMatch--
		}

		if newEnd-newStart > MaxLength {
			newEnd = newStart + MaxLength
		}

		if newEnd-newStart > length {
			dst = append(dst, AbsoluteMatch{
				Start: newStart,
				End:   newEnd,
				Match: newMatch,
			})
			length = newEnd - newStart
		}
	}

	return dst
}
