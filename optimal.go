package zx7

// Optimizer is an implementation of the MatchFinder interface that chooses,
// among all ways of splitting the input into literals and back-references,
// one with the smallest encoded size.
//
// It makes a single forward pass. At each position it records the cheapest
// way to encode everything up to and including that byte, either as a
// literal following the best encoding of the previous byte, or as a match
// ending there. Candidate matches are found through chains of earlier
// positions that end with the same two bytes, nearest first, so each match
// length is costed with the smallest distance that can produce it.
type Optimizer struct {
	// MaxDistance is the maximum distance (in bytes) to look back for
	// a match. The default (and the format's limit) is MaxOffset.
	MaxDistance int

	steps []step
	heads []int
	links []int
}

// A step is the best known way to encode the input up to one position.
type step struct {
	bits     int // total encoded size, in bits
	distance int
	length   int // 0 for a literal
}

func (o *Optimizer) Reset() {
	o.steps = o.steps[:0]
	o.heads = o.heads[:0]
	o.links = o.links[:0]
}

// FindMatches looks for matches in src, appends them to dst, and returns dst.
func (o *Optimizer) FindMatches(dst []Match, src []byte) []Match {
	if len(src) == 0 {
		return dst
	}
	maxDistance := o.MaxDistance
	if maxDistance <= 0 || maxDistance > MaxOffset {
		maxDistance = MaxOffset
	}

	steps := o.grow(len(src))

	// For each distance, the span [runStart, runEnd] of the last match
	// examined at that distance. A later match at the same distance that
	// reaches runEnd is known to extend back to runStart without comparing
	// the bytes again, which keeps long runs linear.
	var runStart, runEnd [MaxOffset + 1]int

	// The first byte is always a literal.
	steps[0].bits = 8

	for i := 1; i < len(src); i++ {
		steps[i] = step{bits: steps[i-1].bits + literalBits}

		pair := int(src[i-1])<<8 | int(src[i])
		bestLen := 1

		// Walk the chain of earlier positions ending with the same pair.
		// Positions are stored as index+1, so 0 ends the chain.
		link := &o.heads[pair]
		for *link != 0 && bestLen < MaxLength {
			end := *link - 1
			distance := i - end
			if distance > maxDistance {
				// Everything further down the chain is even farther away.
				*link = 0
				break
			}

			length := MinLength
			for ; length <= MaxLength; length++ {
				if length > bestLen {
					bestLen = length
					bits := steps[i-length].bits + matchBits(distance, length)
					if bits < steps[i].bits {
						steps[i] = step{bits: bits, distance: distance, length: length}
					}
				} else if runEnd[distance] != 0 && i+1 == runEnd[distance]+length {
					length = i - runStart[distance]
					if length > bestLen {
						length = bestLen
					}
				}
				if i < distance+length || src[i-length] != src[i-length-distance] {
					break
				}
			}
			runStart[distance] = i + 1 - length
			runEnd[distance] = i

			link = &o.links[end]
		}

		o.links[i] = o.heads[pair]
		o.heads[pair] = i + 1
	}

	return o.plan(dst, steps)
}

// grow prepares the working tables for an input of n bytes.
func (o *Optimizer) grow(n int) []step {
	if cap(o.steps) < n {
		o.steps = make([]step, n)
	}
	o.steps = o.steps[:n]
	for i := range o.steps {
		o.steps[i] = step{}
	}

	if len(o.heads) != 1<<16 {
		o.heads = make([]int, 1<<16)
	} else {
		for i := range o.heads {
			o.heads[i] = 0
		}
	}

	if cap(o.links) < n {
		o.links = make([]int, n)
	}
	o.links = o.links[:n]
	for i := range o.links {
		o.links[i] = 0
	}
	return o.steps
}

// plan walks back from the last byte along the cheapest encoding and
// appends the chosen elements to dst in input order.
func (o *Optimizer) plan(dst []Match, steps []step) []Match {
	// Mark each element with the position where the next one ends,
	// reusing the bits field, which is no longer needed.
	next := 0
	for i := len(steps) - 1; i > 0; {
		prev := i - 1
		if steps[i].length > 0 {
			prev = i - steps[i].length
		}
		steps[i].bits = next
		next = i
		i = prev
	}

	unmatched := 1
	for i := next; i > 0; i = steps[i].bits {
		if steps[i].length == 0 {
			unmatched++
			continue
		}
		dst = append(dst, Match{
			Unmatched: unmatched,
			Length:    steps[i].length,
			Distance:  steps[i].distance,
		})
		unmatched = 0
	}

	if unmatched > 0 {
		dst = append(dst, Match{Unmatched: unmatched})
	}
	return dst
}
