package zx7

// A LazyParser is like a GreedyParser, but before taking a match it checks
// whether the next position starts a longer one. If so, the current byte is
// left as a literal and the longer match is used instead.
type LazyParser struct {
	matchCache []AbsoluteMatch
}

func (p *LazyParser) Parse(dst []Match, src Searcher, start, end int) []Match {
	matches := p.matchCache[:0]
	s := start
	nextEmit := start
	var m AbsoluteMatch

mainLoop:
	for {
		nextS := s
		for {
			s = nextS
			nextS = s + 1
			if nextS >= end {
				break mainLoop
			}

			matches = src.Search(matches[:0], s, nextEmit, end)
			m = longestMatch(matches)
			if m.End-m.Start >= MinLength {
				break
			}
		}

		// Now try lazy matching.
		if m.End < end {
			matches = src.Search(matches[:0], s+1, nextEmit, end)
			lazy := longestMatch(matches)
			if lazy.End-lazy.Start > m.End-m.Start {
				m = lazy
			}
		}

		dst = append(dst, Match{
			Unmatched: m.Start - nextEmit,
			Length:    m.End - m.Start,
			Distance:  m.Start - m.Match,
		})
		s = m.End
		nextEmit = s
	}

	if nextEmit < end {
		dst = append(dst, Match{
			Unmatched: end - nextEmit,
		})
	}
	p.matchCache = matches[:0]
	return dst
}
