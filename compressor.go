package zx7

import (
	e "github.com/pkg/errors"
)

// A Compressor combines a MatchFinder and an Encoder. Analyze and Encode
// expose the two steps separately, so that callers can check or log the
// plan before it is encoded.
//
// A Compressor is not safe for concurrent use; the MatchFinder keeps its
// working tables between calls.
type Compressor struct {
	MatchFinder MatchFinder
	Encoder     Encoder
}

// NewCompressor returns a Compressor producing optimally parsed ZX7 output.
func NewCompressor() *Compressor {
	return &Compressor{
		MatchFinder: &Optimizer{},
		Encoder:     BitEncoder{},
	}
}

// NewGreedyCompressor returns a Compressor that trades output size for
// speed, taking the longest match available at each position.
func NewGreedyCompressor() *Compressor {
	return &Compressor{
		MatchFinder: &PairChain{Parser: &GreedyParser{}},
		Encoder:     BitEncoder{},
	}
}

// Analyze chooses how to encode src. It does not modify src, and returns
// the same plan for the same input.
func (c *Compressor) Analyze(src []byte) ([]Match, error) {
	if len(src) == 0 {
		return nil, ErrEmptyInput
	}
	if c.MatchFinder == nil {
		return nil, e.New("zx7: compressor has no match finder")
	}

	c.MatchFinder.Reset()
	return c.MatchFinder.FindMatches(nil, src), nil
}

// Encode serializes plan and src into a new byte slice.
func (c *Compressor) Encode(plan []Match, src []byte) ([]byte, error) {
	if c.Encoder == nil {
		return nil, e.New("zx7: compressor has no encoder")
	}

	out, err := c.Encoder.Encode(nil, src, plan)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Compress compresses src with NewCompressor.
func Compress(src []byte) ([]byte, error) {
	c := NewCompressor()
	plan, err := c.Analyze(src)
	if err != nil {
		return nil, err
	}
	return c.Encode(plan, src)
}
