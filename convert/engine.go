package convert

import "github.com/andybalholm/zx7"

// Engine is the compressor used by a conversion. Analyze must not modify src
// and must return the same plan for the same input; Encode turns that plan
// into the bytes written to the output file.
//
// *zx7.Compressor implements Engine.
type Engine interface {
	Analyze(src []byte) ([]zx7.Match, error)
	Encode(plan []zx7.Match, src []byte) ([]byte, error)
}

var _ Engine = (*zx7.Compressor)(nil)
