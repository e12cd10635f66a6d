package zx7

// eliasGammaBits returns the size of value in Elias gamma code.
func eliasGammaBits(value int) int {
	bits := 1
	for value > 1 {
		bits += 2
		value >>= 1
	}
	return bits
}

// matchBits returns the cost of a back-reference: the flag bit, the offset
// (one byte, plus four more bits for long distances) and the length.
func matchBits(distance, length int) int {
	offsetBits := 8
	if distance > shortOffset {
		offsetBits = 12
	}
	return 1 + offsetBits + eliasGammaBits(length-1)
}

// literalBits is the cost of a literal after the first byte: the flag bit
// and the byte itself.
const literalBits = 9
