// Package convert turns one input file into a ZX7 compressed sibling file.
//
// A conversion reads the whole input into memory, refuses to touch an
// existing output, hands the data to an Engine in two steps (analyze, then
// encode) and writes the result to input+".zx7" with an exclusive create.
// The output file is either complete or absent when Convert returns.
//
//	res, err := convert.Convert("level1.bin", nil)
//	if errors.Is(err, convert.ErrAlreadyExists) {
//		...
//	}
//
// Run wraps Convert for command line use: it prints the report line or a
// single diagnostic line and returns the process exit code.
package convert
