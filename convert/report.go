package convert

import (
	"fmt"
	"io"
)

func report(w io.Writer, inputSize, outputSize int) error {
	_, err := fmt.Fprintf(w, "File converted from %d to %d bytes!\n", inputSize, outputSize)
	return err
}
