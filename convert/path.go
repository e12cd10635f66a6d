package convert

import "os"

// Extension is appended to the input path to name the output file.
const Extension = ".zx7"

// OutputPath returns the output file name for input.
func OutputPath(input string) string {
	return input + Extension
}

// probeCollision returns ErrAlreadyExists if path can be opened for reading.
// It only saves work on the common case; the exclusive create in
// createOutput is what actually protects an existing file.
func probeCollision(path string) error {
	fd, err := os.Open(path)
	if err != nil {
		return nil
	}
	fd.Close()
	return ErrAlreadyExists
}
