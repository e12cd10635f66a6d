package convert

import (
	"io"
	"os"

	"github.com/pierrec/xxHash/xxHash32"
	e "github.com/pkg/errors"
)

// createOutput creates path for writing. It fails if path exists, including
// when it was created after probeCollision looked.
func createOutput(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
}

func writeOutput(w io.Writer, artifact []byte) error {
	n, err := w.Write(artifact)
	if err != nil {
		return err
	}
	if n != len(artifact) {
		return e.Errorf("wrote %d of %d bytes", n, len(artifact))
	}
	return nil
}

// verifyOutput reads fd back from the start and checks that it holds exactly
// artifact.
func verifyOutput(fd io.ReadSeeker, artifact []byte) error {
	if _, err := fd.Seek(0, io.SeekStart); err != nil {
		return e.Wrap(err, "rewind")
	}

	h := xxHash32.New(0)
	n, err := io.Copy(h, fd)
	if err != nil {
		return e.Wrap(err, "read back")
	}
	if n != int64(len(artifact)) {
		return e.Errorf("read back %d bytes, wrote %d", n, len(artifact))
	}
	if h.Sum32() != xxHash32.Checksum(artifact, 0) {
		return e.New("read back data differs from written data")
	}
	return nil
}
