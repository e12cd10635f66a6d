package convert

import (
	"io"
	"os"

	e "github.com/pkg/errors"
)

const maxInt = int64(^uint(0) >> 1)

func openInput(path string) (*os.File, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	info, err := fd.Stat()
	if err != nil {
		fd.Close()
		return nil, err
	}
	if info.IsDir() {
		fd.Close()
		return nil, e.New("is a directory")
	}
	return fd, nil
}

// measureSize returns the size of fd by seeking to its end, and leaves the
// offset at the start again.
func measureSize(fd io.Seeker) (int64, error) {
	size, err := fd.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, e.Wrap(err, "seek to end")
	}
	if _, err := fd.Seek(0, io.SeekStart); err != nil {
		return 0, e.Wrap(err, "seek to start")
	}
	return size, nil
}

// allocate returns a buffer of exactly size bytes. limit > 0 caps the size.
func allocate(size, limit int64) (buf []byte, err error) {
	switch {
	case limit > 0 && size > limit:
		return nil, e.Errorf("%d bytes exceed the limit of %d", size, limit)
	case size > maxInt:
		return nil, e.Errorf("%d bytes do not fit in memory", size)
	}

	defer func() {
		if r := recover(); r != nil {
			buf, err = nil, e.Errorf("allocating %d bytes: %v", size, r)
		}
	}()
	return make([]byte, size), nil
}

// readFull reads from r into buf until buf is full or a read returns no
// data. Short reads are fine. It returns the number of bytes read and the
// error of the last read, unless that was io.EOF.
func readFull(r io.Reader, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		if m < 0 || m > len(buf)-n {
			return n, e.Errorf("reader returned invalid count %d", m)
		}
		n += m
		if err == io.EOF {
			break
		}
		if err != nil {
			return n, err
		}
		if m == 0 {
			break
		}
	}
	return n, nil
}
