// pkg/bench/verify.go

package bench

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
)

const verifyChunk = 1 << 20

// Verify re-reads the whole file with an independent buffered sequential
// stream and compares it byte-for-byte against the assembled buffer. Fewer
// readable bytes than the probed size count as a mismatch. This is the
// end-to-end check for the parallel read: any misaligned copy, mis-copied
// sub-range or dropped tail shows up here.
func (r *Reader) Verify() (bool, error) {
	f, err := os.Open(r.cfg.Path)
	if err != nil {
		return false, errors.Wrapf(err, "open %s for verification", r.cfg.Path)
	}
	defer f.Close()

	br := bufio.NewReaderSize(f, verifyChunk)
	chunk := make([]byte, verifyChunk)
	var off int64
	for off < r.size {
		want := r.size - off
		if want > verifyChunk {
			want = verifyChunk
		}
		n, err := io.ReadFull(br, chunk[:want])
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return false, nil // file ended before the probed size
		}
		if err != nil {
			return false, errors.Wrapf(err, "sequential read at %d", off)
		}
		if !bytes.Equal(chunk[:n], r.buf.Data[off:off+int64(n)]) {
			return false, nil
		}
		off += int64(n)
	}
	return true, nil
}
