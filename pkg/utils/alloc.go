// pkg/utils/alloc.go

package utils

import (
	"unsafe"

	"github.com/pkg/errors"
)

// BlockSize is the alignment unit required by direct I/O.
const BlockSize = 4096

type AllocMode int

const (
	Generic AllocMode = iota
	Aligned
)

// Buffer owns one allocation. The mode is fixed at acquisition time and
// decides the release path; the two must never diverge.
type Buffer struct {
	mode AllocMode
	raw  []byte // backing allocation, larger than Data in aligned mode
	Data []byte
}

// AllocBuffer allocates size bytes. In Aligned mode the first byte of Data
// sits on a BlockSize boundary. The memory is not zeroed beyond what the
// runtime guarantees; zero-filling is the caller's stage.
func AllocBuffer(size int64, mode AllocMode) (*Buffer, error) {
	if size <= 0 {
		return nil, errors.Errorf("buffer size should be > 0: %d", size)
	}
	b := &Buffer{mode: mode}
	switch mode {
	case Generic:
		b.raw = make([]byte, size)
		b.Data = b.raw
	case Aligned:
		b.raw = make([]byte, size+BlockSize)
		off := 0
		if a := alignment(b.raw); a != 0 {
			off = BlockSize - a
		}
		b.Data = b.raw[off : int64(off)+size]
		if alignment(b.Data) != 0 {
			return nil, errors.New("cannot satisfy block-aligned allocation")
		}
	default:
		return nil, errors.Errorf("unknown allocation mode %d", mode)
	}
	return b, nil
}

func (b *Buffer) Mode() AllocMode {
	return b.mode
}

// Release drops the allocation. Releasing twice is a bug.
func (b *Buffer) Release() {
	if b.Data == nil {
		panic("buffer is already released")
	}
	b.Data = nil
	b.raw = nil
}

// alignment is the distance of the first byte from the previous BlockSize
// boundary. Zero sized slices have no address to check.
func alignment(block []byte) int {
	if len(block) == 0 {
		return 0
	}
	return int(uintptr(unsafe.Pointer(&block[0])) & (BlockSize - 1))
}
