// pkg/bench/worker.go

package bench

import (
	"io"
	"os"
	"time"

	"AveBench/pkg/utils"

	"github.com/dustin/go-humanize"
	"github.com/juju/ratelimit"
	"github.com/vbauerster/mpb/v8"
)

var logger = utils.GetLogger("avebench")

// alignedPlan describes one raw direct-I/O read: the read itself starts at
// alignedOff and spans toRead bytes (both block multiples); the wanted bytes
// begin skip bytes into it.
type alignedPlan struct {
	alignedOff int64
	skip       int64
	toRead     int64
}

// planAlignedRead derives the plan for reading up to chunkSize bytes at off
// with remaining bytes left in the section. chunkSize must be a block
// multiple (Config.Sanitize rounds it), which bounds toRead by chunkSize.
func planAlignedRead(off, remaining, chunkSize int64) alignedPlan {
	alignedOff := off / utils.BlockSize * utils.BlockSize
	skip := off - alignedOff
	toRead := utils.Min(chunkSize, remaining+skip)
	toRead = (toRead + utils.BlockSize - 1) / utils.BlockSize * utils.BlockSize
	return alignedPlan{alignedOff: alignedOff, skip: skip, toRead: toRead}
}

// worker reads one section of the file into its slice of the shared buffer.
// Each worker owns its fd and, in direct mode, its aligned scratch buffer;
// the only shared state it touches is its disjoint buf slice.
type worker struct {
	id      int
	section Section
	path    string
	chunk   int64
	direct  bool
	bucket  *ratelimit.Bucket
	bar     *mpb.Bar
	buf     []byte // shared buffer slice [section.Start, section.Start+section.Length)
}

type workerResult struct {
	worker int
	bytes  int64
	took   time.Duration
}

// run opens the file and copies the section. Any failure here is local: the
// worker logs it, stops, and leaves the rest of its section zero-filled.
func (w *worker) run() workerResult {
	start := time.Now()
	res := workerResult{worker: w.id}
	flag := os.O_RDONLY
	if w.direct {
		flag |= oDirect
	}
	f, err := os.OpenFile(w.path, flag, 0)
	if err != nil {
		logger.Errorf("worker %d: open %s: %s", w.id, w.path, err)
		return res
	}
	defer f.Close()

	if w.direct {
		res.bytes = w.readAligned(f)
	} else {
		res.bytes = w.readBuffered(f)
	}
	res.took = time.Since(start)
	chunks := (res.bytes + w.chunk - 1) / w.chunk
	logger.Infof("worker %d: %s in %d chunks (%s)",
		w.id, humanize.IBytes(uint64(res.bytes)), chunks, res.took.Round(time.Millisecond))
	return res
}

// readBuffered copies the section straight into the shared buffer, one chunk
// per positional read. Short reads and errors end the loop; they are not
// retried.
func (w *worker) readBuffered(f *os.File) int64 {
	var done int64
	for done < w.section.Length {
		want := utils.Min(w.chunk, w.section.Length-done)
		off := w.section.Start + done
		n, err := f.ReadAt(w.buf[done:done+want], off)
		if n > 0 {
			w.account(n)
			done += int64(n)
		}
		if n == 0 || err == io.EOF {
			break
		}
		if err != nil {
			logger.Errorf("worker %d: read at %d: %s", w.id, off, err)
			break
		}
		if int64(n) < want {
			logger.Warnf("worker %d: short read at %d: %d < %d", w.id, off, n, want)
			break
		}
	}
	return done
}

// readAligned reads block-aligned spans into the scratch buffer and copies
// the valid sub-range out. A raw read shorter than planned means the end of
// the readable data and ends the loop.
func (w *worker) readAligned(f *os.File) int64 {
	allocStart := time.Now()
	scratch, err := utils.AllocBuffer(w.chunk, utils.Aligned)
	if err != nil {
		logger.Errorf("worker %d: allocate scratch buffer: %s", w.id, err)
		return 0
	}
	defer scratch.Release()
	logger.Debugf("worker %d: scratch buffer allocated in %s", w.id, time.Since(allocStart))

	var done int64
	for done < w.section.Length {
		off := w.section.Start + done
		remaining := w.section.Length - done
		plan := planAlignedRead(off, remaining, w.chunk)
		n, err := f.ReadAt(scratch.Data[:plan.toRead], plan.alignedOff)
		if err != nil && err != io.EOF {
			logger.Errorf("worker %d: read at %d: %s", w.id, plan.alignedOff, err)
			break
		}
		if int64(n) <= plan.skip {
			break
		}
		valid := utils.Min(int64(n)-plan.skip, remaining)
		copy(w.buf[done:done+valid], scratch.Data[plan.skip:plan.skip+valid])
		w.account(int(valid))
		done += valid
		if int64(n) < plan.toRead {
			break
		}
	}
	return done
}

func (w *worker) account(n int) {
	if w.bar != nil {
		w.bar.IncrBy(n)
	}
	if w.bucket != nil {
		w.bucket.Wait(int64(n))
	}
}
