// pkg/bench/reader.go

package bench

import (
	"os"
	"runtime"
	"sync"
	"time"

	"AveBench/pkg/utils"

	"github.com/dustin/go-humanize"
	"github.com/juju/ratelimit"
	"github.com/pkg/errors"
)

// Reader materializes one file into a single shared buffer with parallel
// section reads, then reports the aggregate throughput.
type Reader struct {
	cfg    Config
	size   int64
	buf    *utils.Buffer
	bucket *ratelimit.Bucket
}

// Result is the outcome of one run.
type Result struct {
	FileSize   int64
	BytesRead  int64
	Elapsed    time.Duration
	Throughput float64 // MB/s
}

// NewReader probes the file and resolves the configuration. Any error here
// is fatal and happens before a single goroutine is launched.
func NewReader(cfg Config) (*Reader, error) {
	cfg.Sanitize()
	if cfg.Direct && !SupportsDirectIO() {
		logger.Warnf("direct I/O is not supported on %s, falling back to buffered reads", runtime.GOOS)
		cfg.Direct = false
	}
	size, err := probeFile(cfg.Path)
	if err != nil {
		return nil, err
	}
	return &Reader{
		cfg:    cfg,
		size:   size,
		bucket: newReadLimiter(cfg.BwLimit),
	}, nil
}

func probeFile(path string) (int64, error) {
	st, err := os.Stat(path)
	if err != nil {
		return 0, errors.Wrapf(err, "stat %s", path)
	}
	if !st.Mode().IsRegular() {
		return 0, errors.Errorf("%s is not a regular file", path)
	}
	if st.Size() == 0 {
		return 0, errors.Errorf("%s is empty", path)
	}
	return st.Size(), nil
}

// FileSize is the size captured at probe time; a file changing size during
// the run is not supported.
func (r *Reader) FileSize() int64 {
	return r.size
}

// Buffer exposes the assembled data. Valid until Release.
func (r *Reader) Buffer() []byte {
	return r.buf.Data
}

// Release frees the shared buffer through the release path matching its
// allocation mode.
func (r *Reader) Release() {
	if r.buf != nil {
		r.buf.Release()
		r.buf = nil
	}
}

// Run allocates the buffer, zero-fills it in parallel, then reads every
// section concurrently. The read stage starts strictly after the last
// zero-fill worker joined.
func (r *Reader) Run() (*Result, error) {
	cfg := &r.cfg
	mode := utils.Generic
	if cfg.Direct {
		mode = utils.Aligned
	}
	allocStart := time.Now()
	buf, err := utils.AllocBuffer(r.size, mode)
	if err != nil {
		return nil, errors.Wrap(err, "allocate shared buffer")
	}
	r.buf = buf
	logger.Debugf("buffer allocation: %s", time.Since(allocStart))

	sections := SplitSections(r.size, cfg.Threads)
	r.zeroFill(sections)

	logger.Infof("reading %s: %s with %d workers, %s per read",
		cfg.Path, humanize.IBytes(uint64(r.size)), cfg.Threads, humanize.IBytes(uint64(cfg.ChunkSize)))
	if cfg.Direct {
		logger.Infof("direct I/O enabled, bypassing the page cache")
	} else {
		logger.Infof("buffered I/O, repeat runs may be served from the page cache")
	}

	start := time.Now()
	results := r.readSections(sections)
	elapsed := time.Since(start)

	var total int64
	for _, res := range results {
		total += res.bytes
	}
	throughput := float64(r.size) / (1 << 20) / elapsed.Seconds()
	logger.Infof("read %s in %s (%.2f MB/s)",
		humanize.IBytes(uint64(total)), elapsed.Round(time.Millisecond), throughput)
	if total != r.size {
		logger.Warnf("read %d bytes of %d, the rest of the buffer is zero-filled", total, r.size)
	}

	return &Result{
		FileSize:   r.size,
		BytesRead:  total,
		Elapsed:    elapsed,
		Throughput: throughput,
	}, nil
}

// zeroFill writes zero to every byte of the buffer, one goroutine per
// section, and joins them all. Short or failed reads later can then leave
// holes that are zero instead of uninitialized.
func (r *Reader) zeroFill(sections []Section) {
	start := time.Now()
	var wg sync.WaitGroup
	for _, s := range sections {
		wg.Add(1)
		go func(s Section) {
			defer wg.Done()
			t := time.Now()
			b := r.buf.Data[s.Start : s.Start+s.Length]
			for i := range b {
				b[i] = 0
			}
			logger.Debugf("zero worker %d: %d bytes in %s", s.Worker, s.Length, time.Since(t).Round(time.Microsecond))
		}(s)
	}
	wg.Wait()
	logger.Infof("zero-filled %s with %d workers in %s",
		humanize.IBytes(uint64(r.size)), len(sections), time.Since(start).Round(time.Millisecond))
}

func (r *Reader) readSections(sections []Section) []workerResult {
	progress, bar := utils.NewByteProgressBar("reading", r.size, r.cfg.Quiet)
	results := make([]workerResult, len(sections))
	var wg sync.WaitGroup
	for i, s := range sections {
		w := &worker{
			id:      s.Worker,
			section: s,
			path:    r.cfg.Path,
			chunk:   r.cfg.ChunkSize,
			direct:  r.cfg.Direct,
			bucket:  r.bucket,
			bar:     bar,
			buf:     r.buf.Data[s.Start : s.Start+s.Length],
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = w.run()
		}(i)
	}
	wg.Wait()
	bar.SetTotal(0, true) // complete the bar even if some worker fell short
	progress.Wait()
	return results
}
