// pkg/bench/config.go

package bench

import "AveBench/pkg/utils"

const defaultChunkSize = 1 << 20

// Config carries every knob of one run. It is resolved once by the command
// layer and passed down; the stages never consult the environment.
type Config struct {
	Path      string
	Threads   int   // concurrent readers; 0 falls back to 1
	ChunkSize int64 // bytes per read call; 0 falls back to 1 MiB
	Direct    bool  // bypass the page cache with O_DIRECT
	BwLimit   int64 // aggregate bytes per second; 0 means unlimited
	Quiet     bool  // suppress progress bars
}

// Sanitize applies the fallback rules. In direct mode the chunk size is
// rounded up to a block multiple, so every raw read stays aligned.
func (c *Config) Sanitize() {
	if c.Threads <= 0 {
		c.Threads = 1
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = defaultChunkSize
	}
	if c.Direct && c.ChunkSize%utils.BlockSize != 0 {
		c.ChunkSize = (c.ChunkSize + utils.BlockSize - 1) / utils.BlockSize * utils.BlockSize
	}
}
