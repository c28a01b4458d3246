// pkg/bench/bwlimit.go

package bench

import "github.com/juju/ratelimit"

// newReadLimiter returns a token bucket shared by all workers, charged after
// every copy into the shared buffer. nil means unlimited.
func newReadLimiter(bytesPerSec int64) *ratelimit.Bucket {
	if bytesPerSec <= 0 {
		return nil
	}
	return ratelimit.NewBucketWithRate(float64(bytesPerSec), bytesPerSec)
}
