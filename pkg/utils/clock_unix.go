// pkg/utils/clock_unix.go

package utils

import "time"

var started = time.Now()

func Now() time.Time {
	return time.Now()
}

// Clock is the monotonic time since process start.
func Clock() time.Duration {
	return time.Since(started)
}
