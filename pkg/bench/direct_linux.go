// pkg/bench/direct_linux.go

package bench

import "golang.org/x/sys/unix"

const oDirect = unix.O_DIRECT

// SupportsDirectIO reports whether the platform has O_DIRECT at all; a
// filesystem may still reject it at open time.
func SupportsDirectIO() bool {
	return true
}
