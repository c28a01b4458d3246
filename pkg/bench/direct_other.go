// pkg/bench/direct_other.go

//go:build !linux

package bench

const oDirect = 0

func SupportsDirectIO() bool {
	return false
}
