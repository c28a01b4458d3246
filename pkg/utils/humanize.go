// pkg/utils/humanize.go

package utils

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

// ParseBytes reads a size option like "128", "512k" or "4M"; a bare number
// takes the given default unit. Binary units.
func ParseBytes(ctx *cli.Context, key string, unit byte) int64 {
	str := ctx.String(key)
	if len(str) == 0 {
		return 0
	}
	val, err := parseBytesStr(str, unit)
	if err != nil {
		logger.Fatalf("Invalid value \"%s\" for option \"--%s\"", str, key)
	}
	return val
}

func parseBytesStr(str string, unit byte) (int64, error) {
	s := str
	if c := s[len(s)-1]; c < '0' || c > '9' {
		unit = c
		s = s[:len(s)-1]
	}
	val, err := strconv.ParseFloat(s, 64)
	if err == nil {
		var shift int
		switch unit {
		case 'b', 'B':
		case 'k', 'K':
			shift = 10
		case 'm', 'M':
			shift = 20
		case 'g', 'G':
			shift = 30
		case 't', 'T':
			shift = 40
		default:
			err = errors.New("invalid unit")
		}
		val *= float64(int64(1) << shift)
	}
	if err != nil {
		return 0, err
	}
	return int64(val), nil
}
