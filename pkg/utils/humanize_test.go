// pkg/utils/humanize_test.go

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBytesStr(t *testing.T) {
	cases := map[string]int64{
		"0":    0,
		"100B": 100,
		"4k":   4 << 10,
		"1M":   1 << 20,
		"1.5M": 3 << 19,
		"2G":   2 << 30,
	}
	for in, want := range cases {
		got, err := parseBytesStr(in, 'B')
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	// a bare number takes the default unit
	got, err := parseBytesStr("2", 'K')
	require.NoError(t, err)
	assert.EqualValues(t, 2048, got)

	_, err = parseBytesStr("1Q", 'B')
	assert.Error(t, err)
}
