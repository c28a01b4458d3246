// pkg/utils/alloc_test.go

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocGeneric(t *testing.T) {
	b, err := AllocBuffer(12345, Generic)
	require.NoError(t, err)
	assert.Equal(t, Generic, b.Mode())
	assert.Len(t, b.Data, 12345)
	b.Release()
	assert.Panics(t, func() { b.Release() })
}

func TestAllocAligned(t *testing.T) {
	for _, size := range []int64{1, 4095, 4096, 12345, 1 << 20} {
		b, err := AllocBuffer(size, Aligned)
		require.NoError(t, err)
		assert.Equal(t, Aligned, b.Mode())
		assert.EqualValues(t, size, len(b.Data))
		assert.Zero(t, alignment(b.Data), "size %d", size)
		b.Release()
	}
}

func TestAllocBadRequest(t *testing.T) {
	_, err := AllocBuffer(0, Generic)
	assert.Error(t, err)
	_, err = AllocBuffer(-1, Aligned)
	assert.Error(t, err)
	_, err = AllocBuffer(10, AllocMode(42))
	assert.Error(t, err)
}
