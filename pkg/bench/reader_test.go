// pkg/bench/reader_test.go

package bench

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeErrors(t *testing.T) {
	_, err := NewReader(Config{Path: filepath.Join(t.TempDir(), "nope.bin")})
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.bin")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	_, err = NewReader(Config{Path: empty})
	assert.Error(t, err)

	_, err = NewReader(Config{Path: t.TempDir()})
	assert.Error(t, err)
}

func TestReadBufferedRoundTrip(t *testing.T) {
	const size = 1<<20 + 12345 // not divisible by the thread count
	path, data := writeRandomFile(t, size)

	r, err := NewReader(Config{Path: path, Threads: 4, ChunkSize: 64 << 10, Quiet: true})
	require.NoError(t, err)
	defer r.Release()

	res, err := r.Run()
	require.NoError(t, err)
	assert.Equal(t, int64(size), res.FileSize)
	assert.Equal(t, int64(size), res.BytesRead)
	assert.True(t, bytes.Equal(data, r.Buffer()))

	match, err := r.Verify()
	require.NoError(t, err)
	assert.True(t, match)
}

func TestReadDefaultsRoundTrip(t *testing.T) {
	path, _ := writeRandomFile(t, 100000)

	// zero values fall back to one worker and 1 MiB chunks
	r, err := NewReader(Config{Path: path, Quiet: true})
	require.NoError(t, err)
	defer r.Release()

	res, err := r.Run()
	require.NoError(t, err)
	assert.EqualValues(t, 100000, res.BytesRead)

	match, err := r.Verify()
	require.NoError(t, err)
	assert.True(t, match)
}

func TestReadDirectRoundTrip(t *testing.T) {
	if !SupportsDirectIO() {
		t.Skip("direct I/O is not supported on this platform")
	}
	const size = 3<<20 + 777
	path, data := writeRandomFile(t, size)

	r, err := NewReader(Config{Path: path, Threads: 3, ChunkSize: 1 << 20, Direct: true, Quiet: true})
	require.NoError(t, err)
	defer r.Release()

	res, err := r.Run()
	require.NoError(t, err)
	if res.BytesRead == 0 {
		t.Skip("filesystem rejects O_DIRECT")
	}
	assert.Equal(t, int64(size), res.BytesRead)
	assert.True(t, bytes.Equal(data, r.Buffer()))

	match, err := r.Verify()
	require.NoError(t, err)
	assert.True(t, match)
}

func TestVerifyDetectsMismatch(t *testing.T) {
	path, _ := writeRandomFile(t, 300000)

	r, err := NewReader(Config{Path: path, Threads: 2, ChunkSize: 32 << 10, Quiet: true})
	require.NoError(t, err)
	defer r.Release()
	_, err = r.Run()
	require.NoError(t, err)

	r.Buffer()[123456] ^= 0xff
	match, err := r.Verify()
	require.NoError(t, err)
	assert.False(t, match)
}

func TestVerifyDetectsTruncatedFile(t *testing.T) {
	path, _ := writeRandomFile(t, 300000)

	r, err := NewReader(Config{Path: path, Threads: 2, ChunkSize: 32 << 10, Quiet: true})
	require.NoError(t, err)
	defer r.Release()
	_, err = r.Run()
	require.NoError(t, err)

	require.NoError(t, os.Truncate(path, 100000))
	match, err := r.Verify()
	require.NoError(t, err)
	assert.False(t, match, "fewer readable bytes than probed must fail verification")
}

func TestBwLimitedRoundTrip(t *testing.T) {
	path, data := writeRandomFile(t, 200000)

	r, err := NewReader(Config{Path: path, Threads: 2, ChunkSize: 16 << 10, BwLimit: 100 << 20, Quiet: true})
	require.NoError(t, err)
	defer r.Release()

	res, err := r.Run()
	require.NoError(t, err)
	assert.EqualValues(t, 200000, res.BytesRead)
	assert.True(t, bytes.Equal(data, r.Buffer()))
}

func TestConfigSanitize(t *testing.T) {
	c := Config{}
	c.Sanitize()
	assert.Equal(t, 1, c.Threads)
	assert.EqualValues(t, 1<<20, c.ChunkSize)

	c = Config{Threads: 8, ChunkSize: 5000, Direct: true}
	c.Sanitize()
	assert.Equal(t, 8, c.Threads)
	assert.EqualValues(t, 8192, c.ChunkSize, "direct chunks are rounded up to a block multiple")
}
