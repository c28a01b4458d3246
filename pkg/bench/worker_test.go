// pkg/bench/worker_test.go

package bench

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"AveBench/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestPlanAlignedRead(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		off := rapid.Int64Range(0, 1<<40).Draw(t, "off")
		remaining := rapid.Int64Range(1, 1<<30).Draw(t, "remaining")
		chunk := rapid.Int64Range(1, 1024).Draw(t, "chunkBlocks") * utils.BlockSize

		p := planAlignedRead(off, remaining, chunk)
		assert.Zero(t, p.alignedOff%utils.BlockSize)
		assert.Zero(t, p.toRead%utils.BlockSize)
		assert.LessOrEqual(t, p.alignedOff, off)
		assert.Less(t, off, p.alignedOff+p.toRead)
		assert.LessOrEqual(t, p.toRead, chunk)
		assert.Equal(t, off-p.alignedOff, p.skip)
	})
}

func TestPlanAlignedReadExamples(t *testing.T) {
	// aligned offset, section longer than the chunk
	p := planAlignedRead(0, 10<<20, 1<<20)
	assert.Equal(t, alignedPlan{alignedOff: 0, skip: 0, toRead: 1 << 20}, p)

	// offset in the middle of a block
	p = planAlignedRead(5000, 100, 1<<20)
	assert.Equal(t, alignedPlan{alignedOff: 4096, skip: 904, toRead: 4096}, p)

	// wanted bytes spill into the next block after the skip
	p = planAlignedRead(4095, 2, 1<<20)
	assert.Equal(t, alignedPlan{alignedOff: 0, skip: 4095, toRead: 8192}, p)
}

func writeRandomFile(t *testing.T, size int) (string, []byte) {
	t.Helper()
	data := make([]byte, size)
	rand.New(rand.NewSource(42)).Read(data)
	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path, data
}

func TestWorkerBuffered(t *testing.T) {
	const size = 256<<10 + 789
	path, data := writeRandomFile(t, size)

	shared := make([]byte, size)
	s := Section{Worker: 0, Start: 100, Length: 200000}
	w := &worker{
		id:      0,
		section: s,
		path:    path,
		chunk:   64 << 10,
		buf:     shared[s.Start : s.Start+s.Length],
	}
	res := w.run()
	assert.Equal(t, s.Length, res.bytes)
	assert.True(t, bytes.Equal(data[s.Start:s.Start+s.Length], shared[s.Start:s.Start+s.Length]))
}

func TestWorkerOpenFailureLeavesSectionUntouched(t *testing.T) {
	section := make([]byte, 8192)
	w := &worker{
		id:      1,
		section: Section{Worker: 1, Start: 0, Length: 8192},
		path:    filepath.Join(t.TempDir(), "missing.bin"),
		chunk:   4096,
		buf:     section,
	}
	res := w.run()
	assert.Zero(t, res.bytes)
	assert.True(t, bytes.Equal(make([]byte, 8192), section), "failed worker must contribute zero bytes")
}
