// pkg/bench/partition.go

package bench

import "fmt"

// Section is a contiguous byte range of the target file assigned to one
// worker. Sections of a run never overlap and together cover the whole file.
type Section struct {
	Worker int
	Start  int64
	Length int64
}

// SplitSections divides [0, fileSize) into one section per worker: every
// worker gets fileSize/threads bytes and the last one also takes the
// remainder. Pure function of its inputs, so the zero-fill stage and the
// read stage get identical sections.
func SplitSections(fileSize int64, threads int) []Section {
	if threads < 1 {
		threads = 1
	}
	base := fileSize / int64(threads)
	sections := make([]Section, threads)
	var off int64
	for i := range sections {
		length := base
		if i == threads-1 {
			length = fileSize - off
		}
		sections[i] = Section{Worker: i, Start: off, Length: length}
		off += length
	}
	checkSections(fileSize, sections)
	return sections
}

// checkSections asserts the disjoint-cover invariant. It is the reason the
// workers can write to the shared buffer without any locking, so a violation
// is a programming error, not a runtime condition.
func checkSections(fileSize int64, sections []Section) {
	var off int64
	for i, s := range sections {
		if s.Start != off || s.Length < 0 {
			panic(fmt.Sprintf("section %d covers [%d, %d), want start %d", i, s.Start, s.Start+s.Length, off))
		}
		off += s.Length
	}
	if off != fileSize {
		panic(fmt.Sprintf("sections cover %d bytes of %d", off, fileSize))
	}
}
