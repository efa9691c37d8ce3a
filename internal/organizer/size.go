package organizer

import (
	"fmt"
)

const (
	KiB int64 = 1024
	MiB       = 1024 * KiB
	GiB       = 1024 * MiB
)

// Unbounded marks a SizeRange with no upper limit
const Unbounded int64 = -1

// SizeRange is a half-open byte interval [Min, Max)
type SizeRange struct {
	Label string
	Min   int64
	Max   int64
}

// Contains reports whether size falls in the range
func (r SizeRange) Contains(size int64) bool {
	if size < r.Min {
		return false
	}
	return r.Max == Unbounded || size < r.Max
}

// SizeTable is an ordered list of ranges covering [0, inf)
type SizeTable []SizeRange

// DefaultSizeTable returns the binary-unit size buckets
func DefaultSizeTable() SizeTable {
	return SizeTable{
		{"Tiny (< 1MB)", 0, MiB},
		{"Small (1-10MB)", MiB, 10 * MiB},
		{"Medium (10-100MB)", 10 * MiB, 100 * MiB},
		{"Large (100MB-1GB)", 100 * MiB, GiB},
		{"Huge (> 1GB)", GiB, Unbounded},
	}
}

// Label returns the label of the first range containing size
func (t SizeTable) Label(size int64) (string, bool) {
	for _, r := range t {
		if r.Contains(size) {
			return r.Label, true
		}
	}
	return "", false
}

// Validate checks that the table starts at 0, has no gaps or overlaps and
// ends unbounded
func (t SizeTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("size table is empty")
	}
	if t[0].Min != 0 {
		return fmt.Errorf("size table must start at 0, starts at %d", t[0].Min)
	}

	for i, r := range t {
		if r.Label == "" {
			return fmt.Errorf("size range %d has no label", i)
		}
		last := i == len(t)-1
		if r.Max == Unbounded {
			if !last {
				return fmt.Errorf("size range %q is unbounded but not last", r.Label)
			}
			continue
		}
		if r.Max <= r.Min {
			return fmt.Errorf("size range %q is empty: [%d, %d)", r.Label, r.Min, r.Max)
		}
		if last {
			return fmt.Errorf("size range %q must be unbounded", r.Label)
		}
		if t[i+1].Min != r.Max {
			return fmt.Errorf("gap or overlap between %q and %q", r.Label, t[i+1].Label)
		}
	}

	return nil
}
