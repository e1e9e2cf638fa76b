// Package repository holds read-only record indexes used by the pairing pass.
package repository

import (
	"sort"
	"strings"
	"time"

	"github.com/accakut/facspair/internal/domain/model"
	"github.com/accakut/facspair/internal/domain/plate"
)

type entry struct {
	pos int
	ts  time.Time
}

// WellIndex is an immutable snapshot of record positions per well,
// ordered by timestamp and then by input position.
type WellIndex struct {
	wells map[string][]entry
	count int
}

// NewWellIndex indexes records by well. Later changes to records do not
// affect the index.
func NewWellIndex(records []model.Record) *WellIndex {
	idx := &WellIndex{wells: make(map[string][]entry)}
	for i := range records {
		key := Key(records[i].Well)
		idx.wells[key] = append(idx.wells[key], entry{pos: i, ts: records[i].Timestamp})
	}
	for _, entries := range idx.wells {
		sort.SliceStable(entries, func(a, b int) bool {
			return entries[a].ts.Before(entries[b].ts)
		})
	}
	idx.count = len(records)
	return idx
}

// Key returns the canonical form of a well identifier, or the trimmed input
// when it does not parse.
func Key(well string) string {
	if w, err := plate.ParseWell(well); err == nil {
		return w.String()
	}
	return strings.TrimSpace(well)
}

// Window returns the positions of records on well with from <= timestamp <= to.
func (x *WellIndex) Window(well string, from, to time.Time) []int {
	if to.Before(from) {
		return nil
	}
	entries := x.wells[Key(well)]
	lo := sort.Search(len(entries), func(i int) bool {
		return !entries[i].ts.Before(from)
	})
	var out []int
	for i := lo; i < len(entries) && !entries[i].ts.After(to); i++ {
		out = append(out, entries[i].pos)
	}
	return out
}

// Len returns the number of records on well.
func (x *WellIndex) Len(well string) int {
	return len(x.wells[Key(well)])
}

// Count returns the number of indexed records.
func (x *WellIndex) Count() int {
	return x.count
}

// Wells returns the indexed wells in plate order; unparseable keys sort last.
func (x *WellIndex) Wells() []string {
	out := make([]string, 0, len(x.wells))
	for k := range x.wells {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		a, errA := plate.ParseWell(out[i])
		b, errB := plate.ParseWell(out[j])
		switch {
		case errA == nil && errB == nil:
			return plate.Compare(a, b) < 0
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return out[i] < out[j]
	})
	return out
}
