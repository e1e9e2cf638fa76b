// Package csvsource reads and writes cytometer exports as CSV.
package csvsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/accakut/facspair/internal/domain/model"
	"github.com/accakut/facspair/internal/domain/plate"
)

// Default header names of the cytometer export.
const (
	DefaultWellColumn       = "Well Name"
	DefaultTimestampColumn  = "Record Date"
	DefaultRecordIDColumn   = "GUID"
	DefaultEventCountColumn = "GFP positiv #Events"
)

// DefaultTimestampLayouts are tried in order when parsing "Record Date".
var DefaultTimestampLayouts = []string{
	"1/2/2006 3:04:05 PM",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Columns names the header of each required field.
type Columns struct {
	Well       string
	Timestamp  string
	RecordID   string
	EventCount string
}

// Reader turns CSV exports into records.
type Reader struct {
	columns  Columns
	layouts  []string
	location *time.Location
	comma    rune
}

// NewReader creates a Reader for the default export format.
func NewReader(opts ...Option) *Reader {
	r := &Reader{
		columns: Columns{
			Well:       DefaultWellColumn,
			Timestamp:  DefaultTimestampColumn,
			RecordID:   DefaultRecordIDColumn,
			EventCount: DefaultEventCountColumn,
		},
		layouts:  DefaultTimestampLayouts,
		location: time.UTC,
		comma:    ',',
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadFiles reads every path in order and concatenates the records.
func (r *Reader) ReadFiles(ctx context.Context, paths ...string) ([]model.Record, error) {
	var out []model.Record
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		recs, err := r.ReadFile(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, recs...)
	}
	return out, nil
}

// ReadFile reads one export.
func (r *Reader) ReadFile(ctx context.Context, path string) ([]model.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return r.Read(ctx, f, path)
}

// Read parses an export from in; source names it in errors.
func (r *Reader) Read(ctx context.Context, in io.Reader, source string) ([]model.Record, error) {
	if source == "" {
		source = "<input>"
	}
	cr := csv.NewReader(in)
	cr.Comma = r.comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, &ParseError{Source: source, Line: 1, Err: err}
	}
	idx, err := r.columnIndex(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	var out []model.Record
	for {
		if len(out)%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var line int
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				line = csvErr.Line
			}
			return nil, &ParseError{Source: source, Line: line, Err: err}
		}
		line, _ := cr.FieldPos(0)
		rec, perr := r.parseRow(row, idx)
		if perr != nil {
			perr.Source, perr.Line = source, line
			return nil, perr
		}
		out = append(out, rec)
	}
	return out, nil
}

type columnIndex struct {
	well, timestamp, recordID, eventCount int
}

func (r *Reader) columnIndex(header []string) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}
	lookup := func(name string) (int, error) {
		i, ok := pos[name]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
		return i, nil
	}

	var (
		idx  columnIndex
		errs []error
		err  error
	)
	if idx.well, err = lookup(r.columns.Well); err != nil {
		errs = append(errs, err)
	}
	if idx.timestamp, err = lookup(r.columns.Timestamp); err != nil {
		errs = append(errs, err)
	}
	if idx.recordID, err = lookup(r.columns.RecordID); err != nil {
		errs = append(errs, err)
	}
	if idx.eventCount, err = lookup(r.columns.EventCount); err != nil {
		errs = append(errs, err)
	}
	return idx, errors.Join(errs...)
}

func field(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func (r *Reader) parseRow(row []string, idx columnIndex) (model.Record, *ParseError) {
	well := field(row, idx.well)
	if well == "" {
		return model.Record{}, &ParseError{Column: r.columns.Well, Err: errors.New("empty well")}
	}
	if w, err := plate.ParseWell(well); err == nil {
		well = w.String()
	}

	ts, err := r.parseTimestamp(field(row, idx.timestamp))
	if err != nil {
		return model.Record{}, &ParseError{Column: r.columns.Timestamp, Err: err}
	}

	id := field(row, idx.recordID)
	if id == "" {
		return model.Record{}, &ParseError{Column: r.columns.RecordID, Err: errors.New("empty record id")}
	}

	events, err := parseCount(field(row, idx.eventCount))
	if err != nil {
		return model.Record{}, &ParseError{Column: r.columns.EventCount, Err: err}
	}

	return model.Record{
		Well:       well,
		Timestamp:  ts,
		RecordID:   id,
		EventCount: events,
	}, nil
}

func (r *Reader) parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	for _, l := range r.layouts {
		if t, err := time.ParseInLocation(l, s, r.location); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("timestamp %q matches none of %d layouts", s, len(r.layouts))
}

// parseCount accepts integers and integral floats such as "40.0".
func parseCount(s string) (int64, error) {
	if s == "" {
		return 0, errors.New("empty event count")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative event count %d", n)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f != float64(int64(f)) {
		return 0, fmt.Errorf("invalid event count %q", s)
	}
	return int64(f), nil
}
