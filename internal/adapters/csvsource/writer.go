package csvsource

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/accakut/facspair/internal/domain/model"
)

// WriteLayout is the timestamp format produced by Write.
const WriteLayout = "2006-01-02 15:04:05"

// Write emits records with the default header, readable by NewReader().
func Write(w io.Writer, records []model.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{DefaultWellColumn, DefaultTimestampColumn, DefaultRecordIDColumn, DefaultEventCountColumn}); err != nil {
		return err
	}
	for i := range records {
		r := &records[i]
		if err := cw.Write([]string{
			r.Well,
			r.Timestamp.Format(WriteLayout),
			r.RecordID,
			strconv.FormatInt(r.EventCount, 10),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
