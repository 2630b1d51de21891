// Package table flattens the host's columnar records into named rows.
//
// The host delivers each record as two positional arrays, one holding the
// dimension values and one the metric values. [Flatten] zips them onto the
// declared field names so later stages can look values up by name.
package table

import (
	"github.com/matzehuels/sunburst/pkg/dscc"
	"github.com/matzehuels/sunburst/pkg/errors"
)

// Row maps a field name to its cell value.
type Row map[string]dscc.Value

// Get returns the value of field and whether the row has a column for it.
func (r Row) Get(field string) (dscc.Value, bool) {
	v, ok := r[field]
	return v, ok
}

// Flatten converts records into rows keyed by field name. fields must list
// dimensions first, then metrics, matching the order of each record's values
// (see [dscc.Message.FieldList]).
//
// An empty record set fails with NO_DATA. A record whose value count differs
// from the number of fields fails with MALFORMED_DATA, as do two fields
// sharing a name, since rows are keyed by field name.
func Flatten(records []dscc.TableRecord, fields []dscc.Field) ([]Row, error) {
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeNoData, "table has no rows")
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.Name] {
			return nil, errors.New(errors.ErrCodeMalformedData, "duplicate field name %q", f.Name)
		}
		seen[f.Name] = true
	}

	rows := make([]Row, 0, len(records))
	for i, rec := range records {
		n := len(rec.Dimension) + len(rec.Metric)
		if n != len(fields) {
			return nil, errors.New(errors.ErrCodeMalformedData,
				"row %d has %d values, expected %d fields", i, n, len(fields))
		}

		row := make(Row, len(fields))
		for j, f := range fields {
			if j < len(rec.Dimension) {
				row[f.Name] = rec.Dimension[j]
			} else {
				row[f.Name] = rec.Metric[j-len(rec.Dimension)]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// FromMessage flattens the default table of m.
func FromMessage(m *dscc.Message) ([]Row, error) {
	return Flatten(m.Records(), m.FieldList())
}
