package listing

import (
	"encoding/csv"
	"io"
)

// ExportCSV serializes the currently filtered view. Each row is the flat
// label→value projection of one item; columns fixes both order and headers.
func ExportCSV(w io.Writer, columns []string, rows []map[string]string) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(columns); err != nil {
		return err
	}
	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			record[i] = row[col]
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
