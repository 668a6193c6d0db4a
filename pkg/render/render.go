// Package render formats command results as aligned tables or JSON,
// covering the two output shapes used across the CLI: a single record shown
// one field per row, and a list shown one record per row.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
)

// Format selects the output rendering.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// ErrNoRows is returned by List when there is nothing to show; the command
// layer maps it to exit status 1.
var ErrNoRows = errors.New("no rows to display")

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTable, FormatJSON:
		return Format(s), nil
	default:
		return "", errors.Errorf("invalid format %q (choose from table, json)", s)
	}
}

// Show renders a single record as field/value pairs, one per row.
func Show(w io.Writer, columns []string, values []any, format Format) error {
	if format == FormatJSON {
		record := make(map[string]any, len(columns))
		for i, column := range columns {
			record[column] = values[i]
		}
		return writeJSON(w, record)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE")
	for i, column := range columns {
		fmt.Fprintf(tw, "%s\t%v\n", column, values[i])
	}
	return tw.Flush()
}

// List renders rows under the given column headers. An empty row set yields
// ErrNoRows.
func List(w io.Writer, columns []string, rows [][]any, format Format) error {
	if len(rows) == 0 {
		return ErrNoRows
	}

	if format == FormatJSON {
		records := make([]map[string]any, 0, len(rows))
		for _, row := range rows {
			record := make(map[string]any, len(columns))
			for i, column := range columns {
				record[column] = row[i]
			}
			records = append(records, record)
		}
		return writeJSON(w, records)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(upper(columns), "\t"))
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = fmt.Sprintf("%v", cell)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func upper(columns []string) []string {
	result := make([]string, len(columns))
	for i, column := range columns {
		result[i] = strings.ToUpper(column)
	}
	return result
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
