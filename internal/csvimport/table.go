// Package csvimport turns registration survey exports into participants and
// teams.
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/festy23/buildathon_roster/internal/roster/model"
)

// Table is a parsed survey export: a header of question texts and one record
// per response.
type Table struct {
	Header  []string
	Records [][]string
}

// ReadTable parses CSV from r. The first record is the header. Rows may have
// fewer or more fields than the header.
func ReadTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &model.ValidationError{Field: "csv", Reason: "input is empty"}
	}
	if err != nil {
		return nil, &model.ValidationError{Field: "csv", Reason: err.Error()}
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	table := &Table{Header: header}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &model.ValidationError{Field: "csv", Reason: err.Error()}
		}
		table.Records = append(table.Records, record)
	}
	return table, nil
}

// NewTableFromRows builds a table from rows keyed by column name. The header
// is the sorted union of all keys.
func NewTableFromRows(rows []map[string]string) *Table {
	seen := make(map[string]bool)
	var header []string
	for _, row := range rows {
		for key := range row {
			if !seen[key] {
				seen[key] = true
				header = append(header, key)
			}
		}
	}
	sort.Strings(header)

	table := &Table{Header: header}
	for _, row := range rows {
		record := make([]string, len(header))
		for i, key := range header {
			record[i] = row[key]
		}
		table.Records = append(table.Records, record)
	}
	return table
}

// Value returns the field at column col of record, or "" when absent.
func (t *Table) Value(record []string, col int) string {
	if col < 0 || col >= len(record) {
		return ""
	}
	return record[col]
}

// Validate checks that the table has a header and at least one record.
func (t *Table) Validate() error {
	if t == nil || len(t.Header) == 0 {
		return &model.ValidationError{Field: "csv", Reason: "input is empty"}
	}
	if len(t.Records) == 0 {
		return &model.ValidationError{Field: "csv", Reason: fmt.Sprintf("no data rows under %d columns", len(t.Header))}
	}
	return nil
}
