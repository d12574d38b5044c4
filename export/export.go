// Package export serializes lookup results to JSON and CSV files and renders
// them for the console.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"golang.org/x/exp/maps"

	"voterlookup/records"
)

// ResultSet maps each searched name to the records found for it. A name that
// matched nothing maps to an empty list, never to a missing key, so exports
// show exactly what was searched.
type ResultSet map[string][]records.Summary

// Add records the outcome of one search. A nil result list is stored as an
// empty one.
func (rs ResultSet) Add(name string, results []records.Summary) {
	if results == nil {
		results = []records.Summary{}
	}
	rs[name] = results
}

// DefaultFilename builds the timestamped output name used when the caller
// does not choose one.
func DefaultFilename(ext string) string {
	return fmt.Sprintf("voter_results_%s.%s", time.Now().Format("20060102_150405"), ext)
}

// WriteJSON writes the full result set, empty lists included, as indented
// JSON.
func WriteJSON(path string, rs ResultSet) error {
	for name, results := range rs {
		if results == nil {
			rs[name] = []records.Summary{}
		}
	}
	data, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %v", path, err)
	}
	return nil
}

// WriteCSV writes one row per record with a header that is the sorted union
// of the fields present across all records. The search name is the leading
// column; nested detail is embedded as a JSON string.
func WriteCSV(path string, rs ResultSet) error {
	var rows []map[string]string
	for _, name := range sortedNames(rs) {
		for _, rec := range rs[name] {
			row, err := flatten(rec)
			if err != nil {
				return err
			}
			row["search_name"] = name
			rows = append(rows, row)
		}
	}

	fieldSet := map[string]struct{}{"search_name": {}}
	for _, row := range rows {
		for k := range row {
			fieldSet[k] = struct{}{}
		}
	}
	header := maps.Keys(fieldSet)
	sort.Strings(header)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		out := make([]string, len(header))
		for i, field := range header {
			out[i] = row[field]
		}
		if err := w.Write(out); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func sortedNames(rs ResultSet) []string {
	names := maps.Keys(rs)
	sort.Strings(names)
	return names
}

// flatten turns a record into column values keyed by JSON field name. The
// detail sub-document does not get its own columns; it rides along as one
// JSON cell.
func flatten(rec records.Summary) (map[string]string, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to flatten record: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	row := make(map[string]string, len(raw))
	for k, v := range raw {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			row[k] = s
			continue
		}
		row[k] = string(v)
	}
	return row, nil
}
