package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/bndr/gotabulate"
)

// writeRecord renders a decoded JSON object as an attr/value table or as indented JSON.
func writeRecord(w io.Writer, format string, record map[string]any) error {
	if format == outputJSON {
		return writeJSON(w, record)
	}

	keys := make([]string, 0, len(record))
	for key := range record {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, []string{key, cellValue(record[key])})
	}
	return writeTable(w, []string{"attr", "value"}, rows)
}

func writeJSON(w io.Writer, value any) error {
	b, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func writeTable(w io.Writer, headers []string, rows [][]string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "<>")
		return err
	}
	t := gotabulate.Create(rows)
	t.SetHeaders(headers)
	t.SetAlign("left")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(85)
	_, err := fmt.Fprint(w, t.Render("grid"))
	return err
}

// cellValue prints strings as they are and everything else as compact JSON.
func cellValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}
