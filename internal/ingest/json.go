package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/chrissnell/calorimetry/internal/calorimetry"
)

// field is one key/value pair of a record, in document order
type field struct {
	key   string
	value any
}

// decodeJSON accepts an array of flat objects. Columns are the union of keys in
// first-seen order, so an object missing a key yields an empty cell.
func decodeJSON(data []byte) (calorimetry.Table, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return calorimetry.Table{}, err
	}

	records := make([][]field, 0, len(raw))
	for n, r := range raw {
		rec, err := decodeRecord(r)
		if err != nil {
			return calorimetry.Table{}, &calorimetry.MalformedInputError{Reason: fmt.Sprintf("record %d", n+1), Err: err}
		}
		records = append(records, rec)
	}

	var t calorimetry.Table
	index := make(map[string]int)
	for _, rec := range records {
		for _, f := range rec {
			if _, ok := index[f.key]; !ok {
				index[f.key] = len(t.Columns)
				t.Columns = append(t.Columns, f.key)
			}
		}
	}

	if len(t.Columns) == 0 {
		return calorimetry.Table{}, &calorimetry.MalformedInputError{Reason: "no records found"}
	}

	for n, rec := range records {
		row := make([]string, len(t.Columns))
		for _, f := range rec {
			s, err := jsonCell(f.value)
			if err != nil {
				return calorimetry.Table{}, &calorimetry.MalformedInputError{
					Reason: fmt.Sprintf("record %d, field %q", n+1, f.key),
					Err:    err,
				}
			}
			row[index[f.key]] = s
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

// decodeRecord walks one object token by token so keys keep their document
// order. A repeated key keeps its first position and its last value.
func decodeRecord(data json.RawMessage) ([]field, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected an object")
	}

	var rec []field
	pos := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected an object key")
		}

		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}

		if i, seen := pos[key]; seen {
			rec[i].value = v
			continue
		}
		pos[key] = len(rec)
		rec = append(rec, field{key: key, value: v})
	}

	return rec, nil
}

func jsonCell(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case bool:
		return strconv.FormatBool(x), nil
	default:
		return "", fmt.Errorf("nested values are not supported")
	}
}
