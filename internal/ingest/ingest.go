// Package ingest decodes uploaded spreadsheets into calorimetry tables.
package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/chrissnell/calorimetry/internal/calorimetry"
)

// Format identifies an input encoding
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// DefaultMaxBytes caps how much of an input is read when Options.MaxBytes is zero
const DefaultMaxBytes = 10 << 20

// ErrTooLarge is wrapped into the MalformedInputError returned for oversized input
var ErrTooLarge = errors.New("input exceeds size limit")

// Options controls decoding
type Options struct {
	// Sheet selects the worksheet of an xlsx workbook. Empty means the first sheet.
	Sheet string
	// MaxBytes limits the input size
	MaxBytes int64
}

// DetectFormat picks a format from a file name, falling back to a MIME type
func DetectFormat(filename, contentType string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	}

	if contentType != "" {
		mt, _, err := mime.ParseMediaType(contentType)
		if err == nil {
			switch mt {
			case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
				return FormatXLSX, nil
			case "text/csv", "text/plain", "application/csv":
				return FormatCSV, nil
			case "application/json":
				return FormatJSON, nil
			}
		}
	}

	return "", &calorimetry.MalformedInputError{
		Reason: fmt.Sprintf("unsupported input type (file %q, content type %q); upload .xlsx, .csv or .json", filename, contentType),
	}
}

// Decode reads the whole input and decodes it into a table. Decoding failures
// are returned as *calorimetry.MalformedInputError.
func Decode(r io.Reader, format Format, opts Options) (calorimetry.Table, error) {
	limit := opts.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return calorimetry.Table{}, &calorimetry.MalformedInputError{Reason: "reading input", Err: err}
	}
	if int64(len(data)) > limit {
		return calorimetry.Table{}, &calorimetry.MalformedInputError{
			Reason: fmt.Sprintf("more than %d bytes", limit),
			Err:    ErrTooLarge,
		}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return calorimetry.Table{}, &calorimetry.MalformedInputError{Reason: "input is empty"}
	}

	var t calorimetry.Table
	switch format {
	case FormatXLSX:
		t, err = decodeXLSX(data, opts.Sheet)
	case FormatCSV:
		t, err = decodeCSV(data)
	case FormatJSON:
		t, err = decodeJSON(data)
	default:
		return calorimetry.Table{}, &calorimetry.MalformedInputError{Reason: fmt.Sprintf("unknown format %q", format)}
	}
	if err != nil {
		var mie *calorimetry.MalformedInputError
		if errors.As(err, &mie) {
			return calorimetry.Table{}, err
		}
		return calorimetry.Table{}, &calorimetry.MalformedInputError{Reason: fmt.Sprintf("decoding %s", format), Err: err}
	}

	return t, nil
}
