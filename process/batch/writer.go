package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"

	"fitocr/pkg/workout"
)

// Format is an output encoding for rows.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
	FormatYAML    Format = "yaml"
)

// DetectFormat returns explicit when set, else the format implied by the
// output extension, else CSV.
func DetectFormat(path, explicit string) (Format, error) {
	if explicit != "" {
		switch f := Format(strings.ToLower(explicit)); f {
		case FormatCSV, FormatParquet, FormatYAML:
			return f, nil
		case "yml":
			return FormatYAML, nil
		}
		return "", fmt.Errorf("unknown format %q (want csv, parquet or yaml)", explicit)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return FormatParquet, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return FormatCSV, nil
}

// WriteRows encodes rows to w. CSV always carries the header, even with no rows.
func WriteRows(w io.Writer, f Format, rows []workout.Row) error {
	switch f {
	case FormatParquet:
		pw := parquet.NewGenericWriter[workout.Row](w)
		if _, err := pw.Write(rows); err != nil {
			return fmt.Errorf("write parquet: %w", err)
		}
		return pw.Close()
	case FormatYAML:
		if rows == nil {
			rows = []workout.Row{}
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("write yaml: %w", err)
		}
		return enc.Close()
	default:
		cw := csv.NewWriter(w)
		if err := cw.Write(workout.Header); err != nil {
			return err
		}
		for _, r := range rows {
			if err := cw.Write(r.Strings()); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	}
}

// WriteFile replaces path with the encoded rows.
func WriteFile(path string, f Format, rows []workout.Row) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := WriteRows(out, f, rows); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
