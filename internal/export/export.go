// Package export writes collection, deck, and wishlist data to CSV and JSON files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Format represents the export format.
type Format string

const (
	// FormatCSV represents CSV export format.
	FormatCSV Format = "csv"
	// FormatJSON represents JSON export format.
	FormatJSON Format = "json"
)

// Options holds configuration for export operations.
type Options struct {
	Format     Format
	FilePath   string
	PrettyJSON bool
	Overwrite  bool
}

// createFile creates the output file, handling overwrite settings.
func createFile(opts Options) (*os.File, error) {
	dir := filepath.Dir(opts.FilePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	if _, err := os.Stat(opts.FilePath); err == nil && !opts.Overwrite {
		return nil, fmt.Errorf("file already exists: %s (use overwrite option to replace)", opts.FilePath)
	}

	file, err := os.Create(opts.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	return file, nil
}

// writeJSON writes data as JSON to the writer.
func writeJSON(w io.Writer, data any, pretty bool) error {
	encoder := json.NewEncoder(w)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSV writes a header and rows to the writer.
func writeCSV(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// exportToFile writes either CSV or JSON output to opts.FilePath.
func exportToFile(opts Options, header []string, rows [][]string, jsonData any) (err error) {
	file, fileErr := createFile(opts)
	if fileErr != nil {
		return fileErr
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	switch opts.Format {
	case FormatCSV:
		return writeCSV(file, header, rows)
	case FormatJSON:
		return writeJSON(file, jsonData, opts.PrettyJSON)
	default:
		return fmt.Errorf("unsupported export format: %s", opts.Format)
	}
}
