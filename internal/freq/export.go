package freq

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Header is the first row of every ranked CSV file
var Header = []string{"rank", "word", "count", "freq_per_million"}

// WriteCSV writes the ranked entries to path, creating parent directories
func WriteCSV(path string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}

	if err := Encode(file, entries); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Encode writes the header and one record per entry to w
func Encode(w io.Writer, entries []Entry) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for _, e := range entries {
		record := []string{
			strconv.Itoa(e.Rank),
			e.Word,
			strconv.Itoa(e.Count),
			FormatRate(e.FreqPerMillion),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write entry %d: %w", e.Rank, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// FormatRate prints a rate with the shortest exact representation and
// always keeps a decimal point, so 5 becomes "5.0"
func FormatRate(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
