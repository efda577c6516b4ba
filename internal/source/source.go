// Package source reads spending transactions from bank and ledger exports.
package source

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/daily-budget/internal/logging"
	"fjacquet/daily-budget/internal/models"
)

// Reader turns an export into transactions.
type Reader interface {
	Read(r io.Reader) ([]models.Transaction, error)
}

// Options configures the readers.
type Options struct {
	// Delimiter separates CSV fields.
	Delimiter rune
	// DateFormat is tried before the common layouts.
	DateFormat string
	// DefaultCurrency fills rows without a currency.
	DefaultCurrency string
}

// DefaultOptions returns comma-separated ISO dates in CHF.
func DefaultOptions() Options {
	return Options{Delimiter: ',', DateFormat: models.ISODate, DefaultCurrency: "CHF"}
}

// ForFile picks a reader from the file extension.
func ForFile(path string, opts Options, logger logging.Logger) (Reader, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return NewCSVReader(opts, logger), nil
	case ".xml":
		return NewCAMTReader(opts, logger), nil
	default:
		return nil, fmt.Errorf("unsupported transaction file type: %s", path)
	}
}

// LoadFile reads every transaction in path.
func LoadFile(path string, opts Options, logger logging.Logger) ([]models.Transaction, error) {
	reader, err := ForFile(path, opts, logger)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path) // #nosec G304 -- path chosen by the user
	if err != nil {
		return nil, fmt.Errorf("error opening transactions file: %w", err)
	}
	defer func() { _ = file.Close() }()

	txs, err := reader.Read(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return txs, nil
}
