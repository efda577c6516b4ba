package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"fjacquet/daily-budget/internal/dateutils"
	"fjacquet/daily-budget/internal/logging"
	"fjacquet/daily-budget/internal/models"

	"github.com/gocarina/gocsv"
)

// csvRow is one line of a transactions CSV.
type csvRow struct {
	ID          string `csv:"id"`
	Date        string `csv:"date"`
	Amount      string `csv:"amount"`
	Currency    string `csv:"currency"`
	Category    string `csv:"category"`
	Description string `csv:"description"`
}

// CSVReader reads the id,date,amount,currency,category,description layout.
type CSVReader struct {
	opts   Options
	logger logging.Logger
}

// NewCSVReader creates a CSVReader.
func NewCSVReader(opts Options, logger logging.Logger) *CSVReader {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	return &CSVReader{opts: opts, logger: logger}
}

// Read parses every row. A row with a bad date or amount fails the whole file.
func (c *CSVReader) Read(r io.Reader) ([]models.Transaction, error) {
	reader := csv.NewReader(r)
	reader.Comma = c.opts.Delimiter
	reader.TrimLeadingSpace = true

	var rows []*csvRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return []models.Transaction{}, nil
		}
		return nil, fmt.Errorf("error reading transactions CSV: %w", err)
	}

	txs := make([]models.Transaction, 0, len(rows))
	for i, row := range rows {
		line := i + 2
		date, err := dateutils.ParseDate(row.Date, c.opts.DateFormat)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		amount, err := models.ParseAmount(row.Amount)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		currency := row.Currency
		if currency == "" {
			currency = c.opts.DefaultCurrency
		}
		id := row.ID
		if id == "" {
			id = fmt.Sprintf("csv-%d", line)
		}

		tx := models.NewTransaction(id, date, amount, currency, row.Category)
		tx.Description = row.Description
		txs = append(txs, tx)
	}

	c.logger.Debug("Read transactions CSV",
		logging.F(logging.FieldCount, len(txs)),
		logging.F(logging.FieldDelimiter, string(c.opts.Delimiter)))
	return txs, nil
}
