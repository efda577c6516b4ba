package source

import (
	"fmt"
	"io"
	"strings"

	"fjacquet/daily-budget/internal/dateutils"
	"fjacquet/daily-budget/internal/logging"
	"fjacquet/daily-budget/internal/models"
	"fjacquet/daily-budget/internal/xmlutils"

	"gopkg.in/xmlpath.v2"
)

// CAMTReader reads ISO 20022 CAMT.053 statements. Debit entries become
// spending with a positive amount; credits are skipped.
type CAMTReader struct {
	opts   Options
	paths  xmlutils.CAMT053
	logger logging.Logger
}

// NewCAMTReader creates a CAMTReader.
func NewCAMTReader(opts Options, logger logging.Logger) *CAMTReader {
	return &CAMTReader{opts: opts, paths: xmlutils.DefaultCamt053XPaths(), logger: logger}
}

// Read parses the statement.
func (c *CAMTReader) Read(r io.Reader) ([]models.Transaction, error) {
	root, err := xmlutils.Parse(r)
	if err != nil {
		return nil, err
	}

	ok, err := xmlutils.Exists(root, c.paths.Statement)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("not a CAMT.053 statement: no BkToCstmrStmt/Stmt element")
	}

	entries, err := xmlutils.Nodes(root, c.paths.Entries)
	if err != nil {
		return nil, err
	}

	txs := make([]models.Transaction, 0, len(entries))
	skipped := 0
	for i, entry := range entries {
		tx, keep, err := c.entry(i, entry)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		if !keep {
			skipped++
			continue
		}
		txs = append(txs, tx)
	}

	c.logger.Debug("Read CAMT.053 statement",
		logging.F(logging.FieldCount, len(txs)),
		logging.F("skipped", skipped))
	return txs, nil
}

func (c *CAMTReader) entry(i int, node *xmlpath.Node) (models.Transaction, bool, error) {
	p := c.paths.Entry

	if xmlutils.Value(node, p.CreditDebitInd) != "DBIT" {
		return models.Transaction{}, false, nil
	}
	if status := xmlutils.FirstValue(node, p.StatusCode, p.Status); strings.EqualFold(status, "PDNG") {
		return models.Transaction{}, false, nil
	}

	amount, err := models.ParseAmount(xmlutils.Value(node, p.Amount))
	if err != nil {
		return models.Transaction{}, false, err
	}
	// A reversed debit gives money back.
	if strings.EqualFold(xmlutils.Value(node, p.ReversalInd), "true") {
		amount = amount.Neg()
	}

	date, err := dateutils.ParseDate(xmlutils.FirstValue(node, p.BookingDate, p.BookingDateTm, p.ValueDate), c.opts.DateFormat)
	if err != nil {
		return models.Transaction{}, false, fmt.Errorf("booking date: %w", err)
	}

	currency := xmlutils.Value(node, p.Currency)
	if currency == "" {
		currency = c.opts.DefaultCurrency
	}
	id := xmlutils.FirstValue(node, p.AccountSvcRef, p.TransactionID, p.EndToEndID)
	if id == "" || id == "NOTPROVIDED" {
		id = fmt.Sprintf("camt-%d", i+1)
	}

	tx := models.NewTransaction(id, date, amount, currency, models.CategoryUncategorized)
	tx.Description = xmlutils.FirstValue(node, p.AddEntryInfo, p.Remittance)
	return tx, true, nil
}
