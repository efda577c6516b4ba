package history

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/daily-budget/cmd/root"
	"fjacquet/daily-budget/internal/budgeterror"
	"fjacquet/daily-budget/internal/config"
	"fjacquet/daily-budget/internal/container"
	"fjacquet/daily-budget/internal/logging"
	"fjacquet/daily-budget/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const camtStatement = `<?xml version="1.0" encoding="UTF-8"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.04">
  <BkToCstmrStmt>
    <Stmt>
      <Id>S1</Id>
      <Ntry>
        <Amt Ccy="CHF">42.10</Amt>
        <CdtDbtInd>DBIT</CdtDbtInd>
        <Sts>BOOK</Sts>
        <BookgDt><Dt>2024-04-02</Dt></BookgDt>
        <AcctSvcrRef>R1</AcctSvcrRef>
        <AddtlNtryInf>Coop Pronto</AddtlNtryInf>
      </Ntry>
      <Ntry>
        <Amt Ccy="CHF">5000.00</Amt>
        <CdtDbtInd>CRDT</CdtDbtInd>
        <Sts>BOOK</Sts>
        <BookgDt><Dt>2024-04-01</Dt></BookgDt>
        <AcctSvcrRef>R2</AcctSvcrRef>
      </Ntry>
    </Stmt>
  </BkToCstmrStmt>
</Document>`

func newContainer(t *testing.T) *container.Container {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)

	c, err := container.NewContainerWithLogger(config.DefaultConfig(), logging.NewMockLogger())
	require.NoError(t, err)
	return c
}

func TestRun_CAMT(t *testing.T) {
	c := newContainer(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "april.xml")
	require.NoError(t, os.WriteFile(input, []byte(camtStatement), 0600))
	output := filepath.Join(dir, "history.json")

	err := Run(c, Options{Month: "2024-04", AsOf: "2024-04-03"},
		root.CommonFlags{Input: input, Output: output, Format: "json"}, time.Now())
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	var h models.SpendHistory
	require.NoError(t, json.Unmarshal(data, &h))
	assert.Equal(t, "CHF", h.Currency)
	assert.Len(t, h.Days, 3)
	assert.Equal(t, "42.1", h.Days["2024-04-02"].Total.String())
	assert.True(t, h.Days["2024-04-01"].Total.IsZero())
}

func TestRun_TableDefaultsAsOfToNow(t *testing.T) {
	c := newContainer(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "april.csv")
	require.NoError(t, os.WriteFile(input, []byte("id,date,amount,currency,category,description\n"+
		"t1,2024-04-01,9.90,CHF,dining,Lunch\n"), 0600))
	output := filepath.Join(dir, "history.txt")

	now := time.Date(2024, 4, 5, 18, 0, 0, 0, time.UTC)
	require.NoError(t, Run(c, Options{}, root.CommonFlags{Input: input, Output: output, Format: "table"}, now))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Spending up to 2024-04-05")
	assert.Contains(t, string(data), "dining=9.9")
}

func TestRun_Errors(t *testing.T) {
	c := newContainer(t)

	err := Run(c, Options{}, root.CommonFlags{}, time.Now())
	assert.True(t, errors.Is(err, budgeterror.ErrInvalidInput))

	err = Run(c, Options{Month: "13/2024"}, root.CommonFlags{Input: "x.csv"}, time.Now())
	assert.True(t, errors.Is(err, budgeterror.ErrInvalidInput))

	err = Run(c, Options{AsOf: "never"}, root.CommonFlags{Input: "x.csv"}, time.Now())
	assert.True(t, errors.Is(err, budgeterror.ErrInvalidInput))
}
