// Package xmlutils loads XML documents and evaluates XPath expressions on them.
package xmlutils

// CAMT053 holds the XPath expressions used to read a CAMT.053 statement.
// Entry paths are relative to one Ntry node.
type CAMT053 struct {
	Statement string
	Entries   string

	Entry struct {
		Amount         string
		Currency       string
		CreditDebitInd string
		BookingDate    string
		BookingDateTm  string
		ValueDate      string
		Status         string
		StatusCode     string
		AccountSvcRef  string
		TransactionID  string
		EndToEndID     string
		AddEntryInfo   string
		Remittance     string
		ReversalInd    string
	}
}

// DefaultCamt053XPaths returns the expressions for camt.053.001.02 through .08.
func DefaultCamt053XPaths() CAMT053 {
	camt := CAMT053{
		Statement: "//BkToCstmrStmt/Stmt",
		Entries:   "//BkToCstmrStmt/Stmt/Ntry",
	}

	camt.Entry.Amount = "Amt"
	camt.Entry.Currency = "Amt/@Ccy"
	camt.Entry.CreditDebitInd = "CdtDbtInd"
	camt.Entry.BookingDate = "BookgDt/Dt"
	camt.Entry.BookingDateTm = "BookgDt/DtTm"
	camt.Entry.ValueDate = "ValDt/Dt"
	camt.Entry.Status = "Sts"
	camt.Entry.StatusCode = "Sts/Cd"
	camt.Entry.AccountSvcRef = "AcctSvcrRef"
	camt.Entry.TransactionID = "NtryDtls/TxDtls/Refs/TxId"
	camt.Entry.EndToEndID = "NtryDtls/TxDtls/Refs/EndToEndId"
	camt.Entry.AddEntryInfo = "AddtlNtryInf"
	camt.Entry.Remittance = "NtryDtls/TxDtls/RmtInf/Ustrd"
	camt.Entry.ReversalInd = "RvslInd"

	return camt
}
