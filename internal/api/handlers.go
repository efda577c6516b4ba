package api

import (
	"net/http"
	"time"

	"fjacquet/daily-budget/internal/budgeterror"
	"fjacquet/daily-budget/internal/dateutils"
	"fjacquet/daily-budget/internal/engine"
	"fjacquet/daily-budget/internal/logging"
	"fjacquet/daily-budget/internal/models"
	"fjacquet/daily-budget/internal/planner"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type handler struct {
	planner *planner.Planner
	logger  logging.Logger
}

// PlanRequest is the body of POST /v1/plans. Dates use YYYY-MM-DD.
// Omitting transactions plans without history; an empty list is an empty
// history.
type PlanRequest struct {
	ProfileID        string            `json:"profile_id"`
	PeriodStart      string            `json:"period_start" binding:"required"`
	PeriodEnd        string            `json:"period_end" binding:"required"`
	MonthlyIncome    decimal.Decimal   `json:"monthly_income"`
	FixedCommitments *decimal.Decimal  `json:"fixed_commitments,omitempty"`
	SavingsTarget    *decimal.Decimal  `json:"savings_target,omitempty"`
	Currency         string            `json:"currency" binding:"required"`
	Locality         string            `json:"locality,omitempty"`
	AsOf             string            `json:"as_of,omitempty"`
	Mode             string            `json:"mode,omitempty"`
	Freeze           bool              `json:"freeze"`
	Advise           bool              `json:"advise"`
	Transactions     []TransactionJSON `json:"transactions,omitempty"`
}

// TransactionJSON is one transaction in a PlanRequest.
type TransactionJSON struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
}

// ClassificationRequest is the body of POST /v1/classifications.
type ClassificationRequest struct {
	MonthlyIncome decimal.Decimal `json:"monthly_income"`
	Locality      string          `json:"locality,omitempty"`
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handler) createPlan(c *gin.Context) {
	var body PlanRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		newError(c, http.StatusBadRequest, err.Error())
		return
	}

	req, err := body.toRequest()
	if err != nil {
		h.writeError(c, err)
		return
	}

	plan, err := h.planner.Plan(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *handler) createClassification(c *gin.Context) {
	var body ClassificationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		newError(c, http.StatusBadRequest, err.Error())
		return
	}

	classification, err := h.planner.Classify(body.MonthlyIncome, body.Locality)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, classification)
}

func (b PlanRequest) toRequest() (planner.Request, error) {
	start, err := parseDay("period_start", b.PeriodStart)
	if err != nil {
		return planner.Request{}, err
	}
	end, err := parseDay("period_end", b.PeriodEnd)
	if err != nil {
		return planner.Request{}, err
	}
	var asOf time.Time
	if b.AsOf != "" {
		if asOf, err = parseDay("as_of", b.AsOf); err != nil {
			return planner.Request{}, err
		}
	}
	mode, err := engine.ParseMode(b.Mode)
	if err != nil {
		return planner.Request{}, err
	}

	req := planner.Request{
		ProfileID:        b.ProfileID,
		Start:            start,
		End:              end,
		MonthlyIncome:    b.MonthlyIncome,
		FixedCommitments: b.FixedCommitments,
		SavingsTarget:    b.SavingsTarget,
		Currency:         b.Currency,
		Locality:         b.Locality,
		AsOf:             asOf,
		Mode:             mode,
		Freeze:           b.Freeze,
		Advise:           b.Advise,
	}

	if b.Transactions != nil {
		req.Transactions = make([]models.Transaction, 0, len(b.Transactions))
		for _, t := range b.Transactions {
			date, err := parseDay("transactions.date", t.Date)
			if err != nil {
				return planner.Request{}, err
			}
			currency := t.Currency
			if currency == "" {
				currency = b.Currency
			}
			tx := models.NewTransaction(t.ID, date, t.Amount, currency, t.Category)
			tx.Description = t.Description
			req.Transactions = append(req.Transactions, tx)
		}
	}
	return req, nil
}

func parseDay(field, value string) (time.Time, error) {
	d, err := time.Parse(dateutils.DateLayoutISO, value)
	if err != nil {
		return time.Time{}, budgeterror.NewInvalidInput(field, value, "expected YYYY-MM-DD")
	}
	return d, nil
}
