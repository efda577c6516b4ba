package api

import (
	"errors"
	"fmt"
	"net/http"

	"fjacquet/daily-budget/internal/budgeterror"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
)

// HTTPError is the body of every error response.
type HTTPError struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
	// Shortfall is set for infeasible budgets.
	Shortfall string `json:"shortfall,omitempty"`
}

func newError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, HTTPError{Error: msg, RequestID: requestid.Get(c)})
}

// writeError maps domain errors to status codes: invalid input and mixed
// currencies are 400, infeasible budgets 422, anything else 500.
func (h *handler) writeError(c *gin.Context, err error) {
	var infeasible *budgeterror.BudgetInfeasibleError
	switch {
	case errors.As(err, &infeasible):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, HTTPError{
			Error:     err.Error(),
			RequestID: requestid.Get(c),
			Shortfall: infeasible.Shortfall.String(),
		})
	case budgeterror.IsClientError(err):
		newError(c, http.StatusBadRequest, err.Error())
	default:
		h.logger.WithError(err).Error("Request failed")
		newError(c, http.StatusInternalServerError, fmt.Sprintf("internal error (request %s)", requestid.Get(c)))
	}
}
