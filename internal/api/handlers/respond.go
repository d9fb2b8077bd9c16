// Package handlers implements the HTTP endpoints of the API. Each entity has
// its own handler type holding the stores and services it needs plus a
// logger; every failure is converted into the JSON error taxonomy here and
// nothing propagates unhandled.
package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/expensewise/expensewise/internal/api/middleware"
	"github.com/expensewise/expensewise/internal/domain"
	"github.com/expensewise/expensewise/internal/store"
)

// validationErrs are the domain errors that map to a 400 response with the
// message passed through to the caller.
var validationErrs = []error{
	domain.ErrInvalidType,
	domain.ErrInvalidAmount,
	domain.ErrInvalidDate,
	domain.ErrMissingWallet,
	domain.ErrMissingName,
	domain.ErrMissingCurrency,
	domain.ErrInvalidCategoryKind,
	domain.ErrMissingCategory,
	domain.ErrInvalidBudget,
	domain.ErrInvalidMonth,
}

func isValidationError(err error) bool {
	for _, v := range validationErrs {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

// writeFailure maps an operation error onto the response taxonomy:
// not-found (which covers ownership mismatches) to 404, validation to 400,
// everything else to a generic 500 with the detail logged server-side only.
func writeFailure(w http.ResponseWriter, log zerolog.Logger, err error, op string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		middleware.WriteError(w, http.StatusNotFound, "Not found")
	case isValidationError(err):
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Str("op", op).Msg("Request failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
