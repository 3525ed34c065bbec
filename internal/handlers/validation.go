package handlers

import (
	"net/http"
	"strconv"

	"mypts/internal/points"
	"mypts/internal/validator"

	"github.com/shopspring/decimal"
)

func validateRegistration(req registerRequest) error {
	if err := validator.ValidateUsername(req.Username); err != nil {
		return err
	}
	if err := validator.ValidateEmail(req.Email); err != nil {
		return err
	}
	return validator.ValidatePassword(req.Password)
}

func parseAmount(raw int64) (int64, error) {
	return points.ParseAmount(raw)
}

func parseValuePerUnit(raw string) (decimal.Decimal, error) {
	return points.ParseValuePerUnit(raw)
}

func parsePagination(r *http.Request) (int, int) {
	limit := 20
	offset := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}
