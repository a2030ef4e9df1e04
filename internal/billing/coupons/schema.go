package coupons

import (
	"errors"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/salonora/salonora/internal/formkit"
)

// Schema describes the coupon sidebar form.
func Schema() formkit.Schema {
	return formkit.Schema{
		Resource: "coupons",
		Fields: []formkit.Field{
			{Name: "code", Kind: formkit.Text, Required: true},
			{Name: "discount_type", Kind: formkit.Select, Required: true},
			{Name: "amount", Kind: formkit.Number, Required: true},
			{Name: "start_date", Kind: formkit.Date, Required: true},
			{Name: "end_date", Kind: formkit.Date, Required: true},
			{Name: "use_limit", Kind: formkit.Number, Required: true},
			{Name: "status", Kind: formkit.Status},
		},
		Rules: []formkit.Rule{dateOrderRule, amountRule, useLimitRule},
	}
}

// dateOrderRule rejects a validity window that ends before it starts. The
// submit is blocked before any persistence is attempted.
func dateOrderRule(values formkit.Values) error {
	start, err := time.Parse(DateLayout, asString(values["start_date"]))
	if err != nil {
		return errors.New("start date must be YYYY-MM-DD")
	}
	end, err := time.Parse(DateLayout, asString(values["end_date"]))
	if err != nil {
		return errors.New("end date must be YYYY-MM-DD")
	}
	if start.After(end) {
		return errors.New("start date must not be after end date")
	}
	return nil
}

func amountRule(values formkit.Values) error {
	amount, err := decimal.NewFromString(asString(values["amount"]))
	if err != nil {
		return errors.New("amount must be a number")
	}
	if !amount.IsPositive() {
		return errors.New("amount must be greater than zero")
	}
	if asString(values["discount_type"]) == "percent" && amount.GreaterThan(decimal.NewFromInt(100)) {
		return errors.New("percent discount cannot exceed 100")
	}
	return nil
}

func useLimitRule(values formkit.Values) error {
	limit, err := strconv.Atoi(asString(values["use_limit"]))
	if err != nil || limit <= 0 {
		return errors.New("use limit must be a positive number")
	}
	return nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func formatInt(v int) string { return strconv.Itoa(v) }
