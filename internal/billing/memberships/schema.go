package memberships

import (
	"errors"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/salonora/salonora/internal/formkit"
)

// Schema describes the membership sidebar form.
func Schema() formkit.Schema {
	return formkit.Schema{
		Resource: "memberships",
		Fields: []formkit.Field{
			{Name: "name", Kind: formkit.Text, Required: true, TitleCased: true},
			{Name: "discount", Kind: formkit.Number, Required: true},
			{Name: "discount_type", Kind: formkit.Select, Required: true},
			{Name: "duration", Kind: formkit.Number, Required: true},
			{Name: "status", Kind: formkit.Status},
		},
		Rules: []formkit.Rule{discountRule, durationRule},
	}
}

func discountRule(values formkit.Values) error {
	raw, _ := values["discount"].(string)
	discount, err := decimal.NewFromString(raw)
	if err != nil {
		return errors.New("discount must be a number")
	}
	if !discount.IsPositive() {
		return errors.New("discount must be greater than zero")
	}
	kind, _ := values["discount_type"].(string)
	if kind == "percent" && discount.GreaterThan(decimal.NewFromInt(100)) {
		return errors.New("percent discount cannot exceed 100")
	}
	return nil
}

func durationRule(values formkit.Values) error {
	raw, _ := values["duration"].(string)
	months, err := strconv.Atoi(raw)
	if err != nil || months <= 0 {
		return errors.New("duration must be a positive number of months")
	}
	return nil
}

func formatInt(v int) string { return strconv.Itoa(v) }
