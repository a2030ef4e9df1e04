package services

import (
	"errors"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/salonora/salonora/internal/formkit"
)

// Schema describes the service sidebar form.
func Schema() formkit.Schema {
	return formkit.Schema{
		Resource: "services",
		Fields: []formkit.Field{
			{Name: "name", Kind: formkit.Text, Required: true, TitleCased: true},
			{Name: "price", Kind: formkit.Number, Required: true},
			{Name: "duration", Kind: formkit.Number, Required: true},
			{Name: "category_id", Kind: formkit.Select, Required: true},
			{Name: "branch_id", Kind: formkit.MultiSelect, Required: true},
			{Name: "photo", Kind: formkit.Image},
			{Name: "status", Kind: formkit.Status},
		},
		Rules: []formkit.Rule{priceRule, durationRule},
	}
}

func priceRule(values formkit.Values) error {
	raw, _ := values["price"].(string)
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return errors.New("price must be a number")
	}
	if price.IsNegative() || price.IsZero() {
		return errors.New("price must be greater than zero")
	}
	return nil
}

func durationRule(values formkit.Values) error {
	raw, _ := values["duration"].(string)
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return errors.New("duration must be a positive number of minutes")
	}
	return nil
}

func formatInt(v int) string { return strconv.Itoa(v) }
