package managers

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/salonora/salonora/internal/formkit"
)

// Schema describes the manager sidebar form. Password is required on create
// and checked live; in edit mode a blank password means keep the current
// one, enforced by the editor itself.
func Schema() formkit.Schema {
	return formkit.Schema{
		Resource: "managers",
		Fields: []formkit.Field{
			{Name: "name", Kind: formkit.Text, Required: true, TitleCased: true},
			{Name: "email", Kind: formkit.Email, Required: true},
			{Name: "phone", Kind: formkit.Phone, Required: true},
			{Name: "branch_id", Kind: formkit.Select, Required: true},
			{Name: "commission", Kind: formkit.Number, Required: true},
			{Name: "password", Kind: formkit.Password, Required: true},
			{Name: "confirm_password", Kind: formkit.Password, Required: true, Confirms: "password"},
			{Name: "status", Kind: formkit.Status},
		},
		Rules: []formkit.Rule{commissionRule},
	}
}

func commissionRule(values formkit.Values) error {
	raw, _ := values["commission"].(string)
	pct, err := decimal.NewFromString(raw)
	if err != nil {
		return errors.New("commission must be a number")
	}
	if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
		return errors.New("commission must be between 0 and 100")
	}
	return nil
}
