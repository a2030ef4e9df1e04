package branches

import "github.com/salonora/salonora/internal/formkit"

// Schema describes the branch sidebar form.
func Schema() formkit.Schema {
	return formkit.Schema{
		Resource: "branches",
		Fields: []formkit.Field{
			{Name: "name", Kind: formkit.Text, Required: true, TitleCased: true},
			{Name: "address", Kind: formkit.Text, Required: true, TitleCased: true},
			{Name: "phone", Kind: formkit.Phone, Required: true},
			{Name: "email", Kind: formkit.Email, Required: true},
			{Name: "photo", Kind: formkit.Image},
			{Name: "status", Kind: formkit.Status},
		},
	}
}
