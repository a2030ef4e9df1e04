package categories

import "github.com/salonora/salonora/internal/formkit"

// CategorySchema describes the category sidebar form.
func CategorySchema() formkit.Schema {
	return formkit.Schema{
		Resource: "categories",
		Fields: []formkit.Field{
			{Name: "name", Kind: formkit.Text, Required: true, TitleCased: true},
			{Name: "branch_id", Kind: formkit.Select, Required: true},
			{Name: "photo", Kind: formkit.Image},
			{Name: "status", Kind: formkit.Status},
		},
	}
}

// SubCategorySchema describes the subcategory sidebar form. The parent
// category select is required; everything else mirrors the category form.
func SubCategorySchema() formkit.Schema {
	return formkit.Schema{
		Resource: "subcategories",
		Fields: []formkit.Field{
			{Name: "name", Kind: formkit.Text, Required: true, TitleCased: true},
			{Name: "category_id", Kind: formkit.Select, Required: true},
			{Name: "status", Kind: formkit.Status},
		},
	}
}
