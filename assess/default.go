package assess

// Categories of the default pre-departure checklist.
const (
	CategoryRequired = "Required"
	CategoryBonus    = "Bonus"
)

// DefaultCatalog returns the pre-departure checklist: eight required items
// followed by three bonus items.
func DefaultCatalog() Catalog {
	req := func(id, label string) Item {
		return Item{ID: id, Label: label, Required: true, Category: CategoryRequired}
	}
	bonus := func(id, label string) Item {
		return Item{ID: id, Label: label, Category: CategoryBonus}
	}
	return Catalog{
		req("ppe", "PPE (hard hat, gloves, eye pro, safety boots, PFD)"),
		req("equipment", "Equipment (4-gas meter, rad pager)"),
		req("clothing", "Warm clothing / Foul weather gear"),
		req("sample-kit", "Sample Kit (checked)"),
		req("paperwork", "Paperwork (NOFI, forms, notebook, etc.)"),
		req("other", "Snack, water, ferry pass"),
		req("calls", "Call Duty Sup / Contact"),
		req("jurisdiction", "Confirm Jurisdiction / Consult ACP"),
		bonus("sunscreen", "Sun Screen"),
		bonus("camera", "Camera"),
		bonus("misle", "Look up MISLE History"),
	}
}
