package entity

// Category classifies what is being procured
type Category string

const (
	CategoryOfficeSupplies          Category = "Office Supplies"
	CategoryOtherSupplies           Category = "Other Supplies"
	CategoryRepairICT               Category = "Repair & Maintenance - ICT"
	CategoryRepairMotorVehicle      Category = "Repair & Maintenance - Motor Vehicle"
	CategoryRepairOfficeEquipment   Category = "Repair & Maintenance - Office Equipment"
	CategoryContinuingAppropriation Category = "Continuing Appropriation"
	CategoryCapitalOutlay           Category = "Capital Outlay"
	CategoryRepresentation          Category = "Representation Expenses"
	CategoryTraining                Category = "Training Expenses"
	CategoryMealsAndSnacks          Category = "Meals and Snacks"
)

var categories = []Category{
	CategoryOfficeSupplies,
	CategoryOtherSupplies,
	CategoryRepairICT,
	CategoryRepairMotorVehicle,
	CategoryRepairOfficeEquipment,
	CategoryContinuingAppropriation,
	CategoryCapitalOutlay,
	CategoryRepresentation,
	CategoryTraining,
	CategoryMealsAndSnacks,
}

// Categories returns the fixed category list in display order
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// DefaultCategory is used when a category is missing or unrecognized
func DefaultCategory() Category {
	return categories[0]
}

// IsValid returns true for one of the ten known categories
func (c Category) IsValid() bool {
	for _, v := range categories {
		if v == c {
			return true
		}
	}
	return false
}

// ITEligible reports whether the category goes through IT review
func (c Category) ITEligible() bool {
	return c == CategoryRepairICT || c == CategoryCapitalOutlay
}

// HasEventDetails reports whether event date, venue, servings and meal
// schedule apply to the category
func (c Category) HasEventDetails() bool {
	return c == CategoryMealsAndSnacks
}
