package domain

// ExpenseAnalysis is the structured result of analyzing a free-form
// expense message: the amount, a category from the known list, and a
// short confirmation message for the user.
type ExpenseAnalysis struct {
	Amount   float64
	Category string
	Message  string
}

// Expense categories the analyzer may assign.
const (
	CategoryFood          = "Food"
	CategoryGroceries     = "Groceries"
	CategoryTransport     = "Transport"
	CategoryVehicle       = "Vehicle"
	CategoryBills         = "Bills"
	CategoryHealth        = "Health"
	CategoryFashion       = "Fashion"
	CategoryElectronics   = "Electronics"
	CategoryPersonalCare  = "Personal Care"
	CategoryEducation     = "Education"
	CategoryEntertainment = "Entertainment"
	CategoryShopping      = "Shopping"
	CategoryHome          = "Home"
	CategoryMiscellaneous = "Miscellaneous"
)

// QueryRange describes which slice of expense history a query asks for.
type QueryRange struct {
	Days        int    // look-back window
	Description string // human-readable description ("last week", "today")
	Limit       int    // max records to show; 0 = all
}

// DeletionRange describes which expenses a deletion request targets.
// Exactly one of Count or Days is usually set; both nil means delete all.
type DeletionRange struct {
	Days        *int
	Count       *int
	Position    string // "first" (oldest) or "last" (most recent) when Count is set
	Description string
}
