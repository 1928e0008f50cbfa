package domain

// Category identifies an income or expense classification.
// The set of valid values depends on the transaction type.
type Category string

const (
	CategorySalary      Category = "salary"
	CategoryInvestments Category = "investments"
	CategoryBusiness    Category = "business"
	CategoryFreelance   Category = "freelance"
	CategoryRental      Category = "rental"

	CategoryRent          Category = "rent"
	CategoryUtilities     Category = "utilities"
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryHealthcare    Category = "healthcare"
	CategoryEducation     Category = "education"
	CategoryEntertainment Category = "entertainment"
	CategoryShopping      Category = "shopping"
	CategorySavings       Category = "savings"

	// CategoryOther exists in both the income and the expense set
	CategoryOther Category = "other"
)

// CategoryDescriptor holds the display data for a category
type CategoryDescriptor struct {
	Value Category `json:"value"`
	Label string   `json:"label"`
	Icon  string   `json:"icon"`
}

var incomeCategories = []CategoryDescriptor{
	{Value: CategorySalary, Label: "Salary", Icon: "💼"},
	{Value: CategoryInvestments, Label: "Investments", Icon: "📈"},
	{Value: CategoryBusiness, Label: "Business", Icon: "🏪"},
	{Value: CategoryFreelance, Label: "Freelance", Icon: "💻"},
	{Value: CategoryRental, Label: "Rental Income", Icon: "🏠"},
	{Value: CategoryOther, Label: "Other", Icon: "💰"},
}

var expenseCategories = []CategoryDescriptor{
	{Value: CategoryRent, Label: "Rent/Mortgage", Icon: "🏠"},
	{Value: CategoryUtilities, Label: "Utilities", Icon: "💡"},
	{Value: CategoryFood, Label: "Food & Groceries", Icon: "🛒"},
	{Value: CategoryTransport, Label: "Transport", Icon: "🚗"},
	{Value: CategoryHealthcare, Label: "Healthcare", Icon: "🏥"},
	{Value: CategoryEducation, Label: "Education", Icon: "📚"},
	{Value: CategoryEntertainment, Label: "Entertainment", Icon: "🎬"},
	{Value: CategoryShopping, Label: "Shopping", Icon: "🛍️"},
	{Value: CategorySavings, Label: "Savings/SACCO", Icon: "🏦"},
	{Value: CategoryOther, Label: "Other", Icon: "📝"},
}

// CategoriesFor returns the categories for a transaction type in display order.
// The returned slice is a copy and may be modified by the caller.
func CategoriesFor(txType TransactionType) []CategoryDescriptor {
	var src []CategoryDescriptor
	switch txType {
	case TransactionTypeIncome:
		src = incomeCategories
	case TransactionTypeExpense:
		src = expenseCategories
	default:
		return nil
	}
	out := make([]CategoryDescriptor, len(src))
	copy(out, src)
	return out
}

// LookupCategory returns the descriptor of a category within a transaction type
func LookupCategory(txType TransactionType, category Category) (CategoryDescriptor, bool) {
	var src []CategoryDescriptor
	switch txType {
	case TransactionTypeIncome:
		src = incomeCategories
	case TransactionTypeExpense:
		src = expenseCategories
	}
	for _, d := range src {
		if d.Value == category {
			return d, true
		}
	}
	return CategoryDescriptor{}, false
}

// IsValidCategory reports whether category belongs to the set for txType
func IsValidCategory(txType TransactionType, category Category) bool {
	_, ok := LookupCategory(txType, category)
	return ok
}

// ExpenseDescriptor returns the display data for an expense category.
// Unknown values fall back to the raw value as label.
func ExpenseDescriptor(category Category) CategoryDescriptor {
	if d, ok := LookupCategory(TransactionTypeExpense, category); ok {
		return d
	}
	return CategoryDescriptor{Value: category, Label: string(category)}
}
