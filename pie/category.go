package pie

import "fmt"

// CategoryID identifies one of the six fixed contribution categories.
type CategoryID string

const (
	Cash                 CategoryID = "cash"
	Time                 CategoryID = "time"
	Revenue              CategoryID = "revenue"
	Expenses             CategoryID = "expenses"
	ExpenseReceived      CategoryID = "expense_received"
	IntellectualProperty CategoryID = "intellectual_property"
)

// AllCategories lists every category in display order.
var AllCategories = []CategoryID{
	Cash,
	Time,
	Revenue,
	Expenses,
	ExpenseReceived,
	IntellectualProperty,
}

// Valid reports whether id is one of the six known categories.
func (id CategoryID) Valid() bool {
	switch id {
	case Cash, Time, Revenue, Expenses, ExpenseReceived, IntellectualProperty:
		return true
	}
	return false
}

func (id CategoryID) String() string { return string(id) }

// ParseCategoryID converts user input into a CategoryID.
func ParseCategoryID(s string) (CategoryID, error) {
	id := CategoryID(s)
	if !id.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return id, nil
}

// InputType tells the entry form how to label and interpret an amount.
type InputType string

const (
	InputCurrency InputType = "currency"
	InputHours    InputType = "hours"
)

// DefaultCommissionPercent applies to revenue entries whose snapshot has no commission.
const DefaultCommissionPercent = 10.0

// Category is the live configuration for a contribution category.
// Multiplier and CommissionPercent are copied into every new entry's
// snapshot; changing them later never alters existing entries.
type Category struct {
	ID                CategoryID `json:"id" yaml:"id"`
	Name              string     `json:"name" yaml:"name"`
	Multiplier        float64    `json:"multiplier" yaml:"multiplier"`
	InputType         InputType  `json:"inputType" yaml:"input_type"`
	IsAutoCalculated  bool       `json:"isAutoCalculated" yaml:"auto_calculated"`
	CommissionPercent *float64   `json:"commissionPercent,omitempty" yaml:"commission_percent,omitempty"`
	IsPercentageBased bool       `json:"isPercentageBased,omitempty" yaml:"percentage_based,omitempty"`
	AdminOnly         bool       `json:"adminOnly,omitempty" yaml:"admin_only,omitempty"`
	Color             string     `json:"color,omitempty" yaml:"color,omitempty"`
	Emoji             string     `json:"emoji,omitempty" yaml:"emoji,omitempty"`
}

// DefaultCategories returns a fresh copy of the standard category set.
func DefaultCategories() []Category {
	commission := DefaultCommissionPercent
	return []Category{
		{ID: Cash, Name: "Cash", Multiplier: 4, InputType: InputCurrency, Color: "#16a34a", Emoji: "💰"},
		{ID: Time, Name: "Time", Multiplier: 2, InputType: InputHours, Color: "#2563eb", Emoji: "⏱️"},
		{ID: Revenue, Name: "Revenue", Multiplier: 2, InputType: InputCurrency, CommissionPercent: &commission, Color: "#9333ea", Emoji: "📈"},
		{ID: Expenses, Name: "Expenses", Multiplier: 2, InputType: InputCurrency, Color: "#ea580c", Emoji: "🧾"},
		{ID: ExpenseReceived, Name: "Expense Received", Multiplier: 2, InputType: InputCurrency, AdminOnly: true, Color: "#dc2626", Emoji: "↩️"},
		{ID: IntellectualProperty, Name: "Intellectual Property", Multiplier: 1, InputType: InputCurrency, IsAutoCalculated: true, IsPercentageBased: true, AdminOnly: true, Color: "#0891b2", Emoji: "💡"},
	}
}

// FindCategory returns the category with the given id.
func FindCategory(categories []Category, id CategoryID) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// InputCategories drops auto-calculated categories; these are the
// categories offered on the manual entry form.
func InputCategories(categories []Category) []Category {
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		if !c.IsAutoCalculated {
			out = append(out, c)
		}
	}
	return out
}

// VisibleCategories drops admin-only categories unless isAdmin is set.
func VisibleCategories(categories []Category, isAdmin bool) []Category {
	if isAdmin {
		return append([]Category(nil), categories...)
	}
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		if !c.AdminOnly {
			out = append(out, c)
		}
	}
	return out
}
