package models

// ============================================================================
// CLOSED ENUMERATIONS
// Currency, ExpenseCategory and PaymentMethod are fixed sets. Adding a value
// means touching this file and every switch that the compiler then flags.
// ============================================================================

type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyILS Currency = "ILS"
	CurrencyUSD Currency = "USD"
)

var Currencies = []Currency{CurrencyEUR, CurrencyILS, CurrencyUSD}

func (c Currency) Valid() bool {
	switch c {
	case CurrencyEUR, CurrencyILS, CurrencyUSD:
		return true
	}
	return false
}

// CurrencySymbols maps a currency to its display symbol. The API itself never
// formats amounts; clients pick the symbol up from here.
var CurrencySymbols = map[Currency]string{
	CurrencyEUR: "€",
	CurrencyILS: "₪",
	CurrencyUSD: "$",
}

type ExpenseCategory string

const (
	CategoryFlight        ExpenseCategory = "flight"
	CategoryAccommodation ExpenseCategory = "accommodation"
	CategoryFood          ExpenseCategory = "food"
	CategoryTransport     ExpenseCategory = "transport"
	CategoryInsurance     ExpenseCategory = "insurance"
	CategoryActivity      ExpenseCategory = "activity"
	CategoryMisc          ExpenseCategory = "misc"
)

// ExpenseCategories lists every category in stable order. Aggregations iterate
// this slice so their output ordering is deterministic.
var ExpenseCategories = []ExpenseCategory{
	CategoryFlight,
	CategoryAccommodation,
	CategoryFood,
	CategoryTransport,
	CategoryInsurance,
	CategoryActivity,
	CategoryMisc,
}

func (c ExpenseCategory) Valid() bool {
	switch c {
	case CategoryFlight, CategoryAccommodation, CategoryFood, CategoryTransport,
		CategoryInsurance, CategoryActivity, CategoryMisc:
		return true
	}
	return false
}

var CategoryLabels = map[ExpenseCategory]string{
	CategoryFlight:        "Flight",
	CategoryAccommodation: "Accommodation",
	CategoryFood:          "Food & Dining",
	CategoryTransport:     "Transportation",
	CategoryInsurance:     "Insurance",
	CategoryActivity:      "Activities",
	CategoryMisc:          "Miscellaneous",
}

var CategoryColors = map[ExpenseCategory]string{
	CategoryFlight:        "#FF6B6B",
	CategoryAccommodation: "#4ECDC4",
	CategoryFood:          "#45B7D1",
	CategoryTransport:     "#96CEB4",
	CategoryInsurance:     "#FFEAA7",
	CategoryActivity:      "#DDA0DD",
	CategoryMisc:          "#98D8C8",
}

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCredit PaymentMethod = "credit"
)

func (p PaymentMethod) Valid() bool {
	return p == PaymentCash || p == PaymentCredit
}
