// Package stocks recovers stock transaction records from the plain-text
// layout of vesting, ESPP and brokerage statements.
//
// The parser is heuristic: a line either matches the shape of the active
// section or it is skipped. A malformed line never aborts a scan.
package stocks

// Field names used as Record keys.
const (
	FieldVestDate        = "Vest Date"
	FieldShares          = "Shares"
	FieldOffPeriod       = "Off Period"
	FieldPurchasedShares = "Purchased Shares"
	FieldDateSold        = "Date sold or transferred"
	FieldQuantity        = "Quantity"
)

// Record is one extracted data row. Values are kept as the raw strings
// found in the statement; numeric and date parsing happen later.
type Record map[string]string

// Get returns the value of field, or "" if absent.
func (r Record) Get(field string) string {
	return r[field]
}

// Section names a region of a statement.
type Section int

const (
	SectionNone Section = iota
	SectionVested
	SectionESPP
	SectionSales
)

func (s Section) String() string {
	switch s {
	case SectionVested:
		return "vested"
	case SectionESPP:
		return "espp"
	case SectionSales:
		return "sales"
	}
	return "none"
}

// KeyField returns the field a section's records are grouped by.
func (s Section) KeyField() string {
	switch s {
	case SectionVested:
		return FieldVestDate
	case SectionESPP:
		return FieldOffPeriod
	case SectionSales:
		return FieldDateSold
	}
	return ""
}

// QuantityField returns the field holding a section's share quantity.
func (s Section) QuantityField() string {
	switch s {
	case SectionVested:
		return FieldShares
	case SectionESPP:
		return FieldPurchasedShares
	case SectionSales:
		return FieldQuantity
	}
	return ""
}
