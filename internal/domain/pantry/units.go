package pantry

import "strings"

// Unit is the measurement unit recorded against an inventory item. Units are
// informal labels; only grams and kilograms are converted between.
type Unit string

const (
	UnitGram       Unit = "g"
	UnitKilogram   Unit = "kg"
	UnitMilliliter Unit = "ml"
	UnitLiter      Unit = "l"
	UnitPieces     Unit = "pcs"
)

// Units lists the units offered when adding an item.
var Units = []Unit{UnitGram, UnitKilogram, UnitMilliliter, UnitLiter, UnitPieces}

// ParseUnit normalizes a unit label. Unknown labels are kept as written.
func ParseUnit(s string) Unit {
	return Unit(strings.ToLower(strings.TrimSpace(s)))
}

// IsKnown reports whether u is one of Units.
func (u Unit) IsKnown() bool {
	for _, known := range Units {
		if u == known {
			return true
		}
	}
	return false
}

func (u Unit) String() string {
	return string(u)
}

// ConvertAmount expresses amount, measured in from, in the unit to.
// Only g and kg convert (1000:1); every other pair passes through unchanged.
func ConvertAmount(amount float64, from, to Unit) float64 {
	switch {
	case from == UnitGram && to == UnitKilogram:
		return amount / 1000
	case from == UnitKilogram && to == UnitGram:
		return amount * 1000
	default:
		return amount
	}
}
