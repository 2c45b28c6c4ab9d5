package types

import (
	"errors"
	"strings"
)

// Unit is a unit of measure for ingredient quantities.
// Mass units share the gram base, volume units the milliliter base;
// counted goods use Each. Conversion across dimensions is an error.
type Unit string

const (
	Gram       Unit = "g"
	Kilogram   Unit = "kg"
	Milliliter Unit = "ml"
	Liter      Unit = "l"
	Each       Unit = "ea"
)

// ErrIncompatibleUnits is returned when converting between units of
// different dimensions (e.g. grams to liters).
var ErrIncompatibleUnits = errors.New("types: incompatible units")

// unitScale maps each unit to its base-unit multiplier and dimension.
var unitScale = map[Unit]struct {
	factor    float64
	dimension string
}{
	Gram:       {1, "mass"},
	Kilogram:   {1000, "mass"},
	Milliliter: {1, "volume"},
	Liter:      {1000, "volume"},
	Each:       {1, "count"},
}

// ParseUnit normalizes a free-form unit string ("grams", "KG", "litre")
// to a canonical Unit. Unrecognized strings pass through unchanged so
// that site-specific units ("case", "bunch") still round-trip.
func ParseUnit(s string) Unit {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "g", "gram", "grams":
		return Gram
	case "kg", "kilo", "kilos", "kilogram", "kilograms":
		return Kilogram
	case "ml", "milliliter", "milliliters", "millilitre", "millilitres":
		return Milliliter
	case "l", "liter", "liters", "litre", "litres":
		return Liter
	case "ea", "each", "unit", "units", "pc", "pcs", "piece", "pieces":
		return Each
	default:
		return Unit(strings.ToLower(strings.TrimSpace(s)))
	}
}

// Convert converts a value between units of the same dimension.
// Identical units (including unrecognized pass-through units) convert
// as-is; mismatched dimensions return ErrIncompatibleUnits.
func Convert(value float64, from, to Unit) (float64, error) {
	if from == to {
		return value, nil
	}

	f, okFrom := unitScale[from]
	t, okTo := unitScale[to]
	if !okFrom || !okTo || f.dimension != t.dimension {
		return 0, ErrIncompatibleUnits
	}

	return value * f.factor / t.factor, nil
}
