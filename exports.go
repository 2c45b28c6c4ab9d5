package larder

import "github.com/xraph/larder/types"

// Re-export common types for convenience so users don't have to import types package.

// Money is re-exported from types package.
type Money = types.Money

// Entity is re-exported from types package.
type Entity = types.Entity

// Unit is re-exported from types package.
type Unit = types.Unit

// Re-export Money constructors
var (
	USD  = types.USD
	EUR  = types.EUR
	GBP  = types.GBP
	CAD  = types.CAD
	AUD  = types.AUD
	Zero = types.Zero
	Sum  = types.Sum
)

// Re-export measurement units
const (
	Gram       = types.Gram
	Kilogram   = types.Kilogram
	Milliliter = types.Milliliter
	Liter      = types.Liter
	Each       = types.Each
)

// Re-export Entity constructor
var NewEntity = types.NewEntity
