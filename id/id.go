// Package id defines TypeID-based identity types for all Larder entities.
//
// Every entity in Larder uses a single ID struct with a prefix that identifies
// the entity type. IDs are K-sortable (UUIDv7-based), globally unique,
// and URL-safe in the format "prefix_suffix".
package id

import (
	"database/sql/driver"
	"fmt"

	"go.jetify.com/typeid/v2"
)

// Prefix identifies the entity type encoded in a TypeID.
type Prefix string

// Prefix constants for all Larder entity types.
const (
	PrefixIngredient    Prefix = "ing"  // Inventory ingredient
	PrefixRecipe        Prefix = "rcp"  // Menu recipe
	PrefixSaleEvent     Prefix = "sale" // POS sale event
	PrefixJournalEntry  Prefix = "jrn"  // Stock journal entry
	PrefixPurchaseOrder Prefix = "po"   // Purchase order
	PrefixOrderLine     Prefix = "pol"  // Purchase order line
	PrefixSupplier      Prefix = "sup"  // Supplier
	PrefixOnboarding    Prefix = "onb"  // Onboarding progress
	PrefixSuggestion    Prefix = "sugg" // AI suggestion
)

// ID is the primary identifier type for all Larder entities.
// It wraps a TypeID providing a prefix-qualified, globally unique,
// sortable, URL-safe identifier in the format "prefix_suffix".
//
//nolint:recvcheck // Value receivers for read-only methods, pointer receivers for UnmarshalText/Scan.
type ID struct {
	inner typeid.TypeID
	valid bool
}

// Nil is the zero-value ID.
var Nil ID

// New generates a new globally unique ID with the given prefix.
// It panics if prefix is not a valid TypeID prefix (programming error).
func New(prefix Prefix) ID {
	tid, err := typeid.Generate(string(prefix))
	if err != nil {
		panic(fmt.Sprintf("id: invalid prefix %q: %v", prefix, err))
	}

	return ID{inner: tid, valid: true}
}

// Parse parses a TypeID string (e.g., "ing_01h2xcejqtf2nbrexx3vqjhp41")
// into an ID. Returns an error if the string is not valid.
func Parse(s string) (ID, error) {
	if s == "" {
		return Nil, fmt.Errorf("id: parse %q: empty string", s)
	}

	tid, err := typeid.Parse(s)
	if err != nil {
		return Nil, fmt.Errorf("id: parse %q: %w", s, err)
	}

	return ID{inner: tid, valid: true}, nil
}

// ParseWithPrefix parses a TypeID string and validates that its prefix
// matches the expected value.
func ParseWithPrefix(s string, expected Prefix) (ID, error) {
	parsed, err := Parse(s)
	if err != nil {
		return Nil, err
	}

	if parsed.Prefix() != expected {
		return Nil, fmt.Errorf("id: expected prefix %q, got %q", expected, parsed.Prefix())
	}

	return parsed, nil
}

// MustParse is like Parse but panics on error. Use for hardcoded ID values.
func MustParse(s string) ID {
	parsed, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("id: must parse %q: %v", s, err))
	}

	return parsed
}

// MustParseWithPrefix is like ParseWithPrefix but panics on error.
func MustParseWithPrefix(s string, expected Prefix) ID {
	parsed, err := ParseWithPrefix(s, expected)
	if err != nil {
		panic(fmt.Sprintf("id: must parse with prefix %q: %v", expected, err))
	}

	return parsed
}

// ──────────────────────────────────────────────────
// Type aliases per entity
// ──────────────────────────────────────────────────

// IngredientID is a type-safe identifier for ingredients (prefix: "ing").
type IngredientID = ID

// RecipeID is a type-safe identifier for recipes (prefix: "rcp").
type RecipeID = ID

// SaleEventID is a type-safe identifier for sale events (prefix: "sale").
type SaleEventID = ID

// JournalEntryID is a type-safe identifier for journal entries (prefix: "jrn").
type JournalEntryID = ID

// PurchaseOrderID is a type-safe identifier for purchase orders (prefix: "po").
type PurchaseOrderID = ID

// OrderLineID is a type-safe identifier for purchase order lines (prefix: "pol").
type OrderLineID = ID

// SupplierID is a type-safe identifier for suppliers (prefix: "sup").
type SupplierID = ID

// OnboardingID is a type-safe identifier for onboarding progress rows (prefix: "onb").
type OnboardingID = ID

// SuggestionID is a type-safe identifier for AI suggestions (prefix: "sugg").
type SuggestionID = ID

// AnyID is a type alias that accepts any valid prefix.
type AnyID = ID

// ──────────────────────────────────────────────────
// Convenience constructors
// ──────────────────────────────────────────────────

// NewIngredientID generates a new unique ingredient ID.
func NewIngredientID() ID { return New(PrefixIngredient) }

// NewRecipeID generates a new unique recipe ID.
func NewRecipeID() ID { return New(PrefixRecipe) }

// NewSaleEventID generates a new unique sale event ID.
func NewSaleEventID() ID { return New(PrefixSaleEvent) }

// NewJournalEntryID generates a new unique journal entry ID.
func NewJournalEntryID() ID { return New(PrefixJournalEntry) }

// NewPurchaseOrderID generates a new unique purchase order ID.
func NewPurchaseOrderID() ID { return New(PrefixPurchaseOrder) }

// NewOrderLineID generates a new unique purchase order line ID.
func NewOrderLineID() ID { return New(PrefixOrderLine) }

// NewSupplierID generates a new unique supplier ID.
func NewSupplierID() ID { return New(PrefixSupplier) }

// NewOnboardingID generates a new unique onboarding progress ID.
func NewOnboardingID() ID { return New(PrefixOnboarding) }

// NewSuggestionID generates a new unique suggestion ID.
func NewSuggestionID() ID { return New(PrefixSuggestion) }

// ──────────────────────────────────────────────────
// Convenience parsers
// ──────────────────────────────────────────────────

// ParseIngredientID parses a string and validates the "ing" prefix.
func ParseIngredientID(s string) (ID, error) { return ParseWithPrefix(s, PrefixIngredient) }

// ParseRecipeID parses a string and validates the "rcp" prefix.
func ParseRecipeID(s string) (ID, error) { return ParseWithPrefix(s, PrefixRecipe) }

// ParseSaleEventID parses a string and validates the "sale" prefix.
func ParseSaleEventID(s string) (ID, error) { return ParseWithPrefix(s, PrefixSaleEvent) }

// ParseJournalEntryID parses a string and validates the "jrn" prefix.
func ParseJournalEntryID(s string) (ID, error) { return ParseWithPrefix(s, PrefixJournalEntry) }

// ParsePurchaseOrderID parses a string and validates the "po" prefix.
func ParsePurchaseOrderID(s string) (ID, error) { return ParseWithPrefix(s, PrefixPurchaseOrder) }

// ParseOrderLineID parses a string and validates the "pol" prefix.
func ParseOrderLineID(s string) (ID, error) { return ParseWithPrefix(s, PrefixOrderLine) }

// ParseSupplierID parses a string and validates the "sup" prefix.
func ParseSupplierID(s string) (ID, error) { return ParseWithPrefix(s, PrefixSupplier) }

// ParseOnboardingID parses a string and validates the "onb" prefix.
func ParseOnboardingID(s string) (ID, error) { return ParseWithPrefix(s, PrefixOnboarding) }

// ParseSuggestionID parses a string and validates the "sugg" prefix.
func ParseSuggestionID(s string) (ID, error) { return ParseWithPrefix(s, PrefixSuggestion) }

// ParseAny parses a string into an ID without type checking the prefix.
func ParseAny(s string) (ID, error) { return Parse(s) }

// ──────────────────────────────────────────────────
// ID methods
// ──────────────────────────────────────────────────

// String returns the full TypeID string representation (prefix_suffix).
// Returns an empty string for the Nil ID.
func (i ID) String() string {
	if !i.valid {
		return ""
	}

	return i.inner.String()
}

// Prefix returns the prefix component of this ID.
func (i ID) Prefix() Prefix {
	if !i.valid {
		return ""
	}

	return Prefix(i.inner.Prefix())
}

// IsNil reports whether this ID is the zero value.
func (i ID) IsNil() bool {
	return !i.valid
}

// MarshalText implements encoding.TextMarshaler.
func (i ID) MarshalText() ([]byte, error) {
	if !i.valid {
		return []byte{}, nil
	}

	return []byte(i.inner.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *ID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*i = Nil

		return nil
	}

	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}

	*i = parsed

	return nil
}

// Value implements driver.Valuer for database storage.
// Returns nil for the Nil ID so that optional foreign key columns store NULL.
func (i ID) Value() (driver.Value, error) {
	if !i.valid {
		return nil, nil //nolint:nilnil // nil is the canonical NULL for driver.Valuer
	}

	return i.inner.String(), nil
}

// Scan implements sql.Scanner for database retrieval.
func (i *ID) Scan(src any) error {
	if src == nil {
		*i = Nil

		return nil
	}

	switch v := src.(type) {
	case string:
		if v == "" {
			*i = Nil

			return nil
		}

		return i.UnmarshalText([]byte(v))
	case []byte:
		if len(v) == 0 {
			*i = Nil

			return nil
		}

		return i.UnmarshalText(v)
	default:
		return fmt.Errorf("id: cannot scan %T into ID", src)
	}
}
