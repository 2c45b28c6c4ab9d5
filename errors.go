package larder

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound      = errors.New("larder: not found")
	ErrAlreadyExists = errors.New("larder: already exists")
	ErrInvalidInput  = errors.New("larder: invalid input")

	// Ingredient errors
	ErrIngredientNotFound = errors.New("larder: ingredient not found")
	ErrIngredientInUse    = errors.New("larder: ingredient is used by recipes")
	ErrUnitMismatch       = errors.New("larder: incompatible measurement units")
	ErrNegativeStock      = errors.New("larder: stock cannot be negative")

	// Recipe errors
	ErrRecipeNotFound  = errors.New("larder: recipe not found")
	ErrEmptyRecipe     = errors.New("larder: recipe has no ingredient lines")
	ErrDuplicateLine   = errors.New("larder: duplicate ingredient line")
	ErrInvalidQuantity = errors.New("larder: invalid quantity")

	// Sale errors
	ErrSaleBufferFull = errors.New("larder: sale buffer full")
	ErrDuplicateSale  = errors.New("larder: duplicate sale event")
	ErrEmptySale      = errors.New("larder: sale event has no items")

	// Purchase order errors
	ErrOrderNotFound     = errors.New("larder: purchase order not found")
	ErrOrderNotDraft     = errors.New("larder: purchase order is not a draft")
	ErrOrderNotSubmitted = errors.New("larder: purchase order is not submitted")
	ErrOrderClosed       = errors.New("larder: purchase order already received or canceled")
	ErrNothingToOrder    = errors.New("larder: no ingredients below reorder point")

	// Supplier errors
	ErrSupplierNotFound = errors.New("larder: supplier not found")
	ErrSupplierInUse    = errors.New("larder: supplier has open purchase orders")

	// Onboarding errors
	ErrOnboardingNotFound  = errors.New("larder: onboarding not found")
	ErrOnboardingComplete  = errors.New("larder: onboarding already complete")
	ErrStepOutOfOrder      = errors.New("larder: onboarding step out of order")
	ErrOnboardingNotActive = errors.New("larder: onboarding not started")

	// Suggestion errors
	ErrNoCompleter       = errors.New("larder: no suggestion completer configured")
	ErrCompletionFailed  = errors.New("larder: suggestion completion failed")
	ErrMalformedResponse = errors.New("larder: malformed suggestion response")

	// Store errors
	ErrStoreNotReady   = errors.New("larder: store not ready")
	ErrStoreClosed     = errors.New("larder: store is closed")
	ErrMigrationFailed = errors.New("larder: migration failed")

	// Cache errors
	ErrCacheMiss       = errors.New("larder: cache miss")
	ErrCacheInvalidate = errors.New("larder: cache invalidation failed")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("larder: validation failed for %s: %s", e.Field, e.Message)
}

// MultiError represents multiple errors that occurred.
type MultiError struct {
	Errors []error
}

func (e MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "larder: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("larder: %d errors occurred", len(e.Errors))
}

// Add adds an error to the multi-error.
func (e *MultiError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors returns true if there are any errors.
func (e MultiError) HasErrors() bool {
	return len(e.Errors) > 0
}

// First returns the first error or nil.
func (e MultiError) First() error {
	if len(e.Errors) > 0 {
		return e.Errors[0]
	}
	return nil
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrIngredientNotFound) ||
		errors.Is(err, ErrRecipeNotFound) ||
		errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrSupplierNotFound) ||
		errors.Is(err, ErrOnboardingNotFound)
}

// IsStockError returns true if the error is related to stock bookkeeping.
func IsStockError(err error) bool {
	return errors.Is(err, ErrUnitMismatch) ||
		errors.Is(err, ErrNegativeStock) ||
		errors.Is(err, ErrInvalidQuantity)
}

// IsRetryable returns true if the error is temporary and the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrSaleBufferFull) ||
		errors.Is(err, ErrStoreNotReady) ||
		errors.Is(err, ErrCompletionFailed) ||
		errors.Is(err, ErrCacheInvalidate)
}
