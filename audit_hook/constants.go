package audithook

// Action constants for audit events.
const (
	// Ingredient actions
	ActionIngredientCreated = "ingredient.created"
	ActionIngredientUpdated = "ingredient.updated"
	ActionStockAdjusted     = "stock.adjusted"
	ActionStockClamped      = "stock.clamped"
	ActionLowStock          = "stock.low"

	// Sale actions
	ActionSaleRecorded = "sale.recorded"
	ActionSaleDepleted = "sale.depleted"
	ActionSalesFlushed = "sale.flushed"

	// Purchase order actions
	ActionOrderGenerated = "order.generated"
	ActionOrderSubmitted = "order.submitted"
	ActionOrderReceived  = "order.received"
	ActionOrderCanceled  = "order.canceled"

	// Onboarding actions
	ActionOnboardingStarted   = "onboarding.started"
	ActionOnboardingAdvanced  = "onboarding.advanced"
	ActionOnboardingCompleted = "onboarding.completed"

	// Suggestion actions
	ActionSuggestionReady = "suggestion.ready"
)

// Resource constants for audit events.
const (
	ResourceIngredient = "ingredient"
	ResourceSale       = "sale"
	ResourceOrder      = "purchase_order"
	ResourceOnboarding = "onboarding"
	ResourceSuggestion = "suggestion"
)

// Category constants for audit events.
const (
	CategoryInventory   = "inventory"
	CategorySales       = "sales"
	CategoryProcurement = "procurement"
	CategoryOnboarding  = "onboarding"
	CategoryAdvisory    = "advisory"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
