package mongo

import (
	"time"

	"github.com/xraph/larder/alert"
	"github.com/xraph/larder/id"
	"github.com/xraph/larder/ingredient"
	"github.com/xraph/larder/journal"
	"github.com/xraph/larder/onboarding"
	"github.com/xraph/larder/purchaseorder"
	"github.com/xraph/larder/recipe"
	"github.com/xraph/larder/sale"
	"github.com/xraph/larder/supplier"
	"github.com/xraph/larder/types"
)

// ==================== Ingredient models ====================

type ingredientModel struct {
	ID               string            `bson:"_id"`
	Name             string            `bson:"name"`
	Category         string            `bson:"category"`
	Unit             string            `bson:"unit"`
	Stock            float64           `bson:"stock"`
	ReorderPoint     float64           `bson:"reorder_point"`
	ParLevel         float64           `bson:"par_level"`
	UnitCostCents    int64             `bson:"unit_cost_cents"`
	UnitCostCurrency string            `bson:"unit_cost_currency"`
	SupplierID       string            `bson:"supplier_id,omitempty"`
	LocationID       string            `bson:"location_id"`
	Metadata         map[string]string `bson:"metadata,omitempty"`
	CreatedAt        time.Time         `bson:"created_at"`
	UpdatedAt        time.Time         `bson:"updated_at"`
}

func toIngredientModel(ing *ingredient.Ingredient) *ingredientModel {
	var supplierID string
	if !ing.SupplierID.IsNil() {
		supplierID = ing.SupplierID.String()
	}

	return &ingredientModel{
		ID:               ing.ID.String(),
		Name:             ing.Name,
		Category:         string(ing.Category),
		Unit:             string(ing.Unit),
		Stock:            ing.Stock,
		ReorderPoint:     ing.ReorderPoint,
		ParLevel:         ing.ParLevel,
		UnitCostCents:    ing.UnitCost.Amount,
		UnitCostCurrency: ing.UnitCost.Currency,
		SupplierID:       supplierID,
		LocationID:       ing.LocationID,
		Metadata:         ing.Metadata,
		CreatedAt:        ing.CreatedAt,
		UpdatedAt:        ing.UpdatedAt,
	}
}

func fromIngredientModel(m *ingredientModel) (*ingredient.Ingredient, error) {
	ingredientID, err := id.ParseIngredientID(m.ID)
	if err != nil {
		return nil, err
	}

	var supplierID id.SupplierID
	if m.SupplierID != "" {
		supplierID, err = id.ParseSupplierID(m.SupplierID)
		if err != nil {
			return nil, err
		}
	}

	return &ingredient.Ingredient{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:           ingredientID,
		Name:         m.Name,
		Category:     ingredient.Category(m.Category),
		Unit:         types.Unit(m.Unit),
		Stock:        m.Stock,
		ReorderPoint: m.ReorderPoint,
		ParLevel:     m.ParLevel,
		UnitCost:     types.Money{Amount: m.UnitCostCents, Currency: m.UnitCostCurrency},
		SupplierID:   supplierID,
		LocationID:   m.LocationID,
		Metadata:     m.Metadata,
	}, nil
}

// ==================== Recipe models ====================

type recipeModel struct {
	ID                string            `bson:"_id"`
	Name              string            `bson:"name"`
	Category          string            `bson:"category"`
	Status            string            `bson:"status"`
	YieldQty          float64           `bson:"yield_qty"`
	YieldUnit         string            `bson:"yield_unit"`
	Lines             []recipeLineModel `bson:"lines"`
	MenuPriceCents    int64             `bson:"menu_price_cents"`
	MenuPriceCurrency string            `bson:"menu_price_currency"`
	Steps             []string          `bson:"steps,omitempty"`
	LocationID        string            `bson:"location_id"`
	Metadata          map[string]string `bson:"metadata,omitempty"`
	CreatedAt         time.Time         `bson:"created_at"`
	UpdatedAt         time.Time         `bson:"updated_at"`
}

type recipeLineModel struct {
	IngredientID string  `bson:"ingredient_id"`
	Quantity     float64 `bson:"quantity"`
	Unit         string  `bson:"unit"`
	Note         string  `bson:"note,omitempty"`
}

func toRecipeModel(r *recipe.Recipe) *recipeModel {
	lines := make([]recipeLineModel, len(r.Lines))
	for i, line := range r.Lines {
		lines[i] = recipeLineModel{
			IngredientID: line.IngredientID.String(),
			Quantity:     line.Quantity,
			Unit:         string(line.Unit),
			Note:         line.Note,
		}
	}

	return &recipeModel{
		ID:                r.ID.String(),
		Name:              r.Name,
		Category:          r.Category,
		Status:            string(r.Status),
		YieldQty:          r.YieldQty,
		YieldUnit:         string(r.YieldUnit),
		Lines:             lines,
		MenuPriceCents:    r.MenuPrice.Amount,
		MenuPriceCurrency: r.MenuPrice.Currency,
		Steps:             r.Steps,
		LocationID:        r.LocationID,
		Metadata:          r.Metadata,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func fromRecipeModel(m *recipeModel) (*recipe.Recipe, error) {
	recipeID, err := id.ParseRecipeID(m.ID)
	if err != nil {
		return nil, err
	}

	lines := make([]recipe.Line, len(m.Lines))
	for i, line := range m.Lines {
		ingredientID, lineErr := id.ParseIngredientID(line.IngredientID)
		if lineErr != nil {
			return nil, lineErr
		}
		lines[i] = recipe.Line{
			IngredientID: ingredientID,
			Quantity:     line.Quantity,
			Unit:         types.Unit(line.Unit),
			Note:         line.Note,
		}
	}

	return &recipe.Recipe{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:         recipeID,
		Name:       m.Name,
		Category:   m.Category,
		Status:     recipe.Status(m.Status),
		YieldQty:   m.YieldQty,
		YieldUnit:  types.Unit(m.YieldUnit),
		Lines:      lines,
		MenuPrice:  types.Money{Amount: m.MenuPriceCents, Currency: m.MenuPriceCurrency},
		Steps:      m.Steps,
		LocationID: m.LocationID,
		Metadata:   m.Metadata,
	}, nil
}

// ==================== Sale Event models ====================

type saleEventModel struct {
	ID         string          `bson:"_id"`
	LocationID string          `bson:"location_id"`
	Items      []saleItemModel `bson:"items"`
	Source     string          `bson:"source"`
	// Omitted when empty so the sparse unique index skips keyless events.
	IdempotencyKey string            `bson:"idempotency_key,omitempty"`
	Timestamp      time.Time         `bson:"timestamp"`
	Metadata       map[string]string `bson:"metadata,omitempty"`
	CreatedAt      time.Time         `bson:"created_at"`
}

type saleItemModel struct {
	RecipeID string `bson:"recipe_id"`
	Name     string `bson:"name,omitempty"`
	Quantity int64  `bson:"quantity"`
}

func toSaleEventModel(e *sale.Event) *saleEventModel {
	items := make([]saleItemModel, len(e.Items))
	for i, item := range e.Items {
		items[i] = saleItemModel{
			RecipeID: item.RecipeID.String(),
			Name:     item.Name,
			Quantity: item.Quantity,
		}
	}

	return &saleEventModel{
		ID:             e.ID.String(),
		LocationID:     e.LocationID,
		Items:          items,
		Source:         e.Source,
		IdempotencyKey: e.IdempotencyKey,
		Timestamp:      e.Timestamp,
		Metadata:       e.Metadata,
		CreatedAt:      time.Now().UTC(),
	}
}

func fromSaleEventModel(m *saleEventModel) (*sale.Event, error) {
	eventID, err := id.ParseSaleEventID(m.ID)
	if err != nil {
		return nil, err
	}

	items := make([]sale.Item, len(m.Items))
	for i, item := range m.Items {
		recipeID, itemErr := id.ParseRecipeID(item.RecipeID)
		if itemErr != nil {
			return nil, itemErr
		}
		items[i] = sale.Item{
			RecipeID: recipeID,
			Name:     item.Name,
			Quantity: item.Quantity,
		}
	}

	return &sale.Event{
		ID:             eventID,
		LocationID:     m.LocationID,
		Items:          items,
		Source:         m.Source,
		IdempotencyKey: m.IdempotencyKey,
		Timestamp:      m.Timestamp,
		Metadata:       m.Metadata,
	}, nil
}

// ==================== Journal models ====================

type journalEntryModel struct {
	ID            string    `bson:"_id"`
	IngredientID  string    `bson:"ingredient_id"`
	Kind          string    `bson:"kind"`
	Delta         float64   `bson:"delta"`
	PreviousStock float64   `bson:"previous_stock"`
	NewStock      float64   `bson:"new_stock"`
	Clamped       bool      `bson:"clamped"`
	Source        string    `bson:"source"`
	ActorID       string    `bson:"actor_id,omitempty"`
	Timestamp     time.Time `bson:"timestamp"`
}

func toJournalEntryModel(e *journal.Entry) *journalEntryModel {
	return &journalEntryModel{
		ID:            e.ID.String(),
		IngredientID:  e.IngredientID.String(),
		Kind:          string(e.Kind),
		Delta:         e.Delta,
		PreviousStock: e.Previous,
		NewStock:      e.New,
		Clamped:       e.Clamped,
		Source:        e.Source,
		ActorID:       e.ActorID,
		Timestamp:     e.Timestamp,
	}
}

func fromJournalEntryModel(m *journalEntryModel) (*journal.Entry, error) {
	entryID, err := id.ParseJournalEntryID(m.ID)
	if err != nil {
		return nil, err
	}
	ingredientID, err := id.ParseIngredientID(m.IngredientID)
	if err != nil {
		return nil, err
	}

	return &journal.Entry{
		ID:           entryID,
		IngredientID: ingredientID,
		Kind:         journal.Kind(m.Kind),
		Delta:        m.Delta,
		Previous:     m.PreviousStock,
		New:          m.NewStock,
		Clamped:      m.Clamped,
		Source:       m.Source,
		ActorID:      m.ActorID,
		Timestamp:    m.Timestamp,
	}, nil
}

// ==================== Status Cache models ====================

type statusCacheModel struct {
	IngredientID   string    `bson:"_id"`
	Name           string    `bson:"name"`
	Low            bool      `bson:"low"`
	Stock          float64   `bson:"stock"`
	ReorderPoint   float64   `bson:"reorder_point"`
	ParLevel       float64   `bson:"par_level"`
	SuggestedOrder float64   `bson:"suggested_order"`
	Reason         string    `bson:"reason,omitempty"`
	ExpiresAt      time.Time `bson:"expires_at"`
	CreatedAt      time.Time `bson:"created_at"`
}

func toStatusCacheModel(ingredientID id.IngredientID, status *alert.Status, expiresAt time.Time) *statusCacheModel {
	return &statusCacheModel{
		IngredientID:   ingredientID.String(),
		Name:           status.Name,
		Low:            status.Low,
		Stock:          status.Stock,
		ReorderPoint:   status.ReorderPoint,
		ParLevel:       status.ParLevel,
		SuggestedOrder: status.SuggestedOrder,
		Reason:         status.Reason,
		ExpiresAt:      expiresAt,
		CreatedAt:      time.Now().UTC(),
	}
}

func fromStatusCacheModel(m *statusCacheModel) (*alert.Status, error) {
	ingredientID, err := id.ParseIngredientID(m.IngredientID)
	if err != nil {
		return nil, err
	}

	return &alert.Status{
		IngredientID:   ingredientID,
		Name:           m.Name,
		Low:            m.Low,
		Stock:          m.Stock,
		ReorderPoint:   m.ReorderPoint,
		ParLevel:       m.ParLevel,
		SuggestedOrder: m.SuggestedOrder,
		Reason:         m.Reason,
	}, nil
}

// ==================== Purchase Order models ====================

type purchaseOrderModel struct {
	ID            string            `bson:"_id"`
	SupplierID    string            `bson:"supplier_id"`
	LocationID    string            `bson:"location_id"`
	Status        string            `bson:"status"`
	Currency      string            `bson:"currency"`
	TotalCents    int64             `bson:"total_cents"`
	TotalCurrency string            `bson:"total_currency"`
	Lines         []orderLineModel  `bson:"lines"`
	SubmittedAt   *time.Time        `bson:"submitted_at,omitempty"`
	ReceivedAt    *time.Time        `bson:"received_at,omitempty"`
	CanceledAt    *time.Time        `bson:"canceled_at,omitempty"`
	CancelReason  string            `bson:"cancel_reason,omitempty"`
	Notes         string            `bson:"notes,omitempty"`
	Metadata      map[string]string `bson:"metadata,omitempty"`
	CreatedAt     time.Time         `bson:"created_at"`
	UpdatedAt     time.Time         `bson:"updated_at"`
}

type orderLineModel struct {
	ID               string  `bson:"id"`
	OrderID          string  `bson:"order_id"`
	IngredientID     string  `bson:"ingredient_id"`
	Name             string  `bson:"name"`
	Quantity         float64 `bson:"quantity"`
	Unit             string  `bson:"unit"`
	UnitCostCents    int64   `bson:"unit_cost_cents"`
	UnitCostCurrency string  `bson:"unit_cost_currency"`
	AmountCents      int64   `bson:"amount_cents"`
	AmountCurrency   string  `bson:"amount_currency"`
}

func toPurchaseOrderModel(po *purchaseorder.PurchaseOrder) *purchaseOrderModel {
	lines := make([]orderLineModel, len(po.Lines))
	for i, line := range po.Lines {
		lines[i] = orderLineModel{
			ID:               line.ID.String(),
			OrderID:          line.OrderID.String(),
			IngredientID:     line.IngredientID.String(),
			Name:             line.Name,
			Quantity:         line.Quantity,
			Unit:             string(line.Unit),
			UnitCostCents:    line.UnitCost.Amount,
			UnitCostCurrency: line.UnitCost.Currency,
			AmountCents:      line.Amount.Amount,
			AmountCurrency:   line.Amount.Currency,
		}
	}

	return &purchaseOrderModel{
		ID:            po.ID.String(),
		SupplierID:    po.SupplierID.String(),
		LocationID:    po.LocationID,
		Status:        string(po.Status),
		Currency:      po.Currency,
		TotalCents:    po.Total.Amount,
		TotalCurrency: po.Total.Currency,
		Lines:         lines,
		SubmittedAt:   po.SubmittedAt,
		ReceivedAt:    po.ReceivedAt,
		CanceledAt:    po.CanceledAt,
		CancelReason:  po.CancelReason,
		Notes:         po.Notes,
		Metadata:      po.Metadata,
		CreatedAt:     po.CreatedAt,
		UpdatedAt:     po.UpdatedAt,
	}
}

func fromPurchaseOrderModel(m *purchaseOrderModel) (*purchaseorder.PurchaseOrder, error) {
	orderID, err := id.ParsePurchaseOrderID(m.ID)
	if err != nil {
		return nil, err
	}
	supplierID, err := id.ParseSupplierID(m.SupplierID)
	if err != nil {
		return nil, err
	}

	lines := make([]purchaseorder.Line, len(m.Lines))
	for i, line := range m.Lines {
		lineID, lineErr := id.ParseOrderLineID(line.ID)
		if lineErr != nil {
			return nil, lineErr
		}
		lineOrderID, lineErr := id.ParsePurchaseOrderID(line.OrderID)
		if lineErr != nil {
			return nil, lineErr
		}
		ingredientID, lineErr := id.ParseIngredientID(line.IngredientID)
		if lineErr != nil {
			return nil, lineErr
		}
		lines[i] = purchaseorder.Line{
			ID:           lineID,
			OrderID:      lineOrderID,
			IngredientID: ingredientID,
			Name:         line.Name,
			Quantity:     line.Quantity,
			Unit:         types.Unit(line.Unit),
			UnitCost:     types.Money{Amount: line.UnitCostCents, Currency: line.UnitCostCurrency},
			Amount:       types.Money{Amount: line.AmountCents, Currency: line.AmountCurrency},
		}
	}

	return &purchaseorder.PurchaseOrder{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:           orderID,
		SupplierID:   supplierID,
		LocationID:   m.LocationID,
		Status:       purchaseorder.Status(m.Status),
		Currency:     m.Currency,
		Total:        types.Money{Amount: m.TotalCents, Currency: m.TotalCurrency},
		Lines:        lines,
		SubmittedAt:  m.SubmittedAt,
		ReceivedAt:   m.ReceivedAt,
		CanceledAt:   m.CanceledAt,
		CancelReason: m.CancelReason,
		Notes:        m.Notes,
		Metadata:     m.Metadata,
	}, nil
}

// ==================== Supplier models ====================

type supplierModel struct {
	ID               string            `bson:"_id"`
	Name             string            `bson:"name"`
	ContactName      string            `bson:"contact_name,omitempty"`
	Email            string            `bson:"email,omitempty"`
	Phone            string            `bson:"phone,omitempty"`
	LeadTimeDays     int               `bson:"lead_time_days"`
	MinOrderCents    int64             `bson:"min_order_cents"`
	MinOrderCurrency string            `bson:"min_order_currency"`
	Currency         string            `bson:"currency"`
	LocationID       string            `bson:"location_id"`
	Active           bool              `bson:"active"`
	Metadata         map[string]string `bson:"metadata,omitempty"`
	CreatedAt        time.Time         `bson:"created_at"`
	UpdatedAt        time.Time         `bson:"updated_at"`
}

func toSupplierModel(s *supplier.Supplier) *supplierModel {
	return &supplierModel{
		ID:               s.ID.String(),
		Name:             s.Name,
		ContactName:      s.ContactName,
		Email:            s.Email,
		Phone:            s.Phone,
		LeadTimeDays:     s.LeadTimeDays,
		MinOrderCents:    s.MinimumOrder.Amount,
		MinOrderCurrency: s.MinimumOrder.Currency,
		Currency:         s.Currency,
		LocationID:       s.LocationID,
		Active:           s.Active,
		Metadata:         s.Metadata,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

func fromSupplierModel(m *supplierModel) (*supplier.Supplier, error) {
	supplierID, err := id.ParseSupplierID(m.ID)
	if err != nil {
		return nil, err
	}

	return &supplier.Supplier{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:           supplierID,
		Name:         m.Name,
		ContactName:  m.ContactName,
		Email:        m.Email,
		Phone:        m.Phone,
		LeadTimeDays: m.LeadTimeDays,
		MinimumOrder: types.Money{Amount: m.MinOrderCents, Currency: m.MinOrderCurrency},
		Currency:     m.Currency,
		LocationID:   m.LocationID,
		Active:       m.Active,
		Metadata:     m.Metadata,
	}, nil
}

// ==================== Onboarding models ====================

type onboardingModel struct {
	ID          string            `bson:"_id"`
	LocationID  string            `bson:"location_id"`
	CurrentStep string            `bson:"current_step"`
	Done        []string          `bson:"done"`
	CompletedAt *time.Time        `bson:"completed_at,omitempty"`
	Metadata    map[string]string `bson:"metadata,omitempty"`
	CreatedAt   time.Time         `bson:"created_at"`
	UpdatedAt   time.Time         `bson:"updated_at"`
}

func toOnboardingModel(p *onboarding.Progress) *onboardingModel {
	done := make([]string, len(p.Done))
	for i, step := range p.Done {
		done[i] = string(step)
	}

	return &onboardingModel{
		ID:          p.ID.String(),
		LocationID:  p.LocationID,
		CurrentStep: string(p.Current),
		Done:        done,
		CompletedAt: p.CompletedAt,
		Metadata:    p.Metadata,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func fromOnboardingModel(m *onboardingModel) (*onboarding.Progress, error) {
	onboardingID, err := id.ParseOnboardingID(m.ID)
	if err != nil {
		return nil, err
	}

	done := make([]onboarding.Step, len(m.Done))
	for i, step := range m.Done {
		done[i] = onboarding.Step(step)
	}

	return &onboarding.Progress{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:          onboardingID,
		LocationID:  m.LocationID,
		Current:     onboarding.Step(m.CurrentStep),
		Done:        done,
		CompletedAt: m.CompletedAt,
		Metadata:    m.Metadata,
	}, nil
}
