package postgres

import (
	"encoding/json"
	"time"

	"github.com/xraph/grove"

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
	grove.BaseModel `grove:"table:larder_ingredients"`

	ID               string            `grove:"id,pk"`
	Name             string            `grove:"name"`
	Category         string            `grove:"category"`
	Unit             string            `grove:"unit"`
	Stock            float64           `grove:"stock"`
	ReorderPoint     float64           `grove:"reorder_point"`
	ParLevel         float64           `grove:"par_level"`
	UnitCostAmount   int64             `grove:"unit_cost_amount"`
	UnitCostCurrency string            `grove:"unit_cost_currency"`
	SupplierID       string            `grove:"supplier_id"`
	LocationID       string            `grove:"location_id"`
	Metadata         map[string]string `grove:"metadata,type:jsonb"`
	CreatedAt        time.Time         `grove:"created_at"`
	UpdatedAt        time.Time         `grove:"updated_at"`
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
		UnitCostAmount:   ing.UnitCost.Amount,
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
		UnitCost:     types.Money{Amount: m.UnitCostAmount, Currency: m.UnitCostCurrency},
		SupplierID:   supplierID,
		LocationID:   m.LocationID,
		Metadata:     m.Metadata,
	}, nil
}

// ==================== Recipe models ====================

type recipeModel struct {
	grove.BaseModel `grove:"table:larder_recipes"`

	ID                string            `grove:"id,pk"`
	Name              string            `grove:"name"`
	Category          string            `grove:"category"`
	Status            string            `grove:"status"`
	YieldQty          float64           `grove:"yield_qty"`
	YieldUnit         string            `grove:"yield_unit"`
	Lines             json.RawMessage   `grove:"lines,type:jsonb"`
	MenuPriceAmount   int64             `grove:"menu_price_amount"`
	MenuPriceCurrency string            `grove:"menu_price_currency"`
	Steps             json.RawMessage   `grove:"steps,type:jsonb"`
	LocationID        string            `grove:"location_id"`
	Metadata          map[string]string `grove:"metadata,type:jsonb"`
	CreatedAt         time.Time         `grove:"created_at"`
	UpdatedAt         time.Time         `grove:"updated_at"`
}

func toRecipeModel(r *recipe.Recipe) *recipeModel {
	lines, _ := json.Marshal(r.Lines) //nolint:errcheck // best-effort
	steps, _ := json.Marshal(r.Steps) //nolint:errcheck // best-effort

	return &recipeModel{
		ID:                r.ID.String(),
		Name:              r.Name,
		Category:          r.Category,
		Status:            string(r.Status),
		YieldQty:          r.YieldQty,
		YieldUnit:         string(r.YieldUnit),
		Lines:             lines,
		MenuPriceAmount:   r.MenuPrice.Amount,
		MenuPriceCurrency: r.MenuPrice.Currency,
		Steps:             steps,
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

	var lines []recipe.Line
	if len(m.Lines) > 0 {
		_ = json.Unmarshal(m.Lines, &lines) //nolint:errcheck // best-effort
	}

	var steps []string
	if len(m.Steps) > 0 && string(m.Steps) != "null" {
		_ = json.Unmarshal(m.Steps, &steps) //nolint:errcheck // best-effort
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
		MenuPrice:  types.Money{Amount: m.MenuPriceAmount, Currency: m.MenuPriceCurrency},
		Steps:      steps,
		LocationID: m.LocationID,
		Metadata:   m.Metadata,
	}, nil
}

// ==================== Sale Event models ====================

type saleEventModel struct {
	grove.BaseModel `grove:"table:larder_sale_events"`

	ID             string            `grove:"id,pk"`
	LocationID     string            `grove:"location_id"`
	Items          json.RawMessage   `grove:"items,type:jsonb"`
	Source         string            `grove:"source"`
	IdempotencyKey string            `grove:"idempotency_key"`
	Timestamp      time.Time         `grove:"timestamp"`
	Metadata       map[string]string `grove:"metadata,type:jsonb"`
	CreatedAt      time.Time         `grove:"created_at"`
}

func toSaleEventModel(e *sale.Event) *saleEventModel {
	items, _ := json.Marshal(e.Items) //nolint:errcheck // best-effort

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

	var items []sale.Item
	if len(m.Items) > 0 {
		_ = json.Unmarshal(m.Items, &items) //nolint:errcheck // best-effort
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
	grove.BaseModel `grove:"table:larder_journal"`

	ID            string    `grove:"id,pk"`
	IngredientID  string    `grove:"ingredient_id"`
	Kind          string    `grove:"kind"`
	Delta         float64   `grove:"delta"`
	PreviousStock float64   `grove:"previous_stock"`
	NewStock      float64   `grove:"new_stock"`
	Clamped       bool      `grove:"clamped"`
	Source        string    `grove:"source"`
	ActorID       string    `grove:"actor_id"`
	Timestamp     time.Time `grove:"timestamp"`
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
	grove.BaseModel `grove:"table:larder_status_cache"`

	IngredientID   string    `grove:"ingredient_id,pk"`
	Name           string    `grove:"name"`
	Low            bool      `grove:"low"`
	Stock          float64   `grove:"stock"`
	ReorderPoint   float64   `grove:"reorder_point"`
	ParLevel       float64   `grove:"par_level"`
	SuggestedOrder float64   `grove:"suggested_order"`
	Reason         string    `grove:"reason"`
	ExpiresAt      time.Time `grove:"expires_at"`
	CreatedAt      time.Time `grove:"created_at"`
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
	grove.BaseModel `grove:"table:larder_purchase_orders"`

	ID            string            `grove:"id,pk"`
	SupplierID    string            `grove:"supplier_id"`
	LocationID    string            `grove:"location_id"`
	Status        string            `grove:"status"`
	Currency      string            `grove:"currency"`
	TotalAmount   int64             `grove:"total_amount"`
	TotalCurrency string            `grove:"total_currency"`
	Lines         json.RawMessage   `grove:"lines,type:jsonb"`
	SubmittedAt   *time.Time        `grove:"submitted_at"`
	ReceivedAt    *time.Time        `grove:"received_at"`
	CanceledAt    *time.Time        `grove:"canceled_at"`
	CancelReason  string            `grove:"cancel_reason"`
	Notes         string            `grove:"notes"`
	Metadata      map[string]string `grove:"metadata,type:jsonb"`
	CreatedAt     time.Time         `grove:"created_at"`
	UpdatedAt     time.Time         `grove:"updated_at"`
}

func toPurchaseOrderModel(po *purchaseorder.PurchaseOrder) *purchaseOrderModel {
	lines, _ := json.Marshal(po.Lines) //nolint:errcheck // best-effort

	return &purchaseOrderModel{
		ID:            po.ID.String(),
		SupplierID:    po.SupplierID.String(),
		LocationID:    po.LocationID,
		Status:        string(po.Status),
		Currency:      po.Currency,
		TotalAmount:   po.Total.Amount,
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

	var lines []purchaseorder.Line
	if len(m.Lines) > 0 {
		_ = json.Unmarshal(m.Lines, &lines) //nolint:errcheck // best-effort
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
		Total:        types.Money{Amount: m.TotalAmount, Currency: m.TotalCurrency},
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
	grove.BaseModel `grove:"table:larder_suppliers"`

	ID               string            `grove:"id,pk"`
	Name             string            `grove:"name"`
	ContactName      string            `grove:"contact_name"`
	Email            string            `grove:"email"`
	Phone            string            `grove:"phone"`
	LeadTimeDays     int               `grove:"lead_time_days"`
	MinOrderAmount   int64             `grove:"min_order_amount"`
	MinOrderCurrency string            `grove:"min_order_currency"`
	Currency         string            `grove:"currency"`
	LocationID       string            `grove:"location_id"`
	Active           bool              `grove:"active"`
	Metadata         map[string]string `grove:"metadata,type:jsonb"`
	CreatedAt        time.Time         `grove:"created_at"`
	UpdatedAt        time.Time         `grove:"updated_at"`
}

func toSupplierModel(s *supplier.Supplier) *supplierModel {
	return &supplierModel{
		ID:               s.ID.String(),
		Name:             s.Name,
		ContactName:      s.ContactName,
		Email:            s.Email,
		Phone:            s.Phone,
		LeadTimeDays:     s.LeadTimeDays,
		MinOrderAmount:   s.MinimumOrder.Amount,
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
		MinimumOrder: types.Money{Amount: m.MinOrderAmount, Currency: m.MinOrderCurrency},
		Currency:     m.Currency,
		LocationID:   m.LocationID,
		Active:       m.Active,
		Metadata:     m.Metadata,
	}, nil
}

// ==================== Onboarding models ====================

type onboardingModel struct {
	grove.BaseModel `grove:"table:larder_onboarding"`

	ID          string            `grove:"id,pk"`
	LocationID  string            `grove:"location_id"`
	CurrentStep string            `grove:"current_step"`
	Done        json.RawMessage   `grove:"done,type:jsonb"`
	CompletedAt *time.Time        `grove:"completed_at"`
	Metadata    map[string]string `grove:"metadata,type:jsonb"`
	CreatedAt   time.Time         `grove:"created_at"`
	UpdatedAt   time.Time         `grove:"updated_at"`
}

func toOnboardingModel(p *onboarding.Progress) *onboardingModel {
	done, _ := json.Marshal(p.Done) //nolint:errcheck // best-effort

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

	var done []onboarding.Step
	if len(m.Done) > 0 && string(m.Done) != "null" {
		_ = json.Unmarshal(m.Done, &done) //nolint:errcheck // best-effort
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
