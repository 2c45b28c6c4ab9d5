package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
	"github.com/xraph/grove/migrate"

	larder "github.com/xraph/larder"
	"github.com/xraph/larder/alert"
	"github.com/xraph/larder/id"
	"github.com/xraph/larder/ingredient"
	"github.com/xraph/larder/journal"
	"github.com/xraph/larder/onboarding"
	"github.com/xraph/larder/purchaseorder"
	"github.com/xraph/larder/recipe"
	"github.com/xraph/larder/sale"
	larderstore "github.com/xraph/larder/store"
	"github.com/xraph/larder/supplier"
)

// compile-time interface check
var _ larderstore.Store = (*Store)(nil)

// Store implements store.Store using SQLite via Grove ORM.
type Store struct {
	db  *grove.DB
	sdb *sqlitedriver.SqliteDB
}

// New creates a new SQLite store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		sdb: sqlitedriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.sdb)
	if err != nil {
		return fmt.Errorf("larder/sqlite: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("larder/sqlite: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Ingredient Store ====================

func (s *Store) CreateIngredient(ctx context.Context, ing *ingredient.Ingredient) error {
	m := toIngredientModel(ing)
	_, err := s.sdb.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetIngredient(ctx context.Context, ingredientID id.IngredientID) (*ingredient.Ingredient, error) {
	m := new(ingredientModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", ingredientID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, larder.ErrIngredientNotFound
		}
		return nil, err
	}
	return fromIngredientModel(m)
}

func (s *Store) ListIngredients(ctx context.Context, locationID string, opts ingredient.ListOpts) ([]*ingredient.Ingredient, error) {
	var models []ingredientModel
	q := s.sdb.NewSelect(&models).Where("location_id = ?", locationID)

	if opts.Category != "" {
		q = q.Where("category = ?", string(opts.Category))
	}
	if opts.BelowReorder {
		q = q.Where("stock <= reorder_point")
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("name ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*ingredient.Ingredient, len(models))
	for i := range models {
		ing, err := fromIngredientModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = ing
	}
	return result, nil
}

func (s *Store) UpdateIngredient(ctx context.Context, ing *ingredient.Ingredient) error {
	m := toIngredientModel(ing)
	m.UpdatedAt = now()
	res, err := s.sdb.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return larder.ErrIngredientNotFound
	}
	return nil
}

func (s *Store) DeleteIngredient(ctx context.Context, ingredientID id.IngredientID) error {
	res, err := s.sdb.NewDelete((*ingredientModel)(nil)).
		Where("id = ?", ingredientID.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return larder.ErrIngredientNotFound
	}
	return nil
}

// ApplyStockDelta uses a compare-and-swap loop: SQLite's RETURNING clause
// cannot expose pre-update values, so the update is guarded on the stock
// value just read and retried when another writer got there first.
func (s *Store) ApplyStockDelta(ctx context.Context, ingredientID id.IngredientID, delta float64) (ingredient.StockChange, error) {
	for {
		var previous float64
		err := s.sdb.NewRaw(`SELECT stock FROM larder_ingredients WHERE id = ?`, ingredientID.String()).
			Scan(ctx, &previous)
		if err != nil {
			if isNoRows(err) {
				return ingredient.StockChange{}, larder.ErrIngredientNotFound
			}
			return ingredient.StockChange{}, err
		}

		next := previous + delta
		clamped := next < 0
		if clamped {
			next = 0
		}

		res, err := s.sdb.NewUpdate((*ingredientModel)(nil)).
			Set("stock = ?", next).
			Set("updated_at = ?", now()).
			Where("id = ?", ingredientID.String()).
			Where("stock = ?", previous).
			Exec(ctx)
		if err != nil {
			return ingredient.StockChange{}, err
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return ingredient.StockChange{}, err
		}
		if rows == 0 {
			// Lost the race; reread and retry.
			continue
		}

		return ingredient.StockChange{
			Previous: previous,
			New:      next,
			Applied:  next - previous,
			Clamped:  clamped,
		}, nil
	}
}

// ==================== Recipe Store ====================

func (s *Store) CreateRecipe(ctx context.Context, r *recipe.Recipe) error {
	m := toRecipeModel(r)
	_, err := s.sdb.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetRecipe(ctx context.Context, recipeID id.RecipeID) (*recipe.Recipe, error) {
	m := new(recipeModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", recipeID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, larder.ErrRecipeNotFound
		}
		return nil, err
	}
	return fromRecipeModel(m)
}

func (s *Store) ListRecipes(ctx context.Context, locationID string, opts recipe.ListOpts) ([]*recipe.Recipe, error) {
	var models []recipeModel
	q := s.sdb.NewSelect(&models).Where("location_id = ?", locationID)

	if opts.Status != "" {
		q = q.Where("status = ?", string(opts.Status))
	}
	if opts.Category != "" {
		q = q.Where("category = ?", opts.Category)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("name ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*recipe.Recipe, len(models))
	for i := range models {
		r, err := fromRecipeModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = r
	}
	return result, nil
}

func (s *Store) UpdateRecipe(ctx context.Context, r *recipe.Recipe) error {
	m := toRecipeModel(r)
	m.UpdatedAt = now()
	res, err := s.sdb.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return larder.ErrRecipeNotFound
	}
	return nil
}

func (s *Store) DeleteRecipe(ctx context.Context, recipeID id.RecipeID) error {
	res, err := s.sdb.NewDelete((*recipeModel)(nil)).
		Where("id = ?", recipeID.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return larder.ErrRecipeNotFound
	}
	return nil
}

func (s *Store) RecipesUsingIngredient(ctx context.Context, ingredientID id.IngredientID) ([]*recipe.Recipe, error) {
	var models []recipeModel
	err := s.sdb.NewSelect(&models).
		Where("lines LIKE ?", "%"+ingredientID.String()+"%").
		OrderExpr("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*recipe.Recipe, 0, len(models))
	for i := range models {
		r, err := fromRecipeModel(&models[i])
		if err != nil {
			return nil, err
		}
		// LIKE is a coarse prefilter over the JSON column; confirm the
		// ingredient actually appears in a line.
		if r.FindLine(ingredientID) != nil {
			result = append(result, r)
		}
	}
	return result, nil
}

// ==================== Sale Store ====================

func (s *Store) RecordSaleEvent(ctx context.Context, e *sale.Event) (bool, error) {
	m := toSaleEventModel(e)
	res, err := s.sdb.NewInsert(m).
		OnConflict("(idempotency_key) WHERE idempotency_key != '' DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (s *Store) GetSaleEvent(ctx context.Context, eventID id.SaleEventID) (*sale.Event, error) {
	m := new(saleEventModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", eventID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, larder.ErrNotFound
		}
		return nil, err
	}
	return fromSaleEventModel(m)
}

func (s *Store) QuerySales(ctx context.Context, locationID string, opts sale.QueryOpts) ([]*sale.Event, error) {
	var models []saleEventModel
	q := s.sdb.NewSelect(&models).Where("location_id = ?", locationID)

	if !opts.RecipeID.IsNil() {
		q = q.Where("items LIKE ?", "%"+opts.RecipeID.String()+"%")
	}
	if !opts.Start.IsZero() {
		q = q.Where("timestamp >= ?", opts.Start)
	}
	if !opts.End.IsZero() {
		q = q.Where("timestamp <= ?", opts.End)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("timestamp DESC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*sale.Event, len(models))
	for i := range models {
		evt, err := fromSaleEventModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = evt
	}
	return result, nil
}

func (s *Store) PurgeSales(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.sdb.NewDelete((*saleEventModel)(nil)).
		Where("timestamp < ?", before).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return rows, nil
}

// ==================== Journal Store ====================

func (s *Store) AppendJournal(ctx context.Context, e *journal.Entry) error {
	m := toJournalEntryModel(e)
	_, err := s.sdb.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) QueryJournal(ctx context.Context, ingredientID id.IngredientID, opts journal.QueryOpts) ([]*journal.Entry, error) {
	var models []journalEntryModel
	q := s.sdb.NewSelect(&models).Where("ingredient_id = ?", ingredientID.String())

	if opts.Kind != "" {
		q = q.Where("kind = ?", string(opts.Kind))
	}
	if !opts.Start.IsZero() {
		q = q.Where("timestamp >= ?", opts.Start)
	}
	if !opts.End.IsZero() {
		q = q.Where("timestamp <= ?", opts.End)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("timestamp ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*journal.Entry, len(models))
	for i := range models {
		entry, err := fromJournalEntryModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = entry
	}
	return result, nil
}

// ==================== Status Cache Store ====================

func (s *Store) GetCachedStatus(ctx context.Context, ingredientID id.IngredientID) (*alert.Status, error) {
	m := new(statusCacheModel)
	err := s.sdb.NewSelect(m).
		Where("ingredient_id = ?", ingredientID.String()).
		Where("expires_at > ?", time.Now().UTC()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, larder.ErrCacheMiss
		}
		return nil, err
	}
	return fromStatusCacheModel(m)
}

func (s *Store) SetCachedStatus(ctx context.Context, ingredientID id.IngredientID, status *alert.Status, ttl time.Duration) error {
	expiresAt := time.Now().UTC().Add(ttl)
	m := toStatusCacheModel(ingredientID, status, expiresAt)
	_, err := s.sdb.NewInsert(m).
		OnConflict("(ingredient_id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("low = EXCLUDED.low").
		Set("stock = EXCLUDED.stock").
		Set("reorder_point = EXCLUDED.reorder_point").
		Set("par_level = EXCLUDED.par_level").
		Set("suggested_order = EXCLUDED.suggested_order").
		Set("reason = EXCLUDED.reason").
		Set("expires_at = EXCLUDED.expires_at").
		Set("created_at = EXCLUDED.created_at").
		Exec(ctx)
	return err
}

func (s *Store) InvalidateStatus(ctx context.Context, ingredientID id.IngredientID) error {
	_, err := s.sdb.NewDelete((*statusCacheModel)(nil)).
		Where("ingredient_id = ?", ingredientID.String()).
		Exec(ctx)
	return err
}

func (s *Store) InvalidateAllStatuses(ctx context.Context, locationID string) error {
	_, err := s.sdb.NewDelete((*statusCacheModel)(nil)).
		Where("ingredient_id IN (SELECT id FROM larder_ingredients WHERE location_id = ?)", locationID).
		Exec(ctx)
	return err
}

// ==================== Purchase Order Store ====================

func (s *Store) CreatePurchaseOrder(ctx context.Context, po *purchaseorder.PurchaseOrder) error {
	m := toPurchaseOrderModel(po)
	_, err := s.sdb.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetPurchaseOrder(ctx context.Context, orderID id.PurchaseOrderID) (*purchaseorder.PurchaseOrder, error) {
	m := new(purchaseOrderModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", orderID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, larder.ErrOrderNotFound
		}
		return nil, err
	}
	return fromPurchaseOrderModel(m)
}

func (s *Store) ListPurchaseOrders(ctx context.Context, locationID string, opts purchaseorder.ListOpts) ([]*purchaseorder.PurchaseOrder, error) {
	var models []purchaseOrderModel
	q := s.sdb.NewSelect(&models).Where("location_id = ?", locationID)

	if opts.Status != "" {
		q = q.Where("status = ?", string(opts.Status))
	}
	if !opts.Start.IsZero() {
		q = q.Where("created_at >= ?", opts.Start)
	}
	if !opts.End.IsZero() {
		q = q.Where("created_at <= ?", opts.End)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("created_at DESC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*purchaseorder.PurchaseOrder, len(models))
	for i := range models {
		po, err := fromPurchaseOrderModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = po
	}
	return result, nil
}

func (s *Store) UpdatePurchaseOrder(ctx context.Context, po *purchaseorder.PurchaseOrder) error {
	m := toPurchaseOrderModel(po)
	m.UpdatedAt = now()
	res, err := s.sdb.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return larder.ErrOrderNotFound
	}
	return nil
}

func (s *Store) ListOpenPurchaseOrders(ctx context.Context, supplierID id.SupplierID) ([]*purchaseorder.PurchaseOrder, error) {
	var models []purchaseOrderModel
	err := s.sdb.NewSelect(&models).
		Where("supplier_id = ?", supplierID.String()).
		Where("status IN (?, ?)", string(purchaseorder.StatusDraft), string(purchaseorder.StatusSubmitted)).
		OrderExpr("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*purchaseorder.PurchaseOrder, len(models))
	for i := range models {
		po, err := fromPurchaseOrderModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = po
	}
	return result, nil
}

func (s *Store) MarkOrderSubmitted(ctx context.Context, orderID id.PurchaseOrderID, submittedAt time.Time) error {
	res, err := s.sdb.NewUpdate((*purchaseOrderModel)(nil)).
		Set("status = ?", string(purchaseorder.StatusSubmitted)).
		Set("submitted_at = ?", submittedAt).
		Set("updated_at = ?", now()).
		Where("id = ?", orderID.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return larder.ErrOrderNotFound
	}
	return nil
}

func (s *Store) MarkOrderReceived(ctx context.Context, orderID id.PurchaseOrderID, receivedAt time.Time) error {
	res, err := s.sdb.NewUpdate((*purchaseOrderModel)(nil)).
		Set("status = ?", string(purchaseorder.StatusReceived)).
		Set("received_at = ?", receivedAt).
		Set("updated_at = ?", now()).
		Where("id = ?", orderID.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return larder.ErrOrderNotFound
	}
	return nil
}

func (s *Store) MarkOrderCanceled(ctx context.Context, orderID id.PurchaseOrderID, reason string) error {
	t := now()
	res, err := s.sdb.NewUpdate((*purchaseOrderModel)(nil)).
		Set("status = ?", string(purchaseorder.StatusCanceled)).
		Set("canceled_at = ?", t).
		Set("cancel_reason = ?", reason).
		Set("updated_at = ?", t).
		Where("id = ?", orderID.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return larder.ErrOrderNotFound
	}
	return nil
}

// ==================== Supplier Store ====================

func (s *Store) CreateSupplier(ctx context.Context, sup *supplier.Supplier) error {
	m := toSupplierModel(sup)
	_, err := s.sdb.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetSupplier(ctx context.Context, supplierID id.SupplierID) (*supplier.Supplier, error) {
	m := new(supplierModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", supplierID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, larder.ErrSupplierNotFound
		}
		return nil, err
	}
	return fromSupplierModel(m)
}

func (s *Store) ListSuppliers(ctx context.Context, locationID string, opts supplier.ListOpts) ([]*supplier.Supplier, error) {
	var models []supplierModel
	q := s.sdb.NewSelect(&models).Where("location_id = ?", locationID)

	if opts.Active {
		q = q.Where("active = 1")
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("name ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*supplier.Supplier, len(models))
	for i := range models {
		sup, err := fromSupplierModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = sup
	}
	return result, nil
}

func (s *Store) UpdateSupplier(ctx context.Context, sup *supplier.Supplier) error {
	m := toSupplierModel(sup)
	m.UpdatedAt = now()
	res, err := s.sdb.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return larder.ErrSupplierNotFound
	}
	return nil
}

func (s *Store) DeleteSupplier(ctx context.Context, supplierID id.SupplierID) error {
	res, err := s.sdb.NewDelete((*supplierModel)(nil)).
		Where("id = ?", supplierID.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return larder.ErrSupplierNotFound
	}
	return nil
}

// ==================== Onboarding Store ====================

func (s *Store) CreateOnboarding(ctx context.Context, p *onboarding.Progress) error {
	m := toOnboardingModel(p)
	_, err := s.sdb.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetOnboarding(ctx context.Context, onboardingID id.OnboardingID) (*onboarding.Progress, error) {
	m := new(onboardingModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", onboardingID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, larder.ErrOnboardingNotFound
		}
		return nil, err
	}
	return fromOnboardingModel(m)
}

func (s *Store) GetOnboardingByLocation(ctx context.Context, locationID string) (*onboarding.Progress, error) {
	m := new(onboardingModel)
	err := s.sdb.NewSelect(m).
		Where("location_id = ?", locationID).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, larder.ErrOnboardingNotFound
		}
		return nil, err
	}
	return fromOnboardingModel(m)
}

func (s *Store) UpdateOnboarding(ctx context.Context, p *onboarding.Progress) error {
	m := toOnboardingModel(p)
	m.UpdatedAt = now()
	res, err := s.sdb.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return larder.ErrOnboardingNotFound
	}
	return nil
}

// ==================== Helpers ====================

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
