// Package mongo implements the Larder store on MongoDB using the
// official driver. Documents are keyed by the entity ID string and
// nested values (recipe lines, sale items, order lines) are stored as
// sub-documents rather than serialized blobs.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

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

// Collection name constants.
const (
	colIngredients = "larder_ingredients"
	colRecipes     = "larder_recipes"
	colSaleEvents  = "larder_sale_events"
	colJournal     = "larder_journal"
	colStatusCache = "larder_status_cache"
	colOrders      = "larder_purchase_orders"
	colSuppliers   = "larder_suppliers"
	colOnboarding  = "larder_onboarding"
)

// compile-time interface check
var _ larderstore.Store = (*Store)(nil)

// Store implements store.Store on a MongoDB database.
type Store struct {
	db *mongo.Database
}

// New creates a new MongoDB store over the given database handle.
func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

// Database returns the underlying database for direct access.
func (s *Store) Database() *mongo.Database { return s.db }

// Migrate creates indexes for all larder collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.db.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("larder/mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

// Close disconnects the underlying client.
func (s *Store) Close() error {
	return s.db.Client().Disconnect(context.Background())
}

// ==================== Ingredient Store ====================

func (s *Store) CreateIngredient(ctx context.Context, ing *ingredient.Ingredient) error {
	m := toIngredientModel(ing)
	_, err := s.db.Collection(colIngredients).InsertOne(ctx, m)
	if err != nil {
		return fmt.Errorf("larder/mongo: create ingredient: %w", err)
	}
	return nil
}

func (s *Store) GetIngredient(ctx context.Context, ingredientID id.IngredientID) (*ingredient.Ingredient, error) {
	var m ingredientModel
	err := s.db.Collection(colIngredients).
		FindOne(ctx, bson.M{"_id": ingredientID.String()}).
		Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, larder.ErrIngredientNotFound
		}
		return nil, fmt.Errorf("larder/mongo: get ingredient: %w", err)
	}
	return fromIngredientModel(&m)
}

func (s *Store) ListIngredients(ctx context.Context, locationID string, opts ingredient.ListOpts) ([]*ingredient.Ingredient, error) {
	filter := bson.M{"location_id": locationID}
	if opts.Category != "" {
		filter["category"] = string(opts.Category)
	}
	if opts.BelowReorder {
		filter["$expr"] = bson.M{"$lte": bson.A{"$stock", "$reorder_point"}}
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if opts.Limit > 0 {
		findOpts = findOpts.SetLimit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		findOpts = findOpts.SetSkip(int64(opts.Offset))
	}

	cursor, err := s.db.Collection(colIngredients).Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("larder/mongo: list ingredients: %w", err)
	}
	defer cursor.Close(ctx)

	var models []ingredientModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("larder/mongo: list ingredients decode: %w", err)
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

	res, err := s.db.Collection(colIngredients).
		ReplaceOne(ctx, bson.M{"_id": m.ID}, m)
	if err != nil {
		return fmt.Errorf("larder/mongo: update ingredient: %w", err)
	}
	if res.MatchedCount == 0 {
		return larder.ErrIngredientNotFound
	}
	return nil
}

func (s *Store) DeleteIngredient(ctx context.Context, ingredientID id.IngredientID) error {
	res, err := s.db.Collection(colIngredients).
		DeleteOne(ctx, bson.M{"_id": ingredientID.String()})
	if err != nil {
		return fmt.Errorf("larder/mongo: delete ingredient: %w", err)
	}
	if res.DeletedCount == 0 {
		return larder.ErrIngredientNotFound
	}
	return nil
}

// ApplyStockDelta adjusts stock atomically in a single pipeline update so
// concurrent depletions cannot lose writes. The new value clamps at zero
// server-side; the pre-update document is returned to report the true delta.
func (s *Store) ApplyStockDelta(ctx context.Context, ingredientID id.IngredientID, delta float64) (ingredient.StockChange, error) {
	update := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.M{
			"stock":      bson.M{"$max": bson.A{bson.M{"$add": bson.A{"$stock", delta}}, 0}},
			"updated_at": now(),
		}}},
	}

	var before ingredientModel
	err := s.db.Collection(colIngredients).
		FindOneAndUpdate(ctx, bson.M{"_id": ingredientID.String()}, update,
			options.FindOneAndUpdate().SetReturnDocument(options.Before)).
		Decode(&before)
	if err != nil {
		if isNoDocuments(err) {
			return ingredient.StockChange{}, larder.ErrIngredientNotFound
		}
		return ingredient.StockChange{}, fmt.Errorf("larder/mongo: apply stock delta: %w", err)
	}

	next := before.Stock + delta
	clamped := next < 0
	if clamped {
		next = 0
	}
	return ingredient.StockChange{
		Previous: before.Stock,
		New:      next,
		Applied:  next - before.Stock,
		Clamped:  clamped,
	}, nil
}

// ==================== Recipe Store ====================

func (s *Store) CreateRecipe(ctx context.Context, r *recipe.Recipe) error {
	m := toRecipeModel(r)
	_, err := s.db.Collection(colRecipes).InsertOne(ctx, m)
	if err != nil {
		return fmt.Errorf("larder/mongo: create recipe: %w", err)
	}
	return nil
}

func (s *Store) GetRecipe(ctx context.Context, recipeID id.RecipeID) (*recipe.Recipe, error) {
	var m recipeModel
	err := s.db.Collection(colRecipes).
		FindOne(ctx, bson.M{"_id": recipeID.String()}).
		Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, larder.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("larder/mongo: get recipe: %w", err)
	}
	return fromRecipeModel(&m)
}

func (s *Store) ListRecipes(ctx context.Context, locationID string, opts recipe.ListOpts) ([]*recipe.Recipe, error) {
	filter := bson.M{"location_id": locationID}
	if opts.Status != "" {
		filter["status"] = string(opts.Status)
	}
	if opts.Category != "" {
		filter["category"] = opts.Category
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if opts.Limit > 0 {
		findOpts = findOpts.SetLimit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		findOpts = findOpts.SetSkip(int64(opts.Offset))
	}

	cursor, err := s.db.Collection(colRecipes).Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("larder/mongo: list recipes: %w", err)
	}
	defer cursor.Close(ctx)

	var models []recipeModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("larder/mongo: list recipes decode: %w", err)
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

	res, err := s.db.Collection(colRecipes).
		ReplaceOne(ctx, bson.M{"_id": m.ID}, m)
	if err != nil {
		return fmt.Errorf("larder/mongo: update recipe: %w", err)
	}
	if res.MatchedCount == 0 {
		return larder.ErrRecipeNotFound
	}
	return nil
}

func (s *Store) DeleteRecipe(ctx context.Context, recipeID id.RecipeID) error {
	res, err := s.db.Collection(colRecipes).
		DeleteOne(ctx, bson.M{"_id": recipeID.String()})
	if err != nil {
		return fmt.Errorf("larder/mongo: delete recipe: %w", err)
	}
	if res.DeletedCount == 0 {
		return larder.ErrRecipeNotFound
	}
	return nil
}

func (s *Store) RecipesUsingIngredient(ctx context.Context, ingredientID id.IngredientID) ([]*recipe.Recipe, error) {
	cursor, err := s.db.Collection(colRecipes).Find(ctx,
		bson.M{"lines.ingredient_id": ingredientID.String()},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("larder/mongo: recipes using ingredient: %w", err)
	}
	defer cursor.Close(ctx)

	var models []recipeModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("larder/mongo: recipes using ingredient decode: %w", err)
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

// ==================== Sale Store ====================

// RecordSaleEvent inserts a sale event. Events carrying an idempotency key
// that was already recorded are dropped via the sparse unique index and
// reported as not-inserted rather than as an error.
func (s *Store) RecordSaleEvent(ctx context.Context, e *sale.Event) (bool, error) {
	m := toSaleEventModel(e)
	_, err := s.db.Collection(colSaleEvents).InsertOne(ctx, m)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) && e.IdempotencyKey != "" {
			return false, nil
		}
		return false, fmt.Errorf("larder/mongo: record sale event: %w", err)
	}
	return true, nil
}

func (s *Store) GetSaleEvent(ctx context.Context, eventID id.SaleEventID) (*sale.Event, error) {
	var m saleEventModel
	err := s.db.Collection(colSaleEvents).
		FindOne(ctx, bson.M{"_id": eventID.String()}).
		Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, larder.ErrNotFound
		}
		return nil, fmt.Errorf("larder/mongo: get sale event: %w", err)
	}
	return fromSaleEventModel(&m)
}

func (s *Store) QuerySales(ctx context.Context, locationID string, opts sale.QueryOpts) ([]*sale.Event, error) {
	filter := bson.M{"location_id": locationID}
	if !opts.RecipeID.IsNil() {
		filter["items.recipe_id"] = opts.RecipeID.String()
	}
	if !opts.Start.IsZero() || !opts.End.IsZero() {
		ts := bson.M{}
		if !opts.Start.IsZero() {
			ts["$gte"] = opts.Start
		}
		if !opts.End.IsZero() {
			ts["$lte"] = opts.End
		}
		filter["timestamp"] = ts
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if opts.Limit > 0 {
		findOpts = findOpts.SetLimit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		findOpts = findOpts.SetSkip(int64(opts.Offset))
	}

	cursor, err := s.db.Collection(colSaleEvents).Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("larder/mongo: query sales: %w", err)
	}
	defer cursor.Close(ctx)

	var models []saleEventModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("larder/mongo: query sales decode: %w", err)
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
	res, err := s.db.Collection(colSaleEvents).
		DeleteMany(ctx, bson.M{"timestamp": bson.M{"$lt": before}})
	if err != nil {
		return 0, fmt.Errorf("larder/mongo: purge sales: %w", err)
	}
	return res.DeletedCount, nil
}

// ==================== Journal Store ====================

func (s *Store) AppendJournal(ctx context.Context, e *journal.Entry) error {
	m := toJournalEntryModel(e)
	_, err := s.db.Collection(colJournal).InsertOne(ctx, m)
	if err != nil {
		return fmt.Errorf("larder/mongo: append journal: %w", err)
	}
	return nil
}

func (s *Store) QueryJournal(ctx context.Context, ingredientID id.IngredientID, opts journal.QueryOpts) ([]*journal.Entry, error) {
	filter := bson.M{"ingredient_id": ingredientID.String()}
	if opts.Kind != "" {
		filter["kind"] = string(opts.Kind)
	}
	if !opts.Start.IsZero() || !opts.End.IsZero() {
		ts := bson.M{}
		if !opts.Start.IsZero() {
			ts["$gte"] = opts.Start
		}
		if !opts.End.IsZero() {
			ts["$lte"] = opts.End
		}
		filter["timestamp"] = ts
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	if opts.Limit > 0 {
		findOpts = findOpts.SetLimit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		findOpts = findOpts.SetSkip(int64(opts.Offset))
	}

	cursor, err := s.db.Collection(colJournal).Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("larder/mongo: query journal: %w", err)
	}
	defer cursor.Close(ctx)

	var models []journalEntryModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("larder/mongo: query journal decode: %w", err)
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

// ==================== Alert Cache Store ====================

func (s *Store) GetCachedStatus(ctx context.Context, ingredientID id.IngredientID) (*alert.Status, error) {
	var m statusCacheModel
	err := s.db.Collection(colStatusCache).
		FindOne(ctx, bson.M{
			"_id":        ingredientID.String(),
			"expires_at": bson.M{"$gt": time.Now().UTC()},
		}).
		Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, larder.ErrCacheMiss
		}
		return nil, fmt.Errorf("larder/mongo: get cached status: %w", err)
	}
	return fromStatusCacheModel(&m)
}

func (s *Store) SetCachedStatus(ctx context.Context, ingredientID id.IngredientID, status *alert.Status, ttl time.Duration) error {
	expiresAt := time.Now().UTC().Add(ttl)
	m := toStatusCacheModel(ingredientID, status, expiresAt)

	_, err := s.db.Collection(colStatusCache).
		ReplaceOne(ctx, bson.M{"_id": m.IngredientID}, m,
			options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("larder/mongo: set cached status: %w", err)
	}
	return nil
}

func (s *Store) InvalidateStatus(ctx context.Context, ingredientID id.IngredientID) error {
	_, err := s.db.Collection(colStatusCache).
		DeleteOne(ctx, bson.M{"_id": ingredientID.String()})
	if err != nil {
		return fmt.Errorf("larder/mongo: invalidate status: %w", err)
	}
	return nil
}

// InvalidateAllStatuses drops cached statuses for every ingredient at the
// location. Cache documents do not carry the location, so the ingredient IDs
// are resolved first.
func (s *Store) InvalidateAllStatuses(ctx context.Context, locationID string) error {
	cursor, err := s.db.Collection(colIngredients).Find(ctx,
		bson.M{"location_id": locationID},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return fmt.Errorf("larder/mongo: invalidate all statuses: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return fmt.Errorf("larder/mongo: invalidate all statuses decode: %w", err)
	}
	if len(docs) == 0 {
		return nil
	}

	ids := make([]string, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
	}

	_, err = s.db.Collection(colStatusCache).
		DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return fmt.Errorf("larder/mongo: invalidate all statuses delete: %w", err)
	}
	return nil
}

// ==================== Purchase Order Store ====================

func (s *Store) CreatePurchaseOrder(ctx context.Context, po *purchaseorder.PurchaseOrder) error {
	m := toPurchaseOrderModel(po)
	_, err := s.db.Collection(colOrders).InsertOne(ctx, m)
	if err != nil {
		return fmt.Errorf("larder/mongo: create purchase order: %w", err)
	}
	return nil
}

func (s *Store) GetPurchaseOrder(ctx context.Context, orderID id.PurchaseOrderID) (*purchaseorder.PurchaseOrder, error) {
	var m purchaseOrderModel
	err := s.db.Collection(colOrders).
		FindOne(ctx, bson.M{"_id": orderID.String()}).
		Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, larder.ErrOrderNotFound
		}
		return nil, fmt.Errorf("larder/mongo: get purchase order: %w", err)
	}
	return fromPurchaseOrderModel(&m)
}

func (s *Store) ListPurchaseOrders(ctx context.Context, locationID string, opts purchaseorder.ListOpts) ([]*purchaseorder.PurchaseOrder, error) {
	filter := bson.M{"location_id": locationID}
	if opts.Status != "" {
		filter["status"] = string(opts.Status)
	}
	if !opts.Start.IsZero() || !opts.End.IsZero() {
		ts := bson.M{}
		if !opts.Start.IsZero() {
			ts["$gte"] = opts.Start
		}
		if !opts.End.IsZero() {
			ts["$lte"] = opts.End
		}
		filter["created_at"] = ts
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if opts.Limit > 0 {
		findOpts = findOpts.SetLimit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		findOpts = findOpts.SetSkip(int64(opts.Offset))
	}

	cursor, err := s.db.Collection(colOrders).Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("larder/mongo: list purchase orders: %w", err)
	}
	defer cursor.Close(ctx)

	var models []purchaseOrderModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("larder/mongo: list purchase orders decode: %w", err)
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

	res, err := s.db.Collection(colOrders).
		ReplaceOne(ctx, bson.M{"_id": m.ID}, m)
	if err != nil {
		return fmt.Errorf("larder/mongo: update purchase order: %w", err)
	}
	if res.MatchedCount == 0 {
		return larder.ErrOrderNotFound
	}
	return nil
}

func (s *Store) ListOpenPurchaseOrders(ctx context.Context, supplierID id.SupplierID) ([]*purchaseorder.PurchaseOrder, error) {
	cursor, err := s.db.Collection(colOrders).Find(ctx,
		bson.M{
			"supplier_id": supplierID.String(),
			"status": bson.M{"$in": []string{
				string(purchaseorder.StatusDraft),
				string(purchaseorder.StatusSubmitted),
			}},
		},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("larder/mongo: list open purchase orders: %w", err)
	}
	defer cursor.Close(ctx)

	var models []purchaseOrderModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("larder/mongo: list open purchase orders decode: %w", err)
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
	res, err := s.db.Collection(colOrders).
		UpdateOne(ctx, bson.M{"_id": orderID.String()}, bson.M{"$set": bson.M{
			"status":       string(purchaseorder.StatusSubmitted),
			"submitted_at": submittedAt,
			"updated_at":   now(),
		}})
	if err != nil {
		return fmt.Errorf("larder/mongo: mark order submitted: %w", err)
	}
	if res.MatchedCount == 0 {
		return larder.ErrOrderNotFound
	}
	return nil
}

func (s *Store) MarkOrderReceived(ctx context.Context, orderID id.PurchaseOrderID, receivedAt time.Time) error {
	res, err := s.db.Collection(colOrders).
		UpdateOne(ctx, bson.M{"_id": orderID.String()}, bson.M{"$set": bson.M{
			"status":      string(purchaseorder.StatusReceived),
			"received_at": receivedAt,
			"updated_at":  now(),
		}})
	if err != nil {
		return fmt.Errorf("larder/mongo: mark order received: %w", err)
	}
	if res.MatchedCount == 0 {
		return larder.ErrOrderNotFound
	}
	return nil
}

func (s *Store) MarkOrderCanceled(ctx context.Context, orderID id.PurchaseOrderID, reason string) error {
	t := now()
	res, err := s.db.Collection(colOrders).
		UpdateOne(ctx, bson.M{"_id": orderID.String()}, bson.M{"$set": bson.M{
			"status":        string(purchaseorder.StatusCanceled),
			"canceled_at":   t,
			"cancel_reason": reason,
			"updated_at":    t,
		}})
	if err != nil {
		return fmt.Errorf("larder/mongo: mark order canceled: %w", err)
	}
	if res.MatchedCount == 0 {
		return larder.ErrOrderNotFound
	}
	return nil
}

// ==================== Supplier Store ====================

func (s *Store) CreateSupplier(ctx context.Context, sup *supplier.Supplier) error {
	m := toSupplierModel(sup)
	_, err := s.db.Collection(colSuppliers).InsertOne(ctx, m)
	if err != nil {
		return fmt.Errorf("larder/mongo: create supplier: %w", err)
	}
	return nil
}

func (s *Store) GetSupplier(ctx context.Context, supplierID id.SupplierID) (*supplier.Supplier, error) {
	var m supplierModel
	err := s.db.Collection(colSuppliers).
		FindOne(ctx, bson.M{"_id": supplierID.String()}).
		Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, larder.ErrSupplierNotFound
		}
		return nil, fmt.Errorf("larder/mongo: get supplier: %w", err)
	}
	return fromSupplierModel(&m)
}

func (s *Store) ListSuppliers(ctx context.Context, locationID string, opts supplier.ListOpts) ([]*supplier.Supplier, error) {
	filter := bson.M{"location_id": locationID}
	if opts.Active {
		filter["active"] = true
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if opts.Limit > 0 {
		findOpts = findOpts.SetLimit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		findOpts = findOpts.SetSkip(int64(opts.Offset))
	}

	cursor, err := s.db.Collection(colSuppliers).Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("larder/mongo: list suppliers: %w", err)
	}
	defer cursor.Close(ctx)

	var models []supplierModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("larder/mongo: list suppliers decode: %w", err)
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

	res, err := s.db.Collection(colSuppliers).
		ReplaceOne(ctx, bson.M{"_id": m.ID}, m)
	if err != nil {
		return fmt.Errorf("larder/mongo: update supplier: %w", err)
	}
	if res.MatchedCount == 0 {
		return larder.ErrSupplierNotFound
	}
	return nil
}

func (s *Store) DeleteSupplier(ctx context.Context, supplierID id.SupplierID) error {
	res, err := s.db.Collection(colSuppliers).
		DeleteOne(ctx, bson.M{"_id": supplierID.String()})
	if err != nil {
		return fmt.Errorf("larder/mongo: delete supplier: %w", err)
	}
	if res.DeletedCount == 0 {
		return larder.ErrSupplierNotFound
	}
	return nil
}

// ==================== Onboarding Store ====================

func (s *Store) CreateOnboarding(ctx context.Context, p *onboarding.Progress) error {
	m := toOnboardingModel(p)
	_, err := s.db.Collection(colOnboarding).InsertOne(ctx, m)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return larder.ErrAlreadyExists
		}
		return fmt.Errorf("larder/mongo: create onboarding: %w", err)
	}
	return nil
}

func (s *Store) GetOnboarding(ctx context.Context, onboardingID id.OnboardingID) (*onboarding.Progress, error) {
	var m onboardingModel
	err := s.db.Collection(colOnboarding).
		FindOne(ctx, bson.M{"_id": onboardingID.String()}).
		Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, larder.ErrOnboardingNotFound
		}
		return nil, fmt.Errorf("larder/mongo: get onboarding: %w", err)
	}
	return fromOnboardingModel(&m)
}

func (s *Store) GetOnboardingByLocation(ctx context.Context, locationID string) (*onboarding.Progress, error) {
	var m onboardingModel
	err := s.db.Collection(colOnboarding).
		FindOne(ctx, bson.M{"location_id": locationID}).
		Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, larder.ErrOnboardingNotFound
		}
		return nil, fmt.Errorf("larder/mongo: get onboarding by location: %w", err)
	}
	return fromOnboardingModel(&m)
}

func (s *Store) UpdateOnboarding(ctx context.Context, p *onboarding.Progress) error {
	m := toOnboardingModel(p)
	m.UpdatedAt = now()

	res, err := s.db.Collection(colOnboarding).
		ReplaceOne(ctx, bson.M{"_id": m.ID}, m)
	if err != nil {
		return fmt.Errorf("larder/mongo: update onboarding: %w", err)
	}
	if res.MatchedCount == 0 {
		return larder.ErrOnboardingNotFound
	}
	return nil
}

// ==================== Helpers ====================

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all larder collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colIngredients: {
			{Keys: bson.D{{Key: "location_id", Value: 1}, {Key: "name", Value: 1}}},
			{Keys: bson.D{{Key: "location_id", Value: 1}, {Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "supplier_id", Value: 1}}},
		},
		colRecipes: {
			{Keys: bson.D{{Key: "location_id", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "lines.ingredient_id", Value: 1}}},
		},
		colSaleEvents: {
			{Keys: bson.D{{Key: "location_id", Value: 1}, {Key: "timestamp", Value: -1}}},
			{Keys: bson.D{{Key: "timestamp", Value: -1}}},
			{
				Keys:    bson.D{{Key: "idempotency_key", Value: 1}},
				Options: options.Index().SetUnique(true).SetSparse(true),
			},
		},
		colJournal: {
			{Keys: bson.D{{Key: "ingredient_id", Value: 1}, {Key: "timestamp", Value: 1}}},
			{Keys: bson.D{{Key: "ingredient_id", Value: 1}, {Key: "kind", Value: 1}, {Key: "timestamp", Value: 1}}},
		},
		colStatusCache: {
			{Keys: bson.D{{Key: "expires_at", Value: 1}}},
		},
		colOrders: {
			{Keys: bson.D{{Key: "location_id", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "supplier_id", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "location_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		colSuppliers: {
			{Keys: bson.D{{Key: "location_id", Value: 1}, {Key: "active", Value: 1}}},
		},
		colOnboarding: {
			{
				Keys:    bson.D{{Key: "location_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
	}
}
