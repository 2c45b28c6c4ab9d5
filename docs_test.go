package larder_test

import (
	"context"
	"log"
	"log/slog"
	"testing"
	"time"

	"github.com/xraph/larder"
	"github.com/xraph/larder/ingredient"
	"github.com/xraph/larder/recipe"
	"github.com/xraph/larder/sale"
	"github.com/xraph/larder/store/memory"
	"github.com/xraph/larder/types"
)

// TestDocumentationExamples verifies that all examples in the documentation compile
func TestDocumentationExamples(t *testing.T) {
	// Test Quick Start example from README
	t.Run("QuickStartExample", func(t *testing.T) {
		// Create store (memory for demo, use PostgreSQL in production)
		store := memory.New()

		// Initialize Larder
		l := larder.New(store,
			larder.WithLogger(slog.Default()),
			larder.WithSaleConfig(100, 5*time.Second),
			larder.WithStatusCacheTTL(30*time.Second),
		)

		// Start the engine
		ctx := context.Background()
		if err := l.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer l.Stop()

		// Create an ingredient
		flour := &ingredient.Ingredient{
			Name:         "00 Flour",
			Category:     ingredient.CategoryDry,
			Unit:         types.Gram,
			Stock:        5000,
			ReorderPoint: 1000,
			ParLevel:     8000,
			UnitCost:     types.USD(1), // $0.01 per gram
			LocationID:   "loc_main",
		}

		if err := l.CreateIngredient(ctx, flour); err != nil {
			t.Fatal(err)
		}

		// Create a recipe using it
		pizza := &recipe.Recipe{
			Name:      "Margherita Pizza",
			Status:    recipe.StatusActive,
			YieldQty:  1,
			YieldUnit: types.Each,
			Lines: []recipe.Line{
				{IngredientID: flour.ID, Quantity: 250, Unit: types.Gram},
			},
			MenuPrice:  types.USD(1600), // $16.00
			LocationID: "loc_main",
		}

		if err := l.CreateRecipe(ctx, pizza); err != nil {
			t.Fatal(err)
		}

		// Cost the recipe and check the margin
		cost, err := l.CostRecipe(ctx, pizza.ID)
		if err != nil {
			t.Fatal(err)
		}
		log.Printf("Plate cost: %s\n", cost.Total.String())

		// Record a sale; stock depletes per recipe line
		result, err := l.RecordSale(ctx, &sale.Event{
			LocationID: "loc_main",
			Items: []sale.Item{
				{RecipeID: pizza.ID, Quantity: 2},
			},
			Source: "pos",
		})
		if err != nil {
			t.Fatal(err)
		}
		log.Printf("Depleted %d items\n", len(result.Items))

		// Check the stock status
		status, err := l.StockStatus(ctx, flour.ID)
		if err != nil {
			t.Fatal(err)
		}
		if status.Low {
			log.Printf("Reorder %s: suggested %.0f\n", status.Name, status.SuggestedOrder)
		}
	})

	// Test Money type examples
	t.Run("MoneyExamples", func(t *testing.T) {
		// Constructors
		_ = types.USD(4900)   // $49.00
		_ = types.EUR(9900)   // €99.00
		_ = types.Zero("usd") // $0.00

		// Arithmetic
		m1 := types.USD(100)
		m2 := types.USD(200)
		_ = m1.Add(m2)     // $3.00
		_ = m1.Multiply(3) // $3.00
		_ = m1.Divide(2)   // $0.50

		// Comparison
		if m1.LessThan(m2) {
			// m1 is less than m2
		}

		// Formatting
		_ = m1.String()      // "$1.00"
		_ = m1.FormatMajor() // "1.00"
	})

	// Test unit conversion examples
	t.Run("UnitExamples", func(t *testing.T) {
		// Normalize free-form POS units
		_ = types.ParseUnit("grams") // types.Gram
		_ = types.ParseUnit("KG")    // types.Kilogram

		// Convert between compatible units
		if got, err := types.Convert(1.5, types.Kilogram, types.Gram); err != nil || got != 1500 {
			t.Fatalf("Convert(1.5, kg, g) = %v, %v", got, err)
		}

		// Mismatched dimensions are an error
		if _, err := types.Convert(1, types.Gram, types.Liter); err == nil {
			t.Fatal("expected incompatible unit error")
		}
	})
}
