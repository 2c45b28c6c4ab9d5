// Package larder provides a composable restaurant back-of-house engine for Go applications.
//
// Larder is designed as a library, not a service. Import it directly into your Go
// application for maximum performance and flexibility. It provides:
//
//   - Ingredient inventory with an append-only stock journal
//   - Sale-driven depletion wired to recipe compositions
//   - High-throughput sale ingestion with buffered background flushing
//   - Recipe costing and margin analysis with integer money arithmetic
//   - Purchase order generation from reorder points and par levels
//   - Guided onboarding for new restaurant setups
//   - AI-assisted par level, margin, and recipe suggestions
//   - Business-hours extraction from free-form text
//
// # Quick Start
//
// Create a larder instance with your preferred store:
//
//	import (
//	    "github.com/xraph/larder"
//	    "github.com/xraph/larder/store/postgres"
//	)
//
//	// Initialize store
//	store, err := postgres.New(databaseURL)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Create larder
//	l := larder.New(store)
//
//	// Start the larder (begins background workers)
//	if err := l.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Stop()
//
// # Core Concepts
//
// Ingredients track what is physically on hand:
//
//	flour := &ingredient.Ingredient{
//	    Name:         "00 Flour",
//	    Unit:         types.Gram,
//	    Stock:        500,
//	    ReorderPoint: 1000,
//	    ParLevel:     5000,
//	    UnitCost:     types.USD(1), // per gram
//	}
//
// Recipes map menu items to the ingredients they consume:
//
//	pizza := &recipe.Recipe{
//	    Name: "Margherita",
//	    Lines: []recipe.Line{
//	        {IngredientID: flour.ID, Quantity: 250, Unit: types.Gram},
//	    },
//	}
//
// Sales deplete stock through the recipe composition:
//
//	result, err := l.RecordSale(ctx, &sale.Event{
//	    Items: []sale.Item{{RecipeID: pizza.ID, Quantity: 3}},
//	})
//	// 750g of flour consumed; stock clamps at zero, the journal
//	// records the true delta so shrinkage stays visible.
//
// # Performance
//
// Larder is optimized for production workloads:
//
//   - Stock status checks served from a TTL cache
//   - Sale ingestion buffered and flushed by a background worker
//   - Atomic store-side stock decrements; concurrent sales never lose updates
//
// All monetary calculations use integer arithmetic to avoid floating-point
// precision issues. The Money type represents amounts in the smallest currency
// unit (cents for USD, pence for GBP, etc).
//
// # TypeID
//
// All entities use TypeID for globally unique, type-safe identifiers:
//
//	ing_01h2xcejqtf2nbrexx3vqjhp41   // Ingredient ID
//	rcp_01h2xcejqtf2nbrexx3vqjhp41   // Recipe ID
//	po_01h455vb4pex5vsknk084sn02q    // Purchase order ID
//
// TypeIDs are K-sortable, making them ideal for database indexes and
// providing natural time-ordering of entities.
package larder
