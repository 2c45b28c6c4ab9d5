package larder

import (
	"context"
	"fmt"

	"github.com/xraph/larder/id"
	"github.com/xraph/larder/ingredient"
	"github.com/xraph/larder/recipe"
	"github.com/xraph/larder/types"
)

// ──────────────────────────────────────────────────
// Ingredient Management
// ──────────────────────────────────────────────────

// CreateIngredient creates a new inventory ingredient.
func (l *Larder) CreateIngredient(ctx context.Context, ing *ingredient.Ingredient) error {
	if ing.Name == "" {
		return ValidationError{Field: "name", Message: "required"}
	}
	if ing.Stock < 0 {
		return ErrNegativeStock
	}

	if ing.ID == (id.IngredientID{}) {
		ing.ID = id.NewIngredientID()
	}
	if ing.Unit == "" {
		ing.Unit = types.Each
	}
	ing.Entity = types.NewEntity()

	if err := l.store.CreateIngredient(ctx, ing); err != nil {
		return err
	}

	l.plugins.EmitIngredientCreated(ctx, ing)
	return nil
}

// GetIngredient retrieves an ingredient by ID.
func (l *Larder) GetIngredient(ctx context.Context, ingredientID id.IngredientID) (*ingredient.Ingredient, error) {
	return l.store.GetIngredient(ctx, ingredientID)
}

// ListIngredients lists ingredients for a location.
func (l *Larder) ListIngredients(ctx context.Context, locationID string, opts ingredient.ListOpts) ([]*ingredient.Ingredient, error) {
	return l.store.ListIngredients(ctx, locationID, opts)
}

// UpdateIngredient updates an ingredient. Stock is not updated here; stock
// changes go through AdjustStock or depletion so the journal stays complete.
func (l *Larder) UpdateIngredient(ctx context.Context, ing *ingredient.Ingredient) error {
	current, err := l.store.GetIngredient(ctx, ing.ID)
	if err != nil {
		return err
	}

	ing.Stock = current.Stock
	ing.CreatedAt = current.CreatedAt
	ing.Touch()

	if err := l.store.UpdateIngredient(ctx, ing); err != nil {
		return err
	}

	_ = l.store.InvalidateStatus(ctx, ing.ID) //nolint:errcheck // best-effort cache invalidation
	l.plugins.EmitIngredientUpdated(ctx, current, ing)
	return nil
}

// DeleteIngredient deletes an ingredient unless a recipe still uses it.
func (l *Larder) DeleteIngredient(ctx context.Context, ingredientID id.IngredientID) error {
	users, err := l.store.RecipesUsingIngredient(ctx, ingredientID)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return fmt.Errorf("%w: %d recipes", ErrIngredientInUse, len(users))
	}

	if err := l.store.DeleteIngredient(ctx, ingredientID); err != nil {
		return err
	}

	_ = l.store.InvalidateStatus(ctx, ingredientID) //nolint:errcheck // best-effort cache invalidation
	return nil
}

// ──────────────────────────────────────────────────
// Recipe Management
// ──────────────────────────────────────────────────

// CreateRecipe creates a new recipe. Every line must reference an existing
// ingredient with a positive quantity.
func (l *Larder) CreateRecipe(ctx context.Context, r *recipe.Recipe) error {
	if r.Name == "" {
		return ValidationError{Field: "name", Message: "required"}
	}
	if len(r.Lines) == 0 {
		return ErrEmptyRecipe
	}

	seen := make(map[string]bool, len(r.Lines))
	for i := range r.Lines {
		line := &r.Lines[i]
		if line.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		if seen[line.IngredientID.String()] {
			return ErrDuplicateLine
		}
		seen[line.IngredientID.String()] = true

		if _, err := l.store.GetIngredient(ctx, line.IngredientID); err != nil {
			return fmt.Errorf("recipe line %d: %w", i, err)
		}
	}

	if r.ID == (id.RecipeID{}) {
		r.ID = id.NewRecipeID()
	}
	if r.Status == "" {
		r.Status = recipe.StatusActive
	}
	if r.YieldQty == 0 {
		r.YieldQty = 1
		r.YieldUnit = types.Each
	}
	r.Entity = types.NewEntity()

	if err := l.store.CreateRecipe(ctx, r); err != nil {
		return err
	}

	l.plugins.EmitRecipeCreated(ctx, r)
	return nil
}

// GetRecipe retrieves a recipe by ID.
func (l *Larder) GetRecipe(ctx context.Context, recipeID id.RecipeID) (*recipe.Recipe, error) {
	return l.store.GetRecipe(ctx, recipeID)
}

// ListRecipes lists recipes for a location.
func (l *Larder) ListRecipes(ctx context.Context, locationID string, opts recipe.ListOpts) ([]*recipe.Recipe, error) {
	return l.store.ListRecipes(ctx, locationID, opts)
}

// UpdateRecipe updates a recipe.
func (l *Larder) UpdateRecipe(ctx context.Context, r *recipe.Recipe) error {
	current, err := l.store.GetRecipe(ctx, r.ID)
	if err != nil {
		return err
	}
	if len(r.Lines) == 0 {
		return ErrEmptyRecipe
	}

	r.CreatedAt = current.CreatedAt
	r.Touch()

	if err := l.store.UpdateRecipe(ctx, r); err != nil {
		return err
	}

	l.plugins.EmitRecipeUpdated(ctx, current, r)
	return nil
}

// DeleteRecipe deletes a recipe.
func (l *Larder) DeleteRecipe(ctx context.Context, recipeID id.RecipeID) error {
	return l.store.DeleteRecipe(ctx, recipeID)
}

// ──────────────────────────────────────────────────
// Costing
// ──────────────────────────────────────────────────

// CostRecipe computes the ingredient cost of one unit of the recipe from
// current unit costs. Unit cost is per stocking unit, so line quantities
// convert before pricing.
func (l *Larder) CostRecipe(ctx context.Context, recipeID id.RecipeID) (*recipe.CostResult, error) {
	r, err := l.store.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	result := &recipe.CostResult{RecipeID: r.ID}

	for _, line := range r.Lines {
		ing, err := l.store.GetIngredient(ctx, line.IngredientID)
		if err != nil {
			return nil, fmt.Errorf("cost recipe %s: %w", recipeID, err)
		}

		qty, err := types.Convert(line.Quantity, line.Unit, ing.Unit)
		if err != nil {
			return nil, fmt.Errorf("%w: %s to %s", ErrUnitMismatch, line.Unit, ing.Unit)
		}

		cost := ing.UnitCost.MultiplyQuantity(qty)
		result.PerLine = append(result.PerLine, recipe.LineCost{
			IngredientID: ing.ID,
			Name:         ing.Name,
			Quantity:     line.Quantity,
			Unit:         line.Unit,
			Cost:         cost,
		})

		if result.Total.Currency == "" {
			result.Total = types.Zero(cost.Currency)
		}
		result.Total = result.Total.Add(cost)
	}

	return result, nil
}

// RecipeMargin compares menu price against ingredient cost.
func (l *Larder) RecipeMargin(ctx context.Context, recipeID id.RecipeID) (*recipe.MarginResult, error) {
	r, err := l.store.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	cost, err := l.CostRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	result := &recipe.MarginResult{
		RecipeID:  r.ID,
		MenuPrice: r.MenuPrice,
		Cost:      cost.Total,
	}

	if r.MenuPrice.Currency != "" && r.MenuPrice.Currency == cost.Total.Currency {
		result.GrossProfit = r.MenuPrice.Subtract(cost.Total)
		if r.MenuPrice.Amount > 0 {
			result.MarginPercent = float64(result.GrossProfit.Amount) / float64(r.MenuPrice.Amount) * 100
		}
	}

	return result, nil
}
