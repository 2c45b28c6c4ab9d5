package recipe

import (
	"context"

	"github.com/xraph/larder/id"
)

type Store interface {
	Create(ctx context.Context, r *Recipe) error
	Get(ctx context.Context, recipeID id.RecipeID) (*Recipe, error)
	List(ctx context.Context, locationID string, opts ListOpts) ([]*Recipe, error)
	Update(ctx context.Context, r *Recipe) error
	Delete(ctx context.Context, recipeID id.RecipeID) error
	UsingIngredient(ctx context.Context, ingredientID id.IngredientID) ([]*Recipe, error)
}

type ListOpts struct {
	Status   Status
	Category string
	Limit    int
	Offset   int
}
