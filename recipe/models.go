package recipe

import (
	"github.com/xraph/larder/id"
	"github.com/xraph/larder/types"
)

type Status string

const (
	StatusActive  Status = "active"
	StatusDraft   Status = "draft"
	StatusRetired Status = "retired"
)

type Recipe struct {
	types.Entity
	ID         id.RecipeID       `json:"id"`
	Name       string            `json:"name"`
	Category   string            `json:"category"`
	Status     Status            `json:"status"`
	YieldQty   float64           `json:"yield_qty"`
	YieldUnit  types.Unit        `json:"yield_unit"`
	Lines      []Line            `json:"lines"`
	MenuPrice  types.Money       `json:"menu_price"`
	Steps      []string          `json:"steps,omitempty"`
	LocationID string            `json:"location_id"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Line maps one ingredient to the quantity consumed per unit sold.
type Line struct {
	IngredientID id.IngredientID `json:"ingredient_id"`
	Quantity     float64         `json:"quantity"`
	Unit         types.Unit      `json:"unit"`
	Note         string          `json:"note,omitempty"`
}

func (r *Recipe) FindLine(ingredientID id.IngredientID) *Line {
	for i := range r.Lines {
		if r.Lines[i].IngredientID == ingredientID {
			return &r.Lines[i]
		}
	}
	return nil
}

// CostResult breaks down what one unit of the recipe costs to make.
type CostResult struct {
	RecipeID id.RecipeID `json:"recipe_id"`
	Total    types.Money `json:"total"`
	PerLine  []LineCost  `json:"per_line"`
}

type LineCost struct {
	IngredientID id.IngredientID `json:"ingredient_id"`
	Name         string          `json:"name"`
	Quantity     float64         `json:"quantity"`
	Unit         types.Unit      `json:"unit"`
	Cost         types.Money     `json:"cost"`
}

// MarginResult compares menu price against ingredient cost.
type MarginResult struct {
	RecipeID      id.RecipeID `json:"recipe_id"`
	MenuPrice     types.Money `json:"menu_price"`
	Cost          types.Money `json:"cost"`
	GrossProfit   types.Money `json:"gross_profit"`
	MarginPercent float64     `json:"margin_percent"`
}
