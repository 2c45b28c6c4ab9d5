package alert

import "github.com/xraph/larder/id"

// Status is the low-stock assessment for one ingredient.
type Status struct {
	IngredientID   id.IngredientID `json:"ingredient_id"`
	Name           string          `json:"name"`
	Low            bool            `json:"low"`
	Stock          float64         `json:"stock"`
	ReorderPoint   float64         `json:"reorder_point"`
	ParLevel       float64         `json:"par_level"`
	SuggestedOrder float64         `json:"suggested_order"`
	Reason         string          `json:"reason,omitempty"`
}
