package ingredient

import (
	"github.com/xraph/larder/id"
	"github.com/xraph/larder/types"
)

type Category string

const (
	CategoryProduce  Category = "produce"
	CategoryProtein  Category = "protein"
	CategoryDairy    Category = "dairy"
	CategoryDry      Category = "dry"
	CategoryBeverage Category = "beverage"
	CategoryOther    Category = "other"
)

type Ingredient struct {
	types.Entity
	ID           id.IngredientID   `json:"id"`
	Name         string            `json:"name"`
	Category     Category          `json:"category"`
	Unit         types.Unit        `json:"unit"`
	Stock        float64           `json:"stock"`
	ReorderPoint float64           `json:"reorder_point"`
	ParLevel     float64           `json:"par_level"`
	UnitCost     types.Money       `json:"unit_cost"`
	SupplierID   id.SupplierID     `json:"supplier_id,omitempty"`
	LocationID   string            `json:"location_id"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// BelowReorder reports whether on-hand stock has reached the reorder point.
func (i *Ingredient) BelowReorder() bool {
	return i.Stock <= i.ReorderPoint
}

// ShortOfPar returns the quantity needed to refill to par, never negative.
func (i *Ingredient) ShortOfPar() float64 {
	if i.Stock >= i.ParLevel {
		return 0
	}
	return i.ParLevel - i.Stock
}
