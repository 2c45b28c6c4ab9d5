package suggest

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an inventory analyst for a restaurant ` +
	`back-of-house system. Answer with JSON only, no prose, matching the ` +
	`schema given in the request.`

// IngredientUsage is the per-ingredient context fed to the par-level prompt.
type IngredientUsage struct {
	IngredientID string
	Name         string
	Unit         string
	Stock        float64
	ParLevel     float64
	ReorderPoint float64
	Consumed7d   float64
}

// RecipeEconomics is the per-recipe context fed to the margin prompt.
type RecipeEconomics struct {
	RecipeID  string
	Name      string
	Cost      string
	MenuPrice string
}

// ParLevelsPrompt builds the chat messages asking for par level proposals.
func ParLevelsPrompt(usage []IngredientUsage) []Message {
	var b strings.Builder
	b.WriteString("Propose par levels and reorder points for these ingredients ")
	b.WriteString("based on the last 7 days of consumption. Reply with a JSON array of ")
	b.WriteString(`{"ingredient_id","par_level","reorder_point","rationale"}.` + "\n\n")
	for _, u := range usage {
		fmt.Fprintf(&b, "- %s (%s): stock %.2f %s, par %.2f, reorder %.2f, consumed last 7d %.2f\n",
			u.Name, u.IngredientID, u.Stock, u.Unit, u.ParLevel, u.ReorderPoint, u.Consumed7d)
	}
	return []Message{
		{Role: RoleSystem, Content: systemPrompt},
		{Role: RoleUser, Content: b.String()},
	}
}

// MarginsPrompt builds the chat messages asking for menu price proposals.
func MarginsPrompt(economics []RecipeEconomics) []Message {
	var b strings.Builder
	b.WriteString("Propose menu prices targeting a healthy food-cost percentage. ")
	b.WriteString("Prices are integers in the smallest currency unit. Reply with a JSON array of ")
	b.WriteString(`{"recipe_id","suggested_price","currency","rationale"}.` + "\n\n")
	for _, e := range economics {
		fmt.Fprintf(&b, "- %s (%s): ingredient cost %s, current menu price %s\n",
			e.Name, e.RecipeID, e.Cost, e.MenuPrice)
	}
	return []Message{
		{Role: RoleSystem, Content: systemPrompt},
		{Role: RoleUser, Content: b.String()},
	}
}

// RecipeStepsPrompt builds the chat messages asking for preparation steps.
func RecipeStepsPrompt(name string, lines []string) []Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Write concise preparation steps for %q using these ingredients. ", name)
	b.WriteString("Reply with a JSON array of step strings.\n\n")
	for _, line := range lines {
		fmt.Fprintf(&b, "- %s\n", line)
	}
	return []Message{
		{Role: RoleSystem, Content: systemPrompt},
		{Role: RoleUser, Content: b.String()},
	}
}
