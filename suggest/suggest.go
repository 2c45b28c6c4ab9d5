package suggest

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Kind string

const (
	KindParLevels   Kind = "par_levels"
	KindMargins     Kind = "margins"
	KindRecipeSteps Kind = "recipe_steps"
)

// Suggestion is a produced suggestion with its parsed payload retained as
// raw JSON for callers that want to re-decode it.
type Suggestion struct {
	ID        string          `json:"id"`
	Kind      Kind            `json:"kind"`
	Subject   string          `json:"subject,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// ParSuggestion proposes stocking levels for one ingredient.
type ParSuggestion struct {
	IngredientID string  `json:"ingredient_id"`
	ParLevel     float64 `json:"par_level"`
	ReorderPoint float64 `json:"reorder_point"`
	Rationale    string  `json:"rationale,omitempty"`
}

// MarginSuggestion proposes a menu price for one recipe, in the smallest
// currency unit.
type MarginSuggestion struct {
	RecipeID       string `json:"recipe_id"`
	SuggestedPrice int64  `json:"suggested_price"`
	Currency       string `json:"currency"`
	Rationale      string `json:"rationale,omitempty"`
}

// StepsSuggestion proposes preparation steps for a recipe.
type StepsSuggestion struct {
	RecipeID string   `json:"recipe_id"`
	Steps    []string `json:"steps"`
}

// ExtractJSON pulls the first JSON value out of a model reply, tolerating
// markdown fences and surrounding prose.
func ExtractJSON(reply string) (string, error) {
	s := strings.TrimSpace(reply)

	if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+3:]
		s = strings.TrimPrefix(s, "json")
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexAny(s, "[{")
	if start < 0 {
		return "", fmt.Errorf("suggest: no JSON in reply")
	}

	end := strings.LastIndexAny(s, "]}")
	if end < start {
		return "", fmt.Errorf("suggest: unterminated JSON in reply")
	}

	return s[start : end+1], nil
}

// ParseParSuggestions decodes a model reply into par suggestions.
func ParseParSuggestions(reply string) ([]ParSuggestion, error) {
	raw, err := ExtractJSON(reply)
	if err != nil {
		return nil, err
	}

	var out []ParSuggestion
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("suggest: decode par suggestions: %w", err)
	}
	return out, nil
}

// ParseMarginSuggestions decodes a model reply into margin suggestions.
func ParseMarginSuggestions(reply string) ([]MarginSuggestion, error) {
	raw, err := ExtractJSON(reply)
	if err != nil {
		return nil, err
	}

	var out []MarginSuggestion
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("suggest: decode margin suggestions: %w", err)
	}
	return out, nil
}

// ParseSteps decodes a model reply into a list of preparation steps.
func ParseSteps(reply string) ([]string, error) {
	raw, err := ExtractJSON(reply)
	if err != nil {
		return nil, err
	}

	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("suggest: decode steps: %w", err)
	}
	return out, nil
}
