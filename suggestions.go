package larder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/larder/id"
	"github.com/xraph/larder/ingredient"
	"github.com/xraph/larder/journal"
	"github.com/xraph/larder/recipe"
	"github.com/xraph/larder/suggest"
)

// completer resolves the suggestion backend: the one configured via
// WithCompleter, else the first completer plugin.
func (l *Larder) completerOrErr() (suggest.Completer, error) {
	if l.completer != nil {
		return l.completer, nil
	}
	for _, p := range l.plugins.GetCompleters() {
		if c, ok := p.Completer().(suggest.Completer); ok && c != nil {
			return c, nil
		}
	}
	return nil, ErrNoCompleter
}

// SuggestParLevels asks the completion backend for par level and reorder
// point proposals, grounded on the last 7 days of sale consumption.
func (l *Larder) SuggestParLevels(ctx context.Context, locationID string) ([]suggest.ParSuggestion, error) {
	c, err := l.completerOrErr()
	if err != nil {
		return nil, err
	}

	ings, err := l.store.ListIngredients(ctx, locationID, ingredient.ListOpts{})
	if err != nil {
		return nil, err
	}
	if len(ings) == 0 {
		return nil, ErrIngredientNotFound
	}

	since := time.Now().AddDate(0, 0, -7)
	usage := make([]suggest.IngredientUsage, 0, len(ings))
	for _, ing := range ings {
		entries, err := l.store.QueryJournal(ctx, ing.ID, journal.QueryOpts{
			Kind:  journal.KindSale,
			Start: since,
		})
		if err != nil {
			return nil, err
		}

		var consumed float64
		for _, e := range entries {
			consumed += -e.Delta
		}

		usage = append(usage, suggest.IngredientUsage{
			IngredientID: ing.ID.String(),
			Name:         ing.Name,
			Unit:         string(ing.Unit),
			Stock:        ing.Stock,
			ParLevel:     ing.ParLevel,
			ReorderPoint: ing.ReorderPoint,
			Consumed7d:   consumed,
		})
	}

	reply, err := c.Chat(ctx, suggest.ParLevelsPrompt(usage))
	if err != nil {
		return nil, errors.Join(ErrCompletionFailed, err)
	}

	out, err := suggest.ParseParSuggestions(reply)
	if err != nil {
		return nil, errors.Join(ErrMalformedResponse, err)
	}

	l.emitSuggestion(ctx, suggest.KindParLevels, locationID, out)
	return out, nil
}

// SuggestMargins asks the completion backend for menu price proposals,
// grounded on current ingredient costs and prices.
func (l *Larder) SuggestMargins(ctx context.Context, locationID string) ([]suggest.MarginSuggestion, error) {
	c, err := l.completerOrErr()
	if err != nil {
		return nil, err
	}

	recipes, err := l.store.ListRecipes(ctx, locationID, recipe.ListOpts{Status: recipe.StatusActive})
	if err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		return nil, ErrRecipeNotFound
	}

	economics := make([]suggest.RecipeEconomics, 0, len(recipes))
	for _, r := range recipes {
		cost, err := l.CostRecipe(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		economics = append(economics, suggest.RecipeEconomics{
			RecipeID:  r.ID.String(),
			Name:      r.Name,
			Cost:      cost.Total.String(),
			MenuPrice: r.MenuPrice.String(),
		})
	}

	reply, err := c.Chat(ctx, suggest.MarginsPrompt(economics))
	if err != nil {
		return nil, errors.Join(ErrCompletionFailed, err)
	}

	out, err := suggest.ParseMarginSuggestions(reply)
	if err != nil {
		return nil, errors.Join(ErrMalformedResponse, err)
	}

	l.emitSuggestion(ctx, suggest.KindMargins, locationID, out)
	return out, nil
}

// SuggestRecipeSteps asks the completion backend for preparation steps for
// one recipe.
func (l *Larder) SuggestRecipeSteps(ctx context.Context, recipeID id.RecipeID) ([]string, error) {
	c, err := l.completerOrErr()
	if err != nil {
		return nil, err
	}

	r, err := l.store.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(r.Lines))
	for _, line := range r.Lines {
		ing, err := l.store.GetIngredient(ctx, line.IngredientID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, fmt.Sprintf("%.2f %s %s", line.Quantity, line.Unit, ing.Name))
	}

	reply, err := c.Chat(ctx, suggest.RecipeStepsPrompt(r.Name, lines))
	if err != nil {
		return nil, errors.Join(ErrCompletionFailed, err)
	}

	steps, err := suggest.ParseSteps(reply)
	if err != nil {
		return nil, errors.Join(ErrMalformedResponse, err)
	}

	l.emitSuggestion(ctx, suggest.KindRecipeSteps, recipeID.String(), steps)
	return steps, nil
}

func (l *Larder) emitSuggestion(ctx context.Context, kind suggest.Kind, subject string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		l.logger.Warn("failed to encode suggestion payload", "kind", kind, "error", err)
		return
	}

	l.plugins.EmitSuggestionReady(ctx, &suggest.Suggestion{
		ID:        id.NewSuggestionID().String(),
		Kind:      kind,
		Subject:   subject,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	})
	l.logger.Debug("suggestion ready", "kind", kind, "subject", subject)
}
