package larder_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xraph/larder"
	"github.com/xraph/larder/recipe"
	"github.com/xraph/larder/store/memory"
	"github.com/xraph/larder/suggest"
	"github.com/xraph/larder/types"
)

// stubCompleter returns a canned reply and records the prompt it was given.
type stubCompleter struct {
	reply    string
	err      error
	messages []suggest.Message
}

func (s *stubCompleter) Chat(_ context.Context, messages []suggest.Message) (string, error) {
	s.messages = messages
	return s.reply, s.err
}

func TestSuggestParLevels(t *testing.T) {
	stub := &stubCompleter{
		reply: "```json\n[{\"ingredient_id\":\"ing_x\",\"par_level\":9000,\"reorder_point\":2500}]\n```",
	}
	l := larder.New(memory.New(), larder.WithCompleter(stub))
	ctx := context.Background()

	seedIngredient(t, l, "Flour", types.Gram, 2000, 500, 4000)

	out, err := l.SuggestParLevels(ctx, "loc_main")
	if err != nil {
		t.Fatalf("SuggestParLevels: %v", err)
	}
	if len(out) != 1 || out[0].ParLevel != 9000 {
		t.Errorf("unexpected suggestions: %+v", out)
	}

	// The prompt carried the ingredient context.
	if len(stub.messages) != 2 || !strings.Contains(stub.messages[1].Content, "Flour") {
		t.Errorf("prompt missing ingredient context: %+v", stub.messages)
	}
}

func TestSuggestParLevelsNoCompleter(t *testing.T) {
	l := newTestEngine(t)
	ctx := context.Background()

	seedIngredient(t, l, "Flour", types.Gram, 2000, 500, 4000)

	if _, err := l.SuggestParLevels(ctx, "loc_main"); !errors.Is(err, larder.ErrNoCompleter) {
		t.Errorf("got %v, want ErrNoCompleter", err)
	}
}

func TestSuggestParLevelsMalformedReply(t *testing.T) {
	stub := &stubCompleter{reply: "I would rather write prose about flour."}
	l := larder.New(memory.New(), larder.WithCompleter(stub))
	ctx := context.Background()

	seedIngredient(t, l, "Flour", types.Gram, 2000, 500, 4000)

	if _, err := l.SuggestParLevels(ctx, "loc_main"); !errors.Is(err, larder.ErrMalformedResponse) {
		t.Errorf("got %v, want ErrMalformedResponse", err)
	}
}

func TestSuggestParLevelsCompletionFailure(t *testing.T) {
	stub := &stubCompleter{err: errors.New("backend unavailable")}
	l := larder.New(memory.New(), larder.WithCompleter(stub))
	ctx := context.Background()

	seedIngredient(t, l, "Flour", types.Gram, 2000, 500, 4000)

	if _, err := l.SuggestParLevels(ctx, "loc_main"); !errors.Is(err, larder.ErrCompletionFailed) {
		t.Errorf("got %v, want ErrCompletionFailed", err)
	}
}

func TestSuggestMargins(t *testing.T) {
	stub := &stubCompleter{
		reply: `[{"recipe_id":"rcp_x","suggested_price":1800,"currency":"usd"}]`,
	}
	l := larder.New(memory.New(), larder.WithCompleter(stub))
	ctx := context.Background()

	flour := seedIngredient(t, l, "Flour", types.Gram, 5000, 500, 8000)
	seedRecipe(t, l, "Margherita", []recipe.Line{
		{IngredientID: flour.ID, Quantity: 250, Unit: types.Gram},
	}, types.USD(1600))

	out, err := l.SuggestMargins(ctx, "loc_main")
	if err != nil {
		t.Fatalf("SuggestMargins: %v", err)
	}
	if len(out) != 1 || out[0].SuggestedPrice != 1800 {
		t.Errorf("unexpected suggestions: %+v", out)
	}

	// Prompt is grounded on costing, not just the recipe record.
	if !strings.Contains(stub.messages[1].Content, "Margherita") {
		t.Errorf("prompt missing recipe context")
	}
}

func TestSuggestMarginsNoRecipes(t *testing.T) {
	stub := &stubCompleter{reply: "[]"}
	l := larder.New(memory.New(), larder.WithCompleter(stub))

	if _, err := l.SuggestMargins(context.Background(), "loc_main"); !errors.Is(err, larder.ErrRecipeNotFound) {
		t.Errorf("got %v, want ErrRecipeNotFound", err)
	}
}

func TestSuggestRecipeSteps(t *testing.T) {
	stub := &stubCompleter{
		reply: `["Preheat the oven.", "Stretch the dough.", "Bake until blistered."]`,
	}
	l := larder.New(memory.New(), larder.WithCompleter(stub))
	ctx := context.Background()

	flour := seedIngredient(t, l, "Flour", types.Gram, 5000, 500, 8000)
	pizza := seedRecipe(t, l, "Margherita", []recipe.Line{
		{IngredientID: flour.ID, Quantity: 250, Unit: types.Gram},
	}, types.USD(1600))

	steps, err := l.SuggestRecipeSteps(ctx, pizza.ID)
	if err != nil {
		t.Fatalf("SuggestRecipeSteps: %v", err)
	}
	if len(steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(steps))
	}

	// Line context includes quantity, unit, and ingredient name.
	if !strings.Contains(stub.messages[1].Content, "250.00 g Flour") {
		t.Errorf("prompt missing line context:\n%s", stub.messages[1].Content)
	}
}
