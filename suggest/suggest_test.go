package suggest

import (
	"strings"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		want    string
		wantErr bool
	}{
		{
			"bare array",
			`[{"ingredient_id":"ing_1"}]`,
			`[{"ingredient_id":"ing_1"}]`,
			false,
		},
		{
			"fenced json",
			"```json\n[{\"ingredient_id\":\"ing_1\"}]\n```",
			`[{"ingredient_id":"ing_1"}]`,
			false,
		},
		{
			"fence without language tag",
			"```\n{\"a\":1}\n```",
			`{"a":1}`,
			false,
		},
		{
			"surrounding prose",
			"Here you go:\n[1, 2, 3]\nLet me know if you need more.",
			"[1, 2, 3]",
			false,
		},
		{
			"prose only",
			"I cannot produce that.",
			"",
			true,
		},
		{
			"unterminated",
			"here is [1, 2, 3 and nothing else",
			"",
			true,
		},
		{
			"empty",
			"",
			"",
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.reply)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractJSON: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseParSuggestions(t *testing.T) {
	reply := "```json\n" + `[
		{"ingredient_id": "ing_abc", "par_level": 8000, "reorder_point": 2000, "rationale": "covers a busy weekend"},
		{"ingredient_id": "ing_def", "par_level": 500, "reorder_point": 100}
	]` + "\n```"

	out, err := ParseParSuggestions(reply)
	if err != nil {
		t.Fatalf("ParseParSuggestions: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(out))
	}
	if out[0].IngredientID != "ing_abc" || out[0].ParLevel != 8000 || out[0].ReorderPoint != 2000 {
		t.Errorf("unexpected first suggestion: %+v", out[0])
	}
	if out[1].Rationale != "" {
		t.Errorf("rationale should be optional, got %q", out[1].Rationale)
	}

	if _, err := ParseParSuggestions(`{"not": "an array"}`); err == nil {
		t.Error("expected decode error for non-array payload")
	}
}

func TestParseMarginSuggestions(t *testing.T) {
	reply := `[{"recipe_id": "rcp_abc", "suggested_price": 1800, "currency": "usd", "rationale": "targets 28% food cost"}]`

	out, err := ParseMarginSuggestions(reply)
	if err != nil {
		t.Fatalf("ParseMarginSuggestions: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(out))
	}
	if out[0].SuggestedPrice != 1800 || out[0].Currency != "usd" {
		t.Errorf("unexpected suggestion: %+v", out[0])
	}
}

func TestParseSteps(t *testing.T) {
	reply := "Sure!\n```json\n[\"Preheat the oven to 250C.\", \"Stretch the dough.\", \"Top and bake for 90 seconds.\"]\n```"

	steps, err := ParseSteps(reply)
	if err != nil {
		t.Fatalf("ParseSteps: %v", err)
	}
	if len(steps) != 3 || !strings.HasPrefix(steps[0], "Preheat") {
		t.Errorf("unexpected steps: %v", steps)
	}
}

func TestParLevelsPrompt(t *testing.T) {
	messages := ParLevelsPrompt([]IngredientUsage{
		{IngredientID: "ing_abc", Name: "Flour", Unit: "g", Stock: 2000, ParLevel: 8000, ReorderPoint: 1000, Consumed7d: 5250},
	})

	if len(messages) != 2 {
		t.Fatalf("expected system + user messages, got %d", len(messages))
	}
	if messages[0].Role != RoleSystem {
		t.Errorf("first role = %s, want system", messages[0].Role)
	}
	user := messages[1].Content
	for _, want := range []string{"Flour", "ing_abc", "5250.00"} {
		if !strings.Contains(user, want) {
			t.Errorf("user prompt missing %q:\n%s", want, user)
		}
	}
}

func TestMarginsPrompt(t *testing.T) {
	messages := MarginsPrompt([]RecipeEconomics{
		{RecipeID: "rcp_abc", Name: "Margherita", Cost: "$3.50", MenuPrice: "$16.00"},
	})

	user := messages[1].Content
	for _, want := range []string{"Margherita", "$3.50", "$16.00"} {
		if !strings.Contains(user, want) {
			t.Errorf("user prompt missing %q", want)
		}
	}
}

func TestRecipeStepsPrompt(t *testing.T) {
	messages := RecipeStepsPrompt("Margherita Pizza", []string{"250.00 g Flour", "20.00 ml Olive Oil"})

	user := messages[1].Content
	if !strings.Contains(user, "Margherita Pizza") || !strings.Contains(user, "250.00 g Flour") {
		t.Errorf("user prompt missing recipe context:\n%s", user)
	}
}
