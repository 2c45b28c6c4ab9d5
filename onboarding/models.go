package onboarding

import (
	"time"

	"github.com/xraph/larder/id"
	"github.com/xraph/larder/types"
)

type Step string

const (
	StepProfile     Step = "profile"
	StepHours       Step = "hours"
	StepSuppliers   Step = "suppliers"
	StepIngredients Step = "ingredients"
	StepRecipes     Step = "recipes"
	StepPOS         Step = "pos"
	StepParLevels   Step = "par_levels"
	StepReview      Step = "review"
)

// Steps lists every onboarding step in order. Advancement is strictly
// linear; a restaurant cannot skip ahead.
var Steps = []Step{
	StepProfile,
	StepHours,
	StepSuppliers,
	StepIngredients,
	StepRecipes,
	StepPOS,
	StepParLevels,
	StepReview,
}

// Index returns the position of step in the linear flow, or -1.
func Index(step Step) int {
	for i, s := range Steps {
		if s == step {
			return i
		}
	}
	return -1
}

type Progress struct {
	types.Entity
	ID          id.OnboardingID   `json:"id"`
	LocationID  string            `json:"location_id"`
	Current     Step              `json:"current"`
	Done        []Step            `json:"done"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Complete reports whether every step has been finished.
func (p *Progress) Complete() bool {
	return p.CompletedAt != nil
}
