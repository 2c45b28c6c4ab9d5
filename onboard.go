package larder

import (
	"context"
	"time"

	"github.com/xraph/larder/id"
	"github.com/xraph/larder/onboarding"
	"github.com/xraph/larder/types"
)

// ──────────────────────────────────────────────────
// Onboarding
// ──────────────────────────────────────────────────

// StartOnboarding begins the setup flow for a location. Each location has
// at most one progress row.
func (l *Larder) StartOnboarding(ctx context.Context, locationID string) (*onboarding.Progress, error) {
	if locationID == "" {
		return nil, ValidationError{Field: "location_id", Message: "required"}
	}

	p := &onboarding.Progress{
		Entity:     types.NewEntity(),
		ID:         id.NewOnboardingID(),
		LocationID: locationID,
		Current:    onboarding.Steps[0],
	}

	if err := l.store.CreateOnboarding(ctx, p); err != nil {
		return nil, err
	}

	l.plugins.EmitOnboardingStarted(ctx, p)
	return p, nil
}

// AdvanceOnboarding marks the given step done and moves to the next.
// Steps are strictly linear: only the current step can be advanced, so
// retries of an already-done step fail rather than skipping ahead.
func (l *Larder) AdvanceOnboarding(ctx context.Context, locationID string, step onboarding.Step) (*onboarding.Progress, error) {
	p, err := l.store.GetOnboardingByLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if p.Complete() {
		return nil, ErrOnboardingComplete
	}
	if step != p.Current {
		return nil, ErrStepOutOfOrder
	}

	p.Done = append(p.Done, step)

	next := onboarding.Index(step) + 1
	if next >= len(onboarding.Steps) {
		now := time.Now().UTC()
		p.CompletedAt = &now
	} else {
		p.Current = onboarding.Steps[next]
	}
	p.Touch()

	if err := l.store.UpdateOnboarding(ctx, p); err != nil {
		return nil, err
	}

	l.plugins.EmitOnboardingAdvanced(ctx, p, string(step))
	if p.Complete() {
		l.plugins.EmitOnboardingCompleted(ctx, p)
		l.logger.Info("onboarding completed", "location_id", locationID)
	}

	return p, nil
}

// OnboardingProgress returns the progress row for a location.
func (l *Larder) OnboardingProgress(ctx context.Context, locationID string) (*onboarding.Progress, error) {
	return l.store.GetOnboardingByLocation(ctx, locationID)
}
