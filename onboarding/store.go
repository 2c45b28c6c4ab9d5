package onboarding

import (
	"context"

	"github.com/xraph/larder/id"
)

type Store interface {
	Create(ctx context.Context, p *Progress) error
	Get(ctx context.Context, onboardingID id.OnboardingID) (*Progress, error)
	GetByLocation(ctx context.Context, locationID string) (*Progress, error)
	Update(ctx context.Context, p *Progress) error
}
