package onboarding

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"manygolf/internal/ports"
)

var ErrNotConfigured = errors.New("onboarding service not configured")

var (
	adjectives = []string{"Lucky", "Steady", "Breezy", "Chipper", "Bogey", "Eagle", "Birdie", "Sandy", "Windy", "Slick"}
	nouns      = []string{"Putter", "Caddie", "Driver", "Wedge", "Divot", "Fairway", "Bunker", "Tee", "Iron", "Flag"}
)

// Result reports what onboarding assigned.
type Result struct {
	DisplayName string
}

// Service gives newly created accounts a golfer name.
type Service struct {
	accounts ports.AccountPort
	rng      *rand.Rand
}

// NewService constructs an onboarding service.
// accounts must be non-nil; rng may be nil to use a time-seeded default.
func NewService(accounts ports.AccountPort, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{accounts: accounts, rng: rng}
}

// OnboardNewUser assigns a generated display name to userID.
// The username is left untouched so device logins keep resolving.
func (s *Service) OnboardNewUser(ctx context.Context, userID string) (Result, error) {
	if s.accounts == nil {
		return Result{}, ErrNotConfigured
	}

	result := Result{DisplayName: s.golferName()}
	if err := s.accounts.UpdateProfile(ctx, userID, "", result.DisplayName); err != nil {
		return result, fmt.Errorf("update profile %s: %w", userID, err)
	}
	return result, nil
}

func (s *Service) golferName() string {
	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	return fmt.Sprintf("%s%s%d", adj, noun, s.rng.Intn(90)+10)
}
