package onboarding

import (
	"context"
	"errors"
	"math/rand"
	"regexp"
	"testing"
)

type profileCall struct {
	userID      string
	username    string
	displayName string
}

type fakeAccountPort struct {
	updateErr error
	calls     []profileCall
}

func (f *fakeAccountPort) UpdateProfile(ctx context.Context, userID, username, displayName string) error {
	f.calls = append(f.calls, profileCall{userID: userID, username: username, displayName: displayName})
	return f.updateErr
}

var golferName = regexp.MustCompile(`^[A-Z][a-z]+[A-Z][a-z]+[0-9]{2}$`)

func TestOnboardNewUser_SetsDisplayName(t *testing.T) {
	accounts := &fakeAccountPort{}
	service := NewService(accounts, rand.New(rand.NewSource(1)))

	result, err := service.OnboardNewUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("OnboardNewUser returned error: %v", err)
	}
	if !golferName.MatchString(result.DisplayName) {
		t.Fatalf("Unexpected display name %q", result.DisplayName)
	}
	if len(accounts.calls) != 1 {
		t.Fatalf("Expected 1 profile update, got %d", len(accounts.calls))
	}
	call := accounts.calls[0]
	if call.userID != "user-1" || call.displayName != result.DisplayName {
		t.Fatalf("Unexpected profile update %+v", call)
	}
	if call.username != "" {
		t.Fatalf("Expected username to be left unchanged, got %q", call.username)
	}
}

func TestOnboardNewUser_DeterministicWithSeed(t *testing.T) {
	a, _ := NewService(&fakeAccountPort{}, rand.New(rand.NewSource(7))).OnboardNewUser(context.Background(), "u")
	b, _ := NewService(&fakeAccountPort{}, rand.New(rand.NewSource(7))).OnboardNewUser(context.Background(), "u")
	if a.DisplayName != b.DisplayName {
		t.Fatalf("Expected same name for same seed, got %q and %q", a.DisplayName, b.DisplayName)
	}
}

func TestOnboardNewUser_UpdateFailureReturnsError(t *testing.T) {
	updateErr := errors.New("update failed")
	service := NewService(&fakeAccountPort{updateErr: updateErr}, rand.New(rand.NewSource(1)))

	result, err := service.OnboardNewUser(context.Background(), "user-1")
	if !errors.Is(err, updateErr) {
		t.Fatalf("Expected wrapped update error, got %v", err)
	}
	if result.DisplayName == "" {
		t.Fatal("Expected the attempted name to be reported")
	}
}

func TestOnboardNewUser_NotConfigured(t *testing.T) {
	service := NewService(nil, nil)
	if _, err := service.OnboardNewUser(context.Background(), "user-1"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("Expected ErrNotConfigured, got %v", err)
	}
}
