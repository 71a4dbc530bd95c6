package unit

import (
	"context"
	"errors"
	"testing"

	userdirectory "adbroker/contexts/identity-access/user-directory"
	usererrors "adbroker/contexts/identity-access/user-directory/domain/errors"
)

func TestGetMeProvisionsOnFirstContact(t *testing.T) {
	module := userdirectory.NewInMemoryModule(nil)
	ctx := context.Background()

	first, err := module.Handler.GetMeHandler(ctx, 4200111, "durov_fan")
	if err != nil {
		t.Fatalf("first contact failed: %v", err)
	}
	if first.User.UserID == "" || first.User.TelegramID != 4200111 {
		t.Fatalf("unexpected provisioned user: %+v", first.User)
	}
	if first.User.Username != "durov_fan" {
		t.Fatalf("expected username captured, got %q", first.User.Username)
	}
	if first.User.BalanceTON != "0" {
		t.Fatalf("expected zero starting balance, got %s", first.User.BalanceTON)
	}

	second, err := module.Handler.GetMeHandler(ctx, 4200111, "durov_fan")
	if err != nil {
		t.Fatalf("second contact failed: %v", err)
	}
	if second.User.UserID != first.User.UserID {
		t.Fatalf("expected same user on repeat contact, got %s and %s", first.User.UserID, second.User.UserID)
	}
}

func TestGetMeRefreshesChangedUsername(t *testing.T) {
	module := userdirectory.NewInMemoryModule(nil)
	ctx := context.Background()

	first, err := module.Handler.GetMeHandler(ctx, 555001, "old_handle")
	if err != nil {
		t.Fatalf("first contact failed: %v", err)
	}

	renamed, err := module.Handler.GetMeHandler(ctx, 555001, "new_handle")
	if err != nil {
		t.Fatalf("renamed contact failed: %v", err)
	}
	if renamed.User.UserID != first.User.UserID {
		t.Fatal("rename must not create a new user")
	}
	if renamed.User.Username != "new_handle" {
		t.Fatalf("expected refreshed username, got %q", renamed.User.Username)
	}
}

func TestGetMeRejectsInvalidTelegramID(t *testing.T) {
	module := userdirectory.NewInMemoryModule(nil)

	if _, err := module.Handler.GetMeHandler(context.Background(), 0, "ghost"); !errors.Is(err, usererrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
