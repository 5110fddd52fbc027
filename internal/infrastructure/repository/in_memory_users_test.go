package repository

import (
	"context"
	"errors"
	"testing"

	"finstatements.com/internal/domain/entity"
)

func TestInMemoryUsers(t *testing.T) {
	users := NewInMemoryUsers(newTestLogger())
	ctx := context.Background()

	created, err := users.Create(ctx, entity.User{Name: "John", Email: "john@example.com", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Fatalf("Create() did not assign id/timestamps: %+v", created)
	}

	if _, err := users.Create(ctx, entity.User{Name: "Other", Email: "john@example.com"}); !errors.Is(err, entity.ErrUserAlreadyExists) {
		t.Errorf("Create() duplicate email error = %v, want %v", err, entity.ErrUserAlreadyExists)
	}

	exists, err := users.Exists(ctx, created.ID)
	if err != nil || !exists {
		t.Errorf("Exists(%q) = %v, %v", created.ID, exists, err)
	}
	exists, _ = users.Exists(ctx, "missing")
	if exists {
		t.Error("Exists(missing) = true")
	}

	byEmail, err := users.FindByEmail(ctx, "john@example.com")
	if err != nil || byEmail == nil || byEmail.ID != created.ID {
		t.Errorf("FindByEmail() = %+v, %v", byEmail, err)
	}
	if u, _ := users.FindByEmail(ctx, "nobody@example.com"); u != nil {
		t.Errorf("FindByEmail(unknown) = %+v, want nil", u)
	}

	byID, err := users.FindByID(ctx, created.ID)
	if err != nil || byID == nil || byID.Email != "john@example.com" {
		t.Errorf("FindByID() = %+v, %v", byID, err)
	}
	if u, _ := users.FindByID(ctx, "missing"); u != nil {
		t.Errorf("FindByID(missing) = %+v, want nil", u)
	}
}
