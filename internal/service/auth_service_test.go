package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/testutil"
	"github.com/google/uuid"
)

func TestAuthenticateUser_NewUser(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	service := NewAuthService(userRepo)

	auth0ID := "auth0|12345"
	email := "test@example.com"
	name := "Test User"

	result, err := service.AuthenticateUser(context.Background(), auth0ID, email, &name, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !result.IsNewUser {
		t.Error("Expected IsNewUser to be true for new user")
	}

	if result.User.Auth0ID != auth0ID {
		t.Errorf("Expected auth0ID %s, got %s", auth0ID, result.User.Auth0ID)
	}

	if result.User.Email != email {
		t.Errorf("Expected email %s, got %s", email, result.User.Email)
	}
}

func TestAuthenticateUser_ExistingUser(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	service := NewAuthService(userRepo)

	existing := &domain.User{ID: uuid.New(), Auth0ID: "auth0|existing", Email: "existing@example.com"}
	userRepo.AddUser(existing)

	result, err := service.AuthenticateUser(context.Background(), existing.Auth0ID, existing.Email, nil, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.IsNewUser {
		t.Error("Expected IsNewUser to be false for existing user")
	}

	if result.User.ID != existing.ID {
		t.Errorf("Expected user ID %s, got %s", existing.ID, result.User.ID)
	}
}

func TestAuthenticateUser_CreateFails(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	userRepo.CreateFn = func(string, string, *string, *string) (*domain.User, error) {
		return nil, errors.New("database unavailable")
	}
	service := NewAuthService(userRepo)

	_, err := service.AuthenticateUser(context.Background(), "auth0|new", "new@example.com", nil, nil)
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
}

func TestGetUserIDByAuth0ID(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	service := NewAuthService(userRepo)
	user := &domain.User{ID: uuid.New(), Auth0ID: "auth0|lookup"}
	userRepo.AddUser(user)

	id, err := service.GetUserIDByAuth0ID(context.Background(), "auth0|lookup")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if id != user.ID {
		t.Errorf("Expected %s, got %s", user.ID, id)
	}

	_, err = service.GetUserIDByAuth0ID(context.Background(), "auth0|missing")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}
