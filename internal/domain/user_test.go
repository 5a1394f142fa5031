package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	user, err := NewUser("Alice", "Alice@Example.com ", "secret1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}
	if user.Email != "alice@example.com" {
		t.Errorf("Expected lowercased trimmed email, got %q", user.Email)
	}
	if user.Name != "Alice" {
		t.Errorf("Expected name Alice, got %q", user.Name)
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("Expected non-zero timestamps")
	}
}

func TestNewUserValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		wantErr  error
	}{
		{"short name", "A", "a@example.com", "secret1", ErrNameTooShort},
		{"empty email", "Alice", "", "secret1", ErrEmptyEmail},
		{"bad email", "Alice", "not-an-email", "secret1", ErrInvalidEmail},
		{"bad email domain", "Alice", "a@nodot", "secret1", ErrInvalidEmail},
		{"short password", "Alice", "a@example.com", "12345", ErrPasswordTooShort},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewUser(tc.userName, tc.email, tc.password)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestUserValidateStoredUser(t *testing.T) {
	t.Parallel()

	// A user loaded from the store has no plaintext password, only the hash.
	user := User{
		ID:             uuid.New(),
		Name:           "Alice",
		Email:          "alice@example.com",
		HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
	}
	if err := user.Validate(); err != nil {
		t.Errorf("Expected stored user to validate, got %v", err)
	}

	user.HashedPassword = ""
	if err := user.Validate(); !errors.Is(err, ErrEmptyHashedPassword) {
		t.Errorf("Expected ErrEmptyHashedPassword, got %v", err)
	}
}

func TestUserRename(t *testing.T) {
	t.Parallel()

	user, err := NewUser("Alice", "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	before := user.UpdatedAt
	if err := user.Rename("  Alicia  "); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if user.Name != "Alicia" {
		t.Errorf("Expected trimmed name Alicia, got %q", user.Name)
	}
	if user.UpdatedAt.Before(before) {
		t.Error("Expected UpdatedAt to advance")
	}

	if err := user.Rename("x"); !errors.Is(err, ErrNameTooShort) {
		t.Errorf("Expected ErrNameTooShort, got %v", err)
	}
}
