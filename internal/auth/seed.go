package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SeedAdmin ensures a default admin account exists so the catalog is
// manageable on a fresh database. Existing accounts are left untouched.
func SeedAdmin(ctx context.Context, repo *Repo, username, password string) error {
	if username == "" || password == "" {
		return nil
	}

	existing, err := repo.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("seed admin lookup: %w", err)
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed admin hash: %w", err)
	}

	u := User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        username + "@local",
		PasswordHash: string(hash),
		IsAdmin:      true,
	}
	if err := repo.CreateUser(ctx, u); err != nil {
		return fmt.Errorf("seed admin create: %w", err)
	}
	return nil
}
