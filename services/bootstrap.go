package services

import (
	"context"
	"errors"
	"strings"

	"github.com/kendall-kelly/restaurant-ms/models"
	"github.com/kendall-kelly/restaurant-ms/repository"
	"github.com/rs/zerolog/log"
)

// EnsureAdmin creates an admin account for email when none exists yet.
// Without email or password it only warns when the store has no admin.
func EnsureAdmin(ctx context.Context, store *repository.Store, name, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		admins, err := store.Users.Count(ctx, repository.Filter{"role": models.RoleAdmin})
		if err != nil {
			return nil, err
		}
		if admins == 0 {
			log.Warn().Msg("No admin account exists, set ADMIN_EMAIL and ADMIN_PASSWORD to create one")
		}
		return nil, nil
	}

	existing, err := store.Users.First(ctx, repository.Filter{"email": email})
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	admin := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := store.Users.Insert(ctx, admin); err != nil {
		return nil, err
	}

	log.Info().Str("email", email).Msg("Created bootstrap admin account")
	return admin, nil
}
