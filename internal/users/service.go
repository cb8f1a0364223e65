package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service contains business logic for users.
type Service struct {
	Repo Repo
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// UpsertFromAuth persists the user identity from OAuth. A user seen for the
// first time is assigned a fresh firm; returning users keep their firm.
func (s *Service) UpsertFromAuth(ctx context.Context, email, fullName, pictureURL string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return User{}, errors.New("email is required")
	}

	existing, err := s.Repo.GetByEmail(ctx, email)
	if err == nil {
		existing.FullName = fullName
		existing.PictureURL = pictureURL
		if err := s.Repo.Upsert(ctx, existing); err != nil {
			return User{}, err
		}
		return s.Repo.GetByEmail(ctx, email)
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	user := User{
		ID:         uuid.NewString(),
		FirmID:     uuid.NewString(),
		Email:      email,
		FullName:   fullName,
		PictureURL: pictureURL,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Repo.Upsert(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// GetByID returns the user with the given ID.
func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, errors.New("user id is required")
	}
	return s.Repo.GetByID(ctx, userID)
}
