package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/CoachMatchBack/internal/models"
	"github.com/saeid-a/CoachMatchBack/internal/repository"
	"github.com/saeid-a/CoachMatchBack/pkg/utils"
)

const (
	defaultUserTimezone = "UTC"
	defaultUserLanguage = "en"
	maxUserNameLength   = 255
)

var supportedLanguages = map[string]struct{}{
	"en": {},
	"hi": {},
}

type userStore interface {
	CreateIfAbsent(ctx context.Context, input repository.CreateUserInput) (*models.User, bool, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type UserService struct {
	userRepo userStore
}

func NewUserService(userRepo userStore) *UserService {
	return &UserService{userRepo: userRepo}
}

type CreateUserInput struct {
	Email              string
	Name               string
	Timezone           string
	LanguagePreference string
}

// CreateUser returns the user registered under the email, creating it when
// needed. created reports whether a new row was written.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (user *models.User, created bool, err error) {
	normalized, err := normalizeCreateUserInput(input)
	if err != nil {
		return nil, false, err
	}

	user, created, err = s.userRepo.CreateIfAbsent(ctx, normalized)
	if err != nil {
		return nil, false, translateStorageError(err)
	}
	if created {
		return user, true, nil
	}

	user, err = s.userRepo.GetByEmail(ctx, normalized.Email)
	if err != nil {
		return nil, false, translateStorageError(err)
	}
	return user, false, nil
}

func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, translateStorageError(err)
	}
	return user, nil
}

func normalizeCreateUserInput(input CreateUserInput) (repository.CreateUserInput, error) {
	email := strings.TrimSpace(input.Email)
	address, err := mail.ParseAddress(email)
	if err != nil || address.Address != email {
		return repository.CreateUserInput{}, ErrInvalidInput
	}

	name := strings.TrimSpace(input.Name)
	if name == "" || len(name) > maxUserNameLength {
		return repository.CreateUserInput{}, ErrInvalidInput
	}

	timezone := strings.TrimSpace(input.Timezone)
	if timezone == "" {
		timezone = defaultUserTimezone
	}
	if _, err := utils.LoadTimezone(timezone); err != nil {
		return repository.CreateUserInput{}, ErrInvalidInput
	}

	lang := strings.TrimSpace(input.LanguagePreference)
	if lang == "" {
		lang = defaultUserLanguage
	}
	if _, ok := supportedLanguages[lang]; !ok {
		return repository.CreateUserInput{}, ErrInvalidInput
	}

	return repository.CreateUserInput{
		Email:              email,
		Name:               name,
		Timezone:           timezone,
		LanguagePreference: lang,
	}, nil
}
