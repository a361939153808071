// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell/inkwell/internal/auth"
	"github.com/inkwell/inkwell/internal/metrics"
	"github.com/inkwell/inkwell/internal/model"
	"github.com/inkwell/inkwell/internal/repository"
)

// Credential service errors.
var (
	ErrEmailTaken    = errors.New("an account with that email already exists")
	ErrUnknownEmail  = errors.New("no account with that email exists")
	ErrBadCredential = errors.New("email or password incorrect")
)

// UserStore is the persistence contract the credential service needs.
// *repository.Repository satisfies it.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// UserService handles registration, login, and token issuance.
type UserService struct {
	store    UserStore
	secret   []byte
	tokenTTL time.Duration
	metrics  metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(store UserStore, secret []byte, tokenTTL time.Duration, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		store:    store,
		secret:   secret,
		tokenTTL: tokenTTL,
		metrics:  recorder,
	}
}

// RegisterInput defines input for registering a user.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Register creates a new user and returns a signed session token.
// Exactly one user row is persisted on success; a duplicate email fails
// before any write, and a racing duplicate is caught by the store's
// unique constraint.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (string, error) {
	_, err := s.store.GetUserByEmail(ctx, input.Email)
	if err == nil {
		return "", ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return "", fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.NewString(),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return "", ErrEmailTaken
		}
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := auth.SignToken(s.secret, user.Email, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	s.metrics.IncUserRegistered()

	return token, nil
}

// Login verifies credentials and returns a fresh session token.
// No token is issued on any failure path.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrUnknownEmail
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		return "", ErrBadCredential
	}

	token, err := auth.SignToken(s.secret, user.Email, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	s.metrics.IncUserLoggedIn()

	return token, nil
}
