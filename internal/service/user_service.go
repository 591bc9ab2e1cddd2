package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fleet-registry/internal/auth"
	"fleet-registry/internal/model"
	"fleet-registry/internal/query"
	"fleet-registry/internal/repository"
)

// bcryptCost matches the registry's hashing work factor.
const bcryptCost = 12

type UserService struct {
	userRepo *repository.UserRepository
	tokens   *auth.Manager
	pageSize int
}

func NewUserService(userRepo *repository.UserRepository, tokens *auth.Manager, pageSize int) *UserService {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &UserService{
		userRepo: userRepo,
		tokens:   tokens,
		pageSize: pageSize,
	}
}

type CreateUserInput struct {
	Username string     `json:"username"`
	Password string     `json:"password"`
	Role     model.Role `json:"role"`
}

func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*model.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" || input.Password == "" || input.Role == "" {
		return nil, fmt.Errorf("%w: username, password and role are required", ErrInvalidInput)
	}
	if len(input.Username) < model.UsernameMinLen || len(input.Username) > model.UsernameMaxLen {
		return nil, fmt.Errorf("%w: username must be %d-%d characters", ErrInvalidInput, model.UsernameMinLen, model.UsernameMaxLen)
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}
	if !model.ValidRole(input.Role) {
		return nil, fmt.Errorf("%w: invalid role", ErrInvalidInput)
	}

	taken, err := s.userRepo.UsernameTaken(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: username already in use", ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: input.Username,
		Password: string(hash),
		Role:     input.Role,
		Active:   true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: username already in use", ErrConflict)
		}
		return nil, err
	}
	return user, nil
}

// Login verifies credentials against an active account and issues a token.
func (s *UserService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	if username == "" || password == "" {
		return nil, "", fmt.Errorf("%w: please provide username and password", ErrInvalidInput)
	}
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", fmt.Errorf("%w: incorrect username or password", ErrUnauthorized)
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("%w: incorrect username or password", ErrUnauthorized)
	}
	token, err := s.tokens.Sign(user.ID.String(), string(user.Role))
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// VerifyToken resolves token claims to an active account, rejecting tokens
// issued before the last password change.
func (s *UserService) VerifyToken(ctx context.Context, claims *auth.Claims) (*model.User, error) {
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid token", ErrUnauthorized)
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user no longer exists", ErrUnauthorized)
		}
		return nil, err
	}
	if claims.IssuedAt != nil && user.ChangedPasswordAfter(claims.IssuedAt.Time) {
		return nil, fmt.Errorf("%w: password recently changed, please log in again", ErrUnauthorized)
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", ErrInvalidInput)
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// UserListResult is one filtered page of active users.
type UserListResult struct {
	Users      []model.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

func (s *UserService) List(ctx context.Context, params map[string]string) (*UserListResult, error) {
	q := query.Compile(params, query.UserSchema, query.Options{
		DefaultLimit: s.pageSize,
		DefaultOrder: "created_at ASC",
	})
	users, total, err := s.userRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return &UserListResult{
		Users:      users,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: q.TotalPages(total),
	}, nil
}

type UpdateUserInput struct {
	Username *string     `json:"username"`
	Role     *model.Role `json:"role"`
	Password *string     `json:"password"`
}

// Update renames or re-roles an account. Password changes go through
// ChangePassword so the stale-token bookkeeping cannot be skipped.
func (s *UserService) Update(ctx context.Context, id string, input UpdateUserInput) (*model.User, error) {
	if input.Password != nil {
		return nil, fmt.Errorf("%w: this route is not for password updates", ErrInvalidInput)
	}
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if len(username) < model.UsernameMinLen || len(username) > model.UsernameMaxLen {
			return nil, fmt.Errorf("%w: username must be %d-%d characters", ErrInvalidInput, model.UsernameMinLen, model.UsernameMaxLen)
		}
		if username != user.Username {
			taken, err := s.userRepo.UsernameTaken(ctx, username)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, fmt.Errorf("%w: username already in use", ErrConflict)
			}
			user.Username = username
		}
	}
	if input.Role != nil {
		if !model.ValidRole(*input.Role) {
			return nil, fmt.Errorf("%w: invalid role", ErrInvalidInput)
		}
		user.Role = *input.Role
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword re-hashes the password and moves passwordChangedAt back one
// second so a token signed in the same instant still counts as stale.
func (s *UserService) ChangePassword(ctx context.Context, id string, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return err
	}
	changedAt := time.Now().Add(-time.Second)
	user.Password = string(hash)
	user.PasswordChangedAt = &changedAt
	return s.userRepo.Update(ctx, user)
}

// Deactivate soft-deletes an account; the row survives with active=false.
func (s *UserService) Deactivate(ctx context.Context, id string) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid user id", ErrInvalidInput)
	}
	deactivated, err := s.userRepo.Deactivate(ctx, userID)
	if err != nil {
		return err
	}
	if !deactivated {
		return ErrNotFound
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < model.PasswordMinLen || len(password) > model.PasswordMaxLen {
		return fmt.Errorf("%w: password must be %d-%d characters", ErrInvalidInput, model.PasswordMinLen, model.PasswordMaxLen)
	}
	return nil
}
