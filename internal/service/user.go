package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"semantiapi/internal/apperr"
	"semantiapi/internal/config"
	"semantiapi/internal/model"
	"semantiapi/internal/repository"
)

var ErrInvalidCredentials = apperr.Unauthorized("Invalid credentials")

// RegisterInput is the payload accepted when creating an account.
type RegisterInput struct {
	Email     string            `json:"email" validate:"required,email"`
	Password  string            `json:"password" validate:"required,min=8"`
	FirstName string            `json:"firstName" validate:"required"`
	LastName  string            `json:"lastName" validate:"required"`
	Role      string            `json:"role" validate:"omitempty,oneof=user admin"`
	Profile   model.UserProfile `json:"profile"`
}

// LoginResult carries the authenticated user and a signed access token.
type LoginResult struct {
	User      *model.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// UserList is a page of users and the total number of accounts.
type UserList struct {
	Users []model.User `json:"users"`
	Total int          `json:"total"`
}

// UserService defines the account use cases.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Get(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context, page, limit int) (*UserList, error)
	// Update applies a profile patch. Password changes are ignored.
	Update(ctx context.Context, id string, patch []byte) (*model.User, error)
	Delete(ctx context.Context, id string) error
}

type userService struct {
	users    ContentService[model.User]
	validate *validator.Validate
	auth     config.AuthConfig
	now      func() time.Time
}

func NewUserService(users ContentService[model.User], v *validator.Validate, auth config.AuthConfig) UserService {
	if auth.TokenTTL <= 0 {
		auth.TokenTTL = time.Hour
	}
	return &userService{users: users, validate: v, auth: auth, now: time.Now}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	_, err := s.users.FindOne(ctx, repository.Filter{"email": in.Email})
	switch {
	case err == nil:
		return nil, apperr.Conflict("Email already exists")
	case !isNotFound(err):
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.users.Create(ctx, &model.User{
		Email:     in.Email,
		Password:  string(hash),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      in.Role,
		Profile:   in.Profile,
	})
}

func (s *userService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperr.BadRequest("Email and password are required")
	}
	u, err := s.users.FindOne(ctx, repository.Filter{"email": email})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	now := s.now()
	exp := now.Add(s.auth.TokenTTL)
	claims := jwt.MapClaims{
		"sub":   u.ID.Hex(),
		"email": u.Email,
		"role":  u.Role,
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.auth.JWTSecret))
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: u, Token: token, ExpiresAt: exp.UTC()}, nil
}

func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	return s.users.Get(ctx, id)
}

func (s *userService) List(ctx context.Context, page, limit int) (*UserList, error) {
	res, err := s.users.List(ctx, nil, repository.PageQuery{Page: page, Limit: limit})
	if err != nil {
		return nil, err
	}
	return &UserList{Users: res.Results, Total: res.TotalResults}, nil
}

func (s *userService) Update(ctx context.Context, id string, patch []byte) (*model.User, error) {
	return s.users.Update(ctx, id, patch)
}

func (s *userService) Delete(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}
