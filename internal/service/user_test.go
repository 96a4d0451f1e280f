package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"semantiapi/internal/apperr"
	"semantiapi/internal/config"
	"semantiapi/internal/model"
	"semantiapi/internal/repository"
	"semantiapi/internal/service"
	svcMocks "semantiapi/internal/service/mocks"
)

const testSecret = "test-secret"

func newUserService(users *svcMocks.MockContentService[model.User]) service.UserService {
	return service.NewUserService(users, service.NewValidator(), config.AuthConfig{JWTSecret: testSecret, TokenTTL: 2 * time.Hour})
}

func validRegistration() service.RegisterInput {
	return service.RegisterInput{
		Email:     " Ada@Example.com ",
		Password:  "correct-horse",
		FirstName: "Ada",
		LastName:  "Lovelace",
	}
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes the password", func(t *testing.T) {
		users := new(svcMocks.MockContentService[model.User])
		users.On("FindOne", ctx, repository.Filter{"email": "ada@example.com"}).Return(nil, repository.ErrNotFound)
		users.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
			return u.Email == "ada@example.com" &&
				bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("correct-horse")) == nil
		})).Return(&model.User{Email: "ada@example.com"}, nil)

		got, err := newUserService(users).Register(ctx, validRegistration())

		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", got.Email)
		users.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		users := new(svcMocks.MockContentService[model.User])
		users.On("FindOne", ctx, mock.Anything).Return(&model.User{}, nil)

		_, err := newUserService(users).Register(ctx, validRegistration())

		ae, ok := apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusConflict, ae.Status)
		assert.Equal(t, "Email already exists", ae.Message)
	})

	t.Run("short password", func(t *testing.T) {
		in := validRegistration()
		in.Password = "short"

		_, err := newUserService(new(svcMocks.MockContentService[model.User])).Register(ctx, in)

		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "password", verrs[0].Field())
	})

	t.Run("lookup failure", func(t *testing.T) {
		users := new(svcMocks.MockContentService[model.User])
		users.On("FindOne", ctx, mock.Anything).Return(nil, errors.New("db down"))

		_, err := newUserService(users).Register(ctx, validRegistration())
		assert.EqualError(t, err, "db down")
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &model.User{Email: "ada@example.com", Password: string(hash), Role: "admin"}
	stored.ID = primitive.NewObjectID()

	t.Run("issues a signed token", func(t *testing.T) {
		users := new(svcMocks.MockContentService[model.User])
		users.On("FindOne", ctx, repository.Filter{"email": "ada@example.com"}).Return(stored, nil)

		res, err := newUserService(users).Login(ctx, "ADA@example.com", "correct-horse")
		require.NoError(t, err)

		claims := jwt.MapClaims{}
		_, err = jwt.ParseWithClaims(res.Token, claims, func(*jwt.Token) (any, error) {
			return []byte(testSecret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		require.NoError(t, err)
		assert.Equal(t, stored.ID.Hex(), claims["sub"])
		assert.Equal(t, "admin", claims["role"])
		assert.WithinDuration(t, time.Now().Add(2*time.Hour), res.ExpiresAt, time.Minute)
	})

	tests := []struct {
		name     string
		email    string
		password string
		found    *model.User
		findErr  error
		want     error
	}{
		{name: "wrong password", email: "ada@example.com", password: "nope", found: stored, want: service.ErrInvalidCredentials},
		{name: "unknown email", email: "bob@example.com", password: "whatever", findErr: repository.ErrNotFound, want: service.ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(svcMocks.MockContentService[model.User])
			if tt.found != nil {
				users.On("FindOne", ctx, mock.Anything).Return(tt.found, nil)
			} else {
				users.On("FindOne", ctx, mock.Anything).Return(nil, tt.findErr)
			}

			_, err := newUserService(users).Login(ctx, tt.email, tt.password)
			assert.Equal(t, tt.want, err)
		})
	}

	t.Run("missing fields", func(t *testing.T) {
		_, err := newUserService(new(svcMocks.MockContentService[model.User])).Login(ctx, "", "")
		ae, ok := apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, ae.Status)
	})
}

func TestUserService_List(t *testing.T) {
	ctx := context.Background()
	users := new(svcMocks.MockContentService[model.User])
	pq := repository.PageQuery{Page: 2, Limit: 1}
	users.On("List", ctx, map[string]string(nil), pq).
		Return(repository.NewPageResult([]model.User{{Email: "a@example.com"}}, pq, 3), nil)

	got, err := newUserService(users).List(ctx, 2, 1)

	require.NoError(t, err)
	assert.Equal(t, 3, got.Total)
	assert.Len(t, got.Users, 1)
}
