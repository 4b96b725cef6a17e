// Package services holds the business rules between HTTP controllers
// and the repositories. Services accept small store interfaces so they
// can be exercised in tests without a running database.
package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/ecomstore/app/models"
	"github.com/shashiranjanraj/ecomstore/app/repositories"
	"github.com/shashiranjanraj/ecomstore/pkg/auth"
)

var (
	// ErrEmailTaken is returned when registering an email that exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// so responses do not leak which one failed.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrWrongAnswer is returned when the password reset answer does not
	// match.
	ErrWrongAnswer = errors.New("wrong email or answer")
)

// UserStore is the slice of the user repository the auth service needs.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error)
	SetPassword(ctx context.Context, email, hash string) error
}

// AuthService implements register, login, password reset and profile
// update.
type AuthService struct {
	users UserStore
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// RegisterInput is the validated register payload.
type RegisterInput struct {
	Name     string                 `json:"name"     validate:"required"`
	Email    string                 `json:"email"    validate:"required,email"`
	Password string                 `json:"password" validate:"required,min=6"`
	Phone    string                 `json:"phone"    validate:"required"`
	Address  map[string]interface{} `json:"address"`
	Answer   string                 `json:"answer"   validate:"required"`
}

// Register creates an account. Duplicate emails return ErrEmailTaken
// and never create a second document.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	// The recovery answer is a credential; store it hashed like the
	// password.
	answerHash, err := auth.HashPassword(in.Answer)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Phone:    in.Phone,
		Address:  in.Address,
		Answer:   answerHash,
		Role:     models.RoleUser,
	}
	err = s.users.Create(ctx, u)
	if errors.Is(err, repositories.ErrDuplicate) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and issues a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if !auth.CheckPassword(u.Password, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(u.ID.Hex())
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// ForgotPassword resets the password when email and secret answer match.
// The answer is verified against its stored hash; unknown email and wrong
// answer get the same error.
func (s *AuthService) ForgotPassword(ctx context.Context, email, answer, newPassword string) error {
	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrWrongAnswer
	}
	if err != nil {
		return err
	}
	if !auth.CheckPassword(u.Answer, answer) {
		return ErrWrongAnswer
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	err = s.users.SetPassword(ctx, email, hash)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrWrongAnswer
	}
	return err
}

// ProfileInput is a partial profile update; empty fields are kept.
type ProfileInput struct {
	Name     string                 `json:"name"`
	Password string                 `json:"password"`
	Phone    string                 `json:"phone"`
	Address  map[string]interface{} `json:"address"`
}

// UpdateProfile applies the non-empty fields of in to the signed-in
// user. A new password must be at least 6 characters.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*models.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if in.Name != "" {
		set["name"] = in.Name
	}
	if in.Phone != "" {
		set["phone"] = in.Phone
	}
	if in.Address != nil {
		set["address"] = in.Address
	}
	if in.Password != "" {
		if len(in.Password) < 6 {
			return nil, errors.New("password must be at least 6 characters")
		}
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		set["password"] = hash
	}
	if len(set) == 0 {
		return u, nil
	}
	return s.users.Update(ctx, u.ID, set)
}
