package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/ecomstore/app/models"
	"github.com/shashiranjanraj/ecomstore/app/repositories"
	"github.com/shashiranjanraj/ecomstore/pkg/auth"
)

// memUserStore is an in-memory UserStore with a unique email index.
type memUserStore struct {
	byEmail map[string]*models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{byEmail: map[string]*models.User{}}
}

func (m *memUserStore) Create(ctx context.Context, u *models.User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return repositories.ErrDuplicate
	}
	u.ID = primitive.NewObjectID()
	m.byEmail[u.Email] = u
	return nil
}

func (m *memUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return u, nil
}

func (m *memUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range m.byEmail {
		if u.ID.Hex() == id {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memUserStore) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			if name, ok := set["name"].(string); ok {
				u.Name = name
			}
			if phone, ok := set["phone"].(string); ok {
				u.Phone = phone
			}
			if pw, ok := set["password"].(string); ok {
				u.Password = pw
			}
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memUserStore) SetPassword(ctx context.Context, email, hash string) error {
	u, ok := m.byEmail[email]
	if !ok {
		return repositories.ErrNotFound
	}
	u.Password = hash
	return nil
}

func registerInput(email string) RegisterInput {
	return RegisterInput{
		Name:     "Asha",
		Email:    email,
		Password: "secret123",
		Phone:    "9999999999",
		Answer:   "blue",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	store := newMemUserStore()
	svc := NewAuthService(store)

	u, err := svc.Register(context.Background(), registerInput("asha@example.com"))
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, u.Role, "new accounts never start as admin")
	assert.NotEqual(t, "secret123", u.Password, "password must be stored hashed")
	assert.True(t, auth.CheckPassword(u.Password, "secret123"))
	assert.NotEqual(t, "blue", u.Answer, "recovery answer must be stored hashed")
	assert.True(t, auth.CheckPassword(u.Answer, "blue"))

	got, token, err := svc.Login(context.Background(), "asha@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	userID, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID.Hex(), userID)
}

func TestRegisterDuplicateEmailCreatesNothing(t *testing.T) {
	store := newMemUserStore()
	svc := NewAuthService(store)

	first, err := svc.Register(context.Background(), registerInput("asha@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerInput("asha@example.com"))
	assert.ErrorIs(t, err, ErrEmailTaken)

	require.Len(t, store.byEmail, 1)
	assert.Equal(t, first.ID, store.byEmail["asha@example.com"].ID, "original account untouched")
}

func TestLoginWrongPassword(t *testing.T) {
	store := newMemUserStore()
	svc := NewAuthService(store)
	_, err := svc.Register(context.Background(), registerInput("asha@example.com"))
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "asha@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	svc := NewAuthService(newMemUserStore())
	_, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "unknown email and wrong password are indistinguishable")
}

func TestForgotPassword(t *testing.T) {
	store := newMemUserStore()
	svc := NewAuthService(store)
	_, err := svc.Register(context.Background(), registerInput("asha@example.com"))
	require.NoError(t, err)

	err = svc.ForgotPassword(context.Background(), "asha@example.com", "wrong-answer", "newpass123")
	assert.ErrorIs(t, err, ErrWrongAnswer)

	err = svc.ForgotPassword(context.Background(), "ghost@example.com", "blue", "newpass123")
	assert.ErrorIs(t, err, ErrWrongAnswer, "unknown email and wrong answer are indistinguishable")

	err = svc.ForgotPassword(context.Background(), "asha@example.com", "blue", "newpass123")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "asha@example.com", "newpass123")
	assert.NoError(t, err)
}

func TestUpdateProfilePartial(t *testing.T) {
	store := newMemUserStore()
	svc := NewAuthService(store)
	u, err := svc.Register(context.Background(), registerInput("asha@example.com"))
	require.NoError(t, err)

	got, err := svc.UpdateProfile(context.Background(), u.ID.Hex(), ProfileInput{Name: "Asha K"})
	require.NoError(t, err)
	assert.Equal(t, "Asha K", got.Name)
	assert.Equal(t, "9999999999", got.Phone, "unset fields keep their value")

	_, err = svc.UpdateProfile(context.Background(), u.ID.Hex(), ProfileInput{Password: "short"})
	assert.Error(t, err, "passwords under 6 characters are rejected")
}
