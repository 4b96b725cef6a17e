package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type registerForm struct {
	Name     string `json:"name"     validate:"required,min=2,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Age      int    `json:"age"      validate:"nullable,gte=18"`
	Plan     string `json:"plan"     validate:"nullable,in=free;pro"`
}

func TestStructValid(t *testing.T) {
	errs := Struct(&registerForm{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "secret123",
		Age:      30,
		Plan:     "pro",
	})
	assert.Empty(t, errs)
	assert.False(t, HasErrors(errs))
}

func TestStructRequired(t *testing.T) {
	errs := Struct(&registerForm{Email: "asha@example.com", Password: "secret123"})
	assert.Equal(t, "The name field is required.", errs["name"])
}

func TestStructEmail(t *testing.T) {
	errs := Struct(&registerForm{Name: "Asha", Email: "not-an-email", Password: "secret123"})
	assert.Equal(t, "The email must be a valid email address.", errs["email"])
}

func TestStructMinLength(t *testing.T) {
	errs := Struct(&registerForm{Name: "Asha", Email: "asha@example.com", Password: "short"})
	assert.Equal(t, "The password must be at least 6.", errs["password"])
}

func TestStructNullableSkipsEmpty(t *testing.T) {
	// Age and Plan are empty, so gte/in never run.
	errs := Struct(&registerForm{Name: "Asha", Email: "asha@example.com", Password: "secret123"})
	assert.NotContains(t, errs, "age")
	assert.NotContains(t, errs, "plan")
}

func TestStructGte(t *testing.T) {
	errs := Struct(&registerForm{Name: "Asha", Email: "asha@example.com", Password: "secret123", Age: 12})
	assert.Equal(t, "The age must be greater than or equal to 18.", errs["age"])
}

func TestStructIn(t *testing.T) {
	errs := Struct(&registerForm{Name: "Asha", Email: "asha@example.com", Password: "secret123", Plan: "enterprise"})
	assert.Equal(t, "The selected plan is invalid.", errs["plan"])
}

func TestStructFirstFailingRuleWins(t *testing.T) {
	errs := Struct(&registerForm{Name: "A", Email: "asha@example.com", Password: "secret123"})
	assert.Equal(t, "The name must be at least 2.", errs["name"])
}

func TestStructIgnoresNonStructs(t *testing.T) {
	assert.Empty(t, Struct("not a struct"))
	assert.Empty(t, Struct(42))
}
