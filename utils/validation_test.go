package utils

import (
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupBody struct {
	Name     string `json:"name" binding:"notblank"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=admin staff customer"`
}

type orderBody struct {
	ItemID json.Number `json:"itemId" binding:"required,posint"`
	Rating *int        `json:"rating" binding:"omitempty,min=1,max=5"`
}

func TestMain(m *testing.M) {
	RegisterValidators()
	os.Exit(m.Run())
}

func validate(body interface{}) error {
	return binding.Validator.ValidateStruct(body)
}

func TestValidationErrorsUseJSONNames(t *testing.T) {
	err := validate(&signupBody{Name: "   ", Email: "not-an-email", Password: "123", Role: "owner"})
	require.Error(t, err)

	fields := ValidationErrors(err)
	require.Len(t, fields, 4)
	assert.Equal(t, FieldError{Field: "name", Message: "name is required"}, fields[0])
	assert.Equal(t, FieldError{Field: "email", Message: "Valid email is required"}, fields[1])
	assert.Equal(t, FieldError{Field: "password", Message: "password must be at least 6 characters"}, fields[2])
	assert.Equal(t, "role", fields[3].Field)
	assert.Equal(t, "role must be one of: admin, staff, customer", fields[3].Message)
}

func TestValidSignupPasses(t *testing.T) {
	assert.NoError(t, validate(&signupBody{Name: "Jane", Email: "jane@example.com", Password: "secret1"}))
}

func TestPositiveInteger(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"5", true},
		{"12", true},
		{"0", false},
		{"-3", false},
		{"2.5", false},
		{"abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := validate(&orderBody{ItemID: json.Number(tt.value)})
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			fields := ValidationErrors(err)
			assert.Equal(t, "itemId", fields[0].Field)
			assert.Equal(t, "itemId must be a positive integer", fields[0].Message)
		})
	}
}

func TestOptionalRating(t *testing.T) {
	five, six := 5, 6
	assert.NoError(t, validate(&orderBody{ItemID: "1"}))
	assert.NoError(t, validate(&orderBody{ItemID: "1", Rating: &five}))

	err := validate(&orderBody{ItemID: "1", Rating: &six})
	require.Error(t, err)
	assert.Equal(t, "rating must be at most 5", ValidationErrors(err)[0].Message)
}

func TestParsePositiveInt(t *testing.T) {
	n, err := ParsePositiveInt(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, uint(42), n)

	_, err = ParsePositiveInt("0")
	assert.Error(t, err)
}

func TestValidationErrorsForMalformedBody(t *testing.T) {
	var body signupBody
	err := json.Unmarshal([]byte(`{"name": 12}`), &body)
	require.Error(t, err)
	assert.Equal(t, []FieldError{{Field: "name", Message: "name has an invalid type"}}, ValidationErrors(err))

	assert.Equal(t, []FieldError{{Field: "body", Message: "Invalid request body"}}, ValidationErrors(errors.New("EOF")))
}
