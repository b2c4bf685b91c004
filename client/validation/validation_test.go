package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword(t *testing.T) {
	testCases := []struct {
		password string
		valid    bool
	}{
		{password: "Secret#123", valid: true},
		{password: "Abcdefg!", valid: true},
		{password: "Ab!", valid: false},
		{password: "secret#123", valid: false},
		{password: "Secret1234", valid: false},
		{password: "Secret_123", valid: false},
		{password: "", valid: false},
	}
	for _, tc := range testCases {
		t.Run(tc.password, func(t *testing.T) {
			assert.Equal(t, tc.valid, Password(tc.password))
		})
	}
}

func TestMobile(t *testing.T) {
	assert.True(t, Mobile("0041791234567"))
	assert.True(t, Mobile("0123456789"))
	assert.False(t, Mobile("012345678"))
	assert.False(t, Mobile("+41791234567"))
	assert.False(t, Mobile("0123456789012345"))
}

func TestEmail(t *testing.T) {
	assert.True(t, Email("jane.doe+work@example.com"))
	assert.False(t, Email("jane@example"))
	assert.False(t, Email("jane example.com"))
}

func validRegistration() Registration {
	return Registration{
		Company:              "ACME",
		Salutation:           "ms",
		Firstname:            "Jane",
		Lastname:             "Doe",
		Address:              "Main Street 1",
		Postalcode:           "8000",
		City:                 "Zurich",
		Mobile:               "0791234567",
		CallingCode:          "+41",
		Country:              "CH",
		Email:                "jane@example.com",
		Password:             "Secret#123",
		PasswordConfirmation: "Secret#123",
		Terms:                true,
	}
}

func TestStruct_Registration(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, Struct(validRegistration()))
	})

	t.Run("field errors", func(t *testing.T) {
		form := validRegistration()
		form.Firstname = ""
		form.Mobile = "123"
		form.PasswordConfirmation = "Other#123"

		err := Struct(form)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalid))

		var fieldErrors Errors
		require.True(t, errors.As(err, &fieldErrors))
		assert.Len(t, fieldErrors, 3)

		message, ok := fieldErrors.Field("firstname")
		assert.True(t, ok)
		assert.Equal(t, "firstnameIsRequired", message)
		message, _ = fieldErrors.Field("mobile")
		assert.Equal(t, "validPhonenumber", message)
		message, _ = fieldErrors.Field("password_confirmation")
		assert.Equal(t, "passwordsDoNotMatch", message)
		_, ok = fieldErrors.Field("city")
		assert.False(t, ok)
	})
}

func TestStruct_APIKey(t *testing.T) {
	err := Struct(APIKey{PublisherName: "pub", PublisherID: "42", APIKey: "****abcd"})
	var fieldErrors Errors
	require.True(t, errors.As(err, &fieldErrors))
	message, ok := fieldErrors.Field("api_key")
	assert.True(t, ok)
	assert.Equal(t, "apiKeyRequired", message)

	assert.NoError(t, Struct(APIKey{PublisherName: "pub", PublisherID: "42", APIKey: "abcd"}))
}

func TestStruct_PasswordReset(t *testing.T) {
	err := Struct(PasswordReset{Email: "jane@example.com", Password: "x", PasswordConfirmation: "x"})
	var fieldErrors Errors
	require.True(t, errors.As(err, &fieldErrors))
	assert.Equal(t, Errors{{Field: "token", Rule: "required", Message: "tokenIsRequired"}}, fieldErrors)
}
