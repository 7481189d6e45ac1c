package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/yoursay/internal/client/models"
)

func requireFieldError(t *testing.T, err error, field string) *Error {
	t.Helper()
	require.ErrorIs(t, err, ErrValidation)
	var ve *Error
	require.True(t, errors.As(err, &ve))
	require.Equal(t, field, ve.Field)
	require.NotEmpty(t, ve.Message)
	return ve
}

func TestStruct_UserProfile(t *testing.T) {
	v := New()
	ok := models.UserProfile{Email: "a@b.com", Zipcode: "90210", State: "CA", Preferences: []string{"Healthcare", "Taxes"}}
	require.NoError(t, v.Struct(ok))

	tests := []struct {
		name   string
		mutate func(p *models.UserProfile)
		field  string
	}{
		{"empty email", func(p *models.UserProfile) { p.Email = "" }, "email"},
		{"bad email", func(p *models.UserProfile) { p.Email = "nope" }, "email"},
		{"short zip", func(p *models.UserProfile) { p.Zipcode = "9021" }, "zipcode"},
		{"alpha zip", func(p *models.UserProfile) { p.Zipcode = "9021a" }, "zipcode"},
		{"unknown state", func(p *models.UserProfile) { p.State = "ZZ" }, "state"},
		{"lowercase state", func(p *models.UserProfile) { p.State = "ca" }, "state"},
		{"no topics", func(p *models.UserProfile) { p.Preferences = nil }, "preferences"},
		{"six topics", func(p *models.UserProfile) {
			p.Preferences = []string{"Healthcare", "Education", "Economy", "Environment", "Immigration", "Taxes"}
		}, "preferences"},
		{"duplicate topics", func(p *models.UserProfile) { p.Preferences = []string{"Taxes", "Taxes"} }, "preferences"},
		{"unknown topic", func(p *models.UserProfile) { p.Preferences = []string{"Sports"} }, "preferences"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ok
			p.Preferences = append([]string(nil), ok.Preferences...)
			tt.mutate(&p)
			requireFieldError(t, v.Struct(p), tt.field)
		})
	}
}

func TestVar_Code(t *testing.T) {
	v := New()

	require.NoError(t, v.Var("code", "482913", "required,otp"))

	for _, code := range []string{"", "4829", "48291a", "4829133", " 48291"} {
		ve := requireFieldError(t, v.Var("code", code, "required,otp"), "code")
		require.Equal(t, "Please enter a valid 6-digit code.", ve.Message)
	}
}

func TestStruct_PasswordsMustMatch(t *testing.T) {
	type passwords struct {
		Password string `json:"password" validate:"required"`
		Confirm  string `json:"confirm_password" validate:"required,eqfield=Password"`
	}
	v := New()

	require.NoError(t, v.Struct(passwords{Password: "Secret123", Confirm: "Secret123"}))

	ve := requireFieldError(t, v.Struct(passwords{Password: "Secret123", Confirm: "Secret124"}), "confirm_password")
	require.Equal(t, "Passwords do not match.", ve.Message)

	ve = requireFieldError(t, v.Struct(passwords{Password: "", Confirm: ""}), "password")
	require.Equal(t, "Please enter your password twice.", ve.Message)
}
