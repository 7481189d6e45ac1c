package client

import "github.com/dmitrijs2005/yoursay/internal/client/models"

// SignupRequest is the body of POST /api/users. Password must already be
// hashed and Preferences is comma separated.
type SignupRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	Zipcode          string `json:"zipcode"`
	State            string `json:"state"`
	Preferences      string `json:"preferences"`
	PhoneNumber      string `json:"phoneNumber"`
	VerificationCode int    `json:"verificationCode"`
}

type verificationRequest struct {
	Email string `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the body of POST /api/users/login.
type LoginResponse struct {
	AccessGranted bool   `json:"accessGranted"`
	AccessToken   string `json:"accessToken"`
	RefreshToken  string `json:"refreshToken"`
	Email         string `json:"email"`
	Zipcode       string `json:"zipcode"`
	State         string `json:"state"`
	Preferences   string `json:"preferences"`
}

func (r *LoginResponse) Tokens() models.TokenPair {
	return models.TokenPair{AccessToken: r.AccessToken, RefreshToken: r.RefreshToken}
}

// Profile converts the wire profile, splitting the CSV preferences.
func (r *LoginResponse) Profile() models.UserProfile {
	return models.UserProfile{
		Email:       r.Email,
		Zipcode:     r.Zipcode,
		State:       r.State,
		Preferences: models.ParsePreferencesCSV(r.Preferences),
	}
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
