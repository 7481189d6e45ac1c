package models

// TokenPair holds the bearer credentials issued by the server. AccessToken is
// short-lived and sent on every authenticated call; RefreshToken is used only
// against the refresh endpoint.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserProfile is the minimal profile kept next to the tokens.
//
// Preferences is the canonical, ordered list of topics; it is converted to
// CSV only on the wire.
type UserProfile struct {
	Email       string   `json:"email" validate:"required,email"`
	Zipcode     string   `json:"zipcode" validate:"required,zipcode"`
	State       string   `json:"state" validate:"required,usstate"`
	Preferences []string `json:"preferences" validate:"min=1,max=5,unique,dive,topic"`
}

// Complete reports whether every profile field is present.
func (p UserProfile) Complete() bool {
	return p.Email != "" && p.Zipcode != "" && p.State != "" && len(p.Preferences) > 0
}

// PendingSignup is registration data staged locally until the verification
// code is confirmed. Password is plaintext; it is hashed only for the
// signup and login requests and is dropped, in memory and on disk, once the
// server accepts the account.
type PendingSignup struct {
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	Zipcode     string   `json:"zipcode"`
	State       string   `json:"state"`
	Preferences []string `json:"preferences"`
}

// Profile returns the non-secret part of the staged record.
func (p PendingSignup) Profile() UserProfile {
	return UserProfile{
		Email:       p.Email,
		Zipcode:     p.Zipcode,
		State:       p.State,
		Preferences: append([]string(nil), p.Preferences...),
	}
}
