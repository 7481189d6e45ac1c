package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserProfile_Complete(t *testing.T) {
	full := UserProfile{Email: "a@b.com", Zipcode: "90210", State: "CA", Preferences: []string{"Taxes"}}
	assert.True(t, full.Complete())

	for name, mutate := range map[string]func(p *UserProfile){
		"no email":       func(p *UserProfile) { p.Email = "" },
		"no zipcode":     func(p *UserProfile) { p.Zipcode = "" },
		"no state":       func(p *UserProfile) { p.State = "" },
		"no preferences": func(p *UserProfile) { p.Preferences = nil },
	} {
		t.Run(name, func(t *testing.T) {
			p := full
			mutate(&p)
			assert.False(t, p.Complete())
		})
	}
}

func TestPendingSignup_ProfileCopiesPreferences(t *testing.T) {
	p := PendingSignup{Email: "a@b.com", Password: "Secret123", Zipcode: "90210", State: "CA", Preferences: []string{"Healthcare"}}
	prof := p.Profile()
	prof.Preferences[0] = "Taxes"

	assert.Equal(t, "Healthcare", p.Preferences[0])
	assert.Equal(t, "a@b.com", prof.Email)
}

func TestCatalogs(t *testing.T) {
	assert.True(t, IsTopic("Gun Control"))
	assert.False(t, IsTopic("gun control"))
	assert.True(t, IsState("CA"))
	assert.False(t, IsState("XX"))
}

func TestPreferencesCSV(t *testing.T) {
	assert.Equal(t, "Healthcare,Gun Control", PreferencesCSV([]string{"Healthcare", "Gun Control"}))
	assert.Equal(t, []string{"Healthcare", "Gun Control"}, ParsePreferencesCSV(" Healthcare, Gun Control ,,"))
	assert.Nil(t, ParsePreferencesCSV(""))
}
