package testserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/yoursay/internal/client/models"
	"github.com/dmitrijs2005/yoursay/internal/common"
)

type ctxKey struct{}

type signupRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	Zipcode          string `json:"zipcode"`
	State            string `json:"state"`
	Preferences      string `json:"preferences"`
	PhoneNumber      string `json:"phoneNumber"`
	VerificationCode int    `json:"verificationCode"`
}

type loginResponse struct {
	AccessGranted bool   `json:"accessGranted"`
	AccessToken   string `json:"accessToken,omitempty"`
	RefreshToken  string `json:"refreshToken,omitempty"`
	Email         string `json:"email,omitempty"`
	Zipcode       string `json:"zipcode,omitempty"`
	State         string `json:"state,omitempty"`
	Preferences   string `json:"preferences,omitempty"`
}

func (s *Server) handleSendVerification(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decode(r, &req) || req.Email == "" {
		writeText(w, http.StatusBadRequest, "Email is required.")
		return
	}

	code := s.nextCode()
	s.mu.Lock()
	s.codes[strings.ToLower(req.Email)] = code
	s.mu.Unlock()

	s.log.Info(r.Context(), "verification code issued", "email", req.Email, "code", code)
	writeText(w, http.StatusOK, "Verification text sent.")
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decode(r, &req) || req.Email == "" || req.Password == "" {
		writeText(w, http.StatusBadRequest, "Invalid request.")
		return
	}
	key := strings.ToLower(req.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	code, ok := s.codes[key]
	if !ok || code != req.VerificationCode {
		writeText(w, http.StatusForbidden, "Invalid verification code.")
		return
	}
	if _, exists := s.users[key]; exists {
		writeText(w, http.StatusConflict, "User already exists.")
		return
	}

	delete(s.codes, key)
	s.users[key] = &user{
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
		Zipcode:     req.Zipcode,
		State:       req.State,
		Preferences: req.Preferences,
	}
	writeText(w, http.StatusOK, "User added.")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(r, &req) {
		writeJSON(w, http.StatusBadRequest, loginResponse{})
		return
	}

	s.mu.Lock()
	u, ok := s.users[strings.ToLower(req.Email)]
	if !ok || u.Password != req.Password {
		s.mu.Unlock()
		writeJSON(w, http.StatusUnauthorized, loginResponse{})
		return
	}
	resp := loginResponse{
		AccessGranted: true,
		Email:         u.Email,
		Zipcode:       u.Zipcode,
		State:         u.State,
		Preferences:   u.Preferences,
	}
	accessGen, refreshGen := s.accessGen, s.refreshGen
	s.mu.Unlock()

	var err error
	if resp.AccessToken, err = generateToken(u.Email, kindAccess, accessGen, s.secret, s.accessTTL); err != nil {
		writeJSON(w, http.StatusInternalServerError, loginResponse{})
		return
	}
	if resp.RefreshToken, err = generateToken(u.Email, kindRefresh, refreshGen, s.secret, s.refreshTTL); err != nil {
		writeJSON(w, http.StatusInternalServerError, loginResponse{})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	claims, err := s.bearerClaims(r, kindRefresh)
	if err != nil {
		writeText(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	s.mu.Lock()
	accessGen, refreshGen := s.accessGen, s.refreshGen
	s.mu.Unlock()

	access, err := generateToken(claims.Email, kindAccess, accessGen, s.secret, s.accessTTL)
	if err != nil {
		writeText(w, http.StatusInternalServerError, "internal error")
		return
	}
	resp := map[string]string{"accessToken": access}
	if s.rotate {
		refresh, err := generateToken(claims.Email, kindRefresh, refreshGen, s.secret, s.refreshTTL)
		if err != nil {
			writeText(w, http.StatusInternalServerError, "internal error")
			return
		}
		resp["refreshToken"] = refresh
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	u, ok := s.currentUser(r)
	if !ok {
		writeText(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handlePreferences(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		Zipcode     string `json:"zipcode"`
		State       string `json:"state"`
		Preferences string `json:"preferences"`
	}
	if !decode(r, &req) {
		writeText(w, http.StatusBadRequest, "Invalid request.")
		return
	}
	if !s.ownsEmail(r, req.Email) {
		writeText(w, http.StatusForbidden, "Forbidden")
		return
	}

	s.mu.Lock()
	u := s.users[strings.ToLower(req.Email)]
	if req.Zipcode != "" {
		u.Zipcode = req.Zipcode
	}
	if req.State != "" {
		u.State = req.State
	}
	if req.Preferences != "" {
		u.Preferences = req.Preferences
	}
	s.mu.Unlock()

	writeText(w, http.StatusOK, "Preferences updated.")
}

func (s *Server) handleFederal(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.filter(func(l models.Legislation) bool { return l.Level == "federal" }))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	state := strings.ToUpper(chi.URLParam(r, "state"))
	writeJSON(w, http.StatusOK, s.filter(func(l models.Legislation) bool { return l.Level == "state" && l.State == state }))
}

func (s *Server) handleLocal(w http.ResponseWriter, r *http.Request) {
	zip := chi.URLParam(r, "zipcode")
	writeJSON(w, http.StatusOK, s.filter(func(l models.Legislation) bool { return l.Level == "local" && l.Zipcode == zip }))
}

func (s *Server) handleRandom(w http.ResponseWriter, r *http.Request) {
	zip := chi.URLParam(r, "zipcode")
	state := strings.ToUpper(chi.URLParam(r, "state"))
	writeJSON(w, http.StatusOK, s.filter(func(l models.Legislation) bool {
		return l.Level == "federal" || l.State == state || l.Zipcode == zip
	}))
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	var v models.Vote
	if !decode(r, &v) {
		writeText(w, http.StatusBadRequest, "Invalid request.")
		return
	}
	if !s.ownsEmail(r, v.Email) {
		writeText(w, http.StatusForbidden, "Forbidden")
		return
	}
	s.mu.Lock()
	s.votes = append(s.votes, v)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, true)
}

func (s *Server) handleOpinion(w http.ResponseWriter, r *http.Request) {
	var o models.Opinion
	if !decode(r, &o) {
		writeText(w, http.StatusBadRequest, "Invalid request.")
		return
	}
	if !s.ownsEmail(r, o.Email) {
		writeText(w, http.StatusForbidden, "Forbidden")
		return
	}
	s.mu.Lock()
	s.opinions = append(s.opinions, o)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, true)
}

func (s *Server) handleVotes(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if !s.ownsEmail(r, email) {
		writeText(w, http.StatusForbidden, "Forbidden")
		return
	}
	s.mu.Lock()
	out := []models.Vote{}
	for _, v := range s.votes {
		if strings.EqualFold(v.Email, email) {
			out = append(out, v)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleOpinions(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if !s.ownsEmail(r, email) {
		writeText(w, http.StatusForbidden, "Forbidden")
		return
	}
	s.mu.Lock()
	out := []models.Opinion{}
	for _, o := range s.opinions {
		if strings.EqualFold(o.Email, email) {
			out = append(out, o)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAI(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if !decode(r, &req) || strings.TrimSpace(req.Prompt) == "" {
		writeText(w, http.StatusBadRequest, "Prompt is required.")
		return
	}
	writeText(w, http.StatusOK, fmt.Sprintf("Summary: %s", req.Prompt))
}

// requireAccess rejects requests without a current access token with 401.
func (s *Server) requireAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.bearerClaims(r, kindAccess)
		if err != nil {
			writeText(w, http.StatusUnauthorized, err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, claims.Email)))
	})
}

func (s *Server) bearerClaims(r *http.Request, kind string) (*Claims, error) {
	header := r.Header.Get(common.AuthorizationHeaderName)
	if !strings.HasPrefix(header, common.BearerPrefix) {
		return nil, ErrInvalidToken
	}
	claims, err := parseToken(strings.TrimPrefix(header, common.BearerPrefix), s.secret)
	if err != nil {
		return nil, err
	}
	if claims.Kind != kind {
		return nil, ErrInvalidToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	gen := s.accessGen
	if kind == kindRefresh {
		gen = s.refreshGen
	}
	if claims.Generation < gen {
		return nil, ErrTokenExpired
	}
	if _, ok := s.users[strings.ToLower(claims.Email)]; !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *Server) currentUser(r *http.Request) (user, bool) {
	email, _ := r.Context().Value(ctxKey{}).(string)
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[strings.ToLower(email)]
	if !ok {
		return user{}, false
	}
	return *u, true
}

func (s *Server) ownsEmail(r *http.Request, email string) bool {
	current, _ := r.Context().Value(ctxKey{}).(string)
	return current != "" && strings.EqualFold(current, email)
}

func (s *Server) filter(keep func(models.Legislation) bool) []models.Legislation {
	out := []models.Legislation{}
	for _, l := range s.legislation {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}
