package testserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/yoursay/internal/client/models"
	"github.com/dmitrijs2005/yoursay/internal/logging"
)

type user struct {
	Email       string `json:"email"`
	Password    string `json:"-"`
	PhoneNumber string `json:"phoneNumber"`
	Zipcode     string `json:"zipcode"`
	State       string `json:"state"`
	Preferences string `json:"preferences"`
}

// Server is the fake backend. Create it with New and serve Handler.
type Server struct {
	mu sync.Mutex

	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	rotate     bool
	nextCode   func() int
	log        logging.Logger

	accessGen  int
	refreshGen int

	users       map[string]*user
	codes       map[string]int
	legislation []models.Legislation
	votes       []models.Vote
	opinions    []models.Opinion
	calls       map[string]int
}

type Option func(*Server)

// WithRotation makes refresh issue a new refresh token every time.
func WithRotation() Option {
	return func(s *Server) { s.rotate = true }
}

// WithCodes sets the generator for verification codes.
func WithCodes(next func() int) Option {
	return func(s *Server) { s.nextCode = next }
}

func WithTTL(access, refresh time.Duration) Option {
	return func(s *Server) {
		s.accessTTL = access
		s.refreshTTL = refresh
	}
}

// WithSecret sets the JWT signing key.
func WithSecret(secret []byte) Option {
	return func(s *Server) { s.secret = secret }
}

func WithLogger(log logging.Logger) Option {
	return func(s *Server) { s.log = log }
}

func New(opts ...Option) *Server {
	s := &Server{
		secret:      []byte("testserver-secret"),
		accessTTL:   15 * time.Minute,
		refreshTTL:  24 * time.Hour,
		nextCode:    sequentialCodes(100000),
		log:         logging.NewNop(),
		users:       make(map[string]*user),
		codes:       make(map[string]int),
		legislation: seedLegislation(),
		calls:       make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func sequentialCodes(start int) func() int {
	var mu sync.Mutex
	next := start
	return func() int {
		mu.Lock()
		defer mu.Unlock()
		code := next
		next++
		return code
	}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(s.countCalls)

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", s.handleSignup)
		r.Post("/users/send-verification", s.handleSendVerification)
		r.Post("/users/login", s.handleLogin)
		r.Post("/auth/refresh", s.handleRefresh)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAccess)

			r.Post("/auth/validate", s.handleValidate)
			r.Put("/users/preferences", s.handlePreferences)

			r.Route("/legislation", func(r chi.Router) {
				r.Get("/federal", s.handleFederal)
				r.Get("/state/{state}", s.handleState)
				r.Get("/local/{zipcode}", s.handleLocal)
				r.Get("/random/{zipcode}/{state}", s.handleRandom)
				r.Post("/vote", s.handleVote)
				r.Post("/opinion", s.handleOpinion)
				r.Get("/vote/{email}", s.handleVotes)
				r.Get("/opinion/{email}", s.handleOpinions)
				r.Post("/ai", s.handleAI)
			})
		})
	})

	return r
}

// Calls returns how many requests hit path.
func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

// Code returns the last verification code sent to email.
func (s *Server) Code(email string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code, ok := s.codes[strings.ToLower(email)]
	return code, ok
}

// ExpireAccessTokens invalidates every access token issued so far.
func (s *Server) ExpireAccessTokens() {
	s.mu.Lock()
	s.accessGen++
	s.mu.Unlock()
}

// RevokeRefreshTokens invalidates every refresh token issued so far.
func (s *Server) RevokeRefreshTokens() {
	s.mu.Lock()
	s.refreshGen++
	s.mu.Unlock()
}

// Password returns the credential stored for email, as received.
func (s *Server) Password(email string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[strings.ToLower(email)]
	if !ok {
		return "", false
	}
	return u.Password, true
}

func (s *Server) countCalls(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[r.URL.Path]++
		s.mu.Unlock()
		s.log.Debug(r.Context(), "testserver request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(r *http.Request, v any) bool {
	return json.NewDecoder(r.Body).Decode(v) == nil
}

func seedLegislation() []models.Legislation {
	return []models.Legislation{
		{ID: 1, BillID: 1001, Title: "Rural Broadband Expansion Act", Level: "federal", State: "US", Date: "2025-01-14"},
		{ID: 2, BillID: 1002, Title: "Veterans Health Access Act", Level: "federal", State: "US", Date: "2025-02-03"},
		{ID: 3, BillID: 2001, Title: "Wildfire Prevention Funding", Level: "state", State: "CA", Date: "2025-03-21"},
		{ID: 4, BillID: 2002, Title: "Transit Fare Relief", Level: "state", State: "NY", Date: "2025-04-02"},
		{ID: 5, BillID: 3001, Title: "Beverly Hills Park Renovation", Level: "local", State: "CA", Zipcode: "90210", Date: "2025-05-11"},
	}
}
