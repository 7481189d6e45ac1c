package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/yoursay/internal/client/client"
	"github.com/dmitrijs2005/yoursay/internal/client/credentials"
	"github.com/dmitrijs2005/yoursay/internal/client/gateway"
	"github.com/dmitrijs2005/yoursay/internal/client/models"
)

const legislationRoot = "/api/legislation"

// LegislationService reads bills and records the user's votes and opinions.
// Every call goes through the gateway and so requires a valid session.
type LegislationService interface {
	Federal(ctx context.Context) ([]models.Legislation, error)
	State(ctx context.Context, state string) ([]models.Legislation, error)
	Local(ctx context.Context, zipcode string) ([]models.Legislation, error)
	Random(ctx context.Context, zipcode, state string) ([]models.Legislation, error)
	Vote(ctx context.Context, billID int, vote bool) error
	Opinion(ctx context.Context, billID int, text string) error
	Votes(ctx context.Context) ([]models.Vote, error)
	Opinions(ctx context.Context) ([]models.Opinion, error)
	Ask(ctx context.Context, prompt string) (string, error)
}

type legislationService struct {
	gw    Requester
	creds *credentials.Store
}

func NewLegislationService(gw Requester, creds *credentials.Store) LegislationService {
	return &legislationService{gw: gw, creds: creds}
}

func (l *legislationService) Federal(ctx context.Context) ([]models.Legislation, error) {
	return l.list(ctx, legislationRoot+"/federal")
}

func (l *legislationService) State(ctx context.Context, state string) ([]models.Legislation, error) {
	return l.list(ctx, legislationRoot+"/state/"+url.PathEscape(strings.ToUpper(state)))
}

func (l *legislationService) Local(ctx context.Context, zipcode string) ([]models.Legislation, error) {
	return l.list(ctx, legislationRoot+"/local/"+url.PathEscape(zipcode))
}

func (l *legislationService) Random(ctx context.Context, zipcode, state string) ([]models.Legislation, error) {
	return l.list(ctx, legislationRoot+"/random/"+url.PathEscape(zipcode)+"/"+url.PathEscape(strings.ToUpper(state)))
}

func (l *legislationService) Vote(ctx context.Context, billID int, vote bool) error {
	email, err := l.email(ctx)
	if err != nil {
		return err
	}
	return l.post(ctx, legislationRoot+"/vote", models.Vote{Email: email, BillID: billID, Vote: vote})
}

func (l *legislationService) Opinion(ctx context.Context, billID int, text string) error {
	email, err := l.email(ctx)
	if err != nil {
		return err
	}
	return l.post(ctx, legislationRoot+"/opinion", models.Opinion{Email: email, BillID: billID, Opinion: text})
}

func (l *legislationService) Votes(ctx context.Context) ([]models.Vote, error) {
	email, err := l.email(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Vote
	if err := l.get(ctx, legislationRoot+"/vote/"+url.PathEscape(email), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *legislationService) Opinions(ctx context.Context) ([]models.Opinion, error) {
	email, err := l.email(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Opinion
	if err := l.get(ctx, legislationRoot+"/opinion/"+url.PathEscape(email), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Ask sends a free-form question about legislation and returns the
// server's plain-text answer.
func (l *legislationService) Ask(ctx context.Context, prompt string) (string, error) {
	resp, err := l.gw.Do(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   legislationRoot + "/ai",
		Body:   map[string]string{"prompt": prompt},
	})
	if err != nil {
		return "", err
	}
	if err := expectOK(resp); err != nil {
		return "", err
	}
	return strings.TrimSpace(string(resp.Body)), nil
}

func (l *legislationService) list(ctx context.Context, path string) ([]models.Legislation, error) {
	var out []models.Legislation
	if err := l.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *legislationService) get(ctx context.Context, path string, v any) error {
	resp, err := l.gw.Do(ctx, gateway.Request{Method: http.MethodGet, Path: path})
	if err != nil {
		return err
	}
	if err := expectOK(resp); err != nil {
		return err
	}
	if err := resp.DecodeJSON(v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", client.ErrMalformedResponse, path, err)
	}
	return nil
}

func (l *legislationService) post(ctx context.Context, path string, body any) error {
	resp, err := l.gw.Do(ctx, gateway.Request{Method: http.MethodPost, Path: path, Body: body})
	if err != nil {
		return err
	}
	return expectOK(resp)
}

func (l *legislationService) email(ctx context.Context) (string, error) {
	p, err := l.creds.Profile(ctx)
	if err != nil {
		return "", err
	}
	if p.Email == "" {
		return "", ErrNotLoggedIn
	}
	return p.Email, nil
}
