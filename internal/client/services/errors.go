package services

import (
	"errors"
	"strings"

	"github.com/dmitrijs2005/yoursay/internal/client/client"
	"github.com/dmitrijs2005/yoursay/internal/client/gateway"
)

var ErrNotLoggedIn = errors.New("not logged in")

// expectOK turns a non-2xx gateway response into a *client.APIError.
func expectOK(resp *gateway.Response) error {
	if resp.OK() {
		return nil
	}
	return &client.APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(resp.Body))}
}
