// Package auth obtains OAuth2 client-credential tokens for outbound
// service calls, caching the token until it expires.
package auth

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ClientCred holds a cached client-credentials token.
type ClientCred struct {
	conf  clientcredentials.Config
	token *oauth2.Token
}

// NewClientCred builds a credential source from configuration.
func NewClientCred(conf Conf) *ClientCred {
	return &ClientCred{conf: conf.toOauth2Config()}
}

// Token returns a valid access token, fetching a fresh one when the
// cached token has expired.
func (c *ClientCred) Token() (string, error) {
	if c.token != nil && c.token.Valid() {
		return c.token.AccessToken, nil
	}
	if err := c.fetch(); err != nil {
		return "", err
	}
	return c.token.AccessToken, nil
}

// SetAuthHeader attaches a bearer token to the request, fetching one
// first when needed.
func (c *ClientCred) SetAuthHeader(r *http.Request) error {
	if c.token == nil || !c.token.Valid() {
		if err := c.fetch(); err != nil {
			return err
		}
	}
	c.token.SetAuthHeader(r)
	return nil
}

func (c *ClientCred) fetch() error {
	tok, err := c.conf.Token(context.Background())
	if err != nil {
		return fmt.Errorf("fetch token: %w", err)
	}
	c.token = tok
	return nil
}
