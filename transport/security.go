package transport

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

const (
	securityAuthorizePath = "/security/authorize"
	invalidKeyMessage     = "Invalid key"
)

// needsToken reports whether req is a write made with basic auth. API key
// sessions do not use security tokens.
func (c *Client) needsToken(method string, req *Request) bool {
	if method == http.MethodGet {
		return false
	}
	auth := c.authFor(req)
	return auth.APIKey == "" && auth.Username != ""
}

// securityToken returns the token cached for the request's credentials or
// fetches a new one.
func (c *Client) securityToken(ctx context.Context, req *Request) (string, error) {
	auth := c.authFor(req)
	c.mu.Lock()
	token := c.tokens[auth]
	c.mu.Unlock()
	if token != "" {
		return token, nil
	}

	authReq := &Request{
		URL:     securityAuthorizePath,
		Options: RequestOptions{Headers: req.Options.Headers, Auth: req.Options.Auth},
	}
	payload, err := c.exchange.Execute(ctx, &call{method: http.MethodGet, req: authReq})
	if err != nil {
		return "", err
	}
	token, _ = payload["SecurityToken"].(string)
	if token == "" {
		return "", NewDecodeError(http.StatusOK, nil, errMissingToken)
	}

	c.mu.Lock()
	c.tokens[auth] = token
	c.mu.Unlock()
	return token, nil
}

// clearToken drops the token cached for auth if it is still stale.
func (c *Client) clearToken(auth Auth, stale string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tokens[auth] == stale {
		delete(c.tokens, auth)
	}
}

func isInvalidKey(payload Payload, err error) bool {
	var errs []string
	var re ResultErrors
	if errors.As(err, &re) {
		errs = re
	} else if err == nil {
		errs = stringList(payload["Errors"])
	}
	for _, e := range errs {
		if strings.Contains(e, invalidKeyMessage) {
			return true
		}
	}
	return false
}

var errMissingToken = errors.New("security token missing from authorize response")
