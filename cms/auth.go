package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"carvewood-storefront/models"
)

// Credentials is the CMS's answer to a successful login or registration:
// an opaque bearer token and the user record it belongs to. The token is
// stored and forwarded as-is, never inspected.
type Credentials struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Login exchanges an identifier (email or username) and password for
// credentials. A rejected login is ErrInvalidCredentials.
func (c *Client) Login(ctx context.Context, identifier, password string) (*Credentials, error) {
	body := map[string]string{"identifier": identifier, "password": password}
	creds, err := c.postAuth(ctx, "/api/auth/local", body)
	if err != nil {
		if _, ok := err.(*ValidationError); ok {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return creds, nil
}

// Register creates an account with the CMS. Rejections (taken email,
// weak password) come back as a *ValidationError with the CMS's message.
func (c *Client) Register(ctx context.Context, username, email, password string) (*Credentials, error) {
	body := map[string]string{"username": username, "email": email, "password": password}
	return c.postAuth(ctx, "/api/auth/local/register", body)
}

func (c *Client) postAuth(ctx context.Context, path string, body map[string]string) (*Credentials, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		var fail struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&fail); err != nil || fail.Error.Message == "" {
			return nil, &ValidationError{Message: "Request rejected by the CMS"}
		}
		return nil, &ValidationError{Message: fail.Error.Message}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cms: POST %s returned %d", path, resp.StatusCode)
	}

	var ok struct {
		JWT  string      `json:"jwt"`
		User models.User `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ok); err != nil {
		return nil, err
	}
	if ok.JWT == "" {
		return nil, fmt.Errorf("cms: POST %s returned no token", path)
	}
	return &Credentials{Token: ok.JWT, User: ok.User}, nil
}
