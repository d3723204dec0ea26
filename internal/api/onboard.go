package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/nibzard/missionctl/internal/model"
)

// OnboardRequest describes a new identity to register.
type OnboardRequest struct {
	Name string
	// Type is "agent" or "human". Anything other than "human" registers an
	// agent, matching the backend.
	Type model.UserKind
	// KeyName labels the issued API key. Defaults to "<name> key".
	KeyName string
}

// Credentials are returned once by Onboard. The plaintext API key cannot be
// retrieved again.
type Credentials struct {
	UserID    string `json:"userId"`
	KeyID     string `json:"keyId"`
	APIKey    string `json:"apiKey"`
	ConvexURL string `json:"convexUrl"`
}

// Env renders the credentials as environment variable assignments.
func (c *Credentials) Env(fallbackURL string) string {
	base := c.ConvexURL
	if base == "" {
		base = fallbackURL
	}
	return fmt.Sprintf("CONVEX_URL=%s\nAPI_KEY=%s\nUSER_ID=%s", base, c.APIKey, c.UserID)
}

// normalize fills defaults the same way the backend does.
func (r OnboardRequest) normalize() OnboardRequest {
	r.Name = strings.TrimSpace(r.Name)
	if r.Type != model.KindHuman {
		r.Type = model.KindAgent
	}
	if strings.TrimSpace(r.KeyName) == "" {
		r.KeyName = r.Name + " key"
	}
	return r
}

// Onboard registers a user or agent and issues an API key. The call is
// unauthenticated.
func (c *Client) Onboard(ctx context.Context, req OnboardRequest) (*Credentials, error) {
	req = req.normalize()
	if req.Name == "" {
		return nil, &model.ValidationError{Path: "name", Err: errRequired}
	}

	var creds Credentials
	err := c.do(ctx, request{
		op:     "onboard",
		method: http.MethodPost,
		path:   "/api/onboard",
		body: map[string]string{
			"name":    req.Name,
			"type":    string(req.Type),
			"keyName": req.KeyName,
		},
		noAuth: true,
	}, &creds)
	if err != nil {
		return nil, err
	}
	if creds.UserID == "" || creds.APIKey == "" {
		return nil, &DecodeError{Op: "onboard", Err: fmt.Errorf("response is missing userId or apiKey")}
	}
	return &creds, nil
}
