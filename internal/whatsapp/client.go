// Package whatsapp implements the authenticated messaging-provider
// client used by the notifier: login with basic credentials, template
// sends with a bearer access token, and the bounded refresh/re-login
// protocol on authorization failures.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Session is the access/refresh token pair for one notifier run.  It
// is an explicit value owned by the caller and updated through the
// pointer passed to SendTemplate; there is no package-level token
// state and nothing is persisted across runs.  A zero Session means
// unauthenticated, and the first send performs a lazy login.
type Session struct {
	AccessToken  string
	RefreshToken string
}

// Config carries the provider endpoints and credentials.
type Config struct {
	LoginURL     string
	RefreshURL   string
	TemplateURL  string
	Username     string
	Password     string
	TemplateName string
	LanguageCode string
}

// Client talks to the messaging provider.  It is safe to share across
// events within a run as long as sends stay sequential, which the
// notifier guarantees.
type Client struct {
	http *http.Client
	cfg  Config
}

func NewClient(cfg Config) *Client {
	return &Client{
		http: &http.Client{Timeout: 30 * time.Second},
		cfg:  cfg,
	}
}

// tokenResponse is the body shape of both the login and the refresh
// endpoints.  refresh_token may be absent on refresh.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Login exchanges the fixed basic credentials for a fresh token pair.
// A failed login is fatal for the current delivery attempt; it is
// never retried here.
func (c *Client) Login(ctx context.Context) (Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.LoginURL, nil)
	if err != nil {
		return Session{}, err
	}
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)

	resp, err := c.http.Do(req)
	if err != nil {
		return Session{}, err
	}
	defer drain(resp)

	if resp.StatusCode >= 400 {
		return Session{}, fmt.Errorf("login failed: status %d", resp.StatusCode)
	}
	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Session{}, fmt.Errorf("login response: %w", err)
	}
	if body.AccessToken == "" || body.RefreshToken == "" {
		return Session{}, fmt.Errorf("login response missing tokens")
	}
	return Session{AccessToken: body.AccessToken, RefreshToken: body.RefreshToken}, nil
}

// refresh tries to exchange the held refresh token for a new access
// token, updating the session in place.  Any failure reports false so
// the caller can fall back to a full re-login; it never errors out.
func (c *Client) refresh(ctx context.Context, s *Session) bool {
	if s.RefreshToken == "" {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.RefreshURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+s.RefreshToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer drain(resp)

	if resp.StatusCode >= 400 {
		return false
	}
	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false
	}
	if body.AccessToken == "" {
		return false
	}
	s.AccessToken = body.AccessToken
	if body.RefreshToken != "" {
		s.RefreshToken = body.RefreshToken
	}
	return true
}

// SendTemplate submits one template payload under the session's access
// token and returns the provider's final HTTP status.  The auth
// protocol is bounded at three posts per event:
//
//	post → 401? → refresh, post → still 401? → re-login, final post
//
// Any status other than 401 is returned as-is (the caller decides
// whether a non-2xx status is a per-event failure).  Transport errors
// and login failures surface as errors.
func (c *Client) SendTemplate(ctx context.Context, s *Session, payload TemplatePayload) (int, error) {
	if s.AccessToken == "" {
		fresh, err := c.Login(ctx)
		if err != nil {
			return 0, err
		}
		*s = fresh
	}

	status, err := c.postTemplate(ctx, s.AccessToken, payload)
	if err != nil {
		return 0, err
	}
	if status != http.StatusUnauthorized {
		return status, nil
	}

	if c.refresh(ctx, s) {
		status, err = c.postTemplate(ctx, s.AccessToken, payload)
		if err != nil {
			return 0, err
		}
		if status != http.StatusUnauthorized {
			return status, nil
		}
	}

	fresh, err := c.Login(ctx)
	if err != nil {
		return 0, err
	}
	*s = fresh
	return c.postTemplate(ctx, s.AccessToken, payload)
}

// postTemplate performs one raw template POST and reports the status.
func (c *Client) postTemplate(ctx context.Context, accessToken string, payload TemplatePayload) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TemplateURL, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer drain(resp)
	return resp.StatusCode, nil
}

// BuildTemplatePayload assembles the provider payload for one event:
// templated text fields, the location header and the recipient id
// (phone number with the leading "+" stripped).
func (c *Client) BuildTemplatePayload(userID, checkinDate, checkinTime, address string, latitude, longitude float64, phoneNumber string) TemplatePayload {
	return TemplatePayload{
		TemplateName: c.cfg.TemplateName,
		LanguageCode: c.cfg.LanguageCode,
		Body: TemplateBody{
			Map: map[string]TemplateText{
				"employee_name":    {Type: "text", Text: userID},
				"checkin_date":     {Type: "text", Text: checkinDate},
				"checkin_time":     {Type: "text", Text: checkinTime},
				"checkin_location": {Type: "text", Text: address},
			},
		},
		Header: TemplateHeader{
			Type: "location",
			Location: TemplateLocation{
				Latitude:  latitude,
				Longitude: longitude,
				Name:      address,
				Address:   address,
			},
		},
		WaID: strings.TrimPrefix(phoneNumber, "+"),
	}
}

// drain discards and closes the response body so the underlying
// connection can be reused.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
