// Package gateway is the HTTP client for the remote streaming API. Every
// failure, transport-level or non-2xx alike, surfaces as ErrRequestFailed;
// the workflows never distinguish further than that.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/videoflix/webclient/internal/logging"
	"github.com/videoflix/webclient/internal/models"
)

// ErrRequestFailed is the single error kind reported for upstream calls.
var ErrRequestFailed = errors.New("upstream request failed")

// Client issues single round-trip requests against the streaming API.
// No retry, no backoff: failures are surfaced immediately to the caller.
type Client struct {
	baseURL string
	http    *http.Client
}

// New constructs a Client for the given API base URL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// NewWithHTTPClient allows tests to inject a custom transport.
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

type loginResponse struct {
	Token string `json:"token"`
}

// SignUp creates a new account. The user is not logged in afterwards; the
// API sends a verification email instead.
func (c *Client) SignUp(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return c.post(ctx, "/auth/registration/", "", body, nil)
}

// VerifyEmail confirms an email address using the token from the
// verification link.
func (c *Client) VerifyEmail(ctx context.Context, token string) error {
	body := map[string]string{"token": token}
	return c.post(ctx, "/auth/verification/", "", body, nil)
}

// ResendVerificationEmail asks the API to send a fresh verification email.
// The path spelling matches the deployed API route.
func (c *Client) ResendVerificationEmail(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.post(ctx, "/auth/resend_verifiction/", "", body, nil)
}

// SendResetPasswordEmail requests a password-reset email.
func (c *Client) SendResetPasswordEmail(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.post(ctx, "/auth/forgot_password/", "", body, nil)
}

// ResetPassword applies a new password using the token from the reset email.
func (c *Client) ResetPassword(ctx context.Context, password, token string) error {
	body := map[string]string{"password": password, "token": token}
	return c.post(ctx, "/auth/reset_password/", "", body, nil)
}

// Login exchanges credentials for an opaque session token. The API expects
// the email address in the username field.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"username": email, "password": password}
	var resp loginResponse
	if err := c.post(ctx, "/auth/login/", "", body, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Logout invalidates the provided session token server-side.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.post(ctx, "/auth/logout/", token, map[string]string{}, nil)
}

// Dashboard fetches the dashboard aggregate for the authenticated user.
func (c *Client) Dashboard(ctx context.Context, token string) (models.DashboardData, error) {
	var data models.DashboardData
	if err := c.get(ctx, "/dashboard/", token, &data); err != nil {
		return models.DashboardData{}, err
	}
	return data, nil
}

// Hero fetches the detail projection for the hero area.
func (c *Client) Hero(ctx context.Context, token string, id int) (models.HeroVideo, error) {
	var hero models.HeroVideo
	path := "/hero?id=" + strconv.Itoa(id)
	if err := c.get(ctx, path, token, &hero); err != nil {
		return models.HeroVideo{}, err
	}
	return hero, nil
}

// Video fetches the playback manifest and last watched timestamp for the
// given video at the requested resolution.
func (c *Client) Video(ctx context.Context, token string, id int, resolution models.Resolution) (models.Video, error) {
	var video models.Video
	query := url.Values{}
	query.Set("id", strconv.Itoa(id))
	query.Set("resolution", strconv.Itoa(int(resolution)))
	if err := c.get(ctx, "/video?"+query.Encode(), token, &video); err != nil {
		return models.Video{}, err
	}
	return video, nil
}

// UpdateWatchHistory persists the playback position for a video.
func (c *Client) UpdateWatchHistory(ctx context.Context, token string, videoID int, seconds float64) error {
	body := map[string]any{"timestamp": seconds, "video_id": videoID}
	return c.post(ctx, "/update_watch_history/", token, body, nil)
}

func (c *Client) post(ctx context.Context, path, token string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, path, token, out)
}

func (c *Client) get(ctx context.Context, path, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	return c.do(req, path, token, out)
}

func (c *Client) do(req *http.Request, path, token string, out any) error {
	ctx, span := logging.StartSpan(req.Context(), "gateway "+req.Method+" "+path)
	defer span.End()
	req = req.WithContext(ctx)

	// The token is attached here, at call time, never cached earlier.
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logging.FromContext(ctx).Warn("upstream call failed", "path", path, "error", err)
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		logging.FromContext(ctx).Warn("upstream call rejected", "path", path, "status", resp.StatusCode)
		return fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrRequestFailed, err)
	}
	return nil
}
