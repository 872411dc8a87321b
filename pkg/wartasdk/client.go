package wartasdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Client is an unauthenticated client for the warta-core service.
// Authenticated calls go through a Session obtained via WithToken or Login.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client with sane defaults.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Session is a Client plus a bearer token.
type Session struct {
	client *Client
	token  string
}

// WithToken wraps the client with an access token for authenticated calls.
func (c *Client) WithToken(accessToken string) *Session {
	return &Session{client: c, token: accessToken}
}

func (c *Client) url(path string) string {
	return c.BaseURL + path
}

func (c *Client) doJSON(ctx context.Context, method, path string, in any, token string) (*http.Response, error) {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

// decodeJSON decodes a JSON response into target, turning non-2xx responses
// into typed *APIError values.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, bodyBytes)
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func checkStatusNoContent(resp *http.Response) error {
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return parseErrorResponse(resp, bodyBytes)
	}
	return nil
}

/* Unauthenticated operations */

// Register creates a new account. Role may be empty for a plain user.
func (c *Client) Register(ctx context.Context, username, password, role string) error {
	resp, err := c.doJSON(ctx, http.MethodPost, "/v1/auth/register", RegisterRequest{
		Username: username,
		Password: password,
		Role:     role,
	}, "")
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusCreated)
}

// Login authenticates and returns the access token plus session id.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/v1/auth/login", LoginRequest{
		Username: username,
		Password: password,
	}, "")
	if err != nil {
		return nil, err
	}

	var out LoginResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// PublishedArticles returns the public feed, newest first. limit <= 0 uses
// the server default.
func (c *Client) PublishedArticles(ctx context.Context, limit int) ([]ArticleInfo, error) {
	path := "/v1/articles/published"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	resp, err := c.doJSON(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}

	var out ArticleListResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Articles, nil
}

// Livez checks process liveness.
func (c *Client) Livez(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// Readyz checks readiness, including storage reachability.
func (c *Client) Readyz(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *Client) health(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}

	var out HealthResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

/* Authenticated operations */

// Heartbeat keeps the session online. Alive=false in the response means the
// session no longer exists server-side and the client should re-login.
func (s *Session) Heartbeat(ctx context.Context, sessionID string) (*HeartbeatResponse, error) {
	resp, err := s.client.doJSON(ctx, http.MethodPost, "/v1/sessions/"+sessionID+"/heartbeat", nil, s.token)
	if err != nil {
		return nil, err
	}

	var out HeartbeatResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// EndSession marks the session offline. Safe to call more than once.
func (s *Session) EndSession(ctx context.Context, sessionID string) error {
	resp, err := s.client.doJSON(ctx, http.MethodDelete, "/v1/sessions/"+sessionID, nil, s.token)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// Presence returns the online/offline snapshot. Requires the presence:read
// scope (admin role).
func (s *Session) Presence(ctx context.Context) ([]PresenceEntry, error) {
	resp, err := s.client.doJSON(ctx, http.MethodGet, "/v1/presence", nil, s.token)
	if err != nil {
		return nil, err
	}

	var out PresenceResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// CreateArticle stores a new article, as a draft or published right away.
// Requires the articles:write scope.
func (s *Session) CreateArticle(ctx context.Context, title, content string, publish bool) (*ArticleInfo, error) {
	resp, err := s.client.doJSON(ctx, http.MethodPost, "/v1/articles", CreateArticleRequest{
		Title:   title,
		Content: content,
		Publish: publish,
	}, s.token)
	if err != nil {
		return nil, err
	}

	var out ArticleInfo
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// PublishArticle transitions one of the caller's drafts to published.
func (s *Session) PublishArticle(ctx context.Context, articleID string) error {
	resp, err := s.client.doJSON(ctx, http.MethodPost, "/v1/articles/"+articleID+"/publish", nil, s.token)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// MyArticles lists the caller's own articles, drafts included.
func (s *Session) MyArticles(ctx context.Context, limit int) ([]ArticleInfo, error) {
	path := "/v1/articles/mine"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	resp, err := s.client.doJSON(ctx, http.MethodGet, path, nil, s.token)
	if err != nil {
		return nil, err
	}

	var out ArticleListResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Articles, nil
}
