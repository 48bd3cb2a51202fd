// Package client talks to a remote postpreview service.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	json "github.com/json-iterator/go"

	"github.com/chihoangvnn/postpreview/internal/logutil"
	"github.com/chihoangvnn/postpreview/internal/preview"
)

const (
	apiPath   = "/api/content-preview"
	userAgent = "postpreview-cli"
)

// Config configures a Client. Token may be empty when the server runs
// without authentication.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// APIError is a non-2xx answer from the service.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%d] %s: %s", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("[%d] %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the service.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// Client is a thin wrapper over the preview HTTP API.
type Client struct {
	rc *resty.Client
}

// New builds a client for cfg.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("client: base URL is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	h := resty.New().
		SetBaseURL(base+apiPath).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		h.SetAuthToken(cfg.Token)
	}

	h.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		logutil.Debug("http request", "method", req.Method, "url", req.URL)
		return nil
	})
	h.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logutil.Debug("http response", "status", resp.StatusCode(), "duration", resp.Time())
		return nil
	})

	return &Client{rc: h}, nil
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// Generate asks the service for a single-platform preview.
func (c *Client) Generate(ctx context.Context, opts preview.Options) (preview.Result, error) {
	body := struct {
		Text     string               `json:"text"`
		Media    []preview.MediaAsset `json:"media"`
		Platform string               `json:"platform"`
	}{opts.Text, opts.Media, string(opts.Platform)}

	var out struct {
		Preview preview.Result `json:"preview"`
	}
	if err := c.do(ctx, http.MethodPost, "/generate", body, &out); err != nil {
		return preview.Result{}, err
	}
	return out.Preview, nil
}

// MultiPlatform asks the service for previews on every platform.
func (c *Client) MultiPlatform(ctx context.Context, text string, media []preview.MediaAsset) (map[preview.Platform]preview.Result, error) {
	body := struct {
		Text  string               `json:"text"`
		Media []preview.MediaAsset `json:"media"`
	}{text, media}

	var out struct {
		Previews map[preview.Platform]preview.Result `json:"previews"`
	}
	if err := c.do(ctx, http.MethodPost, "/multi-platform", body, &out); err != nil {
		return nil, err
	}
	return out.Previews, nil
}

// Limits fetches the rule set of one platform.
func (c *Client) Limits(ctx context.Context, platform preview.Platform) (preview.PlatformLimits, error) {
	var out struct {
		Limits preview.PlatformLimits `json:"limits"`
	}
	if err := c.do(ctx, http.MethodGet, "/limits/"+string(platform), nil, &out); err != nil {
		return preview.PlatformLimits{}, err
	}
	return out.Limits, nil
}

// AllLimits fetches the rule sets of every platform.
func (c *Client) AllLimits(ctx context.Context) (map[preview.Platform]preview.PlatformLimits, error) {
	var out struct {
		Limits map[preview.Platform]preview.PlatformLimits `json:"limits"`
	}
	if err := c.do(ctx, http.MethodGet, "/limits", nil, &out); err != nil {
		return nil, err
	}
	return out.Limits, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, target any) error {
	req := c.rc.R().SetContext(ctx)
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		req.SetHeader("Content-Type", "application/json").SetBody(raw)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if !resp.IsSuccess() {
		return parseError(resp)
	}
	if err := json.Unmarshal(resp.Body(), target); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func parseError(resp *resty.Response) error {
	var e errorResponse
	if err := json.Unmarshal(resp.Body(), &e); err == nil && e.Error != "" {
		return &APIError{StatusCode: resp.StatusCode(), Message: e.Error, Details: e.Details}
	}
	msg := strings.TrimSpace(string(resp.Body()))
	if msg == "" {
		msg = resp.Status()
	}
	return &APIError{StatusCode: resp.StatusCode(), Message: msg}
}
