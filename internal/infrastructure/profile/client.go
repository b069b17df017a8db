// Package profile calls the downstream profile service when an account is created.
package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
	appCtx "github.com/baechuer/real-time-ressys/services/account-service/internal/pkg/context"
)

const provisionPath = "/api/v1/profile"

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// Client provisions the default profile of a new user.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// provisionRequest is the default profile body; every field except the
// identity is empty.
type provisionRequest struct {
	AuthorID    int64   `json:"authorId"`
	DisplayName string  `json:"display_name"`
	Gender      string  `json:"gender"`
	Birthday    *string `json:"birthday"`
	Horoscope   string  `json:"horoscope"`
	Zodiac      string  `json:"zodiac"`
	Height      int     `json:"height"`
	Weight      int     `json:"weight"`
	Image       string  `json:"image"`
}

// Provision posts the default profile for u. A non-2xx reply becomes
// domain.ErrUpstream with the remote status and message; a transport
// failure becomes domain.ErrProfileUnavailable.
func (c *Client) Provision(ctx context.Context, u domain.User) error {
	body, err := json.Marshal(provisionRequest{AuthorID: u.ID, DisplayName: u.Name})
	if err != nil {
		return domain.ErrInternal(err)
	}

	endpoint := c.baseURL + provisionPath + "?" + url.Values{"userId": {strconv.FormatInt(u.ID, 10)}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.ErrProfileUnavailable(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if id := appCtx.GetRequestID(ctx); id != "" {
		req.Header.Set(appCtx.RequestIDHeader, id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ErrProfileUnavailable(fmt.Errorf("provision user %d: %w", u.ID, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return domain.ErrUpstream(resp.StatusCode, upstreamMessage(raw))
}

// upstreamMessage pulls "message" out of an error body. Validation errors
// from the profile service send it as a list of strings.
func upstreamMessage(raw []byte) string {
	var body struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Message) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(body.Message, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(body.Message, &list); err == nil {
		return strings.Join(list, "; ")
	}
	return ""
}
