// Package captcha verifies client-supplied challenge-response tokens against
// a Turnstile-compatible verification endpoint.
package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Verifier checks human-verification tokens. A disabled verifier lets every
// request pass.
type Verifier struct {
	enabled    bool
	secret     string
	verifyURL  string
	httpClient *http.Client
}

func New(enabled bool, secret, verifyURL string) *Verifier {
	return &Verifier{
		enabled:    enabled,
		secret:     secret,
		verifyURL:  verifyURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type verifyResult struct {
	Success bool `json:"success"`
}

// Verify checks the challenge-response token for the given client IP.
// Returns (false, nil) when the service rejects the token, and an error only
// on transport or configuration failure.
func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	if !v.enabled {
		return true, nil
	}
	if strings.TrimSpace(token) == "" {
		return false, nil
	}
	if v.secret == "" || v.verifyURL == "" {
		return false, fmt.Errorf("captcha verifier not configured")
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	var result verifyResult
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&result); err != nil {
		return false, fmt.Errorf("captcha response decode: %w", err)
	}
	return result.Success, nil
}
