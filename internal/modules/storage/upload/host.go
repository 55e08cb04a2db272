package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// Host is one image hosting backend: raw bytes in, durable public URL out.
type Host interface {
	Name() string
	Upload(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

const (
	defaultPomfURL      = "https://tmpfiles.org/api/v1/upload"
	defaultTelegraphURL = "https://telegra.ph/upload"
	hostTimeout         = 30 * time.Second
)

func newHostHTTPClient() *http.Client {
	return &http.Client{Timeout: hostTimeout}
}

func postMultipart(ctx context.Context, client *http.Client, url, filename string, data []byte) (*http.Response, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return client.Do(req)
}

// pomfHost uploads to a tmpfiles.org style pomf endpoint.
type pomfHost struct {
	url    string
	client *http.Client
}

func newPomfHost(url string) *pomfHost {
	if url == "" {
		url = defaultPomfURL
	}
	return &pomfHost{url: url, client: newHostHTTPClient()}
}

func (h *pomfHost) Name() string { return "pomf" }

var tmpfilesPage = regexp.MustCompile(`^https?://tmpfiles\.org/(.+)$`)

func (h *pomfHost) Upload(ctx context.Context, filename, _ string, data []byte) (string, error) {
	resp, err := postMultipart(ctx, h.client, h.url, filename, data)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pomf host returned status %d", resp.StatusCode)
	}

	var out struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode pomf response: %w", err)
	}
	if out.Data.URL == "" {
		return "", fmt.Errorf("pomf response carried no url")
	}

	// tmpfiles.org returns a landing page; the raw file lives under /dl/.
	if m := tmpfilesPage.FindStringSubmatch(out.Data.URL); m != nil {
		return "https://tmpfiles.org/dl/" + m[1], nil
	}
	return out.Data.URL, nil
}

// telegraphHost uploads to a telegra.ph style endpoint.
type telegraphHost struct {
	url    string
	client *http.Client
}

func newTelegraphHost(url string) *telegraphHost {
	if url == "" {
		url = defaultTelegraphURL
	}
	return &telegraphHost{url: url, client: newHostHTTPClient()}
}

func (h *telegraphHost) Name() string { return "telegraph" }

func (h *telegraphHost) Upload(ctx context.Context, filename, _ string, data []byte) (string, error) {
	resp, err := postMultipart(ctx, h.client, h.url, filename, data)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var failure struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &failure) == nil && failure.Error != "" {
		return "", fmt.Errorf("telegraph host: %s", failure.Error)
	}

	var files []struct {
		Src string `json:"src"`
	}
	if err := json.Unmarshal(raw, &files); err != nil || len(files) == 0 || files[0].Src == "" {
		return "", fmt.Errorf("telegraph host returned no file")
	}

	base := strings.TrimSuffix(h.url, "/upload")
	return base + files[0].Src, nil
}
