// Package telegram relays formatted text messages to a fixed chat via the
// Bot API. Used for prompt-request notifications and throttled abuse alerts.
package telegram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

const defaultAPIBase = "https://api.telegram.org"

// Client sends messages through the Telegram Bot API.
type Client struct {
	botToken   string
	chatID     string
	apiBase    string
	httpClient *http.Client

	mu         sync.Mutex
	lastPushAt map[string]time.Time
	throttleD  time.Duration
}

// New creates a Telegram client. apiBase overrides the API host for tests;
// pass "" for the production endpoint.
func New(botToken, chatID, apiBase string) *Client {
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	return &Client{
		botToken:   botToken,
		chatID:     chatID,
		apiBase:    strings.TrimRight(apiBase, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		lastPushAt: make(map[string]time.Time),
		throttleD:  10 * time.Minute,
	}
}

// Configured reports whether both bot token and chat id are set.
func (c *Client) Configured() bool {
	return c.botToken != "" && c.chatID != ""
}

type sendMessagePayload struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

type sendMessageResult struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

// Send delivers one Markdown-formatted message to the configured chat.
func (c *Client) Send(text string) error {
	if !c.Configured() {
		return fmt.Errorf("telegram credentials not configured")
	}

	payload := sendMessagePayload{ChatID: c.chatID, Text: text, ParseMode: "Markdown"}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.apiBase, c.botToken)
	resp, err := c.httpClient.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var result sendMessageResult
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&result); err != nil {
		return fmt.Errorf("telegram response decode: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("telegram api rejected message: %s", result.Description)
	}
	return nil
}

// ThrottlePush sends a rate-limit alert for ip|path, at most once per
// throttle window per pair.
func (c *Client) ThrottlePush(ip, path string) {
	if !c.Configured() {
		return
	}

	throttleKey := ip + "|" + path

	c.mu.Lock()
	last, ok := c.lastPushAt[throttleKey]
	if ok && time.Since(last) < c.throttleD {
		c.mu.Unlock()
		return
	}
	c.lastPushAt[throttleKey] = time.Now()
	c.mu.Unlock()

	_ = c.Send(fmt.Sprintf("⚠️ *Rate limit exceeded*\n\nIP: `%s`\nPath: `%s`", ip, path))
}
