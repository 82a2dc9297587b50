package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultAPIBase is the Telegram Bot API endpoint.
const DefaultAPIBase = "https://api.telegram.org"

// TelegramNotifier sends messages via the Telegram Bot API.
type TelegramNotifier struct {
	APIBase  string
	BotToken string
	ChatID   string
	Client   *http.Client
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken, chatID, proxyURL string) *TelegramNotifier {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &TelegramNotifier{
		APIBase:  DefaultAPIBase,
		BotToken: botToken,
		ChatID:   chatID,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (t *TelegramNotifier) endpoint(method string) string {
	base := t.APIBase
	if base == "" {
		base = DefaultAPIBase
	}
	return fmt.Sprintf("%s/bot%s/%s", base, t.BotToken, method)
}

// Send sends an HTML message to the configured chat.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	payload := map[string]string{
		"chat_id":    t.ChatID,
		"text":       text,
		"parse_mode": "HTML",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint("sendMessage"), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// SendWithRetry sends a message with exponential backoff retry.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	return t.sendWithBackoff(ctx, text, maxRetries, time.Second)
}

func (t *TelegramNotifier) sendWithBackoff(ctx context.Context, text string, maxRetries int, base time.Duration) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		err := t.Send(ctx, text)
		if err == nil {
			return nil
		}
		lastErr = err
		if i == maxRetries {
			break
		}
		backoff := base << uint(i)
		log.Warn().Err(err).Int("attempt", i+1).Int("max", maxRetries+1).Dur("backoff", backoff).Msg("telegram send failed, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}
