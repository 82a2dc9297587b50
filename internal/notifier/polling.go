package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// CommandHandler is called when a user command is received.
type CommandHandler func(ctx context.Context, command string) string

// telegramUpdate represents a Telegram update from long polling.
type telegramUpdate struct {
	UpdateID int `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
	} `json:"message"`
}

// StartPolling begins long-polling for Telegram commands. Blocks until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	offset := 0
	client := &http.Client{Timeout: 35 * time.Second, Transport: t.Client.Transport}

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("telegram polling stopped")
			return
		default:
		}

		next, err := t.poll(ctx, client, offset, handler)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warn().Err(err).Msg("polling request failed")
			sleep(ctx, 5*time.Second)
			continue
		}
		offset = next
	}
}

// poll runs one getUpdates round and dispatches its commands. It returns the next offset.
func (t *TelegramNotifier) poll(ctx context.Context, client *http.Client, offset int, handler CommandHandler) (int, error) {
	apiURL := fmt.Sprintf("%s?offset=%d&timeout=30", t.endpoint("getUpdates"), offset)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return offset, fmt.Errorf("create polling request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return offset, err
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return offset, fmt.Errorf("read polling response: %w", err)
	}

	var result struct {
		OK     bool             `json:"ok"`
		Result []telegramUpdate `json:"result"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return offset, fmt.Errorf("decode polling response: %w", err)
	}

	for _, update := range result.Result {
		offset = update.UpdateID + 1
		if update.Message == nil || update.Message.Text == "" {
			continue
		}
		text := strings.TrimSpace(update.Message.Text)
		log.Info().Str("command", text).Msg("received command")
		if reply := handler(ctx, text); reply != "" {
			if err := t.Send(ctx, reply); err != nil {
				log.Error().Err(err).Msg("send reply")
			}
		}
	}
	return offset, nil
}

func sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
