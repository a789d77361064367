package notifier

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/KMashiane/engulf-trader/internal/utils"
)

// TelegramNotifier sends messages through the Telegram bot API, retrying
// transient failures.
type TelegramNotifier struct {
	token   string
	chatID  string
	retries int
	delay   time.Duration
	client  *http.Client
}

func NewTelegramNotifier(token, chatID, proxyURL string, retries int, delay time.Duration) (*TelegramNotifier, error) {
	if retries < 1 {
		retries = 1
	}

	transport := &http.Transport{}
	if proxyURL != "" {
		parsed, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", err)
		}
		transport.Proxy = http.ProxyURL(parsed)
	}

	return &TelegramNotifier{
		token:   token,
		chatID:  chatID,
		retries: retries,
		delay:   delay,
		client:  &http.Client{Timeout: 15 * time.Second, Transport: transport},
	}, nil
}

func (t *TelegramNotifier) Send(ctx context.Context, message string) error {
	apiURL := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.token)
	form := url.Values{
		"chat_id": {t.chatID},
		"text":    {message},
	}

	var lastErr error
	for attempt := 1; attempt <= t.retries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, strings.NewReader(form.Encode()))
		if err != nil {
			return fmt.Errorf("creating telegram request: %w", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := t.client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
			lastErr = fmt.Errorf("telegram send failed: %s", resp.Status)
		} else {
			lastErr = err
		}

		utils.GetLogger().Printf("Notifier | Telegram attempt %d/%d failed: %v", attempt, t.retries, lastErr)
		if attempt < t.retries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(t.delay):
			}
		}
	}

	return fmt.Errorf("telegram send failed after %d attempts: %w", t.retries, lastErr)
}
