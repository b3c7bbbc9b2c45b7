package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

const defaultAPIBase = "https://api.telegram.org"

// BotCommand is one entry of the command menu published to Telegram.
type BotCommand struct {
	Command     string `json:"command"`
	Description string `json:"description"`
}

// botCommands mirrors the commands the scheduler dispatches on, so chat
// clients can offer them as a menu.
var botCommands = []BotCommand{
	{Command: "report", Description: "Full report for an asset"},
	{Command: "cycle", Description: "Cycle phase, stats and projections"},
	{Command: "market", Description: "Price and indicator snapshot"},
	{Command: "streak", Description: "Green/red candle streak stats"},
	{Command: "status", Description: "Uptime and last recorded phases"},
	{Command: "help", Description: "List available commands"},
}

// TelegramNotifier delivers reports and phase alerts to one chat.
type TelegramNotifier struct {
	BotToken string
	ChatID   string
	Client   *http.Client
	APIBase  string
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
		BotToken: botToken,
		ChatID:   chatID,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		APIBase: defaultAPIBase,
	}
}

// call posts a JSON payload to one Bot API method.
func (t *TelegramNotifier) call(method string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", method, err)
	}
	apiURL := fmt.Sprintf("%s/bot%s/%s", t.APIBase, t.BotToken, method)
	resp, err := t.Client.Post(apiURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("call %s: %w", method, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram %s: status %d, body: %s", method, resp.StatusCode, string(respBody))
	}
	return nil
}

// Send delivers one HTML-formatted message to the configured chat. Link
// previews are disabled: reports quote prices, not articles.
func (t *TelegramNotifier) Send(text string) error {
	return t.call("sendMessage", map[string]interface{}{
		"chat_id":                  t.ChatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	})
}

// RegisterCommands publishes the bot's command menu. Called once at
// startup; failure is not fatal, commands still work untyped.
func (t *TelegramNotifier) RegisterCommands() error {
	return t.call("setMyCommands", map[string]interface{}{
		"commands": botCommands,
	})
}

// SendWithRetry resends on failure with doubling backoff, starting at one
// second. Alerts follow a daily cadence, so waiting out a flaky network
// beats dropping the message.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if err := t.Send(text); err != nil {
			lastErr = err
			backoff := time.Duration(1<<uint(i)) * time.Second
			log.Printf("[WARN] Telegram send failed (attempt %d/%d): %v, retrying in %v", i+1, maxRetries+1, err, backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				continue
			}
		}
		return nil
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}
