package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// CommandHandler maps an incoming command line to a reply, empty for none.
type CommandHandler func(command string) string

type telegramUpdate struct {
	UpdateID int `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

// StartPolling long-polls getUpdates and dispatches slash commands from
// the configured chat. Plain chatter and other chats are ignored. Blocks
// until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	offset := 0
	// Timeout sits above the 30s long-poll window.
	client := &http.Client{Timeout: 35 * time.Second}

	for {
		select {
		case <-ctx.Done():
			log.Println("[INFO] Telegram polling stopped")
			return
		default:
		}

		apiURL := fmt.Sprintf("%s/bot%s/getUpdates?offset=%d&timeout=30", t.APIBase, t.BotToken, offset)
		req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
		if err != nil {
			log.Printf("[ERROR] create polling request: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("[WARN] polling request failed: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			log.Printf("[WARN] read polling response: %v", err)
			continue
		}

		var result struct {
			OK     bool             `json:"ok"`
			Result []telegramUpdate `json:"result"`
		}
		if err := json.Unmarshal(body, &result); err != nil {
			log.Printf("[WARN] decode polling response: %v", err)
			continue
		}

		for _, update := range result.Result {
			offset = update.UpdateID + 1
			cmd, ok := t.commandFrom(update)
			if !ok {
				continue
			}
			log.Printf("[INFO] received command: %s", cmd)
			reply := handler(cmd)
			if reply != "" {
				if err := t.Send(reply); err != nil {
					log.Printf("[ERROR] send reply: %v", err)
				}
			}
		}
	}
}

// commandFrom extracts a dispatchable command line from an update. Only
// slash commands from the configured chat qualify; a group-style @BotName
// suffix on the command word is stripped.
func (t *TelegramNotifier) commandFrom(u telegramUpdate) (string, bool) {
	if u.Message == nil {
		return "", false
	}
	if t.ChatID != "" && strconv.FormatInt(u.Message.Chat.ID, 10) != t.ChatID {
		return "", false
	}
	text := strings.TrimSpace(u.Message.Text)
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	word, rest, _ := strings.Cut(text, " ")
	if at := strings.Index(word, "@"); at > 0 {
		word = word[:at]
	}
	if rest = strings.TrimSpace(rest); rest != "" {
		return word + " " + rest, true
	}
	return word, true
}
