// Package telegram реализует минимальный клиент Telegram Bot API:
// long-poll получение обновлений и отправку сообщений. Клиент покрывает
// только используемые ботом методы и не претендует на полноту API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/financeacademytj/storefront-bot/internal/config"
	"github.com/financeacademytj/storefront-bot/internal/lib/sl"
)

// Client клиент Bot API. Исходящие вызовы проходят через rate-limiter:
// Bot API отклоняет слишком частые отправки, в том числе при рассылке.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
	limiter  *rate.Limiter
	poll     time.Duration
	log      *slog.Logger
}

// New создает клиента из конфигурации.
func New(cfg config.Telegram, token string, log *slog.Logger) *Client {
	return &Client{
		endpoint: cfg.APIEndpoint,
		token:    token,
		http: &http.Client{
			// long-poll держит соединение дольше обычного запроса
			Timeout: cfg.PollTimeout + 10*time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.SendRatePerSec), cfg.SendBurst),
		poll:    cfg.PollTimeout,
		log:     log,
	}
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

func (c *Client) call(ctx context.Context, method string, payload any, result any) error {
	const op = "telegram.call"

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.endpoint, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", op, method, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return fmt.Errorf("%s: %s: %w", op, method, err)
	}
	if !apiResp.OK {
		return fmt.Errorf("%s: %s: api error: %s", op, method, apiResp.Description)
	}
	if result != nil {
		if err := json.Unmarshal(apiResp.Result, result); err != nil {
			return fmt.Errorf("%s: %s: %w", op, method, err)
		}
	}
	return nil
}

type getUpdatesParams struct {
	Offset         int64    `json:"offset,omitempty"`
	Timeout        int      `json:"timeout"`
	AllowedUpdates []string `json:"allowed_updates,omitempty"`
}

// GetUpdates выполняет один long-poll запрос начиная с offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64) ([]Update, error) {
	var updates []Update
	err := c.call(ctx, "getUpdates", getUpdatesParams{
		Offset:         offset,
		Timeout:        int(c.poll.Seconds()),
		AllowedUpdates: []string{"message", "callback_query"},
	}, &updates)
	if err != nil {
		return nil, err
	}
	return updates, nil
}

// Updates возвращает канал входящих обновлений. Цикл опроса живет до отмены
// контекста, ошибки опроса логируются и не останавливают цикл.
func (c *Client) Updates(ctx context.Context) <-chan Update {
	const op = "telegram.Updates"

	out := make(chan Update)
	go func() {
		defer close(out)

		var offset int64
		for {
			updates, err := c.GetUpdates(ctx, offset)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.log.Error("failed to poll updates", sl.Op(op), sl.Err(err))
				select {
				case <-time.After(3 * time.Second):
				case <-ctx.Done():
					return
				}
				continue
			}

			for _, upd := range updates {
				offset = upd.UpdateID + 1
				select {
				case out <- upd:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// SendMessage отправляет текстовое сообщение с опциональной клавиатурой.
func (c *Client) SendMessage(ctx context.Context, p SendMessageParams) error {
	return c.call(ctx, "sendMessage", p, nil)
}

// EditMessageText меняет текст и клавиатуру ранее отправленного сообщения.
func (c *Client) EditMessageText(ctx context.Context, p EditMessageTextParams) error {
	return c.call(ctx, "editMessageText", p, nil)
}

type answerCallbackParams struct {
	CallbackQueryID string `json:"callback_query_id"`
}

// AnswerCallbackQuery снимает индикатор загрузки с нажатой кнопки.
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackID string) error {
	return c.call(ctx, "answerCallbackQuery", answerCallbackParams{CallbackQueryID: callbackID}, nil)
}
