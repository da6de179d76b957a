package telegram

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/financeacademytj/storefront-bot/internal/config"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(config.Telegram{
		APIEndpoint:    srv.URL,
		PollTimeout:    time.Second,
		SendTimeout:    time.Second,
		SendRatePerSec: 1000,
		SendBurst:      100,
	}, "test-token", newNoopLogger())
}

func TestClient_SendMessage(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"ok": true, "result": {}}`))
	})

	err := client.SendMessage(context.Background(), SendMessageParams{
		ChatID:    42,
		Text:      "salom",
		ParseMode: ParseModeMarkdown,
	})

	require.NoError(t, err)
	assert.Equal(t, "/bottest-token/sendMessage", gotPath)
	assert.Equal(t, float64(42), gotBody["chat_id"])
	assert.Equal(t, "salom", gotBody["text"])
	assert.Equal(t, "Markdown", gotBody["parse_mode"])
}

func TestClient_SendMessage_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"ok": false, "description": "Forbidden: bot was blocked by the user"}`))
	})

	err := client.SendMessage(context.Background(), SendMessageParams{ChatID: 42, Text: "hi"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bot was blocked")
}

func TestClient_GetUpdates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var params map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		assert.Equal(t, float64(7), params["offset"])

		_, _ = w.Write([]byte(`{"ok": true, "result": [
			{"update_id": 7, "message": {"message_id": 1, "chat": {"id": 42}, "text": "/start",
				"from": {"id": 42, "first_name": "Umed", "username": "umed_tj"}}},
			{"update_id": 8, "callback_query": {"id": "cb1", "from": {"id": 42, "first_name": "Umed"}, "data": "plan:PRO"}}
		]}`))
	})

	updates, err := client.GetUpdates(context.Background(), 7)

	require.NoError(t, err)
	require.Len(t, updates, 2)
	require.NotNil(t, updates[0].Message)
	assert.Equal(t, "/start", updates[0].Message.Text)
	assert.Equal(t, int64(42), updates[0].Message.Chat.ID)
	require.NotNil(t, updates[1].CallbackQuery)
	assert.Equal(t, "plan:PRO", updates[1].CallbackQuery.Data)
}

func TestUser_FullName(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{name: "first and last", user: User{FirstName: "Umed", LastName: "R"}, want: "Umed R"},
		{name: "first only", user: User{FirstName: "Umed"}, want: "Umed"},
		{name: "empty", user: User{}, want: "—"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.FullName())
		})
	}
}
