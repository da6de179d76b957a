package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-playground/validator"

	"github.com/financeacademytj/storefront-bot/internal/bot/ui"
	"github.com/financeacademytj/storefront-bot/internal/http/response"
	"github.com/financeacademytj/storefront-bot/internal/lib/sl"
	"github.com/financeacademytj/storefront-bot/internal/lib/telegram"
	"github.com/financeacademytj/storefront-bot/internal/models"
	"github.com/financeacademytj/storefront-bot/internal/services/ledger"
	"github.com/financeacademytj/storefront-bot/internal/services/workflow"
)

// Тексты ответов на операторские команды. Операторский контур всегда
// отвечает по-русски, как и исходные команды.
const (
	msgNoAccess        = "Нет доступа."
	msgUsageApprove    = "Использование: /approve USER_ID PLAN (BASIC/PRO/VIP)"
	msgUsageDeny       = "Использование: /deny USER_ID PLAN (BASIC/PRO/VIP)"
	msgUsageBroadcast  = "Использование: /broadcast ТЕКСТ"
	msgNoOpenRequest   = "⚠️ Нет активной заявки: статус можно менять только из requested."
	msgHelp            = "Команды:\n/start — запуск\n/help — помощь\n/approve USER_ID PLAN — подтвердить оплату (admin)\n/deny USER_ID PLAN — отказать (admin)\n/broadcast ТЕКСТ — рассылка (admin)\n"
	msgBroadcastReport = "Рассылка завершена. Отправлено: %d, ошибок: %d"
)

// resolveCommand аргументы команд /approve и /deny.
type resolveCommand struct {
	UserID int64  `validate:"required,gt=0"`
	Plan   string `validate:"required,oneof=BASIC PRO VIP"`
}

func (r *Router) handleCommand(ctx context.Context, log *slog.Logger, msg telegram.Message) {
	from := *msg.From
	fields := strings.Fields(msg.Text)
	command, _, _ := strings.Cut(fields[0], "@")

	log = log.With(slog.String("command", command), slog.Int64("from_id", from.ID))

	switch command {
	case "/start":
		r.handleStart(ctx, log, from)
	case "/help":
		loc := r.locales.GetLocale(from.ID)
		r.reply(ctx, log, telegram.SendMessageParams{
			ChatID:      from.ID,
			Text:        msgHelp,
			ReplyMarkup: ui.MainMenu(loc),
		})
	case "/approve":
		r.handleResolve(ctx, log, from, fields[1:], msgUsageApprove, r.workflow.Approve,
			func(userID int64, plan models.Plan) string {
				return fmt.Sprintf("✅ Подтверждено: %d → %s", userID, plan)
			})
	case "/deny":
		r.handleResolve(ctx, log, from, fields[1:], msgUsageDeny, r.workflow.Deny,
			func(userID int64, plan models.Plan) string {
				return fmt.Sprintf("⛔ Отказано: %d → %s", userID, plan)
			})
	case "/broadcast":
		r.handleBroadcast(ctx, log, from, msg.Text)
	default:
		log.Debug("ignoring unknown command")
	}
}

func (r *Router) handleStart(ctx context.Context, log *slog.Logger, from telegram.User) {
	r.storefront.Start(ctx, from)

	loc := r.locales.GetLocale(from.ID)
	r.reply(ctx, log, telegram.SendMessageParams{
		ChatID:      from.ID,
		Text:        ui.Welcome(loc),
		ParseMode:   telegram.ParseModeMarkdown,
		ReplyMarkup: ui.LanguageKeyboard(),
	})
	r.reply(ctx, log, telegram.SendMessageParams{
		ChatID:      from.ID,
		Text:        ui.ChooseLanguage(loc),
		ReplyMarkup: ui.LanguageKeyboard(),
	})
	r.reply(ctx, log, telegram.SendMessageParams{
		ChatID:      from.ID,
		Text:        "—",
		ReplyMarkup: ui.MainMenu(loc),
	})
}

// handleResolve общий разбор /approve и /deny: проверка аргументов,
// авторизация и перевод заявки, ответ оператору.
func (r *Router) handleResolve(
	ctx context.Context,
	log *slog.Logger,
	from telegram.User,
	args []string,
	usage string,
	resolve func(ctx context.Context, operatorID, userID int64, plan models.Plan) error,
	confirmation func(userID int64, plan models.Plan) string,
) {
	const op = "bot.handleResolve"

	if len(args) < 2 {
		r.reply(ctx, log, telegram.SendMessageParams{ChatID: from.ID, Text: usage})
		return
	}

	// некорректное число оставляет ноль, дальше его отбросит валидатор
	userID, _ := strconv.ParseInt(args[0], 10, 64)
	req := resolveCommand{
		UserID: userID,
		Plan:   strings.ToUpper(args[1]),
	}
	if err := r.validate.Struct(req); err != nil {
		log.Warn("invalid command arguments", sl.Op(op), sl.Err(err))
		r.reply(ctx, log, telegram.SendMessageParams{
			ChatID: from.ID,
			Text:   usage + "\n⚠️ " + response.ValidationErrorText(err.(validator.ValidationErrors)),
		})
		return
	}

	err := resolve(ctx, from.ID, req.UserID, models.Plan(req.Plan))
	switch {
	case errors.Is(err, workflow.ErrNotOperator):
		r.reply(ctx, log, telegram.SendMessageParams{ChatID: from.ID, Text: msgNoAccess})
	case errors.Is(err, ledger.ErrIllegalTransition):
		r.reply(ctx, log, telegram.SendMessageParams{ChatID: from.ID, Text: msgNoOpenRequest})
	case err != nil:
		log.Error("failed to resolve purchase request", sl.Op(op), sl.Err(err))
	default:
		r.reply(ctx, log, telegram.SendMessageParams{
			ChatID: from.ID,
			Text:   confirmation(req.UserID, models.Plan(req.Plan)),
		})
	}
}

func (r *Router) handleBroadcast(ctx context.Context, log *slog.Logger, from telegram.User, text string) {
	const op = "bot.handleBroadcast"

	_, body, _ := strings.Cut(text, " ")
	body = strings.TrimSpace(body)
	if body == "" {
		r.reply(ctx, log, telegram.SendMessageParams{ChatID: from.ID, Text: msgUsageBroadcast})
		return
	}

	sent, failed, err := r.workflow.Broadcast(ctx, from.ID, body)
	if errors.Is(err, workflow.ErrNotOperator) {
		r.reply(ctx, log, telegram.SendMessageParams{ChatID: from.ID, Text: msgNoAccess})
		return
	}
	if err != nil {
		log.Error("broadcast failed", sl.Op(op), sl.Err(err))
		return
	}

	r.reply(ctx, log, telegram.SendMessageParams{
		ChatID: from.ID,
		Text:   fmt.Sprintf(msgBroadcastReport, sent, failed),
	})
}

func userBrief(u telegram.User) string {
	handle := "—"
	if u.Username != "" {
		handle = "@" + u.Username
	}
	return fmt.Sprintf("%s | %s | ID: %d", u.FullName(), handle, u.ID)
}
