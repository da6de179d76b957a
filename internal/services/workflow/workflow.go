// Package workflow реализует операторский контур: подтверждение и отказ по
// заявкам на оплату и рассылку по всем пользователям. Источник истины —
// леджер покупок; уведомления пользователям доставляются по возможности и
// никогда не откатывают уже применённый переход статуса.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/financeacademytj/storefront-bot/internal/bot/ui"
	"github.com/financeacademytj/storefront-bot/internal/config"
	"github.com/financeacademytj/storefront-bot/internal/lib/sl"
	"github.com/financeacademytj/storefront-bot/internal/lib/telegram"
	"github.com/financeacademytj/storefront-bot/internal/metrics"
	"github.com/financeacademytj/storefront-bot/internal/models"
)

// ErrNotOperator возвращается при вызове привилегированной команды без прав.
var ErrNotOperator = errors.New("not an operator")

// PurchaseLedger описывает используемые переходы леджера покупок.
type PurchaseLedger interface {
	// Approve подтверждает заявку, только из статуса requested.
	Approve(id int64, plan models.Plan) error
	// Deny отклоняет заявку, только из статуса requested.
	Deny(id int64, plan models.Plan) error
}

// UserDirectory описывает чтение карточек пользователей.
type UserDirectory interface {
	// All возвращает все карточки по числовым идентификаторам.
	All() map[int64]models.UserRecord
	// GetLocale возвращает локаль пользователя с откатом к умолчанию.
	GetLocale(id int64) models.Locale
}

// Gateway описывает исходящий канал к шлюзу сообщений.
type Gateway interface {
	SendMessage(ctx context.Context, p telegram.SendMessageParams) error
}

// Workflow сервис операторских команд.
type Workflow struct {
	ledger PurchaseLedger
	users  UserDirectory
	gw     Gateway
	cfg    *config.Config
	log    *slog.Logger
}

// New создает новый Workflow.
func New(ledger PurchaseLedger, users UserDirectory, gw Gateway, cfg *config.Config, log *slog.Logger) *Workflow {
	if cfg.OpenAuthorization() {
		log.Warn("operator id is not configured, running in open-authorization mode")
	}
	return &Workflow{
		ledger: ledger,
		users:  users,
		gw:     gw,
		cfg:    cfg,
		log:    log,
	}
}

// IsOperator отвечает, авторизован ли вызывающий на привилегированные
// команды. Без настроенного оператора работает режим открытой авторизации.
func (w *Workflow) IsOperator(id int64) bool {
	if w.cfg.OpenAuthorization() {
		return true
	}
	return id == w.cfg.OperatorID
}

// Approve подтверждает оплату тарифа. После перехода статуса пользователю
// уходит локализованное уведомление и, если настроена, ссылка на группу
// тарифа. Сбой доставки логируется и не влияет на результат.
func (w *Workflow) Approve(ctx context.Context, operatorID, userID int64, plan models.Plan) error {
	const op = "workflow.Approve"

	if !w.IsOperator(operatorID) {
		return fmt.Errorf("%s: %w", op, ErrNotOperator)
	}

	if err := w.ledger.Approve(userID, plan); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	loc := w.users.GetLocale(userID)
	w.notify(ctx, userID, telegram.SendMessageParams{
		ChatID:      userID,
		Text:        ui.PaymentApproved(loc, plan),
		ParseMode:   telegram.ParseModeMarkdown,
		ReplyMarkup: ui.MainMenu(loc),
	})

	if markup := ui.GroupKeyboard(loc, plan, w.cfg.GroupURL(string(plan))); markup != nil {
		w.notify(ctx, userID, telegram.SendMessageParams{
			ChatID:      userID,
			Text:        ui.GroupLinkIntro(loc),
			ReplyMarkup: markup,
		})
	}
	return nil
}

// Deny отклоняет заявку на оплату и уведомляет пользователя.
func (w *Workflow) Deny(ctx context.Context, operatorID, userID int64, plan models.Plan) error {
	const op = "workflow.Deny"

	if !w.IsOperator(operatorID) {
		return fmt.Errorf("%s: %w", op, ErrNotOperator)
	}

	if err := w.ledger.Deny(userID, plan); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	loc := w.users.GetLocale(userID)
	w.notify(ctx, userID, telegram.SendMessageParams{
		ChatID:      userID,
		Text:        ui.PaymentDenied(loc),
		ParseMode:   telegram.ParseModeMarkdown,
		ReplyMarkup: ui.MainMenu(loc),
	})
	return nil
}

// Broadcast отправляет текст всем известным пользователям. Сбой одной
// доставки не мешает остальным, итог возвращается счётчиками: sent+failed
// равно числу карточек.
func (w *Workflow) Broadcast(ctx context.Context, operatorID int64, text string) (sent, failed int, err error) {
	const op = "workflow.Broadcast"

	if !w.IsOperator(operatorID) {
		return 0, 0, fmt.Errorf("%s: %w", op, ErrNotOperator)
	}

	for id := range w.users.All() {
		loc := w.users.GetLocale(id)
		sendCtx, cancel := context.WithTimeout(ctx, w.cfg.SendTimeout)
		sendErr := w.gw.SendMessage(sendCtx, telegram.SendMessageParams{
			ChatID:      id,
			Text:        text,
			ReplyMarkup: ui.MainMenu(loc),
		})
		cancel()

		if sendErr != nil {
			failed++
			metrics.BroadcastMessagesTotal.WithLabelValues(metrics.ResultFailed).Inc()
			w.log.Warn("failed to deliver broadcast message",
				sl.Op(op), slog.Int64("user_id", id), sl.Err(sendErr))
			continue
		}
		sent++
		metrics.BroadcastMessagesTotal.WithLabelValues(metrics.ResultSent).Inc()
	}

	w.log.Info("broadcast finished",
		sl.Op(op), slog.Int("sent", sent), slog.Int("failed", failed))
	return sent, failed, nil
}

// notify доставляет уведомление по возможности: с ограничением по времени,
// ошибка только логируется и учитывается в метриках.
func (w *Workflow) notify(ctx context.Context, userID int64, p telegram.SendMessageParams) {
	const op = "workflow.notify"

	sendCtx, cancel := context.WithTimeout(ctx, w.cfg.SendTimeout)
	defer cancel()

	if err := w.gw.SendMessage(sendCtx, p); err != nil {
		metrics.NotificationsTotal.WithLabelValues(metrics.ResultFailed).Inc()
		w.log.Warn("failed to notify user",
			sl.Op(op), slog.Int64("user_id", userID), sl.Err(err))
		return
	}
	metrics.NotificationsTotal.WithLabelValues(metrics.ResultSent).Inc()
}
