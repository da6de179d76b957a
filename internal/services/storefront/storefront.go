// Package storefront реализует пользовательскую сторону витрины: регистрацию
// профиля, выбор тарифа, заявку "я оплатил" и сводку аккаунта. Каждое
// действие пользователя попутно обновляет карточку профиля; уведомления
// оператору доставляются по возможности.
package storefront

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/financeacademytj/storefront-bot/internal/config"
	"github.com/financeacademytj/storefront-bot/internal/lib/sl"
	"github.com/financeacademytj/storefront-bot/internal/lib/telegram"
	"github.com/financeacademytj/storefront-bot/internal/models"
)

// UserRepository описывает операции над карточками пользователей.
type UserRepository interface {
	Get(id int64) models.UserRecord
	Patch(id int64, patch models.UserPatch) models.UserRecord
	GetLocale(id int64) models.Locale
	SetLocale(id int64, raw string) models.Locale
}

// PurchaseLedger описывает пользовательские операции леджера покупок.
type PurchaseLedger interface {
	Request(id int64, plan models.Plan) error
	HasAccess(id int64) bool
	ApprovedPlan(id int64) (models.Plan, bool)
}

// Gateway описывает исходящий канал к шлюзу сообщений.
type Gateway interface {
	SendMessage(ctx context.Context, p telegram.SendMessageParams) error
}

// Service пользовательская бизнес-логика витрины.
type Service struct {
	users  UserRepository
	ledger PurchaseLedger
	gw     Gateway
	cfg    *config.Config
	log    *slog.Logger
	now    func() time.Time
}

// New создает новый Service.
func New(users UserRepository, ledger PurchaseLedger, gw Gateway, cfg *config.Config, log *slog.Logger) *Service {
	return &Service{
		users:  users,
		ledger: ledger,
		gw:     gw,
		cfg:    cfg,
		log:    log,
		now:    time.Now,
	}
}

// Start регистрирует профиль по событию /start и уведомляет оператора.
func (s *Service) Start(ctx context.Context, from telegram.User) models.UserRecord {
	rec := s.users.Patch(from.ID, models.UserPatch{
		FirstName: models.Ptr(from.FirstName),
		LastName:  models.Ptr(from.LastName),
		Handle:    models.Ptr(from.Username),
		StartedAt: models.Ptr(s.now().Unix()),
	})

	s.NotifyOperator(ctx, fmt.Sprintf("🆕 /start: *%s*", userBrief(from)))
	return rec
}

// Touch обновляет профиль и последнее сообщение пользователя. Вызывается на
// каждом входящем тексте.
func (s *Service) Touch(from telegram.User, text string) {
	s.users.Patch(from.ID, models.UserPatch{
		FirstName:     models.Ptr(from.FirstName),
		LastName:      models.Ptr(from.LastName),
		Handle:        models.Ptr(from.Username),
		LastMessage:   models.Ptr(text),
		LastMessageAt: models.Ptr(s.now().Unix()),
	})
}

// SelectPlan запоминает выбранный тариф и уведомляет оператора.
func (s *Service) SelectPlan(ctx context.Context, from telegram.User, plan models.Plan) {
	s.users.Patch(from.ID, models.UserPatch{
		LastSelectedPlan:   models.Ptr(string(plan)),
		LastSelectedPlanAt: models.Ptr(s.now().Unix()),
	})

	spec := plan.Spec()
	s.NotifyOperator(ctx, fmt.Sprintf(
		"📌 Выбрал тариф: *%s* | *%s*\nЦена акция: *%d%s* → обычно *%d%s*",
		plan, userBrief(from), spec.Promo, spec.Currency, spec.Regular, spec.Currency))
}

// SubmitPaymentClaim фиксирует заявку "я оплатил" и отправляет оператору
// карточку заявки с готовыми командами подтверждения и отказа.
func (s *Service) SubmitPaymentClaim(ctx context.Context, from telegram.User, plan models.Plan) error {
	const op = "storefront.SubmitPaymentClaim"

	if err := s.ledger.Request(from.ID, plan); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	spec := plan.Spec()
	s.NotifyOperator(ctx, fmt.Sprintf(
		"🧾 *Новая заявка на оплату*\n\n"+
			"👤 %s\n"+
			"📦 Тариф: *%s*\n"+
			"💰 Цена: *%d%s* (акция) / *%d%s* (обычно)\n"+
			"⏳ Доступ: *%s*\n\n"+
			"Команды:\n`/approve %d %s`\n`/deny %d %s`",
		userBrief(from),
		plan.LocalName(models.LocaleRU),
		spec.Promo, spec.Currency, spec.Regular, spec.Currency,
		spec.Access[models.LocaleRU],
		from.ID, plan, from.ID, plan))
	return nil
}

// AccountSummary данные для экрана "Мой аккаунт".
type AccountSummary struct {
	Record    models.UserRecord
	Approved  models.Plan
	HasAccess bool
}

// Account возвращает сводку аккаунта: профиль и самый привилегированный
// подтверждённый тариф. Право доступа выводится на каждом чтении заново.
func (s *Service) Account(id int64) AccountSummary {
	approved, ok := s.ledger.ApprovedPlan(id)
	return AccountSummary{
		Record:    s.users.Get(id),
		Approved:  approved,
		HasAccess: ok,
	}
}

// HasAccess отвечает, открыт ли пользователю доступ к урокам.
func (s *Service) HasAccess(id int64) bool {
	return s.ledger.HasAccess(id)
}

// NotifyOperator доставляет оператору служебное уведомление по возможности.
// Без настроенного оператора уведомления не отправляются.
func (s *Service) NotifyOperator(ctx context.Context, text string) {
	const op = "storefront.NotifyOperator"

	if s.cfg.OperatorID == 0 {
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.cfg.SendTimeout)
	defer cancel()

	err := s.gw.SendMessage(sendCtx, telegram.SendMessageParams{
		ChatID:    s.cfg.OperatorID,
		Text:      text,
		ParseMode: telegram.ParseModeMarkdown,
	})
	if err != nil {
		s.log.Warn("failed to notify operator", sl.Op(op), sl.Err(err))
	}
}

func userBrief(u telegram.User) string {
	handle := "—"
	if u.Username != "" {
		handle = "@" + u.Username
	}
	return fmt.Sprintf("%s | %s | ID: %d", u.FullName(), handle, u.ID)
}
