// Package bot маршрутизирует входящие обновления шлюза сообщений:
// команды, нажатия inline-кнопок и обычные тексты меню. Пакет отвечает только
// за разбор и рендеринг, бизнес-логика живет в сервисах.
package bot

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/financeacademytj/storefront-bot/internal/bot/ui"
	"github.com/financeacademytj/storefront-bot/internal/config"
	"github.com/financeacademytj/storefront-bot/internal/lib/sl"
	"github.com/financeacademytj/storefront-bot/internal/lib/telegram"
	"github.com/financeacademytj/storefront-bot/internal/metrics"
	"github.com/financeacademytj/storefront-bot/internal/models"
	"github.com/financeacademytj/storefront-bot/internal/services/storefront"
	"github.com/financeacademytj/storefront-bot/internal/services/workflow"
)

// Gateway описывает используемые ботом исходящие вызовы шлюза.
type Gateway interface {
	SendMessage(ctx context.Context, p telegram.SendMessageParams) error
	EditMessageText(ctx context.Context, p telegram.EditMessageTextParams) error
	AnswerCallbackQuery(ctx context.Context, callbackID string) error
}

// LocaleRepository описывает работу с локалью пользователя.
type LocaleRepository interface {
	GetLocale(id int64) models.Locale
	SetLocale(id int64, raw string) models.Locale
}

// Router обработчик входящего потока обновлений.
type Router struct {
	gw         Gateway
	storefront *storefront.Service
	workflow   *workflow.Workflow
	locales    LocaleRepository
	cfg        *config.Config
	log        *slog.Logger
	validate   *validator.Validate
}

// New создает новый Router.
func New(gw Gateway, sf *storefront.Service, wf *workflow.Workflow, locales LocaleRepository, cfg *config.Config, log *slog.Logger) *Router {
	return &Router{
		gw:         gw,
		storefront: sf,
		workflow:   wf,
		locales:    locales,
		cfg:        cfg,
		log:        log,
		validate:   validator.New(),
	}
}

// Run обрабатывает обновления до закрытия канала либо отмены контекста.
// Каждое обновление обрабатывается своей горутиной: обработчики выполняют
// полный цикл чтения-изменения-записи самостоятельно и не зависят друг от
// друга.
func (r *Router) Run(ctx context.Context, updates <-chan telegram.Update) {
	var wg sync.WaitGroup
	for upd := range updates {
		wg.Add(1)
		go func(upd telegram.Update) {
			defer wg.Done()
			r.handleUpdate(ctx, upd)
		}(upd)
	}
	wg.Wait()
}

func (r *Router) handleUpdate(ctx context.Context, upd telegram.Update) {
	log := r.log.With(slog.String("correlation_id", uuid.NewString()))

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("panic while handling update", slog.Any("panic", rec))
		}
	}()

	switch {
	case upd.CallbackQuery != nil:
		metrics.UpdatesTotal.WithLabelValues("callback").Inc()
		r.handleCallback(ctx, log, *upd.CallbackQuery)
	case upd.Message != nil && upd.Message.From != nil:
		if strings.HasPrefix(upd.Message.Text, "/") {
			metrics.UpdatesTotal.WithLabelValues("command").Inc()
			r.handleCommand(ctx, log, *upd.Message)
			return
		}
		metrics.UpdatesTotal.WithLabelValues("text").Inc()
		r.handleText(ctx, log, *upd.Message)
	}
}

func (r *Router) handleText(ctx context.Context, log *slog.Logger, msg telegram.Message) {
	from := *msg.From
	text := strings.TrimSpace(msg.Text)

	r.storefront.Touch(from, text)

	// кнопка смены языка одинакова во всех локалях
	if text == ui.MenuLanguage {
		loc := r.locales.GetLocale(from.ID)
		r.reply(ctx, log, telegram.SendMessageParams{
			ChatID:      from.ID,
			Text:        ui.ChooseLanguage(loc),
			ReplyMarkup: ui.LanguageKeyboard(),
		})
		return
	}

	loc := r.locales.GetLocale(from.ID)

	switch text {
	case ui.MenuCourses(loc):
		r.reply(ctx, log, telegram.SendMessageParams{
			ChatID:      from.ID,
			Text:        ui.Courses(loc, r.cfg.SiteURL),
			ParseMode:   telegram.ParseModeMarkdown,
			ReplyMarkup: ui.MainMenu(loc),
		})
	case ui.MenuBuy(loc):
		r.reply(ctx, log, telegram.SendMessageParams{
			ChatID:      from.ID,
			Text:        ui.BuyTitle(loc),
			ParseMode:   telegram.ParseModeMarkdown,
			ReplyMarkup: ui.MainMenu(loc),
		})
		r.reply(ctx, log, telegram.SendMessageParams{
			ChatID:      from.ID,
			Text:        ui.ChoosePlanBelow(loc),
			ReplyMarkup: ui.PlansKeyboard(r.cfg.SiteURL),
		})
		r.storefront.NotifyOperator(ctx, "💳 Открыл покупку: *"+userBrief(from)+"*")
	case ui.MenuAccount(loc):
		summary := r.storefront.Account(from.ID)
		r.reply(ctx, log, telegram.SendMessageParams{
			ChatID:      from.ID,
			Text:        ui.Account(loc, from.ID, summary.Record, summary.Approved, summary.HasAccess, r.cfg.SiteURL),
			ParseMode:   telegram.ParseModeMarkdown,
			ReplyMarkup: ui.MainMenu(loc),
		})
	case ui.MenuSupport(loc):
		r.reply(ctx, log, telegram.SendMessageParams{
			ChatID:      from.ID,
			Text:        ui.Support(loc, r.cfg.TelegramHandle, r.cfg.WhatsApp, r.cfg.SiteURL),
			ParseMode:   telegram.ParseModeMarkdown,
			ReplyMarkup: ui.MainMenu(loc),
		})
	default:
		// произвольный текст: контент только при открытом доступе
		if !r.storefront.HasAccess(from.ID) {
			r.reply(ctx, log, telegram.SendMessageParams{
				ChatID:      from.ID,
				Text:        ui.NoAccess(loc, r.cfg.SiteURL),
				ParseMode:   telegram.ParseModeMarkdown,
				ReplyMarkup: ui.MainMenu(loc),
			})
			return
		}
		r.reply(ctx, log, telegram.SendMessageParams{
			ChatID:      from.ID,
			Text:        ui.AccessActive(loc),
			ReplyMarkup: ui.MainMenu(loc),
		})
	}
}

func (r *Router) handleCallback(ctx context.Context, log *slog.Logger, cb telegram.CallbackQuery) {
	const op = "bot.handleCallback"

	if err := r.gw.AnswerCallbackQuery(ctx, cb.ID); err != nil {
		log.Warn("failed to answer callback query", sl.Op(op), sl.Err(err))
	}

	from := cb.From
	action, value, _ := strings.Cut(cb.Data, ":")

	switch action {
	case ui.CallbackLang:
		loc := r.locales.SetLocale(from.ID, value)
		r.editCallbackMessage(ctx, log, cb, ui.LanguageSet(loc), nil)
		r.reply(ctx, log, telegram.SendMessageParams{
			ChatID:      from.ID,
			Text:        "—",
			ReplyMarkup: ui.MainMenu(loc),
		})
	case ui.CallbackPlan:
		plan, err := models.ParsePlan(value)
		if err != nil {
			log.Warn("callback with unknown plan", sl.Op(op), slog.String("data", cb.Data))
			r.editCallbackMessage(ctx, log, cb, "Ошибка тарифа.", nil)
			return
		}

		r.storefront.SelectPlan(ctx, from, plan)

		loc := r.locales.GetLocale(from.ID)
		markup := ui.PaymentKeyboard(plan, r.cfg.SiteURL)
		r.editCallbackMessage(ctx, log, cb, ui.PlanDetails(loc, plan), &markup)
	case ui.CallbackPaid:
		plan, err := models.ParsePlan(value)
		if err != nil {
			log.Warn("callback with unknown plan", sl.Op(op), slog.String("data", cb.Data))
			r.editCallbackMessage(ctx, log, cb, "Ошибка тарифа.", nil)
			return
		}

		if err := r.storefront.SubmitPaymentClaim(ctx, from, plan); err != nil {
			log.Error("failed to submit payment claim", sl.Op(op), sl.Err(err))
			return
		}

		loc := r.locales.GetLocale(from.ID)
		r.editCallbackMessage(ctx, log, cb, ui.RequestAccepted(loc, r.cfg.SiteURL), nil)
	default:
		log.Warn("unknown callback action", sl.Op(op), slog.String("data", cb.Data))
	}
}

// editCallbackMessage правит сообщение, на котором была нажата кнопка.
// Без исходного сообщения (устаревший callback) отправляет обычный ответ.
func (r *Router) editCallbackMessage(ctx context.Context, log *slog.Logger, cb telegram.CallbackQuery, text string, markup *telegram.InlineKeyboardMarkup) {
	const op = "bot.editCallbackMessage"

	if cb.Message == nil {
		p := telegram.SendMessageParams{ChatID: cb.From.ID, Text: text, ParseMode: telegram.ParseModeMarkdown}
		if markup != nil {
			p.ReplyMarkup = *markup
		}
		r.reply(ctx, log, p)
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, r.cfg.SendTimeout)
	defer cancel()

	err := r.gw.EditMessageText(sendCtx, telegram.EditMessageTextParams{
		ChatID:      cb.Message.Chat.ID,
		MessageID:   cb.Message.MessageID,
		Text:        text,
		ParseMode:   telegram.ParseModeMarkdown,
		ReplyMarkup: markup,
	})
	if err != nil {
		log.Warn("failed to edit message", sl.Op(op), sl.Err(err))
	}
}

// reply отправляет ответ пользователю по возможности: сбой доставки
// логируется и не прерывает обработку.
func (r *Router) reply(ctx context.Context, log *slog.Logger, p telegram.SendMessageParams) {
	const op = "bot.reply"

	sendCtx, cancel := context.WithTimeout(ctx, r.cfg.SendTimeout)
	defer cancel()

	if err := r.gw.SendMessage(sendCtx, p); err != nil {
		log.Warn("failed to send reply", sl.Op(op), slog.Int64("chat_id", p.ChatID), sl.Err(err))
	}
}
