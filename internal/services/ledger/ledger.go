// Package ledger реализует учёт покупок: статусы пар (пользователь, тариф),
// граф переходов между статусами и вывод права доступа. Право доступа нигде
// не кешируется и пересчитывается при каждом чтении.
package ledger

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/financeacademytj/storefront-bot/internal/models"
)

// ErrIllegalTransition возвращается при попытке перехода вне графа статусов,
// например approve без предшествующей заявки. Состояние при этом не меняется.
var ErrIllegalTransition = errors.New("illegal status transition")

// UserStore описывает нужные леджеру операции над карточками пользователей.
type UserStore interface {
	Get(id int64) models.UserRecord
	UpdatePurchase(id int64, plan models.Plan, fn func(current models.Status) (models.Status, error)) error
}

// Ledger сервис учёта покупок.
type Ledger struct {
	users UserStore
	log   *slog.Logger
}

// New создает новый Ledger.
func New(users UserStore, log *slog.Logger) *Ledger {
	return &Ledger{users: users, log: log}
}

// Request переводит пару (пользователь, тариф) в статус "requested".
// Заявка легальна из любого статуса: пользователь всегда может заявить об
// оплате повторно, в том числе после отказа или для повторной покупки.
func (l *Ledger) Request(id int64, plan models.Plan) error {
	const op = "ledger.Request"

	err := l.users.UpdatePurchase(id, plan, func(models.Status) (models.Status, error) {
		return models.StatusRequested, nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	l.log.Info("purchase requested",
		slog.Int64("user_id", id), slog.String("plan", string(plan)))
	return nil
}

// Approve переводит заявку в "approved". Разрешён только переход из
// "requested": подтверждение без заявки — ошибка ErrIllegalTransition.
func (l *Ledger) Approve(id int64, plan models.Plan) error {
	return l.resolve("ledger.Approve", id, plan, models.StatusApproved)
}

// Deny переводит заявку в "denied". Разрешён только переход из "requested".
func (l *Ledger) Deny(id int64, plan models.Plan) error {
	return l.resolve("ledger.Deny", id, plan, models.StatusDenied)
}

func (l *Ledger) resolve(op string, id int64, plan models.Plan, next models.Status) error {
	err := l.users.UpdatePurchase(id, plan, func(current models.Status) (models.Status, error) {
		if current != models.StatusRequested {
			return "", fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, current, next)
		}
		return next, nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	l.log.Info("purchase resolved",
		slog.Int64("user_id", id),
		slog.String("plan", string(plan)),
		slog.String("status", string(next)))
	return nil
}

// Status возвращает текущий статус пары (пользователь, тариф).
func (l *Ledger) Status(id int64, plan models.Plan) models.Status {
	return l.users.Get(id).PurchaseStatus(plan)
}

// HasAccess отвечает, открыт ли доступ: достаточно одного подтверждённого
// тарифа.
func (l *Ledger) HasAccess(id int64) bool {
	_, ok := l.ApprovedPlan(id)
	return ok
}

// ApprovedPlan возвращает самый привилегированный подтверждённый тариф.
func (l *Ledger) ApprovedPlan(id int64) (models.Plan, bool) {
	rec := l.users.Get(id)
	for _, plan := range models.PlanPrecedence {
		if rec.PurchaseStatus(plan) == models.StatusApproved {
			return plan, true
		}
	}
	return "", false
}
