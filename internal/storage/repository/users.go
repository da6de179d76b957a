// Package repository предоставляет типизированные операции над хранилищем
// карточек пользователей: чтение с ленивым созданием, частичное обновление
// полей профиля и работу с локалью.
package repository

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/financeacademytj/storefront-bot/internal/models"
)

// Store описывает методы низкоуровневого хранилища карточек.
type Store interface {
	// Read возвращает все карточки, никогда не падает.
	Read() map[string]models.UserRecord
	// Update выполняет read-modify-write под критической секцией хранилища.
	Update(fn func(records map[string]models.UserRecord))
}

// Users репозиторий профилей пользователей.
type Users struct {
	store Store
	log   *slog.Logger
	now   func() time.Time
}

// New создает новый репозиторий поверх хранилища.
func New(store Store, log *slog.Logger) *Users {
	return &Users{store: store, log: log, now: time.Now}
}

func key(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Get возвращает карточку пользователя или пустую карточку, если её нет.
// Чтение ничего не персистит: карточка появится в файле только после первого
// изменения.
func (u *Users) Get(id int64) models.UserRecord {
	return u.store.Read()[key(id)]
}

// All возвращает все карточки с разобранными числовыми идентификаторами.
// Ключи, не являющиеся числом, пропускаются с записью в лог.
func (u *Users) All() map[int64]models.UserRecord {
	const op = "repository.All"

	records := u.store.Read()
	result := make(map[int64]models.UserRecord, len(records))
	for rawID, rec := range records {
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			u.log.Warn("skipping record with non-numeric id",
				slog.String("op", op), slog.String("id", rawID))
			continue
		}
		result[id] = rec
	}
	return result
}

// Patch вливает непустые поля патча в карточку пользователя и сохраняет
// результат. Отсутствующая карточка создается. Возвращает итог слияния.
func (u *Users) Patch(id int64, patch models.UserPatch) models.UserRecord {
	var merged models.UserRecord
	u.store.Update(func(records map[string]models.UserRecord) {
		merged = patch.Apply(records[key(id)])
		records[key(id)] = merged
	})
	return merged
}

// UpdatePurchase атомарно меняет запись о покупке тарифа: fn получает текущий
// статус и возвращает новый. Ошибка fn отменяет изменение целиком.
func (u *Users) UpdatePurchase(id int64, plan models.Plan, fn func(current models.Status) (models.Status, error)) error {
	var fnErr error
	u.store.Update(func(records map[string]models.UserRecord) {
		rec := records[key(id)]

		next, err := fn(rec.PurchaseStatus(plan))
		if err != nil {
			fnErr = err
			return
		}

		if rec.Purchases == nil {
			rec.Purchases = make(map[models.Plan]models.PurchaseEntry)
		}
		rec.Purchases[plan] = models.PurchaseEntry{
			Status:    next,
			UpdatedAt: u.now().Unix(),
		}
		records[key(id)] = rec
	})
	return fnErr
}

// GetLocale возвращает локаль пользователя, приведённую к поддерживаемому
// набору. Откат к локали по умолчанию при чтении ничего не персистит.
func (u *Users) GetLocale(id int64) models.Locale {
	return models.NormalizeLocale(u.Get(id).Locale)
}

// SetLocale сохраняет локаль пользователя. Неподдерживаемое значение
// приводится к локали по умолчанию и сохраняется уже как явный выбор.
func (u *Users) SetLocale(id int64, raw string) models.Locale {
	loc := models.NormalizeLocale(raw)
	u.Patch(id, models.UserPatch{
		Locale:      models.Ptr(string(loc)),
		LocaleSetAt: models.Ptr(u.now().Unix()),
	})
	return loc
}
