// Package models содержит типы данных: карточку пользователя, записи о покупках,
// тарифы и локали. Все типы сериализуются в JSON-хранилище как есть.
package models

// Status статус покупки тарифа для пары (пользователь, тариф).
type Status string

// Допустимые статусы покупки. Отсутствие записи эквивалентно StatusNone.
const (
	StatusNone      Status = "none"
	StatusRequested Status = "requested"
	StatusApproved  Status = "approved"
	StatusDenied    Status = "denied"
)

// PurchaseEntry запись о покупке тарифа: статус и время последнего перехода.
type PurchaseEntry struct {
	Status    Status `json:"status"`
	UpdatedAt int64  `json:"updated_at"`
}

// UserRecord карточка пользователя в хранилище. Создается лениво при первом
// обращении и никогда не удаляется. Поле Locale хранится как сырая строка:
// приведение к поддерживаемому набору выполняется на границе репозитория.
type UserRecord struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Handle    string `json:"handle,omitempty"`
	StartedAt int64  `json:"started_at,omitempty"`

	Locale      string `json:"locale,omitempty"`
	LocaleSetAt int64  `json:"locale_set_at,omitempty"`

	LastMessage   string `json:"last_message,omitempty"`
	LastMessageAt int64  `json:"last_message_at,omitempty"`

	LastSelectedPlan   string `json:"last_selected_plan,omitempty"`
	LastSelectedPlanAt int64  `json:"last_selected_plan_at,omitempty"`

	Purchases map[Plan]PurchaseEntry `json:"purchases,omitempty"`
}

// PurchaseStatus возвращает статус покупки тарифа, StatusNone если записи нет.
func (u UserRecord) PurchaseStatus(plan Plan) Status {
	entry, ok := u.Purchases[plan]
	if !ok || entry.Status == "" {
		return StatusNone
	}
	return entry.Status
}

// UserPatch набор изменяемых полей карточки. Nil-поля не трогают текущее
// значение: слияние всегда частичное, один писатель не перезаписывает чужие поля.
type UserPatch struct {
	FirstName *string
	LastName  *string
	Handle    *string
	StartedAt *int64

	Locale      *string
	LocaleSetAt *int64

	LastMessage   *string
	LastMessageAt *int64

	LastSelectedPlan   *string
	LastSelectedPlanAt *int64
}

// Apply накладывает патч на карточку, возвращая результат слияния.
func (p UserPatch) Apply(u UserRecord) UserRecord {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Handle != nil {
		u.Handle = *p.Handle
	}
	if p.StartedAt != nil {
		u.StartedAt = *p.StartedAt
	}
	if p.Locale != nil {
		u.Locale = *p.Locale
	}
	if p.LocaleSetAt != nil {
		u.LocaleSetAt = *p.LocaleSetAt
	}
	if p.LastMessage != nil {
		u.LastMessage = *p.LastMessage
	}
	if p.LastMessageAt != nil {
		u.LastMessageAt = *p.LastMessageAt
	}
	if p.LastSelectedPlan != nil {
		u.LastSelectedPlan = *p.LastSelectedPlan
	}
	if p.LastSelectedPlanAt != nil {
		u.LastSelectedPlanAt = *p.LastSelectedPlanAt
	}
	return u
}

// Ptr вспомогательная функция для заполнения полей UserPatch.
func Ptr[T any](v T) *T { return &v }
