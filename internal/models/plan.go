package models

import (
	"fmt"
	"strings"
)

// Plan тариф курса. Набор закрыт: BASIC, PRO, VIP.
type Plan string

// Тарифы в порядке возрастания привилегий.
const (
	PlanBasic Plan = "BASIC"
	PlanPro   Plan = "PRO"
	PlanVIP   Plan = "VIP"
)

// PlanPrecedence порядок выбора тарифа при нескольких подтверждённых покупках:
// первым идёт самый привилегированный. Порядок фиксированный, не алфавитный.
var PlanPrecedence = []Plan{PlanVIP, PlanPro, PlanBasic}

// ErrUnknownPlan возвращается при разборе неизвестного идентификатора тарифа.
var ErrUnknownPlan = fmt.Errorf("unknown plan")

// ParsePlan приводит строку к тарифу, регистр не учитывается.
func ParsePlan(s string) (Plan, error) {
	switch Plan(strings.ToUpper(strings.TrimSpace(s))) {
	case PlanBasic:
		return PlanBasic, nil
	case PlanPro:
		return PlanPro, nil
	case PlanVIP:
		return PlanVIP, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPlan, s)
}

// PlanSpec неизменяемое описание тарифа: цены, валюта, название и срок
// доступа по локалям. Таблица задаётся один раз при старте процесса.
type PlanSpec struct {
	Promo    int
	Regular  int
	Currency string
	Name     map[Locale]string
	Access   map[Locale]string
}

var planTable = map[Plan]PlanSpec{
	PlanBasic: {
		Promo:    99,
		Regular:  149,
		Currency: "€",
		Name: map[Locale]string{
			LocaleRU: "BASIC — база",
			LocaleTJ: "BASIC — асосӣ",
		},
		Access: map[Locale]string{
			LocaleRU: "3 месяца",
			LocaleTJ: "3 моҳ",
		},
	},
	PlanPro: {
		Promo:    249,
		Regular:  349,
		Currency: "€",
		Name: map[Locale]string{
			LocaleRU: "PRO — база + разборы",
			LocaleTJ: "PRO — асосӣ + таҳлилҳо",
		},
		Access: map[Locale]string{
			LocaleRU: "вечный доступ",
			LocaleTJ: "дастрасии доимӣ",
		},
	},
	PlanVIP: {
		Promo:    399,
		Regular:  499,
		Currency: "€",
		Name: map[Locale]string{
			LocaleRU: "VIP — всё + личная поддержка",
			LocaleTJ: "VIP — ҳама чиз + дастгирии шахсӣ",
		},
		Access: map[Locale]string{
			LocaleRU: "вечный доступ + сопровождение",
			LocaleTJ: "дастрасии доимӣ + ҳамроҳӣ",
		},
	},
}

// Spec возвращает описание тарифа из таблицы цен.
func (p Plan) Spec() PlanSpec {
	return planTable[p]
}

// LocalName возвращает локализованное название тарифа.
func (p Plan) LocalName(loc Locale) string {
	spec, ok := planTable[p]
	if !ok {
		return string(p)
	}
	name, ok := spec.Name[loc]
	if !ok {
		return string(p)
	}
	return name
}
