package ui

import (
	"github.com/financeacademytj/storefront-bot/internal/lib/telegram"
	"github.com/financeacademytj/storefront-bot/internal/models"
)

// Префиксы callback-данных inline-кнопок, формат "action:value".
const (
	CallbackLang = "lang"
	CallbackPlan = "plan"
	CallbackPaid = "paid"
)

// MainMenu главное меню под полем ввода.
func MainMenu(loc models.Locale) telegram.ReplyKeyboardMarkup {
	return telegram.ReplyKeyboardMarkup{
		Keyboard: [][]telegram.KeyboardButton{
			{
				{Text: MenuCourses(loc)},
				{Text: MenuBuy(loc)},
			},
			{
				{Text: MenuAccount(loc)},
				{Text: MenuSupport(loc)},
			},
			{
				{Text: MenuLanguage},
			},
		},
		ResizeKeyboard: true,
	}
}

// LanguageKeyboard inline-клавиатура выбора языка.
func LanguageKeyboard() telegram.InlineKeyboardMarkup {
	return telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{
				{Text: "Русский", CallbackData: CallbackLang + ":ru"},
				{Text: "Тоҷикӣ", CallbackData: CallbackLang + ":tj"},
			},
		},
	}
}

// PlansKeyboard inline-клавиатура выбора тарифа со ссылкой на сайт.
func PlansKeyboard(siteURL string) telegram.InlineKeyboardMarkup {
	return telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{
				{Text: "BASIC", CallbackData: CallbackPlan + ":BASIC"},
				{Text: "PRO", CallbackData: CallbackPlan + ":PRO"},
				{Text: "VIP", CallbackData: CallbackPlan + ":VIP"},
			},
			{
				{Text: "🌐 Website", URL: siteURL},
			},
		},
	}
}

// PaymentKeyboard кнопка "я оплатил" для выбранного тарифа.
func PaymentKeyboard(plan models.Plan, siteURL string) telegram.InlineKeyboardMarkup {
	return telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{
				{Text: "✅ I paid / Ман пардохт кардам", CallbackData: CallbackPaid + ":" + string(plan)},
			},
			{
				{Text: "🌐 Website", URL: siteURL},
			},
		},
	}
}

// GroupKeyboard кнопка со ссылкой на группу тарифа, nil если ссылка не
// настроена.
func GroupKeyboard(loc models.Locale, plan models.Plan, groupURL string) *telegram.InlineKeyboardMarkup {
	if groupURL == "" {
		return nil
	}

	var label string
	switch {
	case plan == models.PlanVIP && loc == models.LocaleRU:
		label = "🔗 VIP-группа"
	case plan == models.PlanVIP:
		label = "🔗 Гурӯҳи VIP"
	case loc == models.LocaleRU:
		label = "🔗 Группа " + string(plan)
	default:
		label = "🔗 Гурӯҳи " + string(plan)
	}

	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{
				{Text: label, URL: groupURL},
			},
		},
	}
}
