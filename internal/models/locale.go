package models

import "strings"

// Locale язык интерфейса пользователя.
type Locale string

// Поддерживаемые локали. Всё, что вне набора, приводится к DefaultLocale.
const (
	LocaleRU Locale = "ru"
	LocaleTJ Locale = "tj"
)

// DefaultLocale локаль по умолчанию.
const DefaultLocale = LocaleRU

// SupportedLocales закрытый набор поддерживаемых локалей.
var SupportedLocales = []Locale{LocaleRU, LocaleTJ}

// NormalizeLocale приводит произвольную строку к поддерживаемой локали.
// Неизвестное или пустое значение даёт DefaultLocale, ошибки не бывает.
func NormalizeLocale(raw string) Locale {
	loc := Locale(strings.ToLower(strings.TrimSpace(raw)))
	for _, supported := range SupportedLocales {
		if loc == supported {
			return loc
		}
	}
	return DefaultLocale
}
