// Package ui содержит локализованные тексты и клавиатуры бота. Пакет не
// обращается к хранилищу: локаль и данные приходят аргументами, поэтому его
// можно использовать из любого сервиса.
package ui

import (
	"fmt"

	"github.com/financeacademytj/storefront-bot/internal/models"
)

// Кнопка выбора языка присутствует во всех локалях в одном виде.
const MenuLanguage = "🌐 Language / Забон"

var texts = map[string]map[models.Locale]string{
	"welcome": {
		models.LocaleRU: "Ассалому алайкум!\n\nЯ бот *FinanceAcademyTJ*.\nПомогу выбрать тариф, оформить покупку и получить доступ к урокам.\n\nВыберите язык и используйте меню ниже.",
		models.LocaleTJ: "Ассалому алайкум!\n\nМан боти *FinanceAcademyTJ* ҳастам.\nБа шумо барои интихоб кардани тариф, харид ва гирифтани дастрасӣ ба дарсҳо кӯмак мекунам.\n\nЗабонро интихоб кунед ва аз меню истифода баред.",
	},
	"choose_lang": {
		models.LocaleRU: "🌐 Выберите язык:",
		models.LocaleTJ: "🌐 Забонро интихоб кунед:",
	},
	"lang_set_ru": {
		models.LocaleRU: "✅ Язык установлен: Русский",
		models.LocaleTJ: "✅ Забон интихоб шуд: Русӣ",
	},
	"lang_set_tj": {
		models.LocaleRU: "✅ Язык установлен: Тоҷикӣ",
		models.LocaleTJ: "✅ Забон интихоб шуд: Тоҷикӣ",
	},
	"menu_courses": {
		models.LocaleRU: "📚 Курсы",
		models.LocaleTJ: "📚 Дарсҳо",
	},
	"menu_buy": {
		models.LocaleRU: "💳 Купить доступ",
		models.LocaleTJ: "💳 Хариди дастрасӣ",
	},
	"menu_account": {
		models.LocaleRU: "📊 Мой аккаунт",
		models.LocaleTJ: "📊 Ҳисоби ман",
	},
	"menu_support": {
		models.LocaleRU: "👨‍💻 Поддержка",
		models.LocaleTJ: "👨‍💻 Дастгирӣ",
	},
	"buy_title": {
		models.LocaleRU: "💳 *Купить доступ*\n\nВыбери тариф:\n• BASIC — база (3 месяца)\n• PRO — база + разборы + личная связка\n• VIP — всё + личная связка + связка без карт + сопровождение\n\nНажми кнопку тарифа ниже:",
		models.LocaleTJ: "💳 *Хариди дастрасӣ*\n\nТарифро интихоб кунед:\n• BASIC — асосӣ (3 моҳ)\n• PRO — асосӣ + таҳлилҳо + «связка» шахсӣ\n• VIP — ҳама чиз + «связка» шахсӣ + «связка» бе корт + ҳамроҳӣ\n\nТугмаи тарифро зер кунед:",
	},
	"choose_plan_below": {
		models.LocaleRU: "Выбери тариф кнопками ниже:",
		models.LocaleTJ: "Тарифро бо тугмаҳои поён интихоб кунед:",
	},
	"no_access": {
		models.LocaleRU: "Доступ к урокам открывается *после покупки*.\nНажми «💳 Купить доступ» и выбери тариф.\n\n🌐 Полная информация: %s",
		models.LocaleTJ: "Дастрасӣ ба дарсҳо *пас аз харид* кушода мешавад.\n«💳 Хариди дастрасӣ» ро пахш кунед ва тарифро интихоб кунед.\n\n🌐 Маълумоти пурра: %s",
	},
	"access_active": {
		models.LocaleRU: "✅ Доступ активен.\n\nНапиши, что именно хочешь изучить сейчас:\n• Bybit регистрация/верификация\n• USDT покупка/продажа\n• P2P (апелляции, лимиты, безопасность)\n• Спот (основы)\n",
		models.LocaleTJ: "✅ Дастрасӣ фаъол аст.\n\nНавиштед, ки ҳозир чиро омӯхтан мехоҳед:\n• Bybit бақайдгирӣ/верификатсия\n• USDT харид/фурӯш\n• P2P (апелляция, лимитҳо, амният)\n• Спот (асосҳо)\n",
	},
	"support": {
		models.LocaleRU: "👨‍💻 *Поддержка*\n\nНапиши одним сообщением:\n1) что именно нужно (регистрация/верификация/USDT/P2P/вывод)\n2) на какой бирже (Bybit/Binance/другая)\n3) какая ошибка (если есть — текст ошибки)\n\n📌 Telegram: %s\n📌 WhatsApp: %s\n🌐 Подробнее на сайте: %s",
		models.LocaleTJ: "👨‍💻 *Дастгирӣ*\n\nЯк паём нависед:\n1) чӣ лозим аст (бақайдгирӣ/верификатсия/USDT/P2P/баровардан)\n2) кадом биржа (Bybit/Binance/дигар)\n3) кадом хато (агар бошад — матни хато)\n\n📌 Telegram: %s\n📌 WhatsApp: %s\n🌐 Маълумоти бештар: %s",
	},
	"request_accepted": {
		models.LocaleRU: "✅ Заявка отправлена на проверку.\n\nАдминистратор проверит оплату и откроет доступ.\nЕсли нужно — напиши в «👨‍💻 Поддержка» и отправь подтверждение оплаты.\n\n🌐 Детали: %s",
		models.LocaleTJ: "✅ Дархост ба санҷиш фиристода шуд.\n\nАдмин пардохтро месанҷад ва дастрасиро мекушояд.\nАгар лозим бошад — ба «👨‍💻 Дастгирӣ» нависед ва далели пардохтро фиристед.\n\n🌐 Тафсилот: %s",
	},
	"payment_denied": {
		models.LocaleRU: "⛔ *Статус оплаты: отказано*\n\nЕсли это ошибка — напиши в «👨‍💻 Поддержка» и прикрепи подтверждение оплаты.",
		models.LocaleTJ: "⛔ *Ҳолати пардохт: рад шуд*\n\nАгар хато бошад — ба «👨‍💻 Дастгирӣ» нависед ва далели пардохтро фиристед.",
	},
	"group_link": {
		models.LocaleRU: "🔗 Ссылка на вашу группу:",
		models.LocaleTJ: "🔗 Истинод ба гурӯҳи шумо:",
	},
}

func t(loc models.Locale, key string) string {
	block, ok := texts[key]
	if !ok {
		return ""
	}
	if txt, ok := block[loc]; ok {
		return txt
	}
	return block[models.DefaultLocale]
}

// Welcome приветствие после /start.
func Welcome(loc models.Locale) string { return t(loc, "welcome") }

// ChooseLanguage приглашение выбрать язык.
func ChooseLanguage(loc models.Locale) string { return t(loc, "choose_lang") }

// LanguageSet подтверждение выбора языка.
func LanguageSet(loc models.Locale) string {
	if loc == models.LocaleTJ {
		return texts["lang_set_tj"][models.LocaleTJ]
	}
	return texts["lang_set_ru"][models.LocaleRU]
}

// Пункты главного меню.
func MenuCourses(loc models.Locale) string { return t(loc, "menu_courses") }
func MenuBuy(loc models.Locale) string     { return t(loc, "menu_buy") }
func MenuAccount(loc models.Locale) string { return t(loc, "menu_account") }
func MenuSupport(loc models.Locale) string { return t(loc, "menu_support") }

// BuyTitle заголовок экрана покупки.
func BuyTitle(loc models.Locale) string { return t(loc, "buy_title") }

// ChoosePlanBelow подпись к клавиатуре тарифов.
func ChoosePlanBelow(loc models.Locale) string { return t(loc, "choose_plan_below") }

// NoAccess ответ пользователю без открытого доступа.
func NoAccess(loc models.Locale, siteURL string) string {
	return fmt.Sprintf(t(loc, "no_access"), siteURL)
}

// AccessActive ответ пользователю с открытым доступом.
func AccessActive(loc models.Locale) string { return t(loc, "access_active") }

// Support контакты поддержки.
func Support(loc models.Locale, tgHandle, whatsApp, siteURL string) string {
	return fmt.Sprintf(t(loc, "support"), tgHandle, whatsApp, siteURL)
}

// RequestAccepted подтверждение приёма заявки на проверку оплаты.
func RequestAccepted(loc models.Locale, siteURL string) string {
	return fmt.Sprintf(t(loc, "request_accepted"), siteURL)
}

// PaymentApproved уведомление о подтверждении оплаты.
func PaymentApproved(loc models.Locale, plan models.Plan) string {
	name := plan.LocalName(loc)
	if loc == models.LocaleTJ {
		return "✅ *Пардохт тасдиқ шуд!*\n\n" +
			fmt.Sprintf("Тариф: *%s*\n", name) +
			"Дастрасӣ ба дарсҳо кушода шуд.\n\n«📚 Дарсҳо»-ро пахш кунед ва омӯзишро оғоз намоед."
	}
	return "✅ *Оплата подтверждена!*\n\n" +
		fmt.Sprintf("Тариф: *%s*\n", name) +
		"Доступ к урокам открыт.\n\nНажми «📚 Курсы» и начинай обучение."
}

// PaymentDenied уведомление об отказе.
func PaymentDenied(loc models.Locale) string { return t(loc, "payment_denied") }

// GroupLinkIntro подпись к кнопке со ссылкой на группу тарифа.
func GroupLinkIntro(loc models.Locale) string { return t(loc, "group_link") }

// Courses описание курсов.
func Courses(loc models.Locale, siteURL string) string {
	if loc == models.LocaleTJ {
		return "📚 *Дарсҳои Finance Academy TJ*\n\n" +
			"Мо *крипторо аз сифр* меомӯзонем — бо забони содда, қадам ба қадам ва бо диққати калон ба амният.\n\n" +
			"Шумо меомӯзед:\n" +
			"• крипто чист ва барои чӣ лозим аст\n" +
			"• *USDT* чист ва чаро ~1$ мемонад (stablecoin)\n" +
			"• биржа чист ва чӣ тавр бехатар истифода бурдан\n" +
			"• чӣ тавр *USDT харидан/фурӯхтан*\n" +
			"• чӣ тавр пулро тавассути *P2P* фиристодан\n" +
			"• чӣ тавр аз хато ва мошенникҳо ҳифз шудан\n" +
			"• амният: 2FA, антифишинг, парольҳо\n\n" +
			fmt.Sprintf("🌐 Барномаи пурра: %s\n\n", siteURL) +
			"Дастрасӣ ба дарсҳо *пас аз харид* кушода мешавад.\n" +
			"«💳 Хариди дастрасӣ»-ро пахш кунед ва тарифро интихоб кунед."
	}
	return "📚 *Курсы Finance Academy TJ*\n\n" +
		"Мы обучаем *криптовалюте с нуля* — простым языком, пошагово и с упором на безопасность.\n\n" +
		"Вы научитесь:\n" +
		"• что такое крипта и зачем она нужна\n" +
		"• что такое *USDT* и почему он держит курс ~1$ (стейблкоин)\n" +
		"• что такое биржа и как ей пользоваться безопасно\n" +
		"• как *купить/продать USDT*\n" +
		"• как отправлять деньги по миру через *P2P*\n" +
		"• как избежать ошибок и мошенников\n" +
		"• безопасность: 2FA, антифишинг, пароли\n\n" +
		fmt.Sprintf("🌐 Полная программа и детали: %s\n\n", siteURL) +
		"Доступ к урокам открывается *после покупки*.\n" +
		"Нажми «💳 Купить доступ» и выбери тариф."
}

// PlanDetails карточка тарифа с ценами и сроком доступа.
func PlanDetails(loc models.Locale, plan models.Plan) string {
	spec := plan.Spec()
	price := fmt.Sprintf("*%d%s* (акция) вместо *%d%s*", spec.Promo, spec.Currency, spec.Regular, spec.Currency)
	priceTJ := fmt.Sprintf("*%d%s* (аксия) ба ҷои *%d%s*", spec.Promo, spec.Currency, spec.Regular, spec.Currency)
	access := spec.Access[loc]
	paid := "После оплаты нажми кнопку ниже: «✅ I paid / Ман пардохт кардам»."
	paidTJ := "Пас аз пардохт тугмаи поёнро пахш кунед: «✅ I paid / Ман пардохт кардам»."

	switch plan {
	case models.PlanBasic:
		if loc == models.LocaleTJ {
			return "✅ *BASIC — барои навкорҳо*\n\n" +
				"Агар аз сифр оғоз мекунед — ин беҳтарин аст.\n\n" +
				"Дар дохил:\n• асосҳои крипто\n• USDT, шабакаҳо, комиссияҳо\n• P2P: харид/фурӯш, амният, апелляция\n• фиристодани пул тавассути P2P\n\n" +
				fmt.Sprintf("⏳ Дастрасӣ: *%s*\n💰 Нарх: %s\n\n", access, priceTJ) + paidTJ
		}
		return "✅ *BASIC — база (для новичков)*\n\n" +
			"Подходит, если ты начинаешь с нуля.\n\n" +
			"Внутри:\n• основы крипты\n• USDT, сети, комиссии\n• P2P: покупка/продажа, безопасность, апелляции\n• отправка денег по миру через P2P\n\n" +
			fmt.Sprintf("⏳ Доступ: *%s*\n💰 Цена: %s\n\n", access, price) + paid
	case models.PlanPro:
		if loc == models.LocaleTJ {
			return "⭐ *PRO — асосӣ + таҳлилҳо + «связка» шахсӣ*\n\n" +
				"Ҳама чиз аз BASIC, илова:\n• таҳлилҳои амалӣ\n• ҷавоб ба саволҳо\n• *«связка» шахсӣ*\n\n" +
				fmt.Sprintf("♾️ Дастрасӣ: *%s*\n💰 Нарх: %s\n\n", access, priceTJ) + paidTJ
		}
		return "⭐ *PRO — база + разборы + личная связка*\n\n" +
			"Всё из BASIC, плюс:\n• практические разборы\n• ответы на вопросы\n• *личная связка*\n\n" +
			fmt.Sprintf("♾️ Доступ: *%s*\n💰 Цена: %s\n\n", access, price) + paid
	case models.PlanVIP:
		if loc == models.LocaleTJ {
			return "👑 *VIP — максимум: ҳама чиз + ҳамроҳии шахсӣ*\n\n" +
				"Ҳама чиз аз PRO, илова:\n• *«связка» шахсӣ* + танзим барои шумо\n• *«связка» бе корт*\n• дастгирӣ ва ҳамроҳии шахсӣ\n• занг/консультация\n\n" +
				fmt.Sprintf("♾️ Дастрасӣ: *%s*\n💰 Нарх: %s\n\n", access, priceTJ) + paidTJ
		}
		return "👑 *VIP — максимум: всё + личное сопровождение*\n\n" +
			"Всё из PRO, плюс:\n• *личная связка* + настройка под тебя\n• *связка без карт*\n• личная поддержка и сопровождение\n• созвон/консультация\n\n" +
			fmt.Sprintf("♾️ Доступ: *%s*\n💰 Цена: %s\n\n", access, price) + paid
	}
	return "Неизвестный тариф."
}

// Account сводка аккаунта пользователя.
func Account(loc models.Locale, id int64, rec models.UserRecord, approved models.Plan, hasAccess bool, siteURL string) string {
	var status, planName, access string
	if hasAccess {
		spec := approved.Spec()
		planName = approved.LocalName(loc)
		access = spec.Access[loc]
		if loc == models.LocaleTJ {
			status = "✅ дастрасӣ кушода аст"
		} else {
			status = "✅ доступ открыт"
		}
	} else {
		planName, access = "—", "—"
		if loc == models.LocaleTJ {
			status = "⛔ дастрасӣ фаъол нест"
		} else {
			status = "⛔ доступ не активирован"
		}
	}

	firstName := rec.FirstName
	if firstName == "" {
		firstName = "—"
	}
	handle := rec.Handle
	if handle == "" {
		handle = "—"
	}

	if loc == models.LocaleTJ {
		return "📊 *Ҳисоби ман*\n\n" +
			fmt.Sprintf("👤 Ном: *%s*\n🔗 Username: *@%s*\n🆔 ID: `%d`\n\n", firstName, handle, id) +
			fmt.Sprintf("📌 Тариф: *%s*\n📍 Ҳолат: *%s*\n⏳ Дастрасӣ: *%s*\n\n", planName, status, access) +
			fmt.Sprintf("🌐 Маълумоти пурра: %s", siteURL)
	}
	return "📊 *Мой аккаунт*\n\n" +
		fmt.Sprintf("👤 Имя: *%s*\n🔗 Username: *@%s*\n🆔 ID: `%d`\n\n", firstName, handle, id) +
		fmt.Sprintf("📌 Тариф: *%s*\n📍 Статус: *%s*\n⏳ Доступ: *%s*\n\n", planName, status, access) +
		fmt.Sprintf("🌐 Полная информация: %s", siteURL)
}
