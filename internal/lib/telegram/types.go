package telegram

// User отправитель сообщения или нажатия кнопки.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

// FullName имя и фамилия одной строкой, прочерк если имя не заполнено.
func (u User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	}
	return "—"
}

// Chat чат, из которого пришло сообщение.
type Chat struct {
	ID int64 `json:"id"`
}

// Message входящее текстовое сообщение.
type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from,omitempty"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text,omitempty"`
}

// CallbackQuery нажатие inline-кнопки. Data содержит полезную нагрузку
// вида "action:value".
type CallbackQuery struct {
	ID      string   `json:"id"`
	From    User     `json:"from"`
	Message *Message `json:"message,omitempty"`
	Data    string   `json:"data,omitempty"`
}

// Update единица входящего потока событий.
type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message,omitempty"`
	CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
}

// KeyboardButton кнопка обычной клавиатуры.
type KeyboardButton struct {
	Text string `json:"text"`
}

// ReplyKeyboardMarkup обычная клавиатура под полем ввода.
type ReplyKeyboardMarkup struct {
	Keyboard       [][]KeyboardButton `json:"keyboard"`
	ResizeKeyboard bool               `json:"resize_keyboard,omitempty"`
}

// InlineKeyboardButton inline-кнопка: либо callback-данные, либо ссылка.
type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data,omitempty"`
	URL          string `json:"url,omitempty"`
}

// InlineKeyboardMarkup inline-клавиатура, прикреплённая к сообщению.
type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

// SendMessageParams параметры отправки сообщения. ReplyMarkup принимает
// ReplyKeyboardMarkup, InlineKeyboardMarkup или nil.
type SendMessageParams struct {
	ChatID      int64  `json:"chat_id"`
	Text        string `json:"text"`
	ParseMode   string `json:"parse_mode,omitempty"`
	ReplyMarkup any    `json:"reply_markup,omitempty"`
}

// EditMessageTextParams параметры правки ранее отправленного сообщения.
type EditMessageTextParams struct {
	ChatID      int64                 `json:"chat_id"`
	MessageID   int64                 `json:"message_id"`
	Text        string                `json:"text"`
	ParseMode   string                `json:"parse_mode,omitempty"`
	ReplyMarkup *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

// ParseModeMarkdown режим разметки исходящих сообщений.
const ParseModeMarkdown = "Markdown"
