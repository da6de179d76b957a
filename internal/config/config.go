// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator"
	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек. Загружается один раз на старте
// и дальше передаётся по ссылке: глобального изменяемого состояния нет.
type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"local"`
	BotToken   string `yaml:"bot_token" env:"BOT_TOKEN" validate:"required"`
	OperatorID int64  `yaml:"operator_id" env:"OPERATOR_ID"`
	UsersPath  string `yaml:"users_path" env:"USERS_PATH" env-default:"users.json"`
	SiteURL    string `yaml:"site_url" env:"SITE_URL" env-default:"https://financeacademy.online"`

	Support    `yaml:"support"`
	GroupLinks `yaml:"group_links"`
	Telegram   `yaml:"telegram"`
	HTTPServer `yaml:"http_server"`
}

// Support контакты поддержки, подставляются в локализованные тексты.
type Support struct {
	TelegramHandle string `yaml:"telegram_handle" env:"SUPPORT_TG" env-default:"@financeacademytj"`
	WhatsApp       string `yaml:"whatsapp" env:"SUPPORT_WA"`
}

// GroupLinks ссылки-приглашения в закрытые группы по тарифам. Пустая ссылка
// означает, что для тарифа группа не настроена.
type GroupLinks struct {
	BasicURL string `yaml:"basic_url" env:"GROUP_BASIC_URL"`
	ProURL   string `yaml:"pro_url" env:"GROUP_PRO_URL"`
	VIPURL   string `yaml:"vip_url" env:"GROUP_VIP_URL"`
}

// Telegram структура для настройки клиента Bot API.
type Telegram struct {
	APIEndpoint    string        `yaml:"api_endpoint" env:"TELEGRAM_API_ENDPOINT" env-default:"https://api.telegram.org"`
	PollTimeout    time.Duration `yaml:"poll_timeout" env-default:"50s"`
	SendTimeout    time.Duration `yaml:"send_timeout" env-default:"5s"`
	SendRatePerSec float64       `yaml:"send_rate_per_sec" env-default:"25"`
	SendBurst      int           `yaml:"send_burst" env-default:"5"`
}

// HTTPServer структура для настройки служебного HTTP-сервера (health, metrics).
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// MustLoad загружает конфиг из файла по CONFIG_PATH (с переопределением из
// окружения) либо, если путь не задан, только из переменных окружения.
// Отсутствие токена бота — единственная фатальная ошибка старта.
func MustLoad() *Config {
	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			log.Fatalf("file: %s - does not exist", configPath)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			log.Fatalf("cannot read config: %s", err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read config from env: %s", err)
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		log.Fatalf("invalid config: %s", err)
	}
	return &cfg
}

// GroupURL возвращает ссылку на группу тарифа, пустую строку если не настроена.
// Тариф приходит строкой, чтобы не тянуть сюда доменные типы.
func (c *Config) GroupURL(plan string) string {
	switch plan {
	case "BASIC":
		return c.BasicURL
	case "PRO":
		return c.ProURL
	case "VIP":
		return c.VIPURL
	}
	return ""
}

// OpenAuthorization признак режима открытой авторизации: оператор не настроен,
// привилегированные команды доступны всем. Используется только для обкатки.
func (c *Config) OpenAuthorization() bool {
	return c.OperatorID == 0
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"UsersPath: %s\n"+
			"OperatorID: %d\n"+
			"SiteURL: %s\n"+
			"Telegram:\n"+
			"  APIEndpoint: %s\n"+
			"  PollTimeout: %s\n"+
			"  SendTimeout: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n",
		c.Env,
		c.UsersPath,
		c.OperatorID,
		c.SiteURL,
		c.APIEndpoint,
		c.PollTimeout,
		c.SendTimeout,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
	)
}
