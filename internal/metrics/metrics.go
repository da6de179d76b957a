// Package metrics определяет счётчики prometheus, публикуемые на /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Счётчики бота. Результат доставки: "sent" или "failed".
var (
	// UpdatesTotal количество обработанных обновлений по видам:
	// command, callback, text.
	UpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_updates_total",
		Help: "Number of processed incoming updates by kind.",
	}, []string{"kind"})

	// NotificationsTotal исходы отправки уведомлений пользователям.
	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_notifications_total",
		Help: "Number of user notifications by delivery result.",
	}, []string{"result"})

	// BroadcastMessagesTotal исходы отправки сообщений рассылки.
	BroadcastMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_broadcast_messages_total",
		Help: "Number of broadcast deliveries by result.",
	}, []string{"result"})
)

// Значения метки result.
const (
	ResultSent   = "sent"
	ResultFailed = "failed"
)
