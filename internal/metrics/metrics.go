package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики диспетчера и горячих путей сервиса
var (
	DispatchRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "delivery_dispatch_runs_total",
		Help: "Количество прогонов диспетчера отправок",
	})

	DispatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "delivery_dispatch_duration_seconds",
		Help:    "Длительность одного прогона диспетчера",
		Buckets: prometheus.DefBuckets,
	})

	EmailsSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "delivery_emails_sent_total",
		Help: "Количество успешно отправленных писем",
	})

	EmailsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "delivery_emails_failed_total",
		Help: "Количество неудачных попыток отправки",
	})

	AccessResolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "delivery_access_resolutions_total",
		Help: "Обращения по токену доступа с разбивкой по исходу",
	}, []string{"outcome"})
)
