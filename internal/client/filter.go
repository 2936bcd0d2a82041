package client

import (
	"strings"

	"delivery-web-server/internal/model"
)

// Вкладки списка: upcoming показывает ожидающие записи,
// history показывает завершенные (sent и failed).
const (
	TabAll      = "all"
	TabUpcoming = "upcoming"
	TabHistory  = "history"
)

// Filter : чистый отбор снимка по статусам, подстроке и вкладке.
// Результат выводится только из аргументов, порядок входа сохраняется.
func Filter(deliveries []model.Delivery, query string, statuses []string, tab string) []model.Delivery {
	statusSet := make(map[string]struct{}, len(statuses))
	for _, status := range statuses {
		statusSet[strings.ToLower(strings.TrimSpace(status))] = struct{}{}
	}

	needle := strings.ToLower(strings.TrimSpace(query))

	result := make([]model.Delivery, 0, len(deliveries))
	for _, delivery := range deliveries {
		if matchesTab(delivery.Status, tab) == false {
			continue
		}

		if len(statusSet) > 0 {
			if _, ok := statusSet[delivery.Status]; ok == false {
				continue
			}
		}

		if needle != "" {
			filename := strings.ToLower(delivery.FilenameOriginal)
			recipient := strings.ToLower(delivery.RecipientEmail)
			if strings.Contains(filename, needle) == false && strings.Contains(recipient, needle) == false {
				continue
			}
		}

		result = append(result, delivery)
	}

	return result
}

func matchesTab(status string, tab string) bool {
	switch tab {
	case TabUpcoming:
		return status == model.DeliveryStatusPending
	case TabHistory:
		return status == model.DeliveryStatusSent || status == model.DeliveryStatusFailed
	default:
		return true
	}
}
