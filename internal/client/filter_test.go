package client_test

import (
	"testing"

	"delivery-web-server/internal/client"
	"delivery-web-server/internal/model"

	"github.com/stretchr/testify/assert"
)

func sampleDeliveries() []model.Delivery {
	return []model.Delivery{
		{UUID: "d1", FilenameOriginal: "report.pdf", RecipientEmail: "anna@example.com", Status: model.DeliveryStatusPending},
		{UUID: "d2", FilenameOriginal: "photo.png", RecipientEmail: "boris@example.com", Status: model.DeliveryStatusSent},
		{UUID: "d3", FilenameOriginal: "Report-2025.docx", RecipientEmail: "anna@other.com", Status: model.DeliveryStatusFailed},
		{UUID: "d4", FilenameOriginal: "archive.zip", RecipientEmail: "carl@example.com", Status: model.DeliveryStatusPending},
	}
}

func TestFilter(t *testing.T) {
	deliveries := sampleDeliveries()

	tests := []struct {
		name     string
		query    string
		statuses []string
		tab      string
		expected []string
	}{
		{
			name:     "no filters returns everything",
			tab:      client.TabAll,
			expected: []string{"d1", "d2", "d3", "d4"},
		},
		{
			name:     "upcoming keeps only pending",
			tab:      client.TabUpcoming,
			expected: []string{"d1", "d4"},
		},
		{
			name:     "history keeps sent and failed",
			tab:      client.TabHistory,
			expected: []string{"d2", "d3"},
		},
		{
			name:     "unknown tab behaves like all",
			tab:      "whatever",
			expected: []string{"d1", "d2", "d3", "d4"},
		},
		{
			name:     "status filter",
			statuses: []string{"failed"},
			tab:      client.TabAll,
			expected: []string{"d3"},
		},
		{
			name:     "status filter ignores case and spaces",
			statuses: []string{" SENT ", "Failed"},
			tab:      client.TabAll,
			expected: []string{"d2", "d3"},
		},
		{
			name:     "query matches filename case-insensitively",
			query:    "report",
			tab:      client.TabAll,
			expected: []string{"d1", "d3"},
		},
		{
			name:     "query matches recipient",
			query:    "boris",
			tab:      client.TabAll,
			expected: []string{"d2"},
		},
		{
			name:     "filters combine",
			query:    "anna",
			statuses: []string{"pending", "failed"},
			tab:      client.TabUpcoming,
			expected: []string{"d1"},
		},
		{
			name:     "no matches",
			query:    "nothing-like-this",
			tab:      client.TabAll,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := client.Filter(deliveries, tt.query, tt.statuses, tt.tab)

			uuids := make([]string, 0, len(result))
			for _, delivery := range result {
				uuids = append(uuids, delivery.UUID)
			}
			assert.Equal(t, tt.expected, uuids)
		})
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	deliveries := sampleDeliveries()

	_ = client.Filter(deliveries, "report", []string{"pending"}, client.TabUpcoming)

	assert.Equal(t, sampleDeliveries(), deliveries)
}

func TestFilter_EmptyInput(t *testing.T) {
	result := client.Filter(nil, "report", nil, client.TabAll)

	assert.NotNil(t, result)
	assert.Empty(t, result)
}
