//go:build unit
// +build unit

package orders

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceOrderValidation(t *testing.T) {
	tests := []struct {
		name    string
		order   ServiceOrder
		wantErr bool
	}{
		{
			name:    "Valid order",
			order:   ServiceOrder{BikeID: 1, Status: StatusNew},
			wantErr: false,
		},
		{
			name:    "Missing bike",
			order:   ServiceOrder{Status: StatusNew},
			wantErr: true,
		},
		{
			name:    "Unknown status",
			order:   ServiceOrder{BikeID: 1, Status: Status("LOST")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.order.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStatusLabels(t *testing.T) {
	assert.Equal(t, "Nová", StatusNew.Label())
	assert.Equal(t, "Hotová", StatusDone.Label())
	assert.Equal(t, "UNKNOWN", Status("UNKNOWN").Label())

	assert.True(t, ValidStatus("WAITING_PART"))
	assert.False(t, ValidStatus("LOST"))
	assert.Len(t, Statuses(), 5)
}

func TestCode(t *testing.T) {
	withCode := &ServiceOrder{ID: 7, ServiceCode: "BB-2024-001"}
	assert.Equal(t, "BB-2024-001", withCode.Code())

	withoutCode := &ServiceOrder{ID: 7}
	assert.Equal(t, "7", withoutCode.Code())
}

func TestApplyStatus(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	order := &ServiceOrder{BikeID: 1, Status: StatusInProgress}

	justCompleted := order.ApplyStatus(StatusDone, now)
	require.True(t, justCompleted)
	require.NotNil(t, order.CompletedAt)
	assert.Equal(t, now, *order.CompletedAt)

	// Saving DONE again must not re-trigger the completion.
	later := now.Add(time.Hour)
	assert.False(t, order.ApplyStatus(StatusDone, later))
	assert.Equal(t, now, *order.CompletedAt)

	// Leaving DONE clears the completion time.
	assert.False(t, order.ApplyStatus(StatusReady, later))
	assert.Nil(t, order.CompletedAt)

	// Completing once more stamps the new time.
	assert.True(t, order.ApplyStatus(StatusDone, later))
	assert.Equal(t, later, *order.CompletedAt)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		wantErr  bool
	}{
		{name: "Plain", raw: "29.00", expected: "29"},
		{name: "Comma separator", raw: "39,50", expected: "39.5"},
		{name: "Whitespace", raw: " 69.00 ", expected: "69"},
		{name: "Empty is zero", raw: "", expected: "0"},
		{name: "Garbage", raw: "abc", wantErr: true},
		{name: "Negative", raw: "-5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := ParsePrice(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPrice)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, price.String())
		})
	}
}

func TestPriceString(t *testing.T) {
	order := &ServiceOrder{Price: decimal.RequireFromString("29")}
	assert.Equal(t, "29.00", order.PriceString())
}

func TestParsePromisedDate(t *testing.T) {
	parsed := ParsePromisedDate("2024-06-15")
	require.NotNil(t, parsed)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), *parsed)

	assert.Nil(t, ParsePromisedDate(""))
	assert.Nil(t, ParsePromisedDate("15.06.2024"))
}
