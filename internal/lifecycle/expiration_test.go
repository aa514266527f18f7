package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func timePtr(t time.Time) *time.Time { return &t }

func TestIsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		expected  bool
	}{
		{"expired yesterday", testNow.AddDate(0, 0, -1), true},
		{"expires tomorrow", testNow.AddDate(0, 0, 1), false},
		{"expires exactly now", testNow, true},
		{"expired long ago", testNow.AddDate(-1, 0, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsExpired(tt.expiresAt, testNow))
		})
	}
}

func TestRemainingDaysNeverNegative(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		expected  int
	}{
		{"five days out", testNow.AddDate(0, 0, 5), 5},
		{"half a day out rounds up", testNow.Add(12 * time.Hour), 1},
		{"expired yesterday", testNow.AddDate(0, 0, -1), 0},
		{"expired a year ago", testNow.AddDate(-1, 0, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RemainingDays(tt.expiresAt, testNow)
			assert.Equal(t, tt.expected, got)
			assert.GreaterOrEqual(t, got, 0)
		})
	}
}

func TestStatus(t *testing.T) {
	engine := New(DefaultParams())

	t.Run("comfortably valid", func(t *testing.T) {
		a := engine.Status(testNow.AddDate(0, 0, 10), 14, testNow)
		assert.Equal(t, StatusValid, a.Status)
		assert.Equal(t, 100, a.ValidityPercentage)
		assert.False(t, a.RequiresRevalidation)
		assert.Equal(t, 10, a.RemainingDays)
		assert.Equal(t, 14, a.ValidityDays)
	})

	t.Run("expiring soon", func(t *testing.T) {
		a := engine.Status(testNow.Add(6*time.Hour), 14, testNow)
		assert.Equal(t, StatusExpiringSoon, a.Status)
		assert.True(t, a.RequiresRevalidation)
		assert.Greater(t, a.ValidityPercentage, 0)
		assert.Less(t, a.ValidityPercentage, 100)
	})

	t.Run("expired", func(t *testing.T) {
		a := engine.Status(testNow.AddDate(0, 0, -3), 14, testNow)
		assert.Equal(t, StatusExpired, a.Status)
		assert.Equal(t, 0, a.ValidityPercentage)
		assert.True(t, a.RequiresRevalidation)
		assert.Equal(t, 0, a.RemainingDays)
	})
}

func TestShouldSendExpirationAlert(t *testing.T) {
	engine := New(DefaultParams())

	tests := []struct {
		name        string
		expiresAt   time.Time
		lastAlertAt *time.Time
		expected    bool
	}{
		{"inside window, never alerted", testNow.Add(12 * time.Hour), nil, true},
		{"inside window, alerted two days ago", testNow.Add(12 * time.Hour), timePtr(testNow.Add(-48 * time.Hour)), true},
		{"inside window, alerted an hour ago", testNow.Add(12 * time.Hour), timePtr(testNow.Add(-time.Hour)), false},
		{"inside window, alerted exactly 24h ago", testNow.Add(12 * time.Hour), timePtr(testNow.Add(-24 * time.Hour)), false},
		{"well before window", testNow.AddDate(0, 0, 5), nil, false},
		{"just expired, never alerted", testNow.Add(-6 * time.Hour), nil, true},
		{"far past expiry", testNow.AddDate(0, 0, -10), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.ShouldSendExpirationAlert(tt.expiresAt, tt.lastAlertAt, testNow)
			assert.Equal(t, tt.expected, got)
		})
	}
}
