package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func endingIn(now time.Time, days int) *DateOnly {
	d := NewDateOnly(now.AddDate(0, 0, days))
	return &d
}

func TestLicenseValidityStatus(t *testing.T) {
	now := time.Date(2026, 5, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		endDate *DateOnly
		want    LicenseValidity
	}{
		{"no end date", nil, ValidityUnknown},
		{"ended yesterday", endingIn(now, -1), ValidityExpired},
		{"ends within the warning window", endingIn(now, 10), ValidityExpiringSoon},
		{"ends on the window boundary", endingIn(now, 30), ValidityExpiringSoon},
		{"ends past the warning window", endingIn(now, 31), ValidityValid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			license := License{LicenseEndDate: tt.endDate}
			assert.Equal(t, tt.want, license.ValidityStatus(now))
		})
	}
}

func TestLicenseDaysRemaining(t *testing.T) {
	now := time.Date(2026, 5, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		endDate *DateOnly
		want    int
	}{
		{"no end date", nil, 0},
		{"already expired floors at zero", endingIn(now, -5), 0},
		{"partial day rounds up", endingIn(now, 10), 10},
		{"far future", endingIn(now, 31), 31},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			license := License{LicenseEndDate: tt.endDate}
			assert.Equal(t, tt.want, license.DaysRemaining(now))
		})
	}
}

func TestParseDateLayouts(t *testing.T) {
	want := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	for _, raw := range []string{"2026-02-01", "01-02-2026"} {
		parsed, err := ParseDate(raw)
		assert.NoError(t, err)
		assert.Equal(t, want, parsed)
	}

	_, err := ParseDate("not-a-date")
	assert.Error(t, err)
}
