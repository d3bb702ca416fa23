package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havenstay/service-rental/internal/platform/apperror"
)

func date(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func mustStay(t *testing.T, in, out string) Stay {
	t.Helper()
	s, err := NewStay(date(in), date(out))
	require.NoError(t, err)
	return s
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"2024-06-01", "2024-06-01"},
		{" 2024-06-01 ", "2024-06-01"},
		{"2024-06-01T15:30:00Z", "2024-06-01"},
		{"2024-06-01T23:30:00-05:00", "2024-06-02"},
		{"2024-06-02T01:00:00+03:00", "2024-06-01"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseDate(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, date(tt.want), got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, raw := range []string{"", "tomorrow", "2024-13-01", "06/01/2024"} {
		_, err := ParseDate(raw)
		assert.True(t, apperror.Is(err, apperror.KindInvalidInput), raw)
	}
}

func TestStay_Nights(t *testing.T) {
	assert.Equal(t, 3, mustStay(t, "2024-06-01", "2024-06-04").Nights())
	assert.Equal(t, 0, mustStay(t, "2024-06-01", "2024-06-01").Nights())
	assert.Equal(t, 1, mustStay(t, "2024-02-28", "2024-02-29").Nights())
	assert.Equal(t, 366, mustStay(t, "2024-01-01", "2025-01-01").Nights())

	s, err := NewStay(
		time.Date(2024, 6, 1, 22, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 2, 1, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Nights())
}

func TestNewStay_RejectsReversedDates(t *testing.T) {
	_, err := NewStay(date("2024-06-04"), date("2024-06-01"))
	require.Error(t, err)
	assert.Equal(t, "checkOut must be after checkIn", apperror.PublicMessage(err))
}

func TestStay_Overlaps(t *testing.T) {
	base := mustStay(t, "2024-06-01", "2024-06-04")

	tests := []struct {
		name    string
		in, out string
		want    bool
	}{
		{"same range", "2024-06-01", "2024-06-04", true},
		{"tail overlap", "2024-06-03", "2024-06-05", true},
		{"head overlap", "2024-05-30", "2024-06-02", true},
		{"contains", "2024-05-30", "2024-06-10", true},
		{"inside", "2024-06-02", "2024-06-03", true},
		{"back to back after", "2024-06-04", "2024-06-06", false},
		{"back to back before", "2024-05-29", "2024-06-01", false},
		{"disjoint", "2024-07-01", "2024-07-02", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := mustStay(t, tt.in, tt.out)
			assert.Equal(t, tt.want, base.Overlaps(other))
			assert.Equal(t, tt.want, other.Overlaps(base))
		})
	}
}
