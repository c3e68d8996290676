package xtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	t.Parallel()

	day := 24 * time.Hour

	tests := []struct {
		in     string
		exp    time.Duration
		expErr string
	}{
		{in: "7d", exp: 7 * day},
		{in: "1w12h", exp: 7*day + 12*time.Hour},
		{in: "-1.5w", exp: -(10*day + 12*time.Hour)},
		{in: "1Y2M", exp: 365*day + 60*day},
		{in: "90m", exp: 90 * time.Minute},
		{in: "1d500ms", exp: day + 500*time.Millisecond},
		{in: "0", exp: 0},
		{in: "", expErr: "invalid duration ''"},
		{in: "d", expErr: "invalid duration 'd'"},
		{in: "10", expErr: "missing unit in duration '10'"},
		{in: "3x", expErr: "invalid duration '3x'"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDuration(tt.in)
			if tt.expErr != "" {
				assert.ErrorContains(t, err, tt.expErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.exp, got)
		})
	}
}

func TestParsePositiveDuration(t *testing.T) {
	t.Parallel()

	d, err := ParsePositiveDuration("1d")
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, d)

	_, err = ParsePositiveDuration("-1d")
	assert.ErrorIs(t, err, ErrNegative)
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	day := 24 * time.Hour

	tests := []struct {
		in  time.Duration
		exp string
	}{
		{in: 0, exp: "0s"},
		{in: 500 * time.Millisecond, exp: "0s"},
		{in: 9 * day, exp: "1w2d"},
		{in: 3*time.Hour + 20*time.Minute, exp: "3h20m"},
		{in: -365 * day, exp: "-1Y"},
		{in: 31*day + time.Second, exp: "1M1d1s"},
	}

	for _, tt := range tests {
		t.Run(tt.exp, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.exp, FormatDuration(tt.in))
		})
	}
}
