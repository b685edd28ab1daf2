package duration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  time.Duration
		wantError bool
	}{
		{"seconds", "45s", 45 * time.Second, false},
		{"minutes", "30m", 30 * time.Minute, false},
		{"hours", "36h", 36 * time.Hour, false},
		{"compound", "1h30m", 90 * time.Minute, false},
		{"1 day", "1d", 24 * time.Hour, false},
		{"7 days", "7d", 7 * 24 * time.Hour, false},
		{"2 weeks", "2w", 14 * 24 * time.Hour, false},
		{"empty", "", 0, true},
		{"unknown unit", "3y", 0, true},
		{"fractional days", "1.5d", 0, true},
		{"garbage", "soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantError {
				assert.ErrorIs(t, err, ErrInvalidFormat)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMustParse(t *testing.T) {
	assert.Equal(t, 48*time.Hour, MustParse("2d"))
	assert.Panics(t, func() { MustParse("never") })
}
