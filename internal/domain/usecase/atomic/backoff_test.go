package atomic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLinearBackoff_WaitDuration(t *testing.T) {
	b := NewLinearBackoff(100 * time.Millisecond)

	tests := []struct {
		name    string
		attempt int
		want    time.Duration
	}{
		{"first retry", 1, 100 * time.Millisecond},
		{"second retry", 2, 200 * time.Millisecond},
		{"third retry", 3, 300 * time.Millisecond},
		{"zero attempt", 0, 0},
		{"negative attempt", -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.WaitDuration(tt.attempt))
		})
	}
}

func TestNewLinearBackoff_DefaultsOnInvalidStep(t *testing.T) {
	b := NewLinearBackoff(0)
	assert.Equal(t, DefaultBackoffStep, b.WaitDuration(1))

	b = NewLinearBackoff(-time.Second)
	assert.Equal(t, 2*DefaultBackoffStep, b.WaitDuration(2))
}
