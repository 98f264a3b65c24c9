package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 100.0, Round2(99.999))
	assert.Equal(t, 1.01, Round2(1.005))
	assert.Equal(t, -2.35, Round2(-2.345))
	assert.Equal(t, 3500.25, Round2(3500.25))
	assert.Equal(t, 2.68, Round2(2.675))
}

func TestAsString(t *testing.T) {
	assert.Equal(t, "N/A", AsString(nil))
	assert.Equal(t, "N/A", AsString(" "))
	assert.Equal(t, "BULLISH", AsString("BULLISH"))
	assert.Equal(t, "101.5", AsString(101.5))
	assert.Equal(t, "true", AsString(true))
}

func TestLookup(t *testing.T) {
	m := map[string]interface{}{
		"support_resistance": map[string]interface{}{
			"resistance": map[string]interface{}{"target_1": 110.0},
		},
	}
	v, ok := Lookup(m, "support_resistance", "resistance", "target_1")
	assert.True(t, ok)
	assert.Equal(t, 110.0, v)

	_, ok = Lookup(m, "support_resistance", "support", "stop_1")
	assert.False(t, ok)
}
