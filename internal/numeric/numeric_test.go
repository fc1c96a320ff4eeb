package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloat(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
		ok   bool
	}{
		{"float", 82.5, 82.5, true},
		{"int", 10, 10, true},
		{"numeric string", " 12.5 ", 12.5, true},
		{"blank string", "  ", 0, false},
		{"garbage", "heavy", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
		{"nan", math.NaN(), 0, false},
		{"inf", math.Inf(1), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Float(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNullableFloat(t *testing.T) {
	assert.Nil(t, NullableFloat("x"))
	got := NullableFloat("7")
	require.NotNil(t, got)
	assert.Equal(t, 7.0, *got)
}

func TestIntOr(t *testing.T) {
	assert.Equal(t, 3, IntOr("2.6", 1))
	assert.Equal(t, 1, IntOr(nil, 1))
	assert.Equal(t, -2, IntOr(-2.4, 0))
}

func TestBool(t *testing.T) {
	assert.True(t, Bool(true))
	assert.True(t, Bool("TRUE"))
	assert.True(t, Bool(1.0))
	assert.False(t, Bool("nope"))
	assert.False(t, Bool(nil))
	assert.False(t, Bool(0.0))
}

func TestRoundingRules(t *testing.T) {
	assert.Equal(t, 110.3, RoundPercent(110.25000001))
	assert.Equal(t, 8.5, RoundRPE(8.45000001))
	assert.Equal(t, 2, RoundSetsDelta(1.5))
	assert.Equal(t, -2, RoundSetsDelta(-2.2))
	assert.Equal(t, "82.5", WeightKey(82.5000001))
	assert.Equal(t, "100", WeightKey(100))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1, ClampInt(-4, 1, 12))
	assert.Equal(t, 12, ClampInt(40, 1, 12))
	assert.Equal(t, 5, ClampInt(5, 1, 12))
	assert.Equal(t, 10.0, ClampFloat(11, 5, 10))
}

func TestCopyIsIndependent(t *testing.T) {
	src := Ptr(5)
	dst := Copy(src)
	*dst = 6
	assert.Equal(t, 5.0, *src)
	assert.Nil(t, Copy(nil))
}
