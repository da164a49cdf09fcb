package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMoney(t *testing.T, s string) Money {
	t.Helper()
	m, err := FromString(s)
	require.NoError(t, err)
	return m
}

func TestMoney_Arithmetic(t *testing.T) {
	a := mustMoney(t, "100.10")
	b := mustMoney(t, "0.20")

	// String trims trailing zeros; exactness is what matters here.
	assert.Equal(t, "100.3", a.Add(b).String())
	assert.Equal(t, "99.9", a.Sub(b).String())
	assert.Equal(t, "-100.1", a.Neg().String())
	assert.Equal(t, "200.2", a.Mul(decimal.NewFromInt(2)).String())
}

func TestMoney_StringFixed(t *testing.T) {
	a := mustMoney(t, "100.10")
	b := mustMoney(t, "0.20")

	assert.Equal(t, "100.30", a.Add(b).StringFixed("USD"))
	assert.Equal(t, "100.10", a.StringFixed("USD"))
	assert.Equal(t, "4300.00", mustMoney(t, "4300").StringFixed("USD"))
	assert.Equal(t, "1000", mustMoney(t, "1000").StringFixed("JPY"))
	assert.Equal(t, "1.005", mustMoney(t, "1.005").StringFixed("KWD"))
	// Unknown currencies fall back to two digits.
	assert.Equal(t, "7.00", mustMoney(t, "7").StringFixed(""))
}

func TestMoney_NoFloatDrift(t *testing.T) {
	// 0.1 added ten times must be exactly 1, which float64 cannot do.
	sum := Zero
	tenth := mustMoney(t, "0.10")
	for i := 0; i < 10; i++ {
		sum = sum.Add(tenth)
	}
	assert.True(t, sum.Equal(FromInt(1)))
}

func TestMoney_Comparisons(t *testing.T) {
	a := mustMoney(t, "5.00")
	b := mustMoney(t, "5")

	assert.True(t, a.Equal(b))
	assert.Equal(t, 0, a.Cmp(b))
	assert.True(t, a.IsPositive())
	assert.False(t, a.IsNegative())
	assert.True(t, Zero.IsZero())
	assert.Equal(t, -1, Zero.Cmp(a))
	assert.True(t, a.Neg().IsNegative())
}

func TestMoney_ValidScale(t *testing.T) {
	assert.True(t, mustMoney(t, "10.05").ValidScale("USD"))
	assert.True(t, mustMoney(t, "10").ValidScale("USD"))
	assert.False(t, mustMoney(t, "10.005").ValidScale("USD"))

	// Zero-decimal currencies
	assert.True(t, mustMoney(t, "1000").ValidScale("JPY"))
	assert.False(t, mustMoney(t, "1000.5").ValidScale("JPY"))

	// Three-decimal currencies
	assert.True(t, mustMoney(t, "1.005").ValidScale("KWD"))
}

func TestMoney_FromString_Invalid(t *testing.T) {
	_, err := FromString("not-a-number")
	assert.Error(t, err)
}

func TestMoney_JSON(t *testing.T) {
	m := mustMoney(t, "125.50")

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `"125.5"`, string(data))

	var decoded Money
	require.NoError(t, json.Unmarshal([]byte(`"42.01"`), &decoded))
	assert.True(t, decoded.Equal(mustMoney(t, "42.01")))

	// Bare literal also accepted
	require.NoError(t, json.Unmarshal([]byte(`7.25`), &decoded))
	assert.True(t, decoded.Equal(mustMoney(t, "7.25")))
}

func TestMoney_SQLRoundTrip(t *testing.T) {
	m := mustMoney(t, "99.99")

	v, err := m.Value()
	require.NoError(t, err)

	var scanned Money
	require.NoError(t, scanned.Scan(v))
	assert.True(t, scanned.Equal(m))
}
