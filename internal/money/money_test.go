package money

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Amount
		wantErr bool
	}{
		{"25000", FromRupees(25000), false},
		{"25000.00", FromRupees(25000), false},
		{"1250.50", 125050, false},
		{"0.01", 1, false},
		{"-50", FromRupees(-50), false},
		{"0.001", 0, true}, // sub-paise precision is rejected, not rounded
		{"abc", 0, true},
		{"92233720368547759", 0, true},  // paise value past int64, must error not wrap
		{"-92233720368547759", 0, true}, // same on the negative side
		{"92233720368547758080", 0, true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestStringRoundTrip(t *testing.T) {
	a := Amount(125050)
	assert.Equal(t, "1250.50", a.String())

	back, err := Parse(a.String())
	require.NoError(t, err)
	assert.Equal(t, a, back)
}

func TestJSON(t *testing.T) {
	out, err := json.Marshal(FromRupees(17000))
	require.NoError(t, err)
	assert.Equal(t, `"17000.00"`, string(out))

	var fromString Amount
	require.NoError(t, json.Unmarshal([]byte(`"17000"`), &fromString))
	assert.Equal(t, FromRupees(17000), fromString)

	var fromNumber Amount
	require.NoError(t, json.Unmarshal([]byte(`17000.50`), &fromNumber))
	assert.Equal(t, Amount(1700050), fromNumber)

	var bad Amount
	assert.Error(t, json.Unmarshal([]byte(`"17000.001"`), &bad))
}

func TestClampZero(t *testing.T) {
	assert.Equal(t, Zero, Amount(-500).ClampZero())
	assert.Equal(t, Amount(500), Amount(500).ClampZero())
}

func TestSummationStaysExact(t *testing.T) {
	// 0.10 added a thousand times must be exactly 100.00; this is the
	// drift class that float64 rupees would not survive.
	var sum Amount
	tenth, err := Parse("0.10")
	require.NoError(t, err)
	for i := 0; i < 1000; i++ {
		sum += tenth
	}
	assert.Equal(t, FromRupees(100), sum)
}
