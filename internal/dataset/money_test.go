package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"$1,234.50", 1234.50},
		{"500", 500},
		{" $2,000,000 ", 2000000},
		{"", 0},
		{"N/A", 0},
		{"nan", 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ParseMoney(c.in), "input %q", c.in)
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$1,234.50", FormatMoney(1234.5))
	assert.Equal(t, "$500.00", FormatMoney(500))
	assert.Equal(t, "$0.00", FormatMoney(0))
	assert.Equal(t, "$2,000,000.00", FormatMoney(2000000))
}
