package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestVaultCountTotal(t *testing.T) {
	tests := []struct {
		name  string
		count VaultCount
		want  string
	}{
		{
			name:  "empty count is zero",
			count: VaultCount{},
			want:  "0",
		},
		{
			name: "bills only",
			count: VaultCount{
				Bills: map[string]int{"500": 2, "200": 1, "50": 3},
			},
			want: "1350",
		},
		{
			name: "fractional coin denominations",
			count: VaultCount{
				Coins: map[string]int{"0.5": 3, "10": 2},
			},
			want: "21.5",
		},
		{
			name: "bills and coins combined",
			count: VaultCount{
				Bills: map[string]int{"100": 5},
				Coins: map[string]int{"5": 4, "0.5": 1},
			},
			want: "520.5",
		},
		{
			name: "zero and negative counts ignored",
			count: VaultCount{
				Bills: map[string]int{"500": 0, "100": -3, "20": 2},
			},
			want: "40",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want, err := decimal.NewFromString(tt.want)
			assert.NoError(t, err)
			assert.True(t, tt.count.Total().Equal(want),
				"got %s, want %s", tt.count.Total(), want)
		})
	}
}

func TestVaultCountNormalize(t *testing.T) {
	count := VaultCount{
		Bills: map[string]int{"500": -2, "100": 3},
		Coins: map[string]int{"1": -1},
	}

	norm := count.Normalize()

	assert.Equal(t, 0, norm.Bills["500"])
	assert.Equal(t, 3, norm.Bills["100"])
	assert.Equal(t, 0, norm.Coins["1"])
	// the original is untouched
	assert.Equal(t, -2, count.Bills["500"])
}

func TestVaultCountValidate(t *testing.T) {
	valid := VaultCount{
		Bills: map[string]int{"500": 1},
		Coins: map[string]int{"0.5": 2},
	}
	assert.NoError(t, valid.Validate())

	invalid := VaultCount{
		Bills: map[string]int{"five hundred": 1},
	}
	assert.True(t, errors.Is(invalid.Validate(), ErrInvalidDenomination))
}
