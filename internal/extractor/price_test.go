package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomepromo/backend/internal/domain"
)

func TestNormalizePrice(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"comma decimal with thousands", "R$ 1.234,56", "1234.56"},
		{"comma decimal", "R$ 99,90", "99.90"},
		{"thousands only", "1.234", "1234"},
		{"millions with thousands only", "R$ 1.234.567", "1234567"},
		{"no space after symbol", "R$1.299,00", "1299.00"},
		{"non-breaking space", "R$\u00a02.499,90", "2499.90"},
		{"dot decimal", "$19.99", "19.99"},
		{"plain integer", "350", "350"},
		{"surrounding whitespace", "  R$ 10,5  ", "10.5"},
		{"already canonical", "1234.56", "1234.56"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePrice(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizePrice_Idempotent(t *testing.T) {
	inputs := []string{"R$ 1.234,56", "R$ 99,90", "1.234", "R$ 1.234.567", "$19.99", "0,99"}

	for _, in := range inputs {
		once, err := NormalizePrice(in)
		require.NoError(t, err)

		twice, err := NormalizePrice(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice, "input %q", in)
	}
}

func TestNormalizePrice_BlankPassesThrough(t *testing.T) {
	for _, in := range []string{"", "   "} {
		got, err := NormalizePrice(in)
		require.NoError(t, err)
		assert.Equal(t, in, got)
	}
}

func TestNormalizePrice_Invalid(t *testing.T) {
	inputs := []string{"R$", "grátis", "1.23.45", "R$ -5,00", "12,34,56"}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			got, err := NormalizePrice(in)
			assert.ErrorIs(t, err, domain.ErrFormat)
			assert.Empty(t, got)
		})
	}
}
