package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrice_EspressoAndCappuccino(t *testing.T) {
	// 2x Espresso ($2.50, 3 min) + 1x Cappuccino ($3.50, 5 min)
	quote := Price([]Line{
		{Quantity: 2, UnitPriceCents: 250, PreparationTimeMinutes: 3},
		{Quantity: 1, UnitPriceCents: 350, PreparationTimeMinutes: 5},
	})

	assert.Equal(t, int64(850), quote.SubtotalCents)
	assert.Equal(t, int64(68), quote.TaxCents)
	assert.Equal(t, int64(918), quote.TotalCents)
	assert.Equal(t, 11, quote.EstimatedPreparationMinutes)

	assert.Len(t, quote.Lines, 2)
	assert.Equal(t, int64(500), quote.Lines[0].TotalPriceCents)
	assert.Equal(t, int64(350), quote.Lines[1].TotalPriceCents)
}

func TestPrice_TotalEqualsSubtotalPlusTax(t *testing.T) {
	quotes := []Quote{
		Price([]Line{{Quantity: 1, UnitPriceCents: 1}}),
		Price([]Line{{Quantity: 3, UnitPriceCents: 333}}),
		Price([]Line{{Quantity: 7, UnitPriceCents: 199}, {Quantity: 2, UnitPriceCents: 1050}}),
	}

	for _, q := range quotes {
		assert.Equal(t, q.SubtotalCents+q.TaxCents, q.TotalCents)

		var lineSum int64
		for _, line := range q.Lines {
			assert.Equal(t, line.UnitPriceCents*int64(line.Quantity), line.TotalPriceCents)
			lineSum += line.TotalPriceCents
		}
		assert.Equal(t, lineSum, q.SubtotalCents)
	}
}

func TestPrice_EmptyLines(t *testing.T) {
	quote := Price(nil)

	assert.Equal(t, int64(0), quote.SubtotalCents)
	assert.Equal(t, int64(0), quote.TaxCents)
	assert.Equal(t, int64(0), quote.TotalCents)
	assert.Equal(t, 0, quote.EstimatedPreparationMinutes)
}

func TestTax_HalfUpRounding(t *testing.T) {
	// 8% of 106 = 8.48 -> 8; 8% of 107 = 8.56 -> 9
	assert.Equal(t, int64(8), Tax(106))
	assert.Equal(t, int64(9), Tax(107))

	// 8% of 2506 = 200.48 -> 200; 8% of 2507 = 200.56 -> 201
	assert.Equal(t, int64(200), Tax(2506))
	assert.Equal(t, int64(201), Tax(2507))

	assert.Equal(t, int64(0), Tax(0))
	assert.Equal(t, int64(1), Tax(7)) // 0.56 -> 1
}
