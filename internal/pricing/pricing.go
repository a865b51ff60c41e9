package pricing

// All amounts are fixed-point currency expressed in cents.

// taxRatePercent is the flat sales tax applied to every order.
const taxRatePercent = 8

type Line struct {
	Quantity               int
	UnitPriceCents         int64
	PreparationTimeMinutes int
}

type PricedLine struct {
	Quantity        int
	UnitPriceCents  int64
	TotalPriceCents int64
}

type Quote struct {
	Lines                       []PricedLine
	SubtotalCents               int64
	TaxCents                    int64
	TotalCents                  int64
	EstimatedPreparationMinutes int
}

// Price computes line totals, subtotal, tax and total for the given
// lines, plus the summed preparation time. Quantities are assumed to
// be validated (>= 1) by the caller.
func Price(lines []Line) Quote {
	priced := make([]PricedLine, 0, len(lines))
	var subtotal int64
	var prepMinutes int

	for _, line := range lines {
		total := line.UnitPriceCents * int64(line.Quantity)
		priced = append(priced, PricedLine{
			Quantity:        line.Quantity,
			UnitPriceCents:  line.UnitPriceCents,
			TotalPriceCents: total,
		})
		subtotal += total
		prepMinutes += line.PreparationTimeMinutes * line.Quantity
	}

	tax := Tax(subtotal)

	return Quote{
		Lines:                       priced,
		SubtotalCents:               subtotal,
		TaxCents:                    tax,
		TotalCents:                  subtotal + tax,
		EstimatedPreparationMinutes: prepMinutes,
	}
}

// Tax returns the tax on a subtotal, rounded half-up to the cent.
func Tax(subtotalCents int64) int64 {
	return (subtotalCents*taxRatePercent + 50) / 100
}
