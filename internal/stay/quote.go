package stay

// Quote is the derived pricing breakdown for a stay. All amounts are integer
// minor units (cents); percentages are basis points so no floating point
// touches money.
type Quote struct {
	Nights          int   `json:"nights"`
	SubtotalCents   int64 `json:"subtotal_cents"`
	DiscountCents   int64 `json:"discount_cents"`
	TaxesCents      int64 `json:"taxes_cents"`
	TotalCents      int64 `json:"total_cents"`
	PaidCents       int64 `json:"paid_cents"`
	BalanceDueCents int64 `json:"balance_due_cents"`
}

// ComputeQuote derives a quote from a validated date range, the nightly rate
// and the resolved discount/tax rates. It never fails: amounts that would go
// negative are clamped to zero and reported back as advisories so the caller
// can tell an adjusted quote from a rejected one.
func ComputeQuote(dr DateRange, nightlyRateCents, discountBps, taxBps, paidCents int64) (Quote, []FieldError) {
	var advisories []FieldError

	nights := dr.Nights()
	subtotal := nightlyRateCents * int64(nights)
	discount := percentOf(subtotal, discountBps)
	taxes := percentOf(subtotal-discount, taxBps)

	total := subtotal - discount + taxes
	if total < 0 {
		advisories = append(advisories, FieldError{
			Field:   "total",
			Code:    CodeNegativeAmount,
			Message: "total amount clamped to zero",
		})
		total = 0
	}

	balance := total - paidCents
	if balance < 0 {
		advisories = append(advisories, FieldError{
			Field:   "balance_due",
			Code:    CodeNegativeAmount,
			Message: "balance due clamped to zero",
		})
		balance = 0
	}

	return Quote{
		Nights:          nights,
		SubtotalCents:   subtotal,
		DiscountCents:   discount,
		TaxesCents:      taxes,
		TotalCents:      total,
		PaidCents:       paidCents,
		BalanceDueCents: balance,
	}, advisories
}

// percentOf applies a basis-point rate to an amount, rounding half up so the
// result is always a whole number of minor units.
func percentOf(amountCents, bps int64) int64 {
	if amountCents <= 0 || bps <= 0 {
		return 0
	}
	return (amountCents*bps + 5000) / 10000
}
