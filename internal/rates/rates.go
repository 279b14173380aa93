package rates

import (
	"strings"
	"time"

	"github.com/mperera91/hotelbooking/config"
)

// Resolver answers discount-percentage-by-code and tax-rate-by-jurisdiction
// lookups from config-seeded tables. Rates are basis points.
type Resolver struct {
	discounts     map[string]discountCode
	taxes         map[string]int64
	defaultTaxBps int64
}

type discountCode struct {
	bps       int64
	expiresAt time.Time
}

func NewResolver(cfg config.RatesConfig) *Resolver {
	r := &Resolver{
		discounts:     make(map[string]discountCode),
		taxes:         make(map[string]int64),
		defaultTaxBps: cfg.DefaultTaxBps,
	}
	for _, d := range cfg.Discounts {
		code := discountCode{bps: d.PercentBps}
		if d.ValidThrough != "" {
			if t, err := time.Parse("2006-01-02", d.ValidThrough); err == nil {
				// Inclusive last day: the code works until midnight after it.
				code.expiresAt = t.AddDate(0, 0, 1)
			}
		}
		r.discounts[normalize(d.Code)] = code
	}
	for _, t := range cfg.Taxes {
		r.taxes[normalize(t.Jurisdiction)] = t.PercentBps
	}
	return r
}

// DiscountBps resolves a discount code. Unknown or expired codes resolve to
// zero rather than an error, matching the tolerant form behaviour.
func (r *Resolver) DiscountBps(code string, now time.Time) int64 {
	if code == "" {
		return 0
	}
	d, ok := r.discounts[normalize(code)]
	if !ok {
		return 0
	}
	if !d.expiresAt.IsZero() && !now.Before(d.expiresAt) {
		return 0
	}
	return d.bps
}

// TaxBps resolves the tax rate for a jurisdiction, falling back to the
// configured default (zero when unset).
func (r *Resolver) TaxBps(jurisdiction string) int64 {
	if bps, ok := r.taxes[normalize(jurisdiction)]; ok {
		return bps
	}
	return r.defaultTaxBps
}

func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
