package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Round rounds to cents, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Due returns total - paid without clamping.
func Due(total, paid decimal.Decimal) decimal.Decimal {
	return Round(total.Sub(paid))
}

// ClampedDue returns max(total - paid, 0).
func ClampedDue(total, paid decimal.Decimal) decimal.Decimal {
	due := Due(total, paid)
	if due.IsNegative() {
		return decimal.Zero
	}
	return due
}

// Percent returns p% of amount.
func Percent(amount decimal.Decimal, p int) decimal.Decimal {
	return Round(amount.Mul(decimal.NewFromInt(int64(p))).Div(hundred))
}
