// Package loyalty keeps the per-customer points balance. The balance never
// goes negative and redemption is all-or-nothing.
package loyalty

import "github.com/kirinyoku/cinebook/internal/domain"

const (
	// PointValueCents is the discount one redeemed point buys.
	PointValueCents int64 = 10

	CheckInBonus int64 = 5
)

// AddPoints credits n points. Non-positive n is a no-op.
func AddPoints(c *domain.Customer, n int64) {
	if n <= 0 {
		return
	}
	c.Points += n
}

// TryRedeemPoints debits n points if the balance covers them.
func TryRedeemPoints(c *domain.Customer, n int64) bool {
	if n <= 0 || c.Points < n {
		return false
	}
	c.Points -= n
	return true
}

// Revoke takes back up to n previously granted points, never below zero.
func Revoke(c *domain.Customer, n int64) {
	if n <= 0 {
		return
	}
	c.Points -= min(n, c.Points)
}

// EarnedFor is one point per whole currency unit charged.
func EarnedFor(chargedCents int64) int64 {
	if chargedCents <= 0 {
		return 0
	}
	return chargedCents / 100
}

// DiscountFor is the value of n redeemed points.
func DiscountFor(n int64) int64 {
	return n * PointValueCents
}
